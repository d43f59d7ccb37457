package specialist

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/chatfood/agent/contract"
	"github.com/tanpawarit/chatfood/agent/observers"
)

// DefaultRecommendationUserID is the sample customer whose history seeds the
// greeting.
const DefaultRecommendationUserID = "user123"

type recommenderImpl struct {
	runner  compose.Runnable[map[string]any, *schema.Message]
	catalog contractx.Catalog
	userID  string
}

func newRecommender(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	template string,
	catalog contractx.Catalog,
	userID string,
) (*recommenderImpl, error) {
	if catalog == nil {
		return nil, fmt.Errorf("%w: catalog is required for recommender", contractx.ErrValidation)
	}
	if strings.TrimSpace(userID) == "" {
		userID = DefaultRecommendationUserID
	}
	runner, err := compileTextLLMGraph(ctx, chatModel, template, "recommender.model_graph", observers.NodeRecommenderModel)
	if err != nil {
		return nil, fmt.Errorf("%w: compile recommender graph: %v", contractx.ErrModelInvoke, err)
	}
	return &recommenderImpl{runner: runner, catalog: catalog, userID: userID}, nil
}

// Recommend writes a personalised greeting from the user's delivered orders
// and today's offers. It never calls tools.
func (r *recommenderImpl) Recommend(ctx context.Context) (string, error) {
	history := r.catalog.GetOrderHistory(ctx, r.userID)
	offers := r.catalog.SpecialOffers()

	ctx, opts := observers.InvokeOptions(ctx)
	msg, err := r.runner.Invoke(ctx, map[string]any{
		"history": formatHistory(history),
		"offers":  formatOffers(offers),
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: recommender invoke: %v", contractx.ErrModelInvoke, err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return "", fmt.Errorf("%w: recommender returned an empty greeting", contractx.ErrSchemaViolation)
	}
	return strings.TrimSpace(msg.Content), nil
}

func formatHistory(names []string) string {
	if len(names) == 0 {
		return "بدون سفارش قبلی"
	}
	return strings.Join(names, "، ")
}

func formatOffers(offers []contractx.Offer) string {
	if len(offers) == 0 {
		return "پیشنهاد ویژه‌ای وجود ندارد"
	}
	parts := make([]string, 0, len(offers))
	for _, o := range offers {
		parts = append(parts, fmt.Sprintf("%s از %s: %s", o.Name, o.Restaurant, o.Deal))
	}
	return strings.Join(parts, "؛ ")
}
