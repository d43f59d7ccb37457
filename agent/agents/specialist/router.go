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
	logx "github.com/tanpawarit/chatfood/pkg/logger"
)

type routerImpl struct {
	runner compose.Runnable[map[string]any, routerLLMOutput]
}

type routerLLMOutput struct {
	Destination string `json:"destination"`
}

func newRouter(ctx context.Context, chatModel einomodel.BaseChatModel, systemPrompt, inputTemplate string) (*routerImpl, error) {
	runner, err := compileStructuredLLMGraph[routerLLMOutput](ctx, chatModel, systemPrompt, inputTemplate, "router.model_graph", observers.NodeRouterModel)
	if err != nil {
		return nil, fmt.Errorf("%w: compile router graph: %v", contractx.ErrModelInvoke, err)
	}
	return &routerImpl{runner: runner}, nil
}

// Route classifies the newest message of history. Earlier messages are
// flattened to "role: text" lines as context.
func (r *routerImpl) Route(ctx context.Context, history []*schema.Message) (contractx.RouterDecision, error) {
	last, earlier := splitLast(history)
	if last == nil || strings.TrimSpace(last.Content) == "" {
		return contractx.RouterDecision{}, fmt.Errorf("%w: router needs a non-empty last message", contractx.ErrValidation)
	}

	ctx, opts := observers.InvokeOptions(ctx)
	out, err := r.runner.Invoke(ctx, map[string]any{
		"history": flattenHistory(earlier),
		"input":   last.Content,
	}, opts...)
	if err != nil {
		return contractx.RouterDecision{}, fmt.Errorf("%w: router invoke: %v", contractx.ErrModelInvoke, err)
	}

	dest, err := contractx.ParseAgentName(out.Destination)
	if err != nil {
		return contractx.RouterDecision{}, err
	}

	logx.Debug().Str("destination", string(dest)).Int("history", len(earlier)).Msg("router: decision")
	return contractx.RouterDecision{Destination: dest}, nil
}

func splitLast(history []*schema.Message) (*schema.Message, []*schema.Message) {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i] != nil {
			return history[i], history[:i]
		}
	}
	return nil, nil
}

func flattenHistory(msgs []*schema.Message) string {
	lines := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if m == nil {
			continue
		}
		content := strings.TrimSpace(m.Content)
		if content == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", m.Role, content))
	}
	return strings.Join(lines, "\n")
}
