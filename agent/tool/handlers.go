package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	contractx "github.com/tanpawarit/chatfood/agent/contract"
)

func getOrderStatus(ctx context.Context, deps Deps, args map[string]any) (contractx.ToolResult, error) {
	id, err := intArg(args, "order_id")
	if err != nil {
		return contractx.ToolResult{Error: err.Error()}, nil
	}
	return contractx.ToolResult{Content: deps.Catalog.GetOrderStatus(ctx, id)}, nil
}

func cancelOrder(ctx context.Context, deps Deps, args map[string]any) (contractx.ToolResult, error) {
	id, err := intArg(args, "order_id")
	if err != nil {
		return contractx.ToolResult{Error: err.Error()}, nil
	}
	return contractx.ToolResult{Content: deps.Catalog.CancelOrder(ctx, id)}, nil
}

func simpleFoodSearch(ctx context.Context, deps Deps, args map[string]any) (contractx.ToolResult, error) {
	query, err := stringArg(args, "query")
	if err != nil {
		return contractx.ToolResult{Error: err.Error()}, nil
	}
	return foodResult(deps.Catalog.SearchFood(ctx, query)), nil
}

func advancedFoodSearch(ctx context.Context, deps Deps, args map[string]any) (contractx.ToolResult, error) {
	query, err := stringArg(args, "query")
	if err != nil {
		return contractx.ToolResult{Error: err.Error()}, nil
	}
	maxPrice, err := optionalFloatArg(args, "max_price")
	if err != nil {
		return contractx.ToolResult{Error: err.Error()}, nil
	}
	return foodResult(deps.Catalog.SearchAndFilterFood(ctx, query, maxPrice)), nil
}

func viewCart(context.Context, Deps, map[string]any) (contractx.ToolResult, error) {
	return contractx.ToolResult{Content: ViewCartSentinel}, nil
}

func knowledgeRetriever(ctx context.Context, deps Deps, args map[string]any) (contractx.ToolResult, error) {
	query, err := stringArg(args, "query")
	if err != nil {
		return contractx.ToolResult{Error: err.Error()}, nil
	}
	passages, err := deps.Knowledge.RetrieveLocal(ctx, query)
	if err != nil {
		return contractx.ToolResult{}, err
	}
	if len(passages) == 0 {
		return contractx.ToolResult{Content: emptyKnowledgeResult}, nil
	}
	parts := make([]string, 0, len(passages))
	for _, p := range passages {
		parts = append(parts, p.Content)
	}
	return contractx.ToolResult{Content: strings.Join(parts, "\n\n")}, nil
}

func webSearch(ctx context.Context, deps Deps, args map[string]any) (contractx.ToolResult, error) {
	query, err := stringArg(args, "query")
	if err != nil {
		return contractx.ToolResult{Error: err.Error()}, nil
	}
	out, err := deps.Knowledge.SearchWeb(ctx, query)
	if err != nil {
		return contractx.ToolResult{}, err
	}
	return contractx.ToolResult{Content: out}, nil
}

func foodResult(items []contractx.FoodItem) contractx.ToolResult {
	return contractx.ToolResult{
		Content:    FormatFoodItems(items),
		Items:      items,
		Structured: true,
	}
}

// FormatFoodItems renders one "نام: X, رستوران: Y, قیمت: Z" line per item.
func FormatFoodItems(items []contractx.FoodItem) string {
	if len(items) == 0 {
		return emptySearchResult
	}
	lines := make([]string, 0, len(items))
	for _, item := range items {
		if item.IsError() {
			lines = append(lines, item.Error)
			continue
		}
		lines = append(lines, fmt.Sprintf("نام: %s, رستوران: %s, قیمت: %s",
			item.Name, item.Restaurant, strconv.FormatFloat(item.Price, 'f', -1, 64)))
	}
	return strings.Join(lines, "\n")
}

func stringArg(args map[string]any, key string) (string, error) {
	raw, ok := args[key]
	if !ok {
		return "", fmt.Errorf("%s is required", key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%s is empty", key)
	}
	return s, nil
}

func intArg(args map[string]any, key string) (int64, error) {
	raw, ok := args[key]
	if !ok {
		return 0, fmt.Errorf("%s is required", key)
	}
	f, err := toFloat(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	if math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	// float64(math.MaxInt64) rounds up to 2^63, which is already out of range.
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("%s is out of range", key)
	}
	return int64(f), nil
}

func optionalFloatArg(args map[string]any, key string) (*float64, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}
	f, err := toFloat(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", key)
	}
	return &f, nil
}

func toFloat(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		return 0, fmt.Errorf("unsupported type %T", raw)
	}
}
