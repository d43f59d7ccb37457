package tool

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/chatfood/agent/contract"
	logx "github.com/tanpawarit/chatfood/pkg/logger"
)

const (
	ToolGetOrderStatus     = "get_order_status_tool"
	ToolCancelOrder        = "cancel_order_tool"
	ToolSimpleFoodSearch   = "simple_food_search_tool"
	ToolAdvancedFoodSearch = "advanced_food_search_tool"
	ToolViewCart           = "view_cart_tool"
	ToolKnowledgeRetriever = "knowledge_base_retriever_tool"
	ToolWebSearch          = "web_search_tool"

	// ViewCartSentinel is returned by view_cart_tool; the turn renders the
	// session cart when an agent's final text equals it.
	ViewCartSentinel = "ACTION:VIEW_CART"

	emptySearchResult    = "نتیجه‌ای یافت نشد."
	emptyKnowledgeResult = "اطلاعاتی در پایگاه دانش یافت نشد."
)

// Deps are the collaborators tools delegate to.
type Deps struct {
	Catalog   contractx.Catalog
	Knowledge contractx.Knowledge
}

type Executor func(ctx context.Context, req contractx.ToolRequest) (contractx.ToolResult, error)

type handler func(ctx context.Context, deps Deps, args map[string]any) (contractx.ToolResult, error)

var handlers = map[string]handler{
	ToolGetOrderStatus:     getOrderStatus,
	ToolCancelOrder:        cancelOrder,
	ToolSimpleFoodSearch:   simpleFoodSearch,
	ToolAdvancedFoodSearch: advancedFoodSearch,
	ToolViewCart:           viewCart,
	ToolKnowledgeRetriever: knowledgeRetriever,
	ToolWebSearch:          webSearch,
}

// BuildForAgent returns the tool schemas bound to agent and an executor that
// only runs those tools.
func BuildForAgent(agent contractx.AgentName, deps Deps) ([]*schema.ToolInfo, Executor) {
	infos := InfosForAgent(agent)
	return infos, NewExecutor(agent, infos, deps)
}

func NewExecutor(agent contractx.AgentName, infos []*schema.ToolInfo, deps Deps) Executor {
	bound := make(map[string]struct{}, len(infos))
	for _, info := range infos {
		if info != nil {
			bound[info.Name] = struct{}{}
		}
	}

	return func(ctx context.Context, req contractx.ToolRequest) (contractx.ToolResult, error) {
		if _, ok := bound[req.Tool]; !ok {
			return contractx.ToolResult{}, fmt.Errorf("%w: tool=%s agent=%s", contractx.ErrToolNotBound, req.Tool, agent)
		}
		h, ok := handlers[req.Tool]
		if !ok {
			return contractx.ToolResult{}, fmt.Errorf("%w: tool=%s has no handler", contractx.ErrToolNotBound, req.Tool)
		}

		logx.Debug().Str("agent", string(agent)).Str("tool", req.Tool).Interface("args", req.Args).Msg("tool: execute")
		out, err := h(ctx, deps, req.Args)
		if err != nil {
			return contractx.ToolResult{}, fmt.Errorf("%w: tool=%s: %w", contractx.ErrToolExecution, req.Tool, err)
		}
		out.Tool = req.Tool
		out.CallID = req.CallID
		return out, nil
	}
}

// InfosForAgent lists the schemas bound to agent, in a stable order.
func InfosForAgent(agent contractx.AgentName) []*schema.ToolInfo {
	switch agent {
	case contractx.AgentOrderManager:
		return []*schema.ToolInfo{getOrderStatusInfo, cancelOrderInfo}
	case contractx.AgentFoodSearch:
		return []*schema.ToolInfo{simpleFoodSearchInfo}
	case contractx.AgentFilter:
		return []*schema.ToolInfo{advancedFoodSearchInfo}
	case contractx.AgentCart:
		return []*schema.ToolInfo{viewCartInfo}
	case contractx.AgentInformation:
		return []*schema.ToolInfo{knowledgeRetrieverInfo, webSearchInfo}
	default:
		return nil
	}
}

var (
	getOrderStatusInfo = &schema.ToolInfo{
		Name: ToolGetOrderStatus,
		Desc: "وضعیت یک سفارش را با استفاده از شناسه آن برمی‌گرداند.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"order_id": {Type: schema.Integer, Desc: "شناسه عددی سفارش", Required: true},
		}),
	}
	cancelOrderInfo = &schema.ToolInfo{
		Name: ToolCancelOrder,
		Desc: "یک سفارش را لغو می‌کند.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"order_id": {Type: schema.Integer, Desc: "شناسه عددی سفارش", Required: true},
		}),
	}
	simpleFoodSearchInfo = &schema.ToolInfo{
		Name: ToolSimpleFoodSearch,
		Desc: "برای جستجوی ساده غذاها بر اساس نام یا دسته‌بندی استفاده می‌شود.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"query": {Type: schema.String, Desc: "نام یا دسته‌بندی غذا", Required: true},
		}),
	}
	advancedFoodSearchInfo = &schema.ToolInfo{
		Name: ToolAdvancedFoodSearch,
		Desc: "برای جستجوی غذاها با شرایط خاص مانند نام، دسته‌بندی و حداکثر قیمت استفاده می‌شود.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"query":     {Type: schema.String, Desc: "نام یا دسته‌بندی غذا", Required: true},
			"max_price": {Type: schema.Number, Desc: "حداکثر قیمت به تومان (اختیاری)"},
		}),
	}
	viewCartInfo = &schema.ToolInfo{
		Name:        ToolViewCart,
		Desc:        "زمانی که کاربر می‌خواهد سبد خرید خود را ببیند، از این ابزار استفاده کن.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
	}
	knowledgeRetrieverInfo = &schema.ToolInfo{
		Name: ToolKnowledgeRetriever,
		Desc: "برای یافتن اطلاعات در مورد غذاها از پایگاه دانش محلی استفاده می‌کند.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"query": {Type: schema.String, Desc: "پرسش درباره غذا", Required: true},
		}),
	}
	webSearchInfo = &schema.ToolInfo{
		Name: ToolWebSearch,
		Desc: "زمانی که دانش محلی کافی نیست، برای جستجوی اطلاعات در اینترنت استفاده می‌شود.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"query": {Type: schema.String, Desc: "عبارت جستجو", Required: true},
		}),
	}
)
