package observers

import (
	"context"

	einocb "github.com/cloudwego/eino/callbacks"
)

// Node names shared by the turn graph and the agent graph. Nodes are added
// with compose.WithNodeName so callbacks see these values in RunInfo.Name.
const (
	NodeAppendMessage = "append_message"
	NodeRouteTurn     = "route_turn"
	NodeRunAgent      = "run_agent"
	NodeRenderReply   = "render_reply"
	NodeAgentModel    = "agent_model"
	NodeExecuteTool   = "execute_tool"

	NodeRouterModel      = "router_model"
	NodeRecommenderModel = "recommender_model"
)

// StepReporter receives coarse progress labels while a turn runs.
type StepReporter func(label string)

var stepLabels = map[string]string{
	NodeRouteTurn:   "در حال تشخیص درخواست شما...",
	NodeRunAgent:    "در حال پردازش درخواست...",
	NodeAgentModel:  "در حال فکر کردن...",
	NodeExecuteTool: "در حال جستجو...",
	NodeRenderReply: "در حال آماده‌سازی پاسخ...",
}

// StepLabel returns the label for a node, or "" when the node is silent.
func StepLabel(node string) string {
	return stepLabels[node]
}

type reporterKey struct{}

func WithStepReporter(ctx context.Context, r StepReporter) context.Context {
	if r == nil {
		return ctx
	}
	return context.WithValue(ctx, reporterKey{}, r)
}

func StepReporterFrom(ctx context.Context) StepReporter {
	r, _ := ctx.Value(reporterKey{}).(StepReporter)
	return r
}

// newStepHandler reports a label whenever a known node starts.
func newStepHandler(report StepReporter) einocb.Handler {
	return einocb.NewHandlerBuilder().
		OnStartFn(func(ctx context.Context, info *einocb.RunInfo, _ einocb.CallbackInput) context.Context {
			if info == nil {
				return ctx
			}
			if label := StepLabel(info.Name); label != "" {
				report(label)
			}
			return ctx
		}).
		Build()
}
