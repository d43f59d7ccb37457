package observers

import (
	"context"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/compose"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"
)

// NewAllCallbacks aggregates the model logger and, when ctx carries a
// StepReporter, the step handler.
func NewAllCallbacks(ctx context.Context) []einocb.Handler {
	handlers := []einocb.Handler{
		callbackHelper.NewHandlerHelper().
			ChatModel(newModelHandler()).
			Handler(),
	}
	if report := StepReporterFrom(ctx); report != nil {
		handlers = append(handlers, newStepHandler(report))
	}
	return handlers
}

type attachedKey struct{}

// InvokeOptions returns the callback option for a runner's Invoke and a ctx
// marked as carrying it. Graphs invoked from inside that run inherit the
// handlers through ctx, so for a marked ctx no option is returned.
func InvokeOptions(ctx context.Context) (context.Context, []compose.Option) {
	if attached, _ := ctx.Value(attachedKey{}).(bool); attached {
		return ctx, nil
	}
	ctx = context.WithValue(ctx, attachedKey{}, true)
	return ctx, []compose.Option{compose.WithCallbacks(NewAllCallbacks(ctx)...)}
}
