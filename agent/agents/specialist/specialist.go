package specialist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	contractx "github.com/tanpawarit/chatfood/agent/contract"
	"github.com/tanpawarit/chatfood/agent/observers"
	toolx "github.com/tanpawarit/chatfood/agent/tool"
	logx "github.com/tanpawarit/chatfood/pkg/logger"
)

const (
	DefaultMaxIterations = 10

	skippedToolCall = "skipped: only the first tool call of a step is executed"
)

var _ contractx.Agent = (*specialistImpl)(nil)

// specialistImpl is one parameterised agent: a system prompt, a tool subset
// and the model/tool loop compiled as an eino graph.
type specialistImpl struct {
	name   contractx.AgentName
	runner compose.Runnable[contractx.AgentRequest, contractx.AgentResult]
}

// agentLoop holds what the loop nodes need; per-run data lives in agentState.
type agentLoop struct {
	name          contractx.AgentName
	systemPrompt  string
	executor      toolx.Executor
	maxIterations int
}

func newSpecialist(
	ctx context.Context,
	name contractx.AgentName,
	chatModel einomodel.ToolCallingChatModel,
	systemPrompt string,
	deps toolx.Deps,
	maxIterations int,
) (*specialistImpl, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("%w: chat model is required for agent=%s", contractx.ErrValidation, name)
	}
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}

	infos, executor := toolx.BuildForAgent(name, deps)
	if len(infos) == 0 {
		return nil, fmt.Errorf("%w: agent=%s has no tools", contractx.ErrValidation, name)
	}
	toolModel, err := chatModel.WithTools(infos)
	if err != nil {
		return nil, fmt.Errorf("%w: bind tools for agent=%s: %v", contractx.ErrModelInvoke, name, err)
	}

	loop := &agentLoop{
		name:          name,
		systemPrompt:  systemPrompt,
		executor:      executor,
		maxIterations: maxIterations,
	}
	runner, err := compileAgentGraph(ctx, toolModel, loop)
	if err != nil {
		return nil, fmt.Errorf("%w: compile agent=%s: %v", contractx.ErrModelInvoke, name, err)
	}

	return &specialistImpl{name: name, runner: runner}, nil
}

func (s *specialistImpl) Name() contractx.AgentName {
	return s.name
}

// Run drives the loop until the model answers without tool calls. Messages
// produced along the way are appended to req.Transcript as they happen, so
// they stay there when the run fails.
func (s *specialistImpl) Run(ctx context.Context, req contractx.AgentRequest) (contractx.AgentResult, error) {
	ctx, opts := observers.InvokeOptions(ctx)
	out, err := s.runner.Invoke(ctx, req, opts...)
	if err != nil {
		return contractx.AgentResult{}, err
	}
	return out, nil
}

func (l *agentLoop) bindTranscript(_ context.Context, in contractx.AgentRequest, st *agentState) (contractx.AgentRequest, error) {
	st.transcript = in.Transcript
	return in, nil
}

func (l *agentLoop) prepare(_ context.Context, in contractx.AgentRequest) ([]*schema.Message, error) {
	if in.Transcript == nil {
		return nil, fmt.Errorf("%w: transcript is required", contractx.ErrValidation)
	}
	if len(in.Transcript.Messages()) == 0 {
		return nil, fmt.Errorf("%w: transcript is empty", contractx.ErrValidation)
	}
	return in.Transcript.Messages(), nil
}

// beforeModel enforces the iteration cap and feeds the model the system
// prompt followed by the whole transcript.
func (l *agentLoop) beforeModel(_ context.Context, _ []*schema.Message, st *agentState) ([]*schema.Message, error) {
	st.iterations++
	if st.iterations > l.maxIterations {
		return nil, fmt.Errorf("%w: agent=%s limit=%d", contractx.ErrMaxIterationsExceeded, l.name, l.maxIterations)
	}

	history := st.transcript.Messages()
	msgs := make([]*schema.Message, 0, len(history)+1)
	if l.systemPrompt != "" {
		msgs = append(msgs, schema.SystemMessage(l.systemPrompt))
	}
	return append(msgs, history...), nil
}

func (l *agentLoop) afterModel(_ context.Context, out *schema.Message, st *agentState) (*schema.Message, error) {
	if out == nil {
		return nil, fmt.Errorf("%w: agent=%s got no model response", contractx.ErrSchemaViolation, l.name)
	}
	// Some providers omit tool call ids; every call needs one to pair with
	// its tool message.
	for i := range out.ToolCalls {
		if strings.TrimSpace(out.ToolCalls[i].ID) == "" {
			out.ToolCalls[i].ID = "call_" + uuid.NewString()
		}
	}
	st.transcript.Append(out)

	logx.Debug().
		Str("agent", string(l.name)).
		Int("iteration", st.iterations).
		Int("tool_calls", len(out.ToolCalls)).
		Msg("agent: model step")
	return out, nil
}

// executeTool runs the first tool call of msg. Every other call gets a
// "skipped" tool message so each call id is answered exactly once.
func (l *agentLoop) executeTool(ctx context.Context, msg *schema.Message) ([]*schema.Message, error) {
	calls := msg.ToolCalls
	first := calls[0]
	if len(calls) > 1 {
		logx.Warn().
			Str("agent", string(l.name)).
			Int("tool_calls", len(calls)).
			Str("executed", first.Function.Name).
			Msg("agent: model requested several tool calls; executing only the first")
	}

	var transcript contractx.Transcript
	if err := compose.ProcessState(ctx, func(_ context.Context, st *agentState) error {
		transcript = st.transcript
		return nil
	}); err != nil {
		return nil, fmt.Errorf("read agent state: %w", err)
	}

	result, runErr := l.runCall(ctx, first)

	replies := make([]*schema.Message, 0, len(calls))
	if runErr != nil {
		replies = append(replies, toolMessage(first, "error: "+runErr.Error()))
	} else {
		replies = append(replies, toolMessage(first, result.ModelContent()))
	}
	for _, call := range calls[1:] {
		replies = append(replies, toolMessage(call, skippedToolCall))
	}
	transcript.Append(replies...)

	if runErr != nil {
		return nil, runErr
	}

	if result.Structured {
		if err := compose.ProcessState(ctx, func(_ context.Context, st *agentState) error {
			st.items = append([]contractx.FoodItem(nil), result.Items...)
			st.structured = true
			return nil
		}); err != nil {
			return nil, fmt.Errorf("write agent state: %w", err)
		}
	}
	return replies, nil
}

func (l *agentLoop) runCall(ctx context.Context, call schema.ToolCall) (contractx.ToolResult, error) {
	req, err := toToolRequest(call)
	if err != nil {
		return contractx.ToolResult{}, err
	}
	result, err := l.executor(ctx, req)
	if err != nil {
		logx.Error().Err(err).Str("agent", string(l.name)).Str("tool", req.Tool).Msg("agent: tool failed")
		return contractx.ToolResult{}, err
	}
	return result, nil
}

func (l *agentLoop) finish(ctx context.Context, msg *schema.Message) (contractx.AgentResult, error) {
	text := strings.TrimSpace(msg.Content)
	if text == "" {
		return contractx.AgentResult{}, fmt.Errorf("%w: agent=%s returned an empty reply", contractx.ErrSchemaViolation, l.name)
	}

	out := contractx.AgentResult{Agent: l.name, Text: text}
	if err := compose.ProcessState(ctx, func(_ context.Context, st *agentState) error {
		out.Items = st.items
		out.Structured = st.structured
		out.Iterations = st.iterations
		return nil
	}); err != nil {
		return contractx.AgentResult{}, fmt.Errorf("read agent state: %w", err)
	}
	return out, nil
}

func toToolRequest(call schema.ToolCall) (contractx.ToolRequest, error) {
	tool := strings.TrimSpace(call.Function.Name)
	if tool == "" {
		return contractx.ToolRequest{}, fmt.Errorf("%w: tool call name is empty", contractx.ErrSchemaViolation)
	}

	args := map[string]any{}
	if rawArgs := strings.TrimSpace(call.Function.Arguments); rawArgs != "" {
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			return contractx.ToolRequest{}, fmt.Errorf("%w: invalid tool args for tool=%s: %v", contractx.ErrSchemaViolation, tool, err)
		}
	}

	return contractx.ToolRequest{CallID: call.ID, Tool: tool, Args: args}, nil
}

func toolMessage(call schema.ToolCall, content string) *schema.Message {
	msg := schema.ToolMessage(content, call.ID)
	msg.ToolName = call.Function.Name
	return msg
}
