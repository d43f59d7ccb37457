package specialist

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/chatfood/agent/contract"
	"github.com/tanpawarit/chatfood/agent/observers"
)

const (
	nodePrepare     = "prepare"
	nodeFinish      = "finish"
	nodePrompt      = "prompt"
	nodeModel       = "model"
	nodeStripFences = "strip_fences"
	nodeParseJSON   = "parse_json"
)

// agentState is the graph local state of one agent run. It is only touched
// inside state handlers or compose.ProcessState.
type agentState struct {
	transcript contractx.Transcript
	iterations int
	items      []contractx.FoodItem
	structured bool
}

func compileAgentGraph(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	loop *agentLoop,
) (compose.Runnable[contractx.AgentRequest, contractx.AgentResult], error) {
	graph := compose.NewGraph[contractx.AgentRequest, contractx.AgentResult](
		compose.WithGenLocalState(func(ctx context.Context) *agentState {
			return &agentState{}
		}),
	)

	if err := graph.AddLambdaNode(nodePrepare,
		compose.InvokableLambda(loop.prepare),
		compose.WithStatePreHandler(loop.bindTranscript),
		compose.WithNodeName(nodePrepare),
	); err != nil {
		return nil, fmt.Errorf("add agent prepare node: %w", err)
	}

	if err := graph.AddChatModelNode(observers.NodeAgentModel, chatModel,
		compose.WithStatePreHandler(loop.beforeModel),
		compose.WithStatePostHandler(loop.afterModel),
		compose.WithNodeName(observers.NodeAgentModel),
	); err != nil {
		return nil, fmt.Errorf("add agent model node: %w", err)
	}

	if err := graph.AddLambdaNode(observers.NodeExecuteTool,
		compose.InvokableLambda(loop.executeTool),
		compose.WithNodeName(observers.NodeExecuteTool),
	); err != nil {
		return nil, fmt.Errorf("add agent tool node: %w", err)
	}

	if err := graph.AddLambdaNode(nodeFinish,
		compose.InvokableLambda(loop.finish),
		compose.WithNodeName(nodeFinish),
	); err != nil {
		return nil, fmt.Errorf("add agent finish node: %w", err)
	}

	branch := compose.NewGraphBranch(
		func(ctx context.Context, in *schema.Message) (string, error) {
			if in != nil && len(in.ToolCalls) > 0 {
				return observers.NodeExecuteTool, nil
			}
			return nodeFinish, nil
		},
		map[string]bool{
			observers.NodeExecuteTool: true,
			nodeFinish:                true,
		},
	)
	if err := graph.AddBranch(observers.NodeAgentModel, branch); err != nil {
		return nil, fmt.Errorf("add agent tool branch: %w", err)
	}

	edges := [][2]string{
		{compose.START, nodePrepare},
		{nodePrepare, observers.NodeAgentModel},
		{observers.NodeExecuteTool, observers.NodeAgentModel},
		{nodeFinish, compose.END},
	}
	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add agent edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	// Each iteration is a model step plus a tool step.
	maxSteps := 2*loop.maxIterations + 4
	runner, err := graph.Compile(ctx,
		compose.WithGraphName("agent."+string(loop.name)),
		compose.WithMaxRunSteps(maxSteps),
	)
	if err != nil {
		return nil, fmt.Errorf("compile agent graph: %w", err)
	}
	return runner, nil
}

// compileStructuredLLMGraph renders system and user templates, calls the
// model and decodes the reply content as JSON into T.
func compileStructuredLLMGraph[T any](
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	systemPrompt string,
	userTemplate string,
	graphName string,
	modelNodeName string,
) (compose.Runnable[map[string]any, T], error) {
	template := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(userTemplate),
	)

	parser := schema.NewMessageJSONParser[T](&schema.MessageJSONParseConfig{
		ParseFrom: schema.MessageParseFromContent,
	})

	graph := compose.NewGraph[map[string]any, T]()
	if err := graph.AddChatTemplateNode(nodePrompt, template); err != nil {
		return nil, fmt.Errorf("add structured prompt node: %w", err)
	}
	if err := graph.AddChatModelNode(nodeModel, chatModel, compose.WithNodeName(modelNodeName)); err != nil {
		return nil, fmt.Errorf("add structured model node: %w", err)
	}
	if err := graph.AddLambdaNode(nodeStripFences, compose.InvokableLambda(stripCodeFences)); err != nil {
		return nil, fmt.Errorf("add structured fence node: %w", err)
	}
	if err := graph.AddLambdaNode(nodeParseJSON, compose.MessageParser(parser)); err != nil {
		return nil, fmt.Errorf("add structured parser node: %w", err)
	}

	edges := [][2]string{
		{compose.START, nodePrompt},
		{nodePrompt, nodeModel},
		{nodeModel, nodeStripFences},
		{nodeStripFences, nodeParseJSON},
		{nodeParseJSON, compose.END},
	}
	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add structured edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName(graphName))
	if err != nil {
		return nil, fmt.Errorf("compile structured graph: %w", err)
	}
	return runner, nil
}

// compileTextLLMGraph renders a single user template and returns the raw
// model reply.
func compileTextLLMGraph(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	userTemplate string,
	graphName string,
	modelNodeName string,
) (compose.Runnable[map[string]any, *schema.Message], error) {
	template := einoprompt.FromMessages(schema.FString, schema.UserMessage(userTemplate))

	graph := compose.NewGraph[map[string]any, *schema.Message]()
	if err := graph.AddChatTemplateNode(nodePrompt, template); err != nil {
		return nil, fmt.Errorf("add text prompt node: %w", err)
	}
	if err := graph.AddChatModelNode(nodeModel, chatModel, compose.WithNodeName(modelNodeName)); err != nil {
		return nil, fmt.Errorf("add text model node: %w", err)
	}
	if err := graph.AddEdge(compose.START, nodePrompt); err != nil {
		return nil, fmt.Errorf("add text edge start->prompt: %w", err)
	}
	if err := graph.AddEdge(nodePrompt, nodeModel); err != nil {
		return nil, fmt.Errorf("add text edge prompt->model: %w", err)
	}
	if err := graph.AddEdge(nodeModel, compose.END); err != nil {
		return nil, fmt.Errorf("add text edge model->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName(graphName))
	if err != nil {
		return nil, fmt.Errorf("compile text graph: %w", err)
	}
	return runner, nil
}

// stripCodeFences removes a ```json ... ``` wrapper some models add around
// structured replies.
func stripCodeFences(_ context.Context, msg *schema.Message) (*schema.Message, error) {
	if msg == nil {
		return nil, fmt.Errorf("%w: empty model response", contractx.ErrSchemaViolation)
	}
	content := strings.TrimSpace(msg.Content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if nl := strings.IndexByte(content, '\n'); nl >= 0 {
			content = content[nl+1:]
		}
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	}
	out := *msg
	out.Content = strings.TrimSpace(content)
	return &out, nil
}
