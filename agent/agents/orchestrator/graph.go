package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	nodex "github.com/tanpawarit/chatfood/agent/nodes"
	"github.com/tanpawarit/chatfood/agent/observers"
)

func (o *Orchestrator) compileHandleMessageGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode(observers.NodeAppendMessage,
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.AppendUserMessage(in)
		}),
		compose.WithNodeName(observers.NodeAppendMessage),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", observers.NodeAppendMessage, err)
	}

	if err := graph.AddLambdaNode(observers.NodeRouteTurn,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.RouteTurn(ctx, in, o.registry.Router())
		}),
		compose.WithNodeName(observers.NodeRouteTurn),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", observers.NodeRouteTurn, err)
	}

	if err := graph.AddLambdaNode(observers.NodeRunAgent,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.RunAgent(ctx, in, o.registry)
		}),
		compose.WithNodeName(observers.NodeRunAgent),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", observers.NodeRunAgent, err)
	}

	if err := graph.AddLambdaNode(observers.NodeRenderReply,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.RenderReply(in)
		}),
		compose.WithNodeName(observers.NodeRenderReply),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", observers.NodeRenderReply, err)
	}

	edges := [][2]string{
		{compose.START, observers.NodeAppendMessage},
		{observers.NodeAppendMessage, observers.NodeRouteTurn},
		{observers.NodeRouteTurn, observers.NodeRunAgent},
		{observers.NodeRunAgent, observers.NodeRenderReply},
		{observers.NodeRenderReply, compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("orchestrator.handle_message"))
	if err != nil {
		return nil, fmt.Errorf("compile orchestrator graph: %w", err)
	}
	return runner, nil
}
