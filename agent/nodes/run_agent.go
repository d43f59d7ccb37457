package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/chatfood/agent/contract"
)

func RunAgent(ctx context.Context, in *GraphState, agents contractx.Registry) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	agent, ok := agents.Agent(in.Destination)
	if !ok {
		return nil, fmt.Errorf("%w: no agent registered for destination=%q", contractx.ErrValidation, in.Destination)
	}

	res, err := agent.Run(ctx, contractx.AgentRequest{
		SessionID:  in.Session.ID,
		Transcript: in.Session,
	})
	if err != nil {
		return nil, fmt.Errorf("agent=%s: %w", in.Destination, err)
	}

	in.Result = res
	return in, nil
}
