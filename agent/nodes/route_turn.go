package orchestratornode

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/tanpawarit/chatfood/agent/contract"
	logx "github.com/tanpawarit/chatfood/pkg/logger"
)

// FallbackAgent handles turns whose route could not be read.
const FallbackAgent = contractx.AgentInformation

// RouteTurn asks the router for a destination. A reply that parses but names
// no known agent falls back to FallbackAgent; a failed model call fails the
// turn.
func RouteTurn(ctx context.Context, in *GraphState, router contractx.Router) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	decision, err := router.Route(ctx, in.Session.Messages())
	switch {
	case err == nil:
		in.Destination = decision.Destination
	case errors.Is(err, contractx.ErrSchemaViolation):
		logx.Warn().
			Err(err).
			Str("session_id", in.Session.ID).
			Str("fallback", string(FallbackAgent)).
			Msg("router: unusable destination, falling back")
		in.Destination = FallbackAgent
	default:
		return nil, err
	}

	logx.Info().
		Str("session_id", in.Session.ID).
		Str("agent", string(in.Destination)).
		Msg("router: turn routed")
	return in, nil
}
