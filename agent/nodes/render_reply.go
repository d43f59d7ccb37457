package orchestratornode

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/chatfood/agent/contract"
	toolx "github.com/tanpawarit/chatfood/agent/tool"
)

// RenderReply turns the agent result into outbound messages. The cart agent
// always shows the live cart, a structured search shows one card per item,
// anything else shows the agent text.
func RenderReply(in *GraphState) (GraphOutput, error) {
	if in == nil || in.Session == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	res := in.Result
	out := GraphOutput{Agent: res.Agent}

	if res.Structured {
		in.Session.SetToolOutput(res.Items)
	}

	switch {
	case res.Agent == contractx.AgentCart || res.Text == toolx.ViewCartSentinel:
		out.Messages = []contractx.OutboundMessage{CartListing(in.Session.Cart)}
	case res.HasRenderableItems():
		out.Messages = make([]contractx.OutboundMessage, 0, len(res.Items))
		for _, item := range res.Items {
			out.Messages = append(out.Messages, FoodCard(item))
		}
	default:
		text := strings.TrimSpace(res.Text)
		if text == "" {
			return GraphOutput{}, fmt.Errorf("%w: agent=%s returned empty message", contractx.ErrValidation, res.Agent)
		}
		out.Messages = []contractx.OutboundMessage{Text(text)}
	}
	return out, nil
}
