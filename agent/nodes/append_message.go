package orchestratornode

import (
	"fmt"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/chatfood/agent/contract"
)

// AppendUserMessage starts a turn: the user text joins the history and the
// previous turn's structured payload is dropped.
func AppendUserMessage(in GraphInput) (*GraphState, error) {
	if in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}
	if in.Text == "" {
		return nil, ErrInvalidMessage
	}

	in.Session.Append(schema.UserMessage(in.Text))
	in.Session.SetToolOutput(nil)

	return &GraphState{
		Session: in.Session,
		Text:    in.Text,
		Now:     in.Now,
	}, nil
}
