package orchestratornode

import (
	"errors"
	"strings"
	"time"

	contractx "github.com/tanpawarit/chatfood/agent/contract"
	statex "github.com/tanpawarit/chatfood/agent/state"
)

var (
	ErrInvalidMessage = errors.New("message is empty")
	ErrInvalidSession = errors.New("session id is empty")
)

// TurnRequest is a validated inbound message.
type TurnRequest struct {
	SessionID string
	Text      string
}

// GraphInput enters the turn graph. Session is loaded by the caller so it can
// still be saved when the graph fails half way.
type GraphInput struct {
	Session *statex.Session
	Text    string
	Now     time.Time
}

type GraphOutput struct {
	Agent    contractx.AgentName
	Messages []contractx.OutboundMessage
}

type GraphState struct {
	Session *statex.Session
	Text    string
	Now     time.Time

	Destination contractx.AgentName
	Result      contractx.AgentResult
}

func ValidateRequest(sessionID, text string) (TurnRequest, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return TurnRequest{}, ErrInvalidSession
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return TurnRequest{}, ErrInvalidMessage
	}

	return TurnRequest{SessionID: sessionID, Text: text}, nil
}
