package state

import (
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/chatfood/agent/contract"
)

var _ contractx.Transcript = (*Session)(nil)

// Session is the per-conversation state the orchestrator owns. History is
// append-only; Cart keeps insertion order and duplicates.
type Session struct {
	ID string `json:"id"`

	History    []*schema.Message    `json:"history,omitempty"`
	Cart       []string             `json:"cart,omitempty"`
	ToolOutput []contractx.FoodItem `json:"tool_output,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
}

func (s *Session) Messages() []*schema.Message {
	return s.History
}

func (s *Session) Append(msgs ...*schema.Message) {
	for _, m := range msgs {
		if m != nil {
			s.History = append(s.History, m)
		}
	}
}

// AddToCart appends name and returns the new cart size.
func (s *Session) AddToCart(name string) int {
	s.Cart = append(s.Cart, name)
	return len(s.Cart)
}

// SetToolOutput replaces the structured payload of the latest turn. A nil
// slice clears it.
func (s *Session) SetToolOutput(items []contractx.FoodItem) {
	if len(items) == 0 {
		s.ToolOutput = nil
		return
	}
	s.ToolOutput = append([]contractx.FoodItem(nil), items...)
}

func (s *Session) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

func (s *Session) Validate() error {
	if s == nil {
		return ErrNilSession
	}
	if strings.TrimSpace(s.ID) == "" {
		return ErrInvalidSession
	}
	for i, m := range s.History {
		if m == nil {
			return fmt.Errorf("session history has a nil message at index %d", i)
		}
	}
	return nil
}
