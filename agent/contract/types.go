package contract

import (
	"fmt"
	"strings"
)

type AgentName string

const (
	AgentCart         AgentName = "CartAgent"
	AgentFilter       AgentName = "FilterAgent"
	AgentOrderManager AgentName = "OrderManager"
	AgentFoodSearch   AgentName = "FoodSearch"
	AgentInformation  AgentName = "InformationAgent"
)

// AgentNames lists every routable agent in router prompt order.
var AgentNames = []AgentName{
	AgentCart,
	AgentFilter,
	AgentOrderManager,
	AgentFoodSearch,
	AgentInformation,
}

// ParseAgentName matches s against the routable agents, ignoring case and
// surrounding whitespace or quotes.
func ParseAgentName(s string) (AgentName, error) {
	v := strings.Trim(strings.TrimSpace(s), `"'`)
	for _, name := range AgentNames {
		if strings.EqualFold(v, string(name)) {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: destination=%q", ErrUnrecognizedRoute, s)
}

type RouterDecision struct {
	Destination AgentName `json:"destination"`
}

// FoodItem is a menu row snapshot. Error is set only on the single marker item
// returned when the menu store is unreachable.
type FoodItem struct {
	Name       string  `json:"name,omitempty"`
	Category   string  `json:"category,omitempty"`
	Restaurant string  `json:"restaurant,omitempty"`
	Price      float64 `json:"price,omitempty"`
	Error      string  `json:"error,omitempty"`
}

func (f FoodItem) IsError() bool {
	return f.Error != ""
}

type Offer struct {
	Name       string `json:"name"`
	Restaurant string `json:"restaurant"`
	Deal       string `json:"deal"`
}

type Passage struct {
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

type ToolRequest struct {
	CallID string         `json:"call_id"`
	Tool   string         `json:"tool"`
	Args   map[string]any `json:"args,omitempty"`
}

// ToolResult is what a tool hands back to the agent loop. Content is the text
// the model sees; Items is set only by structured tools. Error carries an
// argument problem the model can correct on its next step.
type ToolResult struct {
	CallID     string     `json:"call_id"`
	Tool       string     `json:"tool"`
	Content    string     `json:"content"`
	Items      []FoodItem `json:"items,omitempty"`
	Structured bool       `json:"structured,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// ModelContent is the tool message body sent back to the model.
func (r ToolResult) ModelContent() string {
	if r.Error != "" {
		return "error: " + r.Error
	}
	return r.Content
}

type AgentResult struct {
	Agent      AgentName  `json:"agent"`
	Text       string     `json:"text"`
	Items      []FoodItem `json:"items,omitempty"`
	Structured bool       `json:"structured,omitempty"`
	Iterations int        `json:"iterations"`
}

// HasRenderableItems reports whether the structured payload should be shown
// as food cards instead of the agent text.
func (r AgentResult) HasRenderableItems() bool {
	return r.Structured && len(r.Items) > 0 && !r.Items[0].IsError()
}

const (
	ActionAddToCart     = "add_to_cart"
	ActionOfferResponse = "offer_response"

	OfferAccept = "accept"
	OfferReject = "reject"
)

// Action is a button attached to an outbound message.
type Action struct {
	Name    string `json:"name"`
	Label   string `json:"label"`
	Payload string `json:"payload"`
}

type OutboundMessage struct {
	Text    string   `json:"text"`
	Actions []Action `json:"actions,omitempty"`
}

// ActionEvent is a button press coming back from the front-end.
type ActionEvent struct {
	Name    string `json:"name"`
	Payload string `json:"payload"`
}
