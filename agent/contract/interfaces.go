package contract

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// Transcript is the conversation an agent reads and appends to during a turn.
type Transcript interface {
	Messages() []*schema.Message
	Append(msgs ...*schema.Message)
}

type AgentRequest struct {
	SessionID  string
	Transcript Transcript
}

type Agent interface {
	Name() AgentName
	Run(ctx context.Context, req AgentRequest) (AgentResult, error)
}

type Router interface {
	Route(ctx context.Context, history []*schema.Message) (RouterDecision, error)
}

type Recommender interface {
	Recommend(ctx context.Context) (string, error)
}

type Registry interface {
	Router() Router
	Recommender() Recommender
	Agent(name AgentName) (Agent, bool)
}

// Catalog is the relational side: orders, menu and offers. Storage failures
// never surface as errors; they become apology text or an error-marker item.
type Catalog interface {
	GetOrderStatus(ctx context.Context, orderID int64) string
	CancelOrder(ctx context.Context, orderID int64) string
	SearchFood(ctx context.Context, query string) []FoodItem
	SearchAndFilterFood(ctx context.Context, query string, maxPrice *float64) []FoodItem
	GetOrderHistory(ctx context.Context, userID string) []string
	SpecialOffers() []Offer
}

type Knowledge interface {
	RetrieveLocal(ctx context.Context, query string) ([]Passage, error)
	SearchWeb(ctx context.Context, query string) (string, error)
}
