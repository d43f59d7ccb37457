package orchestratornode

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/chatfood/agent/contract"
	statex "github.com/tanpawarit/chatfood/agent/state"
	toolx "github.com/tanpawarit/chatfood/agent/tool"
)

type stubRouter struct {
	decision contractx.RouterDecision
	err      error
}

func (s stubRouter) Route(context.Context, []*schema.Message) (contractx.RouterDecision, error) {
	return s.decision, s.err
}

func newState(t *testing.T) *GraphState {
	t.Helper()
	st, err := AppendUserMessage(GraphInput{
		Session: statex.NewSession("s1", time.Now()),
		Text:    "پیتزا دارید؟",
		Now:     time.Now(),
	})
	if err != nil {
		t.Fatalf("AppendUserMessage() error = %v", err)
	}
	return st
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	if _, err := ValidateRequest("  ", "hi"); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
	if _, err := ValidateRequest("s1", " \n "); !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("expected ErrInvalidMessage, got %v", err)
	}
	req, err := ValidateRequest(" s1 ", " سلام ")
	if err != nil || req.SessionID != "s1" || req.Text != "سلام" {
		t.Fatalf("unexpected request %#v err=%v", req, err)
	}
}

func TestAppendUserMessageClearsToolOutput(t *testing.T) {
	t.Parallel()

	sess := statex.NewSession("s1", time.Now())
	sess.SetToolOutput([]contractx.FoodItem{{Name: "کباب"}})

	st, err := AppendUserMessage(GraphInput{Session: sess, Text: "سلام"})
	if err != nil {
		t.Fatalf("AppendUserMessage() error = %v", err)
	}
	if len(st.Session.History) != 1 || st.Session.History[0].Role != schema.User {
		t.Fatalf("user message not appended: %#v", st.Session.History)
	}
	if st.Session.ToolOutput != nil {
		t.Fatal("tool output from the previous turn must be cleared")
	}
}

func TestRouteTurnFallsBackOnUnknownDestination(t *testing.T) {
	t.Parallel()

	st := newState(t)
	st, err := RouteTurn(context.Background(), st, stubRouter{err: contractx.ErrUnrecognizedRoute})
	if err != nil {
		t.Fatalf("RouteTurn() error = %v", err)
	}
	if st.Destination != FallbackAgent {
		t.Fatalf("destination = %s, want %s", st.Destination, FallbackAgent)
	}
}

func TestRouteTurnPropagatesModelFailure(t *testing.T) {
	t.Parallel()

	_, err := RouteTurn(context.Background(), newState(t), stubRouter{err: contractx.ErrModelInvoke})
	if !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("expected ErrModelInvoke, got %v", err)
	}

	st, err := RouteTurn(context.Background(), newState(t), stubRouter{decision: contractx.RouterDecision{Destination: contractx.AgentFilter}})
	if err != nil || st.Destination != contractx.AgentFilter {
		t.Fatalf("destination = %v err = %v", st, err)
	}
}

func TestRenderReplyFoodCards(t *testing.T) {
	t.Parallel()

	st := newState(t)
	st.Result = contractx.AgentResult{
		Agent:      contractx.AgentFoodSearch,
		Text:       "دو پیتزا پیدا شد.",
		Structured: true,
		Items: []contractx.FoodItem{
			{Name: "پیتزا پپرونی", Restaurant: "پیتزا هات", Price: 150000},
			{Name: "پیتزا مخصوص", Restaurant: "پیتزا هات", Price: 165000.5},
		},
	}

	out, err := RenderReply(st)
	if err != nil {
		t.Fatalf("RenderReply() error = %v", err)
	}
	if len(out.Messages) != 2 {
		t.Fatalf("expected one card per item, got %d", len(out.Messages))
	}
	want := "🍽 **پیتزا پپرونی**\nرستوران: پیتزا هات\nقیمت: 150,000 تومان"
	if out.Messages[0].Text != want {
		t.Fatalf("card = %q, want %q", out.Messages[0].Text, want)
	}
	if out.Messages[1].Text != "🍽 **پیتزا مخصوص**\nرستوران: پیتزا هات\nقیمت: 165,000.5 تومان" {
		t.Fatalf("card = %q", out.Messages[1].Text)
	}
	act := out.Messages[0].Actions
	if len(act) != 1 || act[0].Name != contractx.ActionAddToCart || act[0].Payload != "پیتزا پپرونی" {
		t.Fatalf("unexpected actions: %#v", act)
	}
	if len(st.Session.ToolOutput) != 2 {
		t.Fatal("structured payload must be kept on the session")
	}
}

func TestRenderReplyErrorMarkerShowsText(t *testing.T) {
	t.Parallel()

	st := newState(t)
	st.Result = contractx.AgentResult{
		Agent:      contractx.AgentFilter,
		Text:       "متاسفانه جستجو انجام نشد.",
		Structured: true,
		Items:      []contractx.FoodItem{{Error: "db down"}},
	}
	out, err := RenderReply(st)
	if err != nil {
		t.Fatalf("RenderReply() error = %v", err)
	}
	if len(out.Messages) != 1 || out.Messages[0].Text != "متاسفانه جستجو انجام نشد." || len(out.Messages[0].Actions) != 0 {
		t.Fatalf("unexpected messages: %#v", out.Messages)
	}
}

func TestRenderReplyCartIgnoresAgentText(t *testing.T) {
	t.Parallel()

	st := newState(t)
	st.Result = contractx.AgentResult{Agent: contractx.AgentCart, Text: toolx.ViewCartSentinel}

	out, err := RenderReply(st)
	if err != nil {
		t.Fatalf("RenderReply() error = %v", err)
	}
	if out.Messages[0].Text != EmptyCartText {
		t.Fatalf("empty cart text = %q", out.Messages[0].Text)
	}

	st.Session.AddToCart("پیتزا پپرونی")
	st.Session.AddToCart("پیتزا پپرونی")
	st.Result.Text = "سبد خرید شما دو آیتم دارد"
	out, err = RenderReply(st)
	if err != nil {
		t.Fatalf("RenderReply() error = %v", err)
	}
	want := "🛒 اقلام موجود در سبد خرید شما:\n- **پیتزا پپرونی**\n- **پیتزا پپرونی**"
	if out.Messages[0].Text != want {
		t.Fatalf("cart = %q, want %q", out.Messages[0].Text, want)
	}
}

func TestRenderReplyRejectsEmptyText(t *testing.T) {
	t.Parallel()

	st := newState(t)
	st.Result = contractx.AgentResult{Agent: contractx.AgentInformation, Text: "  "}
	if _, err := RenderReply(st); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestMessageHelpers(t *testing.T) {
	t.Parallel()

	if got := CartConfirmation("جوجه کباب", 3).Text; got != "✅ **جوجه کباب** با موفقیت به سبد خرید اضافه شد!\nشما در حال حاضر **3** آیتم در سبد دارید." {
		t.Fatalf("confirmation = %q", got)
	}
	if OfferAcknowledgement(contractx.OfferAccept).Text == OfferAcknowledgement(contractx.OfferReject).Text {
		t.Fatal("accept and reject need different replies")
	}
	offer := OfferMessage("سلام!")
	if len(offer.Actions) != 2 || offer.Actions[0].Payload != contractx.OfferAccept || offer.Actions[1].Payload != contractx.OfferReject {
		t.Fatalf("offer actions = %#v", offer.Actions)
	}
}
