package tool

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	contractx "github.com/tanpawarit/chatfood/agent/contract"
)

type fakeCatalog struct {
	items       []contractx.FoodItem
	lastQuery   string
	lastMax     *float64
	cancelled   []int64
	statusCalls []int64
}

func (f *fakeCatalog) GetOrderStatus(_ context.Context, id int64) string {
	f.statusCalls = append(f.statusCalls, id)
	return "status"
}

func (f *fakeCatalog) CancelOrder(_ context.Context, id int64) string {
	f.cancelled = append(f.cancelled, id)
	return "cancelled"
}

func (f *fakeCatalog) SearchFood(_ context.Context, q string) []contractx.FoodItem {
	f.lastQuery = q
	return f.items
}

func (f *fakeCatalog) SearchAndFilterFood(_ context.Context, q string, maxPrice *float64) []contractx.FoodItem {
	f.lastQuery = q
	f.lastMax = maxPrice
	return f.items
}

func (f *fakeCatalog) GetOrderHistory(context.Context, string) []string { return nil }
func (f *fakeCatalog) SpecialOffers() []contractx.Offer                 { return nil }

type fakeKnowledge struct {
	passages []contractx.Passage
	web      string
	err      error
}

func (f *fakeKnowledge) RetrieveLocal(context.Context, string) ([]contractx.Passage, error) {
	return f.passages, f.err
}

func (f *fakeKnowledge) SearchWeb(context.Context, string) (string, error) {
	return f.web, f.err
}

func toolNames(agent contractx.AgentName) []string {
	infos := InfosForAgent(agent)
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name)
	}
	return names
}

func TestInfosForAgentBindings(t *testing.T) {
	t.Parallel()

	cases := map[contractx.AgentName][]string{
		contractx.AgentOrderManager: {ToolGetOrderStatus, ToolCancelOrder},
		contractx.AgentFoodSearch:   {ToolSimpleFoodSearch},
		contractx.AgentFilter:       {ToolAdvancedFoodSearch},
		contractx.AgentCart:         {ToolViewCart},
		contractx.AgentInformation:  {ToolKnowledgeRetriever, ToolWebSearch},
	}
	for agent, want := range cases {
		got := toolNames(agent)
		if strings.Join(got, ",") != strings.Join(want, ",") {
			t.Fatalf("%s tools = %v, want %v", agent, got, want)
		}
	}
	if got := InfosForAgent("Unknown"); got != nil {
		t.Fatalf("unknown agent must have no tools, got %v", got)
	}
}

func TestExecutorRejectsUnboundTool(t *testing.T) {
	t.Parallel()

	cat := &fakeCatalog{}
	_, exec := BuildForAgent(contractx.AgentFoodSearch, Deps{Catalog: cat})
	_, err := exec(context.Background(), contractx.ToolRequest{
		CallID: "c1",
		Tool:   ToolCancelOrder,
		Args:   map[string]any{"order_id": float64(1)},
	})
	if !errors.Is(err, contractx.ErrToolNotBound) {
		t.Fatalf("expected ErrToolNotBound, got %v", err)
	}
	if len(cat.cancelled) != 0 {
		t.Fatal("unbound tool must not reach the catalog")
	}
}

func TestOrderToolsParseNumericIDs(t *testing.T) {
	t.Parallel()

	cat := &fakeCatalog{}
	_, exec := BuildForAgent(contractx.AgentOrderManager, Deps{Catalog: cat})
	ctx := context.Background()

	out, err := exec(ctx, contractx.ToolRequest{CallID: "c1", Tool: ToolGetOrderStatus, Args: map[string]any{"order_id": float64(101)}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Content != "status" || out.CallID != "c1" || out.Tool != ToolGetOrderStatus {
		t.Fatalf("unexpected result: %#v", out)
	}

	if _, err := exec(ctx, contractx.ToolRequest{Tool: ToolCancelOrder, Args: map[string]any{"order_id": "104"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cat.statusCalls) != 1 || cat.statusCalls[0] != 101 {
		t.Fatalf("status calls = %v", cat.statusCalls)
	}
	if len(cat.cancelled) != 1 || cat.cancelled[0] != 104 {
		t.Fatalf("cancel calls = %v", cat.cancelled)
	}
}

func TestOrderToolInvalidArgsReturnToolError(t *testing.T) {
	t.Parallel()

	cat := &fakeCatalog{}
	_, exec := BuildForAgent(contractx.AgentOrderManager, Deps{Catalog: cat})

	for _, args := range []map[string]any{{}, {"order_id": "abc"}, {"order_id": 1.5}} {
		out, err := exec(context.Background(), contractx.ToolRequest{Tool: ToolGetOrderStatus, Args: args})
		if err != nil {
			t.Fatalf("args %v: unexpected error: %v", args, err)
		}
		if out.Error == "" || !strings.HasPrefix(out.ModelContent(), "error: ") {
			t.Fatalf("args %v: expected tool error, got %#v", args, out)
		}
	}
	if len(cat.statusCalls) != 0 {
		t.Fatalf("catalog must not be called with bad args: %v", cat.statusCalls)
	}
}

func TestOrderToolRejectsNonFiniteAndOverflowingIDs(t *testing.T) {
	t.Parallel()

	cat := &fakeCatalog{}
	_, exec := BuildForAgent(contractx.AgentOrderManager, Deps{Catalog: cat})

	for _, raw := range []any{1e30, -1e30, 9.3e18, math.Inf(1), "Inf", "-Inf", "NaN"} {
		out, err := exec(context.Background(), contractx.ToolRequest{Tool: ToolGetOrderStatus, Args: map[string]any{"order_id": raw}})
		if err != nil {
			t.Fatalf("order_id %v: unexpected error: %v", raw, err)
		}
		if out.Error == "" {
			t.Fatalf("order_id %v: expected tool error, got %#v", raw, out)
		}
	}
	if len(cat.statusCalls) != 0 {
		t.Fatalf("catalog must not see out-of-range ids: %v", cat.statusCalls)
	}

	out, err := exec(context.Background(), contractx.ToolRequest{Tool: ToolGetOrderStatus, Args: map[string]any{"order_id": float64(-9223372036854775808)}})
	if err != nil || out.Error != "" {
		t.Fatalf("MinInt64 must be accepted, got %#v err=%v", out, err)
	}
}

func TestFoodSearchReturnsStructuredItems(t *testing.T) {
	t.Parallel()

	cat := &fakeCatalog{items: []contractx.FoodItem{
		{Name: "پیتزا پپرونی", Category: "پیتزا", Restaurant: "پیتزا هات", Price: 150000},
		{Name: "پیتزا مخصوص", Category: "پیتزا", Restaurant: "پیتزا هات", Price: 165000.5},
	}}
	_, exec := BuildForAgent(contractx.AgentFoodSearch, Deps{Catalog: cat})

	out, err := exec(context.Background(), contractx.ToolRequest{Tool: ToolSimpleFoodSearch, Args: map[string]any{"query": "پیتزا"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Structured || len(out.Items) != 2 {
		t.Fatalf("expected 2 structured items, got %#v", out)
	}
	want := "نام: پیتزا پپرونی, رستوران: پیتزا هات, قیمت: 150000\nنام: پیتزا مخصوص, رستوران: پیتزا هات, قیمت: 165000.5"
	if out.Content != want {
		t.Fatalf("content = %q, want %q", out.Content, want)
	}
}

func TestAdvancedSearchOptionalMaxPrice(t *testing.T) {
	t.Parallel()

	cat := &fakeCatalog{}
	_, exec := BuildForAgent(contractx.AgentFilter, Deps{Catalog: cat})
	ctx := context.Background()

	out, err := exec(ctx, contractx.ToolRequest{Tool: ToolAdvancedFoodSearch, Args: map[string]any{"query": "برگر"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.lastMax != nil {
		t.Fatalf("max price should be nil, got %v", *cat.lastMax)
	}
	if out.Content != emptySearchResult || len(out.Items) != 0 {
		t.Fatalf("empty search should produce marker text, got %#v", out)
	}

	if _, err := exec(ctx, contractx.ToolRequest{Tool: ToolAdvancedFoodSearch, Args: map[string]any{"query": "برگر", "max_price": float64(130000)}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.lastMax == nil || *cat.lastMax != 130000 {
		t.Fatalf("max price = %v", cat.lastMax)
	}
}

func TestErrorMarkerItemIsVisibleToModel(t *testing.T) {
	t.Parallel()

	got := FormatFoodItems([]contractx.FoodItem{{Error: "خطا در جستجو"}})
	if got != "خطا در جستجو" {
		t.Fatalf("FormatFoodItems() = %q", got)
	}
}

func TestViewCartReturnsSentinel(t *testing.T) {
	t.Parallel()

	_, exec := BuildForAgent(contractx.AgentCart, Deps{})
	out, err := exec(context.Background(), contractx.ToolRequest{Tool: ToolViewCart})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Content != ViewCartSentinel {
		t.Fatalf("content = %q", out.Content)
	}
}

func TestKnowledgeToolsJoinAndPropagate(t *testing.T) {
	t.Parallel()

	know := &fakeKnowledge{passages: []contractx.Passage{{Content: "قورمه سبزی"}, {Content: "قیمه"}}, web: "web answer"}
	_, exec := BuildForAgent(contractx.AgentInformation, Deps{Knowledge: know})
	ctx := context.Background()

	out, err := exec(ctx, contractx.ToolRequest{Tool: ToolKnowledgeRetriever, Args: map[string]any{"query": "خورش"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Content != "قورمه سبزی\n\nقیمه" {
		t.Fatalf("content = %q", out.Content)
	}

	out, err = exec(ctx, contractx.ToolRequest{Tool: ToolWebSearch, Args: map[string]any{"query": "kebab"}})
	if err != nil || out.Content != "web answer" {
		t.Fatalf("web search = %#v, %v", out, err)
	}

	know.err = errors.New("offline")
	_, err = exec(ctx, contractx.ToolRequest{Tool: ToolWebSearch, Args: map[string]any{"query": "kebab"}})
	if !errors.Is(err, contractx.ErrToolExecution) || !errors.Is(err, know.err) {
		t.Fatalf("expected wrapped tool execution error, got %v", err)
	}
}

func TestKnowledgeToolEmptyPassages(t *testing.T) {
	t.Parallel()

	_, exec := BuildForAgent(contractx.AgentInformation, Deps{Knowledge: &fakeKnowledge{}})
	out, err := exec(context.Background(), contractx.ToolRequest{Tool: ToolKnowledgeRetriever, Args: map[string]any{"query": "x"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Content != emptyKnowledgeResult {
		t.Fatalf("content = %q", out.Content)
	}
}
