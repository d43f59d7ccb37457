package catalog

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/uptrace/bun"

	contractx "github.com/tanpawarit/chatfood/agent/contract"
	databasex "github.com/tanpawarit/chatfood/pkg/database"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	cfg := databasex.Config{
		Driver: databasex.DriverSQLite,
		DSN:    "file:" + filepath.Join(t.TempDir(), "chatfood.db"),
	}
	db, err := cfg.New()
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if _, err := SeedFoods(ctx, db); err != nil {
		t.Fatalf("SeedFoods() error = %v", err)
	}
	if err := ResetSampleOrders(ctx, db); err != nil {
		t.Fatalf("ResetSampleOrders() error = %v", err)
	}
	return db
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(newTestDB(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func TestSearchFoodPizza(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	items := s.SearchFood(context.Background(), "پیتزا")
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %#v", items)
	}
	got := items[0]
	if got.Name != "پیتزا پپرونی" || got.Restaurant != "پیتزا هات" || got.Price != 150000 {
		t.Fatalf("unexpected item: %#v", got)
	}
}

func TestSearchFoodMatchesCategoryCaseInsensitive(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	extra := Food{Name: "Margherita", Category: "Italian", RestaurantName: "Roma", Price: 90000}
	if _, err := db.NewInsert().Model(&extra).Exec(context.Background()); err != nil {
		t.Fatalf("insert: %v", err)
	}
	s, _ := New(db)

	items := s.SearchFood(context.Background(), "ITAL")
	if len(items) != 1 || items[0].Name != "Margherita" {
		t.Fatalf("unexpected items: %#v", items)
	}
}

func TestSearchFoodMatchesNonASCIIUppercase(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	extra := Food{Name: "ÉCLAIR", Category: "Dessert", RestaurantName: "Paris", Price: 70000}
	if _, err := db.NewInsert().Model(&extra).Exec(context.Background()); err != nil {
		t.Fatalf("insert: %v", err)
	}
	s, _ := New(db)

	for _, query := range []string{"ÉCLAIR", "Éclair"} {
		items := s.SearchFood(context.Background(), query)
		if len(items) != 1 || items[0].Name != "ÉCLAIR" {
			t.Fatalf("query %q: unexpected items: %#v", query, items)
		}
	}
}

func TestSearchFoodNoMatchIsEmpty(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	items := s.SearchFood(context.Background(), "سوشی")
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", items)
	}
}

func TestSearchFoodTreatsWildcardsLiterally(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	if items := s.SearchFood(context.Background(), "%"); len(items) != 0 {
		t.Fatalf("expected no match for literal %%, got %d items", len(items))
	}
}

func TestSearchAndFilterFoodMaxPrice(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	maxPrice := 130000.0
	items := s.SearchAndFilterFood(context.Background(), "فست فود", &maxPrice)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %#v", items)
	}
	if items[0].Name != "چیزبرگر" || items[0].Price != 120000 {
		t.Fatalf("unexpected item: %#v", items[0])
	}
	for _, it := range items {
		if it.Price > maxPrice {
			t.Fatalf("item above max price: %#v", it)
		}
	}
}

func TestSearchAndFilterFoodInclusiveBoundAndNilPrice(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	exact := 150000.0
	items := s.SearchAndFilterFood(context.Background(), "فست فود", &exact)
	if len(items) != 2 {
		t.Fatalf("expected 2 items at inclusive bound, got %#v", items)
	}

	all := s.SearchAndFilterFood(context.Background(), "فست فود", nil)
	if len(all) != 3 {
		t.Fatalf("expected 3 fast food items without price cap, got %d", len(all))
	}
}

func TestGetOrderHistoryDeliveredOnly(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	got := s.GetOrderHistory(context.Background(), SampleUserID)
	want := []string{"پیتزا پپرونی", "جوجه کباب", "جوجه کباب"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("GetOrderHistory() = %v, want %v", got, want)
	}
}

func TestGetOrderStatus(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	got := s.GetOrderStatus(context.Background(), 201)
	if got != statusSentence(201, StatusDelivered) {
		t.Fatalf("GetOrderStatus(201) = %q", got)
	}
}

func TestUnknownOrderIsNotFound(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	for _, id := range []int64{0, 999, -5} {
		if got := s.GetOrderStatus(ctx, id); got != notFoundSentence(id) {
			t.Fatalf("GetOrderStatus(%d) = %q", id, got)
		}
		if got := s.CancelOrder(ctx, id); got != notFoundSentence(id) {
			t.Fatalf("CancelOrder(%d) = %q", id, got)
		}
	}
}

func TestCancelOrderNeverCancelsTwice(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	if got := s.CancelOrder(ctx, 101); got != cancelledSentence(101) {
		t.Fatalf("first CancelOrder(101) = %q", got)
	}
	want := cannotCancelSentence(101, StatusCancelled)
	for i := 0; i < 2; i++ {
		if got := s.CancelOrder(ctx, 101); got != want {
			t.Fatalf("repeat CancelOrder(101) = %q, want %q", got, want)
		}
	}
	if got := s.GetOrderStatus(ctx, 101); got != statusSentence(101, StatusCancelled) {
		t.Fatalf("status after cancel = %q", got)
	}
}

func TestCancelDeliveredOrderIsNoop(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	if got := s.CancelOrder(ctx, 202); got != cannotCancelSentence(202, StatusDelivered) {
		t.Fatalf("CancelOrder(202) = %q", got)
	}
	if got := s.GetOrderStatus(ctx, 202); got != statusSentence(202, StatusDelivered) {
		t.Fatalf("status changed: %q", got)
	}
}

func TestStorageFailureBecomesApology(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	s, _ := New(db)
	_ = db.Close()

	ctx := context.Background()
	if got := s.GetOrderStatus(ctx, 201); got != orderStoreApology {
		t.Fatalf("GetOrderStatus on closed db = %q", got)
	}
	if got := s.CancelOrder(ctx, 101); got != orderStoreApology {
		t.Fatalf("CancelOrder on closed db = %q", got)
	}
	items := s.SearchFood(ctx, "پیتزا")
	if len(items) != 1 || !items[0].IsError() || items[0].Error != menuStoreApology {
		t.Fatalf("SearchFood on closed db = %#v", items)
	}
	if got := s.GetOrderHistory(ctx, SampleUserID); len(got) != 0 {
		t.Fatalf("GetOrderHistory on closed db = %v", got)
	}
}

func TestSeedFoodsOnlyWhenEmpty(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	inserted, err := SeedFoods(context.Background(), db)
	if err != nil {
		t.Fatalf("SeedFoods() error = %v", err)
	}
	if inserted {
		t.Fatal("expected no insert into non-empty table")
	}
	count, err := db.NewSelect().Model((*Food)(nil)).Count(context.Background())
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != len(SampleFoods()) {
		t.Fatalf("count = %d, want %d", count, len(SampleFoods()))
	}
}

func TestSpecialOffersReturnsCopy(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	offers := s.SpecialOffers()
	if len(offers) != 3 {
		t.Fatalf("expected 3 offers, got %d", len(offers))
	}
	offers[0].Name = "changed"
	if s.SpecialOffers()[0].Name == "changed" {
		t.Fatal("SpecialOffers must not expose internal slice")
	}

	custom, _ := New(newTestDB(t), WithOffers([]contractx.Offer{{Name: "x"}}))
	if got := custom.SpecialOffers(); len(got) != 1 || got[0].Name != "x" {
		t.Fatalf("WithOffers not applied: %#v", got)
	}
}
