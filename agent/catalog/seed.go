package catalog

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	contractx "github.com/tanpawarit/chatfood/agent/contract"
)

// SampleUserID owns the sample order history used by the welcome recommendation.
const SampleUserID = "user123"

func SampleFoods() []Food {
	return []Food{
		{Name: "پیتزا پپرونی", Category: "فست فود", RestaurantName: "پیتزا هات", Price: 150000},
		{Name: "چیزبرگر", Category: "فست فود", RestaurantName: "برگرلند", Price: 120000},
		{Name: "جوجه کباب", Category: "ایرانی", RestaurantName: "رستوران اصیل", Price: 180000},
		{Name: "پاستا آلفردو", Category: "ایتالیایی", RestaurantName: "کافه روما", Price: 200000},
		{Name: "کباب بختیاری", Category: "ایرانی", RestaurantName: "رستوران اصیل", Price: 250000},
		{Name: "سالاد سزار", Category: "پیش غذا", RestaurantName: "کافه روما", Price: 110000},
		{Name: "برگر ذغالی", Category: "فست فود", RestaurantName: "برگرلند", Price: 160000},
	}
}

func SampleOrders() []Order {
	review := func(s string) *string { return &s }
	return []Order{
		{ID: 201, UserID: SampleUserID, FoodName: "پیتزا پپرونی", Status: StatusDelivered, Review: review("خوب بود")},
		{ID: 202, UserID: SampleUserID, FoodName: "جوجه کباب", Status: StatusDelivered, Review: review("عالی و خوشمزه!")},
		{ID: 204, UserID: SampleUserID, FoodName: "پاستا آلفردو", Status: StatusCancelled},
		{ID: 205, UserID: SampleUserID, FoodName: "جوجه کباب", Status: StatusDelivered, Review: review("باز هم عالی بود!")},
		{ID: 203, UserID: "user456", FoodName: "چیزبرگر", Status: StatusDelivered, Review: review("معمولی بود.")},
		{ID: 101, UserID: SampleUserID, FoodName: "پیتزا پپرونی", Status: StatusPreparing},
	}
}

func DefaultOffers() []contractx.Offer {
	return []contractx.Offer{
		{Name: "کباب بختیاری", Restaurant: "رستوران اصیل", Deal: "۱۵٪ تخفیف"},
		{Name: "سالاد سزار", Restaurant: "کافه روما", Deal: "جدید در منو"},
		{Name: "برگر ذغالی", Restaurant: "برگرلند", Deal: "۲۰٪ تخفیف"},
	}
}

// Migrate creates the foods and orders tables when they do not exist.
func Migrate(ctx context.Context, db bun.IDB) error {
	models := []any{(*Food)(nil), (*Order)(nil)}
	for _, m := range models {
		if _, err := db.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("catalog: create table %T: %w", m, err)
		}
	}
	return nil
}

// SeedFoods inserts the sample menu only when the foods table is empty.
// It reports whether rows were inserted.
func SeedFoods(ctx context.Context, db bun.IDB) (bool, error) {
	count, err := db.NewSelect().Model((*Food)(nil)).Count(ctx)
	if err != nil {
		return false, fmt.Errorf("catalog: count foods: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	foods := SampleFoods()
	if _, err := db.NewInsert().Model(&foods).Exec(ctx); err != nil {
		return false, fmt.Errorf("catalog: insert foods: %w", err)
	}
	return true, nil
}

// ResetSampleOrders replaces every order with the sample history.
func ResetSampleOrders(ctx context.Context, db *bun.DB) error {
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*Order)(nil)).Where("1 = 1").Exec(ctx); err != nil {
			return fmt.Errorf("catalog: clear orders: %w", err)
		}
		orders := SampleOrders()
		if _, err := tx.NewInsert().Model(&orders).Exec(ctx); err != nil {
			return fmt.Errorf("catalog: insert orders: %w", err)
		}
		return nil
	})
}
