package catalog

import (
	"github.com/uptrace/bun"

	contractx "github.com/tanpawarit/chatfood/agent/contract"
)

type OrderStatus string

// Statuses are stored in the language shown to the customer.
const (
	StatusPreparing OrderStatus = "در حال آماده‌سازی"
	StatusDelivered OrderStatus = "تحویل داده شده"
	StatusCancelled OrderStatus = "لغو شده"
)

type Food struct {
	bun.BaseModel `bun:"table:foods,alias:f"`

	ID             int64   `bun:"id,pk,autoincrement"`
	Name           string  `bun:"name,notnull,unique"`
	Category       string  `bun:"category,notnull"`
	RestaurantName string  `bun:"restaurant_name,notnull"`
	Price          float64 `bun:"price,notnull"`
}

func (f Food) Item() contractx.FoodItem {
	return contractx.FoodItem{
		Name:       f.Name,
		Category:   f.Category,
		Restaurant: f.RestaurantName,
		Price:      f.Price,
	}
}

type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	ID       int64       `bun:"id,pk"`
	UserID   string      `bun:"user_id,notnull"`
	FoodName string      `bun:"food_name,notnull"`
	Status   OrderStatus `bun:"status,notnull"`
	Review   *string     `bun:"review"`
}
