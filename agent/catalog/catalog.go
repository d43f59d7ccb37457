package catalog

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"

	contractx "github.com/tanpawarit/chatfood/agent/contract"
	logx "github.com/tanpawarit/chatfood/pkg/logger"
)

var _ contractx.Catalog = (*Store)(nil)

// Store serves orders, menu search and offers from a bun database.
// None of its query methods return errors: storage failures are logged and
// turned into the apology text or error-marker item the agents relay verbatim.
type Store struct {
	db     *bun.DB
	offers []contractx.Offer
}

type Option func(*Store)

func WithOffers(offers []contractx.Offer) Option {
	return func(s *Store) {
		s.offers = append([]contractx.Offer(nil), offers...)
	}
}

func New(db *bun.DB, opts ...Option) (*Store, error) {
	if db == nil {
		return nil, errors.New("catalog: db is required")
	}
	s := &Store{db: db, offers: DefaultOffers()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

func (s *Store) GetOrderStatus(ctx context.Context, orderID int64) string {
	status, err := s.lookupStatus(ctx, orderID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return notFoundSentence(orderID)
	case err != nil:
		logx.Error().Err(err).Int64("order_id", orderID).Msg("catalog: get order status")
		return orderStoreApology
	}
	return statusSentence(orderID, status)
}

// CancelOrder moves a preparing order to cancelled. The update is guarded on
// the preparing status, so a second call reports the cancelled status instead
// of cancelling again.
func (s *Store) CancelOrder(ctx context.Context, orderID int64) string {
	status, err := s.lookupStatus(ctx, orderID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return notFoundSentence(orderID)
	case err != nil:
		logx.Error().Err(err).Int64("order_id", orderID).Msg("catalog: cancel order lookup")
		return orderStoreApology
	}
	if status != StatusPreparing {
		return cannotCancelSentence(orderID, status)
	}

	res, err := s.db.NewUpdate().
		Model((*Order)(nil)).
		Set("status = ?", StatusCancelled).
		Where("id = ?", orderID).
		Where("status = ?", StatusPreparing).
		Exec(ctx)
	if err != nil {
		logx.Error().Err(err).Int64("order_id", orderID).Msg("catalog: cancel order update")
		return orderStoreApology
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		current, err := s.lookupStatus(ctx, orderID)
		if err != nil {
			logx.Error().Err(err).Int64("order_id", orderID).Msg("catalog: cancel order recheck")
			return orderStoreApology
		}
		return cannotCancelSentence(orderID, current)
	}

	logx.Info().Int64("order_id", orderID).Msg("catalog: order cancelled")
	return cancelledSentence(orderID)
}

func (s *Store) SearchFood(ctx context.Context, query string) []contractx.FoodItem {
	return s.searchFoods(ctx, query, nil)
}

func (s *Store) SearchAndFilterFood(ctx context.Context, query string, maxPrice *float64) []contractx.FoodItem {
	return s.searchFoods(ctx, query, maxPrice)
}

func (s *Store) GetOrderHistory(ctx context.Context, userID string) []string {
	names := make([]string, 0, 8)
	err := s.db.NewSelect().
		Model((*Order)(nil)).
		Column("food_name").
		Where("user_id = ?", userID).
		Where("status = ?", StatusDelivered).
		OrderExpr("id ASC").
		Scan(ctx, &names)
	if err != nil {
		logx.Error().Err(err).Str("user_id", userID).Msg("catalog: get order history")
		return []string{}
	}
	return names
}

func (s *Store) SpecialOffers() []contractx.Offer {
	return append([]contractx.Offer(nil), s.offers...)
}

func (s *Store) lookupStatus(ctx context.Context, orderID int64) (OrderStatus, error) {
	var order Order
	err := s.db.NewSelect().
		Model(&order).
		Column("status").
		Where("id = ?", orderID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return "", err
	}
	return order.Status, nil
}

func (s *Store) searchFoods(ctx context.Context, query string, maxPrice *float64) []contractx.FoodItem {
	pattern := likePattern(query)
	match := s.caseInsensitiveLike()

	var foods []Food
	q := s.db.NewSelect().
		Model(&foods).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("f.name "+match+" ? ESCAPE '!'", pattern).
				WhereOr("f.category "+match+" ? ESCAPE '!'", pattern)
		}).
		OrderExpr("f.id ASC")
	if maxPrice != nil {
		q = q.Where("f.price <= ?", *maxPrice)
	}

	if err := q.Scan(ctx); err != nil && !errors.Is(err, sql.ErrNoRows) {
		logx.Error().Err(err).Str("query", query).Msg("catalog: search foods")
		return []contractx.FoodItem{{Error: menuStoreApology}}
	}

	items := make([]contractx.FoodItem, 0, len(foods))
	for _, f := range foods {
		items = append(items, f.Item())
	}
	return items
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func likePattern(query string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(query)) + "%"
}

// caseInsensitiveLike picks the matching operator for the dialect. SQLite's
// LIKE already ignores ASCII case and compares other runes exactly.
func (s *Store) caseInsensitiveLike() string {
	if s.db.Dialect().Name() == dialect.PG {
		return "ILIKE"
	}
	return "LIKE"
}
