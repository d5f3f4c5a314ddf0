package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrNoOrderLine = errors.New("order has no line for item")

type GormRepo struct {
	DB *gorm.DB
}

// Scored is one ranked row. Score is a count or an average depending on the query;
// Count is only filled where the query also counts reviews.
type Scored struct {
	ID    uint    `gorm:"column:id"`
	Score float64 `gorm:"column:score"`
	Count int64   `gorm:"column:cnt"`
}

func IDs(rows []Scored) []uint {
	out := make([]uint, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

// completedLines selects order lines whose order was actually placed, aliased ol.
func (r *GormRepo) completedLines(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Table("ordered_foods AS ol").
		Joins("JOIN orders o ON o.id = ol.order_id AND o.is_ordered = ?", true)
}

func (r *GormRepo) availableItems(q *gorm.DB) *gorm.DB {
	return q.Joins("JOIN food_items fi ON fi.id = ol.food_item_id AND fi.is_available = ?", true)
}

// userItems is a subquery of the distinct items the user has in completed orders.
func (r *GormRepo) userItems(ctx context.Context, userID uint) *gorm.DB {
	return r.completedLines(ctx).
		Where("ol.user_id = ?", userID).
		Distinct("ol.food_item_id")
}

// userVendors is a subquery of the distinct vendors the user has bought from.
func (r *GormRepo) userVendors(ctx context.Context, userID uint) *gorm.DB {
	return r.completedLines(ctx).
		Joins("JOIN food_items ufi ON ufi.id = ol.food_item_id").
		Where("ol.user_id = ?", userID).
		Distinct("ufi.vendor_id")
}

func (r *GormRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
