package repo

import (
	"context"
	"errors"
	"time"

	"github.com/Skotchmaster/dishonline/services/recommendation/internal/models"
	"gorm.io/gorm"
)

func (r *GormRepo) OrderAgain(ctx context.Context, userID uint, limit int) ([]Scored, error) {
	var rows []Scored
	err := r.availableItems(r.completedLines(ctx)).
		Select("ol.food_item_id AS id, COUNT(DISTINCT ol.order_id) AS score").
		Where("ol.user_id = ?", userID).
		Group("ol.food_item_id").
		Order("score DESC").Order("ol.food_item_id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *GormRepo) FrequentlyBoughtTogether(ctx context.Context, itemID uint, limit int) ([]Scored, error) {
	withSubject := r.completedLines(ctx).
		Where("ol.food_item_id = ?", itemID).
		Distinct("ol.order_id")

	var rows []Scored
	err := r.availableItems(r.completedLines(ctx)).
		Select("ol.food_item_id AS id, COUNT(DISTINCT ol.order_id) AS score").
		Where("ol.order_id IN (?)", withSubject).
		Where("ol.food_item_id <> ?", itemID).
		Group("ol.food_item_id").
		Order("score DESC").Order("ol.food_item_id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *GormRepo) CustomersAlsoOrdered(ctx context.Context, userID uint, limit int) ([]Scored, error) {
	similar := r.completedLines(ctx).
		Where("ol.food_item_id IN (?)", r.userItems(ctx, userID)).
		Where("ol.user_id <> ?", userID).
		Distinct("ol.user_id")

	var rows []Scored
	err := r.availableItems(r.completedLines(ctx)).
		Select("ol.food_item_id AS id, COUNT(DISTINCT ol.user_id) AS score").
		Where("ol.user_id IN (?)", similar).
		Where("ol.food_item_id NOT IN (?)", r.userItems(ctx, userID)).
		Group("ol.food_item_id").
		Order("score DESC").Order("ol.food_item_id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *GormRepo) Trending(ctx context.Context, since time.Time, limit int) ([]Scored, error) {
	var rows []Scored
	err := r.availableItems(r.completedLines(ctx)).
		Select("ol.food_item_id AS id, COUNT(DISTINCT ol.order_id) AS score").
		Where("ol.created_at >= ?", since).
		Group("ol.food_item_id").
		Order("score DESC").Order("ol.food_item_id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *GormRepo) TopRated(ctx context.Context, limit int) ([]Scored, error) {
	var rows []Scored
	err := r.DB.WithContext(ctx).
		Table("reviews AS rv").
		Joins("JOIN food_items fi ON fi.id = rv.food_item_id AND fi.is_available = ?", true).
		Select("rv.food_item_id AS id, AVG(CAST(rv.rating AS REAL)) AS score, COUNT(rv.id) AS cnt").
		Group("rv.food_item_id").
		Having("COUNT(rv.id) >= 1").
		Order("score DESC").Order("cnt DESC").Order("rv.food_item_id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// TopCategories returns up to n category ids the user ordered from most, by completed line count.
func (r *GormRepo) TopCategories(ctx context.Context, userID uint, n int) ([]uint, error) {
	var rows []Scored
	err := r.completedLines(ctx).
		Joins("JOIN food_items fi ON fi.id = ol.food_item_id").
		Select("fi.category_id AS id, COUNT(ol.id) AS score").
		Where("ol.user_id = ?", userID).
		Group("fi.category_id").
		Order("score DESC").Order("fi.category_id ASC").
		Limit(n).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return IDs(rows), nil
}

func (r *GormRepo) CategoryItems(ctx context.Context, userID uint, categoryIDs []uint, limit int) ([]Scored, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}
	var rows []Scored
	err := r.DB.WithContext(ctx).
		Table("food_items AS fi").
		Joins("LEFT JOIN reviews rv ON rv.food_item_id = fi.id").
		Select("fi.id AS id, COALESCE(AVG(CAST(rv.rating AS REAL)), 0) AS score").
		Where("fi.category_id IN ?", categoryIDs).
		Where("fi.is_available = ?", true).
		Where("fi.id NOT IN (?)", r.userItems(ctx, userID)).
		Group("fi.id").
		Order("score DESC").Order("fi.id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *GormRepo) HasCompletedOrders(ctx context.Context, userID uint) (bool, error) {
	var n int64
	err := r.completedLines(ctx).Where("ol.user_id = ?", userID).Count(&n).Error
	return n > 0, err
}

func (r *GormRepo) eligibleVendors(q *gorm.DB) *gorm.DB {
	return q.
		Joins("JOIN vendors v ON v.id = fi.vendor_id AND v.is_approved = ?", true).
		Joins("JOIN users vu ON vu.id = v.user_id AND vu.is_active = ?", true)
}

func (r *GormRepo) VendorsFromSimilarUsers(ctx context.Context, userID uint, limit int) ([]Scored, error) {
	similar := r.completedLines(ctx).
		Joins("JOIN food_items sfi ON sfi.id = ol.food_item_id").
		Where("sfi.vendor_id IN (?)", r.userVendors(ctx, userID)).
		Where("ol.user_id <> ?", userID).
		Distinct("ol.user_id")

	var rows []Scored
	q := r.completedLines(ctx).Joins("JOIN food_items fi ON fi.id = ol.food_item_id")
	err := r.eligibleVendors(q).
		Select("fi.vendor_id AS id, COUNT(DISTINCT ol.user_id) AS score").
		Where("ol.user_id IN (?)", similar).
		Where("fi.vendor_id NOT IN (?)", r.userVendors(ctx, userID)).
		Group("fi.vendor_id").
		Order("score DESC").Order("fi.vendor_id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *GormRepo) TopVendors(ctx context.Context, limit int) ([]Scored, error) {
	var rows []Scored
	q := r.completedLines(ctx).Joins("JOIN food_items fi ON fi.id = ol.food_item_id")
	err := r.eligibleVendors(q).
		Select("fi.vendor_id AS id, COUNT(DISTINCT ol.order_id) AS score").
		Group("fi.vendor_id").
		Order("score DESC").Order("fi.vendor_id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// SimilarItems ranks available items sharing the subject's category or vendor.
// A missing subject yields no rows.
func (r *GormRepo) SimilarItems(ctx context.Context, itemID uint, limit int) ([]Scored, error) {
	var subject models.FoodItem
	if err := r.DB.WithContext(ctx).Select("id", "category_id", "vendor_id").First(&subject, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var rows []Scored
	err := r.DB.WithContext(ctx).
		Table("food_items AS fi").
		Joins("LEFT JOIN reviews rv ON rv.food_item_id = fi.id").
		Select("fi.id AS id, COALESCE(AVG(CAST(rv.rating AS REAL)), 0) AS score").
		Where("(fi.category_id = ? OR fi.vendor_id = ?)", subject.CategoryID, subject.VendorID).
		Where("fi.is_available = ?", true).
		Where("fi.id <> ?", subject.ID).
		Group("fi.id").
		Order("score DESC").Order("fi.id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *GormRepo) ItemsByIDs(ctx context.Context, ids []uint) ([]models.FoodItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []models.FoodItem
	err := r.DB.WithContext(ctx).Preload("Vendor").Where("id IN ?", ids).Find(&items).Error
	return items, err
}

func (r *GormRepo) VendorsByIDs(ctx context.Context, ids []uint) ([]models.Vendor, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var vendors []models.Vendor
	err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&vendors).Error
	return vendors, err
}
