package repo

import (
	"context"
)

func (r *GormRepo) ItemRating(ctx context.Context, itemID uint) (Scored, error) {
	var row Scored
	err := r.DB.WithContext(ctx).
		Table("reviews AS rv").
		Select("rv.food_item_id AS id, COALESCE(AVG(CAST(rv.rating AS REAL)), 0) AS score, COUNT(rv.id) AS cnt").
		Where("rv.food_item_id = ?", itemID).
		Group("rv.food_item_id").
		Scan(&row).Error
	row.ID = itemID
	return row, err
}

func (r *GormRepo) VendorRating(ctx context.Context, vendorID uint) (Scored, error) {
	var row Scored
	err := r.DB.WithContext(ctx).
		Table("reviews AS rv").
		Joins("JOIN food_items fi ON fi.id = rv.food_item_id").
		Select("fi.vendor_id AS id, COALESCE(AVG(CAST(rv.rating AS REAL)), 0) AS score, COUNT(rv.id) AS cnt").
		Where("fi.vendor_id = ?", vendorID).
		Group("fi.vendor_id").
		Scan(&row).Error
	row.ID = vendorID
	return row, err
}

// ItemRatings aggregates reviews for many items at once. Items without reviews are absent.
func (r *GormRepo) ItemRatings(ctx context.Context, ids []uint) (map[uint]Scored, error) {
	out := make(map[uint]Scored, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []Scored
	err := r.DB.WithContext(ctx).
		Table("reviews AS rv").
		Select("rv.food_item_id AS id, AVG(CAST(rv.rating AS REAL)) AS score, COUNT(rv.id) AS cnt").
		Where("rv.food_item_id IN ?", ids).
		Group("rv.food_item_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

func (r *GormRepo) VendorRatings(ctx context.Context, ids []uint) (map[uint]Scored, error) {
	out := make(map[uint]Scored, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []Scored
	err := r.DB.WithContext(ctx).
		Table("reviews AS rv").
		Joins("JOIN food_items fi ON fi.id = rv.food_item_id").
		Select("fi.vendor_id AS id, AVG(CAST(rv.rating AS REAL)) AS score, COUNT(rv.id) AS cnt").
		Where("fi.vendor_id IN ?", ids).
		Group("fi.vendor_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}
