package repo

import (
	"context"

	"github.com/Skotchmaster/dishonline/services/recommendation/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewInput struct {
	UserID      uint
	OrderNumber string
	FoodItemID  uint
	Rating      int
	ReviewText  string
}

// UpsertReview writes the review for (user, item, order) in one transaction.
// It returns gorm.ErrRecordNotFound when the user has no placed order with that
// number and ErrNoOrderLine when the order does not contain the item.
func (r *GormRepo) UpsertReview(ctx context.Context, in ReviewInput) (*models.Review, bool, error) {
	var stored models.Review
	created := false

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Where("order_number = ? AND user_id = ? AND is_ordered = ?", in.OrderNumber, in.UserID, true).
			First(&order).Error; err != nil {
			return err
		}

		var lines int64
		if err := tx.Model(&models.OrderedFood{}).
			Where("order_id = ? AND food_item_id = ?", order.ID, in.FoodItemID).
			Count(&lines).Error; err != nil {
			return err
		}
		if lines == 0 {
			return ErrNoOrderLine
		}

		key := "user_id = ? AND food_item_id = ? AND order_id = ?"
		var existing int64
		if err := tx.Model(&models.Review{}).Where(key, in.UserID, in.FoodItemID, order.ID).Count(&existing).Error; err != nil {
			return err
		}
		created = existing == 0

		review := models.Review{
			UserID:     in.UserID,
			FoodItemID: in.FoodItemID,
			OrderID:    order.ID,
			Rating:     in.Rating,
			ReviewText: in.ReviewText,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "food_item_id"}, {Name: "order_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "review_text", "updated_at"}),
		}).Create(&review).Error; err != nil {
			return err
		}

		return tx.Where(key, in.UserID, in.FoodItemID, order.ID).First(&stored).Error
	})
	if err != nil {
		return nil, false, err
	}
	return &stored, created, nil
}

func (r *GormRepo) GetFoodItem(ctx context.Context, id uint) (*models.FoodItem, error) {
	var item models.FoodItem
	if err := r.DB.WithContext(ctx).Preload("Vendor").First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) GetVendorBySlug(ctx context.Context, slug string) (*models.Vendor, error) {
	var v models.Vendor
	if err := r.DB.WithContext(ctx).Where("vendor_slug = ?", slug).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *GormRepo) ItemReviews(ctx context.Context, itemID uint, limit int) ([]models.Review, error) {
	var out []models.Review
	err := r.DB.WithContext(ctx).
		Preload("User").
		Where("food_item_id = ?", itemID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *GormRepo) VendorReviews(ctx context.Context, vendorID uint, limit int) ([]models.Review, error) {
	var out []models.Review
	err := r.DB.WithContext(ctx).
		Preload("User").
		Joins("JOIN food_items fi ON fi.id = reviews.food_item_id").
		Where("fi.vendor_id = ?", vendorID).
		Order("reviews.created_at DESC").Order("reviews.id DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}
