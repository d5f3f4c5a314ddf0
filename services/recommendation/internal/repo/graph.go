package repo

import (
	"context"
	"time"
)

// GraphLine is one completed order line with the fields the order graph needs.
type GraphLine struct {
	LineID      uint      `gorm:"column:line_id"`
	UserID      uint      `gorm:"column:user_id"`
	Username    string    `gorm:"column:username"`
	OrderID     uint      `gorm:"column:order_id"`
	OrderNumber string    `gorm:"column:order_number"`
	OrderedAt   time.Time `gorm:"column:ordered_at"`
	ItemID      uint      `gorm:"column:item_id"`
	ItemTitle   string    `gorm:"column:item_title"`
	VendorID    uint      `gorm:"column:vendor_id"`
	Quantity    int       `gorm:"column:quantity"`
}

// CompletedLinesAfter pages through completed order lines by line id.
func (r *GormRepo) CompletedLinesAfter(ctx context.Context, afterID uint, batch int) ([]GraphLine, error) {
	var out []GraphLine
	err := r.completedLines(ctx).
		Select(`ol.id AS line_id, o.user_id AS user_id, u.username AS username,
			o.id AS order_id, o.order_number AS order_number, o.created_at AS ordered_at,
			fi.id AS item_id, fi.food_title AS item_title, fi.vendor_id AS vendor_id, ol.quantity AS quantity`).
		Joins("JOIN users u ON u.id = o.user_id").
		Joins("JOIN food_items fi ON fi.id = ol.food_item_id").
		Where("ol.id > ?", afterID).
		Order("ol.id ASC").
		Limit(batch).
		Scan(&out).Error
	return out, err
}
