package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleCustomer = "customer"
	RoleVendor   = "vendor"
	RoleAdmin    = "admin"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Username     string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	FirstName    string    `gorm:"size:50" json:"first_name"`
	LastName     string    `gorm:"size:50" json:"last_name"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"size:16;not null;default:customer" json:"role"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

type Vendor struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	User       User      `gorm:"foreignKey:UserID" json:"-"`
	VendorName string    `gorm:"size:50;not null" json:"vendor_name"`
	VendorSlug string    `gorm:"size:100;uniqueIndex;not null" json:"vendor_slug"`
	VendorLogo string    `gorm:"size:255" json:"vendor_logo"`
	IsApproved bool      `gorm:"not null;default:false;index" json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
}

type Category struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	VendorID     uint   `gorm:"index;not null" json:"vendor_id"`
	CategoryName string `gorm:"size:50;not null" json:"category_name"`
	Slug         string `gorm:"size:100;not null" json:"slug"`
}

type FoodItem struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	VendorID    uint      `gorm:"index;not null" json:"vendor_id"`
	Vendor      Vendor    `gorm:"foreignKey:VendorID" json:"-"`
	CategoryID  uint      `gorm:"index;not null" json:"category_id"`
	FoodTitle   string    `gorm:"size:50;not null" json:"food_title"`
	Slug        string    `gorm:"size:100;not null" json:"slug"`
	Description string    `gorm:"size:250" json:"description"`
	Price       float64   `gorm:"not null;check:price >= 0" json:"price"`
	Image       string    `gorm:"size:255" json:"image"`
	IsAvailable bool      `gorm:"not null;index" json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
}

type Order struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	OrderNumber string    `gorm:"size:20;uniqueIndex;not null" json:"order_number"`
	Total       float64   `gorm:"not null;default:0" json:"total"`
	Status      string    `gorm:"size:15;not null;default:New" json:"status"`
	IsOrdered   bool      `gorm:"not null;default:false;index" json:"is_ordered"`
	CreatedAt   time.Time `json:"created_at"`
}

// OrderedFood is one order line. Only lines of orders with IsOrdered count as purchases.
type OrderedFood struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID    uint      `gorm:"index;not null" json:"order_id"`
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	FoodItemID uint      `gorm:"index;not null" json:"food_item_id"`
	Quantity   int       `gorm:"not null;check:quantity > 0" json:"quantity"`
	Price      float64   `gorm:"not null" json:"price"`
	Amount     float64   `gorm:"not null" json:"amount"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

func (OrderedFood) TableName() string {
	return "ordered_foods"
}

type Review struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_review_user_item_order,priority:1" json:"user_id"`
	User       User      `gorm:"foreignKey:UserID" json:"-"`
	FoodItemID uint      `gorm:"not null;index;uniqueIndex:idx_review_user_item_order,priority:2" json:"food_item_id"`
	OrderID    uint      `gorm:"not null;uniqueIndex:idx_review_user_item_order,priority:3" json:"order_id"`
	Rating     int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	ReviewText string    `gorm:"size:500" json:"review_text"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

const (
	ActivityView   = "view"
	ActivityCart   = "cart"
	ActivityOrder  = "order"
	ActivitySearch = "search"
)

var ActivityTypes = []string{ActivityView, ActivityCart, ActivityOrder, ActivitySearch}

func IsActivityType(s string) bool {
	for _, t := range ActivityTypes {
		if t == s {
			return true
		}
	}
	return false
}

// UserActivity is append-only. Item and vendor ids are not foreign keys; a tracked id may
// point at something that no longer exists.
type UserActivity struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       uint      `gorm:"index;not null" json:"user_id"`
	FoodItemID   *uint     `json:"food_item_id,omitempty"`
	VendorID     *uint     `json:"vendor_id,omitempty"`
	ActivityType string    `gorm:"size:10;not null;index" json:"activity_type"`
	SearchQuery  string    `gorm:"size:200" json:"search_query,omitempty"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}

func (UserActivity) TableName() string {
	return "user_activities"
}

func All() []any {
	return []any{
		&User{}, &Vendor{}, &Category{}, &FoodItem{},
		&Order{}, &OrderedFood{}, &Review{}, &UserActivity{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
