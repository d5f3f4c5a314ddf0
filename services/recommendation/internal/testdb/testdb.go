// Package testdb builds throwaway sqlite databases with catalog and order fixtures.
package testdb

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/dishonline/services/recommendation/internal/models"
)

// Now is the fixed clock fixtures are stamped with.
var Now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func Open(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
		Logger:  logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.Migrate(db))
	return db
}

type Fixture struct {
	T   *testing.T
	DB  *gorm.DB
	seq int
}

func New(t *testing.T) *Fixture {
	t.Helper()
	return &Fixture{T: t, DB: Open(t)}
}

func (f *Fixture) next() int {
	f.seq++
	return f.seq
}

func (f *Fixture) User(name string) models.User {
	f.T.Helper()
	u := models.User{
		Email:        name + "@example.com",
		Username:     name,
		PasswordHash: "x",
		Role:         models.RoleCustomer,
		IsActive:     true,
	}
	require.NoError(f.T, f.DB.Create(&u).Error)
	return u
}

func (f *Fixture) Deactivate(u models.User) {
	f.T.Helper()
	require.NoError(f.T, f.DB.Model(&models.User{}).Where("id = ?", u.ID).Update("is_active", false).Error)
}

// Vendor creates a vendor with its own owner account.
func (f *Fixture) Vendor(slug string, approved bool) models.Vendor {
	f.T.Helper()
	owner := f.User("owner-" + slug)
	v := models.Vendor{
		UserID:     owner.ID,
		VendorName: "Vendor " + slug,
		VendorSlug: slug,
		VendorLogo: "vendor/logos/" + slug + ".png",
		IsApproved: approved,
	}
	require.NoError(f.T, f.DB.Create(&v).Error)
	return v
}

func (f *Fixture) Category(v models.Vendor, name string) models.Category {
	f.T.Helper()
	c := models.Category{VendorID: v.ID, CategoryName: name, Slug: fmt.Sprintf("%s-%d", name, f.next())}
	require.NoError(f.T, f.DB.Create(&c).Error)
	return c
}

func (f *Fixture) Item(v models.Vendor, c models.Category, title string, price float64) models.FoodItem {
	f.T.Helper()
	it := models.FoodItem{
		VendorID:    v.ID,
		CategoryID:  c.ID,
		FoodTitle:   title,
		Slug:        fmt.Sprintf("%s-%d", title, f.next()),
		Price:       price,
		Image:       "foodimages/" + title + ".jpg",
		IsAvailable: true,
	}
	require.NoError(f.T, f.DB.Create(&it).Error)
	return it
}

func (f *Fixture) SetAvailable(it models.FoodItem, available bool) {
	f.T.Helper()
	require.NoError(f.T, f.DB.Model(&models.FoodItem{}).Where("id = ?", it.ID).Update("is_available", available).Error)
}

// Order creates an order for u with one line per item, all stamped at.
// placed marks it as a completed order; otherwise it stays a cart.
func (f *Fixture) Order(u models.User, placed bool, at time.Time, items ...models.FoodItem) models.Order {
	f.T.Helper()
	o := models.Order{
		UserID:      u.ID,
		OrderNumber: fmt.Sprintf("ORD%06d", f.next()),
		Status:      "Completed",
		IsOrdered:   placed,
		CreatedAt:   at,
	}
	if !placed {
		o.Status = "New"
	}
	require.NoError(f.T, f.DB.Create(&o).Error)

	total := 0.0
	for _, it := range items {
		line := models.OrderedFood{
			OrderID:    o.ID,
			UserID:     u.ID,
			FoodItemID: it.ID,
			Quantity:   1,
			Price:      it.Price,
			Amount:     it.Price,
			CreatedAt:  at,
		}
		require.NoError(f.T, f.DB.Create(&line).Error)
		total += it.Price
	}
	require.NoError(f.T, f.DB.Model(&o).Update("total", total).Error)
	o.Total = total
	return o
}

func (f *Fixture) Placed(u models.User, items ...models.FoodItem) models.Order {
	f.T.Helper()
	return f.Order(u, true, Now.Add(-24*time.Hour), items...)
}

func (f *Fixture) Review(u models.User, it models.FoodItem, o models.Order, rating int) models.Review {
	f.T.Helper()
	r := models.Review{UserID: u.ID, FoodItemID: it.ID, OrderID: o.ID, Rating: rating, ReviewText: "ok"}
	require.NoError(f.T, f.DB.Create(&r).Error)
	return r
}

// Rate attaches a review by a fresh customer who placed an order for the item.
func (f *Fixture) Rate(it models.FoodItem, rating int) models.Review {
	f.T.Helper()
	u := f.User(fmt.Sprintf("rater-%d", f.next()))
	o := f.Placed(u, it)
	return f.Review(u, it, o, rating)
}
