// Package seed fills an empty database with a small, believable marketplace:
// customers, approved vendors with menus, two months of orders, reviews and activity.
package seed

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Skotchmaster/dishonline/pkg/logging"
	"github.com/Skotchmaster/dishonline/services/recommendation/internal/models"
)

const (
	CustomerPassword = "customer123"
	VendorPassword   = "vendor123"

	historyDays = 60
)

type Stats struct {
	Customers  int
	Vendors    int
	Categories int
	Items      int
	Orders     int
	Reviews    int
	Activities int
}

type Seeder struct {
	DB   *gorm.DB
	Rand *rand.Rand
	Now  func() time.Time
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int

	orderSeq int
}

func New(db *gorm.DB, seed uint64) *Seeder {
	return &Seeder{
		DB:   db,
		Rand: rand.New(rand.NewPCG(seed, seed^0x5eed)),
		Now:  time.Now,
	}
}

// Clear removes everything the seeder creates, children first. Admin accounts are kept.
func (s *Seeder) Clear(ctx context.Context) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{
			&models.UserActivity{}, &models.Review{}, &models.OrderedFood{}, &models.Order{},
			&models.FoodItem{}, &models.Category{}, &models.Vendor{},
		} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Where("role <> ?", models.RoleAdmin).Delete(&models.User{}).Error
	})
}

func (s *Seeder) Run(ctx context.Context) (Stats, error) {
	l := logging.FromContext(ctx).With("svc", "seed")
	var st Stats

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		custHash, err := s.hash(CustomerPassword)
		if err != nil {
			return err
		}
		vendHash, err := s.hash(VendorPassword)
		if err != nil {
			return err
		}

		users, err := s.createUsers(tx, customers, models.RoleCustomer, custHash)
		if err != nil {
			return fmt.Errorf("customers: %w", err)
		}
		st.Customers = len(users)

		vendors, err := s.createVendors(tx, vendHash)
		if err != nil {
			return fmt.Errorf("vendors: %w", err)
		}
		st.Vendors = len(vendors)

		var items []models.FoodItem
		for _, v := range vendors {
			cats, its, err := s.createMenu(tx, v)
			if err != nil {
				return fmt.Errorf("menu of %s: %w", v.VendorSlug, err)
			}
			st.Categories += cats
			items = append(items, its...)
		}
		st.Items = len(items)

		orders, err := s.createOrders(tx, users, items)
		if err != nil {
			return fmt.Errorf("orders: %w", err)
		}
		st.Orders = orders

		if st.Reviews, err = s.createReviews(tx); err != nil {
			return fmt.Errorf("reviews: %w", err)
		}
		if st.Activities, err = s.createActivities(tx, users, items); err != nil {
			return fmt.Errorf("activities: %w", err)
		}
		return nil
	})
	if err != nil {
		return Stats{}, err
	}

	l.Info("seed_done", "customers", st.Customers, "vendors", st.Vendors, "items", st.Items,
		"orders", st.Orders, "reviews", st.Reviews, "activities", st.Activities)
	return st, nil
}

func (s *Seeder) hash(password string) (string, error) {
	cost := s.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

func (s *Seeder) now() time.Time {
	return s.Now().UTC()
}

// daysAgo is a random instant within the last n days.
func (s *Seeder) daysAgo(n int) time.Time {
	return s.now().Add(-time.Duration(s.Rand.Int64N(int64(n) * int64(24*time.Hour))))
}

func (s *Seeder) between(lo, hi int) int {
	return lo + s.Rand.IntN(hi-lo+1)
}

func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func (s *Seeder) createUsers(tx *gorm.DB, people []person, role, hash string) ([]models.User, error) {
	users := make([]models.User, 0, len(people))
	for _, p := range people {
		users = append(users, models.User{
			Email:        p.Email,
			Username:     strings.ToLower(p.First + "." + p.Last),
			FirstName:    p.First,
			LastName:     p.Last,
			PasswordHash: hash,
			Role:         role,
			IsActive:     true,
		})
	}
	if err := tx.Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Seeder) createVendors(tx *gorm.DB, hash string) ([]models.Vendor, error) {
	owners := make([]person, len(restaurants))
	for i, r := range restaurants {
		owners[i] = r.Owner
	}
	users, err := s.createUsers(tx, owners, models.RoleVendor, hash)
	if err != nil {
		return nil, err
	}

	vendors := make([]models.Vendor, len(restaurants))
	for i, r := range restaurants {
		vendors[i] = models.Vendor{
			UserID:     users[i].ID,
			VendorName: r.Name,
			VendorSlug: slugify(r.Name),
			VendorLogo: "vendor/logos/" + r.Logo,
			IsApproved: true,
		}
	}
	if err := tx.Create(&vendors).Error; err != nil {
		return nil, err
	}
	return vendors, nil
}

// createMenu gives a vendor 4-6 categories. Categories without a known dish get generic specials.
func (s *Seeder) createMenu(tx *gorm.DB, v models.Vendor) (int, []models.FoodItem, error) {
	names := append([]string(nil), categoryNames...)
	s.Rand.Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })
	names = names[:s.between(4, 6)]

	var items []models.FoodItem
	for _, name := range names {
		cat := models.Category{VendorID: v.ID, CategoryName: name, Slug: fmt.Sprintf("%s-%d", slugify(name), v.ID)}
		if err := tx.Create(&cat).Error; err != nil {
			return 0, nil, err
		}

		var matching []dish
		for _, d := range dishes {
			if d.Category == name {
				matching = append(matching, d)
			}
		}
		if len(matching) == 0 {
			for j := 1; j <= s.between(2, 4); j++ {
				matching = append(matching, dish{
					Category: name,
					Title:    fmt.Sprintf("%s Special %d", name, j),
					MinPrice: 8.99,
					MaxPrice: 24.99,
				})
			}
		} else {
			s.Rand.Shuffle(len(matching), func(i, j int) { matching[i], matching[j] = matching[j], matching[i] })
			matching = matching[:min(len(matching), s.between(2, 4))]
		}

		for _, d := range matching {
			it := models.FoodItem{
				VendorID:    v.ID,
				CategoryID:  cat.ID,
				FoodTitle:   d.Title,
				Slug:        fmt.Sprintf("%s-%d-%d", slugify(d.Title), v.ID, cat.ID),
				Description: fmt.Sprintf("%s from %s", d.Title, v.VendorName),
				Price:       math.Round((d.MinPrice+s.Rand.Float64()*(d.MaxPrice-d.MinPrice))*100) / 100,
				IsAvailable: s.Rand.IntN(4) != 0,
			}
			if d.Image != "" {
				it.Image = "foodimages/" + d.Image
			}
			if err := tx.Create(&it).Error; err != nil {
				return 0, nil, err
			}
			items = append(items, it)
		}
	}
	return len(names), items, nil
}

func (s *Seeder) nextOrderNumber(at time.Time) string {
	s.orderSeq++
	return fmt.Sprintf("%s%05d", at.Format("20060102"), s.orderSeq)
}

var orderStatuses = []string{"New", "Accepted", "Completed", "Completed", "Cancelled"}

// createOrders places 1-4 orders for most customers over the history window, plus a few
// open carts that never count as purchases.
func (s *Seeder) createOrders(tx *gorm.DB, users []models.User, items []models.FoodItem) (int, error) {
	byVendor := map[uint][]models.FoodItem{}
	var vendorIDs []uint
	for _, it := range items {
		if !it.IsAvailable {
			continue
		}
		if _, ok := byVendor[it.VendorID]; !ok {
			vendorIDs = append(vendorIDs, it.VendorID)
		}
		byVendor[it.VendorID] = append(byVendor[it.VendorID], it)
	}
	if len(vendorIDs) == 0 {
		return 0, nil
	}

	count := 0
	buyers := users[:len(users)*7/10]
	for _, u := range buyers {
		for n := s.between(1, 4); n > 0; n-- {
			if err := s.placeOrder(tx, u, true, byVendor, vendorIDs); err != nil {
				return count, err
			}
			count++
		}
	}
	for _, u := range users[len(buyers):] {
		if err := s.placeOrder(tx, u, false, byVendor, vendorIDs); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (s *Seeder) placeOrder(tx *gorm.DB, u models.User, placed bool, byVendor map[uint][]models.FoodItem, vendorIDs []uint) error {
	at := s.daysAgo(historyDays)
	status := "New"
	if placed {
		status = orderStatuses[s.Rand.IntN(len(orderStatuses))]
	}
	o := models.Order{
		UserID:      u.ID,
		OrderNumber: s.nextOrderNumber(at),
		Status:      status,
		IsOrdered:   placed,
		CreatedAt:   at,
	}
	if err := tx.Create(&o).Error; err != nil {
		return err
	}

	picked := append([]uint(nil), vendorIDs...)
	s.Rand.Shuffle(len(picked), func(i, j int) { picked[i], picked[j] = picked[j], picked[i] })
	picked = picked[:min(len(picked), s.between(1, 2))]

	var lines []models.OrderedFood
	total := 0.0
	for _, vid := range picked {
		menu := append([]models.FoodItem(nil), byVendor[vid]...)
		s.Rand.Shuffle(len(menu), func(i, j int) { menu[i], menu[j] = menu[j], menu[i] })
		for _, it := range menu[:min(len(menu), s.between(1, 4))] {
			qty := s.between(1, 3)
			amount := it.Price * float64(qty)
			total += amount
			lines = append(lines, models.OrderedFood{
				OrderID:    o.ID,
				UserID:     u.ID,
				FoodItemID: it.ID,
				Quantity:   qty,
				Price:      it.Price,
				Amount:     amount,
				CreatedAt:  at,
			})
		}
	}
	if len(lines) > 0 {
		if err := tx.Create(&lines).Error; err != nil {
			return err
		}
	}
	return tx.Model(&o).Update("total", math.Round(total*100)/100).Error
}

// createReviews reviews at least half the lines of every completed order, mostly positively.
func (s *Seeder) createReviews(tx *gorm.DB) (int, error) {
	var orders []models.Order
	if err := tx.Where("is_ordered = ? AND status = ?", true, "Completed").Order("id").Find(&orders).Error; err != nil {
		return 0, err
	}

	count := 0
	for _, o := range orders {
		var lines []models.OrderedFood
		if err := tx.Where("order_id = ?", o.ID).Order("id").Find(&lines).Error; err != nil {
			return count, err
		}
		if len(lines) == 0 {
			continue
		}
		s.Rand.Shuffle(len(lines), func(i, j int) { lines[i], lines[j] = lines[j], lines[i] })

		seen := map[uint]bool{}
		for _, ln := range lines[:s.between(max(1, len(lines)/2), len(lines))] {
			if seen[ln.FoodItemID] {
				continue
			}
			seen[ln.FoodItemID] = true
			r := models.Review{
				UserID:     o.UserID,
				FoodItemID: ln.FoodItemID,
				OrderID:    o.ID,
				Rating:     s.between(3, 5),
				ReviewText: reviewTexts[s.Rand.IntN(len(reviewTexts))],
			}
			if err := tx.Create(&r).Error; err != nil {
				return count, err
			}
			count++
		}
	}
	return count, nil
}

func (s *Seeder) createActivities(tx *gorm.DB, users []models.User, items []models.FoodItem) (int, error) {
	var rows []models.UserActivity
	for _, u := range users {
		for n := s.between(3, 8); n > 0; n-- {
			rows = append(rows, models.UserActivity{
				UserID:       u.ID,
				ActivityType: models.ActivitySearch,
				SearchQuery:  searchQueries[s.Rand.IntN(len(searchQueries))],
				CreatedAt:    s.daysAgo(30),
			})
		}
		if len(items) == 0 {
			continue
		}
		for n := s.between(10, 20); n > 0; n-- {
			it := items[s.Rand.IntN(len(items))]
			kind := models.ActivityView
			if s.Rand.IntN(4) == 0 {
				kind = models.ActivityCart
			}
			rows = append(rows, models.UserActivity{
				UserID:       u.ID,
				FoodItemID:   &it.ID,
				VendorID:     &it.VendorID,
				ActivityType: kind,
				CreatedAt:    s.daysAgo(30),
			})
		}
	}
	if len(rows) == 0 {
		return 0, nil
	}
	if err := tx.CreateInBatches(&rows, 200).Error; err != nil {
		return 0, err
	}
	return len(rows), nil
}
