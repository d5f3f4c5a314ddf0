package service

import (
	"context"
	"strconv"

	"github.com/Skotchmaster/dishonline/services/recommendation/internal/repo"
)

type Rating struct {
	AvgRating   float64 `json:"avg_rating"`
	ReviewCount int64   `json:"review_count"`
}

// roundRating keeps one decimal. Exact ties go to the even digit, so 4.25 becomes 4.2.
func roundRating(avg float64) float64 {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(avg, 'f', 1, 64), 64)
	return v
}

func ratingFrom(row repo.Scored) Rating {
	if row.Count == 0 {
		return Rating{}
	}
	return Rating{AvgRating: roundRating(row.Score), ReviewCount: row.Count}
}

type ItemSummary struct {
	ID         uint    `json:"id"`
	Title      string  `json:"title"`
	Price      float64 `json:"price"`
	Image      string  `json:"image"`
	Vendor     string  `json:"vendor"`
	VendorSlug string  `json:"vendor_slug"`
	Score      float64 `json:"score"`
	Rating
}

type VendorSummary struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Slug  string  `json:"slug"`
	Logo  string  `json:"logo"`
	Score float64 `json:"score"`
	Rating
}

// hydrateItems turns ranked ids into summaries, keeping rank order.
func hydrateItems(ctx context.Context, r *repo.GormRepo, rows []repo.Scored) ([]ItemSummary, error) {
	out := make([]ItemSummary, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	ids := repo.IDs(rows)

	items, err := r.ItemsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	ratings, err := r.ItemRatings(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]int, len(items))
	for i, it := range items {
		byID[it.ID] = i
	}
	for _, row := range rows {
		i, ok := byID[row.ID]
		if !ok {
			continue
		}
		it := items[i]
		out = append(out, ItemSummary{
			ID:         it.ID,
			Title:      it.FoodTitle,
			Price:      it.Price,
			Image:      it.Image,
			Vendor:     it.Vendor.VendorName,
			VendorSlug: it.Vendor.VendorSlug,
			Score:      row.Score,
			Rating:     ratingFrom(ratings[it.ID]),
		})
	}
	return out, nil
}

func hydrateVendors(ctx context.Context, r *repo.GormRepo, rows []repo.Scored) ([]VendorSummary, error) {
	out := make([]VendorSummary, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	ids := repo.IDs(rows)

	vendors, err := r.VendorsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	ratings, err := r.VendorRatings(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]int, len(vendors))
	for i, v := range vendors {
		byID[v.ID] = i
	}
	for _, row := range rows {
		i, ok := byID[row.ID]
		if !ok {
			continue
		}
		v := vendors[i]
		out = append(out, VendorSummary{
			ID:     v.ID,
			Name:   v.VendorName,
			Slug:   v.VendorSlug,
			Logo:   v.VendorLogo,
			Score:  row.Score,
			Rating: ratingFrom(ratings[v.ID]),
		})
	}
	return out, nil
}
