package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/dishonline/services/recommendation/internal/models"
)

const DefaultIndex = "user_activity"

// ActivityDoc is the indexed shape of one tracked activity.
type ActivityDoc struct {
	ID           uint      `json:"id"`
	UserID       uint      `json:"user_id"`
	FoodItemID   *uint     `json:"food_item_id,omitempty"`
	VendorID     *uint     `json:"vendor_id,omitempty"`
	ActivityType string    `json:"activity_type"`
	SearchQuery  string    `json:"search_query,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func DocFromActivity(a models.UserActivity) ActivityDoc {
	return ActivityDoc{
		ID:           a.ID,
		UserID:       a.UserID,
		FoodItemID:   a.FoodItemID,
		VendorID:     a.VendorID,
		ActivityType: a.ActivityType,
		SearchQuery:  a.SearchQuery,
		CreatedAt:    a.CreatedAt.UTC(),
	}
}

type TrendingQuery struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

type ActivityIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func NewActivityIndex(es *elasticsearch.Client, index string) *ActivityIndex {
	if index == "" {
		index = DefaultIndex
	}
	return &ActivityIndex{ES: es, Index: index}
}

var indexMapping = map[string]any{
	"mappings": map[string]any{
		"properties": map[string]any{
			"id":            map[string]any{"type": "long"},
			"user_id":       map[string]any{"type": "long"},
			"food_item_id":  map[string]any{"type": "long"},
			"vendor_id":     map[string]any{"type": "long"},
			"activity_type": map[string]any{"type": "keyword"},
			"search_query": map[string]any{
				"type": "text",
				"fields": map[string]any{
					"keyword": map[string]any{"type": "keyword", "ignore_above": 200},
				},
			},
			"created_at": map[string]any{"type": "date"},
		},
	},
}

// EnsureIndex creates the index with its mapping unless it already exists.
func (a *ActivityIndex) EnsureIndex(ctx context.Context) error {
	res, err := a.ES.Indices.Exists([]string{a.Index}, a.ES.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("es: index exists: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}

	body, err := encode(indexMapping)
	if err != nil {
		return err
	}
	res, err = a.ES.Indices.Create(a.Index, a.ES.Indices.Create.WithContext(ctx), a.ES.Indices.Create.WithBody(body))
	if err != nil {
		return fmt.Errorf("es: create index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return fmt.Errorf("es: create index %s: %s", res.Status(), msg)
	}
	return nil
}

func (a *ActivityIndex) IndexActivity(ctx context.Context, act models.UserActivity) error {
	body, err := encode(DocFromActivity(act))
	if err != nil {
		return err
	}
	res, err := a.ES.Index(
		a.Index,
		body,
		a.ES.Index.WithContext(ctx),
		a.ES.Index.WithDocumentID(strconv.FormatUint(uint64(act.ID), 10)),
	)
	if err != nil {
		return fmt.Errorf("es: index activity: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return fmt.Errorf("es: index activity %s: %s", res.Status(), msg)
	}
	return nil
}

func trendingBody(since time.Time, limit int) map[string]any {
	return map[string]any{
		"size": 0,
		"query": map[string]any{
			"bool": map[string]any{
				"filter": []any{
					map[string]any{"term": map[string]any{"activity_type": models.ActivitySearch}},
					map[string]any{"range": map[string]any{"created_at": map[string]any{"gte": since.UTC().Format(time.RFC3339)}}},
				},
			},
		},
		"aggs": map[string]any{
			"queries": map[string]any{
				"terms": map[string]any{
					"field": "search_query.keyword",
					"size":  limit,
				},
			},
		},
	}
}

// TrendingSearches returns the most frequent search queries since the given time.
func (a *ActivityIndex) TrendingSearches(ctx context.Context, since time.Time, limit int) ([]TrendingQuery, error) {
	body, err := encode(trendingBody(since, limit))
	if err != nil {
		return nil, err
	}

	res, err := a.ES.Search(
		a.ES.Search.WithContext(ctx),
		a.ES.Search.WithIndex(a.Index),
		a.ES.Search.WithBody(body),
	)
	if err != nil {
		return nil, fmt.Errorf("es: search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("es: search %s: %s", res.Status(), msg)
	}

	var r struct {
		Aggregations struct {
			Queries struct {
				Buckets []struct {
					Key      string `json:"key"`
					DocCount int64  `json:"doc_count"`
				} `json:"buckets"`
			} `json:"queries"`
		} `json:"aggregations"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("es: decode search: %w", err)
	}

	out := make([]TrendingQuery, 0, len(r.Aggregations.Queries.Buckets))
	for _, b := range r.Aggregations.Queries.Buckets {
		out = append(out, TrendingQuery{Query: b.Key, Count: b.DocCount})
	}
	return out, nil
}

func encode(v any) (*bytes.Reader, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("es: encode: %w", err)
	}
	return bytes.NewReader(data), nil
}
