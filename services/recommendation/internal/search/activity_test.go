package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/dishonline/services/recommendation/internal/models"
)

type recorded struct {
	method string
	path   string
	body   string
}

func fakeES(t *testing.T, respond func(r *http.Request) (int, string)) (*elasticsearch.Client, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		calls = append(calls, recorded{method: r.Method, path: r.URL.Path, body: string(b)})
		status, body := respond(r)
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return es, &calls
}

func TestIndexActivity(t *testing.T) {
	es, calls := fakeES(t, func(r *http.Request) (int, string) {
		return http.StatusCreated, `{"result":"created"}`
	})
	idx := NewActivityIndex(es, "")

	food := uint(3)
	err := idx.IndexActivity(context.Background(), models.UserActivity{
		ID: 11, UserID: 2, FoodItemID: &food, ActivityType: models.ActivityView,
	})
	require.NoError(t, err)

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.True(t, strings.HasPrefix(call.path, "/user_activity/_doc/11"), call.path)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(call.body), &doc))
	assert.Equal(t, "view", doc["activity_type"])
	assert.EqualValues(t, 3, doc["food_item_id"])
	assert.NotContains(t, doc, "vendor_id")
}

func TestIndexActivity_ErrorStatus(t *testing.T) {
	es, _ := fakeES(t, func(r *http.Request) (int, string) {
		return http.StatusBadRequest, `{"error":"mapper_parsing_exception"}`
	})
	err := NewActivityIndex(es, "acts").IndexActivity(context.Background(), models.UserActivity{ID: 1})
	require.Error(t, err)
}

func TestTrendingSearches(t *testing.T) {
	es, calls := fakeES(t, func(r *http.Request) (int, string) {
		return http.StatusOK, `{"aggregations":{"queries":{"buckets":[{"key":"pizza","doc_count":7},{"key":"sushi","doc_count":2}]}}}`
	})
	since := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	got, err := NewActivityIndex(es, "").TrendingSearches(context.Background(), since, 5)
	require.NoError(t, err)
	assert.Equal(t, []TrendingQuery{{Query: "pizza", Count: 7}, {Query: "sushi", Count: 2}}, got)

	require.Len(t, *calls, 1)
	assert.Equal(t, "/user_activity/_search", (*calls)[0].path)
	assert.Contains(t, (*calls)[0].body, `"search_query.keyword"`)
	assert.Contains(t, (*calls)[0].body, "2025-06-01T00:00:00Z")
}

func TestEnsureIndex_CreatesWhenMissing(t *testing.T) {
	es, calls := fakeES(t, func(r *http.Request) (int, string) {
		if r.Method == http.MethodHead {
			return http.StatusNotFound, ``
		}
		return http.StatusOK, `{"acknowledged":true}`
	})

	require.NoError(t, NewActivityIndex(es, "").EnsureIndex(context.Background()))
	require.Len(t, *calls, 2)
	assert.Equal(t, http.MethodPut, (*calls)[1].method)
	assert.Contains(t, (*calls)[1].body, `"activity_type":{"type":"keyword"}`)
}
