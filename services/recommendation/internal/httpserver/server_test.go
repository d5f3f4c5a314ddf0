package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/dishonline/pkg/tokens"
	"github.com/Skotchmaster/dishonline/services/recommendation/internal/models"
	"github.com/Skotchmaster/dishonline/services/recommendation/internal/repo"
	"github.com/Skotchmaster/dishonline/services/recommendation/internal/service"
	"github.com/Skotchmaster/dishonline/services/recommendation/internal/testdb"
)

var testSecret = []byte("test-secret")

type testEnv struct {
	t *testing.T
	f *testdb.Fixture
	e *echo.Echo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	f := testdb.New(t)
	r := &repo.GormRepo{DB: f.DB}
	engine := service.NewEngine(r)
	engine.Now = func() time.Time { return testdb.Now }

	e := echo.New()
	Register(e, &Deps{
		Recommendations: &RecommendationHTTP{Engine: engine},
		Reviews:         &ReviewHTTP{Svc: &service.ReviewService{Repo: r}},
		Activity:        &ActivityHTTP{Svc: &service.ActivityService{Repo: r}},
		Search:          &SearchHTTP{Svc: &service.SearchService{}},
		DB:              f.DB,
		JWTSecret:       testSecret,
	})
	return &testEnv{t: t, f: f, e: e}
}

func (env *testEnv) session(u models.User) *http.Cookie {
	env.t.Helper()
	tok, err := tokens.NewAccessToken(u.ID, models.RoleCustomer, time.Now().Add(time.Hour), testSecret)
	require.NoError(env.t, err)
	return &http.Cookie{Name: tokens.AccessCookie, Value: tok, Path: "/"}
}

func (env *testEnv) do(method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	env.t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func itoa(n uint) string {
	return strconv.FormatUint(uint64(n), 10)
}

type itemsBody struct {
	Kind  string                `json:"kind"`
	Items []service.ItemSummary `json:"items"`
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/health/live", "").Code)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/health/ready", "").Code)
}

func TestRecommendations_OrderAgain(t *testing.T) {
	env := newTestEnv(t)
	v := env.f.Vendor("wok", true)
	c := env.f.Category(v, "noodles")
	a := env.f.Item(v, c, "pad-thai", 10)
	b := env.f.Item(v, c, "ramen", 12)
	u := env.f.User("u")
	env.f.Placed(u, a)
	env.f.Placed(u, a)
	env.f.Placed(u, b)

	rec := env.do(http.MethodGet, "/recommendations/order-again?limit=1", "", env.session(u))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[itemsBody](t, rec)
	assert.Equal(t, "order-again", body.Kind)
	require.Len(t, body.Items, 1)
	assert.Equal(t, a.ID, body.Items[0].ID)

	anon := env.do(http.MethodGet, "/recommendations/order-again", "")
	require.Equal(t, http.StatusOK, anon.Code)
	assert.JSONEq(t, `{"kind":"order-again","items":[]}`, anon.Body.String())

	garbage := &http.Cookie{Name: tokens.AccessCookie, Value: "not-a-jwt"}
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/recommendations/order-again", "", garbage).Code)
}

func TestRecommendations_BadRequests(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		target string
	}{
		{name: "unknown kind", target: "/recommendations/best-sellers"},
		{name: "zero limit", target: "/recommendations/trending?limit=0"},
		{name: "negative limit", target: "/recommendations/trending?limit=-2"},
		{name: "text limit", target: "/recommendations/trending?limit=ten"},
		{name: "missing item", target: "/recommendations/frequently-bought-together"},
		{name: "bad item", target: "/recommendations/similar-items?item=x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, tt.target, "").Code)
		})
	}
}

func TestRecommendations_HomepageAndVendors(t *testing.T) {
	env := newTestEnv(t)
	v := env.f.Vendor("wok", true)
	it := env.f.Item(v, env.f.Category(v, "noodles"), "pad-thai", 10)
	env.f.Rate(it, 5)

	rec := env.do(http.MethodGet, "/recommendations/homepage", "")
	require.Equal(t, http.StatusOK, rec.Code)
	hp := decode[service.Homepage](t, rec)
	assert.Empty(t, hp.OrderAgain)
	require.Len(t, hp.TopRated, 1)
	assert.Equal(t, 5.0, hp.TopRated[0].AvgRating)

	newbie := env.f.User("newbie")
	rec = env.do(http.MethodGet, "/recommendations/vendors", "", env.session(newbie))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		Vendors []service.VendorSummary `json:"vendors"`
	}](t, rec)
	require.Len(t, body.Vendors, 1)
	assert.Equal(t, "wok", body.Vendors[0].Slug)
}

func TestRatings(t *testing.T) {
	env := newTestEnv(t)
	v := env.f.Vendor("wok", true)
	it := env.f.Item(v, env.f.Category(v, "noodles"), "pad-thai", 10)
	for _, r := range []int{5, 5, 4} {
		env.f.Rate(it, r)
	}

	rec := env.do(http.MethodGet, "/ratings/items/"+itoa(it.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"avg_rating":4.7,"review_count":3}`, rec.Body.String())

	rec = env.do(http.MethodGet, "/ratings/vendors/"+itoa(v.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"avg_rating":4.7,"review_count":3}`, rec.Body.String())

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/ratings/items/abc", "").Code)
}

func TestSubmitReview(t *testing.T) {
	env := newTestEnv(t)
	v := env.f.Vendor("wok", true)
	c := env.f.Category(v, "noodles")
	bought := env.f.Item(v, c, "pad-thai", 10)
	other := env.f.Item(v, c, "ramen", 12)
	u := env.f.User("u")
	o := env.f.Placed(u, bought)
	ck := env.session(u)

	body := func(item uint, rating int) string {
		return `{"order_number":"` + o.OrderNumber + `","food_item_id":` + itoa(item) + `,"rating":` + itoa(uint(rating)) + `,"review_text":"tasty"}`
	}

	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodPost, "/reviews", body(bought.ID, 5)).Code)

	rec := env.do(http.MethodPost, "/reviews", body(bought.ID, 5), ck)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[service.ReviewResult](t, rec)
	assert.True(t, created.Created)

	rec = env.do(http.MethodPost, "/reviews", body(bought.ID, 3), ck)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[service.ReviewResult](t, rec)
	assert.False(t, updated.Created)
	assert.Equal(t, created.Review.ID, updated.Review.ID)
	assert.Equal(t, 3, updated.Review.Rating)

	assert.Equal(t, http.StatusForbidden, env.do(http.MethodPost, "/reviews", body(other.ID, 4), ck).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/reviews", body(bought.ID, 7), ck).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/reviews", `{"order_number":"x","food_item_id":1,"rating":4.5}`, ck).Code)
	assert.Equal(t, http.StatusNotFound,
		env.do(http.MethodPost, "/reviews", `{"order_number":"ORD999999","food_item_id":`+itoa(bought.ID)+`,"rating":4}`, ck).Code)
}

func TestReviewListings(t *testing.T) {
	env := newTestEnv(t)
	v := env.f.Vendor("wok", true)
	it := env.f.Item(v, env.f.Category(v, "noodles"), "pad-thai", 10)
	env.f.Rate(it, 4)

	rec := env.do(http.MethodGet, "/reviews/items/"+itoa(it.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	listing := decode[service.ReviewListing](t, rec)
	assert.EqualValues(t, 1, listing.ReviewCount)
	assert.Len(t, listing.Reviews, 1)

	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/reviews/vendors/wok", "").Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/reviews/vendors/nobody", "").Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/reviews/items/424242", "").Code)
}

func TestTrackActivity(t *testing.T) {
	env := newTestEnv(t)
	u := env.f.User("u")

	rec := env.do(http.MethodPost, "/activity", `{"activity_type":"view","food_id":"5"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ignored"}`, rec.Body.String())

	rec = env.do(http.MethodPost, "/activity", `{"activity_type":"view","food_id":5,"vendor_id":"oops"}`, env.session(u))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"tracked"}`, rec.Body.String())

	rec = env.do(http.MethodPost, "/activity", `{"activity_type":"wishlist"}`, env.session(u))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"status":"invalid"}`, rec.Body.String())

	var rows []models.UserActivity
	require.NoError(t, env.f.DB.Find(&rows).Error)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].FoodItemID)
	assert.EqualValues(t, 5, *rows[0].FoodItemID)
	assert.Nil(t, rows[0].VendorID)
}

func TestTrendingSearches_Unavailable(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusServiceUnavailable, env.do(http.MethodGet, "/search/trending", "").Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/search/trending?days=abc", "").Code)
}

func TestStatusOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.StatusNotFound, statusOf(service.ErrOrderNotEligible))
	assert.Equal(t, http.StatusForbidden, statusOf(service.ErrNotPurchased))
	assert.Equal(t, http.StatusServiceUnavailable, statusOf(service.ErrUnavailable))
	assert.Equal(t, http.StatusInternalServerError, statusOf(assert.AnError))
}
