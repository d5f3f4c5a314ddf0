package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/dishonline/services/recommendation/internal/models"
	"github.com/Skotchmaster/dishonline/services/recommendation/internal/repo"
	"github.com/Skotchmaster/dishonline/services/recommendation/internal/testdb"
)

func newEngine(f *testdb.Fixture) *Engine {
	e := NewEngine(&repo.GormRepo{DB: f.DB})
	e.Now = func() time.Time { return testdb.Now }
	return e
}

func itemIDs(items []ItemSummary) []uint {
	out := make([]uint, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

type shop struct {
	f      *testdb.Fixture
	vendor models.Vendor
	cat    models.Category
}

func newShop(t *testing.T) *shop {
	f := testdb.New(t)
	v := f.Vendor("burger-barn", true)
	return &shop{f: f, vendor: v, cat: f.Category(v, "burgers")}
}

func (s *shop) item(title string) models.FoodItem {
	return s.f.Item(s.vendor, s.cat, title, 12.5)
}

func TestResolveLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		kind    Kind
		in      int
		want    int
		wantErr bool
	}{
		{name: "default order again", kind: KindOrderAgain, in: 0, want: 10},
		{name: "default fbt", kind: KindFrequentlyBoughtTogether, in: 0, want: 6},
		{name: "default vendors", kind: KindVendors, in: 0, want: 6},
		{name: "explicit", kind: KindTrending, in: 3, want: 3},
		{name: "capped", kind: KindTrending, in: 1000, want: MaxLimit},
		{name: "negative", kind: KindTrending, in: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ResolveLimit(tt.kind, tt.in)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	k, err := ParseKind("similar-items")
	require.NoError(t, err)
	assert.Equal(t, KindSimilarItems, k)

	_, err = ParseKind("best-sellers")
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestOrderAgain_Scenario(t *testing.T) {
	t.Parallel()

	s := newShop(t)
	a, b := s.item("A"), s.item("B")
	u := s.f.User("u")
	for i := 0; i < 3; i++ {
		s.f.Placed(u, a)
	}
	s.f.Placed(u, b)

	got, err := newEngine(s.f).OrderAgain(context.Background(), u.ID, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, a.ID, got[0].ID)
	assert.Equal(t, "A", got[0].Title)
	assert.Equal(t, "Vendor burger-barn", got[0].Vendor)
	assert.Equal(t, "burger-barn", got[0].VendorSlug)
	assert.InDelta(t, 12.5, got[0].Price, 1e-9)
}

func TestUserOperations_AnonymousIsEmpty(t *testing.T) {
	t.Parallel()

	s := newShop(t)
	u := s.f.User("u")
	s.f.Placed(u, s.item("A"))
	e := newEngine(s.f)
	ctx := context.Background()

	oa, err := e.OrderAgain(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, oa)
	assert.NotNil(t, oa)

	cao, err := e.CustomersAlsoOrdered(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, cao)

	cat, err := e.CategoryRecommendations(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, cat)

	vendors, err := e.VendorRecommendations(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, vendors)

	_, err = e.OrderAgain(ctx, 0, -5)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestFrequentlyBoughtTogether_Scenario(t *testing.T) {
	t.Parallel()

	s := newShop(t)
	x, y := s.item("X"), s.item("Y")
	for _, name := range []string{"o1", "o2", "o3", "o4"} {
		s.f.Placed(s.f.User(name), x, y)
	}

	e := newEngine(s.f)
	got, err := e.FrequentlyBoughtTogether(context.Background(), x.ID, 0)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, y.ID, got[0].ID)
	assert.GreaterOrEqual(t, got[0].Score, 3.0)
	assert.NotContains(t, itemIDs(got), x.ID)

	_, err = e.FrequentlyBoughtTogether(context.Background(), 0, 0)
	assert.True(t, errors.Is(err, ErrValidation))

	missing, err := e.FrequentlyBoughtTogether(context.Background(), 987654, 0)
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestTrending_ExcludesUnavailable(t *testing.T) {
	t.Parallel()

	s := newShop(t)
	w, ok := s.item("W"), s.item("ok")
	u := s.f.User("u")
	for i := 0; i < 4; i++ {
		s.f.Placed(u, w)
	}
	s.f.Placed(u, ok)
	s.f.SetAvailable(w, false)

	got, err := newEngine(s.f).Trending(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []uint{ok.ID}, itemIDs(got))
}

func TestTopRated_NeverZeroReviews(t *testing.T) {
	t.Parallel()

	s := newShop(t)
	rated, unrated := s.item("rated"), s.item("unrated")
	s.f.Rate(rated, 3)

	got, err := newEngine(s.f).TopRated(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []uint{rated.ID}, itemIDs(got))
	assert.NotContains(t, itemIDs(got), unrated.ID)
	assert.EqualValues(t, 1, got[0].ReviewCount)
}

func TestFoodItemRating_Rounding(t *testing.T) {
	t.Parallel()

	s := newShop(t)
	z := s.item("Z")
	for _, r := range []int{5, 5, 4} {
		s.f.Rate(z, r)
	}
	e := newEngine(s.f)

	got, err := e.FoodItemRating(context.Background(), z.ID)
	require.NoError(t, err)
	assert.Equal(t, Rating{AvgRating: 4.7, ReviewCount: 3}, got)

	none, err := e.FoodItemRating(context.Background(), s.item("fresh").ID)
	require.NoError(t, err)
	assert.Equal(t, Rating{}, none)

	vr, err := e.VendorRating(context.Background(), s.vendor.ID)
	require.NoError(t, err)
	assert.Equal(t, Rating{AvgRating: 4.7, ReviewCount: 3}, vr)
}

func TestFoodItemRating_TieRoundsToEven(t *testing.T) {
	t.Parallel()

	s := newShop(t)
	tie := s.item("tie")
	for _, r := range []int{4, 4, 5, 4} {
		s.f.Rate(tie, r)
	}

	got, err := newEngine(s.f).FoodItemRating(context.Background(), tie.ID)
	require.NoError(t, err)
	assert.Equal(t, Rating{AvgRating: 4.2, ReviewCount: 4}, got)
}

func TestRoundRating(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 4.7, roundRating(14.0/3.0))
	assert.Equal(t, 0.0, roundRating(0))
	assert.Equal(t, 3.0, roundRating(2.96))
	assert.Equal(t, 4.2, roundRating(17.0/4.0))
	assert.Equal(t, 4.3, roundRating(4.35))
	assert.Equal(t, 2.5, roundRating(2.45))
}

func TestVendorRecommendations_FallbackForNewUser(t *testing.T) {
	t.Parallel()

	f := testdb.New(t)
	big := f.Vendor("big", true)
	small := f.Vendor("small", true)
	hidden := f.Vendor("hidden", false)
	bi := f.Item(big, f.Category(big, "c"), "b", 1)
	si := f.Item(small, f.Category(small, "c"), "s", 1)
	hi := f.Item(hidden, f.Category(hidden, "c"), "h", 1)
	u := f.User("u")
	f.Placed(u, bi)
	f.Placed(u, bi)
	f.Placed(u, si)
	for i := 0; i < 5; i++ {
		f.Placed(u, hi)
	}

	newbie := f.User("newbie")
	got, err := newEngine(f).VendorRecommendations(context.Background(), newbie.ID, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, big.ID, got[0].ID)
	assert.Equal(t, "big", got[0].Slug)
	assert.Equal(t, small.ID, got[1].ID)
}

func TestHomepage(t *testing.T) {
	t.Parallel()

	s := newShop(t)
	a, b, c := s.item("A"), s.item("B"), s.item("C")
	me := s.f.User("me")
	s.f.Placed(me, a)
	other := s.f.User("other")
	s.f.Placed(other, a, b)
	s.f.Rate(c, 5)
	e := newEngine(s.f)

	anon, err := e.Homepage(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Empty(t, anon.OrderAgain)
	assert.Empty(t, anon.ForYou)
	assert.Empty(t, anon.RecommendedVendors)
	assert.NotEmpty(t, anon.Trending)
	assert.Equal(t, []uint{c.ID}, itemIDs(anon.TopRated))

	mine, err := e.Homepage(context.Background(), me.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint{a.ID}, itemIDs(mine.OrderAgain))
	assert.Equal(t, []uint{b.ID}, itemIDs(mine.ForYou))
	assert.LessOrEqual(t, len(mine.Trending), 6)
}

func TestRecommend_Dispatch(t *testing.T) {
	t.Parallel()

	s := newShop(t)
	a, b := s.item("A"), s.item("B")
	u := s.f.User("u")
	s.f.Placed(u, a, b)
	e := newEngine(s.f)

	res, err := e.Recommend(context.Background(), KindSimilarItems, Query{ItemID: a.ID})
	require.NoError(t, err)
	assert.Equal(t, KindSimilarItems, res.Kind)
	assert.Equal(t, []uint{b.ID}, itemIDs(res.Items))

	res, err = e.Recommend(context.Background(), KindVendors, Query{UserID: u.ID})
	require.NoError(t, err)
	assert.Empty(t, res.Vendors)

	_, err = e.Recommend(context.Background(), KindHomepage, Query{})
	assert.True(t, errors.Is(err, ErrValidation))
}
