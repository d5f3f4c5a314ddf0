package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	pkgdb "github.com/Skotchmaster/dishonline/pkg/db"
	middleware "github.com/Skotchmaster/dishonline/pkg/middleware/auth"
)

type Deps struct {
	Recommendations *RecommendationHTTP
	Reviews         *ReviewHTTP
	Activity        *ActivityHTTP
	Search          *SearchHTTP

	DB         *gorm.DB
	JWTSecret  []byte
	AuthClient middleware.Refresher

	// ActivityRateLimit is requests per second per client IP. Zero disables it.
	ActivityRateLimit float64
}

func Register(e *echo.Echo, d *Deps) {
	if e.Validator == nil {
		e.Validator = NewRequestValidator()
	}

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.DB == nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
		}
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := pkgdb.Ping(ctx, d.DB); err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
		}
		return c.NoContent(http.StatusOK)
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	authMW := middleware.NewAutoRefreshMiddleware(d.JWTSecret, d.AuthClient)

	e.GET("/recommendations/:kind", d.Recommendations.GetRecommendations, authMW.OptionalAuth)

	ratings := e.Group("/ratings")
	ratings.GET("/items/:id", d.Recommendations.GetItemRating)
	ratings.GET("/vendors/:id", d.Recommendations.GetVendorRating)

	reviews := e.Group("/reviews")
	reviews.GET("/items/:id", d.Reviews.ItemReviews)
	reviews.GET("/vendors/:slug", d.Reviews.VendorReviews)
	reviews.POST("", d.Reviews.SubmitReview, authMW.RequireAuth)

	activityMW := []echo.MiddlewareFunc{authMW.OptionalAuth}
	if d.ActivityRateLimit > 0 {
		store := echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(d.ActivityRateLimit),
			Burst:     int(d.ActivityRateLimit*2) + 1,
			ExpiresIn: 3 * time.Minute,
		})
		activityMW = append([]echo.MiddlewareFunc{echomw.RateLimiter(store)}, activityMW...)
	}
	e.POST("/activity", d.Activity.TrackActivity, activityMW...)

	e.GET("/search/trending", d.Search.TrendingSearches)
}
