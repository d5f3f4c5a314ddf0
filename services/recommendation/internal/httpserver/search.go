package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/dishonline/pkg/logging"
	"github.com/Skotchmaster/dishonline/services/recommendation/internal/service"
)

type SearchHTTP struct {
	Svc *service.SearchService
}

func (h *SearchHTTP) TrendingSearches(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "search.trending")

	days := 0
	if raw := c.QueryParam("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return badRequest(l, "trending_searches_error", "days must be a positive integer", err)
		}
		days = n
	}
	limit, err := positiveInt(c.QueryParam("limit"))
	if err != nil {
		return badRequest(l, "trending_searches_error", "limit must be a positive integer", err)
	}

	res, err := h.Svc.TrendingSearches(ctx, days, limit)
	if err != nil {
		return fail(l, "trending_searches_error", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"searches": res, "days": daysOrDefault(days)})
}

func daysOrDefault(days int) int {
	if days == 0 {
		return service.DefaultSearchDays
	}
	return days
}
