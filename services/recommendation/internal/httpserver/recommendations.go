package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/dishonline/pkg/logging"
	middleware "github.com/Skotchmaster/dishonline/pkg/middleware/auth"
	"github.com/Skotchmaster/dishonline/services/recommendation/internal/service"
)

type RecommendationHTTP struct {
	Engine *service.Engine
}

func (h *RecommendationHTTP) GetRecommendations(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "recommendations.get")

	kind, err := service.ParseKind(c.Param("kind"))
	if err != nil {
		return fail(l, "get_recommendations_error", err)
	}
	limit, err := positiveInt(c.QueryParam("limit"))
	if err != nil {
		return badRequest(l, "get_recommendations_error", "limit must be a positive integer", err)
	}
	var itemID uint
	if raw := c.QueryParam("item"); raw != "" {
		if itemID, err = idParam(raw); err != nil {
			return badRequest(l, "get_recommendations_error", "item must be a positive integer", err)
		}
	}
	userID := middleware.UserID(c)

	if kind == service.KindHomepage {
		hp, err := h.Engine.Homepage(ctx, userID, limit)
		if err != nil {
			return fail(l, "get_recommendations_error", err)
		}
		return c.JSON(http.StatusOK, hp)
	}

	res, err := h.Engine.Recommend(ctx, kind, service.Query{UserID: userID, ItemID: itemID, Limit: limit})
	if err != nil {
		return fail(l, "get_recommendations_error", err)
	}
	l.Debug("get_recommendations_success", "kind", string(kind), "user_id", userID)
	if kind == service.KindVendors {
		return c.JSON(http.StatusOK, map[string]any{"kind": kind, "vendors": res.Vendors})
	}
	return c.JSON(http.StatusOK, map[string]any{"kind": kind, "items": res.Items})
}

func (h *RecommendationHTTP) GetItemRating(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "ratings.item")

	id, err := idParam(c.Param("id"))
	if err != nil {
		return badRequest(l, "get_item_rating_error", "id must be a positive integer", err)
	}
	rating, err := h.Engine.FoodItemRating(ctx, id)
	if err != nil {
		return fail(l, "get_item_rating_error", err)
	}
	return c.JSON(http.StatusOK, rating)
}

func (h *RecommendationHTTP) GetVendorRating(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "ratings.vendor")

	id, err := idParam(c.Param("id"))
	if err != nil {
		return badRequest(l, "get_vendor_rating_error", "id must be a positive integer", err)
	}
	rating, err := h.Engine.VendorRating(ctx, id)
	if err != nil {
		return fail(l, "get_vendor_rating_error", err)
	}
	return c.JSON(http.StatusOK, rating)
}
