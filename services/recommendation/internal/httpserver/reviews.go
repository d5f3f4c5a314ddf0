package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/dishonline/pkg/logging"
	middleware "github.com/Skotchmaster/dishonline/pkg/middleware/auth"
	"github.com/Skotchmaster/dishonline/services/recommendation/internal/service"
	"github.com/Skotchmaster/dishonline/services/recommendation/internal/transport"
)

type ReviewHTTP struct {
	Svc *service.ReviewService
}

func (h *ReviewHTTP) SubmitReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "reviews.submit")

	var req transport.ReviewRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "submit_review_error", "invalid body", err)
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(l, "submit_review_error", "rating must be 1-5, order_number and food_item_id are required", err)
	}

	res, err := h.Svc.Submit(ctx, middleware.UserID(c), service.ReviewInput{
		OrderNumber: req.OrderNumber,
		FoodItemID:  req.FoodItemID,
		Rating:      req.Rating,
		ReviewText:  req.ReviewText,
	})
	if err != nil {
		return fail(l, "submit_review_error", err)
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	l.Info("submit_review_success", "review_id", res.Review.ID, "created", res.Created)
	return c.JSON(status, res)
}

func (h *ReviewHTTP) ItemReviews(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "reviews.item")

	id, err := idParam(c.Param("id"))
	if err != nil {
		return badRequest(l, "item_reviews_error", "id must be a positive integer", err)
	}
	limit, err := positiveInt(c.QueryParam("limit"))
	if err != nil {
		return badRequest(l, "item_reviews_error", "limit must be a positive integer", err)
	}

	listing, err := h.Svc.ItemReviews(ctx, id, limit)
	if err != nil {
		return fail(l, "item_reviews_error", err)
	}
	return c.JSON(http.StatusOK, listing)
}

func (h *ReviewHTTP) VendorReviews(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "reviews.vendor")

	limit, err := positiveInt(c.QueryParam("limit"))
	if err != nil {
		return badRequest(l, "vendor_reviews_error", "limit must be a positive integer", err)
	}

	listing, err := h.Svc.VendorReviews(ctx, c.Param("slug"), limit)
	if err != nil {
		return fail(l, "vendor_reviews_error", err)
	}
	return c.JSON(http.StatusOK, listing)
}
