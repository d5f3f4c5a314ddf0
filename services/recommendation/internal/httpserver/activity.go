package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/dishonline/pkg/logging"
	middleware "github.com/Skotchmaster/dishonline/pkg/middleware/auth"
	"github.com/Skotchmaster/dishonline/services/recommendation/internal/service"
	"github.com/Skotchmaster/dishonline/services/recommendation/internal/transport"
)

type ActivityHTTP struct {
	Svc *service.ActivityService
}

// TrackActivity always answers with a status body, including for anonymous callers.
func (h *ActivityHTTP) TrackActivity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "activity.track")

	var req transport.ActivityRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "track_activity_error", "invalid body", err)
	}

	status, err := h.Svc.Track(ctx, middleware.UserID(c), service.ActivityInput{
		ActivityType: req.ActivityType,
		FoodID:       string(req.FoodID),
		VendorID:     string(req.VendorID),
		SearchQuery:  req.SearchQuery,
	})
	if err != nil {
		if statusOf(err) == http.StatusBadRequest {
			l.Warn("track_activity_error", "status", 400, "reason", "invalid activity_type", "error", err)
			return c.JSON(http.StatusBadRequest, transport.ActivityResponse{Status: string(status)})
		}
		return fail(l, "track_activity_error", err)
	}
	return c.JSON(http.StatusOK, transport.ActivityResponse{Status: string(status)})
}
