package calendar

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Alreriabiceps/clinic-sched/internal/domain/appointment"
	"github.com/Alreriabiceps/clinic-sched/internal/platform/session"
	"github.com/Alreriabiceps/clinic-sched/internal/upstream"
)

type Handler struct {
	svc      *Service
	sessions *session.Manager
}

func NewHandler(svc *Service, sessions *session.Manager) *Handler {
	return &Handler{svc: svc, sessions: sessions}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/calendar", h.Render)
	api.GET("/calendar/slot", h.Slot)
}

func (h *Handler) Render(c echo.Context) error {
	result, err := h.svc.Render(
		c.Request().Context(),
		session.Token(c),
		View(c.QueryParam("view")),
		c.QueryParam("date"),
		NavAction(c.QueryParam("action")),
	)
	if err != nil {
		if errors.Is(err, upstream.ErrUnauthorized) {
			return h.sessions.Expire(c, session.RealmStaff)
		}
		return echo.NewHTTPError(http.StatusBadGateway, upstream.UserMessage(err))
	}
	return c.JSON(http.StatusOK, result)
}

// Slot turns a clicked calendar position into a create-form prefill.
func (h *Handler) Slot(c echo.Context) error {
	day, err := appointment.ParseLocalDate(c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "a valid date is required")
	}
	at := day
	if clock := c.QueryParam("clock"); clock != "" {
		t, err := time.Parse("15:04", clock)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "clock must be HH:MM")
		}
		at = day.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute)
	}
	return c.JSON(http.StatusOK, DraftForSlot(at))
}
