package settings

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

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
	api.GET("/settings", h.Get)
	api.PUT("/settings", h.Save, session.RequireRole("admin", "staff"))
}

func (h *Handler) Get(c echo.Context) error {
	cfg, err := h.svc.Get(c.Request().Context(), session.Token(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, cfg)
}

func (h *Handler) Save(c echo.Context) error {
	var in Settings
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if problems := in.Validate(); len(problems) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": problems})
	}
	cfg, err := h.svc.Save(c.Request().Context(), session.Token(c), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, cfg)
}

func (h *Handler) fail(c echo.Context, err error) error {
	if errors.Is(err, upstream.ErrUnauthorized) {
		return h.sessions.Expire(c, session.RealmStaff)
	}
	return echo.NewHTTPError(http.StatusBadGateway, upstream.UserMessage(err))
}
