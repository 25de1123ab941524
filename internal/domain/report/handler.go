package report

import (
	"errors"
	"fmt"
	"net/http"
	"time"

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

// RegisterRoutes wires the JSON endpoints under the API group and the
// document endpoints under the top-level reports group.
func (h *Handler) RegisterRoutes(api, docs *echo.Group) {
	api.GET("/reports", h.Build)
	api.GET("/reports/dashboard", h.Dashboard)
	docs.GET("/print", h.Print)
	docs.GET("/export.xlsx", h.Export)
}

func (h *Handler) build(c echo.Context) (*Report, error) {
	mode := Mode(c.QueryParam("mode"))
	if !ValidMode(mode) {
		return nil, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unknown report mode %q", mode))
	}
	claims := session.FromContext(c)
	return h.svc.Build(
		c.Request().Context(),
		session.Token(c),
		claims.Subject,
		mode,
		c.QueryParam("date"),
		c.QueryParam("doctor_id"),
	)
}

func (h *Handler) Build(c echo.Context) error {
	r, err := h.build(c)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) Print(c echo.Context) error {
	r, err := h.build(c)
	if err != nil {
		return h.fail(c, err)
	}
	page, err := RenderHTML(r)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, upstream.GenericMessage)
	}
	return c.HTMLBlob(http.StatusOK, page)
}

func (h *Handler) Export(c echo.Context) error {
	r, err := h.build(c)
	if err != nil {
		return h.fail(c, err)
	}
	book, err := RenderXLSX(r)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, upstream.GenericMessage)
	}
	filename := fmt.Sprintf("%s-report-%s.xlsx", r.Mode, time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", book)
}

func (h *Handler) Dashboard(c echo.Context) error {
	summary, err := h.svc.Dashboard(c.Request().Context(), session.Token(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *Handler) fail(c echo.Context, err error) error {
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr
	case errors.Is(err, upstream.ErrUnauthorized):
		return h.sessions.Expire(c, session.RealmStaff)
	case errors.Is(err, ErrEmptyReport):
		return echo.NewHTTPError(http.StatusNotFound, ErrEmptyReport.Error())
	case errors.Is(err, ErrUnknownDoctor):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusBadGateway, upstream.UserMessage(err))
}
