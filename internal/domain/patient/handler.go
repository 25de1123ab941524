package patient

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Alreriabiceps/clinic-sched/internal/platform/session"
	"github.com/Alreriabiceps/clinic-sched/internal/upstream"
	"github.com/Alreriabiceps/clinic-sched/pkg/pagination"
)

type Handler struct {
	svc      *Service
	sessions *session.Manager
}

func NewHandler(svc *Service, sessions *session.Manager) *Handler {
	return &Handler{svc: svc, sessions: sessions}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients", h.List)
	api.POST("/patients", h.Create)
	api.GET("/patients/:id", h.Get)
	api.PUT("/patients/:id", h.Update)
	api.DELETE("/patients/:id", h.Delete, session.RequireRole("admin", "staff"))
	api.POST("/patients/:id/consultations", h.AddConsultation)
	api.POST("/patients/:id/immunizations", h.AddImmunization)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	result, err := h.svc.List(
		c.Request().Context(),
		session.Token(c),
		c.QueryParam("q"),
		Type(c.QueryParam("type")),
		pg,
	)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(result.Page, result.Total, pg))
}

func (h *Handler) Get(c echo.Context) error {
	p, err := h.svc.Get(c.Request().Context(), session.Token(c), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Create(c echo.Context) error {
	var p upstream.Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if problems := Validate(p, time.Now()); len(problems) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": problems})
	}
	created, err := h.svc.Create(c.Request().Context(), session.Token(c), p)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) Update(c echo.Context) error {
	var p upstream.Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.ID = c.Param("id")
	if problems := Validate(p, time.Now()); len(problems) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": problems})
	}
	updated, err := h.svc.Update(c.Request().Context(), session.Token(c), p)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) Delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), session.Token(c), c.Param("id")); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) AddConsultation(c echo.Context) error {
	var cons upstream.Consultation
	if err := c.Bind(&cons); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if problems := ValidateConsultation(cons, time.Now()); len(problems) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": problems})
	}
	if err := h.svc.AddConsultation(c.Request().Context(), session.Token(c), c.Param("id"), cons); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"status": "ok"})
}

func (h *Handler) AddImmunization(c echo.Context) error {
	var im upstream.Immunization
	if err := c.Bind(&im); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if problems := ValidateImmunization(im, time.Now()); len(problems) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": problems})
	}
	if err := h.svc.AddImmunization(c.Request().Context(), session.Token(c), c.Param("id"), im); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"status": "ok"})
}

func (h *Handler) fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, upstream.ErrUnauthorized):
		return h.sessions.Expire(c, session.RealmStaff)
	case errors.Is(err, upstream.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return echo.NewHTTPError(http.StatusBadGateway, upstream.UserMessage(err))
}
