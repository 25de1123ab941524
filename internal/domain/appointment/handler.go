package appointment

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Alreriabiceps/clinic-sched/internal/platform/session"
	"github.com/Alreriabiceps/clinic-sched/internal/upstream"
	"github.com/Alreriabiceps/clinic-sched/pkg/pagination"
)

// RosterProvider supplies the configured doctor list, used for the doctor
// filter and for grouping the list view into per-doctor cards.
type RosterProvider interface {
	Roster(ctx context.Context, token string) ([]DoctorRef, error)
}

type Handler struct {
	svc      *Service
	roster   RosterProvider
	sessions *session.Manager
}

func NewHandler(svc *Service, roster RosterProvider, sessions *session.Manager) *Handler {
	return &Handler{svc: svc, roster: roster, sessions: sessions}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/appointments", h.List)
	api.POST("/appointments", h.Create)
	api.GET("/appointments/:id", h.Get)
	api.GET("/appointments/:id/actions", h.Actions)
	api.POST("/appointments/:id/confirm", h.action(ActionConfirm))
	api.POST("/appointments/:id/complete", h.action(ActionComplete))
	api.POST("/appointments/:id/cancel", h.action(ActionCancel))
	api.POST("/appointments/:id/reschedule", h.Reschedule)
	api.GET("/appointments/slots", h.Slots)
}

func (h *Handler) List(c echo.Context) error {
	ctx := c.Request().Context()
	token := session.Token(c)

	roster, err := h.roster.Roster(ctx, token)
	if err != nil {
		return h.fail(c, err)
	}

	f := Filter{
		Search: c.QueryParam("q"),
		Tab:    Tab(c.QueryParam("tab")),
		Range:  DateRange(c.QueryParam("range")),
	}
	for _, id := range splitParam(c.QueryParam("doctor_id")) {
		ref := DoctorRef{ID: id}
		for _, d := range roster {
			if d.ID == id {
				ref = d
				break
			}
		}
		f.Doctors = append(f.Doctors, ref)
	}

	pg := pagination.FromContext(c)
	result, err := h.svc.List(ctx, token, f, pg, roster)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"groups":     result.Groups,
		"pagination": pagination.NewResponse(result.Page, result.Total, pg),
	})
}

func (h *Handler) Get(c echo.Context) error {
	rec, actions, err := h.svc.Get(c.Request().Context(), session.Token(c), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"appointment": rec, "actions": actions})
}

// Actions returns only the allowed transitions, for menus rendered apart
// from the full record.
func (h *Handler) Actions(c echo.Context) error {
	_, actions, err := h.svc.Get(c.Request().Context(), session.Token(c), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	if actions == nil {
		actions = []Action{}
	}
	return c.JSON(http.StatusOK, echo.Map{"actions": actions})
}

func (h *Handler) Create(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if problems := in.Validate(); len(problems) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": problems})
	}
	rec, err := h.svc.Create(c.Request().Context(), session.Token(c), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, rec)
}

// action builds the confirm/complete/cancel handlers, which differ only in
// the transition applied.
func (h *Handler) action(a Action) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := session.FromContext(c)
		err := h.svc.Transition(c.Request().Context(), session.Token(c), claims.Subject, c.Param("id"), a)
		if err != nil {
			return h.fail(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	}
}

func (h *Handler) Reschedule(c echo.Context) error {
	var in RescheduleInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if problems := in.Validate(); len(problems) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": problems})
	}
	claims := session.FromContext(c)
	err := h.svc.Reschedule(c.Request().Context(), session.Token(c), claims.Subject, c.Param("id"), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// Slots returns the fixed bookable times, for the create and reschedule
// pickers.
func (h *Handler) Slots(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"slots": ScheduleSlots})
}

func (h *Handler) fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, upstream.ErrUnauthorized):
		return h.sessions.Expire(c, session.RealmStaff)
	case errors.Is(err, upstream.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
	}
	var te *TransitionError
	if errors.As(err, &te) {
		return echo.NewHTTPError(http.StatusConflict, te.Error())
	}
	return echo.NewHTTPError(http.StatusBadGateway, upstream.UserMessage(err))
}

func splitParam(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
