package portal

import (
	"errors"
	"net/http"
	"strings"

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

// RegisterRoutes wires the public register/login routes and the
// session-guarded portal routes.
func (h *Handler) RegisterRoutes(public, guarded *echo.Group) {
	public.POST("/register", h.Register)
	public.POST("/login", h.Login)

	guarded.POST("/logout", h.Logout)
	guarded.GET("/profile", h.Profile)
	guarded.GET("/doctors", h.Doctors)
	guarded.GET("/doctors/:id/available-dates", h.AvailableDates)
	guarded.GET("/doctors/:id/available-slots", h.AvailableSlots)
	guarded.POST("/appointments", h.Book)
	guarded.GET("/appointments", h.MyAppointments)
	guarded.POST("/appointments/:id/cancel", h.Cancel)
}

func (h *Handler) Register(c echo.Context) error {
	var reg upstream.PortalRegistration
	if err := c.Bind(&reg); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if problems := ValidateRegistration(reg); len(problems) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": problems})
	}
	user, err := h.svc.Register(c.Request().Context(), reg)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"patient": user})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	result, err := h.svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, upstream.ErrUnauthorized) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password.")
		}
		return h.fail(c, err)
	}

	err = h.sessions.Issue(c, session.RealmPatient, session.Identity{
		UserID:          result.Patient.ID,
		Name:            strings.TrimSpace(result.Patient.FirstName + " " + result.Patient.LastName),
		UpstreamToken:   result.Token,
		UpstreamRefresh: result.RefreshToken,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, upstream.GenericMessage)
	}
	return c.JSON(http.StatusOK, echo.Map{"patient": result.Patient})
}

func (h *Handler) Logout(c echo.Context) error {
	h.sessions.Clear(c, session.RealmPatient)
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func (h *Handler) Profile(c echo.Context) error {
	user, err := h.svc.Profile(c.Request().Context(), session.Token(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"patient": user})
}

func (h *Handler) Doctors(c echo.Context) error {
	doctors, err := h.svc.Doctors(c.Request().Context(), session.Token(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"doctors": doctors})
}

func (h *Handler) AvailableDates(c echo.Context) error {
	dates, err := h.svc.AvailableDates(c.Request().Context(), session.Token(c), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"dates": dates})
}

func (h *Handler) AvailableSlots(c echo.Context) error {
	slots, err := h.svc.AvailableSlots(c.Request().Context(), session.Token(c), c.Param("id"), c.QueryParam("date"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"slots": slots})
}

func (h *Handler) Book(c echo.Context) error {
	var in BookingInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if problems := in.Validate(); len(problems) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": problems})
	}
	claims := session.FromContext(c)
	rec, err := h.svc.Book(c.Request().Context(), session.Token(c), claims.Subject, in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, rec)
}

func (h *Handler) MyAppointments(c echo.Context) error {
	records, err := h.svc.MyAppointments(c.Request().Context(), session.Token(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"appointments": records})
}

func (h *Handler) Cancel(c echo.Context) error {
	claims := session.FromContext(c)
	if err := h.svc.Cancel(c.Request().Context(), session.Token(c), claims.Subject, c.Param("id")); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func (h *Handler) fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, upstream.ErrUnauthorized):
		return h.sessions.Expire(c, session.RealmPatient)
	case errors.Is(err, upstream.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) {
		return echo.NewHTTPError(apiErr.Status, apiErr.Message)
	}
	if errors.Is(err, upstream.ErrUnavailable) {
		return echo.NewHTTPError(http.StatusBadGateway, upstream.UserMessage(err))
	}
	return echo.NewHTTPError(http.StatusBadRequest, err.Error())
}
