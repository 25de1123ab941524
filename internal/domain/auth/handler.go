package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Alreriabiceps/clinic-sched/internal/platform/session"
	"github.com/Alreriabiceps/clinic-sched/internal/upstream"
)

// API is the slice of the upstream client the staff auth flow uses.
type API interface {
	Login(ctx context.Context, creds upstream.Credentials) (*upstream.LoginResult, error)
	Logout(ctx context.Context, token string) error
	RefreshToken(ctx context.Context, refreshToken string) (*upstream.TokenPair, error)
	Profile(ctx context.Context, token string) (*upstream.StaffUser, error)
	ChangePassword(ctx context.Context, token, current, updated string) error
}

type Handler struct {
	api      API
	sessions *session.Manager
	logger   zerolog.Logger
}

func NewHandler(api API, sessions *session.Manager, logger zerolog.Logger) *Handler {
	return &Handler{
		api:      api,
		sessions: sessions,
		logger:   logger.With().Str("component", "auth").Logger(),
	}
}

// RegisterRoutes wires the public login route and the session-guarded
// account routes.
func (h *Handler) RegisterRoutes(public, guarded *echo.Group) {
	public.POST("/auth/login", h.Login)
	guarded.POST("/auth/logout", h.Logout)
	guarded.POST("/auth/refresh", h.Refresh)
	guarded.GET("/auth/me", h.Me)
	guarded.POST("/auth/change-password", h.ChangePassword)
}

func (h *Handler) Login(c echo.Context) error {
	var creds upstream.Credentials
	if err := c.Bind(&creds); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(creds.Username) == "" || creds.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}

	result, err := h.api.Login(c.Request().Context(), creds)
	if err != nil {
		if errors.Is(err, upstream.ErrUnauthorized) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid username or password.")
		}
		return echo.NewHTTPError(http.StatusBadGateway, upstream.UserMessage(err))
	}

	err = h.sessions.Issue(c, session.RealmStaff, session.Identity{
		UserID:          result.User.ID,
		Name:            result.User.FullName,
		Role:            result.User.Role,
		UpstreamToken:   result.Token,
		UpstreamRefresh: result.RefreshToken,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("session issue failed")
		return echo.NewHTTPError(http.StatusInternalServerError, upstream.GenericMessage)
	}

	h.logger.Info().Str("user_id", result.User.ID).Str("role", result.User.Role).Msg("staff login")
	return c.JSON(http.StatusOK, echo.Map{"user": result.User})
}

// Logout revokes the upstream token best-effort and always clears the
// session cookie.
func (h *Handler) Logout(c echo.Context) error {
	if token := session.Token(c); token != "" {
		if err := h.api.Logout(c.Request().Context(), token); err != nil {
			h.logger.Warn().Err(err).Msg("upstream logout failed")
		}
	}
	h.sessions.Clear(c, session.RealmStaff)
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// Refresh trades the stored refresh token for a new upstream pair and
// reissues the session cookie around it.
func (h *Handler) Refresh(c echo.Context) error {
	claims := session.FromContext(c)
	if claims.UpstreamRefresh == "" {
		return h.sessions.Expire(c, session.RealmStaff)
	}

	pair, err := h.api.RefreshToken(c.Request().Context(), claims.UpstreamRefresh)
	if err != nil {
		if errors.Is(err, upstream.ErrUnauthorized) {
			return h.sessions.Expire(c, session.RealmStaff)
		}
		return echo.NewHTTPError(http.StatusBadGateway, upstream.UserMessage(err))
	}

	err = h.sessions.Issue(c, session.RealmStaff, session.Identity{
		UserID:          claims.Subject,
		Name:            claims.Name,
		Role:            claims.Role,
		UpstreamToken:   pair.Token,
		UpstreamRefresh: pair.RefreshToken,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, upstream.GenericMessage)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func (h *Handler) Me(c echo.Context) error {
	user, err := h.api.Profile(c.Request().Context(), session.Token(c))
	if err != nil {
		if errors.Is(err, upstream.ErrUnauthorized) {
			return h.sessions.Expire(c, session.RealmStaff)
		}
		return echo.NewHTTPError(http.StatusBadGateway, upstream.UserMessage(err))
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *Handler) ChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(req.NewPassword) < 8 {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "new password must be at least 8 characters")
	}

	err := h.api.ChangePassword(c.Request().Context(), session.Token(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, upstream.ErrUnauthorized) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Current password is incorrect.")
		}
		return echo.NewHTTPError(http.StatusBadGateway, upstream.UserMessage(err))
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
