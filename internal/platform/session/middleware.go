package session

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const contextKey = "session_claims"

// Middleware authenticates requests for one realm. A missing, expired or
// cross-realm session is treated the same way the dashboard treats an
// upstream 401: the cookie is cleared and the client is sent to the realm's
// login route.
func (m *Manager) Middleware(realm Realm) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(realm.CookieName())
			if err != nil || cookie.Value == "" {
				return m.Expire(c, realm)
			}

			claims, err := m.Parse(cookie.Value)
			if err != nil || claims.Realm != string(realm) {
				return m.Expire(c, realm)
			}

			c.Set(contextKey, claims)
			return next(c)
		}
	}
}

// FromContext returns the session claims set by Middleware, or nil.
func FromContext(c echo.Context) *Claims {
	claims, _ := c.Get(contextKey).(*Claims)
	return claims
}

// Token returns the upstream bearer token for the current session, or "".
func Token(c echo.Context) string {
	if claims := FromContext(c); claims != nil {
		return claims.UpstreamToken
	}
	return ""
}

// RequireRole restricts a route group to the given staff roles.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := FromContext(c)
			if claims == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
			}
			if _, ok := allowed[claims.Role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
			}
			return next(c)
		}
	}
}

// Expire ends the realm's session: the cookie is cleared and the client is
// redirected to the login route. Browser navigations get a 302; API calls
// get a 401 with the redirect target in the body so the frontend can move.
func (m *Manager) Expire(c echo.Context, realm Realm) error {
	m.Clear(c, realm)

	if wantsHTML(c) {
		return c.Redirect(http.StatusFound, realm.LoginPath())
	}
	return c.JSON(http.StatusUnauthorized, map[string]string{
		"message":  "Your session has expired. Please log in again.",
		"redirect": realm.LoginPath(),
	})
}

func wantsHTML(c echo.Context) bool {
	accept := c.Request().Header.Get(echo.HeaderAccept)
	return strings.Contains(accept, echo.MIMETextHTML)
}
