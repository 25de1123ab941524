// Package session manages browser sessions for the two login realms: clinic
// staff and portal patients. A session is a locally signed JWT in an
// HTTP-only cookie; it wraps the upstream bearer tokens so handlers can call
// the clinic API on the user's behalf. The gateway itself stores nothing.
package session

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Realm separates the staff dashboard session from the patient portal
// session. The two use distinct cookies and login routes, so a staff logout
// never touches a patient session in the same browser.
type Realm string

const (
	RealmStaff   Realm = "staff"
	RealmPatient Realm = "patient"
)

// CookieName returns the session cookie name for the realm.
func (r Realm) CookieName() string {
	if r == RealmPatient {
		return "clinic_patient_session"
	}
	return "clinic_staff_session"
}

// LoginPath returns the route a dead session redirects to.
func (r Realm) LoginPath() string {
	if r == RealmPatient {
		return "/patient/login"
	}
	return "/login"
}

// Claims is the session token payload.
type Claims struct {
	jwt.RegisteredClaims
	Realm           string `json:"realm"`
	Name            string `json:"name"`
	Role            string `json:"role,omitempty"`
	UpstreamToken   string `json:"upstream_token"`
	UpstreamRefresh string `json:"upstream_refresh,omitempty"`
}

// Manager signs and verifies session cookies.
type Manager struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

// NewManager creates a session manager. secure controls the cookie Secure
// flag and should be true outside development.
func NewManager(secret string, ttl time.Duration, secure bool) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl, secure: secure}
}

// Identity describes the logged-in user a session is issued for.
type Identity struct {
	UserID          string
	Name            string
	Role            string
	UpstreamToken   string
	UpstreamRefresh string
}

// Issue signs a session token for the identity and sets the realm cookie.
func (m *Manager) Issue(c echo.Context, realm Realm, id Identity) error {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Realm:           string(realm),
		Name:            id.Name,
		Role:            id.Role,
		UpstreamToken:   id.UpstreamToken,
		UpstreamRefresh: id.UpstreamRefresh,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return fmt.Errorf("sign session token: %w", err)
	}

	c.SetCookie(&http.Cookie{
		Name:     realm.CookieName(),
		Value:    token,
		Path:     "/",
		Expires:  now.Add(m.ttl),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Parse verifies a session token and returns its claims.
func (m *Manager) Parse(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid session token")
	}
	return claims, nil
}

// Clear expires the realm's session cookie.
func (m *Manager) Clear(c echo.Context, realm Realm) {
	c.SetCookie(&http.Cookie{
		Name:     realm.CookieName(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
