package middleware

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Alreriabiceps/clinic-sched/internal/upstream"
)

func TestRequestID_GeneratesNew(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := RequestID()
	err := mw(func(c echo.Context) error {
		if c.Get("request_id") == "" {
			t.Error("expected request_id in context")
		}
		return nil
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("expected generated request id in response header")
	}
}

func TestRequestID_PreservesExisting(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "my-custom-id")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := RequestID()(func(c echo.Context) error { return nil })(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Header().Get(RequestIDHeader) != "my-custom-id" {
		t.Errorf("expected my-custom-id in response header, got %s", rec.Header().Get(RequestIDHeader))
	}
}

func TestRecovery_ConvertsPanicTo500(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := Recovery(zerolog.Nop())(func(c echo.Context) error {
		panic("boom")
	})(c)

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 HTTPError, got %v", err)
	}
	if he.Message != upstream.GenericMessage {
		t.Errorf("message = %v, want the generic fallback", he.Message)
	}
}

func TestLogger_LevelsByStatus(t *testing.T) {
	e := echo.New()

	for _, tc := range []struct {
		name      string
		handler   echo.HandlerFunc
		wantLevel string
	}{
		{"ok", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, "info"},
		{"client error", func(c echo.Context) error { return c.NoContent(http.StatusNotFound) }, "warn"},
		{"handler error", func(c echo.Context) error { return errors.New("boom") }, "error"},
	} {
		var buf bytes.Buffer
		logger := zerolog.New(&buf)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.Set("request_id", "rid-1")

		Logger(logger)(tc.handler)(c)

		line := buf.String()
		if !strings.Contains(line, `"level":"`+tc.wantLevel+`"`) {
			t.Errorf("%s: level not %q in %s", tc.name, tc.wantLevel, line)
		}
		if !strings.Contains(line, `"request_id":"rid-1"`) {
			t.Errorf("%s: request id missing from %s", tc.name, line)
		}
	}
}

func TestSecurityHeaders(t *testing.T) {
	e := echo.New()

	for _, tc := range []struct {
		path    string
		wantCSP string
	}{
		{"/api/v1/appointments", "default-src 'none'; frame-ancestors 'none'"},
		{"/reports/print", "default-src 'none'; style-src 'unsafe-inline'"},
	} {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := SecurityHeaders()(func(c echo.Context) error { return nil })(c)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := rec.Header().Get("Content-Security-Policy"); got != tc.wantCSP {
			t.Errorf("%s: CSP = %q, want %q", tc.path, got, tc.wantCSP)
		}
		if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
			t.Errorf("%s: missing nosniff", tc.path)
		}
		if rec.Header().Get("Cache-Control") != "no-store" {
			t.Errorf("%s: missing no-store", tc.path)
		}
	}
}

func TestRequestTimeout_CompletesFastHandler(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := RequestTimeout(time.Second)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestRequestTimeout_SlowHandlerGets504(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := RequestTimeout(10 * time.Millisecond)(func(c echo.Context) error {
		select {
		case <-c.Request().Context().Done():
		case <-time.After(time.Second):
		}
		return nil
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("expected 504, got %d", rec.Code)
	}
}

func TestRequestTimeout_SkipsWebSocketPaths(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/ws/notices", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := RequestTimeout(time.Nanosecond)(func(c echo.Context) error {
		if _, hasDeadline := c.Request().Context().Deadline(); hasDeadline {
			t.Error("expected no deadline on /ws/ paths")
		}
		return c.NoContent(http.StatusOK)
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
