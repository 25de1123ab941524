package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Alreriabiceps/clinic-sched/internal/config"
	"github.com/Alreriabiceps/clinic-sched/internal/domain/appointment"
	"github.com/Alreriabiceps/clinic-sched/internal/domain/auth"
	"github.com/Alreriabiceps/clinic-sched/internal/domain/calendar"
	"github.com/Alreriabiceps/clinic-sched/internal/domain/patient"
	"github.com/Alreriabiceps/clinic-sched/internal/domain/portal"
	"github.com/Alreriabiceps/clinic-sched/internal/domain/report"
	"github.com/Alreriabiceps/clinic-sched/internal/domain/settings"
	"github.com/Alreriabiceps/clinic-sched/internal/platform/middleware"
	"github.com/Alreriabiceps/clinic-sched/internal/platform/notice"
	"github.com/Alreriabiceps/clinic-sched/internal/platform/session"
	"github.com/Alreriabiceps/clinic-sched/internal/upstream"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-server",
		Short: "Clinic scheduling and records gateway",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(checkCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the gateway server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

// checkCmd verifies the configuration and upstream connectivity without
// starting the server.
func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify configuration and upstream reachability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
			client := upstream.New(cfg.UpstreamBaseURL, cfg.UpstreamTimeout(), cfg.UpstreamRetries, logger)

			ctx, cancel := context.WithTimeout(context.Background(), cfg.UpstreamTimeout())
			defer cancel()
			if err := client.Ping(ctx); err != nil {
				return fmt.Errorf("upstream %s unreachable: %w", cfg.UpstreamBaseURL, err)
			}
			fmt.Println("configuration ok, upstream reachable")
			return nil
		},
	}
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}
	if cfg.DevSecret {
		logger.Warn().Msg("SESSION_SECRET not set; using a development-only secret")
	}

	client := upstream.New(cfg.UpstreamBaseURL, cfg.UpstreamTimeout(), cfg.UpstreamRetries, logger)
	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionTTL(), cfg.IsProduction())
	hub := notice.NewHub(logger)

	// Settings cache is optional; without Redis the registry still works
	// from the upstream and built-in defaults.
	var cache settings.Cache
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		cache = settings.NewRedisCache(redis.NewClient(opts))
		logger.Info().Msg("settings cache enabled")
	}

	settingsSvc := settings.NewService(client, cache, cfg.ClinicName, logger)
	appointmentSvc := appointment.NewService(client, hub, logger)
	calendarSvc := calendar.NewService(client, settingsSvc, logger)
	patientSvc := patient.NewService(client, logger)
	reportSvc := report.NewService(client, settingsSvc, hub, logger)
	portalSvc := portal.NewService(client, hub, logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.RequestTimeout(cfg.UpstreamTimeout() + 5*time.Second))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{"Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/upstream", func(c echo.Context) error {
		if err := client.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unreachable"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Staff surface.
	apiPublic := e.Group("/api/v1")
	apiStaff := e.Group("/api/v1", sessions.Middleware(session.RealmStaff))
	reportDocs := e.Group("/reports", sessions.Middleware(session.RealmStaff))
	staffWS := e.Group("", sessions.Middleware(session.RealmStaff))

	auth.NewHandler(client, sessions, logger).RegisterRoutes(apiPublic, apiStaff)
	appointment.NewHandler(appointmentSvc, settingsSvc, sessions).RegisterRoutes(apiStaff)
	calendar.NewHandler(calendarSvc, sessions).RegisterRoutes(apiStaff)
	patient.NewHandler(patientSvc, sessions).RegisterRoutes(apiStaff)
	settings.NewHandler(settingsSvc, sessions).RegisterRoutes(apiStaff)
	report.NewHandler(reportSvc, sessions).RegisterRoutes(apiStaff, reportDocs)
	notice.NewWSHandler(hub).RegisterRoutes(staffWS)

	// Patient portal surface.
	portalPublic := e.Group("/portal")
	portalGuarded := e.Group("/portal", sessions.Middleware(session.RealmPatient))
	portal.NewHandler(portalSvc, sessions).RegisterRoutes(portalPublic, portalGuarded)
	notice.NewWSHandler(hub).RegisterRoutes(portalGuarded)

	go func() {
		logger.Info().Str("port", cfg.Port).Str("upstream", cfg.UpstreamBaseURL).Msg("server started")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
