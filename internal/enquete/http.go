// Package enquete exposes the survey lifecycle over HTTP: creation with
// identifier allocation, localized info views, derived status with hints,
// activation and token provisioning of the per-survey tables, expiry and
// cascading deletion.
package enquete

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/enquete-app/enquete.go/internal/enquete/config"
	"github.com/enquete-app/enquete.go/internal/enquete/cronmanager"
	"github.com/enquete-app/enquete.go/internal/enquete/dao"
)

type Services struct {
	db     *gorm.DB
	schema *dao.SchemaManager
}

var cfg *config.Config
var appVersion string

// ServerHeader middleware adds a `Server` header to the response.
func ServerHeader(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set(echo.HeaderServer, "Enquete")
		return next(c)
	}
}

func Server(db *gorm.DB, c *config.Config, version string) {
	cfg = c
	appVersion = version

	e := echo.New()
	e.HideBanner = true
	e.Validator = NewRequestValidator()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
		}

		// Ignore 404
		if code == http.StatusNotFound {
			c.NoContent(http.StatusNotFound)
			return
		}
		slog.Error("Unhandled error in endpoint", "url", c.Request().URL, "err", err)
		EErrorMsgStatus(c, nil, code)
	}

	s := &Services{
		db:     db,
		schema: dao.NewSchemaManager(),
	}

	jobRegistry := cronmanager.JobRegistry{
		"orphan_table_sweep": cronmanager.Job{
			Func: func() {
				if _, err := s.schema.SweepOrphanTables(db); err != nil {
					slog.Error("Orphan table sweep failed", "err", err)
				}
			},
			Schedule: cfg.OrphanSweepSchedule,
		},
	}

	cronManager := cronmanager.NewCronManager(jobRegistry)
	if err := cronManager.LoadJobs(); err != nil {
		slog.Error("Failed to load cron jobs", "err", err)
		os.Exit(1)
	}
	cronManager.Start()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		slog.Info("Shutting down gracefully, press Ctrl+C again to force")
		cronManager.Stop()
		os.Exit(0)
	}()

	// Global middlewares
	e.Use(ServerHeader)
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowCredentials: true,
	}))
	e.Use(middleware.BodyLimit("1M"))

	if cfg.MetricsEnable {
		e.Use(echoprometheus.NewMiddleware("enquete"))
		e.GET("/metrics", echoprometheus.NewHandler())
	}

	e.GET("/api/version/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"version": appVersion})
	})

	s.AddSurveyServices(e.Group("/api/surveys"))

	slog.Error("Server stopped", "err", e.Start(":8080"))
}
