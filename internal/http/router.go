// Package httpapi wires the HTTP transport (Gin) to the application service,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging, panic recovery, metrics, compression,
// CORS, security headers, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/avelis/go-settings-backend/internal/config"
	"github.com/avelis/go-settings-backend/internal/domain"
	"github.com/avelis/go-settings-backend/internal/http/handlers"
	"github.com/avelis/go-settings-backend/internal/http/middleware"
	"github.com/avelis/go-settings-backend/internal/repo"
	"github.com/avelis/go-settings-backend/internal/services"
)

// settingRepoShim adapts the repository free functions to the
// services.SettingRepo interface expected by the SettingService. This keeps
// services decoupled from the concrete repo package while reusing existing
// functions.
type settingRepoShim struct{}

// CreateSetting proxies repo.CreateSetting.
func (settingRepoShim) CreateSetting(ctx context.Context, db *gorm.DB, data json.RawMessage) (*domain.Setting, error) {
	return repo.CreateSetting(ctx, db, data)
}

// GetSetting proxies repo.GetSetting.
func (settingRepoShim) GetSetting(ctx context.Context, db *gorm.DB, id string) (*domain.Setting, error) {
	return repo.GetSetting(ctx, db, id)
}

// CountSettings proxies repo.CountSettings.
func (settingRepoShim) CountSettings(ctx context.Context, db *gorm.DB) (int64, error) {
	return repo.CountSettings(ctx, db)
}

// ListSettingsPage proxies repo.ListSettingsPage.
func (settingRepoShim) ListSettingsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Setting, error) {
	return repo.ListSettingsPage(ctx, db, offset, limit)
}

// ReplaceSettingData proxies repo.ReplaceSettingData.
func (settingRepoShim) ReplaceSettingData(ctx context.Context, db *gorm.DB, id string, data json.RawMessage) (*domain.Setting, error) {
	return repo.ReplaceSettingData(ctx, db, id, data)
}

// DeleteSetting proxies repo.DeleteSetting.
func (settingRepoShim) DeleteSetting(ctx context.Context, db *gorm.DB, id string) error {
	return repo.DeleteSetting(ctx, db, id)
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), compression and
// rate limiting, CORS and security headers, health and metrics endpoints, and
// then mounts the settings API under the configured base path.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured access logs
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Gzip response compression
//  7. Metrics
//  8. Rate limiter (per client IP)
//  9. CORS and security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Compress JSON responses
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) Token-bucket rate limiter per client IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByIP())
	r.Use(rl.Handler())

	// 9) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.MsgRouteNotFound)
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.MsgMethodNotAllowed)
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Dependency injection: handlers ← service ← repo/db
	svc := services.NewSettingService(db, settingRepoShim{})
	h := handlers.New(svc)

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		api.POST("/settings", h.CreateSetting)
		api.GET("/settings", h.ListSettings)
		api.GET("/settings/:id", h.GetSetting)
		api.PUT("/settings/:id", h.UpdateSetting)
		api.DELETE("/settings/:id", h.DeleteSetting)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
