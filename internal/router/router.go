// Package router sets up all HTTP routes: the interactive web form and
// the JSON API.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/pdf-replace/internal/config"
	"github.com/Shimizu-Technology/pdf-replace/internal/handlers"
	"github.com/Shimizu-Technology/pdf-replace/internal/middleware"
	"github.com/Shimizu-Technology/pdf-replace/internal/services/replace"
	"github.com/Shimizu-Technology/pdf-replace/internal/session"
)

// Setup creates and configures the Gin router with all routes.
//
// Every route runs behind ResolveSession so a returning browser is
// recognized anywhere, but only SubmitForm ever issues a cookie — the
// API stays stateless and anonymous visitors never get one.
func Setup(cfg *config.Config, store *session.Store, svc *replace.Service) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.ResolveSession(cfg.SessionSecret))

	h := handlers.NewHandler(cfg, store, svc)
	rateLimiter := middleware.NewRateLimiter()

	// --- Web form (session-backed, HTML responses) ---
	r.GET("/", h.ShowForm)
	r.POST("/", h.SubmitForm)
	r.GET("/preview/before.png", h.PreviewBefore)
	r.GET("/preview/after.png", h.PreviewAfter)
	r.GET("/download", h.Download)

	// --- Public routes ---
	r.GET("/api/v1/health", h.HealthCheck)

	// API Documentation
	r.GET("/api/docs", h.ServeSwaggerUI)
	r.GET("/api/docs/openapi.yaml", h.ServeOpenAPISpec)

	// --- Rate-limited API routes ---
	api := r.Group("/api/v1")
	api.Use(rateLimiter.RateLimit(cfg.DefaultRateLimit))
	{
		api.POST("/replace/search", h.SearchInstances)
		api.POST("/replace", h.ReplaceText)
	}

	return r
}
