// Package middleware provides HTTP middleware for the web form and API.
//
// Go Pattern: Middleware in Go is a function that wraps an HTTP handler.
// In Gin, middleware is a gin.HandlerFunc that calls c.Next() to continue
// the chain, or c.Abort() to stop processing. This is similar to Express.js
// middleware, but with explicit control flow.
//
// cors.go configures Cross-Origin Resource Sharing (CORS). CORS matters
// for the JSON API: a frontend served from another origin cannot call it
// without these headers. The HTML form is same-origin and unaffected
// either way.
package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS returns configured CORS middleware.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"X-Replacement-Count", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour, // Cache preflight responses
	})
}
