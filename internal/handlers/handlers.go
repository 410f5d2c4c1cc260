// Package handlers contains HTTP handler functions for the web form and
// the JSON API.
//
// Go Pattern: Handlers in Gin receive a *gin.Context which provides:
// - Request data (params, query, body, headers)
// - Response methods (JSON, String, Status, Data)
// - Middleware data (c.Get/c.Set)
//
// Go handlers are plain functions — no controller inheritance. We group
// related handlers into a struct (Handler) that holds shared dependencies.
package handlers

import (
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/pdf-replace/internal/config"
	"github.com/Shimizu-Technology/pdf-replace/internal/middleware"
	"github.com/Shimizu-Technology/pdf-replace/internal/services/replace"
	"github.com/Shimizu-Technology/pdf-replace/internal/session"
)

// Handler holds shared dependencies for all HTTP handlers.
// Go Pattern: Dependency injection via struct fields. Instead of global
// variables or service locators, we pass dependencies explicitly.
// This makes testing easy — just create a Handler with test dependencies.
type Handler struct {
	Config  *config.Config
	Store   *session.Store
	Replace *replace.Service
}

// NewHandler creates a new handler with all dependencies.
func NewHandler(cfg *config.Config, store *session.Store, svc *replace.Service) *Handler {
	return &Handler{
		Config:  cfg,
		Store:   store,
		Replace: svc,
	}
}

// currentSession returns the session identified by the request's cookie.
// The boolean is false when there is no cookie, the cookie does not
// verify, or the session has expired.
func (h *Handler) currentSession(c *gin.Context) (session.Session, bool) {
	id := middleware.SessionID(c)
	if id == "" {
		return session.Session{}, false
	}
	return h.Store.Get(id)
}

// outputFilename derives the download name for a modified document:
// the original name with "_modified" spliced in before the extension.
// "report.pdf" becomes "report_modified.pdf".
func outputFilename(original string) string {
	base := sanitizeFilename(filepath.Base(original))
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = "document"
	}
	return stem + "_modified.pdf"
}

// sanitizeFilename removes characters that aren't safe for filenames.
// Go Pattern: Keep it simple — replace unsafe characters with hyphens
// and trim the result. We don't need a full filesystem-safe sanitizer
// since this is just for the Content-Disposition header.
func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "-", "\\", "-", ":", "-", "*", "-",
		"?", "-", "\"", "-", "<", "-", ">", "-",
		"|", "-", "\n", " ", "\r", "",
	)
	name = replacer.Replace(name)

	// Collapse multiple hyphens/spaces
	for strings.Contains(name, "  ") {
		name = strings.ReplaceAll(name, "  ", " ")
	}
	for strings.Contains(name, "--") {
		name = strings.ReplaceAll(name, "--", "-")
	}

	name = strings.TrimSpace(name)

	if len(name) > 100 {
		name = name[:100]
	}

	return name
}
