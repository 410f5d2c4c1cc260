// preview.go renders the first page of the session's documents as PNG
// for the before/after panels on the form page (PRT-10).
//
// GET /preview/before.png — the uploaded document
// GET /preview/after.png  — the modified document
//
// Pages are rasterized on every request, never cached: the session's
// bytes may change between two loads of the same URL, and a stale
// preview defeats the point of previewing.
package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/pdf-replace/internal/models"
)

// PreviewBefore serves page 1 of the uploaded PDF.
// GET /preview/before.png
func (h *Handler) PreviewBefore(c *gin.Context) {
	sess, ok := h.currentSession(c)
	if !ok || sess.Original == nil {
		previewMissing(c, "No uploaded PDF in this session")
		return
	}
	h.servePreview(c, sess.Original)
}

// PreviewAfter serves page 1 of the modified PDF.
// GET /preview/after.png
func (h *Handler) PreviewAfter(c *gin.Context) {
	sess, ok := h.currentSession(c)
	if !ok || sess.Modified == nil {
		previewMissing(c, "No modified PDF in this session. Run a replacement first.")
		return
	}
	h.servePreview(c, sess.Modified)
}

func (h *Handler) servePreview(c *gin.Context, data []byte) {
	png, err := h.Replace.RenderPreview(data, 1)
	if err != nil {
		log.Printf("Preview rendering failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "preview_failed",
			Message: "Could not render the page preview",
			Code:    http.StatusInternalServerError,
		})
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

func previewMissing(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, models.ErrorResponse{
		Error:   "not_found",
		Message: msg,
		Code:    http.StatusNotFound,
	})
}
