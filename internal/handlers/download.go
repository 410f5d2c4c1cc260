// download.go hands the session's modified PDF to the browser.
package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/pdf-replace/internal/models"
)

// Download serves the modified document as an attachment named
// "<stem>_modified.pdf" after the original upload.
// GET /download
func (h *Handler) Download(c *gin.Context) {
	sess, ok := h.currentSession(c)
	if !ok || sess.Modified == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "No modified PDF in this session. Run a replacement first.",
			Code:    http.StatusNotFound,
		})
		return
	}

	c.Header("X-Replacement-Count", strconv.Itoa(sess.Count))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, outputFilename(sess.Filename)))
	c.Data(http.StatusOK, "application/pdf", sess.Modified)
}
