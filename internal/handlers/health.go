// health.go answers liveness probes.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/pdf-replace/internal/models"
)

// HealthCheck returns the service health status.
// GET /api/v1/health
//
// There is no database or external service behind this tool, so the
// only live number worth reporting is the session count.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:   "ok",
		Version:  "1.0.0",
		Sessions: h.Store.Len(),
	})
}
