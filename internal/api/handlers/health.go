package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/draymaster/tripplanner/internal/api/models"
	"github.com/draymaster/tripplanner/internal/database"
)

// HealthHandler reports liveness and readiness over HTTP, mirroring the
// gRPC health service the fleet's services expose alongside it.
type HealthHandler struct {
	db *database.DB
}

// NewHealthHandler constructs a HealthHandler. db may be nil, in which
// case Ready always reports healthy.
func NewHealthHandler(db *database.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health handles GET /api/health, a liveness check that never touches a
// dependency.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{Status: "ok"})
}

// Ready handles GET /ready, a readiness check that verifies the
// database connection is reachable.
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.db != nil {
		if err := h.db.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
				Error: models.ErrorDetail{Code: "NOT_READY", Message: "database unreachable"},
			})
			return
		}
	}
	c.JSON(http.StatusOK, models.HealthResponse{Status: "ok"})
}
