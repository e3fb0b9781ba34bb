package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Sheetal-x-Sharma/LCC/internal/apperr"
	"github.com/gin-gonic/gin"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Healthz reports liveness plus database reachability.
func (h *HealthHandler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "degraded",
			"error":  gin.H{"kind": apperr.KindDependency, "message": "database unreachable"},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
