package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/megasena-sim/internal/draws"
	"github.com/stitts-dev/megasena-sim/internal/jobs"
	"github.com/stitts-dev/megasena-sim/internal/services"
	"github.com/stitts-dev/megasena-sim/pkg/database"
)

type HealthHandler struct {
	store     *draws.Store
	db        *database.DB
	cache     *services.CacheService
	scheduler *jobs.Scheduler
}

// NewHealthHandler takes optional db, cache and scheduler; nil ones are
// reported as disabled.
func NewHealthHandler(store *draws.Store, db *database.DB, cache *services.CacheService, scheduler *jobs.Scheduler) *HealthHandler {
	return &HealthHandler{store: store, db: db, cache: cache, scheduler: scheduler}
}

// GetHealth returns basic health status - always returns 200 if server is running
func (h *HealthHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"service":   "megasena-sim",
	})
}

// GetReady returns 200 only once draws are loaded and every configured
// backend answers
func (h *HealthHandler) GetReady(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	ready := true
	checks := gin.H{}

	status := h.store.Status()
	checks["dataset"] = status
	if !status.Loaded {
		ready = false
	}

	checks["database"] = "disabled"
	if h.db != nil {
		if err := h.db.HealthCheck(); err != nil {
			checks["database"] = err.Error()
			ready = false
		} else {
			checks["database"] = "ok"
		}
	}

	checks["redis"] = "disabled"
	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			checks["redis"] = err.Error()
			ready = false
		} else {
			checks["redis"] = "ok"
		}
	}

	if h.scheduler != nil {
		checks["jobs"] = h.scheduler.Jobs()
	}

	code, label := http.StatusOK, "ready"
	if !ready {
		code, label = http.StatusServiceUnavailable, "not_ready"
	}
	c.JSON(code, gin.H{"status": label, "checks": checks})
}
