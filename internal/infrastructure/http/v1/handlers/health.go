// Package handlers provides HTTP request handlers.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pinger checks the database connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Readiness reports whether the catalog has been loaded.
type Readiness interface {
	IsLoaded() bool
}

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	db      Pinger
	catalog Readiness
	version string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db Pinger, catalog Readiness, version string) *HealthHandler {
	return &HealthHandler{db: db, catalog: catalog, version: version}
}

// Live handles liveness probe (is the process alive?).
// GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
	})
}

// Ready is ok once the database answers and the catalog is loaded.
// GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	checks := map[string]string{}
	ready := true

	if h.db != nil {
		if err := h.db.Ping(c.Request.Context()); err != nil {
			checks["database"] = "unhealthy: " + err.Error()
			ready = false
		} else {
			checks["database"] = "healthy"
		}
	}

	if h.catalog != nil {
		if h.catalog.IsLoaded() {
			checks["catalog"] = "loaded"
		} else {
			checks["catalog"] = "loading"
			ready = false
		}
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "checks": checks})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "checks": checks})
}
