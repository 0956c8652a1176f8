package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const healthTimeout = 2 * time.Second

// Database is the part of the store the health check inspects
type Database interface {
	Ping(ctx context.Context) error
	SchemaVersion(ctx context.Context) (int, error)
}

// HealthHandler serves liveness endpoints
type HealthHandler struct {
	db      Database
	version string
	logger  *zap.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db Database, version string, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		db:      db,
		version: version,
		logger:  logger,
	}
}

// Root confirms the service is running
// GET /
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "User API is running!",
	})
}

// Health reports whether the database is reachable and which schema it runs
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.unavailable(c, err)
		return
	}

	schemaVersion, err := h.db.SchemaVersion(ctx)
	if err != nil {
		h.unavailable(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"database":       "ok",
		"schema_version": schemaVersion,
		"version":        h.version,
	})
}

func (h *HealthHandler) unavailable(c *gin.Context, err error) {
	h.logger.Error("health check failed", zap.Error(err))
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"status":   "unavailable",
		"database": "unreachable",
		"version":  h.version,
	})
}
