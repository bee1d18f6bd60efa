package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is anything that can report whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	environment string
	database    Pinger
	cache       Pinger
}

// NewHealthHandler builds the liveness handler. cache may be nil.
func NewHealthHandler(environment string, database, cache Pinger) *HealthHandler {
	return &HealthHandler{environment: environment, database: database, cache: cache}
}

func check(ctx context.Context, p Pinger) string {
	if p == nil {
		return "disabled"
	}
	if err := p.Ping(ctx); err != nil {
		return "unavailable"
	}
	return "ok"
}

// Check - Liveness and dependency status
// GET /api/health
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	database := check(ctx, h.database)
	status := "ok"
	if database != "ok" {
		status = "degraded"
	}

	respond(c, http.StatusOK, "API is running", gin.H{
		"status":      status,
		"timestamp":   time.Now().UTC(),
		"environment": h.environment,
		"database":    database,
		"cache":       check(ctx, h.cache),
	})
}
