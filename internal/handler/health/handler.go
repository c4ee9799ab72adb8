package health

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

// Check reports whether a single dependency is reachable.
type Check func(ctx context.Context) error

type Handler struct {
	checks map[string]Check
}

// NewHandler builds a health handler with the database check wired.
// Further dependencies register through AddCheck.
func NewHandler(db *sqlx.DB) *Handler {
	h := &Handler{checks: make(map[string]Check)}
	h.AddCheck("database", func(ctx context.Context) error {
		return db.PingContext(ctx)
	})
	return h
}

func (h *Handler) AddCheck(name string, check Check) {
	h.checks[name] = check
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	health := r.Group("/health")
	{
		health.GET("/live", h.LivenessCheck)
		health.GET("/ready", h.ReadinessCheck)
	}
}

func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}

// ReadinessCheck pings every registered dependency and reports each
// one by name, so an unready pod shows which dependency is down.
func (h *Handler) ReadinessCheck(c *gin.Context) {
	status := http.StatusOK
	deps := gin.H{}

	for name, check := range h.checks {
		if err := check(c.Request.Context()); err != nil {
			status = http.StatusServiceUnavailable
			deps[name] = "DOWN"
			continue
		}
		deps[name] = "UP"
	}

	overall := "UP"
	if status != http.StatusOK {
		overall = "DOWN"
	}

	c.JSON(status, gin.H{"status": overall, "dependencies": deps})
}
