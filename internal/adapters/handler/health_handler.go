package handler

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

type HealthHandler struct {
	db          *sql.DB
	redisClient *redis.Client
	startTime   time.Time
	version     string
}

func NewHealthHandler(db *sql.DB, redisClient *redis.Client) *HealthHandler {
	version := os.Getenv("APP_VERSION")
	if version == "" {
		version = "unknown"
	}
	return &HealthHandler{
		db:          db,
		redisClient: redisClient,
		startTime:   time.Now(),
		version:     version,
	}
}

type healthCheck struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Health reports process liveness only; no dependencies are probed.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"status":    "UP",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(h.startTime).Round(time.Second).String(),
		"version":   h.version,
		"checks":    map[string]healthCheck{"process": {Status: "UP"}},
	})
}

// Live is an alias for Health, kept for probe configs that expect it.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	h.Health(w, r)
}

// Ready probes the database and the identity cache; any failure makes the
// service not ready.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	checks := map[string]healthCheck{
		"database": h.checkDatabase(),
		"redis":    h.checkRedis(),
	}

	status := "UP"
	httpStatus := http.StatusOK
	for _, check := range checks {
		if check.Status != "UP" {
			status = "DOWN"
			httpStatus = http.StatusServiceUnavailable
			break
		}
	}

	WriteJSON(w, httpStatus, map[string]any{
		"status": status,
		"checks": checks,
	})
}

func (h *HealthHandler) checkDatabase() healthCheck {
	if h.db == nil {
		return healthCheck{Status: "DOWN", Message: "Database connection is not initialized"}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		return healthCheck{Status: "DOWN", Message: "Cannot connect to database"}
	}
	return healthCheck{Status: "UP"}
}

func (h *HealthHandler) checkRedis() healthCheck {
	if h.redisClient == nil {
		return healthCheck{Status: "DOWN", Message: "Redis client is not initialized"}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := h.redisClient.Ping(ctx).Err(); err != nil {
		return healthCheck{Status: "DOWN", Message: "Cannot connect to Redis"}
	}
	return healthCheck{Status: "UP"}
}
