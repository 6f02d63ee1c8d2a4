package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"stockdesk/internal/delivery/http/dto"
	"stockdesk/internal/domain"
)

// Pinger is satisfied by *pgxpool.Pool
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports the state of the API and what it depends on
type HealthHandler struct {
	db Pinger
	ml domain.MLService
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db Pinger, ml domain.MLService) *HealthHandler {
	return &HealthHandler{db: db, ml: ml}
}

// GetHealth checks the database and the ML service.
// Only a database outage makes the API unhealthy; predictions degrade on their own.
// GET /health
func (h *HealthHandler) GetHealth(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	resp := dto.HealthResponse{
		Status:    "healthy",
		Service:   "stockdesk-api",
		Database:  "online",
		MLService: "online",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	code := http.StatusOK

	if err := h.db.Ping(ctx); err != nil {
		resp.Status = "unhealthy"
		resp.Database = "offline"
		code = http.StatusServiceUnavailable
	}

	if err := h.ml.HealthCheck(ctx); err != nil {
		resp.MLService = "offline"
	}

	return c.JSON(code, resp)
}
