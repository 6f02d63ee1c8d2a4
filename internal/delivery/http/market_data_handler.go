package http

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"stockdesk/internal/domain"
	"stockdesk/pkg/logger"
)

const (
	defaultBarLimit = 60
	maxBarLimit     = 1000
)

// MarketDataHandler serves stored daily bars
type MarketDataHandler struct {
	barRepo domain.StockBarRepository
	log     *logger.Logger
}

// NewMarketDataHandler creates a new MarketDataHandler
func NewMarketDataHandler(barRepo domain.StockBarRepository, log *logger.Logger) *MarketDataHandler {
	return &MarketDataHandler{
		barRepo: barRepo,
		log:     log.Named("market_data_handler"),
	}
}

// GetBars returns stored bars for a symbol, newest date first
// GET /api/stocks/:symbol/bars?limit=N
func (h *MarketDataHandler) GetBars(c echo.Context) error {
	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
	if symbol == "" {
		return BadRequestResponse(c, "Symbol is required")
	}

	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = defaultBarLimit
	}
	if limit > maxBarLimit {
		limit = maxBarLimit
	}

	bars, err := h.barRepo.GetBySymbol(c.Request().Context(), symbol, limit)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return SuccessResponse(c, bars)
}
