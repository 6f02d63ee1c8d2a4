package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"stockdesk/internal/delivery/http/dto"
	"stockdesk/internal/domain"
	"stockdesk/pkg/logger"
)

// PortfolioHandler serves the dashboard's holdings, positions and orders
type PortfolioHandler struct {
	holdingRepo  domain.HoldingRepository
	positionRepo domain.PositionRepository
	orderRepo    domain.OrderRepository
	log          *logger.Logger
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(
	holdingRepo domain.HoldingRepository,
	positionRepo domain.PositionRepository,
	orderRepo domain.OrderRepository,
	log *logger.Logger,
) *PortfolioHandler {
	return &PortfolioHandler{
		holdingRepo:  holdingRepo,
		positionRepo: positionRepo,
		orderRepo:    orderRepo,
		log:          log.Named("portfolio_handler"),
	}
}

// GetHoldings returns every holding as a bare array
// GET /allHoldings
func (h *PortfolioHandler) GetHoldings(c echo.Context) error {
	holdings, err := h.holdingRepo.GetAll(c.Request().Context())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, holdings)
}

// GetPositions returns every position as a bare array
// GET /allPositions
func (h *PortfolioHandler) GetPositions(c echo.Context) error {
	positions, err := h.positionRepo.GetAll(c.Request().Context())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, positions)
}

// GetOrders returns every order, newest first
// GET /allOrders
func (h *PortfolioHandler) GetOrders(c echo.Context) error {
	orders, err := h.orderRepo.GetAll(c.Request().Context())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// NewOrder stores a buy or sell order
// POST /newOrder
func (h *PortfolioHandler) NewOrder(c echo.Context) error {
	var req dto.NewOrderRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	order := &domain.Order{
		ID:        uuid.New(),
		Name:      req.Name,
		Qty:       req.Qty,
		Price:     req.Price,
		Mode:      req.Mode,
		CreatedAt: time.Now().UTC(),
	}
	if err := order.Validate(); err != nil {
		return respondError(c, h.log, err)
	}

	if err := h.orderRepo.Save(c.Request().Context(), order); err != nil {
		return respondError(c, h.log, err)
	}

	h.log.Info("Order saved",
		logger.Field("name", order.Name),
		logger.Field("mode", order.Mode),
		logger.Field("qty", order.Qty),
	)
	return c.String(http.StatusOK, "Order saved!")
}
