package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"stockdesk/internal/delivery/http/dto"
	"stockdesk/internal/domain"
	"stockdesk/pkg/logger"
)

// PredictionHandler handles the prediction proxy endpoints
type PredictionHandler struct {
	predictionService domain.PredictionService
	log               *logger.Logger
}

// NewPredictionHandler creates a new PredictionHandler
func NewPredictionHandler(predictionService domain.PredictionService, log *logger.Logger) *PredictionHandler {
	return &PredictionHandler{
		predictionService: predictionService,
		log:               log.Named("prediction_handler"),
	}
}

// Predict returns a fresh prediction for one symbol
// POST /api/predictions/predict
func (h *PredictionHandler) Predict(c echo.Context) error {
	var req dto.PredictRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	result, err := h.predictionService.Predict(c.Request().Context(), req.Symbol, dto.DaysAheadOrDefault(req.DaysAhead))
	if err != nil {
		return respondError(c, h.log, err)
	}

	return SuccessResponse(c, result)
}

// GetLatest returns the newest stored prediction for a symbol
// GET /api/predictions/:symbol
func (h *PredictionHandler) GetLatest(c echo.Context) error {
	prediction, err := h.predictionService.GetLatest(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		return respondError(c, h.log, err)
	}

	return SuccessResponse(c, prediction)
}

// BatchPredict predicts several symbols at once. data and errors are always
// JSON arrays, empty rather than null when nothing is in them.
// POST /api/predictions/batch
func (h *PredictionHandler) BatchPredict(c echo.Context) error {
	var req dto.BatchPredictRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Symbols array is required")
	}

	result, err := h.predictionService.BatchPredict(c.Request().Context(), req.Symbols, dto.DaysAheadOrDefault(req.DaysAhead))
	if err != nil {
		return respondError(c, h.log, err)
	}

	resp := dto.BatchPredictResponse{
		Success: true,
		Data:    result.Predictions,
		Errors:  result.Errors,
	}
	if resp.Data == nil {
		resp.Data = []*domain.PredictionResult{}
	}
	if resp.Errors == nil {
		resp.Errors = []domain.SymbolError{}
	}
	return c.JSON(http.StatusOK, resp)
}

// GetIndicators returns the ML service's indicator readout
// POST /api/predictions/indicators
func (h *PredictionHandler) GetIndicators(c echo.Context) error {
	var req dto.IndicatorsRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	report, err := h.predictionService.GetIndicators(c.Request().Context(), req.Symbol, req.Period)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return SuccessResponse(c, report)
}

// Train triggers model training for a symbol
// POST /api/predictions/train
func (h *PredictionHandler) Train(c echo.Context) error {
	var req dto.TrainRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	result, err := h.predictionService.Train(c.Request().Context(), req.Symbol, req.Period, req.Retrain)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, dto.TrainResponse{
		Success: true,
		Message: result.Message,
		Data:    result,
	})
}

// GetHistory returns stored predictions for a symbol, newest first
// GET /api/predictions/:symbol/history?limit=N
func (h *PredictionHandler) GetHistory(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit")) // non-numeric falls back to the default

	predictions, err := h.predictionService.GetHistory(c.Request().Context(), c.Param("symbol"), limit)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return SuccessResponse(c, predictions)
}
