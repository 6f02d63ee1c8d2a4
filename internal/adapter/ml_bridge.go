package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"syscall"

	"golang.org/x/time/rate"

	"stockdesk/configs"
	"stockdesk/internal/domain"
	"stockdesk/pkg/logger"
)

// maxResponseBytes caps how much of an ML response is read into memory
const maxResponseBytes = 10 << 20

// MLBridge implements the MLService interface over the ML service's HTTP API
type MLBridge struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *logger.Logger
}

// NewMLBridge creates a new ML service bridge
func NewMLBridge(cfg configs.MLServiceConfig, log *logger.Logger) *MLBridge {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerSecond > 0 {
		burst := int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &MLBridge{
		baseURL: cfg.URL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout, // training can take minutes
		},
		limiter: limiter,
		log:     log.Named("ml_bridge"),
	}
}

// mlEnvelope is the response wrapper every ML endpoint uses
type mlEnvelope struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Error   string               `json:"error"`
	Data    json.RawMessage      `json:"data"`
	Errors  []domain.SymbolError `json:"errors"`
}

type predictRequest struct {
	Symbol    string `json:"symbol"`
	DaysAhead int    `json:"days_ahead"`
}

type batchPredictRequest struct {
	Symbols   []string `json:"symbols"`
	DaysAhead int      `json:"days_ahead"`
}

type indicatorsRequest struct {
	Symbol string `json:"symbol"`
	Period string `json:"period"`
}

type trainRequest struct {
	Symbol  string `json:"symbol"`
	Period  string `json:"period"`
	Retrain bool   `json:"retrain"`
}

// Predict asks the ML service for a single-symbol prediction
func (b *MLBridge) Predict(ctx context.Context, symbol string, daysAhead int) (*domain.PredictionResult, error) {
	env, err := b.post(ctx, "/api/v1/predict", predictRequest{Symbol: symbol, DaysAhead: daysAhead}, "Prediction failed")
	if err != nil {
		return nil, err
	}

	var result domain.PredictionResult
	if err := decodeData(env, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// BatchPredict asks the ML service for predictions on several symbols in one call
func (b *MLBridge) BatchPredict(ctx context.Context, symbols []string, daysAhead int) (*domain.BatchPredictionResult, error) {
	env, err := b.post(ctx, "/api/v1/batch-predict", batchPredictRequest{Symbols: symbols, DaysAhead: daysAhead}, "Batch prediction failed")
	if err != nil {
		return nil, err
	}

	var predictions []*domain.PredictionResult
	if err := decodeData(env, &predictions); err != nil {
		return nil, err
	}

	return &domain.BatchPredictionResult{
		Predictions: predictions,
		Errors:      env.Errors,
	}, nil
}

// TechnicalIndicators fetches the latest indicator readout for a symbol
func (b *MLBridge) TechnicalIndicators(ctx context.Context, symbol, period string) (*domain.IndicatorReport, error) {
	env, err := b.post(ctx, "/api/v1/technical-indicators", indicatorsRequest{Symbol: symbol, Period: period}, "Failed to fetch indicators")
	if err != nil {
		return nil, err
	}

	var report domain.IndicatorReport
	if err := decodeData(env, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// Train asks the ML service to (re)train the model for a symbol
func (b *MLBridge) Train(ctx context.Context, symbol, period string, retrain bool) (*domain.TrainingResult, error) {
	env, err := b.post(ctx, "/api/v1/train", trainRequest{Symbol: symbol, Period: period, Retrain: retrain}, "Training failed")
	if err != nil {
		return nil, err
	}

	var result domain.TrainingResult
	if err := decodeData(env, &result); err != nil {
		return nil, err
	}
	result.Message = env.Message
	return &result, nil
}

// HealthCheck checks if the ML service is healthy
func (b *MLBridge) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))

	if resp.StatusCode != http.StatusOK {
		return &domain.UpstreamError{StatusCode: resp.StatusCode, Message: "ML service is unhealthy"}
	}
	return nil
}

// post sends a JSON request and unwraps the envelope. A 2xx envelope with
// success=false becomes an UpstreamError carrying fallback when the service gave no reason.
func (b *MLBridge) post(ctx context.Context, path string, payload any, fallback string) (*mlEnvelope, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, &domain.InternalError{Message: err.Error(), Err: err}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &domain.InternalError{Message: "failed to marshal ML request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, &domain.InternalError{Message: "failed to create ML request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		b.log.Error("ML service call failed", logger.Field("path", path), logger.ErrorField(err))
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &domain.InternalError{Message: "failed to read ML response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b.log.Warn("ML service returned an error",
			logger.Field("path", path),
			logger.Field("status", resp.StatusCode),
		)
		return nil, upstreamFailure(resp.StatusCode, raw)
	}

	var env mlEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &domain.InternalError{Message: "failed to decode ML response", Err: err}
	}

	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = fallback
		}
		return nil, &domain.UpstreamError{StatusCode: http.StatusInternalServerError, Message: msg}
	}

	return &env, nil
}

func decodeData(env *mlEnvelope, out any) error {
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return &domain.InternalError{Message: "ML service returned no data"}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &domain.InternalError{Message: "failed to decode ML response data", Err: err}
	}
	return nil
}

// upstreamFailure keeps a JSON error body so it can be relayed verbatim
func upstreamFailure(status int, raw []byte) error {
	upErr := &domain.UpstreamError{StatusCode: status}

	if len(bytes.TrimSpace(raw)) == 0 || !json.Valid(raw) {
		upErr.Message = "ML service request failed"
		return upErr
	}

	upErr.Body = raw
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil {
		upErr.Message = body.Error
	}
	return upErr
}

// classifyTransportError separates "nothing is listening" from every other failure
func classifyTransportError(err error) error {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return &domain.ServiceUnavailableError{Err: err}
	}
	return &domain.InternalError{Message: err.Error(), Err: err}
}
