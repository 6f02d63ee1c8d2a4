package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"stockdesk/internal/domain"
	"stockdesk/pkg/logger"
)

const (
	defaultIndicatorPeriod = "3mo"
	defaultTrainPeriod     = "2y"
	defaultHistoryLimit    = 30
	defaultModelVersion    = "1.0.0"
)

// PredictionOptions tunes how predictions are persisted and served
type PredictionOptions struct {
	TTL          time.Duration
	ModelVersion string
	HistoryLimit int
	// Coalesce shares one ML call between concurrent predicts for the same symbol and horizon.
	Coalesce bool
}

// PredictionService proxies prediction requests to the ML service and records the results
type PredictionService struct {
	ml    domain.MLService
	repo  domain.PredictionRepository
	opts  PredictionOptions
	log   *logger.Logger
	group singleflight.Group
	now   func() time.Time
}

// NewPredictionService creates a new PredictionService
func NewPredictionService(
	ml domain.MLService,
	repo domain.PredictionRepository,
	opts PredictionOptions,
	log *logger.Logger,
) *PredictionService {
	if opts.TTL <= 0 {
		opts.TTL = domain.DefaultPredictionTTL
	}
	if opts.ModelVersion == "" {
		opts.ModelVersion = defaultModelVersion
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = defaultHistoryLimit
	}

	return &PredictionService{
		ml:   ml,
		repo: repo,
		opts: opts,
		log:  log.Named("prediction_service"),
		now:  time.Now,
	}
}

// Predict asks the ML service for a prediction and stores it without failing the call on a write error
func (s *PredictionService) Predict(ctx context.Context, symbol string, daysAhead int) (*domain.PredictionResult, error) {
	symbol, err := normalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	if daysAhead < 1 {
		return nil, &domain.ValidationError{Message: "days_ahead must be at least 1"}
	}

	if !s.opts.Coalesce {
		return s.predict(ctx, symbol, daysAhead)
	}

	// The shared call outlives any single caller; each caller waits on its own ctx.
	key := fmt.Sprintf("%s:%d", symbol, daysAhead)
	ch := s.group.DoChan(key, func() (interface{}, error) {
		return s.predict(context.WithoutCancel(ctx), symbol, daysAhead)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			s.log.Debug("Coalesced prediction request", logger.Field("symbol", symbol))
		}
		return res.Val.(*domain.PredictionResult), nil
	}
}

func (s *PredictionService) predict(ctx context.Context, symbol string, daysAhead int) (*domain.PredictionResult, error) {
	result, err := s.ml.Predict(ctx, symbol, daysAhead)
	if err != nil {
		return nil, err
	}

	prediction := s.toPrediction(result, symbol, daysAhead)
	if err := s.repo.Save(ctx, prediction); err != nil {
		s.log.Warn("Prediction generated but failed to persist",
			logger.Field("symbol", prediction.Symbol),
			logger.ErrorField(err),
		)
	}

	return result, nil
}

// GetLatest returns the most recent stored prediction for a symbol
func (s *PredictionService) GetLatest(ctx context.Context, symbol string) (*domain.Prediction, error) {
	symbol, err := normalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}

	prediction, err := s.repo.GetLatest(ctx, symbol)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.NotFoundError{Message: "No prediction found for this symbol"}
		}
		return nil, fmt.Errorf("failed to get latest prediction: %w", err)
	}
	return prediction, nil
}

// BatchPredict predicts several symbols in one ML call. Unlike Predict, a failed write fails the call.
func (s *PredictionService) BatchPredict(ctx context.Context, symbols []string, daysAhead int) (*domain.BatchPredictionResult, error) {
	if symbols == nil {
		return nil, &domain.ValidationError{Message: "Symbols array is required"}
	}
	if daysAhead < 1 {
		return nil, &domain.ValidationError{Message: "days_ahead must be at least 1"}
	}

	upper := make([]string, len(symbols))
	for i, sym := range symbols {
		upper[i] = strings.ToUpper(strings.TrimSpace(sym))
	}

	result, err := s.ml.BatchPredict(ctx, upper, daysAhead)
	if err != nil {
		return nil, err
	}

	// Results without a symbol are matched to the request by position when
	// the counts line up. Anything still unusable is reported per symbol.
	positional := len(result.Predictions) == len(upper)
	kept := make([]*domain.PredictionResult, 0, len(result.Predictions))
	predictions := make([]*domain.Prediction, 0, len(result.Predictions))
	for i, r := range result.Predictions {
		requested := ""
		if positional {
			requested = upper[i]
		}

		prediction := s.toPrediction(r, requested, daysAhead)
		if err := prediction.Validate(); err != nil {
			s.log.Warn("Dropping invalid batch prediction",
				logger.Field("symbol", prediction.Symbol),
				logger.ErrorField(err),
			)
			result.Errors = append(result.Errors, domain.SymbolError{Symbol: prediction.Symbol, Error: err.Error()})
			continue
		}

		if r.Symbol == "" {
			r.Symbol = prediction.Symbol
		}
		kept = append(kept, r)
		predictions = append(predictions, prediction)
	}
	result.Predictions = kept

	if len(predictions) > 0 {
		if err := s.repo.SaveMany(ctx, predictions); err != nil {
			return nil, fmt.Errorf("failed to save batch predictions: %w", err)
		}
	}

	s.log.Info("Batch prediction completed",
		logger.Field("requested", len(upper)),
		logger.Field("predicted", len(result.Predictions)),
		logger.Field("failed", len(result.Errors)),
	)
	return result, nil
}

// GetIndicators forwards an indicator request to the ML service
func (s *PredictionService) GetIndicators(ctx context.Context, symbol, period string) (*domain.IndicatorReport, error) {
	symbol, err := normalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	if period == "" {
		period = defaultIndicatorPeriod
	}

	return s.ml.TechnicalIndicators(ctx, symbol, period)
}

// Train forwards a training request to the ML service
func (s *PredictionService) Train(ctx context.Context, symbol, period string, retrain bool) (*domain.TrainingResult, error) {
	symbol, err := normalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	if period == "" {
		period = defaultTrainPeriod
	}

	s.log.Info("Training requested",
		logger.Field("symbol", symbol),
		logger.Field("period", period),
		logger.Field("retrain", retrain),
	)
	return s.ml.Train(ctx, symbol, period, retrain)
}

// GetHistory returns up to limit stored predictions, newest first
func (s *PredictionService) GetHistory(ctx context.Context, symbol string, limit int) ([]*domain.Prediction, error) {
	symbol, err := normalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.opts.HistoryLimit
	}

	predictions, err := s.repo.GetHistory(ctx, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction history: %w", err)
	}
	return predictions, nil
}

// toPrediction converts an ML result into the stored document
func (s *PredictionService) toPrediction(r *domain.PredictionResult, requested string, daysAhead int) *domain.Prediction {
	now := s.now().UTC()

	symbol := strings.ToUpper(r.Symbol)
	if symbol == "" {
		symbol = requested
	}

	predictionDate := r.PredictionDate.Time
	if predictionDate.IsZero() {
		predictionDate = now
	}

	return &domain.Prediction{
		ID:                  uuid.New(),
		Symbol:              symbol,
		CurrentPrice:        r.CurrentPrice,
		PredictedPrice:      r.PredictedPrice,
		PredictedChange:     r.PredictedChange,
		Confidence:          r.Confidence,
		PredictionDate:      predictionDate,
		PredictionForDate:   now.Add(time.Duration(daysAhead) * 24 * time.Hour),
		ModelVersion:        s.opts.ModelVersion,
		TechnicalIndicators: r.TechnicalIndicators,
		CreatedAt:           now,
		ExpiresAt:           now.Add(s.opts.TTL),
	}
}

func normalizeSymbol(symbol string) (string, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return "", &domain.ValidationError{Message: "Symbol is required"}
	}
	return symbol, nil
}
