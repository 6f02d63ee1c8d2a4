package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultPredictionTTL is how long a stored prediction stays retrievable
const DefaultPredictionTTL = 7 * 24 * time.Hour

// Prediction is a persisted price prediction
type Prediction struct {
	ID                  uuid.UUID          `json:"id"`
	Symbol              string             `json:"symbol"`
	CurrentPrice        float64            `json:"current_price"`
	PredictedPrice      float64            `json:"predicted_price"`
	PredictedChange     float64            `json:"predicted_change"` // percent
	Confidence          float64            `json:"confidence"`       // 0-100
	PredictionDate      time.Time          `json:"prediction_date"`
	PredictionForDate   time.Time          `json:"prediction_for_date"`
	ModelVersion        string             `json:"model_version"`
	TechnicalIndicators *IndicatorSnapshot `json:"technical_indicators,omitempty"`
	CreatedAt           time.Time          `json:"created_at"`
	ExpiresAt           time.Time          `json:"expires_at"`
}

// Validate checks the stored-document invariants
func (p *Prediction) Validate() error {
	if p.Symbol == "" {
		return fmt.Errorf("prediction symbol is empty")
	}
	if p.Confidence < 0 || p.Confidence > 100 {
		return fmt.Errorf("prediction confidence %.2f outside [0,100]", p.Confidence)
	}
	return nil
}

// IsExpired reports whether the prediction's TTL has run out at now
func (p *Prediction) IsExpired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}

// IndicatorSnapshot holds the technical indicators for one point in time
type IndicatorSnapshot struct {
	RSI        *float64 `json:"rsi,omitempty"`
	MACD       *float64 `json:"macd,omitempty"`
	MACDSignal *float64 `json:"macd_signal,omitempty"`
	SMA20      *float64 `json:"sma_20,omitempty"`
	SMA50      *float64 `json:"sma_50,omitempty"`
	EMA12      *float64 `json:"ema_12,omitempty"`
	BBUpper    *float64 `json:"bb_upper,omitempty"`
	BBLower    *float64 `json:"bb_lower,omitempty"`
}

// PriceSnapshot is the latest OHLCV bar reported with indicators
type PriceSnapshot struct {
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// PredictionResult is a prediction as computed by the ML service
type PredictionResult struct {
	Symbol              string             `json:"symbol"`
	CurrentPrice        float64            `json:"current_price"`
	PredictedPrice      float64            `json:"predicted_price"`
	PredictedChange     float64            `json:"predicted_change"`
	Confidence          float64            `json:"confidence"`
	PredictionDate      FlexibleTime       `json:"prediction_date"`
	TechnicalIndicators *IndicatorSnapshot `json:"technical_indicators,omitempty"`
}

// SymbolError is a per-symbol failure reported by a batch prediction
type SymbolError struct {
	Symbol string `json:"symbol"`
	Error  string `json:"error"`
}

// BatchPredictionResult holds the predictions and failures of one batch call
type BatchPredictionResult struct {
	Predictions []*PredictionResult
	Errors      []SymbolError
}

// IndicatorReport is the ML service's technical indicator readout for a symbol
type IndicatorReport struct {
	Symbol     string            `json:"symbol"`
	Indicators IndicatorSnapshot `json:"indicators"`
	Price      PriceSnapshot     `json:"price"`
}

// TrainingResult is returned after the ML service (re)trains a model
type TrainingResult struct {
	Message string                 `json:"-"`
	Symbol  string                 `json:"symbol"`
	Metrics map[string]interface{} `json:"metrics"`
}

// FlexibleTime handles the timestamp formats the ML service emits
type FlexibleTime struct {
	time.Time
}

// UnmarshalJSON accepts RFC3339 as well as Python's naive isoformat()
func (ft *FlexibleTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), "\"")
	if s == "" || s == "null" {
		ft.Time = time.Time{}
		return nil
	}

	formats := []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999", // Python datetime format without timezone
		"2006-01-02T15:04:05",
		time.DateTime,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			ft.Time = t
			return nil
		}
	}

	return fmt.Errorf("unable to parse timestamp: %s", s)
}
