package dto

import "stockdesk/internal/domain"

// PredictRequest represents the single prediction payload
type PredictRequest struct {
	Symbol    string `json:"symbol"`
	DaysAhead *int   `json:"days_ahead"`
}

// BatchPredictRequest represents the batch prediction payload
type BatchPredictRequest struct {
	Symbols   []string `json:"symbols"`
	DaysAhead *int     `json:"days_ahead"`
}

// IndicatorsRequest represents the technical indicators payload
type IndicatorsRequest struct {
	Symbol string `json:"symbol"`
	Period string `json:"period"`
}

// TrainRequest represents the training payload
type TrainRequest struct {
	Symbol  string `json:"symbol"`
	Period  string `json:"period"`
	Retrain bool   `json:"retrain"`
}

// BatchPredictResponse carries the predictions alongside the symbols that failed
type BatchPredictResponse struct {
	Success bool                       `json:"success"`
	Data    []*domain.PredictionResult `json:"data"`
	Errors  []domain.SymbolError       `json:"errors"`
}

// TrainResponse carries the ML service's training message
type TrainResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message,omitempty"`
	Data    *domain.TrainingResult `json:"data"`
}

// DaysAheadOrDefault returns the requested horizon, or one day when absent
func DaysAheadOrDefault(daysAhead *int) int {
	if daysAhead == nil {
		return 1
	}
	return *daysAhead
}
