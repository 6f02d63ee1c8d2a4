package domain

import "context"

// MLService is the external prediction engine
type MLService interface {
	Predict(ctx context.Context, symbol string, daysAhead int) (*PredictionResult, error)
	BatchPredict(ctx context.Context, symbols []string, daysAhead int) (*BatchPredictionResult, error)
	TechnicalIndicators(ctx context.Context, symbol, period string) (*IndicatorReport, error)
	Train(ctx context.Context, symbol, period string, retrain bool) (*TrainingResult, error)
	HealthCheck(ctx context.Context) error
}

// PredictionService mediates between API clients and the ML service
type PredictionService interface {
	Predict(ctx context.Context, symbol string, daysAhead int) (*PredictionResult, error)
	GetLatest(ctx context.Context, symbol string) (*Prediction, error)
	BatchPredict(ctx context.Context, symbols []string, daysAhead int) (*BatchPredictionResult, error)
	GetIndicators(ctx context.Context, symbol, period string) (*IndicatorReport, error)
	Train(ctx context.Context, symbol, period string, retrain bool) (*TrainingResult, error)
	GetHistory(ctx context.Context, symbol string, limit int) ([]*Prediction, error)
}

// AuthService validates credentials against stored users
type AuthService interface {
	Signup(ctx context.Context, name, email, password string) (*User, error)
	Login(ctx context.Context, email, password string) (*User, error)
}
