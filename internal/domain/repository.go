package domain

import (
	"context"
)

// HoldingRepository defines the interface for holding data operations
type HoldingRepository interface {
	// GetAll retrieves every holding
	GetAll(ctx context.Context) ([]*Holding, error)

	// SaveMany inserts holdings in a single transaction
	SaveMany(ctx context.Context, holdings []*Holding) error
}

// PositionRepository defines the interface for position data operations
type PositionRepository interface {
	// GetAll retrieves every position
	GetAll(ctx context.Context) ([]*Position, error)

	// SaveMany inserts positions in a single transaction
	SaveMany(ctx context.Context, positions []*Position) error
}

// OrderRepository defines the interface for order data operations
type OrderRepository interface {
	// Save stores a new order
	Save(ctx context.Context, order *Order) error

	// GetAll retrieves every order, newest first
	GetAll(ctx context.Context) ([]*Order, error)
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create stores a new user; returns ErrEmailTaken on a duplicate email
	Create(ctx context.Context, user *User) error

	// GetByEmail retrieves a user by normalized email; returns ErrNotFound if absent
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// StockBarRepository defines the interface for stock bar data operations
type StockBarRepository interface {
	// SaveMany inserts bars in a single transaction
	SaveMany(ctx context.Context, bars []*StockBar) error

	// GetBySymbol retrieves up to limit bars for a symbol, newest date first
	GetBySymbol(ctx context.Context, symbol string, limit int) ([]*StockBar, error)
}

// PredictionRepository defines the interface for prediction data operations.
// Reads never return a prediction whose ExpiresAt has passed.
type PredictionRepository interface {
	// Save stores a single prediction
	Save(ctx context.Context, prediction *Prediction) error

	// SaveMany stores predictions in one transaction; either all are written or none
	SaveMany(ctx context.Context, predictions []*Prediction) error

	// GetLatest retrieves the newest prediction by prediction_date; returns ErrNotFound if none
	GetLatest(ctx context.Context, symbol string) (*Prediction, error)

	// GetHistory retrieves up to limit predictions, newest prediction_date first
	GetHistory(ctx context.Context, symbol string, limit int) ([]*Prediction, error)

	// DeleteExpired removes predictions past their TTL and returns how many were removed
	DeleteExpired(ctx context.Context) (int64, error)
}
