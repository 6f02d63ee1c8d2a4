package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"stockdesk/internal/domain"
)

const predictionColumns = `
	id, symbol, current_price, predicted_price, predicted_change, confidence,
	prediction_date, prediction_for_date, model_version, technical_indicators,
	created_at, expires_at
`

// PredictionRepositoryImpl implements the PredictionRepository interface.
// Expiry is enforced on read (expires_at > NOW()) so a prediction disappears the
// moment its TTL runs out; DeleteExpired only reclaims the rows.
type PredictionRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewPredictionRepository creates a new PredictionRepository
func NewPredictionRepository(db *pgxpool.Pool) domain.PredictionRepository {
	return &PredictionRepositoryImpl{db: db}
}

func predictionArgs(p *domain.Prediction) []any {
	return []any{
		p.ID,
		p.Symbol,
		p.CurrentPrice,
		p.PredictedPrice,
		p.PredictedChange,
		p.Confidence,
		p.PredictionDate,
		p.PredictionForDate,
		p.ModelVersion,
		p.TechnicalIndicators,
		p.CreatedAt,
		p.ExpiresAt,
	}
}

func scanPrediction(row rowScanner) (*domain.Prediction, error) {
	p := &domain.Prediction{}
	err := row.Scan(
		&p.ID,
		&p.Symbol,
		&p.CurrentPrice,
		&p.PredictedPrice,
		&p.PredictedChange,
		&p.Confidence,
		&p.PredictionDate,
		&p.PredictionForDate,
		&p.ModelVersion,
		&p.TechnicalIndicators,
		&p.CreatedAt,
		&p.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

var insertPredictionQuery = `
	INSERT INTO predictions (` + predictionColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`

// Save stores a single prediction
func (r *PredictionRepositoryImpl) Save(ctx context.Context, prediction *domain.Prediction) error {
	if err := prediction.Validate(); err != nil {
		return fmt.Errorf("failed to save prediction: %w", err)
	}

	if _, err := r.db.Exec(ctx, insertPredictionQuery, predictionArgs(prediction)...); err != nil {
		return fmt.Errorf("failed to save prediction: %w", err)
	}
	return nil
}

// SaveMany stores predictions in one transaction
func (r *PredictionRepositoryImpl) SaveMany(ctx context.Context, predictions []*domain.Prediction) error {
	args := make([][]any, 0, len(predictions))
	for _, p := range predictions {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("failed to save predictions: %w", err)
		}
		args = append(args, predictionArgs(p))
	}

	if err := insertMany(ctx, r.db, insertPredictionQuery, args); err != nil {
		return fmt.Errorf("failed to save predictions: %w", err)
	}
	return nil
}

// GetLatest retrieves the newest live prediction for a symbol
func (r *PredictionRepositoryImpl) GetLatest(ctx context.Context, symbol string) (*domain.Prediction, error) {
	query := `
		SELECT ` + predictionColumns + `
		FROM predictions
		WHERE symbol = $1 AND expires_at > NOW()
		ORDER BY prediction_date DESC, created_at DESC
		LIMIT 1
	`

	p, err := scanPrediction(r.db.QueryRow(ctx, query, symbol))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get latest prediction: %w", err)
	}

	return p, nil
}

// GetHistory retrieves up to limit live predictions, newest prediction_date first
func (r *PredictionRepositoryImpl) GetHistory(ctx context.Context, symbol string, limit int) ([]*domain.Prediction, error) {
	query := `
		SELECT ` + predictionColumns + `
		FROM predictions
		WHERE symbol = $1 AND expires_at > NOW()
		ORDER BY prediction_date DESC, created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query prediction history: %w", err)
	}
	defer rows.Close()

	predictions := make([]*domain.Prediction, 0)
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		predictions = append(predictions, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating predictions: %w", err)
	}

	return predictions, nil
}

// DeleteExpired removes predictions whose TTL has run out
func (r *PredictionRepositoryImpl) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM predictions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired predictions: %w", err)
	}
	return tag.RowsAffected(), nil
}
