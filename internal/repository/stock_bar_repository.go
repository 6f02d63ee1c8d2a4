package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"stockdesk/internal/domain"
)

// StockBarRepositoryImpl implements the StockBarRepository interface
type StockBarRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewStockBarRepository creates a new StockBarRepository
func NewStockBarRepository(db *pgxpool.Pool) domain.StockBarRepository {
	return &StockBarRepositoryImpl{db: db}
}

// SaveMany inserts bars in a single transaction
func (r *StockBarRepositoryImpl) SaveMany(ctx context.Context, bars []*domain.StockBar) error {
	query := `
		INSERT INTO stock_bars (
			id, symbol, date, open, high, low, close, volume,
			rsi, macd, macd_signal, macd_hist, sma_20, sma_50, ema_12, bb_upper, bb_lower,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19
		)
	`

	args := make([][]any, 0, len(bars))
	for _, b := range bars {
		args = append(args, []any{
			b.ID, b.Symbol, b.Date, b.Open, b.High, b.Low, b.Close, b.Volume,
			b.RSI, b.MACD, b.MACDSignal, b.MACDHist, b.SMA20, b.SMA50, b.EMA12, b.BBUpper, b.BBLower,
			b.CreatedAt, b.UpdatedAt,
		})
	}

	if err := insertMany(ctx, r.db, query, args); err != nil {
		return fmt.Errorf("failed to save stock bars: %w", err)
	}
	return nil
}

// GetBySymbol retrieves up to limit bars for a symbol, newest date first
func (r *StockBarRepositoryImpl) GetBySymbol(ctx context.Context, symbol string, limit int) ([]*domain.StockBar, error) {
	query := `
		SELECT id, symbol, date, open, high, low, close, volume,
		       rsi, macd, macd_signal, macd_hist, sma_20, sma_50, ema_12, bb_upper, bb_lower,
		       created_at, updated_at
		FROM stock_bars
		WHERE symbol = $1
		ORDER BY date DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock bars: %w", err)
	}
	defer rows.Close()

	bars := make([]*domain.StockBar, 0)
	for rows.Next() {
		b := &domain.StockBar{}
		err := rows.Scan(
			&b.ID, &b.Symbol, &b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume,
			&b.RSI, &b.MACD, &b.MACDSignal, &b.MACDHist, &b.SMA20, &b.SMA50, &b.EMA12, &b.BBUpper, &b.BBLower,
			&b.CreatedAt, &b.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock bar: %w", err)
		}
		bars = append(bars, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock bars: %w", err)
	}

	return bars, nil
}
