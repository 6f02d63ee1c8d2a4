package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"stockdesk/internal/domain"
)

// HoldingRepositoryImpl implements the HoldingRepository interface
type HoldingRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewHoldingRepository creates a new HoldingRepository
func NewHoldingRepository(db *pgxpool.Pool) domain.HoldingRepository {
	return &HoldingRepositoryImpl{db: db}
}

// GetAll retrieves every holding
func (r *HoldingRepositoryImpl) GetAll(ctx context.Context) ([]*domain.Holding, error) {
	query := `
		SELECT id, name, qty, avg, price, net, day, is_loss
		FROM holdings
		ORDER BY name ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings: %w", err)
	}
	defer rows.Close()

	holdings := make([]*domain.Holding, 0)
	for rows.Next() {
		h := &domain.Holding{}
		if err := rows.Scan(&h.ID, &h.Name, &h.Qty, &h.Avg, &h.Price, &h.Net, &h.Day, &h.IsLoss); err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		holdings = append(holdings, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holdings: %w", err)
	}

	return holdings, nil
}

// SaveMany inserts holdings in a single transaction
func (r *HoldingRepositoryImpl) SaveMany(ctx context.Context, holdings []*domain.Holding) error {
	query := `
		INSERT INTO holdings (id, name, qty, avg, price, net, day, is_loss)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	args := make([][]any, 0, len(holdings))
	for _, h := range holdings {
		args = append(args, []any{h.ID, h.Name, h.Qty, h.Avg, h.Price, h.Net, h.Day, h.IsLoss})
	}

	if err := insertMany(ctx, r.db, query, args); err != nil {
		return fmt.Errorf("failed to save holdings: %w", err)
	}
	return nil
}

// PositionRepositoryImpl implements the PositionRepository interface
type PositionRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewPositionRepository creates a new PositionRepository
func NewPositionRepository(db *pgxpool.Pool) domain.PositionRepository {
	return &PositionRepositoryImpl{db: db}
}

// GetAll retrieves every position
func (r *PositionRepositoryImpl) GetAll(ctx context.Context) ([]*domain.Position, error) {
	query := `
		SELECT id, product, name, qty, avg, price, net, day, is_loss
		FROM positions
		ORDER BY name ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	positions := make([]*domain.Position, 0)
	for rows.Next() {
		p := &domain.Position{}
		if err := rows.Scan(&p.ID, &p.Product, &p.Name, &p.Qty, &p.Avg, &p.Price, &p.Net, &p.Day, &p.IsLoss); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating positions: %w", err)
	}

	return positions, nil
}

// SaveMany inserts positions in a single transaction
func (r *PositionRepositoryImpl) SaveMany(ctx context.Context, positions []*domain.Position) error {
	query := `
		INSERT INTO positions (id, product, name, qty, avg, price, net, day, is_loss)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	args := make([][]any, 0, len(positions))
	for _, p := range positions {
		args = append(args, []any{p.ID, p.Product, p.Name, p.Qty, p.Avg, p.Price, p.Net, p.Day, p.IsLoss})
	}

	if err := insertMany(ctx, r.db, query, args); err != nil {
		return fmt.Errorf("failed to save positions: %w", err)
	}
	return nil
}

// OrderRepositoryImpl implements the OrderRepository interface
type OrderRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(db *pgxpool.Pool) domain.OrderRepository {
	return &OrderRepositoryImpl{db: db}
}

// Save stores a new order
func (r *OrderRepositoryImpl) Save(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (id, name, qty, price, mode, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		order.ID,
		order.Name,
		order.Qty,
		order.Price,
		order.Mode,
		order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}

	return nil
}

// GetAll retrieves every order, newest first
func (r *OrderRepositoryImpl) GetAll(ctx context.Context) ([]*domain.Order, error) {
	query := `
		SELECT id, name, qty, price, mode, created_at
		FROM orders
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0)
	for rows.Next() {
		o := &domain.Order{}
		if err := rows.Scan(&o.ID, &o.Name, &o.Qty, &o.Price, &o.Mode, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}
