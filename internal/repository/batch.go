package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// rowScanner is satisfied by both pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// insertMany runs the same insert once per row inside a single transaction.
// Either every row is written or none is.
func insertMany(ctx context.Context, db *pgxpool.Pool, query string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}

	return pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, args := range rows {
			batch.Queue(query, args...)
		}

		br := tx.SendBatch(ctx, batch)
		for i := range rows {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return fmt.Errorf("row %d: %w", i, err)
			}
		}
		return br.Close()
	})
}
