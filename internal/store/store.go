package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scribehq/scribe/internal/domain"
)

type Store struct {
	pool *pgxpool.Pool
}

var (
	_ domain.Repository = (*Store)(nil)
	_ domain.Tx         = (*Tx)(nil)
)

func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// WithTx runs fn inside a single database transaction. Every write made
// through the Tx is committed together when fn returns nil, or discarded
// together when it returns an error.
func (s *Store) WithTx(ctx context.Context, fn func(domain.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&Tx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Tx is the write side of the repository, scoped to one transaction.
type Tx struct {
	tx pgx.Tx
}
