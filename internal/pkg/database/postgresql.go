package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the shared connection pool of the shift engine stores.
type DB struct {
	*pgxpool.Pool
}

// PoolOption tunes the pool before it connects.
type PoolOption func(*pgxpool.Config)

// WithPoolSize bounds the number of open connections. Non-positive values
// keep the defaults.
func WithPoolSize(minConns, maxConns int32) PoolOption {
	return func(c *pgxpool.Config) {
		if maxConns > 0 {
			c.MaxConns = maxConns
		}
		if minConns > 0 {
			c.MinConns = minConns
		}
	}
}

// WithMaxConnIdleTime closes connections idle for longer than d.
func WithMaxConnIdleTime(d time.Duration) PoolOption {
	return func(c *pgxpool.Config) {
		if d > 0 {
			c.MaxConnIdleTime = d
		}
	}
}

func newPoolConfig(dsn string, opts ...PoolOption) (*pgxpool.Config, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5
	for _, opt := range opts {
		opt(config)
	}
	if config.MinConns > config.MaxConns {
		config.MinConns = config.MaxConns
	}
	return config, nil
}

// NewPostgreSQLDB opens the pool and pings it once.
func NewPostgreSQLDB(ctx context.Context, dsn string, opts ...PoolOption) (*DB, error) {
	config, err := newPoolConfig(dsn, opts...)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

func (db *DB) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return db.Pool.Begin(ctx)
}

// Querier is satisfied by both the pool and a pgx.Tx, so repositories run the
// same statements inside or outside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, arguments ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}
