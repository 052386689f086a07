package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Pool sizes the connection pool. The analytics fan-out issues up to four
// queries per request, so MaxOpenConns bounds concurrent combined views.
type Pool struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// ConnectTimeout bounds the initial ping. Zero leaves it to ctx.
	ConnectTimeout time.Duration
}

func (p Pool) validate() error {
	if p.MaxOpenConns < 1 {
		return fmt.Errorf("max open connections must be positive, got %d", p.MaxOpenConns)
	}

	if p.MaxIdleConns < 0 || p.MaxIdleConns > p.MaxOpenConns {
		return fmt.Errorf("max idle connections must be within 0-%d, got %d", p.MaxOpenConns, p.MaxIdleConns)
	}

	return nil
}

// New opens a pgx-backed pool and verifies it is reachable before returning.
func New(ctx context.Context, connStr string, pool Pool) (*sql.DB, error) {
	if err := pool.validate(); err != nil {
		return nil, fmt.Errorf("invalid pool settings: %w", err)
	}

	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxLifetime(pool.ConnMaxLifetime)

	if pool.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, pool.ConnectTimeout)
		defer cancel()
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}
