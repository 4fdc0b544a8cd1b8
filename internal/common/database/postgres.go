package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"invoice-template-workers/internal/common/config"

	_ "github.com/lib/pq"
)

const (
	connMaxLifetime  = 5 * time.Minute
	tableExistsQuery = `SELECT to_regclass($1) IS NOT NULL`
)

// PostgresClient owns the connection pool shared by the template store and
// the stored profile lookup.
type PostgresClient struct {
	DB *sql.DB
}

func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres %s/%s: %w", cfg.Host, cfg.Database, err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(connMaxLifetime)
	db.SetConnMaxIdleTime(connMaxLifetime)

	return &PostgresClient{DB: db}, nil
}

func (c *PostgresClient) Ping(ctx context.Context) error {
	if err := c.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres ping failed: %w", err)
	}
	return nil
}

// TableExists reports whether table is visible on the search path. The
// worker manager uses it for tables this service reads but does not own.
func (c *PostgresClient) TableExists(ctx context.Context, table string) (bool, error) {
	var exists bool
	if err := c.DB.QueryRowContext(ctx, tableExistsQuery, table).Scan(&exists); err != nil {
		return false, fmt.Errorf("lookup table %s: %w", table, err)
	}
	return exists, nil
}

func (c *PostgresClient) Close() error {
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
