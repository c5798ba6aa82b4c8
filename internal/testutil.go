// Package internal holds helpers shared by the tests of this module.
package internal

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yuku/respool/internal/config"
)

// GetConnConfig returns the configuration of the test database after checking
// that it accepts connections.
func GetConnConfig(ctx context.Context) (*pgx.ConnConfig, error) {
	connConfig, err := pgx.ParseConfig(config.ConnString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	conn, err := pgx.ConnectConfig(ctx, connConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() { _ = conn.Close(ctx) }()

	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return connConfig, nil
}

// MustGetConnConfigOrSkip returns the test database configuration and skips t
// if no database is reachable.
func MustGetConnConfigOrSkip(t *testing.T) *pgx.ConnConfig {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	connConfig, err := GetConnConfig(ctx)
	if err != nil {
		t.Skipf("database not available: %v", err)
	}
	return connConfig
}
