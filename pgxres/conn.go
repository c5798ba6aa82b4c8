// Package pgxres pools PostgreSQL connections with respool.
package pgxres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yuku/respool"
)

// Conn is a pooled PostgreSQL connection. It implements respool.Resetter and
// respool.Closer.
type Conn struct {
	*pgx.Conn
}

var (
	_ respool.Resetter = (*Conn)(nil)
	_ respool.Closer   = (*Conn)(nil)
)

// Reset rolls back any open transaction and restores session settings, so the
// next holder gets a clean session.
func (c *Conn) Reset(ctx context.Context) error {
	if c.IsClosed() {
		return fmt.Errorf("connection is closed")
	}
	if c.PgConn().TxStatus() != 'I' {
		if _, err := c.Exec(ctx, "ROLLBACK"); err != nil {
			return fmt.Errorf("failed to roll back: %w", err)
		}
	}
	if _, err := c.Exec(ctx, "RESET ALL"); err != nil {
		return fmt.Errorf("failed to reset session: %w", err)
	}
	return nil
}

// Factory returns a respool.Factory opening one connection per index with
// connConfig. Each connection reports application_name respool-<index>.
func Factory(connConfig *pgx.ConnConfig) respool.Factory[*Conn] {
	return func(ctx context.Context, index int) (*Conn, error) {
		config := connConfig.Copy()
		config.RuntimeParams["application_name"] = fmt.Sprintf("respool-%d", index)

		conn, err := pgx.ConnectConfig(ctx, config)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := conn.Ping(ctx); err != nil {
			_ = conn.Close(ctx)
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		return &Conn{Conn: conn}, nil
	}
}

// NewPool opens capacity connections to the database at connString and pools
// them.
func NewPool(ctx context.Context, connString string, capacity int, opts ...respool.Option) (*respool.Pool[*Conn], error) {
	connConfig, err := pgx.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	return respool.New(ctx, capacity, Factory(connConfig), opts...)
}
