package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"tagrun/internal/ledger"
)

var _ ledger.Ledger = (*Client)(nil)

// Client is the postgres ledger backend, for setups where several machines
// dispatch against one shared ledger.
type Client struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, dsn string) (*Client, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	client := &Client{pool: pool}
	if err := client.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return client, nil
}

func (c *Client) ensureSchema(ctx context.Context) error {
	ddl := `
	CREATE TABLE IF NOT EXISTS dispatches (
		id          BIGSERIAL PRIMARY KEY,
		identity    TEXT NOT NULL,
		explicit_id TEXT NOT NULL DEFAULT '',
		message     TEXT NOT NULL,
		at          TEXT NOT NULL DEFAULT '',
		destination TEXT NOT NULL DEFAULT '',
		note        TEXT NOT NULL DEFAULT '',
		source_file TEXT NOT NULL DEFAULT '',
		line        INTEGER NOT NULL DEFAULT 0,
		run_id      TEXT NOT NULL DEFAULT '',
		logged_at   TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_dispatches_identity ON dispatches (identity);
	`
	if _, err := c.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensuring ledger schema: %w", err)
	}
	return nil
}

func (c *Client) Load(ctx context.Context) ([]ledger.Entry, error) {
	query := `
	SELECT identity, explicit_id, message, at, destination, note, source_file, line, run_id, logged_at
	FROM dispatches
	ORDER BY id
	`
	rows, err := c.pool.Query(ctx, query)
	if err != nil {
		return nil, nil
	}
	defer rows.Close()

	var entries []ledger.Entry
	for rows.Next() {
		var e ledger.Entry
		if err := rows.Scan(
			&e.Identity,
			&e.ID,
			&e.Message,
			&e.At,
			&e.Destination,
			&e.Note,
			&e.SourceFile,
			&e.Line,
			&e.RunID,
			&e.LoggedAt,
		); err != nil {
			return nil, nil
		}
		entries = append(entries, e)
	}
	if rows.Err() != nil {
		return nil, nil
	}
	return entries, nil
}

func (c *Client) Record(ctx context.Context, e ledger.Entry) error {
	query := `
	INSERT INTO dispatches (identity, explicit_id, message, at, destination, note, source_file, line, run_id, logged_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := c.pool.Exec(ctx, query,
		e.Identity,
		e.ID,
		e.Message,
		e.At,
		e.Destination,
		e.Note,
		e.SourceFile,
		e.Line,
		e.RunID,
		e.LoggedAt,
	)
	if err != nil {
		return fmt.Errorf("recording dispatch: %w", err)
	}
	return nil
}

func (c *Client) Reset(ctx context.Context) error {
	if _, err := c.pool.Exec(ctx, "DELETE FROM dispatches"); err != nil {
		return fmt.Errorf("resetting ledger: %w", err)
	}
	return nil
}

func (c *Client) Close(ctx context.Context) error {
	c.pool.Close()
	return nil
}
