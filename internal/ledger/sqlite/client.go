package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tagrun/internal/ledger"

	_ "modernc.org/sqlite"
)

var _ ledger.Ledger = (*Client)(nil)

// Client is the sqlite ledger backend. Suited to a ledger shared by several
// tag files on one machine, where a single JSON file would get unwieldy.
type Client struct {
	db *sql.DB
}

func New(ctx context.Context, dsn string) (*Client, error) {
	driverDSN, err := parseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing sqlite DSN: %w", err)
	}

	db, err := sql.Open("sqlite", driverDSN)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA busy_timeout = 30000;",
		"PRAGMA journal_mode = WAL;",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", pragma, err)
		}
	}

	client := &Client{db: db}
	if err := client.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return client, nil
}

func (c *Client) ensureSchema(ctx context.Context) error {
	ddl := `
	CREATE TABLE IF NOT EXISTS dispatches (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		identity    TEXT NOT NULL,
		explicit_id TEXT DEFAULT '',
		message     TEXT NOT NULL,
		at          TEXT DEFAULT '',
		destination TEXT DEFAULT '',
		note        TEXT DEFAULT '',
		source_file TEXT DEFAULT '',
		line        INTEGER DEFAULT 0,
		run_id      TEXT DEFAULT '',
		logged_at   TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_dispatches_identity ON dispatches (identity);
	CREATE INDEX IF NOT EXISTS idx_dispatches_source_file ON dispatches (source_file);
	`
	if _, err := c.db.ExecContext(ctx, ddl); err != nil {
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
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		// A broken store is an empty ledger, never a fatal run error.
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
	if err := rows.Err(); err != nil {
		return nil, nil
	}
	return entries, nil
}

func (c *Client) Record(ctx context.Context, e ledger.Entry) error {
	query := `
	INSERT INTO dispatches (identity, explicit_id, message, at, destination, note, source_file, line, run_id, logged_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := c.db.ExecContext(ctx, query,
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
	if _, err := c.db.ExecContext(ctx, "DELETE FROM dispatches"); err != nil {
		return fmt.Errorf("resetting ledger: %w", err)
	}
	return nil
}

func (c *Client) Close(ctx context.Context) error {
	return c.db.Close()
}
