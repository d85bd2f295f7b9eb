package main

import (
	"context"
	"fmt"
	"strings"

	"tagrun/internal/config"
	"tagrun/internal/ledger"
	"tagrun/internal/ledger/postgres"
	"tagrun/internal/ledger/sqlite"
)

// openLedger picks the backend from the DSN scheme in the project config.
func openLedger(ctx context.Context, cfg *config.Config) (ledger.Ledger, error) {
	dsn := cfg.Ledger.DSN
	switch {
	case strings.HasPrefix(dsn, "file://"):
		return ledger.NewFileLedger(strings.TrimPrefix(dsn, "file://")), nil
	case strings.HasPrefix(dsn, "sqlite://"):
		return sqlite.New(ctx, dsn)
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return postgres.New(ctx, dsn)
	}
	return nil, fmt.Errorf("unsupported ledger dsn: %s", dsn)
}
