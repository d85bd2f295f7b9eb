package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileLedger persists entries as a single JSON array. The file is read in
// full at load and rewritten in full on every append; expected volumes are
// tens to low hundreds of entries, so simplicity wins over performance.
type FileLedger struct {
	path string
}

var _ Ledger = (*FileLedger)(nil)

func NewFileLedger(path string) *FileLedger {
	return &FileLedger{path: path}
}

func (l *FileLedger) Path() string {
	return l.path
}

func (l *FileLedger) Load(ctx context.Context) ([]Entry, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		// Missing store means no history yet.
		return nil, nil
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		// Corrupt store is treated as empty rather than failing the run.
		return nil, nil
	}
	return entries, nil
}

func (l *FileLedger) Record(ctx context.Context, e Entry) error {
	entries, err := l.Load(ctx)
	if err != nil {
		return err
	}
	entries = append(entries, e)
	return l.save(entries)
}

func (l *FileLedger) Reset(ctx context.Context) error {
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("resetting ledger: %w", err)
	}
	return nil
}

func (l *FileLedger) Close(ctx context.Context) error {
	return nil
}

func (l *FileLedger) save(entries []Entry) error {
	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating ledger directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding ledger: %w", err)
	}
	if err := os.WriteFile(l.path, data, 0o644); err != nil {
		return fmt.Errorf("writing ledger: %w", err)
	}
	return nil
}
