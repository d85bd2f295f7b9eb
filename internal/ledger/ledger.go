// Package ledger is the durable record of dispatched actions. Each entry is
// keyed by an action identity; a loaded ledger gates re-dispatch so that
// re-running a file never duplicates a side effect.
package ledger

import "context"

// Entry is one recorded dispatch. Times are stored as formatted local
// strings, not time.Time, so every backend serializes them identically.
type Entry struct {
	Identity    string `json:"identity"`
	ID          string `json:"id,omitempty"`
	Message     string `json:"message"`
	At          string `json:"at,omitempty"`
	Destination string `json:"destination,omitempty"`
	Note        string `json:"note,omitempty"`
	SourceFile  string `json:"file"`
	Line        int    `json:"line"`
	RunID       string `json:"run_id,omitempty"`
	LoggedAt    string `json:"logged_at"`
}

// Ledger is the persistence capability injected into the dispatcher.
// Single-writer discipline is assumed; none of the backends take locks.
type Ledger interface {
	// Load returns every recorded entry. A missing or corrupt store loads
	// as empty, never as an error.
	Load(ctx context.Context) ([]Entry, error)

	// Record appends one entry. Called only after a successful dispatch in
	// non-dry-run mode.
	Record(ctx context.Context, e Entry) error

	// Reset wipes the ledger wholesale.
	Reset(ctx context.Context) error

	Close(ctx context.Context) error
}

// Identities collapses loaded entries into the skip-set consulted before
// dispatch. Entries without an identity are ignored.
func Identities(entries []Entry) map[string]struct{} {
	set := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.Identity != "" {
			set[e.Identity] = struct{}{}
		}
	}
	return set
}
