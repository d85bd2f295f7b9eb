// Package action defines the fully resolved unit of work handed to an
// executor, and the executor capability itself. The core never builds
// automation-language source text; that stays behind the Executor boundary.
package action

import (
	"context"
	"time"
)

type Kind string

const (
	KindReminder Kind = "reminder"
	KindEvent    Kind = "event"
	KindMessage  Kind = "message"
)

// Action carries everything an executor needs. Body already contains the
// embedded identity marker, so the identity is recoverable from the
// destination system for manual audit; the ledger stays authoritative.
type Action struct {
	Kind        Kind
	Title       string
	Body        string
	Start       time.Time
	End         time.Time
	Destination string
	Location    string
	Priority    int
	Flagged     bool
	HasPriority bool
	HasFlagged  bool
}

// Executor performs the external side effect. Implementations are serial
// and stateful automation boundaries; callers impose their timeout through
// ctx and never invoke an executor concurrently.
type Executor interface {
	Execute(ctx context.Context, a Action) error
}
