// Package dispatch drives the per-file run: scan occurrences, parse and
// resolve each one, consult the ledger, hand actions to the executor, and
// record outcomes. Occurrences are processed strictly in source order with
// per-occurrence failure isolation.
package dispatch

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tagrun/internal/action"
	"tagrun/internal/ledger"
	"tagrun/internal/scan"
	"tagrun/internal/tag"
)

type Options struct {
	DryRun       bool
	IgnoreLedger bool
	ResetLedger  bool
	Timeout      time.Duration

	// DefaultDestination fills in the list or calendar name when the tag
	// leaves it out. Comes from the project config.
	DefaultDestination string

	// Now is the reference instant for temporal resolution. Zero means the
	// wall clock at the start of the run.
	Now time.Time

	// Out receives dry-run action descriptions. Defaults to stdout.
	Out io.Writer
}

type Result struct {
	Scanned    int
	Dispatched int
	Skipped    int
	Errors     []error
}

type outcome int

const (
	outcomeDispatched outcome = iota
	outcomeSkipped
)

// Run processes one file against one tag schema. Per-occurrence failures
// are collected into the result; only an unreadable file or a failing
// ledger operation is fatal.
func Run(ctx context.Context, path string, schema tag.Schema, led ledger.Ledger, exec action.Executor, opts Options, log zerolog.Logger) (*Result, error) {
	occurrences, err := scan.File(path, schema.Tag)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	result := &Result{Scanned: len(occurrences)}
	if len(occurrences) == 0 {
		log.Debug().Str("file", path).Str("tag", schema.Tag).Msg("no tags found")
		return result, nil
	}

	// A reset empties the skip-set for this run either way; the store itself
	// is only wiped outside dry-run.
	recorded := map[string]struct{}{}
	if opts.ResetLedger {
		if !opts.DryRun {
			if err := led.Reset(ctx); err != nil {
				return nil, fmt.Errorf("resetting ledger: %w", err)
			}
			log.Info().Msg("ledger reset")
		}
	} else {
		entries, err := led.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading ledger: %w", err)
		}
		recorded = ledger.Identities(entries)
	}

	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	runID := uuid.NewString()

	for _, occ := range occurrences {
		out, err := processOccurrence(ctx, occ, schema, led, exec, recorded, runID, opts, log)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("line %d: %w", occ.Line, err))
			continue
		}
		if out == outcomeSkipped {
			result.Skipped++
		} else {
			result.Dispatched++
		}
	}
	return result, nil
}

func processOccurrence(
	ctx context.Context,
	occ scan.Occurrence,
	schema tag.Schema,
	led ledger.Ledger,
	exec action.Executor,
	recorded map[string]struct{},
	runID string,
	opts Options,
	log zerolog.Logger,
) (outcome, error) {
	params, err := tag.ParseParams(occ.RawParams)
	if err != nil {
		return outcomeSkipped, err
	}
	if err := schema.Validate(params); err != nil {
		return outcomeSkipped, err
	}

	identity := computeIdentity(occ, schema, params)
	if !opts.IgnoreLedger && gatesOnLedger(schema, params) {
		if _, ok := recorded[identity]; ok {
			log.Info().Str("identity", identity).Msg("already dispatched, skipping")
			return outcomeSkipped, nil
		}
	}

	a, err := buildAction(schema, params, opts.Now, identity)
	if err != nil {
		return outcomeSkipped, err
	}
	if a.Destination == "" && schema.Tag != "imessage" {
		a.Destination = opts.DefaultDestination
	}

	if opts.DryRun {
		describe := &action.DescribeExecutor{Out: opts.Out}
		if err := describe.Execute(ctx, a); err != nil {
			return outcomeSkipped, err
		}
		return outcomeDispatched, nil
	}

	execCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	if err := exec.Execute(execCtx, a); err != nil {
		return outcomeSkipped, err
	}

	entry := ledger.Entry{
		Identity:    identity,
		ID:          params.Lookup("id"),
		Message:     params.Lookup("message"),
		At:          a.Start.Format("2006-01-02T15:04"),
		Destination: a.Destination,
		Note:        params.Lookup("note"),
		SourceFile:  occ.SourceFile,
		Line:        occ.Line,
		RunID:       runID,
		LoggedAt:    time.Now().Format("2006-01-02T15:04:05"),
	}
	if err := led.Record(ctx, entry); err != nil {
		return outcomeDispatched, fmt.Errorf("recording dispatch: %w", err)
	}
	log.Info().Str("identity", identity).Str("title", a.Title).Msg("dispatched")
	return outcomeDispatched, nil
}

// computeIdentity picks the identity variant per tag kind: message sends
// are position-based (the same text to the same person on two lines is two
// sends); everything else uses the stable explicit-id-or-hash identity.
func computeIdentity(occ scan.Occurrence, schema tag.Schema, params *tag.Params) string {
	if schema.Tag == "imessage" {
		return ledger.FromLine(occ.SourceFile, occ.Line)
	}
	return ledger.Compute(occ.SourceFile, params)
}

// gatesOnLedger reports whether the recorded-set should prevent a new
// dispatch. Explicit ids always gate. Message sends gate on their
// positional identity. Hash-fallback identities for reminders and events
// are informational only: re-dispatching them is the destination-side
// update path.
func gatesOnLedger(schema tag.Schema, params *tag.Params) bool {
	if schema.Tag == "imessage" {
		return true
	}
	return params.Lookup("id") != ""
}
