package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"tagrun/internal/config"
	"tagrun/internal/dispatch"
	"tagrun/internal/tag"
)

type RunTagsInput struct {
	File         string `json:"file" jsonschema:"path to the markdown file to scan"`
	Tag          string `json:"tag" jsonschema:"tag to process: reminder, calendar, or imessage"`
	DryRun       bool   `json:"dry_run,omitempty" jsonschema:"describe actions without performing them"`
	IgnoreLedger bool   `json:"ignore_ledger,omitempty" jsonschema:"dispatch even when the ledger already records an identity"`
	Yes          bool   `json:"yes,omitempty" jsonschema:"required to actually send imessages; without it the imessage tag runs as a dry-run preview"`
}

type RunTagsOutput struct {
	Scanned    int      `json:"scanned"`
	Dispatched int      `json:"dispatched"`
	Skipped    int      `json:"skipped"`
	Errors     []string `json:"errors,omitempty"`
	Preview    string   `json:"preview,omitempty"`
}

type ListLedgerInput struct {
	File string `json:"file,omitempty" jsonschema:"restrict to entries recorded from this source file"`
}

type LedgerEntryOutput struct {
	Identity    string `json:"identity"`
	ID          string `json:"id,omitempty"`
	Message     string `json:"message"`
	At          string `json:"at,omitempty"`
	Destination string `json:"destination,omitempty"`
	SourceFile  string `json:"file"`
	Line        int    `json:"line"`
	LoggedAt    string `json:"logged_at"`
}

type ListLedgerOutput struct {
	Entries []LedgerEntryOutput `json:"entries"`
}

type ResetLedgerInput struct{}

type ResetLedgerOutput struct {
	Reset bool `json:"reset"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "run_tags",
		Description: "Scan a markdown file for directive tags and dispatch the resulting actions",
	}, s.handleRunTags)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_ledger",
		Description: "List recorded dispatches from the idempotency ledger",
	}, s.handleListLedger)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "reset_ledger",
		Description: "Wipe the idempotency ledger so every tag dispatches again",
	}, s.handleResetLedger)
}

func (s *Server) handleRunTags(ctx context.Context, req *sdk.CallToolRequest, input RunTagsInput) (*sdk.CallToolResult, RunTagsOutput, error) {
	if input.File == "" {
		return nil, RunTagsOutput{}, fmt.Errorf("file is required")
	}
	schema, err := schemaForTag(input.Tag)
	if err != nil {
		return nil, RunTagsOutput{}, err
	}

	// Message sends are irreversible, so they stay a preview until the
	// caller opts in, same as the CLI's --yes.
	dryRun := input.DryRun
	if input.Tag == "imessage" && !input.Yes {
		dryRun = true
	}

	var preview strings.Builder
	opts := dispatch.Options{
		DryRun:             dryRun,
		IgnoreLedger:       input.IgnoreLedger,
		Timeout:            time.Duration(s.cfg.Defaults.TimeoutSeconds) * time.Second,
		DefaultDestination: defaultDestinationFor(s.cfg, input.Tag),
		Out:                &preview,
	}

	result, err := dispatch.Run(ctx, input.File, schema, s.led, s.exec, opts, s.log)
	if err != nil {
		return nil, RunTagsOutput{}, err
	}

	out := RunTagsOutput{
		Scanned:    result.Scanned,
		Dispatched: result.Dispatched,
		Skipped:    result.Skipped,
		Preview:    preview.String(),
	}
	for _, e := range result.Errors {
		out.Errors = append(out.Errors, e.Error())
	}
	return nil, out, nil
}

func (s *Server) handleListLedger(ctx context.Context, req *sdk.CallToolRequest, input ListLedgerInput) (*sdk.CallToolResult, ListLedgerOutput, error) {
	entries, err := s.led.Load(ctx)
	if err != nil {
		return nil, ListLedgerOutput{}, err
	}

	out := ListLedgerOutput{Entries: make([]LedgerEntryOutput, 0, len(entries))}
	for _, e := range entries {
		if input.File != "" && e.SourceFile != input.File {
			continue
		}
		out.Entries = append(out.Entries, LedgerEntryOutput{
			Identity:    e.Identity,
			ID:          e.ID,
			Message:     e.Message,
			At:          e.At,
			Destination: e.Destination,
			SourceFile:  e.SourceFile,
			Line:        e.Line,
			LoggedAt:    e.LoggedAt,
		})
	}
	return nil, out, nil
}

func (s *Server) handleResetLedger(ctx context.Context, req *sdk.CallToolRequest, input ResetLedgerInput) (*sdk.CallToolResult, ResetLedgerOutput, error) {
	if err := s.led.Reset(ctx); err != nil {
		return nil, ResetLedgerOutput{}, err
	}
	return nil, ResetLedgerOutput{Reset: true}, nil
}

func schemaForTag(name string) (tag.Schema, error) {
	switch name {
	case "reminder":
		return tag.ReminderSchema, nil
	case "calendar":
		return tag.CalendarSchema, nil
	case "imessage":
		return tag.IMessageSchema, nil
	}
	return tag.Schema{}, fmt.Errorf("unknown tag %q (expected reminder, calendar, or imessage)", name)
}

func defaultDestinationFor(cfg *config.Config, tagName string) string {
	switch tagName {
	case "reminder":
		return cfg.Defaults.List
	case "calendar":
		return cfg.Defaults.Calendar
	}
	return ""
}
