package mcp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"tagrun/internal/action"
	"tagrun/internal/config"
	"tagrun/internal/ledger"
)

type recordingExecutor struct {
	calls []action.Action
}

func (r *recordingExecutor) Execute(ctx context.Context, a action.Action) error {
	r.calls = append(r.calls, a)
	return nil
}

func newTestServer(t *testing.T) (*Server, *recordingExecutor, *ledger.FileLedger) {
	t.Helper()
	cfg := config.Default()
	cfg.Defaults.List = "Inbox"
	led := ledger.NewFileLedger(filepath.Join(t.TempDir(), "ledger.json"))
	exec := &recordingExecutor{}
	return NewServer(cfg, led, exec, "test", zerolog.Nop()), exec, led
}

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "week.md")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestHandleRunTags(t *testing.T) {
	ctx := context.Background()

	t.Run("dispatches and reports counts", func(t *testing.T) {
		srv, exec, led := newTestServer(t)
		path := writeFixture(t, `- @reminder("Call Sam", at="+30m")`)

		_, out, err := srv.handleRunTags(ctx, nil, RunTagsInput{File: path, Tag: "reminder"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if out.Scanned != 1 || out.Dispatched != 1 || out.Skipped != 0 {
			t.Fatalf("unexpected output: %+v", out)
		}
		if len(exec.calls) != 1 {
			t.Fatalf("expected 1 executor call, got %d", len(exec.calls))
		}
		if exec.calls[0].Destination != "Inbox" {
			t.Fatalf("default list not applied: %q", exec.calls[0].Destination)
		}
		entries, _ := led.Load(ctx)
		if len(entries) != 1 {
			t.Fatalf("expected 1 ledger entry, got %d", len(entries))
		}
	})

	t.Run("dry run returns a preview without executing", func(t *testing.T) {
		srv, exec, led := newTestServer(t)
		path := writeFixture(t, `- @reminder("Call Sam", at="+30m")`)

		_, out, err := srv.handleRunTags(ctx, nil, RunTagsInput{File: path, Tag: "reminder", DryRun: true})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(out.Preview, "[reminder] Call Sam") {
			t.Fatalf("missing preview: %q", out.Preview)
		}
		if len(exec.calls) != 0 {
			t.Fatalf("executor must not run in dry run")
		}
		entries, _ := led.Load(ctx)
		if len(entries) != 0 {
			t.Fatalf("dry run must not record")
		}
	})

	t.Run("per-occurrence errors are surfaced as strings", func(t *testing.T) {
		srv, _, _ := newTestServer(t)
		path := writeFixture(t, `@reminder(message="no at here")`)

		_, out, err := srv.handleRunTags(ctx, nil, RunTagsInput{File: path, Tag: "reminder"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(out.Errors) != 1 || !strings.Contains(out.Errors[0], "line 1") {
			t.Fatalf("unexpected errors: %v", out.Errors)
		}
	})

	t.Run("imessage previews unless yes", func(t *testing.T) {
		srv, exec, led := newTestServer(t)
		path := writeFixture(t, `@imessage(to="+14155551234", message="ping")`)

		_, out, err := srv.handleRunTags(ctx, nil, RunTagsInput{File: path, Tag: "imessage"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(exec.calls) != 0 {
			t.Fatalf("message must not send without yes")
		}
		if !strings.Contains(out.Preview, "[message]") {
			t.Fatalf("missing preview: %q", out.Preview)
		}
		entries, _ := led.Load(ctx)
		if len(entries) != 0 {
			t.Fatalf("preview must not record")
		}

		_, out, err = srv.handleRunTags(ctx, nil, RunTagsInput{File: path, Tag: "imessage", Yes: true})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(exec.calls) != 1 || out.Dispatched != 1 {
			t.Fatalf("expected send with yes, got %d calls, %+v", len(exec.calls), out)
		}
	})

	t.Run("file is required", func(t *testing.T) {
		srv, _, _ := newTestServer(t)
		if _, _, err := srv.handleRunTags(ctx, nil, RunTagsInput{Tag: "reminder"}); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("unknown tag is rejected", func(t *testing.T) {
		srv, _, _ := newTestServer(t)
		path := writeFixture(t, "nothing here")
		if _, _, err := srv.handleRunTags(ctx, nil, RunTagsInput{File: path, Tag: "slack"}); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestHandleListLedger(t *testing.T) {
	ctx := context.Background()
	srv, _, led := newTestServer(t)

	seed := []ledger.Entry{
		{Identity: "id:a", Message: "A", SourceFile: "/week.md", Line: 1, LoggedAt: "t0"},
		{Identity: "id:b", Message: "B", SourceFile: "/other.md", Line: 4, LoggedAt: "t1"},
	}
	for _, e := range seed {
		if err := led.Record(ctx, e); err != nil {
			t.Fatalf("seeding ledger: %v", err)
		}
	}

	t.Run("lists everything", func(t *testing.T) {
		_, out, err := srv.handleListLedger(ctx, nil, ListLedgerInput{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(out.Entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(out.Entries))
		}
	})

	t.Run("filters by source file", func(t *testing.T) {
		_, out, err := srv.handleListLedger(ctx, nil, ListLedgerInput{File: "/week.md"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(out.Entries) != 1 || out.Entries[0].Identity != "id:a" {
			t.Fatalf("unexpected entries: %+v", out.Entries)
		}
	})
}

func TestHandleResetLedger(t *testing.T) {
	ctx := context.Background()
	srv, _, led := newTestServer(t)
	if err := led.Record(ctx, ledger.Entry{Identity: "id:a", Message: "A", LoggedAt: "t0"}); err != nil {
		t.Fatalf("seeding ledger: %v", err)
	}

	_, out, err := srv.handleResetLedger(ctx, nil, ResetLedgerInput{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !out.Reset {
		t.Fatalf("expected reset flag")
	}
	entries, _ := led.Load(ctx)
	if len(entries) != 0 {
		t.Fatalf("expected empty ledger, got %d entries", len(entries))
	}
}

func TestSchemaForTag(t *testing.T) {
	for _, name := range []string{"reminder", "calendar", "imessage"} {
		schema, err := schemaForTag(name)
		if err != nil {
			t.Fatalf("expected schema for %q, got %v", name, err)
		}
		if schema.Tag != name {
			t.Fatalf("expected tag %q, got %q", name, schema.Tag)
		}
	}
	if _, err := schemaForTag("email"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestDefaultDestinationFor(t *testing.T) {
	cfg := config.Default()
	cfg.Defaults.List = "Inbox"
	cfg.Defaults.Calendar = "Personal"
	if got := defaultDestinationFor(cfg, "reminder"); got != "Inbox" {
		t.Fatalf("unexpected destination: %q", got)
	}
	if got := defaultDestinationFor(cfg, "calendar"); got != "Personal" {
		t.Fatalf("unexpected destination: %q", got)
	}
	if got := defaultDestinationFor(cfg, "imessage"); got != "" {
		t.Fatalf("unexpected destination: %q", got)
	}
}
