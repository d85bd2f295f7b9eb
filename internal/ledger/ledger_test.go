package ledger

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tagrun/internal/tag"
)

func paramsFrom(t *testing.T, raw string) *tag.Params {
	t.Helper()
	params, err := tag.ParseParams(raw)
	if err != nil {
		t.Fatalf("parsing params: %v", err)
	}
	return params
}

func TestCompute(t *testing.T) {
	t.Run("explicit id wins and omits the path", func(t *testing.T) {
		params := paramsFrom(t, `message="X", at="+5m", id="draft-li-post"`)
		got := Compute("/home/u/week.md", params)
		if got != "id:draft-li-post" {
			t.Fatalf("unexpected identity: %q", got)
		}
		other := Compute("/somewhere/else.md", params)
		if other != got {
			t.Fatalf("explicit id identity must not depend on path: %q != %q", other, got)
		}
	})

	t.Run("hash fallback is deterministic", func(t *testing.T) {
		params := paramsFrom(t, `message="Call Sam", at="+5m"`)
		first := Compute("/home/u/week.md", params)
		second := Compute("/home/u/week.md", params)
		if first != second {
			t.Fatalf("identity not stable: %q != %q", first, second)
		}
		if !strings.HasPrefix(first, "/home/u/week.md#") {
			t.Fatalf("expected path prefix, got %q", first)
		}
		if len(first) != len("/home/u/week.md#")+12 {
			t.Fatalf("expected 12-char digest, got %q", first)
		}
	})

	t.Run("different messages never collide", func(t *testing.T) {
		a := Compute("/home/u/week.md", paramsFrom(t, `message="Call Sam", at="+5m"`))
		b := Compute("/home/u/week.md", paramsFrom(t, `message="Call Pat", at="+5m"`))
		if a == b {
			t.Fatalf("distinct messages collided: %q", a)
		}
	})

	t.Run("at expression does not affect identity", func(t *testing.T) {
		a := Compute("/home/u/week.md", paramsFrom(t, `message="Call Sam", at="+5m"`))
		b := Compute("/home/u/week.md", paramsFrom(t, `message="Call Sam", at="tomorrow 09:00"`))
		if a != b {
			t.Fatalf("reschedule changed identity: %q != %q", a, b)
		}
	})
}

func TestFromLine(t *testing.T) {
	if got := FromLine("/a/b.md", 7); got != "/a/b.md:7" {
		t.Fatalf("unexpected identity: %q", got)
	}
}

func TestMarker(t *testing.T) {
	if got := Marker("id:x"); got != "@source:id:x" {
		t.Fatalf("unexpected marker: %q", got)
	}
}

func TestFileLedger(t *testing.T) {
	ctx := context.Background()

	t.Run("missing store loads empty", func(t *testing.T) {
		led := NewFileLedger(filepath.Join(t.TempDir(), "ledger.json"))
		entries, err := led.Load(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(entries) != 0 {
			t.Fatalf("expected empty, got %d entries", len(entries))
		}
	})

	t.Run("corrupt store loads empty", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ledger.json")
		if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
			t.Fatalf("writing fixture: %v", err)
		}
		entries, err := NewFileLedger(path).Load(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(entries) != 0 {
			t.Fatalf("expected empty, got %d entries", len(entries))
		}
	})

	t.Run("record appends and load round-trips", func(t *testing.T) {
		led := NewFileLedger(filepath.Join(t.TempDir(), "meta", "ledger.json"))
		first := Entry{Identity: "id:a", Message: "A", SourceFile: "/f.md", Line: 1, LoggedAt: "2025-01-01T10:00:00"}
		second := Entry{Identity: "/f.md#abc123def456", Message: "B", SourceFile: "/f.md", Line: 2, LoggedAt: "2025-01-01T10:00:01"}
		if err := led.Record(ctx, first); err != nil {
			t.Fatalf("recording: %v", err)
		}
		if err := led.Record(ctx, second); err != nil {
			t.Fatalf("recording: %v", err)
		}

		entries, err := led.Load(ctx)
		if err != nil {
			t.Fatalf("loading: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		if entries[0].Identity != "id:a" || entries[1].Message != "B" {
			t.Fatalf("unexpected entries: %#v", entries)
		}
	})

	t.Run("reset wipes the store", func(t *testing.T) {
		led := NewFileLedger(filepath.Join(t.TempDir(), "ledger.json"))
		if err := led.Record(ctx, Entry{Identity: "id:a", Message: "A", LoggedAt: "now"}); err != nil {
			t.Fatalf("recording: %v", err)
		}
		if err := led.Reset(ctx); err != nil {
			t.Fatalf("resetting: %v", err)
		}
		entries, err := led.Load(ctx)
		if err != nil {
			t.Fatalf("loading: %v", err)
		}
		if len(entries) != 0 {
			t.Fatalf("expected empty after reset, got %d", len(entries))
		}
	})

	t.Run("reset of missing store is not an error", func(t *testing.T) {
		led := NewFileLedger(filepath.Join(t.TempDir(), "ledger.json"))
		if err := led.Reset(ctx); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})
}

func TestIdentities(t *testing.T) {
	set := Identities([]Entry{
		{Identity: "id:a"},
		{Identity: ""},
		{Identity: "id:a"},
		{Identity: "/f.md#deadbeef0000"},
	})
	if len(set) != 2 {
		t.Fatalf("expected 2 identities, got %d", len(set))
	}
	if _, ok := set["id:a"]; !ok {
		t.Fatalf("missing id:a")
	}
}
