// Package osa executes actions against the macOS automation boundary by
// rendering AppleScript and running it through osascript. It is the only
// part of the system that knows any automation-language syntax.
package osa

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"tagrun/internal/action"
)

// Executor shells out to osascript, one synchronous invocation per action.
// Callers bound each invocation with a context deadline.
type Executor struct {
	log zerolog.Logger
}

var _ action.Executor = (*Executor)(nil)

func New(log zerolog.Logger) *Executor {
	return &Executor{log: log}
}

func (e *Executor) Execute(ctx context.Context, a action.Action) error {
	var script string
	switch a.Kind {
	case action.KindReminder:
		script = reminderScript(a)
	case action.KindEvent:
		script = eventScript(a)
	case action.KindMessage:
		script = messageScript(a)
	default:
		return fmt.Errorf("unknown action kind: %s", a.Kind)
	}
	return e.run(ctx, script)
}

func (e *Executor) run(ctx context.Context, script string) error {
	tmp, err := os.CreateTemp("", "tagrun-*.applescript")
	if err != nil {
		return fmt.Errorf("creating script file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(script); err != nil {
		tmp.Close()
		return fmt.Errorf("writing script file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing script file: %w", err)
	}

	e.log.Debug().Str("script", tmp.Name()).Msg("running osascript")

	cmd := exec.CommandContext(ctx, "osascript", tmp.Name())
	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("osascript timed out")
		}
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return fmt.Errorf("osascript failed: %s", detail)
	}
	return nil
}
