package action

import (
	"context"
	"fmt"
	"io"
	"time"
)

// DescribeExecutor writes a one-or-more-line description of each action
// instead of performing it. It backs dry-run output and tests.
type DescribeExecutor struct {
	Out io.Writer
}

var _ Executor = (*DescribeExecutor)(nil)

func (d *DescribeExecutor) Execute(ctx context.Context, a Action) error {
	switch a.Kind {
	case KindEvent:
		fmt.Fprintf(d.Out, "[event] %s @ %s - %s", a.Title, stamp(a.Start), stamp(a.End))
		if a.Destination != "" {
			fmt.Fprintf(d.Out, " calendar=%s", a.Destination)
		}
		fmt.Fprintln(d.Out)
		if a.Location != "" {
			fmt.Fprintf(d.Out, "  location: %s\n", a.Location)
		}
	case KindMessage:
		fmt.Fprintf(d.Out, "[message] to=%s message=%q\n", a.Destination, a.Title)
	default:
		fmt.Fprintf(d.Out, "[reminder] %s @ %s", a.Title, stamp(a.Start))
		if a.Destination != "" {
			fmt.Fprintf(d.Out, " list=%s", a.Destination)
		}
		fmt.Fprintln(d.Out)
		if a.HasPriority || a.HasFlagged {
			fmt.Fprintf(d.Out, "  priority=%d flagged=%t\n", a.Priority, a.Flagged)
		}
	}
	if a.Body != "" {
		fmt.Fprintf(d.Out, "  body: %s\n", firstLine(a.Body))
	}
	return nil
}

func stamp(t time.Time) string {
	return t.Format("2006-01-02T15:04")
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}
