package action

import (
	"strings"
	"testing"
)

func TestFirstStep(t *testing.T) {
	cases := []struct {
		name  string
		title string
		note  string
		want  string
	}{
		{"writing task", "Draft Q3 planning doc", "", "Open the task file and write the first sentence."},
		{"focus block", "Focus block: write PRD", "", "Open the task file and write the first sentence."},
		{"social post", "Publish LinkedIn post about launch", "", "Open LinkedIn compose and paste your draft text."},
		{"signup", "Sign up for the climbing gym", "", "Open the signup link (or message the coordinator for it) and pick the first available slot."},
		{"follow up", "Follow up with Sam re: budget", "", "Open the thread and type a one-sentence nudge; send."},
		{"scheduling", "Schedule dentist appointment", "", "Open your calendar and propose two times."},
		{"payment", "Pay the Q2 invoice", "", "Open your payment app and search the recipient."},
		{"review", "Review onboarding doc", "", "Open the doc and read the first screen; add one comment."},
		{"note path fallback", "Mystery task", "notes/launch.md", "Open notes/launch.md."},
		{"generic fallback", "Mystery task", "", "Start a 2-minute timer and take the tiniest next step."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FirstStep(tc.title, tc.note); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}

	t.Run("case insensitive on title", func(t *testing.T) {
		if got := FirstStep("DRAFT the memo", ""); got != "Open the task file and write the first sentence." {
			t.Fatalf("unexpected step: %q", got)
		}
	})
}

func TestDescriptiveBody(t *testing.T) {
	body := DescriptiveBody("Draft Q3 planning doc", "")
	if !strings.HasPrefix(body, "Open the task file and write the first sentence.") {
		t.Fatalf("body missing first step: %q", body)
	}
	if !strings.HasSuffix(body, "Then: Draft Q3 planning doc.") {
		t.Fatalf("body missing task: %q", body)
	}
	if strings.Contains(body, "..") {
		t.Fatalf("doubled punctuation: %q", body)
	}
}
