package action

import "strings"

// FirstStep infers the smallest concrete step for a task title, preferring
// minimal activation-energy actions. The optional note is consulted only as
// a context pointer to open.
func FirstStep(title, note string) string {
	t := strings.ToLower(title)

	if containsAny(t, "focus block", "draft", "write", "outline", "edit") {
		return "Open the task file and write the first sentence."
	}
	if (strings.Contains(t, "linkedin") || strings.Contains(t, "twitter") || strings.Contains(t, "x.com")) &&
		containsAny(t, "post", "publish", "tweet") {
		return "Open LinkedIn compose and paste your draft text."
	}
	if containsAny(t, "sign up", "signup", "register", "rsvp") {
		return "Open the signup link (or message the coordinator for it) and pick the first available slot."
	}
	if strings.Contains(t, "follow up") || strings.Contains(t, "follow-up") {
		return "Open the thread and type a one-sentence nudge; send."
	}
	if containsAny(t, "schedule", "book", "set up meeting", "calendar") {
		return "Open your calendar and propose two times."
	}
	if containsAny(t, "pay", "invoice", "send payment", "venmo", "wire", "transfer") {
		return "Open your payment app and search the recipient."
	}
	if containsAny(t, "review", "proofread", "skim") {
		return "Open the doc and read the first screen; add one comment."
	}
	if note != "" && (strings.Contains(note, "/") || hasDocSuffix(note)) {
		return "Open " + note + "."
	}
	return "Start a 2-minute timer and take the tiniest next step."
}

// DescriptiveBody is the human-readable prompt placed in a reminder body or
// event description: the inferred first step, then the task itself.
func DescriptiveBody(title, note string) string {
	firstStep := FirstStep(title, note)
	joiner := ". "
	if strings.HasSuffix(firstStep, ".") {
		joiner = " "
	}
	return firstStep + joiner + "Then: " + title + "."
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func hasDocSuffix(note string) bool {
	for _, suffix := range []string{".md", ".txt", ".docx", ".rtf"} {
		if strings.HasSuffix(note, suffix) {
			return true
		}
	}
	return false
}
