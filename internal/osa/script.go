package osa

import (
	"fmt"
	"strings"

	"tagrun/internal/action"
)

// AppleScript's date parser wants the long verbose form.
const dateLayout = "Monday, January 02, 2006 at 03:04:05 PM"

// escape prepares a value for inclusion in an AppleScript string literal.
// Backslashes first, then quotes.
func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}

func reminderScript(a action.Action) string {
	props := []string{
		fmt.Sprintf(`name:"%s"`, escape(a.Title)),
		fmt.Sprintf(`remind me date:date "%s"`, a.Start.Format(dateLayout)),
		fmt.Sprintf(`body:"%s"`, escape(a.Body)),
	}
	if a.HasPriority {
		props = append(props, fmt.Sprintf("priority:%d", a.Priority))
	}
	if a.HasFlagged {
		props = append(props, fmt.Sprintf("flagged:%t", a.Flagged))
	}
	propList := strings.Join(props, ", ")

	if a.Destination == "" {
		return fmt.Sprintf(`tell application "Reminders"
    make new reminder with properties {%s}
end tell`, propList)
	}

	list := escape(a.Destination)
	return fmt.Sprintf(`tell application "Reminders"
    try
        tell list "%s"
            make new reminder with properties {%s}
        end tell
    on error
        make new list with properties {name:"%s"}
        tell list "%s"
            make new reminder with properties {%s}
        end tell
    end try
end tell`, list, propList, list, list, propList)
}

func eventScript(a action.Action) string {
	props := []string{
		fmt.Sprintf(`summary:"%s"`, escape(a.Title)),
		fmt.Sprintf(`start date:date "%s"`, a.Start.Format(dateLayout)),
		fmt.Sprintf(`end date:date "%s"`, a.End.Format(dateLayout)),
		fmt.Sprintf(`description:"%s"`, escape(a.Body)),
	}
	if a.Location != "" {
		props = append(props, fmt.Sprintf(`location:"%s"`, escape(a.Location)))
	}
	propList := strings.Join(props, ", ")

	if a.Destination == "" {
		return fmt.Sprintf(`tell application "Calendar"
    make new event at end with properties {%s}
end tell`, propList)
	}

	return fmt.Sprintf(`tell application "Calendar"
    tell calendar "%s"
        make new event at end with properties {%s}
    end tell
end tell`, escape(a.Destination), propList)
}

func messageScript(a action.Action) string {
	return fmt.Sprintf(`set theText to "%s"
set theHandle to "%s"
tell application "Messages"
    set theService to 1st service whose service type = iMessage
    try
        set theBuddy to buddy theHandle of theService
        send theText to theBuddy
    on error
        set theChat to make new text chat with properties {service:theService, participants:{theHandle}}
        send theText to theChat
    end try
end tell`, escape(a.Title), escape(a.Destination))
}
