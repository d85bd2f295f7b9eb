package dispatch

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"tagrun/internal/action"
	"tagrun/internal/ledger"
	"tagrun/internal/tag"
	"tagrun/internal/when"
)

// buildAction assembles the fully resolved action for one occurrence. The
// identity marker is embedded in the body here, so executors never need to
// know how identities are derived.
func buildAction(schema tag.Schema, params *tag.Params, now time.Time, identity string) (action.Action, error) {
	switch schema.Tag {
	case "reminder":
		return buildReminder(params, now, identity)
	case "calendar":
		return buildEvent(params, now, identity)
	case "imessage":
		return buildMessage(params)
	}
	return action.Action{}, fmt.Errorf("no action builder for tag %q", schema.Tag)
}

func buildReminder(params *tag.Params, now time.Time, identity string) (action.Action, error) {
	title := params.Lookup("message")
	due, err := when.ParseAt(params.Lookup("at"), now)
	if err != nil {
		return action.Action{}, err
	}

	a := action.Action{
		Kind:        action.KindReminder,
		Title:       title,
		Start:       due,
		Destination: params.Lookup("list"),
		Body:        withMarker(action.DescriptiveBody(title, params.Lookup("note")), identity),
	}
	if raw, ok := params.Get("priority"); ok {
		priority, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return action.Action{}, fmt.Errorf("invalid priority: %s", raw)
		}
		a.Priority = priority
		a.HasPriority = true
	}
	if raw, ok := params.Get("flagged"); ok {
		flagged, err := tag.ParseBool(raw)
		if err != nil {
			return action.Action{}, err
		}
		a.Flagged = flagged
		a.HasFlagged = true
	}
	return a, nil
}

func buildEvent(params *tag.Params, now time.Time, identity string) (action.Action, error) {
	title := params.Lookup("message")
	start, err := when.ParseAt(params.Lookup("at"), now)
	if err != nil {
		return action.Action{}, err
	}
	duration, err := when.ParseDuration(params.Lookup("duration"))
	if err != nil {
		return action.Action{}, err
	}

	return action.Action{
		Kind:        action.KindEvent,
		Title:       title,
		Start:       start,
		End:         start.Add(duration),
		Destination: params.Lookup("calendar"),
		Location:    params.Lookup("location"),
		Body:        withMarker(action.DescriptiveBody(title, params.Lookup("note")), identity),
	}, nil
}

func buildMessage(params *tag.Params) (action.Action, error) {
	return action.Action{
		Kind:        action.KindMessage,
		Title:       params.Lookup("message"),
		Destination: params.Lookup("to"),
	}, nil
}

func withMarker(body, identity string) string {
	marker := ledger.Marker(identity)
	if body == "" {
		return marker
	}
	return body + "\n" + marker
}
