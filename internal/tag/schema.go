package tag

import (
	"fmt"
	"strconv"
	"strings"
)

type FieldType int

const (
	TypeString FieldType = iota
	TypeInt
	TypeBool
	TypeDuration
	TypeAt
)

type Field struct {
	Name     string
	Type     FieldType
	Required bool
}

// Schema declares the fields one tag accepts. Validation checks presence of
// required fields and the lexical shape of typed values; unknown fields are
// allowed and pass through untouched.
type Schema struct {
	Tag    string
	Fields []Field
}

var (
	ReminderSchema = Schema{
		Tag: "reminder",
		Fields: []Field{
			{Name: "message", Type: TypeString, Required: true},
			{Name: "at", Type: TypeAt, Required: true},
			{Name: "list", Type: TypeString},
			{Name: "note", Type: TypeString},
			{Name: "priority", Type: TypeInt},
			{Name: "flagged", Type: TypeBool},
			{Name: "id", Type: TypeString},
		},
	}

	CalendarSchema = Schema{
		Tag: "calendar",
		Fields: []Field{
			{Name: "message", Type: TypeString, Required: true},
			{Name: "at", Type: TypeAt, Required: true},
			{Name: "duration", Type: TypeDuration},
			{Name: "calendar", Type: TypeString},
			{Name: "location", Type: TypeString},
			{Name: "note", Type: TypeString},
			{Name: "id", Type: TypeString},
		},
	}

	IMessageSchema = Schema{
		Tag: "imessage",
		Fields: []Field{
			{Name: "to", Type: TypeString, Required: true},
			{Name: "message", Type: TypeString, Required: true},
		},
	}
)

// Validate reports the first schema violation in the given parameter set.
// Temporal expressions are only checked for presence here; resolving them
// needs a reference instant and stays with the caller.
func (s *Schema) Validate(p *Params) error {
	for _, field := range s.Fields {
		value, ok := p.Get(field.Name)
		if !ok {
			if field.Required {
				return fmt.Errorf("%s: required field %q is missing", s.Tag, field.Name)
			}
			continue
		}
		switch field.Type {
		case TypeInt:
			if _, err := strconv.Atoi(strings.TrimSpace(value)); err != nil {
				return fmt.Errorf("%s: field %q must be an integer, got %q", s.Tag, field.Name, value)
			}
		case TypeBool:
			if _, err := ParseBool(value); err != nil {
				return fmt.Errorf("%s: field %q: %w", s.Tag, field.Name, err)
			}
		}
	}
	return nil
}

// ParseBool accepts true|yes|1 and false|no|0, case-insensitive.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1":
		return true, nil
	case "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean value: %s", s)
}
