package tag

import (
	"fmt"
	"strings"
)

// Params is the ordered field set of one tag occurrence. Insertion order is
// kept for round-tripping and diagnostics; lookups go through the map. A
// duplicate key overwrites the earlier value without changing its position.
type Params struct {
	keys   []string
	values map[string]string
}

func NewParams() *Params {
	return &Params{values: make(map[string]string)}
}

func (p *Params) Set(key, value string) {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

func (p *Params) Get(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Lookup returns the value for key or the empty string.
func (p *Params) Lookup(key string) string {
	return p.values[key]
}

func (p *Params) Has(key string) bool {
	_, ok := p.values[key]
	return ok
}

func (p *Params) Len() int {
	return len(p.keys)
}

// Keys returns field names in first-insertion order.
func (p *Params) Keys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// ParseParams converts the raw parameter text of a tag occurrence into a
// Params set. The first segment may be a bare quoted string, which is the
// positional shorthand for message; every other segment must be key=value.
func ParseParams(raw string) (*Params, error) {
	segments := splitTopLevel(raw)
	params := NewParams()
	if len(segments) == 0 {
		return params, nil
	}

	start := 0
	first := segments[0]
	if !strings.Contains(first, "=") && isQuoted(first) {
		params.Set("message", Unquote(first))
		start = 1
	}

	for _, segment := range segments[start:] {
		eq := strings.Index(segment, "=")
		if eq == -1 {
			return nil, fmt.Errorf("invalid parameter segment (expected key=value): %s", segment)
		}
		key := strings.TrimSpace(segment[:eq])
		value := Unquote(strings.TrimSpace(segment[eq+1:]))
		params.Set(key, value)
	}
	return params, nil
}

// splitTopLevel splits on commas outside double quotes. A backslash escapes
// the following character, so an escaped quote does not toggle quote state.
// Segments are trimmed and empty ones dropped.
func splitTopLevel(s string) []string {
	var parts []string
	var buf strings.Builder
	inQuotes := false
	escape := false

	flush := func() {
		part := strings.TrimSpace(buf.String())
		if part != "" {
			parts = append(parts, part)
		}
		buf.Reset()
	}

	for i := 0; i < len(s); i++ {
		ch := s[i]
		if escape {
			buf.WriteByte(ch)
			escape = false
			continue
		}
		switch {
		case ch == '\\':
			escape = true
			buf.WriteByte(ch)
		case ch == '"':
			inQuotes = !inQuotes
			buf.WriteByte(ch)
		case ch == ',' && !inQuotes:
			flush()
		default:
			buf.WriteByte(ch)
		}
	}
	flush()
	return parts
}

func isQuoted(s string) bool {
	s = strings.TrimSpace(s)
	return len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"'
}

// Unquote strips matching double quotes and resolves the escape sequences
// \", \n and \t. Escaped backslashes are resolved last so a literal \\n in
// the source stays a backslash followed by n. Unquoted input is returned
// trimmed and otherwise untouched, so bare tokens stay legal.
func Unquote(s string) string {
	s = strings.TrimSpace(s)
	if !isQuoted(s) {
		return s
	}
	inner := s[1 : len(s)-1]
	inner = strings.ReplaceAll(inner, `\"`, `"`)
	inner = strings.ReplaceAll(inner, `\n`, "\n")
	inner = strings.ReplaceAll(inner, `\t`, "\t")
	inner = strings.ReplaceAll(inner, `\\`, `\`)
	return inner
}

// Quote renders a value as a double-quoted tag parameter, escaping in the
// inverse order of Unquote so the pair round-trips.
func Quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "\t", `\t`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
