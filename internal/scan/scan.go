package scan

import (
	"os"
	"path/filepath"
	"strings"
)

// Occurrence is one @<tag>(...) match found in a source file. The raw
// parameter text is everything between the opening and closing parenthesis,
// with quotes and escapes preserved.
type Occurrence struct {
	SourceFile string
	Line       int
	TagName    string
	RawParams  string
}

// File reads path and scans it for occurrences of the named tag. The
// occurrence source file is always the absolute path so identities derived
// from it survive invocation from different working directories.
func File(path, tagName string) ([]Occurrence, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, err
	}
	return Text(string(data), abs, tagName), nil
}

// Text scans a full document line by line and returns every occurrence of
// @<tagName>(...) in source order. Lines are numbered from 1.
func Text(text, sourceFile, tagName string) []Occurrence {
	var occurrences []Occurrence
	for idx, line := range strings.Split(text, "\n") {
		for _, raw := range scanLine(line, tagName) {
			occurrences = append(occurrences, Occurrence{
				SourceFile: sourceFile,
				Line:       idx + 1,
				TagName:    tagName,
				RawParams:  raw,
			})
		}
	}
	return occurrences
}

// scanLine extracts the raw parameter text of every @<tagName>(...) on one
// line. A plain regexp is not enough here: parameter values may contain
// literal parentheses and commas inside double quotes, so the walk tracks
// quote state, a backslash escape flag, and parenthesis depth. A tag whose
// closing parenthesis never arrives before end of line is dropped.
func scanLine(line, tagName string) []string {
	opener := "@" + tagName + "("
	var results []string

	i := 0
	for i < len(line) {
		start := strings.Index(line[i:], opener)
		if start == -1 {
			break
		}
		j := i + start + len(opener)

		depth := 1
		inQuotes := false
		escape := false
		closed := false
		var buf strings.Builder

		for j < len(line) {
			ch := line[j]
			if escape {
				buf.WriteByte(ch)
				escape = false
				j++
				continue
			}
			switch {
			case ch == '\\':
				escape = true
				buf.WriteByte(ch)
			case ch == '"':
				inQuotes = !inQuotes
				buf.WriteByte(ch)
			case ch == '(' && !inQuotes:
				depth++
				buf.WriteByte(ch)
			case ch == ')' && !inQuotes:
				depth--
				if depth == 0 {
					results = append(results, buf.String())
					closed = true
				} else {
					buf.WriteByte(ch)
				}
			default:
				buf.WriteByte(ch)
			}
			j++
			if closed {
				break
			}
		}

		if !closed {
			// Unterminated tag: nothing more on this line can close it.
			break
		}
		i = j
	}
	return results
}
