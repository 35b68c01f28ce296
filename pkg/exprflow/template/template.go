// Package template formats strings containing {placeholder} patterns
// from an evaluation context. It backs the catalog's template operation
// and the manager's dependency scanning.
package template

import (
	"strings"

	"github.com/sysmuse/exprflow/pkg/exprflow/value"
)

// Default placeholder delimiters.
const (
	DefaultStart = "{"
	DefaultEnd   = "}"
)

// Format substitutes placeholders delimited by start and end with the
// rendered value of the matching context binding.
//
// Unknown placeholders are kept verbatim (including delimiters) and an
// unmatched opening delimiter is copied through unchanged, so a
// malformed template never fails.
//
// Example:
//
//	ctx.Set("name", value.String("World"))
//	Format("Hello {name}", ctx, "{", "}") // "Hello World"
func Format(tmpl string, ctx *value.Context, start, end string) string {
	if start == "" {
		start = DefaultStart
	}
	if end == "" {
		end = DefaultEnd
	}

	var b strings.Builder
	cursor := 0
	for cursor < len(tmpl) {
		open := strings.Index(tmpl[cursor:], start)
		if open < 0 {
			b.WriteString(tmpl[cursor:])
			break
		}
		open += cursor
		b.WriteString(tmpl[cursor:open])

		closing := strings.Index(tmpl[open+len(start):], end)
		if closing < 0 {
			// Unmatched delimiter, copy the rest through.
			b.WriteString(tmpl[open:])
			break
		}
		closing += open + len(start)

		name := strings.TrimSpace(tmpl[open+len(start) : closing])
		if v, ok := ctx.Get(name); ok {
			b.WriteString(v.Render())
		} else {
			b.WriteString(tmpl[open : closing+len(end)])
		}
		cursor = closing + len(end)
	}
	return b.String()
}

// Placeholders returns the placeholder names found in tmpl using the
// default "{" and "}" delimiters, in order of appearance. Names are
// trimmed; duplicates are preserved.
func Placeholders(tmpl string) []string {
	var names []string
	cursor := 0
	for cursor < len(tmpl) {
		open := strings.Index(tmpl[cursor:], DefaultStart)
		if open < 0 {
			break
		}
		open += cursor
		closing := strings.Index(tmpl[open+1:], DefaultEnd)
		if closing < 0 {
			break
		}
		closing += open + 1
		names = append(names, strings.TrimSpace(tmpl[open+1:closing]))
		cursor = closing + 1
	}
	return names
}
