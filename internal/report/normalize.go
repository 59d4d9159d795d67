package report

import "strings"

// NormalizeLabel canonicalizes a label for comparison: lower-cased,
// trimmed, with runs of '-'/'_' and runs of whitespace each collapsed to
// a single space. The result is for matching only, never for display.
func NormalizeLabel(label string) string {
	lowered := strings.ToLower(strings.TrimSpace(label))
	if lowered == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(lowered))
	lastSpace := false
	for _, r := range lowered {
		if r == '-' || r == '_' || r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}
	return strings.TrimSpace(b.String())
}
