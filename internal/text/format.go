// internal/text/format.go
package text

import (
	"strings"
	"unicode/utf8"
)

// Discord rejects messages and embeds that exceed these sizes.
const (
	MaxMessageLen          = 2000
	MaxEmbedDescriptionLen = 4096
	MaxEmbedFieldValueLen  = 1024
	MaxEmbedTitleLen       = 256
)

const ellipsis = "..."

// Truncate shortens s to at most n runes.  When s is longer, the result
// ends with "..." and still fits in n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	if n <= len(ellipsis) {
		return string([]rune(s)[:n])
	}
	return string([]rune(s)[:n-len(ellipsis)]) + ellipsis
}

// OrDefault returns def when s is empty or whitespace-only.
func OrDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// Bold wraps s in Discord markdown bold markers.
func Bold(s string) string {
	return "**" + s + "**"
}

// Link renders a masked markdown link, or the bare label when url is empty.
func Link(label, url string) string {
	if url == "" {
		return label
	}
	return "[" + label + "](" + url + ")"
}

// JoinLines joins lines with newlines, keeping only the whole lines that
// fit in n runes, and reports whether any were dropped.  A first line
// longer than n is truncated so the result is never empty.
func JoinLines(lines []string, n int) (string, bool) {
	var b strings.Builder
	size := 0
	for i, l := range lines {
		need := utf8.RuneCountInString(l)
		if i > 0 {
			need++
		}
		if size+need > n {
			if i == 0 {
				return Truncate(l, n), true
			}
			return b.String(), true
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(l)
		size += need
	}
	return b.String(), false
}
