// internal/parse/issue_key.go
package parse

import (
	"regexp"
	"strings"
)

// reIssueKey matches a Jira issue key such as ABC-123 anywhere in a string.
var reIssueKey = regexp.MustCompile(`\b([A-Z][A-Z0-9_]+-\d+)\b`)

// reWholeKey matches a string made of exactly one issue key.
var reWholeKey = regexp.MustCompile(`^[A-Z][A-Z0-9_]+-\d+$`)

// ExtractIssueKey finds the first Jira issue key in s and returns it in
// uppercase, or "" when there is none.
func ExtractIssueKey(s string) string {
	m := reIssueKey.FindStringSubmatch(strings.ToUpper(s))
	if len(m) > 1 {
		return m[1]
	}
	return ""
}

// IsIssueKey reports whether s, ignoring case and surrounding space, is a
// single issue key.
func IsIssueKey(s string) bool {
	return reWholeKey.MatchString(strings.ToUpper(strings.TrimSpace(s)))
}
