// internal/jira/jql.go
package jira

import (
	"fmt"
	"strings"
)

// MaxResults caps every list search.  A page of exactly MaxResults hits is
// reported as possibly truncated.
const MaxResults = 30

// ListFields are the fields requested for list searches.
var ListFields = []string{"summary", "status"}

// Status sets queried by the list commands.  They match the workflow
// columns of the board the bot was built for.
var (
	StatusesPending    = []string{"BACKLOG", "SELECTED FOR DEVELOPMENT"}
	StatusesInProgress = []string{"En curso"}
	StatusesBlocked    = []string{"BLOCK"}
	StatusesFinished   = []string{"CODE REVIEW", "QA", "Listo"}
)

// AssigneeStatusJQL builds
//
//	assignee = "<user>" AND status IN ("A", "B") ORDER BY updated DESC
//
// Double quotes and backslashes in the user and status names are escaped.
func AssigneeStatusJQL(user string, statuses []string) string {
	quoted := make([]string, 0, len(statuses))
	for _, s := range statuses {
		quoted = append(quoted, quoteJQL(s))
	}
	return fmt.Sprintf("assignee = %s AND status IN (%s) ORDER BY updated DESC",
		quoteJQL(user), strings.Join(quoted, ", "))
}

func quoteJQL(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
