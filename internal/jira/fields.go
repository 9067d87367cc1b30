// internal/jira/fields.go
package jira

import (
	"strings"
	"time"

	"github.com/R4F405/discord-jira-bot/internal/text"
)

// Display defaults used whenever Jira omits a field.
const (
	NoKey         = "SIN-CLAVE"
	NoSummary     = "Sin resumen"
	NoStatus      = "Sin estado"
	NoCreator     = "Sin creador"
	Unassigned    = "Sin asignar"
	NoCreatedDate = "Sin fecha de creación"
	NoDescription = "Sin descripción"
	NoContent     = "Sin contenido"
	UnknownUser   = "Usuario desconocido"

	// DescriptionMaxLen matches Discord's embed field value limit.
	DescriptionMaxLen = text.MaxEmbedFieldValueLen
)

// createdLayouts are the timestamp shapes Jira uses for "created":
// fractional seconds with a numeric offset, with or without a colon.
var createdLayouts = []string{
	"2006-01-02T15:04:05.999999999-0700",
	"2006-01-02T15:04:05.999999999-07:00",
}

const createdDisplayLayout = "02/01/2006 - 15:04:05"

// IssueRecord is the display-ready view of one issue.  Every field holds a
// non-empty value.
type IssueRecord struct {
	Key         string
	Summary     string
	Status      string
	Creator     string
	Assignee    string
	Created     string
	Description string
}

// ExtractIssue builds an IssueRecord from a raw issue document as returned
// by GET /rest/api/3/issue/{key} or by the search endpoint.  It never
// fails: absent or malformed values degrade to the display defaults.
func ExtractIssue(doc map[string]any) IssueRecord {
	return IssueRecord{
		Key:         String(doc, "key", NoKey),
		Summary:     String(doc, "fields.summary", NoSummary),
		Status:      String(doc, "fields.status.name", NoStatus),
		Creator:     String(doc, "fields.creator.displayName", NoCreator),
		Assignee:    String(doc, "fields.assignee.displayName", Unassigned),
		Created:     FormatCreated(String(doc, "fields.created", NoCreatedDate)),
		Description: Description(Value(doc, "fields.description")),
	}
}

// Description renders a description field value for display: ADF documents
// are flattened, plain strings pass through, anything else becomes the
// default.  The result is truncated to DescriptionMaxLen.
func Description(v any) string {
	var s string
	switch v.(type) {
	case map[string]any, string:
		s = FlattenText(v, DescriptionText)
	default:
		s = NoDescription
	}
	return text.Truncate(s, DescriptionMaxLen)
}

// FormatCreated reformats a Jira timestamp as dd/mm/yyyy - HH:MM:SS.
// Unparseable input is returned unchanged.
func FormatCreated(s string) string {
	for _, layout := range createdLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(createdDisplayLayout)
		}
	}
	return s
}

// Value walks doc along a dot-separated path of object keys.  It returns
// nil when any segment is missing, null, or not an object.
func Value(doc any, path string) any {
	cur := doc
	for _, seg := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = m[seg]
		if !ok {
			return nil
		}
	}
	return cur
}

// String returns the string at path, or def when it is absent, not a
// string, or blank.
func String(doc any, path, def string) string {
	s, ok := Value(doc, path).(string)
	if !ok || strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// Bool returns the boolean at path, or def when it is absent or not a bool.
func Bool(doc any, path string, def bool) bool {
	b, ok := Value(doc, path).(bool)
	if !ok {
		return def
	}
	return b
}

// Object returns the object at path, or nil.
func Object(doc any, path string) map[string]any {
	m, _ := Value(doc, path).(map[string]any)
	return m
}
