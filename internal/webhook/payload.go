// internal/webhook/payload.go
package webhook

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/R4F405/discord-jira-bot/internal/jira"
)

// NoValue stands in for a missing side of a changelog item.
const NoValue = "N/A"

// Payload is the part of a Jira webhook body the bridge reads.  Objects
// are kept raw and read through the jira value helpers, so unexpected
// shapes degrade to defaults instead of failing the decode.
type Payload struct {
	Event   string
	Issue   map[string]any
	User    map[string]any
	Comment map[string]any
	Items   []ChangeItem
}

// ChangeItem is one entry of changelog.items.  Field keeps Jira's casing;
// From and To hold the display strings or NoValue.
type ChangeItem struct {
	Field string
	From  string
	To    string
}

// ErrNotObject is returned by Decode when the body is valid JSON but not
// an object.
var ErrNotObject = errors.New("webhook body is not a JSON object")

// Decode reads one webhook body.  Only syntactically invalid JSON and
// non-object bodies are errors.
func Decode(r io.Reader) (Payload, error) {
	var raw any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return Payload{}, fmt.Errorf("decode webhook body: %w", err)
	}
	doc, ok := raw.(map[string]any)
	if !ok {
		return Payload{}, ErrNotObject
	}
	return FromMap(doc), nil
}

// FromMap builds a Payload from an already decoded body.
func FromMap(doc map[string]any) Payload {
	p := Payload{
		Event:   jira.String(doc, "webhookEvent", ""),
		Issue:   jira.Object(doc, "issue"),
		User:    jira.Object(doc, "user"),
		Comment: jira.Object(doc, "comment"),
	}
	items, _ := jira.Value(doc, "changelog.items").([]any)
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		p.Items = append(p.Items, ChangeItem{
			Field: jira.String(m, "field", ""),
			From:  jira.String(m, "fromString", NoValue),
			To:    jira.String(m, "toString", NoValue),
		})
	}
	return p
}

// IssueKey returns issue.key or "".
func (p Payload) IssueKey() string {
	return jira.String(p.Issue, "key", "")
}

// IsSubtask reports issue.fields.issuetype.subtask, false when absent.
func (p Payload) IsSubtask() bool {
	return jira.Bool(p.Issue, "fields.issuetype.subtask", false)
}

// Actor is the display name of the user who triggered the delivery.
func (p Payload) Actor() string {
	return jira.String(p.User, "displayName", jira.UnknownUser)
}
