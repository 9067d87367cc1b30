// internal/webhook/event.go
package webhook

// Kind tags a WebhookEvent.  The string values double as the wire form
// used by the Redis transport.
type Kind string

const (
	KindCreated            Kind = "created"
	KindUpdated            Kind = "updated"
	KindCommented          Kind = "commented"
	KindAssigned           Kind = "assigned"
	KindDescriptionUpdated Kind = "description_updated"
	KindSummaryUpdated     Kind = "summary_updated"
	KindPriorityUpdated    Kind = "priority_updated"
	KindAttachmentAdded    Kind = "attachment_added"
	KindDeleted            Kind = "deleted"
	KindUnmapped           Kind = "unmapped"
)

// fieldKinds maps lower-cased changelog field names to the event they
// produce.  Fields not listed produce no event.
var fieldKinds = map[string]Kind{
	"status":      KindUpdated,
	"assignee":    KindAssigned,
	"description": KindDescriptionUpdated,
	"summary":     KindSummaryUpdated,
	"priority":    KindPriorityUpdated,
	"attachment":  KindAttachmentAdded,
}

// KindForField returns the event kind for a changelog field name.
func KindForField(field string) (Kind, bool) {
	k, ok := fieldKinds[lower(field)]
	return k, ok
}

// Event is one notification derived from a webhook payload.  Details are
// ready-to-render markdown lines.
type Event struct {
	Kind      Kind     `json:"kind"`
	TicketKey string   `json:"ticket_key"`
	IsSubtask bool     `json:"is_subtask"`
	Actor     string   `json:"actor"`
	Details   []string `json:"details"`
}
