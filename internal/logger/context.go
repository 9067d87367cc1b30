package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within a context.
type LogFields struct {
	TicketKey *string // Jira issue key (e.g. "ABC-123")
	EventType *string // Jira webhook event (e.g. "jira:issue_updated")
	JobID     *int64  // Notification job id
	Command   *string // Chat command name (e.g. "ver")
	UserID    *string // Discord user that invoked a command
	Component string  // Component name (e.g. "bot.notify.worker")
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-nil/non-empty values taking precedence.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	existing := GetLogFields(ctx)
	merged := mergeFields(existing, fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
// Returns empty LogFields if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, new LogFields) LogFields {
	result := existing

	if new.TicketKey != nil {
		result.TicketKey = new.TicketKey
	}
	if new.EventType != nil {
		result.EventType = new.EventType
	}
	if new.JobID != nil {
		result.JobID = new.JobID
	}
	if new.Command != nil {
		result.Command = new.Command
	}
	if new.UserID != nil {
		result.UserID = new.UserID
	}
	if new.Component != "" {
		result.Component = new.Component
	}

	return result
}

// Ptr is a helper to create a pointer from a value.
// Useful for setting LogFields inline: logger.WithLogFields(ctx, logger.LogFields{TicketKey: logger.Ptr(key)})
func Ptr[T any](v T) *T {
	return &v
}

// Truncate truncates a string to maxLen bytes, appending "..." if truncated.
// Useful for logging potentially long strings like payload bodies.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
