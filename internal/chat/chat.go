// internal/chat/chat.go
package chat

import (
	"context"
	"strings"
)

// Embed colours used by the bot.
const (
	ColorBlue   = 0x0052CC
	ColorGreen  = 0x36B37E
	ColorOrange = 0xFF8B00
	ColorRed    = 0xDE350B
	ColorGrey   = 0x6B778C
)

// Reply is what a command produces.  Exactly one of Content or Embed is
// normally set; Ephemeral replies are only visible to the invoking user
// where the transport supports it.
type Reply struct {
	Content   string
	Embed     *Embed
	Ephemeral bool
}

// Text returns a plain-content Reply.
func Text(s string) Reply {
	return Reply{Content: s}
}

// Embed is a transport-neutral rich card.
type Embed struct {
	Title       string
	URL         string
	Description string
	Color       int
	Fields      []Field
	Footer      string
}

type Field struct {
	Name   string
	Value  string
	Inline bool
}

// Responder delivers replies for one inbound command.  Defer sends the
// immediate "working" acknowledgment; Followup delivers the final result
// after Defer; Respond answers directly without an acknowledgment.
type Responder interface {
	Defer(ctx context.Context) error
	Followup(ctx context.Context, r Reply) error
	Respond(ctx context.Context, r Reply) error
}

// PlainText renders r as markdown text, for transports without embeds.
func PlainText(r Reply) string {
	if r.Embed == nil {
		return r.Content
	}
	e := r.Embed
	var b strings.Builder
	if r.Content != "" {
		b.WriteString(r.Content)
		b.WriteString("\n")
	}
	if e.Title != "" {
		b.WriteString("**" + e.Title + "**")
		if e.URL != "" {
			b.WriteString(" <" + e.URL + ">")
		}
		b.WriteString("\n")
	}
	if e.Description != "" {
		b.WriteString(e.Description)
		b.WriteString("\n")
	}
	for _, f := range e.Fields {
		b.WriteString("**" + f.Name + ":** " + f.Value + "\n")
	}
	if e.Footer != "" {
		b.WriteString("_" + e.Footer + "_\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
