// internal/jira/adf.go
package jira

import (
	"errors"
	"log/slog"
	"strings"
)

// Placeholder holds the strings used when a rich-text value cannot be
// shown: Empty for documents without text, Malformed for documents whose
// shape is not Atlassian Document Format.
type Placeholder struct {
	Empty     string
	Malformed string
}

var (
	DescriptionText = Placeholder{Empty: NoDescription, Malformed: "Error al parsear la descripción estructurada."}
	CommentText     = Placeholder{Empty: NoContent, Malformed: NoContent}
)

var errMalformedADF = errors.New("malformed adf document")

// FlattenText converts a description or comment body into plain text.
//
// Atlassian Document Format (ADF) documents are flattened by concatenating
// the text runs of every top-level paragraph, one line per paragraph;
// other block types are skipped; a document without content has no
// text.  Plain strings are returned unchanged.
// Empty results and nil map to p.Empty; structural anomalies are logged
// and map to p.Malformed.
func FlattenText(v any, p Placeholder) string {
	switch doc := v.(type) {
	case string:
		if strings.TrimSpace(doc) == "" {
			return p.Empty
		}
		return doc
	case map[string]any:
		out, err := flattenADF(doc)
		if err != nil {
			slog.Warn("could not flatten rich text", "error", err)
			return p.Malformed
		}
		if out == "" {
			return p.Empty
		}
		return out
	case nil:
		return p.Empty
	default:
		slog.Warn("unexpected rich text value", "type", typeName(v))
		return p.Malformed
	}
}

func flattenADF(doc map[string]any) (string, error) {
	raw := doc["content"]
	if raw == nil {
		return "", nil
	}
	blocks, ok := raw.([]any)
	if !ok {
		return "", errMalformedADF
	}
	var b strings.Builder
	for _, blk := range blocks {
		block, ok := blk.(map[string]any)
		if !ok {
			return "", errMalformedADF
		}
		typ, ok := block["type"].(string)
		if !ok {
			return "", errMalformedADF
		}
		if typ != "paragraph" {
			continue
		}
		runs, err := paragraphText(block)
		if err != nil {
			return "", err
		}
		b.WriteString(runs)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String()), nil
}

func paragraphText(block map[string]any) (string, error) {
	raw, ok := block["content"]
	if !ok || raw == nil {
		return "", nil
	}
	children, ok := raw.([]any)
	if !ok {
		return "", errMalformedADF
	}
	var b strings.Builder
	for _, c := range children {
		child, ok := c.(map[string]any)
		if !ok {
			return "", errMalformedADF
		}
		if child["type"] != "text" {
			continue
		}
		switch t := child["text"].(type) {
		case string:
			b.WriteString(t)
		case nil:
		default:
			return "", errMalformedADF
		}
	}
	return b.String(), nil
}

func typeName(v any) string {
	switch v.(type) {
	case []any:
		return "array"
	case float64:
		return "number"
	case bool:
		return "bool"
	default:
		return "unknown"
	}
}
