package jira_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/R4F405/discord-jira-bot/internal/jira"
)

var _ = Describe("FlattenText", func() {
	It("joins paragraph text runs line by line", func() {
		doc := map[string]any{
			"type": "doc",
			"content": []any{
				map[string]any{
					"type": "paragraph",
					"content": []any{
						map[string]any{"type": "text", "text": "Hola "},
						map[string]any{"type": "text", "text": "mundo"},
					},
				},
				map[string]any{"type": "rule"},
				map[string]any{
					"type": "paragraph",
					"content": []any{
						map[string]any{"type": "hardBreak"},
						map[string]any{"type": "text", "text": "adiós"},
					},
				},
			},
		}
		Expect(jira.FlattenText(doc, jira.CommentText)).To(Equal("Hola mundo\nadiós"))
	})

	It("returns the placeholder for a document without text", func() {
		doc := map[string]any{"type": "doc", "content": []any{}}
		Expect(jira.FlattenText(doc, jira.CommentText)).To(Equal("Sin contenido"))
		Expect(jira.FlattenText(doc, jira.DescriptionText)).To(Equal("Sin descripción"))
	})

	It("skips non-paragraph blocks", func() {
		doc := map[string]any{"content": []any{
			map[string]any{"type": "codeBlock", "content": []any{
				map[string]any{"type": "text", "text": "x := 1"},
			}},
		}}
		Expect(jira.FlattenText(doc, jira.CommentText)).To(Equal(jira.NoContent))
	})

	It("returns plain strings unchanged", func() {
		Expect(jira.FlattenText("ya es texto", jira.CommentText)).To(Equal("ya es texto"))
		once := jira.FlattenText("ya es texto", jira.CommentText)
		Expect(jira.FlattenText(once, jira.CommentText)).To(Equal(once))
	})

	It("maps documents without content to the empty placeholder", func() {
		Expect(jira.FlattenText(map[string]any{"type": "doc", "version": float64(1)}, jira.DescriptionText)).To(Equal(jira.NoDescription))
		Expect(jira.FlattenText(map[string]any{"type": "doc", "content": nil}, jira.CommentText)).To(Equal(jira.NoContent))
	})

	It("maps nil to the empty placeholder", func() {
		Expect(jira.FlattenText(nil, jira.DescriptionText)).To(Equal(jira.NoDescription))
	})

	DescribeTable("degrades malformed documents to the fallback",
		func(doc any) {
			Expect(jira.FlattenText(doc, jira.DescriptionText)).To(Equal(jira.DescriptionText.Malformed))
		},
		Entry("content is not a list", map[string]any{"content": "x"}),
		Entry("block is not an object", map[string]any{"content": []any{"x"}}),
		Entry("block without type", map[string]any{"content": []any{map[string]any{}}}),
		Entry("text run is not a string", map[string]any{"content": []any{
			map[string]any{"type": "paragraph", "content": []any{
				map[string]any{"type": "text", "text": float64(3)},
			}},
		}}),
		Entry("unsupported value", []any{"a"}),
	)
})
