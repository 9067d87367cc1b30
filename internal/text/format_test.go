package text_test

import (
	"strings"
	"unicode/utf8"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/R4F405/discord-jira-bot/internal/text"
)

var _ = Describe("Truncate", func() {
	It("keeps short strings", func() {
		Expect(text.Truncate("hola", 10)).To(Equal("hola"))
	})

	It("ends long strings with an ellipsis inside the limit", func() {
		out := text.Truncate(strings.Repeat("a", 30), 10)
		Expect(out).To(Equal("aaaaaaa..."))
	})

	It("counts runes, not bytes", func() {
		out := text.Truncate(strings.Repeat("ñ", text.MaxEmbedFieldValueLen+5), text.MaxEmbedFieldValueLen)
		Expect(utf8.RuneCountInString(out)).To(Equal(text.MaxEmbedFieldValueLen))
		Expect(utf8.ValidString(out)).To(BeTrue())
	})

	It("handles tiny limits", func() {
		Expect(text.Truncate("abcdef", 2)).To(Equal("ab"))
		Expect(text.Truncate("abcdef", 0)).To(BeEmpty())
	})
})

var _ = Describe("markdown helpers", func() {
	It("falls back on blank values", func() {
		Expect(text.OrDefault("  ", "-")).To(Equal("-"))
		Expect(text.OrDefault("x", "-")).To(Equal("x"))
	})

	It("renders links only when there is a url", func() {
		Expect(text.Link("ABC-1", "https://j/browse/ABC-1")).To(Equal("[ABC-1](https://j/browse/ABC-1)"))
		Expect(text.Link("ABC-1", "")).To(Equal("ABC-1"))
		Expect(text.Bold("x")).To(Equal("**x**"))
	})
})

var _ = Describe("JoinLines", func() {
	It("joins everything that fits", func() {
		out, cut := text.JoinLines([]string{"a", "b", "c"}, 5)
		Expect(out).To(Equal("a\nb\nc"))
		Expect(cut).To(BeFalse())
	})

	It("drops whole lines past the limit", func() {
		out, cut := text.JoinLines([]string{"[A-1](u)", "[A-2](u)", "[A-3](u)"}, 20)
		Expect(out).To(Equal("[A-1](u)\n[A-2](u)"))
		Expect(cut).To(BeTrue())
	})

	It("truncates a single oversized line", func() {
		out, cut := text.JoinLines([]string{strings.Repeat("x", 10)}, 5)
		Expect(out).To(Equal("xx..."))
		Expect(cut).To(BeTrue())
	})
})
