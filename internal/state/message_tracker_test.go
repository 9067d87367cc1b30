package state_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/R4F405/discord-jira-bot/internal/state"
)

var _ = Describe("MessageTracker", func() {
	It("returns and forgets a tracked reply", func() {
		t := state.NewMessageTracker(10)
		t.Track("c1", "m1", "r1")

		reply, ok := t.Take("c1", "m1")
		Expect(ok).To(BeTrue())
		Expect(reply).To(Equal("r1"))

		_, ok = t.Take("c1", "m1")
		Expect(ok).To(BeFalse())
	})

	It("keys by channel", func() {
		t := state.NewMessageTracker(10)
		t.Track("c1", "m1", "r1")
		_, ok := t.Take("c2", "m1")
		Expect(ok).To(BeFalse())
	})

	It("evicts the oldest entry when full", func() {
		t := state.NewMessageTracker(2)
		t.Track("c", "m1", "r1")
		t.Track("c", "m2", "r2")
		t.Track("c", "m3", "r3")

		Expect(t.Len()).To(Equal(2))
		_, ok := t.Take("c", "m1")
		Expect(ok).To(BeFalse())
		reply, ok := t.Take("c", "m3")
		Expect(ok).To(BeTrue())
		Expect(reply).To(Equal("r3"))
	})
})
