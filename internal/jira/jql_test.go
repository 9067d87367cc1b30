package jira_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/R4F405/discord-jira-bot/internal/jira"
)

var _ = Describe("AssigneeStatusJQL", func() {
	It("builds the pending query", func() {
		Expect(jira.AssigneeStatusJQL("jdoe", jira.StatusesPending)).To(Equal(
			`assignee = "jdoe" AND status IN ("BACKLOG", "SELECTED FOR DEVELOPMENT") ORDER BY updated DESC`))
	})

	It("escapes quotes in the user name", func() {
		Expect(jira.AssigneeStatusJQL(`ana "la jefa"`, jira.StatusesBlocked)).To(Equal(
			`assignee = "ana \"la jefa\"" AND status IN ("BLOCK") ORDER BY updated DESC`))
	})
})
