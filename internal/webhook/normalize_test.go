package webhook_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/R4F405/discord-jira-bot/internal/webhook"
)

func decode(body string) webhook.Payload {
	p, err := webhook.Decode(strings.NewReader(body))
	Expect(err).NotTo(HaveOccurred())
	return p
}

var _ = Describe("Decode", func() {
	It("rejects invalid JSON", func() {
		_, err := webhook.Decode(strings.NewReader("{"))
		Expect(err).To(HaveOccurred())
	})

	It("rejects non-object bodies", func() {
		_, err := webhook.Decode(strings.NewReader("[1,2]"))
		Expect(err).To(MatchError(webhook.ErrNotObject))
	})

	It("defaults missing changelog values to N/A", func() {
		p := decode(`{"changelog":{"items":[{"field":"status","fromString":null}]}}`)
		Expect(p.Items).To(Equal([]webhook.ChangeItem{{Field: "status", From: "N/A", To: "N/A"}}))
	})
})

var _ = Describe("Normalize", func() {
	It("ignores payloads without an issue key", func() {
		res := webhook.Normalize(decode(`{"webhookEvent":"project_created","user":{"displayName":"Bob"}}`))

		Expect(res.Status).To(Equal(webhook.StatusIgnored))
		Expect(res.Message).To(Equal(webhook.MsgNoIssueKey))
		Expect(res.Events).To(BeEmpty())
	})

	Describe("comments", func() {
		It("uses the comment author, not the delivering user", func() {
			res := webhook.Normalize(decode(`{
				"webhookEvent": "comment_created",
				"user": {"displayName": "Bob"},
				"issue": {"key": "ABC-1"},
				"comment": {
					"author": {"displayName": "Alice"},
					"body": {"type": "doc", "content": [
						{"type": "paragraph", "content": [{"type": "text", "text": "Listo para QA"}]}
					]}
				}
			}`))

			Expect(res.Status).To(Equal(webhook.StatusSuccess))
			Expect(res.Events).To(HaveLen(1))
			ev := res.Events[0]
			Expect(ev.Kind).To(Equal(webhook.KindCommented))
			Expect(ev.Actor).To(Equal("Alice"))
			Expect(ev.Details).To(Equal([]string{
				"**Comentado por:** Alice",
				"**Comentario:** Listo para QA",
			}))
		})

		It("handles updated comments with a plain body", func() {
			res := webhook.Normalize(decode(`{
				"webhookEvent": "comment_updated",
				"issue": {"key": "ABC-1"},
				"comment": {"author": {"displayName": "Alice"}, "body": "texto plano"}
			}`))
			Expect(res.Events[0].Details[1]).To(Equal("**Comentario:** texto plano"))
		})

		It("defaults a missing body", func() {
			res := webhook.Normalize(decode(`{"webhookEvent":"comment_created","issue":{"key":"ABC-1"},"comment":{}}`))
			Expect(res.Events[0].Details[1]).To(Equal("**Comentario:** Sin contenido"))
			Expect(res.Events[0].Actor).To(Equal("Usuario desconocido"))
		})
	})

	Describe("issue updates", func() {
		It("emits one event per mapped item, in changelog order", func() {
			res := webhook.Normalize(decode(`{
				"webhookEvent": "jira:issue_updated",
				"user": {"displayName": "Bob"},
				"issue": {"key": "ABC-2", "fields": {"issuetype": {"subtask": true}}},
				"changelog": {"items": [
					{"field": "Status", "fromString": "To Do", "toString": "En curso"},
					{"field": "resolution", "fromString": null, "toString": "Done"},
					{"field": "Custom Field X", "toString": "1"},
					{"field": "description", "fromString": "a", "toString": "b"},
					{"field": "Attachment", "toString": "captura.png"},
					{"field": "assignee", "fromString": null, "toString": "Alice"}
				]}
			}`))

			Expect(res.Status).To(Equal(webhook.StatusSuccess))
			var kinds []webhook.Kind
			for _, ev := range res.Events {
				kinds = append(kinds, ev.Kind)
				Expect(ev.TicketKey).To(Equal("ABC-2"))
				Expect(ev.IsSubtask).To(BeTrue())
				Expect(ev.Actor).To(Equal("Bob"))
			}
			Expect(kinds).To(Equal([]webhook.Kind{
				webhook.KindUpdated,
				webhook.KindDescriptionUpdated,
				webhook.KindAttachmentAdded,
				webhook.KindAssigned,
			}))
			Expect(res.Events[0].Details).To(Equal([]string{"**Actualizado por:** Bob", "**Cambio:** To Do → En curso"}))
			Expect(res.Events[1].Details).To(Equal([]string{"**Descripción actualizada por:** Bob"}))
			Expect(res.Events[2].Details).To(Equal([]string{"**Archivo adjunto añadido por:** Bob", "**Archivo:** captura.png"}))
			Expect(res.Events[3].Details[1]).To(Equal("**Cambio:** N/A → Alice"))
		})

		DescribeTable("unmapped fields produce no events",
			func(field string) {
				res := webhook.Normalize(decode(`{"webhookEvent":"jira:issue_updated","issue":{"key":"ABC-3"},
					"changelog":{"items":[{"field":"` + field + `","toString":"x"}]}}`))
				Expect(res.Events).To(BeEmpty())
				Expect(res.Status).To(Equal(webhook.StatusIgnored))
				Expect(res.Reason).To(Equal(webhook.ReasonNoMapped))
			},
			Entry("resolution", "Resolution"),
			Entry("custom field", "Custom Field X"),
		)

		It("ignores updates without changelog items", func() {
			res := webhook.Normalize(decode(`{"webhookEvent":"jira:issue_updated","issue":{"key":"ABC-3"}}`))
			Expect(res.Status).To(Equal(webhook.StatusIgnored))
			Expect(res.Reason).To(Equal(webhook.ReasonNoChanges))
		})
	})

	It("describes created issues with defaults", func() {
		res := webhook.Normalize(decode(`{
			"webhookEvent": "jira:issue_created",
			"issue": {"key": "ABC-4", "fields": {
				"summary": "Nuevo login",
				"status": {"name": "BACKLOG"},
				"creator": {"displayName": "Carla"},
				"assignee": null
			}}
		}`))

		Expect(res.Events).To(HaveLen(1))
		Expect(res.Events[0].Kind).To(Equal(webhook.KindCreated))
		Expect(res.Events[0].Details).To(Equal([]string{
			"**Resumen:** Nuevo login",
			"**Estado inicial:** BACKLOG",
			"**Creado por:** Carla",
			"**Asignado a:** Sin asignar",
		}))
	})

	Describe("deletions", func() {
		It("suppresses sub-task deletions", func() {
			res := webhook.Normalize(decode(`{"webhookEvent":"jira:issue_deleted","user":{"displayName":"Bob"},
				"issue":{"key":"ABC-5","fields":{"issuetype":{"subtask":true}}}}`))

			Expect(res.Status).To(Equal(webhook.StatusIgnored))
			Expect(res.Events).To(BeEmpty())
		})

		It("reports other deletions with the delivering user as actor", func() {
			res := webhook.Normalize(decode(`{"webhookEvent":"jira:issue_deleted","user":{"displayName":"Bob"},
				"issue":{"key":"ABC-6","fields":{"summary":"Viejo","issuetype":{"subtask":false}}}}`))

			Expect(res.Status).To(Equal(webhook.StatusSuccess))
			Expect(res.Events).To(HaveLen(1))
			Expect(res.Events[0].Kind).To(Equal(webhook.KindDeleted))
			Expect(res.Events[0].Actor).To(Equal("Bob"))
			Expect(res.Events[0].Details).To(Equal([]string{"**Resumen:** Viejo", "**Eliminado por:** Bob"}))
		})
	})

	It("echoes unknown event names", func() {
		res := webhook.Normalize(decode(`{"webhookEvent":"jira:worklog_updated","issue":{"key":"ABC-7"}}`))

		Expect(res.Status).To(Equal(webhook.StatusIgnored))
		Expect(res.Event).To(Equal("jira:worklog_updated"))
	})

	It("matches comment rules before issue rules", func() {
		res := webhook.Normalize(decode(`{"webhookEvent":"issue_updated comment_created","issue":{"key":"ABC-8"},
			"changelog":{"items":[{"field":"status"}]}}`))
		Expect(res.Events).To(HaveLen(1))
		Expect(res.Events[0].Kind).To(Equal(webhook.KindCommented))
	})
})
