package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	bothttp "github.com/R4F405/discord-jira-bot/internal/http"
	"github.com/R4F405/discord-jira-bot/internal/logger"
	"github.com/R4F405/discord-jira-bot/internal/notify"
	"github.com/R4F405/discord-jira-bot/internal/webhook"
)

type recordingDispatcher struct {
	name   string
	events []webhook.Event
	err    error
}

func (d *recordingDispatcher) Dispatch(_ context.Context, name string, events []webhook.Event) error {
	d.name = name
	d.events = append(d.events, events...)
	return d.err
}

type panickingDispatcher struct{}

func (panickingDispatcher) Dispatch(context.Context, string, []webhook.Event) error {
	panic("queue exploded")
}

var _ = Describe("WebhookHandler", func() {
	var (
		router     *gin.Engine
		dispatcher *recordingDispatcher
		buf        *bytes.Buffer
	)

	post := func(body string) (int, map[string]any) {
		req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var out map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &out)).To(Succeed())
		return w.Code, out
	}

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		buf = &bytes.Buffer{}
		slog.SetDefault(slog.New(logger.NewTraceHandler(slog.NewJSONHandler(buf, nil))))
		dispatcher = &recordingDispatcher{}
		router = bothttp.NewRouter(bothttp.RouterConfig{}, bothttp.NewWebhookHandler(dispatcher))
	})

	It("answers the health check", func() {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"status":"ok"}`))
	})

	It("queues one notification per mapped change, in order", func() {
		code, body := post(`{
			"webhookEvent": "jira:issue_updated",
			"user": {"displayName": "Bob"},
			"issue": {"key": "ABC-1"},
			"changelog": {"items": [
				{"field": "priority", "fromString": "Low", "toString": "High"},
				{"field": "resolution", "toString": "Done"},
				{"field": "summary", "fromString": "a", "toString": "b"}
			]}
		}`)

		Expect(code).To(Equal(http.StatusOK))
		Expect(body).To(Equal(map[string]any{"status": "success"}))
		Expect(dispatcher.name).To(Equal("jira:issue_updated"))
		Expect(dispatcher.events).To(HaveLen(2))
		Expect(dispatcher.events[0].Kind).To(Equal(webhook.KindPriorityUpdated))
		Expect(dispatcher.events[1].Kind).To(Equal(webhook.KindSummaryUpdated))
		Expect(buf.String()).To(ContainSubstring(`"ticket_key":"ABC-1"`))
	})

	It("ignores payloads without an issue key", func() {
		code, body := post(`{"webhookEvent":"project_updated"}`)

		Expect(code).To(Equal(http.StatusOK))
		Expect(body).To(Equal(map[string]any{"status": "ignored", "message": "No issue key found"}))
		Expect(dispatcher.events).To(BeEmpty())
	})

	It("ignores sub-task deletions", func() {
		code, body := post(`{"webhookEvent":"jira:issue_deleted","user":{"displayName":"Bob"},
			"issue":{"key":"ABC-2","fields":{"issuetype":{"subtask":true}}}}`)

		Expect(code).To(Equal(http.StatusOK))
		Expect(body["status"]).To(Equal("ignored"))
		Expect(dispatcher.events).To(BeEmpty())
	})

	It("echoes unknown event names", func() {
		_, body := post(`{"webhookEvent":"jira:worklog_updated","issue":{"key":"ABC-3"}}`)
		Expect(body).To(Equal(map[string]any{"status": "ignored", "event": "jira:worklog_updated"}))
	})

	It("reports updates without changes", func() {
		_, body := post(`{"webhookEvent":"jira:issue_updated","issue":{"key":"ABC-3"},"changelog":{"items":[]}}`)
		Expect(body).To(Equal(map[string]any{"status": "ignored", "reason": "No changes detected"}))
	})

	It("rejects oversized bodies", func() {
		big := `{"webhookEvent":"jira:issue_created","issue":{"key":"ABC-8"},"pad":"` +
			strings.Repeat("a", bothttp.MaxWebhookBodyBytes) + `"}`

		code, body := post(big)

		Expect(code).To(Equal(http.StatusRequestEntityTooLarge))
		Expect(body["status"]).To(Equal("error"))
		Expect(dispatcher.events).To(BeEmpty())
	})

	It("rejects malformed JSON", func() {
		code, body := post(`{"webhookEvent":`)
		Expect(code).To(Equal(http.StatusBadRequest))
		Expect(body["status"]).To(Equal("error"))
	})

	It("fails when the notifications cannot be queued", func() {
		dispatcher.err = notify.ErrQueueFull

		code, body := post(`{"webhookEvent":"jira:issue_created","issue":{"key":"ABC-4"}}`)

		Expect(code).To(Equal(http.StatusInternalServerError))
		Expect(body["status"]).To(Equal("error"))
		Expect(body["message"]).To(ContainSubstring("full"))
	})

	It("recovers from panics", func() {
		router = bothttp.NewRouter(bothttp.RouterConfig{}, bothttp.NewWebhookHandler(panickingDispatcher{}))

		code, body := post(`{"webhookEvent":"jira:issue_created","issue":{"key":"ABC-5"}}`)

		Expect(code).To(Equal(http.StatusInternalServerError))
		Expect(body["status"]).To(Equal("error"))
	})

	It("queues through the real dispatcher", func() {
		q := notify.NewMemoryQueue(4)
		router = bothttp.NewRouter(bothttp.RouterConfig{},
			bothttp.NewWebhookHandler(notify.Dispatcher{Queue: q, ChannelID: "99"}))

		code, _ := post(`{"webhookEvent":"comment_created","user":{"displayName":"Bob"},
			"issue":{"key":"ABC-6"},"comment":{"author":{"displayName":"Alice"},"body":"ok"}}`)

		Expect(code).To(Equal(http.StatusOK))
		Expect(q.Len()).To(Equal(1))
	})

	It("logs one line per request", func() {
		post(`{"webhookEvent":"jira:issue_created","issue":{"key":"ABC-7"}}`)

		Expect(buf.String()).To(ContainSubstring(`"msg":"request"`))
		Expect(buf.String()).To(ContainSubstring(`"path":"/webhook"`))
	})
})
