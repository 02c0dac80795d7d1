package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/chatsched/chatsched/app"
	"github.com/chatsched/chatsched/db"
	"github.com/chatsched/chatsched/db/entities"
	"github.com/chatsched/chatsched/model"
	"github.com/chatsched/chatsched/test/helper"
	"github.com/go-resty/resty/v2"
	. "github.com/onsi/ginkgo/v2"
	"github.com/stretchr/testify/assert"
)

func rfc3339(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

var _ = Describe("/scheduled-messages", Ordered, func() {

	var adminClient *resty.Client
	var app *app.Application
	var db *db.DB

	BeforeAll(func() {
		db = helper.InitDB(true)
		adminClient = helper.AdminClient()
		app = helper.MustStart(map[string]string{
			"CHATSCHED_WORKER_ENABLED": "false",
		})
	})

	AfterAll(func() {
		app.Stop()
		db.Close()
	})

	Context("POST", func() {
		It("schedules a message", func() {
			at := time.Now().Add(time.Hour).Truncate(time.Second)
			resp, err := adminClient.R().
				SetBody(map[string]interface{}{
					"channelId":     "C1234567892",
					"content":       "Code review reminder for PR #123",
					"scheduledTime": rfc3339(at),
				}).
				SetResult(model.ScheduleResult{}).
				Post("/scheduled-messages")
			assert.Nil(GinkgoT(), err)
			assert.Equal(GinkgoT(), 201, resp.StatusCode())

			result := resp.Result().(*model.ScheduleResult)
			assert.True(GinkgoT(), result.Success)

			msg, err := db.ScheduledMessages.Get(context.TODO(), result.MessageID)
			assert.Nil(GinkgoT(), err)
			assert.Equal(GinkgoT(), "C1234567892", msg.ChannelID)
			assert.Equal(GinkgoT(), "development", msg.ChannelName)
			assert.Equal(GinkgoT(), "Code review reminder for PR #123", msg.Content)
			assert.True(GinkgoT(), at.Equal(msg.ScheduledTime.Time))
			assert.Equal(GinkgoT(), entities.MessageStatusPending, msg.Status)
		})

		Context("errors", func() {
			It("returns HTTP 400 for invalid json", func() {
				resp, err := adminClient.R().
					SetBody("").
					Post("/scheduled-messages")
				assert.Nil(GinkgoT(), err)
				assert.Equal(GinkgoT(), 400, resp.StatusCode())
			})

			It("returns HTTP 400 for a time in the past", func() {
				resp, err := adminClient.R().
					SetBody(map[string]interface{}{
						"channelId":     "C1234567890",
						"content":       "hello",
						"scheduledTime": rfc3339(time.Now().Add(-time.Hour)),
					}).
					Post("/scheduled-messages")
				assert.Nil(GinkgoT(), err)
				assert.Equal(GinkgoT(), 400, resp.StatusCode())
				assert.JSONEq(GinkgoT(),
					`{"success":false,"error":"request validation: scheduledTime: scheduled time is too soon: must be at least 1m0s in the future"}`,
					string(resp.Body()))
			})

			It("returns HTTP 400 for missing fields", func() {
				resp, err := adminClient.R().
					SetBody(map[string]interface{}{}).
					Post("/scheduled-messages")
				assert.Nil(GinkgoT(), err)
				assert.Equal(GinkgoT(), 400, resp.StatusCode())
				assert.JSONEq(GinkgoT(),
					`{"success":false,"error":"request validation: channelId: required field missing; content: must not be blank; scheduledTime: required field missing"}`,
					string(resp.Body()))
			})

			It("returns HTTP 404 for unknown channel", func() {
				resp, err := adminClient.R().
					SetBody(map[string]interface{}{
						"channelId":     "C0",
						"content":       "hello",
						"scheduledTime": rfc3339(time.Now().Add(time.Hour)),
					}).
					Post("/scheduled-messages")
				assert.Nil(GinkgoT(), err)
				assert.Equal(GinkgoT(), 404, resp.StatusCode())
				assert.JSONEq(GinkgoT(), `{"success":false,"error":"channel not found: C0"}`, string(resp.Body()))
			})
		})
	})

	Context("GET", func() {
		It("lists newest first", func() {
			assert.Nil(GinkgoT(), db.Truncate("scheduled_messages"))
			ids := make([]string, 0)
			for i := 0; i < 3; i++ {
				resp, err := adminClient.R().
					SetBody(map[string]interface{}{
						"channelId":     "C1234567890",
						"content":       fmt.Sprintf("message %d", i),
						"scheduledTime": rfc3339(time.Now().Add(time.Hour)),
					}).
					SetResult(model.ScheduleResult{}).
					Post("/scheduled-messages")
				assert.Nil(GinkgoT(), err)
				ids = append(ids, resp.Result().(*model.ScheduleResult).MessageID)
				time.Sleep(10 * time.Millisecond)
			}

			resp, err := adminClient.R().
				SetResult(model.MessagesResult{}).
				Get("/scheduled-messages")
			assert.Nil(GinkgoT(), err)
			assert.Equal(GinkgoT(), 200, resp.StatusCode())
			result := resp.Result().(*model.MessagesResult)
			assert.Len(GinkgoT(), result.Messages, 3)
			assert.Equal(GinkgoT(), ids[2], result.Messages[0].ID)
			assert.Equal(GinkgoT(), ids[0], result.Messages[2].ID)
		})

		It("filters by status", func() {
			resp, err := adminClient.R().
				SetResult(model.MessagesResult{}).
				Get("/scheduled-messages?status=sent")
			assert.Nil(GinkgoT(), err)
			assert.Equal(GinkgoT(), 200, resp.StatusCode())
			assert.JSONEq(GinkgoT(), `{"success":true,"messages":[]}`, string(resp.Body()))
		})

		It("returns HTTP 404 for unknown id", func() {
			resp, err := adminClient.R().Get("/scheduled-messages/msg_unknown")
			assert.Nil(GinkgoT(), err)
			assert.Equal(GinkgoT(), 404, resp.StatusCode())
			assert.JSONEq(GinkgoT(), `{"success":false,"error":"scheduled message not found: msg_unknown"}`, string(resp.Body()))
		})
	})

	Context("cancel", func() {
		It("cancels a pending message once", func() {
			resp, err := adminClient.R().
				SetBody(map[string]interface{}{
					"channelId":     "C1234567891",
					"content":       "hello",
					"scheduledTime": rfc3339(time.Now().Add(time.Hour)),
				}).
				SetResult(model.ScheduleResult{}).
				Post("/scheduled-messages")
			assert.Nil(GinkgoT(), err)
			id := resp.Result().(*model.ScheduleResult).MessageID

			resp, err = adminClient.R().Post("/scheduled-messages/" + id + "/cancel")
			assert.Nil(GinkgoT(), err)
			assert.Equal(GinkgoT(), 200, resp.StatusCode())
			assert.JSONEq(GinkgoT(), `{"success":true}`, string(resp.Body()))

			resp, err = adminClient.R().
				SetResult(model.MessageResult{}).
				Get("/scheduled-messages/" + id)
			assert.Nil(GinkgoT(), err)
			assert.Equal(GinkgoT(), entities.MessageStatusCancelled, resp.Result().(*model.MessageResult).Message.Status)

			resp, err = adminClient.R().Post("/scheduled-messages/" + id + "/cancel")
			assert.Nil(GinkgoT(), err)
			assert.Equal(GinkgoT(), 409, resp.StatusCode())
			assert.JSONEq(GinkgoT(), `{"success":false,"error":"cannot cancel message in status 'cancelled'"}`, string(resp.Body()))
		})

		It("returns HTTP 404 for unknown id", func() {
			resp, err := adminClient.R().Post("/scheduled-messages/msg_unknown/cancel")
			assert.Nil(GinkgoT(), err)
			assert.Equal(GinkgoT(), 404, resp.StatusCode())
		})
	})
})
