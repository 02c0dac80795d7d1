package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/chatsched/chatsched/app"
	"github.com/chatsched/chatsched/client"
	"github.com/chatsched/chatsched/db/entities"
	"github.com/chatsched/chatsched/test/helper"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
)

type received struct {
	mux   sync.Mutex
	posts map[string][]string
}

func (r *received) add(path string, text string) {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.posts[path] = append(r.posts[path], text)
}

func (r *received) get(path string) []string {
	r.mux.Lock()
	defer r.mux.Unlock()
	return append([]string(nil), r.posts[path]...)
}

var _ = Describe("dispatch", Ordered, func() {

	var app *app.Application
	var server *http.Server
	var c *client.HTTPClient
	webhooks := &received{posts: make(map[string][]string)}
	ctx := context.Background()

	BeforeAll(func() {
		addr := fmt.Sprintf("127.0.0.1:%d", helper.FreePort())
		server = helper.StartHttpServer(func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				Channel string `json:"channel"`
				Text    string `json:"text"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			webhooks.add(r.URL.Path, body.Text)
			if r.URL.Path == "/fail" {
				w.WriteHeader(500)
				_, _ = w.Write([]byte("boom"))
				return
			}
			w.WriteHeader(200)
		}, addr)

		helper.InitDB(true).Close()
		app = helper.MustStart(map[string]string{
			"CHATSCHED_WORKER_MIN_LEAD": "1",
			"CHATSCHED_WORKSPACE_CHANNELS": fmt.Sprintf(`[
				{id: C1, name: deploys, webhook_url: "http://%s/ok"},
				{id: C2, name: alerts, webhook_url: "http://%s/fail"},
				{id: C3, name: logged}
			]`, addr, addr),
		})
		c = helper.Client()
	})

	AfterAll(func() {
		app.Stop()
		_ = server.Close()
		helper.ClearEnvironments("CHATSCHED_WORKER_MIN_LEAD", "CHATSCHED_WORKSPACE_CHANNELS")
	})

	status := func(id string) func() entities.MessageStatus {
		return func() entities.MessageStatus {
			res, err := c.GetScheduledMessage(ctx, id)
			if err != nil || !res.Success {
				return ""
			}
			return res.Message.Status
		}
	}

	It("delivers a due message to the channel webhook", func() {
		res, err := c.ScheduleMessage(ctx, "C1", "Deploy at noon", time.Now().Add(2*time.Second))
		assert.Nil(GinkgoT(), err)
		assert.True(GinkgoT(), res.Success)

		Eventually(status(res.MessageID), 10*time.Second, 100*time.Millisecond).
			Should(Equal(entities.MessageStatusSent))
		assert.Equal(GinkgoT(), []string{"Deploy at noon"}, webhooks.get("/ok"))
	})

	It("marks a message failed when the webhook rejects it", func() {
		res, err := c.ScheduleMessage(ctx, "C2", "will fail", time.Now().Add(2*time.Second))
		assert.Nil(GinkgoT(), err)
		assert.True(GinkgoT(), res.Success)

		Eventually(status(res.MessageID), 10*time.Second, 100*time.Millisecond).
			Should(Equal(entities.MessageStatusFailed))

		one, err := c.GetScheduledMessage(ctx, res.MessageID)
		assert.Nil(GinkgoT(), err)
		assert.Equal(GinkgoT(), "unexpected status 500: boom", *one.Message.LastError)
	})

	It("delivers through the log when the channel has no webhook", func() {
		res, err := c.ScheduleMessage(ctx, "C3", "just log it", time.Now().Add(2*time.Second))
		assert.Nil(GinkgoT(), err)

		Eventually(status(res.MessageID), 10*time.Second, 100*time.Millisecond).
			Should(Equal(entities.MessageStatusSent))
	})

	It("does not deliver a message cancelled before it is due", func() {
		res, err := c.ScheduleMessage(ctx, "C1", "never", time.Now().Add(2*time.Second))
		assert.Nil(GinkgoT(), err)

		cancelled, err := c.CancelScheduledMessage(ctx, res.MessageID)
		assert.Nil(GinkgoT(), err)
		assert.True(GinkgoT(), cancelled.Success)

		Consistently(status(res.MessageID), 4*time.Second, 200*time.Millisecond).
			Should(Equal(entities.MessageStatusCancelled))
		assert.NotContains(GinkgoT(), webhooks.get("/ok"), "never")
	})

	It("does not send messages that are not due", func() {
		res, err := c.ScheduleMessage(ctx, "C1", "later", time.Now().Add(time.Hour))
		assert.Nil(GinkgoT(), err)

		Consistently(status(res.MessageID), time.Second, 200*time.Millisecond).
			Should(Equal(entities.MessageStatusPending))
	})
})
