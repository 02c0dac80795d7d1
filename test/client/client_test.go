package client

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chatsched/chatsched/app"
	"github.com/chatsched/chatsched/client"
	"github.com/chatsched/chatsched/db/entities"
	"github.com/chatsched/chatsched/test/helper"
	. "github.com/onsi/ginkgo/v2"
	"github.com/stretchr/testify/assert"
)

var _ = Describe("HTTPClient", Ordered, func() {

	var c *client.HTTPClient
	var app *app.Application
	ctx := context.Background()

	BeforeAll(func() {
		helper.InitDB(true).Close()
		app = helper.MustStart(map[string]string{
			"CHATSCHED_WORKER_ENABLED": "false",
		})
		c = helper.Client()
	})

	AfterAll(func() {
		app.Stop()
	})

	It("connects the workspace", func() {
		res, err := c.ConnectWorkspace(ctx)
		assert.Nil(GinkgoT(), err)
		assert.True(GinkgoT(), res.Success)
		assert.Equal(GinkgoT(), "T1234567890", res.Workspace.ID)
		assert.Equal(GinkgoT(), "My Workspace", res.Workspace.Name)
		assert.Equal(GinkgoT(), "myworkspace", res.Workspace.Domain)
	})

	It("lists channels in order", func() {
		res, err := c.GetChannels(ctx)
		assert.Nil(GinkgoT(), err)
		assert.True(GinkgoT(), res.Success)
		names := make([]string, 0, len(res.Channels))
		for _, ch := range res.Channels {
			names = append(names, ch.Name)
		}
		assert.Equal(GinkgoT(), []string{"general", "random", "development", "marketing"}, names)
		assert.True(GinkgoT(), res.Channels[3].IsPrivate)
	})

	It("sends a message", func() {
		res, err := c.SendMessage(ctx, "C1234567890", "Hello team!")
		assert.Nil(GinkgoT(), err)
		assert.True(GinkgoT(), res.Success)
	})

	It("reports an unknown channel as a failure result", func() {
		res, err := c.SendMessage(ctx, "C0", "Hello team!")
		assert.Nil(GinkgoT(), err)
		assert.False(GinkgoT(), res.Success)
		assert.Equal(GinkgoT(), "channel not found: C0", res.Error)
	})

	It("round trips a scheduled message", func() {
		at := time.Now().Add(24 * time.Hour).Truncate(time.Millisecond)
		res, err := c.ScheduleMessage(ctx, "C1234567891", "Weekly standup reminder", at)
		assert.Nil(GinkgoT(), err)
		assert.True(GinkgoT(), res.Success)

		one, err := c.GetScheduledMessage(ctx, res.MessageID)
		assert.Nil(GinkgoT(), err)
		assert.True(GinkgoT(), one.Success)
		assert.Equal(GinkgoT(), "C1234567891", one.Message.ChannelID)
		assert.Equal(GinkgoT(), "random", one.Message.ChannelName)
		assert.Equal(GinkgoT(), "Weekly standup reminder", one.Message.Content)
		assert.True(GinkgoT(), at.Equal(one.Message.ScheduledTime.Time))
		assert.Equal(GinkgoT(), entities.MessageStatusPending, one.Message.Status)
	})

	It("rejects a time closer than the minimum lead", func() {
		res, err := c.ScheduleMessage(ctx, "C1234567891", "too soon", time.Now().Add(30*time.Second))
		assert.Nil(GinkgoT(), err)
		assert.False(GinkgoT(), res.Success)
		assert.Contains(GinkgoT(), res.Error, "scheduled time is too soon")
	})

	It("generates unique ids", func() {
		ids := make(map[string]bool)
		for i := 0; i < 20; i++ {
			res, err := c.ScheduleMessage(ctx, "C1234567890", "unique", time.Now().Add(time.Hour))
			assert.Nil(GinkgoT(), err)
			assert.True(GinkgoT(), res.Success)
			assert.False(GinkgoT(), ids[res.MessageID])
			ids[res.MessageID] = true
		}
	})

	It("shows a cancelled message on next fetch", func() {
		res, err := c.ScheduleMessage(ctx, "C1234567892", "cancel me", time.Now().Add(time.Hour))
		assert.Nil(GinkgoT(), err)

		cancelled, err := c.CancelScheduledMessage(ctx, res.MessageID)
		assert.Nil(GinkgoT(), err)
		assert.True(GinkgoT(), cancelled.Success)

		list, err := c.GetScheduledMessages(ctx)
		assert.Nil(GinkgoT(), err)
		assert.True(GinkgoT(), list.Success)
		var found *entities.ScheduledMessage
		for _, msg := range list.Messages {
			if msg.ID == res.MessageID {
				found = msg
			}
		}
		assert.NotNil(GinkgoT(), found)
		assert.Equal(GinkgoT(), entities.MessageStatusCancelled, found.Status)
		// newest first
		assert.Equal(GinkgoT(), res.MessageID, list.Messages[0].ID)
	})

	It("lets exactly one of concurrent cancels succeed", func() {
		res, err := c.ScheduleMessage(ctx, "C1234567893", "race", time.Now().Add(time.Hour))
		assert.Nil(GinkgoT(), err)

		var succeeded, failed int32
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				r, err := c.CancelScheduledMessage(ctx, res.MessageID)
				if err != nil {
					return
				}
				if r.Success {
					atomic.AddInt32(&succeeded, 1)
				} else {
					atomic.AddInt32(&failed, 1)
				}
			}()
		}
		wg.Wait()
		assert.EqualValues(GinkgoT(), 1, succeeded)
		assert.EqualValues(GinkgoT(), 9, failed)
	})

	It("reports an unknown id as a failure result", func() {
		res, err := c.CancelScheduledMessage(ctx, "msg_unknown")
		assert.Nil(GinkgoT(), err)
		assert.False(GinkgoT(), res.Success)
		assert.Equal(GinkgoT(), "scheduled message not found: msg_unknown", res.Error)
	})

	It("returns an error when the context is cancelled", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := c.GetScheduledMessages(cctx)
		assert.NotNil(GinkgoT(), err)
	})
})
