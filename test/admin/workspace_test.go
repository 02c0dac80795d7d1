package admin

import (
	"context"

	"github.com/chatsched/chatsched/app"
	"github.com/chatsched/chatsched/db"
	"github.com/chatsched/chatsched/test/helper"
	"github.com/go-resty/resty/v2"
	. "github.com/onsi/ginkgo/v2"
	"github.com/stretchr/testify/assert"
)

var _ = Describe("/workspace and /channels", Ordered, func() {

	var adminClient *resty.Client
	var app *app.Application
	var db *db.DB

	BeforeAll(func() {
		db = helper.InitDB(true)
		adminClient = helper.AdminClient()
		app = helper.MustStart(map[string]string{})
	})

	AfterAll(func() {
		app.Stop()
		db.Close()
	})

	It("bootstraps the configured workspace on start", func() {
		ws, err := db.Workspaces.GetFirst(context.TODO())
		assert.Nil(GinkgoT(), err)
		assert.Equal(GinkgoT(), "T1234567890", ws.ID)

		count, err := db.Channels.Count(context.TODO(), nil)
		assert.Nil(GinkgoT(), err)
		assert.EqualValues(GinkgoT(), 4, count)
	})

	It("POST /workspace/connect", func() {
		resp, err := adminClient.R().Post("/workspace/connect")
		assert.Nil(GinkgoT(), err)
		assert.Equal(GinkgoT(), 200, resp.StatusCode())
		assert.JSONEq(GinkgoT(),
			`{"success":true,"workspace":{"id":"T1234567890","name":"My Workspace","domain":"myworkspace"}}`,
			string(resp.Body()))

		// connecting again returns the same workspace
		resp, err = adminClient.R().Post("/workspace/connect")
		assert.Nil(GinkgoT(), err)
		assert.Equal(GinkgoT(), 200, resp.StatusCode())
	})

	It("GET /channels", func() {
		resp, err := adminClient.R().Get("/channels")
		assert.Nil(GinkgoT(), err)
		assert.Equal(GinkgoT(), 200, resp.StatusCode())
		assert.JSONEq(GinkgoT(), `{"success":true,"channels":[
			{"id":"C1234567890","name":"general","isPrivate":false},
			{"id":"C1234567891","name":"random","isPrivate":false},
			{"id":"C1234567892","name":"development","isPrivate":false},
			{"id":"C1234567893","name":"marketing","isPrivate":true}
		]}`, string(resp.Body()))
	})
})
