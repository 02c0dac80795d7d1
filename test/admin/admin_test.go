package admin

import (
	"github.com/chatsched/chatsched/app"
	"github.com/chatsched/chatsched/test/helper"
	"github.com/go-resty/resty/v2"
	. "github.com/onsi/ginkgo/v2"
	"github.com/stretchr/testify/assert"
)

var _ = Describe("admin", Ordered, func() {

	var adminClient *resty.Client
	var app *app.Application

	BeforeAll(func() {
		helper.InitDB(true).Close()
		adminClient = helper.AdminClient()
		app = helper.MustStart(map[string]string{})
	})

	AfterAll(func() {
		app.Stop()
	})

	It("GET /", func() {
		resp, err := adminClient.R().Get("/")
		assert.Nil(GinkgoT(), err)
		assert.Equal(GinkgoT(), 200, resp.StatusCode())
		assert.JSONEq(GinkgoT(), `{"version":"dev","message":"Welcome to chatsched"}`, string(resp.Body()))
		assert.Equal(GinkgoT(), "chatsched/dev", resp.Header().Get("Server"))
	})

	It("returns HTTP 404 for unknown paths", func() {
		resp, err := adminClient.R().Get("/unknown")
		assert.Nil(GinkgoT(), err)
		assert.Equal(GinkgoT(), 404, resp.StatusCode())
		assert.JSONEq(GinkgoT(), `{"success":false,"error":"not found"}`, string(resp.Body()))
	})

	It("returns HTTP 405 for unsupported methods", func() {
		resp, err := adminClient.R().Delete("/channels")
		assert.Nil(GinkgoT(), err)
		assert.Equal(GinkgoT(), 405, resp.StatusCode())
	})
})
