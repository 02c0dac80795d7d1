package status

import (
	"context"
	"time"

	"github.com/chatsched/chatsched/app"
	"github.com/chatsched/chatsched/status"
	"github.com/chatsched/chatsched/test/helper"
	"github.com/go-resty/resty/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
)

var _ = Describe("status", Ordered, func() {

	var statusClient *resty.Client
	var app *app.Application

	BeforeAll(func() {
		helper.InitDB(true).Close()
		statusClient = helper.StatusClient()
		app = helper.MustStart(map[string]string{})
		Eventually(func() error {
			_, err := statusClient.R().Get("/health")
			return err
		}, 5*time.Second, 50*time.Millisecond).Should(BeNil())
	})

	AfterAll(func() {
		app.Stop()
	})

	It("GET /health", func() {
		resp, err := statusClient.R().Get("/health")
		assert.Nil(GinkgoT(), err)
		assert.Equal(GinkgoT(), 200, resp.StatusCode())
		assert.JSONEq(GinkgoT(),
			`{"status":"UP","components":{"database":{"status":"UP"},"worker":{"status":"UP"}}}`,
			string(resp.Body()))
	})

	It("GET /", func() {
		c := helper.Client()
		res, err := c.ScheduleMessage(context.TODO(), "C1234567890", "hello", time.Now().Add(time.Hour))
		assert.Nil(GinkgoT(), err)
		assert.True(GinkgoT(), res.Success)

		resp, err := statusClient.R().SetResult(status.StatusResponse{}).Get("/")
		assert.Nil(GinkgoT(), err)
		assert.Equal(GinkgoT(), 200, resp.StatusCode())

		s := resp.Result().(*status.StatusResponse)
		assert.Equal(GinkgoT(), app.NodeID(), s.NodeID)
		assert.Equal(GinkgoT(), "dev", s.Version)
		assert.EqualValues(GinkgoT(), 1, s.Messages.Pending)
		assert.EqualValues(GinkgoT(), 0, s.Messages.Sent)
		assert.LessOrEqual(GinkgoT(), s.Database.TotalConnections, 1)
	})

	It("reports the worker runs", func() {
		Eventually(func() int64 {
			resp, err := statusClient.R().SetResult(status.StatusResponse{}).Get("/")
			if err != nil {
				return 0
			}
			return resp.Result().(*status.StatusResponse).Worker.Runs
		}, 5*time.Second, 100*time.Millisecond).Should(BeNumerically(">", 0))
	})
})
