package accesslog

import (
	"encoding/json"
	"time"

	"github.com/chatsched/chatsched/app"
	"github.com/chatsched/chatsched/test/helper"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
)

var _ = Describe("access log", Ordered, func() {

	Context("text", func() {
		var app *app.Application

		BeforeAll(func() {
			helper.InitDB(true).Close()
			app = helper.MustStart(map[string]string{
				"CHATSCHED_ACCESS_LOG_FORMAT":  "text",
				"CHATSCHED_ACCESS_LOG_COLORED": "false",
			})
		})

		AfterAll(func() {
			app.Stop()
		})

		It("writes one line per request", func() {
			resp, err := helper.AdminClient().R().
				SetHeader("X-Request-Id", "0123456789abcdef0123456789abcdef").
				Get("/channels?limit=1")
			assert.Nil(GinkgoT(), err)
			assert.Equal(GinkgoT(), 200, resp.StatusCode())
			assert.Equal(GinkgoT(), "0123456789abcdef0123456789abcdef", resp.Header().Get("X-Request-Id"))

			regex := `\[admin\] 127\.0\.0\.1 0123456789abcdef0123456789abcdef "GET /channels\?limit=1 HTTP/1\.1" 200 \d+ \d+ms "-" "go-resty/[^"]+"`
			Eventually(func() bool {
				ok, _ := helper.FileHasLine(helper.OutputPath("access.log"), regex)
				return ok
			}, 2*time.Second, 50*time.Millisecond).Should(BeTrue())
		})

		It("generates a request id when none is sent", func() {
			resp, err := helper.AdminClient().R().Post("/workspace/connect")
			assert.Nil(GinkgoT(), err)
			assert.Len(GinkgoT(), resp.Header().Get("X-Request-Id"), 32)
		})
	})

	Context("json", func() {
		var app *app.Application

		BeforeAll(func() {
			helper.InitDB(true).Close()
			app = helper.MustStart(map[string]string{
				"CHATSCHED_ACCESS_LOG_FORMAT": "json",
			})
			helper.TruncateFile(helper.OutputPath("access.log"))
		})

		AfterAll(func() {
			app.Stop()
		})

		It("writes a json object per request", func() {
			resp, err := helper.AdminClient().R().
				SetHeader("X-Request-Id", "req-json").
				Post("/scheduled-messages/msg_unknown/cancel")
			assert.Nil(GinkgoT(), err)
			assert.Equal(GinkgoT(), 404, resp.StatusCode())

			var line string
			Eventually(func() string {
				line, _ = helper.FileLine(helper.OutputPath("access.log"), 1)
				return line
			}, 2*time.Second, 50*time.Millisecond).ShouldNot(BeEmpty())

			var entry map[string]interface{}
			assert.Nil(GinkgoT(), json.Unmarshal([]byte(line), &entry))
			assert.Equal(GinkgoT(), "admin", entry["name"])
			assert.Equal(GinkgoT(), "req-json", entry["request_id"])
			request := entry["request"].(map[string]interface{})
			assert.Equal(GinkgoT(), "POST", request["method"])
			assert.Equal(GinkgoT(), "/scheduled-messages/msg_unknown/cancel", request["uri"])
			response := entry["response"].(map[string]interface{})
			assert.EqualValues(GinkgoT(), 404, response["status"])
		})
	})
})
