package cmd

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/chatsched/chatsched/app"
	"github.com/chatsched/chatsched/cmd"
	"github.com/chatsched/chatsched/test/helper"
	. "github.com/onsi/ginkgo/v2"
	"github.com/stretchr/testify/assert"
)

func run(args ...string) (string, error) {
	root := cmd.NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	_, err := root.ExecuteC()
	return buf.String(), err
}

var _ = Describe("dash", Ordered, func() {

	var app *app.Application

	BeforeAll(func() {
		helper.InitDB(true).Close()
		app = helper.MustStart(map[string]string{
			"CHATSCHED_WORKER_ENABLED": "false",
		})
	})

	AfterAll(func() {
		app.Stop()
	})

	It("connects", func() {
		output, err := run("dash", "connect")
		assert.Nil(GinkgoT(), err)
		assert.Equal(GinkgoT(), "Connected to My Workspace\nMy Workspace (myworkspace) T1234567890\n", output)
	})

	It("lists channels", func() {
		output, err := run("dash", "channels", "--url", helper.AdminURL())
		assert.Nil(GinkgoT(), err)
		assert.Equal(GinkgoT(), "C1234567890\t#general\nC1234567891\t#random\nC1234567892\t#development\nC1234567893\t#marketing (Private)\n", output)
	})

	It("sends", func() {
		output, err := run("dash", "send", "C1234567890", "Hello team!")
		assert.Nil(GinkgoT(), err)
		assert.Equal(GinkgoT(), "Message sent successfully!\n", output)

		_, err = run("dash", "send", "C0", "Hello team!")
		assert.EqualError(GinkgoT(), err, "channel not found: C0")
	})

	It("schedules, lists and cancels", func() {
		output, err := run("dash", "schedule", "C1234567892", "Code review reminder", "--in", "2h")
		assert.Nil(GinkgoT(), err)
		assert.Equal(GinkgoT(), "Message scheduled successfully!\n", output)

		output, err = run("dash", "scheduled")
		assert.Nil(GinkgoT(), err)
		lines := strings.Split(strings.TrimSpace(output), "\n")
		assert.Len(GinkgoT(), lines, 2)
		assert.True(GinkgoT(), strings.HasPrefix(lines[0], "ID"))
		assert.Contains(GinkgoT(), lines[1], "#development")
		assert.Contains(GinkgoT(), lines[1], "pending")
		assert.Contains(GinkgoT(), lines[1], "Code review reminder")

		id := regexp.MustCompile(`^msg_\S+`).FindString(lines[1])
		assert.NotEmpty(GinkgoT(), id)

		output, err = run("dash", "cancel", id)
		assert.Nil(GinkgoT(), err)
		assert.Equal(GinkgoT(), "message "+id+" cancelled\n", output)

		output, err = run("dash", "scheduled")
		assert.Nil(GinkgoT(), err)
		assert.Contains(GinkgoT(), output, "cancelled")

		_, err = run("dash", "cancel", id)
		assert.EqualError(GinkgoT(), err, "cannot cancel message in status 'cancelled'")
	})

	It("rejects a schedule time that is too soon", func() {
		_, err := run("dash", "schedule", "C1234567892", "hello", "--in", "10s")
		assert.NotNil(GinkgoT(), err)
	})

	It("fails to connect to an unreachable backend", func() {
		_, err := run("dash", "connect", "--url", "http://127.0.0.1:1")
		assert.EqualError(GinkgoT(), err, "An unexpected error occurred")
	})
})
