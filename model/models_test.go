package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/chatsched/chatsched/db/entities"
	"github.com/chatsched/chatsched/utils"
	"github.com/stretchr/testify/assert"
)

func TestResultJSON(t *testing.T) {
	b, err := json.Marshal(Failure("Channel not found"))
	assert.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":"Channel not found"}`, string(b))

	b, err = json.Marshal(ScheduleResult{Result: OK(), MessageID: "msg_1"})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"messageId":"msg_1"}`, string(b))

	b, err = json.Marshal(ChannelsResult{Result: OK(), Channels: []*entities.Channel{{ID: "C1", Name: "general"}}})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"channels":[{"id":"C1","name":"general","isPrivate":false}]}`, string(b))

	var res ConnectResult
	assert.NoError(t, json.Unmarshal([]byte(`{"success":true,"workspace":{"id":"T1","name":"My Workspace","domain":"myworkspace"}}`), &res))
	assert.True(t, res.Success)
	assert.Equal(t, "myworkspace", res.Workspace.Domain)
}

func TestScheduleRequestValidate(t *testing.T) {
	var req ScheduleRequest
	assert.NoError(t, json.Unmarshal([]byte(`{"channelId":"C1","content":"hi","scheduledTime":"2026-10-20T09:00:00Z"}`), &req))
	assert.NoError(t, utils.Validate(&req))
	assert.Equal(t, 2026, req.ScheduledTime.Year())

	err := utils.Validate(&ScheduleRequest{Content: " "})
	assert.Error(t, err)
}

func TestCheckScheduleTime(t *testing.T) {
	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, now.Add(time.Minute), MinScheduleTime(now))

	assert.NoError(t, CheckScheduleTime(now.Add(time.Minute), now, MinScheduleLead))
	assert.NoError(t, CheckScheduleTime(now.Add(time.Hour), now, MinScheduleLead))

	err := CheckScheduleTime(now.Add(59*time.Second), now, MinScheduleLead)
	assert.True(t, errors.Is(err, ErrScheduleTooSoon))
	assert.EqualError(t, err, "scheduled time is too soon: must be at least 1m0s in the future")

	assert.Error(t, CheckScheduleTime(now.Add(-time.Hour), now, MinScheduleLead))
}
