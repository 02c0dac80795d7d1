package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/chatsched/chatsched"
	"github.com/chatsched/chatsched/model"
	"github.com/chatsched/chatsched/pkg/types"
	"github.com/go-resty/resty/v2"
)

type HTTPOptions struct {
	URL     string
	Timeout time.Duration
}

// HTTPClient talks to the admin API.
type HTTPClient struct {
	c *resty.Client
}

var _ Client = &HTTPClient{}

func NewHTTPClient(opts HTTPOptions) *HTTPClient {
	c := resty.New().
		SetBaseURL(opts.URL).
		SetHeader("User-Agent", "chatsched/"+chatsched.VERSION).
		SetHeader("Content-Type", "application/json")
	if opts.Timeout > 0 {
		c.SetTimeout(opts.Timeout)
	}
	return &HTTPClient{c: c}
}

// ResponseError is a fault: the server answered without a result envelope.
type ResponseError struct {
	StatusCode int
	Body       string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("unexpected response: %d %s", e.StatusCode, e.Body)
}

// do sends the request and decodes the envelope into result.
// 2xx and 4xx responses carrying an envelope are results, everything else is a fault.
func (c *HTTPClient) do(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	req := c.c.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return err
	}

	code := resp.StatusCode()
	isResult := (code >= 200 && code < 300) || (code >= 400 && code < 500)
	if !isResult {
		return &ResponseError{StatusCode: code, Body: resp.String()}
	}

	var envelope struct {
		Success *bool  `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil || envelope.Success == nil {
		return &ResponseError{StatusCode: code, Body: resp.String()}
	}
	if code >= 400 && *envelope.Success {
		return &ResponseError{StatusCode: code, Body: resp.String()}
	}

	return json.Unmarshal(resp.Body(), result)
}

func (c *HTTPClient) ConnectWorkspace(ctx context.Context) (*model.ConnectResult, error) {
	var result model.ConnectResult
	if err := c.do(ctx, http.MethodPost, "/workspace/connect", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) GetChannels(ctx context.Context) (*model.ChannelsResult, error) {
	var result model.ChannelsResult
	if err := c.do(ctx, http.MethodGet, "/channels", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) SendMessage(ctx context.Context, channelID string, content string) (*model.Result, error) {
	var result model.Result
	body := model.SendRequest{ChannelID: channelID, Content: content}
	if err := c.do(ctx, http.MethodPost, "/messages", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) ScheduleMessage(ctx context.Context, channelID string, content string, at time.Time) (*model.ScheduleResult, error) {
	var result model.ScheduleResult
	scheduledTime := types.NewTime(at)
	body := model.ScheduleRequest{ChannelID: channelID, Content: content, ScheduledTime: &scheduledTime}
	if err := c.do(ctx, http.MethodPost, "/scheduled-messages", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) GetScheduledMessages(ctx context.Context) (*model.MessagesResult, error) {
	var result model.MessagesResult
	if err := c.do(ctx, http.MethodGet, "/scheduled-messages", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetScheduledMessage is not part of Client; the dashboard only lists.
func (c *HTTPClient) GetScheduledMessage(ctx context.Context, messageID string) (*model.MessageResult, error) {
	var result model.MessageResult
	if err := c.do(ctx, http.MethodGet, "/scheduled-messages/"+url.PathEscape(messageID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) CancelScheduledMessage(ctx context.Context, messageID string) (*model.Result, error) {
	var result model.Result
	if err := c.do(ctx, http.MethodPost, "/scheduled-messages/"+url.PathEscape(messageID)+"/cancel", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
