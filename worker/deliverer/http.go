package deliverer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/chatsched/chatsched"
	"github.com/chatsched/chatsched/config/modules"
)

const maxErrorBody = 256

// HTTPDeliverer posts {"channel", "text"} JSON to the channel's webhook URL.
type HTTPDeliverer struct {
	timeout time.Duration
	client  *http.Client
}

type payload struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

func NewHTTPDeliverer(cfg *modules.WorkerDeliverer) *HTTPDeliverer {
	return &HTTPDeliverer{
		timeout: time.Duration(cfg.Timeout) * time.Millisecond,
		client:  &http.Client{},
	}
}

func (d *HTTPDeliverer) Deliver(ctx context.Context, msg *Message) error {
	if msg.WebhookURL == "" {
		return fmt.Errorf("channel %s has no webhook url", msg.ChannelID)
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	body, err := json.Marshal(payload{Channel: msg.ChannelName, Text: msg.Content})
	if err != nil {
		return err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, msg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json; charset=utf-8")
	request.Header.Set("User-Agent", "chatsched/"+chatsched.VERSION)

	response, err := d.client.Do(request)
	if err != nil {
		return err
	}
	defer func() { _ = response.Body.Close() }()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(response.Body, maxErrorBody))
		return fmt.Errorf("unexpected status %d: %s", response.StatusCode, bytes.TrimSpace(b))
	}
	_, _ = io.Copy(io.Discard, response.Body)
	return nil
}
