package deliverer

import (
	"context"
	"fmt"

	"github.com/chatsched/chatsched/config/modules"
	"go.uber.org/zap"
)

//go:generate mockgen -source=deliverer.go -destination=../../test/mocks/deliverer.go -package=mocks

// Deliverer posts a message to a channel.
type Deliverer interface {
	Deliver(ctx context.Context, msg *Message) error
}

// Message is a post addressed to a channel.
type Message struct {
	// ID is the scheduled message id, empty for immediate sends.
	ID          string
	ChannelID   string
	ChannelName string
	WebhookURL  string
	Content     string
}

func (m *Message) String() string {
	if m.ID == "" {
		return fmt.Sprintf("#%s (%s)", m.ChannelName, m.ChannelID)
	}
	return fmt.Sprintf("%s -> #%s (%s)", m.ID, m.ChannelName, m.ChannelID)
}

// Router delivers through the HTTP deliverer when the channel has a
// webhook URL and through the fallback deliverer otherwise.
type Router struct {
	HTTP     Deliverer
	Fallback Deliverer
}

func (r *Router) Deliver(ctx context.Context, msg *Message) error {
	if msg.WebhookURL != "" && r.HTTP != nil {
		return r.HTTP.Deliver(ctx, msg)
	}
	return r.Fallback.Deliver(ctx, msg)
}

// New returns the rate-limited deliverer the service and worker share:
// channels with a webhook URL are posted to, the others are logged.
func New(cfg modules.WorkerDeliverer, log *zap.SugaredLogger) Deliverer {
	router := &Router{
		HTTP:     NewHTTPDeliverer(&cfg),
		Fallback: NewLogDeliverer(log),
	}
	return NewRateLimited(router, cfg.RatePerSec)
}
