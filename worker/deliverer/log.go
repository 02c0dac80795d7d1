package deliverer

import (
	"context"

	"go.uber.org/zap"
)

// LogDeliverer writes messages to the log instead of posting them.
type LogDeliverer struct {
	log *zap.SugaredLogger
}

func NewLogDeliverer(log *zap.SugaredLogger) *LogDeliverer {
	if log == nil {
		log = zap.S()
	}
	return &LogDeliverer{log: log.Named("deliverer")}
}

func (d *LogDeliverer) Deliver(ctx context.Context, msg *Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.log.Infow("message posted",
		"id", msg.ID,
		"channel_id", msg.ChannelID,
		"channel", msg.ChannelName,
		"content", msg.Content,
	)
	return nil
}
