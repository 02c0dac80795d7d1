package eventbus

const (
	EventMessageScheduled = "message.scheduled"
	EventMessageCancelled = "message.cancelled"
	EventMessageSent      = "message.sent"
	EventMessageFailed    = "message.failed"
	EventChannelsChanged  = "channels.changed"
)

// MessageEvent is published for every scheduled message status change.
type MessageEvent struct {
	ID        string
	ChannelID string
	Status    string
	Error     string
}

// ChannelsEvent is published when the channel set is written.
type ChannelsEvent struct {
	IDs []string
}
