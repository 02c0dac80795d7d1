package eventbus

import (
	evbus "github.com/asaskevich/EventBus"
	"go.uber.org/zap"
)

// Handler receives the published value of a topic.
type Handler func(data interface{})

// EventBus is an in-process publish/subscribe bus.
// Handlers run asynchronously; Stop waits for in-flight handlers.
type EventBus struct {
	log *zap.SugaredLogger
	bus evbus.Bus
}

func NewEventBus(log *zap.SugaredLogger) *EventBus {
	if log == nil {
		log = zap.S()
	}
	return &EventBus{
		log: log.Named("eventbus"),
		bus: evbus.New(),
	}
}

func (b *EventBus) Name() string {
	return "eventbus"
}

func (b *EventBus) Broadcast(topic string, data interface{}) {
	if !b.bus.HasCallback(topic) {
		return
	}
	b.log.Debugf("broadcasting %s: %+v", topic, data)
	b.bus.Publish(topic, data)
}

func (b *EventBus) Subscribe(topic string, handler Handler) {
	fn := func(data interface{}) {
		defer func() {
			if e := recover(); e != nil {
				b.log.Errorf("handler of %s panic: %v", topic, e)
			}
		}()
		handler(data)
	}
	if err := b.bus.SubscribeAsync(topic, fn, false); err != nil {
		// only returned for a non-func handler
		panic(err)
	}
}

func (b *EventBus) SubscribeSync(topic string, handler Handler) {
	if err := b.bus.Subscribe(topic, handler); err != nil {
		panic(err)
	}
}

// Wait blocks until every asynchronous handler has returned.
func (b *EventBus) Wait() {
	b.bus.WaitAsync()
}

func (b *EventBus) Stop() error {
	b.Wait()
	return nil
}
