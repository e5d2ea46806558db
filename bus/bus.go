// Package bus is a queued, topic-keyed message bus. Posting never delivers
// directly: messages sit in a FIFO queue until Dispatch, which hands each
// one to the handlers subscribed to its topic. Camera configuration and
// view/projection publication both ride on it.
package bus

// Handler receives every message posted to a subscribed topic.
type Handler func(msg any)

type envelope struct {
	topic string
	msg   any
}

// Bus queues messages per topic and delivers them on Dispatch.
// It is not safe for concurrent use; drive it from the game loop.
type Bus struct {
	handlers map[string][]Handler
	queue    []envelope
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{handlers: map[string][]Handler{}}
}

// Subscribe registers h for every message posted to topic.
func (b *Bus) Subscribe(topic string, h Handler) {
	if topic == "" {
		panic("bus: topic is required")
	}
	if h == nil {
		panic("bus: handler is required")
	}
	b.handlers[topic] = append(b.handlers[topic], h)
}

// Post queues msg for delivery to topic on the next Dispatch.
func (b *Bus) Post(topic string, msg any) {
	if topic == "" {
		panic("bus: topic is required")
	}
	b.queue = append(b.queue, envelope{topic: topic, msg: msg})
}

// Dispatch delivers every queued message in post order and returns the
// number delivered. Messages with no subscriber are dropped. Messages
// posted during delivery wait for the next Dispatch.
func (b *Bus) Dispatch() int {
	pending := b.queue
	b.queue = nil
	delivered := 0
	for _, env := range pending {
		hs := b.handlers[env.topic]
		if len(hs) == 0 {
			continue
		}
		for _, h := range hs {
			h(env.msg)
		}
		delivered++
	}
	return delivered
}

// Pending returns the number of undelivered messages.
func (b *Bus) Pending() int {
	return len(b.queue)
}
