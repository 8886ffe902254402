package bus

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mzrn1122/SMD/pkg/common"
	"github.com/mzrn1122/SMD/pkg/metrics"
)

const (
	TopicIntake               string = "events.intake"
	TopicHeartbeat            string = "events.heartbeat"
	TopicError                string = "events.error"
	TopicCommands             string = "commands.out"
	TopicScheduleSync         string = "commands.scheduleSync"
	TopicScheduleSyncResponse string = "commands.scheduleSync.response"
)

var ErrClosed = errors.New("event bus closed")

type Event struct {
	Topic       string
	Payload     any
	PublishedAt time.Time
}

type Handler func(Event)

// Subscription identifies one registered handler.
type Subscription struct {
	Topic string
	id    uint64
}

// Publisher is the producer side of the bus.
type Publisher interface {
	Publish(topic string, payload any) error
}

type Subscriber interface {
	Subscribe(topic string, handler Handler) Subscription
	Unsubscribe(sub Subscription) bool
}

type subscriber struct {
	id      uint64
	handler Handler
}

type topicState struct {
	// deliver serialises publishers so delivery order matches publish order.
	deliver sync.Mutex
	subs    []subscriber
}

// Bus is an in-process publish/subscribe registry. Delivery is synchronous in
// the publishing goroutine, in subscription order. A handler must not publish
// to its own topic synchronously.
type Bus struct {
	mu     sync.RWMutex
	topics map[string]*topicState
	nextID uint64
	closed bool
	now    func() time.Time
}

func New() *Bus {
	return &Bus{
		topics: make(map[string]*topicState),
		now:    time.Now,
	}
}

func (b *Bus) topic(name string) *topicState {
	t, ok := b.topics[name]
	if !ok {
		t = &topicState{}
		b.topics[name] = t
	}
	return t
}

func (b *Bus) Subscribe(topic string, handler Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	t := b.topic(topic)
	t.subs = append(t.subs, subscriber{id: b.nextID, handler: handler})

	return Subscription{Topic: topic, id: b.nextID}
}

// Unsubscribe removes the handler; it reports false when the subscription was
// already gone.
func (b *Bus) Unsubscribe(sub Subscription) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.topics[sub.Topic]
	if !ok {
		return false
	}
	for i, s := range t.subs {
		if s.id == sub.id {
			subs := make([]subscriber, 0, len(t.subs)-1)
			subs = append(subs, t.subs[:i]...)
			t.subs = append(subs, t.subs[i+1:]...)
			return true
		}
	}
	return false
}

func (b *Bus) Subscribers(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if t, ok := b.topics[topic]; ok {
		return len(t.subs)
	}
	return 0
}

func (b *Bus) Publish(topic string, payload any) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return fmt.Errorf("publish to %s: %w", topic, ErrClosed)
	}
	t := b.topic(topic)
	b.mu.Unlock()

	t.deliver.Lock()
	defer t.deliver.Unlock()

	b.mu.RLock()
	subs := t.subs
	b.mu.RUnlock()

	metrics.BusEventsPublished.WithLabelValues(topic).Inc()
	if len(subs) == 0 {
		metrics.BusEventsDropped.WithLabelValues(topic).Inc()
		return nil
	}

	event := Event{Topic: topic, Payload: payload, PublishedAt: b.now()}
	for _, s := range subs {
		b.deliver(s, event)
	}
	return nil
}

func (b *Bus) deliver(s subscriber, event Event) {
	defer func() {
		if r := recover(); r != nil {
			metrics.BusHandlerPanics.WithLabelValues(event.Topic).Inc()
			common.GetLoggerWith(common.LoggerNameEventBus, zap.String(common.LoggerFieldTopic, event.Topic)).
				Error("Subscriber handler panicked", zap.Uint64("subscription", s.id), zap.Any("panic", r))
		}
	}()

	s.handler(event)
}

// Close makes every later Publish fail with ErrClosed. Subscriptions are kept
// so in-flight deliveries finish normally.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
}
