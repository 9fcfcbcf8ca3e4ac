// Package events is the in-process attendance notification bus.
//
// Delivery is best effort and at most once: events published while nobody is
// subscribed are lost, and nothing is replayed to late subscribers.
package events

import (
	"sync"

	"github.com/rs/zerolog"

	"schoolboard/internal/logger"
	"schoolboard/internal/metrics"
)

// Event describes an attendance change that has just been written.
type Event struct {
	StudentID string `json:"studentId"`
	LessonID  int64  `json:"lessonId"`
	Present   bool   `json:"present"`
	Date      string `json:"date"`
}

// Publisher is the producer side of the bus.
type Publisher interface {
	Publish(ev Event)
}

// Bus fans events out to every registered callback.
type Bus struct {
	mu     sync.RWMutex
	subs   map[uint64]func(Event)
	nextID uint64
	log    zerolog.Logger
}

func NewBus() *Bus {
	return &Bus{
		subs: make(map[uint64]func(Event)),
		log:  logger.With("events"),
	}
}

// Subscribe registers fn and returns a function that removes it. Calling the
// returned function more than once has no further effect.
func (b *Bus) Subscribe(fn func(Event)) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.mu.Unlock()
	metrics.Subscribers.Inc()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			_, ok := b.subs[id]
			delete(b.subs, id)
			b.mu.Unlock()
			if ok {
				metrics.Subscribers.Dec()
			}
		})
	}
}

// Publish calls every subscriber registered at the time of the call, synchronously.
// A panicking subscriber is logged and skipped.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	snapshot := make([]func(Event), 0, len(b.subs))
	for _, fn := range b.subs {
		snapshot = append(snapshot, fn)
	}
	b.mu.RUnlock()

	metrics.EventsPublished.Inc()
	for _, fn := range snapshot {
		b.deliver(fn, ev)
	}
}

func (b *Bus) deliver(fn func(Event), ev Event) {
	defer func() {
		if r := recover(); r != nil {
			metrics.SubscriberPanics.Inc()
			b.log.Warn().Interface("panic", r).Str("student_id", ev.StudentID).Msg("attendance subscriber failed")
		}
	}()
	fn(ev)
}

// Len returns the number of registered subscribers.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
