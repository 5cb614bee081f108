// Package testutil provides small test doubles shared across the
// analyzer's test suites: a mutex-guarded, ordered event collector.
package testutil

import (
	"sync"

	"github.com/MrCasCode/log-analyzer-pro/internal/events"
)

// EventSink collects every event delivered on a subscribed channel into an
// ordered, lock-protected slice a test can inspect after the fact.
type EventSink struct {
	mu     sync.Mutex
	events []events.Event
}

// NewEventSink starts draining ch into the sink until ch is closed.
// Events and Count return what has been collected so far.
func NewEventSink(ch chan events.Event) *EventSink {
	s := &EventSink{}
	go func() {
		for e := range ch {
			s.mu.Lock()
			s.events = append(s.events, e)
			s.mu.Unlock()
		}
	}()
	return s
}

// Events returns a snapshot of every event collected so far.
func (s *EventSink) Events() []events.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]events.Event, len(s.events))
	copy(out, s.events)
	return out
}

// Count returns how many events of kind have been collected so far.
func (s *EventSink) Count(kind events.Kind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}
