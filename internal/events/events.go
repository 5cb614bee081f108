// Package events defines the analyzer's notification bus: a lossy
// broadcast of processing lifecycle events, consumed by subscribers that
// only care about the latest state rather than every historical tick.
package events

// Kind identifies which lifecycle notification an Event carries; the
// Event fields that apply depend on it.
type Kind int

const (
	Processing Kind = iota
	NewLines
	NewSearchLines
	Filtering
	FilterFinished
	Searching
	SearchFinished
)

func (k Kind) String() string {
	switch k {
	case Processing:
		return "Processing"
	case NewLines:
		return "NewLines"
	case NewSearchLines:
		return "NewSearchLines"
	case Filtering:
		return "Filtering"
	case FilterFinished:
		return "FilterFinished"
	case Searching:
		return "Searching"
	case SearchFinished:
		return "SearchFinished"
	default:
		return "Unknown"
	}
}

// Event is one notification on the bus.
type Event struct {
	Kind Kind
	// LogID identifies which source this event concerns, when applicable
	// (Processing, NewLines, NewSearchLines, Filtering, FilterFinished).
	// Empty for log-wide events.
	LogID string
	// From/To describe the half-open range of records being processed or
	// newly available, for Processing/NewLines/NewSearchLines.
	From, To uint64
	// Generation stamps a Searching/NewSearchLines/SearchFinished event
	// with the search request it belongs to (a uuid minted per AddSearch
	// call), so a consumer can discard stale appends from a search that
	// has since been superseded.
	Generation string
}

// Bus is a lossy, fan-out broadcaster: each subscriber has a small buffered
// channel, and a slow subscriber drops events rather than blocking
// producers. Subscribers must not assume every event is delivered, only
// that delivered events arrive in publish order per subscriber.
type Bus struct {
	subscribe   chan chan Event
	unsubscribe chan chan Event
	publish     chan Event
	done        chan struct{}
}

// NewBus starts a Bus's dispatch loop. Callers must call Close when done.
func NewBus() *Bus {
	b := &Bus{
		subscribe:   make(chan chan Event),
		unsubscribe: make(chan chan Event),
		publish:     make(chan Event, 64),
		done:        make(chan struct{}),
	}
	go b.run()
	return b
}

func (b *Bus) run() {
	subscribers := make(map[chan Event]struct{})
	for {
		select {
		case ch := <-b.subscribe:
			subscribers[ch] = struct{}{}
		case ch := <-b.unsubscribe:
			delete(subscribers, ch)
			close(ch)
		case e := <-b.publish:
			for ch := range subscribers {
				select {
				case ch <- e:
				default:
					// subscriber too slow, drop this event for it
				}
			}
		case <-b.done:
			for ch := range subscribers {
				close(ch)
			}
			return
		}
	}
}

// Subscribe registers a new listener and returns its channel. Capacity
// bounds how many undelivered events it can hold before dropping.
func (b *Bus) Subscribe(capacity int) chan Event {
	ch := make(chan Event, capacity)
	select {
	case b.subscribe <- ch:
	case <-b.done:
		close(ch)
	}
	return ch
}

// Unsubscribe removes a listener previously returned by Subscribe.
func (b *Bus) Unsubscribe(ch chan Event) {
	select {
	case b.unsubscribe <- ch:
	case <-b.done:
	}
}

// Publish broadcasts e to every current subscriber, dropping it for any
// subscriber whose buffer is full.
func (b *Bus) Publish(e Event) {
	select {
	case b.publish <- e:
	case <-b.done:
	}
}

// Close shuts the bus down, closing every subscriber channel.
func (b *Bus) Close() {
	close(b.done)
}
