package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MrCasCode/log-analyzer-pro/internal/events"
)

func TestEventSinkCollectsInOrder(t *testing.T) {
	bus := events.NewBus()
	defer bus.Close()

	ch := bus.Subscribe(16)
	sink := NewEventSink(ch)

	bus.Publish(events.Event{Kind: events.Processing})
	bus.Publish(events.Event{Kind: events.NewLines})

	assert.Eventually(t, func() bool { return len(sink.Events()) == 2 }, time.Second, 5*time.Millisecond)

	got := sink.Events()
	assert.Equal(t, events.Processing, got[0].Kind)
	assert.Equal(t, events.NewLines, got[1].Kind)
	assert.Equal(t, 1, sink.Count(events.Processing))
}
