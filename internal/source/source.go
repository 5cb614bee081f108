// Package source implements the log sources that feed raw lines into the
// analyzer: tailing a file and consuming a TCP line stream. Both expose
// the same minimal lifecycle so the analyzer can start, stop, and restart
// them uniformly.
package source

import "context"

// Source produces lines until ctx is cancelled or it decides to give up.
// Run blocks; emit is called with each newly available batch of lines, in
// order, and must not block for long since a source has no internal
// buffering of its own beyond what it hands to emit.
type Source interface {
	Run(ctx context.Context, emit func(lines []string)) error
	Address() string
}

// Handle adapts a running Source to logstore.Handle: Stop cancels its
// context and waits for Run to return.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Start launches src.Run in its own goroutine and returns a Handle to stop
// it. Errors from Run are swallowed here; callers that need to observe
// them should have emit (or the source itself) report failures via the
// event bus instead.
func Start(src Source, emit func(lines []string)) *Handle {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = src.Run(ctx, emit)
	}()
	return &Handle{cancel: cancel, done: done}
}

// Stop cancels the source's context and blocks until its goroutine exits.
func (h *Handle) Stop() {
	h.cancel()
	<-h.done
}
