package source

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLines(t *testing.T, path string, lines ...string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	defer f.Close()
	for _, l := range lines {
		_, err := f.WriteString(l + "\n")
		require.NoError(t, err)
	}
}

type collector struct {
	mu    sync.Mutex
	lines []string
}

func (c *collector) emit(lines []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, lines...)
}

func (c *collector) snapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.lines))
	copy(out, c.lines)
	return out
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition never became true")
}

func TestFileSourceEmitsExistingAndNewLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.log")
	writeLines(t, path, "one", "two")

	c := &collector{}
	f := NewFile(path, 0, clock.NewMock())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go f.Run(ctx, c.emit)

	waitFor(t, 2*time.Second, func() bool { return len(c.snapshot()) >= 2 })

	writeLines(t, path, "three")
	waitFor(t, 2*time.Second, func() bool { return len(c.snapshot()) >= 3 })

	assert.Equal(t, []string{"one", "two", "three"}, c.snapshot())
}

func TestFileSourceResumesFromAlreadyReadCount(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.log")
	writeLines(t, path, "one", "two", "three")

	c := &collector{}
	f := NewFile(path, 2, clock.NewMock())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go f.Run(ctx, c.emit)

	waitFor(t, 2*time.Second, func() bool { return len(c.snapshot()) >= 1 })
	assert.Equal(t, []string{"three"}, c.snapshot())
}
