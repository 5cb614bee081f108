package source

import (
	"context"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/influxdata/tail"
)

// reopenDelay is how long a File source waits before re-tailing after the
// underlying tailer exits with an error, giving the OS a moment before
// retrying.
const reopenDelay = 300 * time.Millisecond

// maxBatchSize bounds how many lines tailOnce accumulates before handing
// them to emit as one batch.
const maxBatchSize = 256

// File tails a single file from disk, resuming after a reopen at the line
// it had already emitted rather than from the start. File sources resume
// by line count; TCP sources do not resume at all.
type File struct {
	Path  string
	Clock clock.Clock

	// alreadyRead is how many lines have already been emitted across
	// every previous open of this file; a fresh File starts at 0.
	alreadyRead int
}

// NewFile returns a File source starting from the given already-read line
// count (0 for a brand new log).
func NewFile(path string, alreadyRead int, clk clock.Clock) *File {
	if clk == nil {
		clk = clock.New()
	}
	return &File{Path: path, Clock: clk, alreadyRead: alreadyRead}
}

func (f *File) Address() string { return f.Path }

// Run tails f.Path from the beginning, skipping the first alreadyRead
// lines, and emits every line after that as it is written. If the tailer
// exits (file rotated away, transient error) it reopens from the
// beginning again after reopenDelay, skipping however many lines it has
// now emitted in total so nothing is duplicated or lost.
func (f *File) Run(ctx context.Context, emit func(lines []string)) error {
	for {
		if err := f.tailOnce(ctx, emit); err != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-f.Clock.After(reopenDelay):
		}
	}
}

// tailOnce opens the file and emits lines as they arrive. Rather than
// handing each line to emit as soon as it is read, it first drains
// whatever else the tailer already has buffered (up to maxBatchSize) so a
// backlog or a fast writer is submitted as one batch instead of one
// pipeline job per line.
func (f *File) tailOnce(ctx context.Context, emit func(lines []string)) error {
	t, err := tail.TailFile(f.Path, tail.Config{
		ReOpen:    false,
		Follow:    true,
		MustExist: false,
		Logger:    tail.DiscardingLogger,
		Location:  &tail.SeekInfo{Whence: 0},
	})
	if err != nil {
		return err
	}
	defer t.Stop()

	skip := f.alreadyRead
	skipped := 0
	accept := func(raw string) (string, bool) {
		if skipped < skip {
			skipped++
			return "", false
		}
		f.alreadyRead++
		return strings.TrimRight(raw, "\r"), true
	}

	for {
		var batch []string

		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-t.Lines:
			if !ok {
				return nil
			}
			if line.Err != nil {
				return line.Err
			}
			if text, keep := accept(line.Text); keep {
				batch = append(batch, text)
			}
		}

	drain:
		for len(batch) < maxBatchSize {
			select {
			case line, ok := <-t.Lines:
				if !ok {
					break drain
				}
				if line.Err != nil {
					if len(batch) > 0 {
						emit(batch)
					}
					return line.Err
				}
				if text, keep := accept(line.Text); keep {
					batch = append(batch, text)
				}
			default:
				break drain
			}
		}

		if len(batch) > 0 {
			emit(batch)
		}
	}
}
