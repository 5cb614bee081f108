// Package pipeline implements the bounded, parallel format -> filter ->
// search processing stage that turns freshly read raw lines into records.
// Each batch submitted for a source is split into chunks processed
// concurrently by a worker pool, then committed to the analysis store in
// the original line order.
package pipeline

import (
	"context"
	"runtime"
	"sync"

	"github.com/alitto/pond"

	"github.com/MrCasCode/log-analyzer-pro/internal/events"
	"github.com/MrCasCode/log-analyzer-pro/internal/filter"
	"github.com/MrCasCode/log-analyzer-pro/internal/format"
	"github.com/MrCasCode/log-analyzer-pro/internal/logline"
	"github.com/MrCasCode/log-analyzer-pro/internal/regexcache"
	"github.com/MrCasCode/log-analyzer-pro/internal/search"
)

// queueCapacity bounds how many raw-line batches can be pending before
// Submit starts blocking the source goroutine that produced them.
const queueCapacity = 1 << 20

// job is one unit of pipeline work: a batch of consecutively-indexed raw
// lines from a single source.
type job struct {
	sourceID   string
	rawLines   []string
	startIndex uint64
}

// SearchState is a snapshot of the currently active search, read once per
// committed batch so every record in that batch is evaluated against the
// same query and generation.
type SearchState struct {
	Pattern    string
	Generation string
	Active     bool
}

// Deps are the collaborators a Pipeline needs to turn raw lines into
// committed records. All fields except Parallelism are required.
type Deps struct {
	FormatCompiler *format.Compiler
	RegexCache     *regexcache.Cache
	Bus            *events.Bus

	// FormatPattern returns the format pattern currently assigned to a
	// source.
	FormatPattern func(sourceID string) string
	// EnabledFilters returns the compiled, enabled filter set currently
	// active, in priority order.
	EnabledFilters func() []filter.LogFilter
	// Search returns the currently active search query.
	Search func() SearchState

	// CommitFormatted is called once per processed batch with every
	// formatted record, before filtering, in original order. This is
	// the history a filter toggle replays against.
	CommitFormatted func(sourceID string, lines []logline.LogLine)
	// CommitFiltered is called once per processed batch with the
	// records that survived filtering, in original order.
	CommitFiltered func(sourceID string, lines []logline.LogLine)
	// CommitSearch is called once per processed batch with the filtered
	// records that also matched the active search query.
	CommitSearch func(sourceID string, lines []logline.LogLine, generation string)

	// Parallelism sets the worker pool size and the chunk size
	// (max(batchLen/Parallelism, Parallelism)); it defaults to the CPU
	// count if <= 0.
	Parallelism int
}

// Pipeline processes raw line batches concurrently per chunk but commits
// each batch's results in order.
type Pipeline struct {
	deps  Deps
	queue chan job
	pool  *pond.WorkerPool
}

// New constructs a Pipeline from deps. Call Run in its own goroutine to
// start consuming submitted batches.
func New(deps Deps) *Pipeline {
	if deps.Parallelism <= 0 {
		deps.Parallelism = runtime.NumCPU()
	}
	return &Pipeline{
		deps:  deps,
		queue: make(chan job, queueCapacity),
		pool:  pond.New(deps.Parallelism, 0),
	}
}

// Submit enqueues a batch of raw lines for processing. startIndex is the
// numeric index the first line in rawLines will receive. It blocks if the
// queue is full.
func (p *Pipeline) Submit(sourceID string, rawLines []string, startIndex uint64) {
	if len(rawLines) == 0 {
		return
	}
	p.queue <- job{sourceID: sourceID, rawLines: rawLines, startIndex: startIndex}
}

// Run consumes submitted batches until ctx is cancelled or Close is
// called. It's meant to run in its own goroutine.
func (p *Pipeline) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j, ok := <-p.queue:
			if !ok {
				return
			}
			p.process(j)
		}
	}
}

// Close stops accepting new batches and releases the worker pool. Pending
// batches already submitted are dropped.
func (p *Pipeline) Close() {
	close(p.queue)
	p.pool.StopAndWait()
}

// chunkBounds splits n items into chunks sized max(n/parallelism,
// parallelism), returning each chunk's [start, end) bounds.
func chunkBounds(n, parallelism int) [][2]int {
	if n == 0 {
		return nil
	}
	size := n / parallelism
	if size < parallelism {
		size = parallelism
	}
	if size < 1 {
		size = 1
	}
	var bounds [][2]int
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		bounds = append(bounds, [2]int{start, end})
	}
	return bounds
}

func (p *Pipeline) process(j job) {
	batchFrom := j.startIndex
	batchTo := j.startIndex + uint64(len(j.rawLines))
	p.deps.Bus.Publish(events.Event{Kind: events.Processing, LogID: j.sourceID, From: batchFrom, To: batchTo})

	pattern := p.deps.FormatPattern(j.sourceID)
	filters := p.deps.EnabledFilters()
	searchState := p.deps.Search()

	bounds := chunkBounds(len(j.rawLines), p.deps.Parallelism)
	results := make([]chunkResult, len(bounds))

	var wg sync.WaitGroup
	for i, b := range bounds {
		i, b := i, b
		wg.Add(1)
		p.pool.Submit(func() {
			defer wg.Done()
			results[i] = p.processChunk(j, pattern, filters, searchState, b[0], b[1])
		})
	}
	wg.Wait()

	var formatted, filtered, matched []logline.LogLine
	for _, r := range results {
		formatted = append(formatted, r.formatted...)
		filtered = append(filtered, r.filtered...)
		matched = append(matched, r.matched...)
	}

	if len(formatted) > 0 {
		p.deps.CommitFormatted(j.sourceID, formatted)
	}
	if len(filtered) > 0 {
		p.deps.CommitFiltered(j.sourceID, filtered)
		p.deps.Bus.Publish(events.Event{Kind: events.NewLines, LogID: j.sourceID, From: batchFrom, To: batchTo})
	}
	if searchState.Active && len(matched) > 0 {
		p.deps.CommitSearch(j.sourceID, matched, searchState.Generation)
		p.deps.Bus.Publish(events.Event{Kind: events.NewSearchLines, LogID: j.sourceID, Generation: searchState.Generation, From: batchFrom, To: batchTo})
	}
}

type chunkResult struct {
	formatted []logline.LogLine
	filtered  []logline.LogLine
	matched   []logline.LogLine
}

func (p *Pipeline) processChunk(j job, pattern string, filters []filter.LogFilter, searchState SearchState, start, end int) chunkResult {
	var res chunkResult
	for i := start; i < end; i++ {
		index := j.startIndex + uint64(i)
		rec := format.Apply(p.deps.FormatCompiler, pattern, j.sourceID, j.rawLines[i], index)
		res.formatted = append(res.formatted, rec)

		out, ok := filter.Apply(filters, rec)
		if !ok {
			continue
		}
		res.filtered = append(res.filtered, out)

		if searchState.Active && search.Matches(p.deps.RegexCache, searchState.Pattern, out) {
			res.matched = append(res.matched, out)
		}
	}
	return res
}
