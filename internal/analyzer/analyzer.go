// Package analyzer wires the stores, sources and pipeline together behind
// a single façade: LogAnalyzer is the public surface a front end drives
// to add logs, formats and filters, run searches, and page through
// results.
package analyzer

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/MrCasCode/log-analyzer-pro/internal/analysisstore"
	"github.com/MrCasCode/log-analyzer-pro/internal/events"
	"github.com/MrCasCode/log-analyzer-pro/internal/filter"
	"github.com/MrCasCode/log-analyzer-pro/internal/format"
	"github.com/MrCasCode/log-analyzer-pro/internal/logline"
	"github.com/MrCasCode/log-analyzer-pro/internal/logstore"
	"github.com/MrCasCode/log-analyzer-pro/internal/pipeline"
	"github.com/MrCasCode/log-analyzer-pro/internal/processingstore"
	"github.com/MrCasCode/log-analyzer-pro/internal/regexcache"
	"github.com/MrCasCode/log-analyzer-pro/internal/search"
	"github.com/MrCasCode/log-analyzer-pro/internal/source"
)

// SourceKind selects how a log is fed.
type SourceKind int

const (
	KindFile SourceKind = iota
	KindTCP
)

// LogAnalyzer is the analyzer's public facade.
type LogAnalyzer struct {
	logs       *logstore.Store
	processing *processingstore.Store
	analysis   *analysisstore.Store

	formatCompiler *format.Compiler
	regexCache     *regexcache.Cache

	bus      *events.Bus
	pipeline *pipeline.Pipeline

	clock clock.Clock

	mu           sync.RWMutex
	primaryColor *logline.Color

	searchMu         sync.Mutex
	searchPattern    string
	searchGeneration string
	searchActive     bool

	parallelism int

	cancelPipeline context.CancelFunc
}

// Option configures a LogAnalyzer at construction time.
type Option func(*LogAnalyzer)

// WithClock overrides the clock used by file/TCP sources, for tests.
func WithClock(c clock.Clock) Option {
	return func(a *LogAnalyzer) { a.clock = c }
}

// WithParallelism overrides the pipeline's worker count.
func WithParallelism(n int) Option {
	return func(a *LogAnalyzer) { a.parallelism = n }
}

// New constructs a LogAnalyzer and starts its processing pipeline.
func New(opts ...Option) *LogAnalyzer {
	a := &LogAnalyzer{
		logs:           logstore.New(),
		processing:     processingstore.New(),
		analysis:       analysisstore.New(),
		formatCompiler: format.NewCompiler(),
		regexCache:     regexcache.New(regexcache.DefaultSize),
		bus:            events.NewBus(),
		clock:          clock.New(),
	}
	for _, opt := range opts {
		opt(a)
	}

	deps := pipeline.Deps{
		FormatCompiler: a.formatCompiler,
		RegexCache:     a.regexCache,
		Bus:            a.bus,
		FormatPattern: func(sourceID string) string {
			pattern, _ := a.logs.GetFormat(sourceID)
			return pattern
		},
		EnabledFilters: func() []filter.LogFilter {
			return compileFilters(a.processing.GetEnabledFilters(), a.regexCache)
		},
		Search: func() pipeline.SearchState {
			a.searchMu.Lock()
			defer a.searchMu.Unlock()
			return pipeline.SearchState{Pattern: a.searchPattern, Generation: a.searchGeneration, Active: a.searchActive}
		},
		CommitFormatted: func(sourceID string, lines []logline.LogLine) {
			a.logs.AddLines(sourceID, lines)
		},
		CommitFiltered: func(sourceID string, lines []logline.LogLine) {
			a.analysis.AddLines(lines)
		},
		CommitSearch: func(sourceID string, lines []logline.LogLine, generation string) {
			a.searchMu.Lock()
			stale := generation != a.searchGeneration
			a.searchMu.Unlock()
			if stale {
				return
			}
			a.analysis.AddSearchLines(lines)
		},
		Parallelism: a.parallelism,
	}
	a.pipeline = pipeline.New(deps)

	ctx, cancel := context.WithCancel(context.Background())
	a.cancelPipeline = cancel
	go a.pipeline.Run(ctx)

	return a
}

// Close stops the pipeline, every running source, and the event bus.
func (a *LogAnalyzer) Close() {
	for _, l := range a.logs.GetLogs() {
		if h, ok := a.logs.GetSource(l.ID); ok {
			h.Stop()
		}
	}
	a.cancelPipeline()
	a.pipeline.Close()
	a.bus.Close()
}

// Events returns a channel subscribed to the analyzer's event bus.
func (a *LogAnalyzer) Events(bufferSize int) chan events.Event {
	return a.bus.Subscribe(bufferSize)
}

// Unsubscribe detaches a channel previously returned by Events.
func (a *LogAnalyzer) Unsubscribe(ch chan events.Event) {
	a.bus.Unsubscribe(ch)
}

// AddFormat registers a format by alias.
func (a *LogAnalyzer) AddFormat(alias, pattern string) error {
	f, err := format.New(alias, pattern, a.formatCompiler)
	if err != nil {
		return err
	}
	a.processing.AddFormat(f)
	return nil
}

// GetFormats returns every registered format.
func (a *LogAnalyzer) GetFormats() []format.Format {
	return a.processing.GetFormats()
}

// AddFilter registers a filter. It starts disabled.
func (a *LogAnalyzer) AddFilter(f filter.Filter) {
	a.processing.AddFilter(f)
}

// GetFilters returns every registered filter with its enabled flag.
func (a *LogAnalyzer) GetFilters() []processingstore.NamedFilter {
	return a.processing.GetFilters()
}

// ToggleFilter flips a filter's enabled flag and replays every source's
// formatted history through the new filter set, so the filtered and
// search views reflect the change without losing or duplicating any
// record. Each source publishes its own Filtering/FilterFinished pair
// around its replay, with a NewLines event in between when at least one
// of its records passes the new filter set.
func (a *LogAnalyzer) ToggleFilter(alias string) {
	a.processing.ToggleFilter(alias)

	a.analysis.ResetLog()
	a.analysis.ResetSearch()

	filters := compileFilters(a.processing.GetEnabledFilters(), a.regexCache)
	a.searchMu.Lock()
	searchPattern, searchActive := a.searchPattern, a.searchActive
	a.searchMu.Unlock()

	var g errgroup.Group
	for _, info := range a.logs.GetLogs() {
		info := info
		g.Go(func() error {
			a.bus.Publish(events.Event{Kind: events.Filtering, LogID: info.ID})
			defer a.bus.Publish(events.Event{Kind: events.FilterFinished, LogID: info.ID})

			formatted := a.logs.ExtractLines(info.ID)
			a.logs.AddLines(info.ID, formatted)

			var filtered, matched []logline.LogLine
			for _, rec := range formatted {
				out, ok := filter.Apply(filters, rec)
				if !ok {
					continue
				}
				filtered = append(filtered, out)
				if searchActive && search.Matches(a.regexCache, searchPattern, out) {
					matched = append(matched, out)
				}
			}
			if len(filtered) > 0 {
				a.analysis.AddLines(filtered)
				a.bus.Publish(events.Event{Kind: events.NewLines, LogID: info.ID, From: 0, To: uint64(len(filtered))})
			}
			if len(matched) > 0 {
				a.analysis.AddSearchLines(matched)
			}
			return nil
		})
	}
	g.Wait()
}

// AddSearch sets the active search query and replays the current filtered
// log against it. Each call bumps the search generation so that any
// pipeline commits still in flight for a previous query are dropped
// instead of corrupting the new search's results.
func (a *LogAnalyzer) AddSearch(pattern string) {
	generation := uuid.NewString()
	a.searchMu.Lock()
	a.searchGeneration = generation
	a.searchPattern = pattern
	a.searchActive = true
	a.searchMu.Unlock()

	a.analysis.ResetSearch()
	a.analysis.AddSearchQuery(pattern)

	a.bus.Publish(events.Event{Kind: events.Searching, Generation: generation})
	defer func() {
		a.searchMu.Lock()
		current := a.searchGeneration
		a.searchMu.Unlock()
		if current == generation {
			a.bus.Publish(events.Event{Kind: events.SearchFinished, Generation: generation})
		}
	}()

	total := a.analysis.GetTotalLogLines()
	const pageSize = 4096
	for from := 0; from < total; from += pageSize {
		a.searchMu.Lock()
		stale := a.searchGeneration != generation
		a.searchMu.Unlock()
		if stale {
			return
		}
		to := from + pageSize
		if to > total {
			to = total
		}
		var matched []logline.LogLine
		for _, rec := range a.analysis.GetLogLines(from, to) {
			if search.Matches(a.regexCache, pattern, rec) {
				matched = append(matched, rec)
			}
		}
		if len(matched) > 0 {
			a.analysis.AddSearchLines(matched)
		}
	}
}

// ClearSearch deactivates the current search without losing its query
// text in the store.
func (a *LogAnalyzer) ClearSearch() {
	a.searchMu.Lock()
	a.searchGeneration = uuid.NewString()
	a.searchActive = false
	a.searchMu.Unlock()
	a.analysis.ResetSearch()
}

// AddLog registers a new source. name is its unique id/alias; formatPattern
// is applied to every raw line it produces. fromBeginning only affects
// KindFile: when false, lines already in the file at open time are
// skipped and only lines appended afterward are processed.
func (a *LogAnalyzer) AddLog(name string, kind SourceKind, address, formatPattern string, fromBeginning bool) error {
	var src source.Source
	switch kind {
	case KindFile:
		resumeFrom := 0
		if !fromBeginning {
			n, err := countLines(address)
			if err != nil {
				return err
			}
			resumeFrom = n
		}
		src = source.NewFile(address, resumeFrom, a.clock)
	case KindTCP:
		src = source.NewTCP(address, a.clock)
	default:
		return fmt.Errorf("unknown source kind %v", kind)
	}

	// Register before starting the source so its enabled flag exists the
	// moment the first line can possibly arrive.
	a.logs.AddLog(name, formatPattern, nil)

	var counter uint64
	var mu sync.Mutex
	handle := source.Start(src, func(lines []string) {
		if !a.logs.IsEnabled(name) {
			return
		}
		mu.Lock()
		startIndex := counter
		counter += uint64(len(lines))
		mu.Unlock()
		a.pipeline.Submit(name, lines, startIndex)
	})
	a.logs.SetSource(name, handle)
	return nil
}

// ToggleLog enables or disables a source. A disabled source's tailer or
// listener keeps running (so it doesn't lose its place or connection),
// but its lines are dropped before reaching the pipeline.
func (a *LogAnalyzer) ToggleLog(name string) bool {
	return a.logs.ToggleLog(name)
}

// GetLogs returns every registered source.
func (a *LogAnalyzer) GetLogs() []logstore.LogInfo {
	return a.logs.GetLogs()
}

// GetLogLines returns the styled [from, to) window of the filtered log.
func (a *LogAnalyzer) GetLogLines(from, to int) []logline.Styled {
	return a.styleAll(a.analysis.GetLogLines(from, to))
}

// GetSearchLines returns the styled [from, to) window of the search log,
// spans annotated against the active search query.
func (a *LogAnalyzer) GetSearchLines(from, to int) []logline.Styled {
	return a.styleSearch(a.analysis.GetSearchLines(from, to))
}

// GetLogLinesContaining returns up to n styled filtered-log records
// centered on the record with the given numeric index, along with
// windowStart (the returned window's position in the full filtered log)
// and offset (the position of index's record within the returned slice),
// so a caller can center a view on it.
func (a *LogAnalyzer) GetLogLinesContaining(index uint64, n int) (records []logline.Styled, windowStart, offset int) {
	recs, windowStart, offset := a.analysis.GetLogLinesContaining(index, n)
	return a.styleAll(recs), windowStart, offset
}

// GetSearchLinesContaining returns up to n styled search-log records
// centered on the record with the given numeric index, along with
// windowStart and offset as described on GetLogLinesContaining.
func (a *LogAnalyzer) GetSearchLinesContaining(index uint64, n int) (records []logline.Styled, windowStart, offset int) {
	recs, windowStart, offset := a.analysis.GetSearchLinesContaining(index, n)
	return a.styleSearch(recs), windowStart, offset
}

// GetTotalLogLines returns the filtered log's current length.
func (a *LogAnalyzer) GetTotalLogLines() int { return a.analysis.GetTotalLogLines() }

// GetTotalRawLines returns the number of raw lines read across every
// registered source, regardless of formatting or filtering.
func (a *LogAnalyzer) GetTotalRawLines() int { return a.logs.GetTotalLinesAllSources() }

// GetTotalSearchLines returns the search log's current length.
func (a *LogAnalyzer) GetTotalSearchLines() int { return a.analysis.GetTotalSearchLines() }

// SetPrimaryColor sets the fallback color applied to records that no
// filter colored.
func (a *LogAnalyzer) SetPrimaryColor(c logline.Color) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.primaryColor = &c
}

func (a *LogAnalyzer) styleAll(recs []logline.LogLine) []logline.Styled {
	a.mu.RLock()
	primary := a.primaryColor
	a.mu.RUnlock()

	out := make([]logline.Styled, len(recs))
	for i, rec := range recs {
		if rec.Color == nil {
			rec.Color = primary
		}
		out[i] = logline.Plain(rec)
	}
	return out
}

func (a *LogAnalyzer) styleSearch(recs []logline.LogLine) []logline.Styled {
	a.mu.RLock()
	primary := a.primaryColor
	a.mu.RUnlock()

	pattern := a.analysis.GetSearchQuery()
	out := make([]logline.Styled, len(recs))
	for i, rec := range recs {
		if rec.Color == nil {
			rec.Color = primary
		}
		out[i] = search.Annotate(a.regexCache, pattern, rec)
	}
	return out
}

// countLines counts newline-terminated lines already in path, so a
// not-from-beginning file source knows how many to skip once tailing
// starts. A missing file simply has zero lines to skip; the tailer itself
// is responsible for waiting for the file to appear.
func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for scanner.Scan() {
		n++
	}
	return n, scanner.Err()
}

func compileFilters(fs []filter.Filter, cache *regexcache.Cache) []filter.LogFilter {
	out := make([]filter.LogFilter, len(fs))
	for i, f := range fs {
		out[i] = filter.Compile(f, cache)
	}
	return out
}
