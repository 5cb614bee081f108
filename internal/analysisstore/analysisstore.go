// Package analysisstore holds the derived, queryable views over a log:
// the filtered record log and the search record log, plus the active
// search query. Both logs are append-only and kept ordered by numeric
// index, which lets range lookups use binary search instead of a linear
// scan.
package analysisstore

import (
	"sort"
	"sync"

	"github.com/MrCasCode/log-analyzer-pro/internal/logline"
)

// Store holds one log's filtered view and search view.
type Store struct {
	mu          sync.RWMutex
	filtered    []logline.LogLine
	search      []logline.LogLine
	searchQuery string
}

// New returns an empty Store.
func New() *Store {
	return &Store{}
}

// AddLines appends records to the filtered log.
func (s *Store) AddLines(lines []logline.LogLine) {
	if len(lines) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filtered = append(s.filtered, lines...)
}

// AddSearchLines appends records to the search log.
func (s *Store) AddSearchLines(lines []logline.LogLine) {
	if len(lines) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search = append(s.search, lines...)
}

// ResetLog clears the filtered log, used when filters are toggled and the
// whole log is about to be replayed.
func (s *Store) ResetLog() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filtered = nil
}

// ResetSearch clears the search log, used when a new search query starts.
func (s *Store) ResetSearch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search = nil
}

// GetTotalLogLines returns the number of records in the filtered log.
func (s *Store) GetTotalLogLines() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.filtered)
}

// GetTotalSearchLines returns the number of records in the search log.
func (s *Store) GetTotalSearchLines() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.search)
}

// clampRange normalizes [from, to) against length, never failing: out of
// range bounds are clamped rather than rejected.
func clampRange(from, to, length int) (int, int) {
	if from < 0 {
		from = 0
	}
	if to > length {
		to = length
	}
	if from > to {
		from = to
	}
	return from, to
}

// GetLogLines returns a copy of the filtered log's [from, to) window,
// clamped to the log's current bounds.
func (s *Store) GetLogLines(from, to int) []logline.LogLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	from, to = clampRange(from, to, len(s.filtered))
	out := make([]logline.LogLine, to-from)
	copy(out, s.filtered[from:to])
	return out
}

// GetSearchLines returns a copy of the search log's [from, to) window,
// clamped to the log's current bounds.
func (s *Store) GetSearchLines(from, to int) []logline.LogLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	from, to = clampRange(from, to, len(s.search))
	out := make([]logline.LogLine, to-from)
	copy(out, s.search[from:to])
	return out
}

// findByIndex binary-searches recs (sorted by numeric index) for the first
// record whose index is >= target, returning its position and whether an
// exact match was found.
func findByIndex(recs []logline.LogLine, target uint64) (pos int, exact bool) {
	pos = sort.Search(len(recs), func(i int) bool {
		idx, ok := recs[i].IndexValue()
		return ok && idx >= target
	})
	if pos < len(recs) {
		if idx, ok := recs[pos].IndexValue(); ok && idx == target {
			exact = true
		}
	}
	return pos, exact
}

// window returns the n positions [p-n/2, p-n/2+n) centered on p, clamped
// to [0, len) and shifted toward the other side when one side is clipped,
// so the returned slice has n elements whenever the log is long enough.
func window(p, n, length int) (int, int) {
	if n <= 0 {
		return p, p
	}
	from := p - n/2
	to := p + (n - n/2)
	if from < 0 {
		to -= from
		from = 0
	}
	if to > length {
		from -= to - length
		to = length
	}
	if from < 0 {
		from = 0
	}
	return from, to
}

// GetLogLinesContaining returns up to n filtered-log records centered on
// the record whose numeric index is target (or the nearest position a
// record with that index would occupy if it is absent), along with
// windowStart (the position of the first returned record in the full
// log) and offset (the position of target within the returned slice).
func (s *Store) GetLogLinesContaining(target uint64, n int) (records []logline.LogLine, windowStart, offset int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, _ := findByIndex(s.filtered, target)
	from, to := window(p, n, len(s.filtered))
	out := make([]logline.LogLine, to-from)
	copy(out, s.filtered[from:to])
	return out, from, p - from
}

// GetSearchLinesContaining returns up to n search-log records centered on
// the record whose numeric index is target, along with windowStart and
// offset as described on GetLogLinesContaining.
func (s *Store) GetSearchLinesContaining(target uint64, n int) (records []logline.LogLine, windowStart, offset int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, _ := findByIndex(s.search, target)
	from, to := window(p, n, len(s.search))
	out := make([]logline.LogLine, to-from)
	copy(out, s.search[from:to])
	return out, from, p - from
}

// GetSearchQuery returns the currently active search pattern.
func (s *Store) GetSearchQuery() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.searchQuery
}

// AddSearchQuery sets the currently active search pattern.
func (s *Store) AddSearchQuery(pattern string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchQuery = pattern
}
