// Package logstore holds the raw per-source state of every log added to
// the analyzer: the formatted record of each line it has read, its
// assigned format, whether it is currently enabled, and its source handle.
package logstore

import (
	"sync"

	"github.com/MrCasCode/log-analyzer-pro/internal/logline"
)

// Handle is an opaque reference to whatever runs a log's source (a file
// tailer, a TCP listener...). The store only needs to hold and return it;
// lifecycle is owned by the source package.
type Handle interface {
	Stop()
}

// Store holds per-source state keyed by source id (the log's alias).
type Store struct {
	mu      sync.RWMutex
	lines   map[string][]logline.LogLine
	formats map[string]string // source id -> format pattern
	enabled map[string]bool
	sources map[string]Handle
	order   []string // insertion order, for stable GetLogs
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		lines:   make(map[string][]logline.LogLine),
		formats: make(map[string]string),
		enabled: make(map[string]bool),
		sources: make(map[string]Handle),
	}
}

// AddLog registers a new source. It is enabled by default. Adding a source
// id that already exists resets its lines.
func (s *Store) AddLog(id, formatPattern string, handle Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.lines[id]; !exists {
		s.order = append(s.order, id)
	}
	s.lines[id] = nil
	s.formats[id] = formatPattern
	s.enabled[id] = true
	s.sources[id] = handle
}

// AddLine appends a single formatted line to id's accumulated log and
// returns its assigned numeric index (the log's length before the append).
func (s *Store) AddLine(id string, line logline.LogLine) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := uint64(len(s.lines[id]))
	s.lines[id] = append(s.lines[id], line)
	return idx
}

// AddLines appends a batch of formatted lines and returns the half-open
// index range [from, to) they were assigned.
func (s *Store) AddLines(id string, lines []logline.LogLine) (from, to uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	from = uint64(len(s.lines[id]))
	s.lines[id] = append(s.lines[id], lines...)
	to = uint64(len(s.lines[id]))
	return from, to
}

// ExtractLines atomically takes and clears id's accumulated lines, used by
// the filter-toggle replay protocol to re-run every raw line through a new
// filter set without losing or duplicating any of them.
func (s *Store) ExtractLines(id string) []logline.LogLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.lines[id]
	s.lines[id] = nil
	return lines
}

// GetTotalLines returns the number of raw lines currently held for id.
func (s *Store) GetTotalLines(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lines[id])
}

// GetTotalLinesAllSources returns the number of raw lines currently held
// across every registered source.
func (s *Store) GetTotalLinesAllSources() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, lines := range s.lines {
		total += len(lines)
	}
	return total
}

// GetFormat returns id's assigned format pattern.
func (s *Store) GetFormat(id string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.formats[id]
	return p, ok
}

// SetSource attaches or replaces id's source handle without touching its
// lines, format, or enabled flag.
func (s *Store) SetSource(id string, handle Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources[id] = handle
}

// GetSource returns id's source handle.
func (s *Store) GetSource(id string) (Handle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.sources[id]
	return h, ok
}

// LogInfo describes one registered source for GetLogs.
type LogInfo struct {
	ID      string
	Format  string
	Enabled bool
}

// GetLogs returns every registered source in the order it was added.
func (s *Store) GetLogs() []LogInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]LogInfo, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, LogInfo{ID: id, Format: s.formats[id], Enabled: s.enabled[id]})
	}
	return out
}

// ToggleLog flips id's enabled flag and returns the new value. Toggling an
// unknown id is a no-op that returns false.
func (s *Store) ToggleLog(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.enabled[id]; !ok {
		return false
	}
	s.enabled[id] = !s.enabled[id]
	return s.enabled[id]
}

// IsEnabled reports whether id is currently enabled.
func (s *Store) IsEnabled(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enabled[id]
}
