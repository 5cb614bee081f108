// Package processingstore holds the registered formats and filters used to
// process raw lines into records. Filters are kept in a stable order and
// default to disabled when added.
package processingstore

import (
	"sync"

	"github.com/MrCasCode/log-analyzer-pro/internal/filter"
	"github.com/MrCasCode/log-analyzer-pro/internal/format"
)

// NamedFilter pairs a filter with its current enabled flag, as returned by
// GetFilters.
type NamedFilter struct {
	Enabled bool
	Filter  filter.Filter
}

// Store holds every registered format and filter.
type Store struct {
	mu      sync.RWMutex
	formats map[string]format.Format
	filters map[string]filter.Filter
	enabled map[string]bool
	order   []string // filter alias insertion order
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		formats: make(map[string]format.Format),
		filters: make(map[string]filter.Filter),
		enabled: make(map[string]bool),
	}
}

// AddFormat registers or replaces a format under its alias.
func (s *Store) AddFormat(f format.Format) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.formats[f.Alias] = f
}

// GetFormat looks up a format by alias.
func (s *Store) GetFormat(alias string) (format.Format, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.formats[alias]
	return f, ok
}

// GetFormats returns every registered format.
func (s *Store) GetFormats() []format.Format {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]format.Format, 0, len(s.formats))
	for _, f := range s.formats {
		out = append(out, f)
	}
	return out
}

// AddFilter registers or replaces a filter under its alias. A newly added
// filter starts disabled; replacing an existing alias preserves its
// current enabled flag and position in the iteration order.
func (s *Store) AddFilter(f filter.Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.filters[f.Alias]; !exists {
		s.order = append(s.order, f.Alias)
		s.enabled[f.Alias] = false
	}
	s.filters[f.Alias] = f
}

// ToggleFilter flips alias's enabled flag and returns the new value.
// Toggling an unknown alias is a no-op that returns false.
func (s *Store) ToggleFilter(alias string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.filters[alias]; !ok {
		return false
	}
	s.enabled[alias] = !s.enabled[alias]
	return s.enabled[alias]
}

// GetFilters returns every registered filter with its enabled flag, in
// stable insertion order.
func (s *Store) GetFilters() []NamedFilter {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]NamedFilter, 0, len(s.order))
	for _, alias := range s.order {
		out = append(out, NamedFilter{Enabled: s.enabled[alias], Filter: s.filters[alias]})
	}
	return out
}

// GetEnabledFilters returns only the currently enabled filters, in stable
// order, ready to be compiled and applied.
func (s *Store) GetEnabledFilters() []filter.Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []filter.Filter
	for _, alias := range s.order {
		if s.enabled[alias] {
			out = append(out, s.filters[alias])
		}
	}
	return out
}
