// Package filter implements filter action priority semantics: compiling a
// Filter into a LogFilter, and applying a prioritized set of LogFilters to
// a record.
package filter

import (
	"github.com/grafana/regexp"

	"github.com/MrCasCode/log-analyzer-pro/internal/logline"
	"github.com/MrCasCode/log-analyzer-pro/internal/regexcache"
)

// Filter is the uncompiled, user-facing definition.
type Filter struct {
	Alias         string
	Action        Action
	FieldPatterns map[string]string // field name -> pattern string; empty/missing fields don't participate
	Color         *logline.Color
}

// LogFilter is a Filter compiled for matching. Field patterns that fail to
// compile are silently dropped, but the filter itself is kept; a LogFilter
// with no compiled field patterns never matches.
type LogFilter struct {
	Alias    string
	Action   Action
	Color    *logline.Color
	compiled map[string]*regexp.Regexp
}

// Compile builds a LogFilter from f, dropping any field pattern that fails
// to compile.
func Compile(f Filter, cache *regexcache.Cache) LogFilter {
	lf := LogFilter{
		Alias:    f.Alias,
		Action:   f.Action,
		Color:    f.Color,
		compiled: make(map[string]*regexp.Regexp),
	}
	for _, field := range fields {
		pattern, ok := f.FieldPatterns[field]
		if !ok || pattern == "" {
			continue
		}
		re, err := cache.Compile(pattern)
		if err != nil {
			continue
		}
		lf.compiled[field] = re
	}
	return lf
}

// Matches reports whether every compiled field pattern matches the
// corresponding field of rec as a substring. A LogFilter with no compiled
// patterns never matches.
func (lf LogFilter) Matches(rec logline.LogLine) bool {
	if len(lf.compiled) == 0 {
		return false
	}
	for field, re := range lf.compiled {
		value, _ := rec.Get(field)
		if !re.MatchString(value) {
			return false
		}
	}
	return true
}
