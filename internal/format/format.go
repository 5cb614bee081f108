// Package format compiles named-capture patterns into LogLine records.
//
// A Format pairs a user-chosen alias with a pattern string. The pattern is
// normally a Go-flavored regular expression with named groups drawn from
// the recognized set {DATE, TIMESTAMP, APP, SEVERITY, FUNCTION, PAYLOAD};
// it may also reference logstash-style grok aliases (`%{COMMON_LOG_FORMAT}`)
// which are expanded through github.com/vjeantet/grok.
package format

import "errors"

// Sentinel errors surfaced to AddFormat callers.
var (
	ErrEmpty         = errors.New("alias/regex empty")
	ErrCompileFailed = errors.New("regex compile failed")
)

// RecognizedGroups is the set of named-capture groups Apply projects
// into LogLine fields. Any other named group is tolerated but ignored.
var RecognizedGroups = []string{"DATE", "TIMESTAMP", "APP", "SEVERITY", "FUNCTION", "PAYLOAD"}

// Format is a named pattern.
type Format struct {
	Alias   string
	Pattern string
}

// New validates alias and pattern and returns a Format. Compile errors are
// detected eagerly here (via compiler) so that they never surface out of
// Apply later.
func New(alias, pattern string, c *Compiler) (Format, error) {
	if alias == "" || pattern == "" {
		return Format{}, ErrEmpty
	}
	if _, err := c.resolve(pattern); err != nil {
		return Format{}, ErrCompileFailed
	}
	return Format{Alias: alias, Pattern: pattern}, nil
}
