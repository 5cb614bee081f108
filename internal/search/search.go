// Package search implements full-text/regex matching and span annotation
// for highlighting.
package search

import (
	"github.com/grafana/regexp"

	"github.com/MrCasCode/log-analyzer-pro/internal/logline"
	"github.com/MrCasCode/log-analyzer-pro/internal/regexcache"
)

// Matches reports whether rec has a field matching pattern. Fields are
// checked in logline.LogLine.SearchFields order (payload first, date last;
// the log and index metadata fields are not checked) and the check
// short-circuits on the first match.
func Matches(cache *regexcache.Cache, pattern string, rec logline.LogLine) bool {
	if pattern == "" {
		return true
	}
	re, err := cache.Compile(pattern)
	if err != nil {
		return false
	}
	for _, value := range rec.SearchFields() {
		if re.MatchString(value) {
			return true
		}
	}
	return false
}

// Annotate produces the styled record for rec. For each field, the
// pattern's first match is located and, if that match has a named
// capture group, the field is split into an optional unmatched prefix, a
// span covering the named group labeled with the group's name, and an
// optional unmatched suffix. If the pattern has no match in a field, or
// its first match carries no named group, the whole field collapses to a
// single unmatched span. If pattern is empty or fails to compile, every
// field collapses the same way (logline.Plain).
func Annotate(cache *regexcache.Cache, pattern string, rec logline.LogLine) logline.Styled {
	if pattern == "" {
		return logline.Plain(rec)
	}
	re, err := cache.Compile(pattern)
	if err != nil {
		return logline.Plain(rec)
	}

	return logline.Styled{
		Date:      annotateField(re, rec.Date),
		Timestamp: annotateField(re, rec.Timestamp),
		App:       annotateField(re, rec.App),
		Severity:  annotateField(re, rec.Severity),
		Function:  annotateField(re, rec.Function),
		Payload:   annotateField(re, rec.Payload),
		Log:       logline.Plain(rec).Log,
		Index:     logline.Plain(rec).Index,
		Color:     rec.Color,
	}
}

// annotateField locates re's first match in s and, if that match bound a
// named capture group, splits s into an unmatched prefix, the named span,
// and an unmatched suffix. A pattern with no named groups at all (or
// whose first match didn't populate one) never highlights anything: the
// whole field comes back as a single unmatched span.
func annotateField(re *regexp.Regexp, s string) logline.Field {
	loc := re.FindStringSubmatchIndex(s)
	if loc == nil {
		return logline.Field{{Text: s}}
	}

	names := re.SubexpNames()
	groupStart, groupEnd := -1, -1
	groupName := ""
	for i := 1; i < len(names); i++ {
		if names[i] == "" || loc[2*i] == -1 {
			continue
		}
		groupStart, groupEnd = loc[2*i], loc[2*i+1]
		groupName = names[i]
		break
	}
	if groupStart == -1 {
		return logline.Field{{Text: s}}
	}

	var field logline.Field
	if groupStart > 0 {
		field = append(field, logline.Span{Text: s[:groupStart]})
	}
	field = append(field, logline.Span{Group: groupName, Text: s[groupStart:groupEnd]})
	if groupEnd < len(s) {
		field = append(field, logline.Span{Text: s[groupEnd:]})
	}
	return field
}
