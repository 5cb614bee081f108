// Package logline defines the structured log record and its styled variant.
//
// A LogLine is the canonical eight-field record every raw log line becomes
// once a format has been applied to it (see internal/format). Field order
// is fixed and is exposed through Columns so that callers iterating fields
// (search, display, serialization) see a stable ordering.
package logline

import "strconv"

// Color is an optional 24-bit RGB marker applied by a filter.
type Color struct {
	R, G, B uint8
}

// Columns lists the addressable fields in their canonical display order.
var columns = []string{"log", "index", "date", "timestamp", "app", "severity", "function", "payload"}

// Columns returns the canonical field names in order. The slice is a copy;
// callers may freely mutate it.
func Columns() []string {
	out := make([]string, len(columns))
	copy(out, columns)
	return out
}

// LogLine is the structured form of a raw line after format application.
type LogLine struct {
	Log       string
	Index     string
	Date      string
	Timestamp string
	App       string
	Severity  string
	Function  string
	Payload   string
	Color     *Color
}

// Get returns the text of the named field, or ("", false) if name is not a
// recognized column.
func (l LogLine) Get(name string) (string, bool) {
	switch name {
	case "log":
		return l.Log, true
	case "index":
		return l.Index, true
	case "date":
		return l.Date, true
	case "timestamp":
		return l.Timestamp, true
	case "app":
		return l.App, true
	case "severity":
		return l.Severity, true
	case "function":
		return l.Function, true
	case "payload":
		return l.Payload, true
	default:
		return "", false
	}
}

// SearchFields returns field values in reverse-of-Columns order, excluding
// "log" and "index" (the two metadata columns full-text search treats as
// non-content): payload, function, severity, app, timestamp, date. Payload
// comes first so that the highest-information field short-circuits most
// searches.
func (l LogLine) SearchFields() []string {
	return []string{l.Payload, l.Function, l.Severity, l.App, l.Timestamp, l.Date}
}

// IndexValue parses Index as an unsigned decimal. Records with an
// unparseable Index indicate a malformed format pattern upstream; callers
// on the binary-search path should treat a false ok as unreachable in
// practice but must not panic here.
func (l LogLine) IndexValue() (uint64, bool) {
	n, err := strconv.ParseUint(l.Index, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Equal reports whether l and other have identical field values and color.
func (l LogLine) Equal(other LogLine) bool {
	if l.Log != other.Log || l.Index != other.Index || l.Date != other.Date ||
		l.Timestamp != other.Timestamp || l.App != other.App || l.Severity != other.Severity ||
		l.Function != other.Function || l.Payload != other.Payload {
		return false
	}
	switch {
	case l.Color == nil && other.Color == nil:
		return true
	case l.Color == nil || other.Color == nil:
		return false
	default:
		return *l.Color == *other.Color
	}
}

// Less orders two LogLines by the numeric interpretation of Index, never by
// lexicographic string order. Lines with an unparseable Index compare as
// not-less in either direction.
func (l LogLine) Less(other LogLine) bool {
	a, aok := l.IndexValue()
	b, bok := other.IndexValue()
	if !aok || !bok {
		return false
	}
	return a < b
}
