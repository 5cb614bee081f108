package filter

// Action classifies a filter's effect on a matching record.
type Action int

const (
	// Include keeps only records that match at least one enabled INCLUDE
	// filter (when any INCLUDE filters are enabled at all).
	Include Action = iota
	// Exclude drops records matched by an enabled EXCLUDE filter.
	Exclude
	// Marker leaves membership untouched but may overwrite the record's
	// color.
	Marker
)

func (a Action) String() string {
	switch a {
	case Include:
		return "INCLUDE"
	case Exclude:
		return "EXCLUDE"
	case Marker:
		return "MARKER"
	default:
		return "UNKNOWN"
	}
}

// fields lists the LogLine fields a filter's patterns may target,
// excluding the log/index metadata columns.
var fields = []string{"date", "timestamp", "app", "severity", "function", "payload"}
