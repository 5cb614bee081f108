package filter

import "github.com/MrCasCode/log-analyzer-pro/internal/logline"

// Apply implements the three-stage INCLUDE/EXCLUDE/MARKER priority.
// filters is the already-enabled filter set in its stable iteration
// order; within a priority class filters are evaluated in that order,
// and the *last* matching MARKER wins the final color (later overwrites
// earlier).
//
// Whether an enabled INCLUDE filter exists at all is computed once up
// front, by partitioning filters into three slices before any matching
// happens, rather than re-deriving it later from a partially-consumed
// iterator.
func Apply(filters []LogFilter, rec logline.LogLine) (logline.LogLine, bool) {
	var includes, excludes, markers []LogFilter
	for _, f := range filters {
		switch f.Action {
		case Include:
			includes = append(includes, f)
		case Exclude:
			excludes = append(excludes, f)
		case Marker:
			markers = append(markers, f)
		}
	}
	includeExists := len(includes) > 0

	for _, f := range includes {
		if !f.Matches(rec) {
			continue
		}
		out := rec
		if f.Color != nil {
			out.Color = f.Color
		}
		for _, m := range markers {
			if m.Matches(out) {
				if m.Color != nil {
					out.Color = m.Color
				}
			}
		}
		return out, true
	}

	for _, f := range excludes {
		if f.Matches(rec) {
			return logline.LogLine{}, false
		}
	}

	if !includeExists {
		out := rec
		for _, m := range markers {
			if m.Matches(out) {
				if m.Color != nil {
					out.Color = m.Color
				}
			}
		}
		return out, true
	}

	return logline.LogLine{}, false
}
