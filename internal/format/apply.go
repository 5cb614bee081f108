package format

import (
	"strconv"

	"github.com/MrCasCode/log-analyzer-pro/internal/logline"
)

// Apply projects a raw line into a LogLine using pattern.
//
// If pattern is empty, or the line does not match it, the whole line is
// placed in Payload and every other format field is empty; Log is always
// set to sourceID and Index to the supplied ordinal. Apply itself never
// fails: a pattern that fails to compile must have been rejected at format
// registration (format.New), so a resolve error here is treated the same
// as "no match".
func Apply(c *Compiler, pattern, sourceID, line string, index uint64) logline.LogLine {
	out := logline.LogLine{
		Log:   sourceID,
		Index: strconv.FormatUint(index, 10),
	}

	if pattern == "" {
		out.Payload = line
		return out
	}

	compiled, err := c.resolve(pattern)
	if err != nil {
		out.Payload = line
		return out
	}

	groups, matched := compiled.extract(line)
	if !matched {
		out.Payload = line
		return out
	}

	out.Date = groups["DATE"]
	out.Timestamp = groups["TIMESTAMP"]
	out.App = groups["APP"]
	out.Severity = groups["SEVERITY"]
	out.Function = groups["FUNCTION"]
	out.Payload = groups["PAYLOAD"]
	return out
}
