package logline

import "encoding/json"

// marshalSpan implements the wire format for styled fields: a JSON array
// `[group_or_null, text]` per span.
func marshalSpan(s Span) ([]byte, error) {
	var group any
	if s.Group != "" {
		group = s.Group
	}
	return json.Marshal([2]any{group, s.Text})
}

// UnmarshalJSON parses a span back from the `[group_or_null, text]` wire
// format.
func (s *Span) UnmarshalJSON(data []byte) error {
	var pair [2]any
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if g, ok := pair[0].(string); ok {
		s.Group = g
	}
	if t, ok := pair[1].(string); ok {
		s.Text = t
	}
	return nil
}

// styledWire mirrors Styled with plain field names for JSON serialization
// consumed by a front end.
type styledWire struct {
	Log       Field  `json:"log"`
	Index     Field  `json:"index"`
	Date      Field  `json:"date"`
	Timestamp Field  `json:"timestamp"`
	App       Field  `json:"app"`
	Severity  Field  `json:"severity"`
	Function  Field  `json:"function"`
	Payload   Field  `json:"payload"`
	Color     *Color `json:"color,omitempty"`
}

// MarshalJSON renders a Styled record field-by-field, each a list of
// [group_or_null, text] spans.
func (s Styled) MarshalJSON() ([]byte, error) {
	return json.Marshal(styledWire{
		Log:       s.Log,
		Index:     s.Index,
		Date:      s.Date,
		Timestamp: s.Timestamp,
		App:       s.App,
		Severity:  s.Severity,
		Function:  s.Function,
		Payload:   s.Payload,
		Color:     s.Color,
	})
}
