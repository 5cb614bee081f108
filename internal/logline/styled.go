package logline

// Span is one run of text within a styled field, optionally tagged with the
// name of the named capture group that produced it. Group is empty for
// unmatched (plain) text.
type Span struct {
	Group string
	Text  string
}

// MarshalJSON renders a Span as the two-element wire array consumers
// expect: [group_or_null, text].
func (s Span) MarshalJSON() ([]byte, error) {
	return marshalSpan(s)
}

// Field is the ordered list of spans making up one styled text field.
// Concatenating Text across a Field reproduces the original field's text.
type Field []Span

// Concat rebuilds the plain text of a styled field by concatenating spans
// in order.
func (f Field) Concat() string {
	var total int
	for _, s := range f {
		total += len(s.Text)
	}
	b := make([]byte, 0, total)
	for _, s := range f {
		b = append(b, s.Text...)
	}
	return string(b)
}

// Styled is the styled variant of LogLine: every text field becomes an
// ordered span list.
type Styled struct {
	Log       Field
	Index     Field
	Date      Field
	Timestamp Field
	App       Field
	Severity  Field
	Function  Field
	Payload   Field
	Color     *Color
}

// Get returns the named styled field, or (nil, false) if name is not a
// recognized column.
func (s Styled) Get(name string) (Field, bool) {
	switch name {
	case "log":
		return s.Log, true
	case "index":
		return s.Index, true
	case "date":
		return s.Date, true
	case "timestamp":
		return s.Timestamp, true
	case "app":
		return s.App, true
	case "severity":
		return s.Severity, true
	case "function":
		return s.Function, true
	case "payload":
		return s.Payload, true
	default:
		return nil, false
	}
}

// Unformat concatenates every field's spans back into a plain LogLine.
func (s Styled) Unformat() LogLine {
	return LogLine{
		Log:       s.Log.Concat(),
		Index:     s.Index.Concat(),
		Date:      s.Date.Concat(),
		Timestamp: s.Timestamp.Concat(),
		App:       s.App.Concat(),
		Severity:  s.Severity.Concat(),
		Function:  s.Function.Concat(),
		Payload:   s.Payload.Concat(),
		Color:     s.Color,
	}
}

// Plain wraps every field of a LogLine in a single unmatched span, useful
// as the identity styling (no search pattern active).
func Plain(l LogLine) Styled {
	one := func(text string) Field { return Field{{Text: text}} }
	return Styled{
		Log:       one(l.Log),
		Index:     one(l.Index),
		Date:      one(l.Date),
		Timestamp: one(l.Timestamp),
		App:       one(l.App),
		Severity:  one(l.Severity),
		Function:  one(l.Function),
		Payload:   one(l.Payload),
		Color:     l.Color,
	}
}

// IsStyled reports whether every field of l parses as a valid span list,
// i.e. whether l is itself the round-trip of some Styled value. A plain
// LogLine always satisfies this trivially since any string is a valid
// single-span field.
func IsStyled(l LogLine) bool {
	return true
}
