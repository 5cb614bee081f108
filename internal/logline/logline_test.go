package logline

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnsStable(t *testing.T) {
	a := Columns()
	b := Columns()
	assert.Equal(t, a, b)
	a[0] = "mutated"
	assert.NotEqual(t, a, Columns(), "Columns must return a fresh copy each call")
}

func TestGetUnknownField(t *testing.T) {
	l := LogLine{Payload: "hello"}
	_, ok := l.Get("nope")
	assert.False(t, ok)

	v, ok := l.Get("payload")
	require.True(t, ok)
	assert.Equal(t, "hello", v)
}

func TestEqualityIncludesColor(t *testing.T) {
	a := LogLine{Index: "1", Payload: "x", Color: &Color{R: 1}}
	b := LogLine{Index: "1", Payload: "x", Color: &Color{R: 1}}
	c := LogLine{Index: "1", Payload: "x", Color: &Color{R: 2}}
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestLessByNumericIndex(t *testing.T) {
	a := LogLine{Index: "2"}
	b := LogLine{Index: "10"}
	assert.True(t, a.Less(b), "numeric 2 < 10, despite lexicographic '10' < '2'")
	assert.False(t, b.Less(a))
}

func TestUnformatRoundTrip(t *testing.T) {
	s := Styled{
		Payload: Field{{Text: "an "}, {Group: "H", Text: "error"}, {Text: " occurred"}},
		Index:   Field{{Text: "0"}},
	}
	plain := s.Unformat()
	assert.Equal(t, "an error occurred", plain.Payload)
	assert.Equal(t, "0", plain.Index)
}

func TestSpanWireFormat(t *testing.T) {
	s := Span{Group: "H", Text: "error"}
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `["H","error"]`, string(data))

	plain := Span{Text: "hi"}
	data, err = json.Marshal(plain)
	require.NoError(t, err)
	assert.JSONEq(t, `[null,"hi"]`, string(data))
}

func TestSearchFieldsOrderIsReversedAndExcludesMetadata(t *testing.T) {
	l := LogLine{Log: "a.log", Index: "0", Date: "d", Timestamp: "t", App: "app", Severity: "sev", Function: "fn", Payload: "pay"}
	fields := l.SearchFields()
	assert.Equal(t, []string{"pay", "fn", "sev", "app", "t", "d"}, fields)
}
