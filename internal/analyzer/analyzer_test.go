package analyzer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrCasCode/log-analyzer-pro/internal/events"
	"github.com/MrCasCode/log-analyzer-pro/internal/filter"
	"github.com/MrCasCode/log-analyzer-pro/internal/logline"
)

func waitForTotal(t *testing.T, get func() int, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if get() >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for total >= %d, got %d", want, get())
}

func writeFile(t *testing.T, lines ...string) string {
	t.Helper()
	return writeNamedFile(t, "a.log", lines...)
}

func writeNamedFile(t *testing.T, name string, lines ...string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	for _, l := range lines {
		_, err := f.WriteString(l + "\n")
		require.NoError(t, err)
	}
	require.NoError(t, f.Close())
	return path
}

func TestFormatsRawLinesIntoFilteredLog(t *testing.T) {
	a := New(WithClock(clock.NewMock()))
	defer a.Close()

	require.NoError(t, a.AddFormat("default", `^(?P<SEVERITY>\w+) (?P<PAYLOAD>.*)$`))
	path := writeFile(t, "INFO a", "ERROR b", "WARN c")
	require.NoError(t, a.AddLog("a.log", KindFile, path, `^(?P<SEVERITY>\w+) (?P<PAYLOAD>.*)$`, true))

	waitForTotal(t, a.GetTotalLogLines, 3)
	lines := a.GetLogLines(0, 3)
	require.Len(t, lines, 3)
	assert.Equal(t, "a", lines[0].Payload.Concat())
	assert.Equal(t, "b", lines[1].Payload.Concat())
	assert.Equal(t, "c", lines[2].Payload.Concat())
}

func TestIncludeFilterRestrictsToMatching(t *testing.T) {
	a := New(WithClock(clock.NewMock()))
	defer a.Close()

	path := writeFile(t, "INFO a", "ERROR b", "WARN c")
	require.NoError(t, a.AddLog("a.log", KindFile, path, `^(?P<SEVERITY>\w+) (?P<PAYLOAD>.*)$`, true))
	waitForTotal(t, a.GetTotalLogLines, 3)

	a.AddFilter(filter.Filter{Alias: "errors", Action: filter.Include, FieldPatterns: map[string]string{"severity": "ERROR"}})
	a.ToggleFilter("errors")

	lines := a.GetLogLines(0, 10)
	require.Len(t, lines, 1)
	assert.Equal(t, "b", lines[0].Payload.Concat())
}

func TestMarkerFilterColorsIncludedRecord(t *testing.T) {
	a := New(WithClock(clock.NewMock()))
	defer a.Close()

	path := writeFile(t, "ERROR b")
	require.NoError(t, a.AddLog("a.log", KindFile, path, `^(?P<SEVERITY>\w+) (?P<PAYLOAD>.*)$`, true))
	waitForTotal(t, a.GetTotalLogLines, 1)

	a.AddFilter(filter.Filter{Alias: "errors", Action: filter.Include, FieldPatterns: map[string]string{"severity": "ERROR"}})
	a.ToggleFilter("errors")
	a.AddFilter(filter.Filter{Alias: "mark-b", Action: filter.Marker, FieldPatterns: map[string]string{"payload": "b"}, Color: &logline.Color{R: 10, G: 20, B: 30}})
	a.ToggleFilter("mark-b")

	lines := a.GetLogLines(0, 10)
	require.Len(t, lines, 1)
	require.NotNil(t, lines[0].Color)
	assert.Equal(t, logline.Color{R: 10, G: 20, B: 30}, *lines[0].Color)
}

func TestSearchFindsMatchingRecords(t *testing.T) {
	a := New(WithClock(clock.NewMock()))
	defer a.Close()

	path := writeFile(t, "INFO alpha", "ERROR beta", "WARN gamma")
	require.NoError(t, a.AddLog("a.log", KindFile, path, `^(?P<SEVERITY>\w+) (?P<PAYLOAD>.*)$`, true))
	waitForTotal(t, a.GetTotalLogLines, 3)

	a.AddSearch("beta")
	waitForTotal(t, a.GetTotalSearchLines, 1)

	lines := a.GetSearchLines(0, 10)
	require.Len(t, lines, 1)
	assert.Equal(t, "beta", lines[0].Payload.Concat())
}

func TestToggleLogDisablesIngestion(t *testing.T) {
	a := New(WithClock(clock.NewMock()))
	defer a.Close()

	path := writeFile(t, "INFO a")
	require.NoError(t, a.AddLog("a.log", KindFile, path, `^(?P<SEVERITY>\w+) (?P<PAYLOAD>.*)$`, true))
	waitForTotal(t, a.GetTotalLogLines, 1)

	a.ToggleLog("a.log")

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("INFO b\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, a.GetTotalLogLines())
}

func TestGetLogLinesContainingReportsWindowPosition(t *testing.T) {
	a := New(WithClock(clock.NewMock()))
	defer a.Close()

	var lines []string
	for i := 0; i < 20; i++ {
		lines = append(lines, "INFO line")
	}
	path := writeFile(t, lines...)
	require.NoError(t, a.AddLog("a.log", KindFile, path, `^(?P<SEVERITY>\w+) (?P<PAYLOAD>.*)$`, true))
	waitForTotal(t, a.GetTotalLogLines, 20)

	records, windowStart, offset := a.GetLogLinesContaining(10, 4)
	require.Len(t, records, 4)
	assert.Equal(t, 8, windowStart)
	assert.Equal(t, 2, offset)
}

func TestGetTotalRawLinesSumsAcrossSources(t *testing.T) {
	a := New(WithClock(clock.NewMock()))
	defer a.Close()

	aLines := make([]string, 1200)
	for i := range aLines {
		aLines[i] = "INFO a"
	}
	bLines := make([]string, 800)
	for i := range bLines {
		bLines[i] = "INFO b"
	}
	aPath := writeNamedFile(t, "a.log", aLines...)
	bPath := writeNamedFile(t, "b.log", bLines...)

	require.NoError(t, a.AddLog("a.log", KindFile, aPath, `^(?P<SEVERITY>\w+) (?P<PAYLOAD>.*)$`, true))
	require.NoError(t, a.AddLog("b.log", KindFile, bPath, `^(?P<SEVERITY>\w+) (?P<PAYLOAD>.*)$`, true))

	waitForTotal(t, a.GetTotalRawLines, 2000)
	assert.Equal(t, 2000, a.GetTotalRawLines())
}

func TestToggleFilterEmitsPerSourceEvents(t *testing.T) {
	a := New(WithClock(clock.NewMock()))
	defer a.Close()

	aPath := writeNamedFile(t, "a.log", "ERROR a1", "INFO a2")
	bPath := writeNamedFile(t, "b.log", "ERROR b1")
	require.NoError(t, a.AddLog("a.log", KindFile, aPath, `^(?P<SEVERITY>\w+) (?P<PAYLOAD>.*)$`, true))
	require.NoError(t, a.AddLog("b.log", KindFile, bPath, `^(?P<SEVERITY>\w+) (?P<PAYLOAD>.*)$`, true))
	waitForTotal(t, a.GetTotalLogLines, 3)

	ch := a.Events(32)
	defer a.Unsubscribe(ch)

	a.AddFilter(filter.Filter{Alias: "errors", Action: filter.Include, FieldPatterns: map[string]string{"severity": "ERROR"}})
	a.ToggleFilter("errors")

	seenFiltering := map[string]bool{}
	seenFinished := map[string]bool{}
	deadline := time.After(2 * time.Second)
collect:
	for {
		select {
		case ev := <-ch:
			switch ev.Kind {
			case events.Filtering:
				seenFiltering[ev.LogID] = true
			case events.FilterFinished:
				seenFinished[ev.LogID] = true
			}
			if seenFinished["a.log"] && seenFinished["b.log"] {
				break collect
			}
		case <-deadline:
			t.Fatal("timed out waiting for per-source filter events")
		}
	}
	assert.True(t, seenFiltering["a.log"])
	assert.True(t, seenFiltering["b.log"])
	assert.True(t, seenFinished["a.log"])
	assert.True(t, seenFinished["b.log"])
}

func TestPrimaryColorFallsBackWhenUncolored(t *testing.T) {
	a := New(WithClock(clock.NewMock()))
	defer a.Close()
	a.SetPrimaryColor(logline.Color{R: 1, G: 2, B: 3})

	path := writeFile(t, "INFO a")
	require.NoError(t, a.AddLog("a.log", KindFile, path, `^(?P<SEVERITY>\w+) (?P<PAYLOAD>.*)$`, true))
	waitForTotal(t, a.GetTotalLogLines, 1)

	lines := a.GetLogLines(0, 1)
	require.Len(t, lines, 1)
	require.NotNil(t, lines[0].Color)
	assert.Equal(t, logline.Color{R: 1, G: 2, B: 3}, *lines[0].Color)
}
