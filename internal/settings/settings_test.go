package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrCasCode/log-analyzer-pro/internal/analyzer"
)

func TestLoadParsesDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	doc := `{
		"formats": [{"alias": "default", "pattern": "(?P<PAYLOAD>.*)"}],
		"filters": [{"alias": "errors", "action": "INCLUDE", "field_patterns": {"severity": "ERROR"}, "enabled": true}],
		"primary_color": {"r": 1, "g": 2, "b": 3}
	}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	require.Len(t, s.Formats, 1)
	assert.Equal(t, "default", s.Formats[0].Alias)
	require.Len(t, s.Filters, 1)
	assert.Equal(t, "INCLUDE", s.Filters[0].Action)
	require.NotNil(t, s.PrimaryColor)
	assert.Equal(t, uint8(2), s.PrimaryColor.G)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load("/nonexistent/settings.json")
	assert.Error(t, err)
}

func TestApplyWiresIntoAnalyzer(t *testing.T) {
	s := Settings{
		Formats: []FormatSetting{{Alias: "default", Pattern: `^(?P<SEVERITY>\w+) (?P<PAYLOAD>.*)$`}},
		Filters: []FilterSetting{{Alias: "errors", Action: "INCLUDE", FieldPatterns: map[string]string{"severity": "ERROR"}, Enabled: true}},
	}
	a := analyzer.New()
	defer a.Close()

	require.NoError(t, s.Apply(a))

	formats := a.GetFormats()
	require.Len(t, formats, 1)
	filters := a.GetFilters()
	require.Len(t, filters, 1)
	assert.True(t, filters[0].Enabled)
}

func TestApplyRejectsUnknownAction(t *testing.T) {
	s := Settings{Filters: []FilterSetting{{Alias: "f", Action: "BOGUS"}}}
	a := analyzer.New()
	defer a.Close()
	assert.Error(t, s.Apply(a))
}

func TestApplyStartsConfiguredLogs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.log")
	require.NoError(t, os.WriteFile(path, []byte("INFO hello\n"), 0o644))

	s := Settings{
		Logs: []LogSetting{{Name: "a.log", Kind: "file", Address: path, Format: `^(?P<SEVERITY>\w+) (?P<PAYLOAD>.*)$`, FromBeginning: true}},
	}
	a := analyzer.New()
	defer a.Close()

	require.NoError(t, s.Apply(a))
	logs := a.GetLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, "a.log", logs[0].ID)
}

func TestApplyRejectsUnknownKind(t *testing.T) {
	s := Settings{Logs: []LogSetting{{Name: "x", Kind: "carrier-pigeon", Address: "n/a"}}}
	a := analyzer.New()
	defer a.Close()
	assert.Error(t, s.Apply(a))
}
