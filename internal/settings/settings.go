// Package settings loads a JSON settings document and applies it to a
// LogAnalyzer at startup: formats, filters, and an optional fallback
// color. Every field is optional; unknown keys are ignored by
// encoding/json's default decoding behavior.
package settings

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/MrCasCode/log-analyzer-pro/internal/analyzer"
	"github.com/MrCasCode/log-analyzer-pro/internal/filter"
	"github.com/MrCasCode/log-analyzer-pro/internal/logline"
)

// FormatSetting is one entry of the "formats" array.
type FormatSetting struct {
	Alias   string `json:"alias"`
	Pattern string `json:"pattern"`
}

// FilterSetting is one entry of the "filters" array. Action is one of
// "INCLUDE", "EXCLUDE", "MARKER", written all upper case or all lower case.
type FilterSetting struct {
	Alias         string            `json:"alias"`
	Action        string            `json:"action"`
	FieldPatterns map[string]string `json:"field_patterns"`
	Color         *logline.Color    `json:"color,omitempty"`
	Enabled       bool              `json:"enabled"`
}

// LogSetting is one entry of the "logs" array: a source to start
// automatically at load time.
type LogSetting struct {
	Name          string `json:"name"`
	Kind          string `json:"kind"` // "file" or "tcp"
	Address       string `json:"address"`
	Format        string `json:"format"`
	FromBeginning bool   `json:"from_beginning"`
}

// Settings is the whole settings document.
type Settings struct {
	Formats      []FormatSetting `json:"formats"`
	Filters      []FilterSetting `json:"filters"`
	Logs         []LogSetting    `json:"logs"`
	PrimaryColor *logline.Color  `json:"primary_color,omitempty"`
}

func parseKind(s string) (analyzer.SourceKind, error) {
	switch s {
	case "file", "FILE":
		return analyzer.KindFile, nil
	case "tcp", "TCP":
		return analyzer.KindTCP, nil
	default:
		return 0, fmt.Errorf("unknown log kind %q", s)
	}
}

// Load reads and parses a settings document from path.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, err
	}
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parse settings %s: %w", path, err)
	}
	return s, nil
}

func parseAction(s string) (filter.Action, error) {
	switch s {
	case "INCLUDE", "include":
		return filter.Include, nil
	case "EXCLUDE", "exclude":
		return filter.Exclude, nil
	case "MARKER", "marker":
		return filter.Marker, nil
	default:
		return 0, fmt.Errorf("unknown filter action %q", s)
	}
}

// Apply registers every format and filter in s with a, in document order,
// enabling filters that were marked enabled, and sets the primary color
// fallback if present.
func (s Settings) Apply(a *analyzer.LogAnalyzer) error {
	for _, f := range s.Formats {
		if err := a.AddFormat(f.Alias, f.Pattern); err != nil {
			return fmt.Errorf("format %q: %w", f.Alias, err)
		}
	}

	for _, f := range s.Filters {
		action, err := parseAction(f.Action)
		if err != nil {
			return fmt.Errorf("filter %q: %w", f.Alias, err)
		}
		a.AddFilter(filter.Filter{
			Alias:         f.Alias,
			Action:        action,
			FieldPatterns: f.FieldPatterns,
			Color:         f.Color,
		})
		if f.Enabled {
			a.ToggleFilter(f.Alias)
		}
	}

	for _, l := range s.Logs {
		kind, err := parseKind(l.Kind)
		if err != nil {
			return fmt.Errorf("log %q: %w", l.Name, err)
		}
		if err := a.AddLog(l.Name, kind, l.Address, l.Format, l.FromBeginning); err != nil {
			return fmt.Errorf("log %q: %w", l.Name, err)
		}
	}

	if s.PrimaryColor != nil {
		a.SetPrimaryColor(*s.PrimaryColor)
	}
	return nil
}
