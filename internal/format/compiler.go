package format

import (
	"fmt"
	"strings"
	"sync"

	"github.com/grafana/regexp"
	"github.com/vjeantet/grok"

	"github.com/MrCasCode/log-analyzer-pro/internal/regexcache"
)

// compiledPattern extracts the recognized named groups from a line.
type compiledPattern interface {
	// extract returns the matched named groups (upper-cased recognized
	// names only need be present) and whether the pattern matched at all.
	extract(line string) (map[string]string, bool)
}

// Compiler resolves a pattern string (plain regex or grok-aliased) into a
// compiledPattern, caching both representations.
type Compiler struct {
	regexes *regexcache.Cache

	mu   sync.Mutex
	grok *grok.Grok
	groks map[string]*grok.CompiledGrok
}

// NewCompiler returns a Compiler backed by a fresh regex cache.
func NewCompiler() *Compiler {
	return &Compiler{
		regexes: regexcache.New(regexcache.DefaultSize),
		groks:   make(map[string]*grok.CompiledGrok),
	}
}

// isGrokPattern reports whether pattern uses logstash-style `%{NAME}`
// aliases rather than (or in addition to) raw Go regex named groups.
func isGrokPattern(pattern string) bool {
	return strings.Contains(pattern, "%{")
}

func (c *Compiler) resolve(pattern string) (compiledPattern, error) {
	if isGrokPattern(pattern) {
		return c.resolveGrok(pattern)
	}
	re, err := c.regexes.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return regexPattern{re: re}, nil
}

func (c *Compiler) resolveGrok(pattern string) (compiledPattern, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cg, ok := c.groks[pattern]; ok {
		return grokPattern{compiled: cg}, nil
	}
	if c.grok == nil {
		g, err := grok.New()
		if err != nil {
			return nil, fmt.Errorf("initializing grok: %w", err)
		}
		c.grok = g
	}
	cg, err := c.grok.Compile(pattern, true)
	if err != nil {
		return nil, err
	}
	c.groks[pattern] = cg
	return grokPattern{compiled: cg}, nil
}

// regexPattern adapts *regexp.Regexp named-group capture to compiledPattern.
type regexPattern struct {
	re *regexp.Regexp
}

func (p regexPattern) extract(line string) (map[string]string, bool) {
	m := p.re.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	out := make(map[string]string, len(p.re.SubexpNames()))
	for i, name := range p.re.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		out[strings.ToUpper(name)] = m[i]
	}
	return out, true
}

// grokPattern adapts a compiled grok pattern to compiledPattern.
type grokPattern struct {
	compiled *grok.CompiledGrok
}

func (p grokPattern) extract(line string) (map[string]string, bool) {
	if !p.compiled.Match(line) {
		return nil, false
	}
	raw := p.compiled.ParseString(line)
	out := make(map[string]string, len(raw))
	for name, value := range raw {
		out[strings.ToUpper(name)] = value
	}
	return out, true
}
