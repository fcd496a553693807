package switcher

import (
	"fmt"
	"regexp"
)

// PatternSet holds the raw include/exclude pattern lists as loaded from the
// config file. Each list is independently optional; when both include lists
// are empty, every device passes the include stage.
type PatternSet struct {
	IncludeNames        []string
	IncludeDescriptions []string
	ExcludeNames        []string
	ExcludeDescriptions []string
}

// Matcher reports whether a single compiled pattern matches a piece of text.
type Matcher interface {
	MatchString(s string) bool
}

// Compiler turns a raw pattern into a Matcher. The production implementation
// wraps the regexp package; tests inject fakes.
type Compiler interface {
	Compile(pattern string) (Matcher, error)
}

// RegexpCompiler is the default Compiler, backed by the standard regexp
// engine. Matches are unanchored (substring), and inline flags like (?i)
// are part of the pattern syntax.
type RegexpCompiler struct{}

func (RegexpCompiler) Compile(pattern string) (Matcher, error) {
	return regexp.Compile(pattern)
}

// DeviceFilter evaluates devices against a compiled PatternSet.
type DeviceFilter struct {
	includeNames []Matcher
	includeDescs []Matcher
	excludeNames []Matcher
	excludeDescs []Matcher
}

// NewDeviceFilter compiles every pattern in the set up front, so a bad
// pattern fails the run before any device is looked at.
func NewDeviceFilter(compiler Compiler, set PatternSet) (*DeviceFilter, error) {
	df := &DeviceFilter{}

	var err error
	if df.includeNames, err = compileAll(compiler, set.IncludeNames); err != nil {
		return nil, err
	}
	if df.includeDescs, err = compileAll(compiler, set.IncludeDescriptions); err != nil {
		return nil, err
	}
	if df.excludeNames, err = compileAll(compiler, set.ExcludeNames); err != nil {
		return nil, err
	}
	if df.excludeDescs, err = compileAll(compiler, set.ExcludeDescriptions); err != nil {
		return nil, err
	}

	return df, nil
}

func compileAll(compiler Compiler, patterns []string) ([]Matcher, error) {
	matchers := make([]Matcher, 0, len(patterns))

	for _, pattern := range patterns {
		m, err := compiler.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", pattern, err)
		}
		matchers = append(matchers, m)
	}

	return matchers, nil
}

// Eligible reports whether the device passes the include stage and survives
// the exclude stage. Exclusion always wins over inclusion.
func (df *DeviceFilter) Eligible(dev Device) bool {
	return df.wantInclude(dev) && !df.wantExclude(dev)
}

func (df *DeviceFilter) wantInclude(dev Device) bool {
	// no include patterns means include all devices
	if len(df.includeNames) == 0 && len(df.includeDescs) == 0 {
		return true
	}

	return anyMatch(df.includeNames, dev.Name) || anyMatch(df.includeDescs, dev.Description)
}

func (df *DeviceFilter) wantExclude(dev Device) bool {
	return anyMatch(df.excludeNames, dev.Name) || anyMatch(df.excludeDescs, dev.Description)
}

func anyMatch(matchers []Matcher, text string) bool {
	for _, m := range matchers {
		if m.MatchString(text) {
			return true
		}
	}

	return false
}
