package contracttest

import (
	"fmt"
	"regexp"
	"strings"
)

// Filter holds slash-separated regex patterns matched level by level against
// a TestID, the way `go test -run` does.
type Filter struct {
	patterns [][]*regexp.Regexp
	raw      []string
}

func (f Filter) String() string {
	var ss []string
	for _, p := range f.raw {
		ss = append(ss, `"`+p+`"`)
	}
	return strings.Join(ss, " or ")
}

// Set implements flag.Value and pflag.Value.
func (f *Filter) Set(value string) error {
	var levels []*regexp.Regexp
	for _, part := range strings.Split(value, "/") {
		r, err := regexp.Compile(part)
		if err != nil {
			return fmt.Errorf("invalid regex: %w", err)
		}
		levels = append(levels, r)
	}
	f.patterns = append(f.patterns, levels)
	f.raw = append(f.raw, value)
	return nil
}

// Type implements pflag.Value.
func (f *Filter) Type() string {
	return "regex"
}

func (f Filter) IsDefined() bool {
	return len(f.patterns) != 0
}

// AnyPrefixMatch reports whether some pattern accepts every level of id that
// it constrains. Levels beyond the pattern match anything.
func (f Filter) AnyPrefixMatch(id TestID) bool {
	for _, levels := range f.patterns {
		if matchLevels(levels, id, false) {
			return true
		}
	}
	return false
}

// AnyFullMatch reports whether some pattern constrains and accepts every one
// of its levels, so a pattern never excludes a parent group of its target.
func (f Filter) AnyFullMatch(id TestID) bool {
	for _, levels := range f.patterns {
		if matchLevels(levels, id, true) {
			return true
		}
	}
	return false
}

func matchLevels(levels []*regexp.Regexp, id TestID, full bool) bool {
	if full && len(id.Path) < len(levels) {
		return false
	}
	for i, elem := range id.Path {
		if i >= len(levels) {
			break
		}
		if !levels[i].MatchString(elem) {
			return false
		}
	}
	return true
}

// RegexFilters combines --run and --skip patterns.
type RegexFilters struct {
	MustMatch    Filter
	MustNotMatch Filter
}

// Match decides whether the test with this id runs.
func (r RegexFilters) Match(id TestID) bool {
	if r.MustMatch.IsDefined() && !r.MustMatch.AnyPrefixMatch(id) {
		return false
	}
	if r.MustNotMatch.IsDefined() && r.MustNotMatch.AnyFullMatch(id) {
		return false
	}
	return true
}

func (r RegexFilters) Describe() string {
	var parts []string
	if r.MustMatch.IsDefined() {
		parts = append(parts, "running only tests matching "+r.MustMatch.String())
	}
	if r.MustNotMatch.IsDefined() {
		parts = append(parts, "skipping tests matching "+r.MustNotMatch.String())
	}
	if len(parts) == 0 {
		return "running all tests"
	}
	return strings.Join(parts, "; ")
}
