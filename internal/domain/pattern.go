package domain

import (
	"fmt"
	"regexp"
)

// Pattern is the compiled artifact of one format specification.
//
// The matcher is unanchored: it recognizes a matching substring anywhere in a
// larger string. Patterns are immutable after compilation.
type Pattern struct {
	format string
	re     *regexp.Regexp
	naive  bool
	zulu   bool
}

// Format returns the original specification string, needed to re-format a
// parsed value.
func (p *Pattern) Format() string { return p.format }

// Naive reports whether no directive conveys an explicit UTC offset; a match
// must then be interpreted as UTC by convention.
func (p *Pattern) Naive() bool { return p.naive }

// Zulu reports whether the pattern's textual form can end in a literal "Z"
// in place of a numeric offset.
func (p *Pattern) Zulu() bool { return p.zulu }

// Find returns the leftmost matching substring of line, if any.
func (p *Pattern) Find(line string) (string, bool) {
	loc := p.re.FindStringIndex(line)
	if loc == nil {
		return "", false
	}
	return line[loc[0]:loc[1]], true
}

// PatternSet is an ordered collection of compiled Patterns. Position defines
// match priority: earlier patterns are tried first. Immutable after
// construction.
type PatternSet struct {
	patterns []*Pattern
}

// BuildPatternSet compiles user-supplied specifications ahead of the
// built-in defaults and returns them as one prioritized set.
//
// Duplicate specification strings are compiled once. A user specification
// that fails to compile aborts construction with an error naming the
// specification; the defaults are trusted to compile, so a failure there is
// an internal defect surfaced the same way.
func BuildPatternSet(userSpecs, defaultSpecs []string) (*PatternSet, error) {
	set := &PatternSet{}
	seen := make(map[string]bool, len(userSpecs)+len(defaultSpecs))
	for _, spec := range userSpecs {
		if seen[spec] {
			continue
		}
		seen[spec] = true
		p, err := Compile(spec)
		if err != nil {
			return nil, fmt.Errorf("format %q: %w", spec, err)
		}
		set.patterns = append(set.patterns, p)
	}
	for _, spec := range defaultSpecs {
		if seen[spec] {
			continue
		}
		seen[spec] = true
		p, err := Compile(spec)
		if err != nil {
			return nil, fmt.Errorf("built-in format %q: %w", spec, err)
		}
		set.patterns = append(set.patterns, p)
	}
	return set, nil
}

// Len returns the number of distinct compiled patterns.
func (s *PatternSet) Len() int { return len(s.patterns) }

// Patterns returns the compiled patterns in priority order.
func (s *PatternSet) Patterns() []*Pattern { return s.patterns }
