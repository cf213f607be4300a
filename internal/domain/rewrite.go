package domain

import (
	"fmt"
	"strings"
	"time"

	timefmt "github.com/itchyny/timefmt-go"
)

// ParseError reports a substring that matched a pattern's regex but could
// not be parsed by the same pattern's format. It signals a disagreement
// between matcher and parser and must be surfaced, not swallowed; the
// affected line is emitted unchanged.
type ParseError struct {
	Format string
	Text   string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q with format %q: %v", e.Text, e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Rewriter converts the first recognized timestamp on a line to a target
// zone. It holds only read-only state and is safe for concurrent use.
type Rewriter struct {
	set *PatternSet
	loc *time.Location
}

// NewRewriter builds a Rewriter over set targeting loc. A nil loc means the
// local zone.
func NewRewriter(set *PatternSet, loc *time.Location) *Rewriter {
	if loc == nil {
		loc = time.Local
	}
	return &Rewriter{set: set, loc: loc}
}

// Rewrite scans line with each pattern in priority order and rewrites the
// first match to the target zone, replacing every occurrence of the matched
// text. Lines with no match are returned unchanged with a nil error.
//
// When the matched text fails to parse, the line is returned unchanged
// together with a *ParseError for the caller's diagnostic channel; no
// further patterns are tried, mirroring the first-match-wins contract.
func (r *Rewriter) Rewrite(line string) (string, error) {
	for _, p := range r.set.Patterns() {
		m, ok := p.Find(line)
		if !ok || m == "" {
			// An empty-string match (from an empty specification)
			// carries no timestamp to rewrite.
			continue
		}
		rendered, err := r.convert(p, m)
		if err != nil {
			return line, err
		}
		return strings.ReplaceAll(line, m, rendered), nil
	}
	return line, nil
}

func (r *Rewriter) convert(p *Pattern, matched string) (string, error) {
	// timefmt.Parse interprets zone-less text as UTC, which is exactly the
	// naive-timestamp convention; offset-bearing formats yield the proper
	// instant directly.
	t, err := timefmt.Parse(matched, p.Format())
	if err != nil {
		return "", &ParseError{Format: p.Format(), Text: matched, Err: err}
	}
	local := t.In(r.loc)
	if !p.Naive() {
		return timefmt.Format(local, p.Format()), nil
	}
	render := p.Format()
	if p.Zulu() {
		// The matched trailing "Z" is a UTC marker, not part of the
		// rendered output once an explicit offset is appended.
		render = strings.TrimSuffix(render, "Z")
	}
	return timefmt.Format(local, render) + local.Format("-07:00"), nil
}
