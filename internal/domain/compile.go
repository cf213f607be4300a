package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrUnsupportedDirective reports a directive with no regex/parsing mapping,
// such as the timezone-name field or reserved internal fields.
var ErrUnsupportedDirective = errors.New("unsupported directive")

// Name and digit tables used by the fixed-string fragments. Process-wide
// constants, English-only.
const (
	shortMonths   = "Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec"
	longMonths    = "January|February|March|April|May|June|July|August|September|October|November|December"
	shortWeekdays = "Mon|Tue|Wed|Thu|Fri|Sat|Sun"
	longWeekdays  = "Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday"
	lowerAmPm     = "am|pm"
	upperAmPm     = "AM|PM"

	twoDigits  = `\d{2}`
	fourDigits = `\d{4}`

	// Generic fractional-second alternation (%.f) tries 3 digits first;
	// the RFC 3339 composite tries 9 first.
	nanoGeneric = `(?:\d{3}|\d{6}|\d{9})`
	nanoRFC3339 = `(?:\d{9}|\d{6}|\d{3})`
)

// numericWidth gives the digit width per numeric field kind. The unix
// timestamp is absent because it is variable-length.
var numericWidth = map[DirectiveKind]int{
	KindYear:           4,
	KindIsoYear:        4,
	KindYearDiv100:     2,
	KindYearMod100:     2,
	KindIsoYearMod100:  2,
	KindMonth:          2,
	KindDay:            2,
	KindWeekFromSun:    2,
	KindWeekFromMon:    2,
	KindIsoWeek:        2,
	KindHour:           2,
	KindHour12:         2,
	KindMinute:         2,
	KindSecond:         2,
	KindWeekdayFromSun: 1,
	KindWeekdayFromMon: 1,
	KindDayOfYear:      3,
	KindNanosecondNum:  9,
}

type fixedFragment struct {
	pattern string
	// bearsOffset marks fragments that convey an explicit UTC offset;
	// compiling one clears the pattern's naive flag.
	bearsOffset bool
	// zulu marks fragments whose text may be a literal "Z".
	zulu bool
}

var fixedFragments = map[DirectiveKind]fixedFragment{
	KindShortMonthName:   {pattern: "(?:" + shortMonths + ")"},
	KindLongMonthName:    {pattern: "(?:" + longMonths + ")"},
	KindShortWeekdayName: {pattern: "(?:" + shortWeekdays + ")"},
	KindLongWeekdayName:  {pattern: "(?:" + longWeekdays + ")"},
	KindLowerAmPm:        {pattern: "(?:" + lowerAmPm + ")"},
	KindUpperAmPm:        {pattern: "(?:" + upperAmPm + ")"},
	KindNanosecond:       {pattern: `\.` + nanoGeneric},
	KindNanosecond3:      {pattern: `\.\d{3}`},
	KindNanosecond6:      {pattern: `\.\d{6}`},
	KindNanosecond9:      {pattern: `\.\d{9}`},
	KindOffset:           {pattern: `[+-]\d{2}\d{2}`, bearsOffset: true},
	KindOffsetColon:      {pattern: `[+-]\d{2}:\d{2}`, bearsOffset: true},
	KindOffsetZ:          {pattern: `(?:Z|[+-]\d{2}\d{2})`, bearsOffset: true, zulu: true},
	KindOffsetColonZ:     {pattern: `(?:Z|[+-]\d{2}:\d{2})`, bearsOffset: true, zulu: true},
	KindRFC2822: {
		pattern: "(?:" + shortWeekdays + `),\s+` + twoDigits + `\s+(?:` + shortMonths + `)\s+` +
			fourDigits + `\s+` + twoDigits + ":" + twoDigits + ":" + twoDigits + ` [+-]` + twoDigits + twoDigits,
		bearsOffset: true,
	},
	// Note: no trailing offset/Z segment. A full RFC 3339 string with an
	// offset matches only up to its fraction, and the later parse failure
	// flows through the ParseError path.
	KindRFC3339: {
		pattern:     fourDigits + "-" + twoDigits + "-" + twoDigits + "T" + twoDigits + ":" + twoDigits + ":" + twoDigits + `\.` + nanoRFC3339,
		bearsOffset: true,
	},
}

// Compile translates a format specification into a Pattern: an unanchored
// regular expression that locates a matching substring in free text, plus
// metadata describing how the substring relates to UTC.
//
// Compilation is pure and deterministic. It fails with ErrMalformedSpec when
// the specification cannot be decomposed and with ErrUnsupportedDirective
// when it uses a field with no mapping (e.g. %Z).
func Compile(spec string) (*Pattern, error) {
	items, err := Decompose(spec)
	if err != nil {
		return nil, err
	}
	return compileDirectives(spec, items)
}

func compileDirectives(spec string, items []Directive) (*Pattern, error) {
	var b strings.Builder
	naive := true
	// A trailing literal "Z" in the specification marks zulu-suffix
	// handling even though no offset directive is present.
	zulu := strings.HasSuffix(spec, "Z") && !strings.HasSuffix(spec, "%Z")

	for _, d := range items {
		switch d.Kind {
		case KindLiteral:
			b.WriteString(regexp.QuoteMeta(d.Text))
			continue
		case KindWhitespace:
			b.WriteString(`\s*`)
			continue
		case KindUnixTimestamp:
			b.WriteString(`\d+`)
			continue
		}
		if w, ok := numericWidth[d.Kind]; ok {
			if d.Pad == PadSpace {
				fmt.Fprintf(&b, `\s{0,%d}\d{1,%d}`, w-1, w)
			} else {
				fmt.Fprintf(&b, `\d{%d}`, w)
			}
			continue
		}
		if f, ok := fixedFragments[d.Kind]; ok {
			b.WriteString(f.pattern)
			if f.bearsOffset {
				naive = false
			}
			if f.zulu {
				zulu = true
			}
			continue
		}
		tok := d.Text
		if tok == "" {
			tok = fmt.Sprintf("directive %d", d.Kind)
		}
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDirective, tok)
	}

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", spec, err)
	}
	return &Pattern{format: spec, re: re, naive: naive, zulu: zulu}, nil
}
