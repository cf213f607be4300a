package domain

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"
)

// ErrMalformedSpec reports a format specification that cannot be decomposed
// into directives at all (for example a dangling "%" at the end).
var ErrMalformedSpec = errors.New("malformed format specification")

// DirectiveKind identifies one atomic unit of a format specification.
type DirectiveKind int

const (
	KindLiteral DirectiveKind = iota
	KindWhitespace

	// Numeric fields. Each has a fixed digit width (see numericWidth).
	KindYear
	KindYearDiv100
	KindYearMod100
	KindIsoYear
	KindIsoYearMod100
	KindMonth
	KindDay
	KindWeekFromSun
	KindWeekFromMon
	KindIsoWeek
	KindWeekdayFromSun
	KindWeekdayFromMon
	KindDayOfYear
	KindHour
	KindHour12
	KindMinute
	KindSecond
	KindNanosecondNum
	KindUnixTimestamp

	// Fixed-string fields.
	KindShortMonthName
	KindLongMonthName
	KindShortWeekdayName
	KindLongWeekdayName
	KindLowerAmPm
	KindUpperAmPm
	KindNanosecond
	KindNanosecond3
	KindNanosecond6
	KindNanosecond9
	KindOffset
	KindOffsetColon
	KindOffsetZ
	KindOffsetColonZ
	KindTimezoneName
	KindRFC2822
	KindRFC3339

	// Reserved fields and verbs with no mapping. Compiling either is a
	// hard failure for the specification that contains them.
	KindInternal
	KindUnsupported
)

// Padding selects how a numeric field is padded to its width.
type Padding int

const (
	PadZero Padding = iota
	PadSpace
	PadNone
)

// Directive is one decomposed unit of a format specification.
//
// Text holds the literal text for KindLiteral and KindWhitespace, and the
// original token (e.g. "%Z") for unsupported kinds so errors can name it.
// Pad is meaningful for numeric kinds only.
type Directive struct {
	Kind DirectiveKind
	Text string
	Pad  Padding
}

// Composite verbs expand into the equivalent directive sequence before
// compilation, so the compiler only ever sees atomic directives.
var compositeExpansion = map[byte]string{
	'c': "%a %b %e %H:%M:%S %Y",
	'D': "%m/%d/%y",
	'x': "%m/%d/%y",
	'F': "%Y-%m-%d",
	'R': "%H:%M",
	'T': "%H:%M:%S",
	'X': "%H:%M:%S",
	'r': "%I:%M:%S %p",
	'v': "%e-%b-%Y",
}

type verbSpec struct {
	kind DirectiveKind
	pad  Padding
}

var numericVerbs = map[byte]verbSpec{
	'Y': {KindYear, PadZero},
	'C': {KindYearDiv100, PadZero},
	'y': {KindYearMod100, PadZero},
	'G': {KindIsoYear, PadZero},
	'g': {KindIsoYearMod100, PadZero},
	'm': {KindMonth, PadZero},
	'd': {KindDay, PadZero},
	'e': {KindDay, PadSpace},
	'j': {KindDayOfYear, PadZero},
	'U': {KindWeekFromSun, PadZero},
	'W': {KindWeekFromMon, PadZero},
	'V': {KindIsoWeek, PadZero},
	'w': {KindWeekdayFromSun, PadZero},
	'u': {KindWeekdayFromMon, PadZero},
	'H': {KindHour, PadZero},
	'k': {KindHour, PadSpace},
	'I': {KindHour12, PadZero},
	'l': {KindHour12, PadSpace},
	'M': {KindMinute, PadZero},
	'S': {KindSecond, PadZero},
	'f': {KindNanosecondNum, PadZero},
	's': {KindUnixTimestamp, PadNone},
}

var fixedVerbs = map[byte]DirectiveKind{
	'a': KindShortWeekdayName,
	'A': KindLongWeekdayName,
	'b': KindShortMonthName,
	'h': KindShortMonthName,
	'B': KindLongMonthName,
	'p': KindUpperAmPm,
	'P': KindLowerAmPm,
	'z': KindOffset,
	'Z': KindTimezoneName,
	'+': KindRFC3339,
}

// Decompose splits a strftime-style format specification into directives.
//
// Literal runs, whitespace runs and %-directives follow the usual strftime
// rules: pad modifiers "-", "0" and "_" precede a numeric verb, "%:z" is the
// colon offset form, and "%.f"/"%.3f"/"%.6f"/"%.9f" are fractional-second
// suffixes. Verbs without a mapping decompose into KindUnsupported so the
// compiler can reject them by name; text that cannot complete a directive at
// all returns ErrMalformedSpec.
func Decompose(spec string) ([]Directive, error) {
	var items []Directive
	s := spec
	for len(s) > 0 {
		c, size := utf8.DecodeRuneInString(s)
		switch {
		case c == '%':
			ds, rest, err := decodeDirective(s)
			if err != nil {
				return nil, err
			}
			items = append(items, ds...)
			s = rest
		case unicode.IsSpace(c):
			i := size
			for i < len(s) {
				r, n := utf8.DecodeRuneInString(s[i:])
				if !unicode.IsSpace(r) {
					break
				}
				i += n
			}
			items = append(items, Directive{Kind: KindWhitespace, Text: s[:i]})
			s = s[i:]
		default:
			i := size
			for i < len(s) {
				r, n := utf8.DecodeRuneInString(s[i:])
				if r == '%' || unicode.IsSpace(r) {
					break
				}
				i += n
			}
			items = append(items, Directive{Kind: KindLiteral, Text: s[:i]})
			s = s[i:]
		}
	}
	return items, nil
}

// decodeDirective consumes one %-directive from the front of s. Composite
// verbs return the expanded sequence.
func decodeDirective(s string) ([]Directive, string, error) {
	body := s[1:]
	if body == "" {
		return nil, "", fmt.Errorf("%w: dangling %%", ErrMalformedSpec)
	}

	pad := Padding(-1)
	switch body[0] {
	case '-':
		pad = PadNone
		body = body[1:]
	case '0':
		pad = PadZero
		body = body[1:]
	case '_':
		pad = PadSpace
		body = body[1:]
	}
	if body == "" {
		return nil, "", fmt.Errorf("%w: %q", ErrMalformedSpec, s)
	}

	verb := body[0]
	rest := body[1:]

	if pad >= 0 {
		// Pad modifiers only make sense in front of a numeric verb.
		spec, ok := numericVerbs[verb]
		if !ok {
			return nil, "", fmt.Errorf("%w: pad modifier before %%%c", ErrMalformedSpec, verb)
		}
		return []Directive{{Kind: spec.kind, Pad: pad}}, rest, nil
	}

	switch verb {
	case '%':
		return []Directive{{Kind: KindLiteral, Text: "%"}}, rest, nil
	case 'n':
		return []Directive{{Kind: KindWhitespace, Text: "\n"}}, rest, nil
	case 't':
		return []Directive{{Kind: KindWhitespace, Text: "\t"}}, rest, nil
	case ':':
		if len(rest) > 0 && rest[0] == 'z' {
			return []Directive{{Kind: KindOffsetColon}}, rest[1:], nil
		}
		return nil, "", fmt.Errorf("%w: %q", ErrMalformedSpec, "%:")
	case '.':
		switch {
		case len(rest) > 0 && rest[0] == 'f':
			return []Directive{{Kind: KindNanosecond}}, rest[1:], nil
		case len(rest) > 1 && rest[1] == 'f' && rest[0] == '3':
			return []Directive{{Kind: KindNanosecond3}}, rest[2:], nil
		case len(rest) > 1 && rest[1] == 'f' && rest[0] == '6':
			return []Directive{{Kind: KindNanosecond6}}, rest[2:], nil
		case len(rest) > 1 && rest[1] == 'f' && rest[0] == '9':
			return []Directive{{Kind: KindNanosecond9}}, rest[2:], nil
		}
		return nil, "", fmt.Errorf("%w: %q", ErrMalformedSpec, "%.")
	case '3', '6', '9':
		// %3f/%6f/%9f are fraction digits without the leading dot, a
		// reserved internal form.
		if len(rest) > 0 && rest[0] == 'f' {
			return []Directive{{Kind: KindInternal, Text: "%" + string(verb) + "f"}}, rest[1:], nil
		}
		return nil, "", fmt.Errorf("%w: %q", ErrMalformedSpec, "%"+string(verb))
	}

	if exp, ok := compositeExpansion[verb]; ok {
		items, err := Decompose(exp)
		if err != nil {
			return nil, "", err
		}
		return items, rest, nil
	}
	if spec, ok := numericVerbs[verb]; ok {
		return []Directive{{Kind: spec.kind, Pad: spec.pad}}, rest, nil
	}
	if kind, ok := fixedVerbs[verb]; ok {
		return []Directive{{Kind: kind, Text: "%" + string(verb)}}, rest, nil
	}
	return []Directive{{Kind: KindUnsupported, Text: "%" + string(verb)}}, rest, nil
}
