package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestBuildPatternSetUserSpecsFirst(t *testing.T) {
	set, err := BuildPatternSet([]string{"%H:%M"}, []string{"%Y"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Len() != 2 {
		t.Fatalf("want 2 patterns, got %d", set.Len())
	}
	if got := set.Patterns()[0].Format(); got != "%H:%M" {
		t.Fatalf("user spec must come first, got %q", got)
	}
}

func TestBuildPatternSetDeduplicates(t *testing.T) {
	set, err := BuildPatternSet([]string{"%Y", "%Y"}, []string{"%Y"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Len() != 1 {
		t.Fatalf("want 1 pattern after dedup, got %d", set.Len())
	}
}

func TestBuildPatternSetUserErrorNamesSpec(t *testing.T) {
	_, err := BuildPatternSet([]string{"%H %Z"}, nil)
	if !errors.Is(err, ErrUnsupportedDirective) {
		t.Fatalf("want ErrUnsupportedDirective, got %v", err)
	}
	if !strings.Contains(err.Error(), "%H %Z") {
		t.Fatalf("error must name the failing spec, got %q", err)
	}
}

func TestPatternFindLeftmost(t *testing.T) {
	set, err := BuildPatternSet([]string{"%H:%M"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m, ok := set.Patterns()[0].Find("a 10:30 b 11:45")
	if !ok || m != "10:30" {
		t.Fatalf("want leftmost match, got %q ok=%v", m, ok)
	}
}
