package util

import (
	"fmt"
	"strings"
	"time"
)

// ResolveZone maps a zone name to a *time.Location.
//
// Empty and "local" resolve to time.Local, "utc"/"z" to time.UTC, and any
// other value is treated as an IANA zone name.
func ResolveZone(name string) (*time.Location, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "local":
		return time.Local, nil
	case "utc", "z":
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown zone %q", name)
	}
	return loc, nil
}
