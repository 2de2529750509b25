package core

import (
	"strings"
	"time"
)

var nowFunc = time.Now // mockable

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// Now returns the current UTC time truncated to microseconds, the precision postgres stores.
func Now() time.Time {
	return nowFunc().UTC().Truncate(time.Microsecond)
}
