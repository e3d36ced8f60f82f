// Package ansi provides ANSI escape code constants and helpers for terminal output.
// All colored terminal output should reference these constants to avoid duplication.
package ansi

import (
	"os"
	"regexp"
)

// ANSI SGR (Select Graphic Rendition) codes.
const (
	Reset   = "\033[0m"
	Bold    = "\033[1m"
	Dim     = "\033[2m"
	Blue    = "\033[34m"
	Yellow  = "\033[33m"
	Green   = "\033[32m"
	Red     = "\033[31m"
	Cyan    = "\033[36m"
	Magenta = "\033[35m"
)

var sgrPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// Wrap surrounds s with the given codes and a trailing Reset.
// With no codes, s is returned unchanged.
func Wrap(s string, codes ...string) string {
	if len(codes) == 0 {
		return s
	}
	prefix := ""
	for _, c := range codes {
		prefix += c
	}
	return prefix + s + Reset
}

// Strip removes SGR sequences from s.
func Strip(s string) string {
	return sgrPattern.ReplaceAllString(s, "")
}

// Enabled reports whether color output should be used for f: false when
// NO_COLOR is set or f is not a character device.
func Enabled(f *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if f == nil {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
