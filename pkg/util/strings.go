package util

import (
	"strconv"
	"strings"
)

// ParseIntDefault parses string to int or returns default if empty/invalid.
func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

// ParseIntZero parses a trimmed numeric string, returning 0 when missing or
// malformed. Upstream date and floor fields are numeric strings at best.
func ParseIntZero(s string) int {
	return ParseIntDefault(strings.TrimSpace(s), 0)
}

// ParseFloatZero parses a trimmed float string, returning 0 on failure.
func ParseFloatZero(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// CleanAmount strips commas and spaces from an upstream amount string.
func CleanAmount(s string) string {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	return strings.TrimSpace(s)
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
