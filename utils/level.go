package utils

import (
	"regexp"
	"strconv"
	"strings"
)

var trailingDigits = regexp.MustCompile(`([0-9]+)$`)

// ParseLevel extracts the numeric floor index from a free-text level label,
// e.g. "00 NIVEL 01" -> 1. Labels without trailing digits parse as 0.
func ParseLevel(text string) int {
	match := trailingDigits.FindStringSubmatch(strings.TrimSpace(text))
	if match == nil {
		return 0
	}
	level, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	return level
}
