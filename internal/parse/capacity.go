package parse

import (
	"regexp"
	"strconv"
	"strings"
)

var numberRe = regexp.MustCompile(`^\d+$`)

// Capacity parses a free-form capacity field ("4", " 04 beds", "") into a
// non-negative integer. Operators fill these fields incrementally, so a
// malformed or empty value degrades to 0 instead of failing the caller.
func Capacity(raw string) int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}

	if numberRe.MatchString(s) {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return 0
		}
		return n
	}

	// Fall back to a leading digit run, e.g. "4 beds".
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0
	}
	return n
}

// Rent parses a free-form rent field into rupees, with the same lenient
// fallback to 0 as Capacity.
func Rent(raw string) int {
	return Capacity(raw)
}
