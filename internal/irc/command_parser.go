package irc

import "strings"

// ParseGameQuery splits a raw query into search terms and a requested
// 1-based result index. The index is the last comma-separated segment
// when it is purely numeric; anything else, including signed numbers,
// stays part of the terms. Zero or missing indexes default to 1.
func ParseGameQuery(text string) (terms string, index int) {
	index = 1

	var parts []string
	for _, p := range strings.Split(text, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}

	if len(parts) > 1 && isDigits(parts[len(parts)-1]) {
		index = atoiDigits(parts[len(parts)-1])
		parts = parts[:len(parts)-1]
	}

	if index < 1 {
		index = 1
	}

	return strings.Join(parts, " "), index
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func atoiDigits(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
		if n > 1<<20 {
			return 1 << 20
		}
	}
	return n
}
