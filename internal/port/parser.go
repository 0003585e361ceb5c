package port

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	minPort = 1
	maxPort = 65535
)

// ParseTokens converts raw CLI tokens ("3000" or "3000-3005") into a
// deduplicated, ascending list of valid ports plus one error message per
// rejected token. Invalid tokens never abort the parse; valid siblings
// still contribute.
func ParseTokens(tokens []string) ([]int, []string) {
	seen := make(map[int]struct{})
	var errs []string

	for _, tok := range tokens {
		if strings.Contains(tok, "-") {
			start, end, ok := parseRange(tok)
			if !ok {
				errs = append(errs, fmt.Sprintf("Error: Invalid port range %s", tok))
				continue
			}
			for p := start; p <= end; p++ {
				seen[p] = struct{}{}
			}
			continue
		}

		p, ok := parsePort(tok)
		if !ok {
			errs = append(errs, fmt.Sprintf("Error: Invalid port %s", tok))
			continue
		}
		seen[p] = struct{}{}
	}

	ports := make([]int, 0, len(seen))
	for p := range seen {
		ports = append(ports, p)
	}
	sort.Ints(ports)
	return ports, errs
}

// parseRange parses "start-end", splitting at the first dash only. Both
// endpoints must be in-range and ordered; otherwise the whole token is
// rejected with no partial expansion.
func parseRange(tok string) (start, end int, ok bool) {
	parts := strings.SplitN(tok, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	start, ok = parsePort(parts[0])
	if !ok {
		return 0, 0, false
	}
	end, ok = parsePort(parts[1])
	if !ok {
		return 0, 0, false
	}
	if start > end {
		return 0, 0, false
	}
	return start, end, true
}

// parsePort applies loose integer semantics and the [1,65535] bound.
func parsePort(s string) (int, bool) {
	n, ok := looseAtoi(s)
	if !ok || n < minPort || n > maxPort {
		return 0, false
	}
	return n, true
}

// looseAtoi parses the leading decimal digits of a token, ignoring
// surrounding whitespace and any trailing garbage after a valid integer
// ("3000.5" yields 3000, " 08080 " yields 8080). Tokens with no leading
// digits fail.
func looseAtoi(s string) (int, bool) {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, false
	}
	return n, true
}
