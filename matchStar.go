package tsresolve

import "strings"

// MatchStar matches search against a pattern containing at most one "*"
// wildcard and returns the captured substring.
//
// An exact match without a wildcard succeeds with an empty capture — that is
// how a non-wildcard tsconfig alias signals a hit. Only the first "*" is
// special; any further occurrence is a literal character, so a pattern with
// multiple wildcards is almost certainly a misconfiguration upstream.
func MatchStar(pattern, search string) (string, bool) {
	if len(search) < len(pattern) {
		return "", false
	}

	if pattern == "*" {
		return search, true
	}

	if search == pattern {
		return "", true
	}

	starIndex := strings.Index(pattern, "*")
	if starIndex < 0 {
		return "", false
	}

	prefix := pattern[:starIndex]
	suffix := pattern[starIndex+1:]

	if search[:starIndex] != prefix {
		return "", false
	}
	if search[len(search)-len(suffix):] != suffix {
		return "", false
	}

	return search[starIndex : len(search)-len(suffix)], true
}
