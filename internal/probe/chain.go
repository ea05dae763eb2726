package probe

import "strings"

// Strategy is one way of obtaining a fact. ok=false (failed command, parse
// miss, empty output) falls through to the next strategy in the chain.
type Strategy func() (string, bool)

// first tries strategies in order and short-circuits on the first success.
// An exhausted chain reports absence, never a partial value.
func first(strategies ...Strategy) (string, bool) {
	for _, s := range strategies {
		if v, ok := s(); ok {
			return v, true
		}
	}
	return "", false
}

// nonEmpty trims s and reports whether anything remains.
func nonEmpty(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}

// firstLine returns the first non-blank line of s.
func firstLine(s string) (string, bool) {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line, true
		}
	}
	return "", false
}

// appendUnique appends v to list unless already present, preserving
// first-seen-wins insertion order.
func appendUnique(list []string, v string) []string {
	for _, have := range list {
		if have == v {
			return list
		}
	}
	return append(list, v)
}
