package game

import (
	"fmt"
	"strings"
)

// MatchPolicy decides whether a recall submission is correct.
type MatchPolicy string

const (
	// MatchPrefix accepts a submission whose every element matches the
	// target at the same index. Short and empty submissions pass.
	MatchPrefix MatchPolicy = "prefix"
	// MatchExact also requires the lengths to be equal.
	MatchExact MatchPolicy = "exact"
)

func ParseMatchPolicy(s string) (MatchPolicy, error) {
	switch MatchPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", MatchPrefix:
		return MatchPrefix, nil
	case MatchExact:
		return MatchExact, nil
	default:
		return "", fmt.Errorf("unknown sequence match policy %q", s)
	}
}

func (p MatchPolicy) Matches(target, submitted []int) bool {
	if p == MatchExact && len(submitted) != len(target) {
		return false
	}
	for i, v := range submitted {
		if i >= len(target) || target[i] != v {
			return false
		}
	}
	return true
}
