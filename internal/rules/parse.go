package rules

import (
	"regexp"
	"strconv"
	"strings"
)

// Threshold gates like "8 Intelligence" and "5 or less" arrive as free text
// printed on the cards. Each grammar gets its own parse function returning a
// typed result; callers decide what an unparseable string means for their
// card type.

// StatThreshold is a parsed teamwork gate: a minimum value for one named stat
// (or Any-Power, matched against the team's best stat).
type StatThreshold struct {
	Value int
	Stat  string
}

// Comparator directions for ally-universe gates.
const (
	CompareAtMost  = "less"
	CompareAtLeast = "higher"
)

// StatRequirement is a parsed ally-universe gate, e.g. "5 or less".
type StatRequirement struct {
	Value      int
	Comparator string
}

var (
	teamworkRe  = regexp.MustCompile(`^(\d+)\s+(Energy|Combat|Brute Force|Intelligence|Any-Power)$`)
	allyRe      = regexp.MustCompile(`^(\d+)\s+or\s+(less|higher)$`)
	orGreaterRe = regexp.MustCompile(`^(\d+)\s+or\s+greater$`)
)

// ParseTeamworkGate parses a teamwork card's to_use field.
func ParseTeamworkGate(s string) (StatThreshold, bool) {
	m := teamworkRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return StatThreshold{}, false
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return StatThreshold{}, false
	}
	return StatThreshold{Value: v, Stat: m[2]}, true
}

// ParseAllyGate parses an ally-universe card's stat_to_use field.
func ParseAllyGate(s string) (StatRequirement, bool) {
	m := allyRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return StatRequirement{}, false
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return StatRequirement{}, false
	}
	return StatRequirement{Value: v, Comparator: m[2]}, true
}

// ParseOrGreater parses a basic-universe value_to_use field of the form
// "N or greater".
func ParseOrGreater(s string) (int, bool) {
	m := orGreaterRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, false
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseInt parses a bare numeric field (training value_to_use).
func ParseInt(s string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return v, true
}
