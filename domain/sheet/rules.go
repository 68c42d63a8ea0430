package sheet

import (
	"strings"
)

// HeaderRule is an ordered list of acceptance predicates evaluated against
// normalized header text: exact equality first, then substring containment,
// then groups where every substring must be present.
type HeaderRule struct {
	Equals      []string
	Contains    []string
	ContainsAll [][]string
}

// Match reports whether normalized header text satisfies the rule.
func (r HeaderRule) Match(text string) bool {
	if text == "" {
		return false
	}
	for _, eq := range r.Equals {
		if text == eq {
			return true
		}
	}
	for _, sub := range r.Contains {
		if strings.Contains(text, sub) {
			return true
		}
	}
	for _, group := range r.ContainsAll {
		all := true
		for _, sub := range group {
			if !strings.Contains(text, sub) {
				all = false
				break
			}
		}
		if all && len(group) > 0 {
			return true
		}
	}
	return false
}

// HeaderRules maps each semantic field to its acceptance rule.
type HeaderRules map[Field]HeaderRule

// DefaultHeaderRules returns the alias table used to recognize pile survey
// headers. The table is pure data; callers may substitute their own.
func DefaultHeaderRules() HeaderRules {
	return HeaderRules{
		FieldFrame: {
			Equals:   []string{"table"},
			Contains: []string{"table", "tracker", "frame"},
		},
		FieldPole: {
			Equals:   []string{"pole"},
			Contains: []string{"pole", "pile"},
		},
		FieldX: {
			Equals:   []string{"x"},
			Contains: []string{"east"},
		},
		FieldY: {
			Equals:   []string{"y"},
			Contains: []string{"north"},
		},
		FieldZ: {
			Equals:      []string{"z"},
			Contains:    []string{"terrain", "ground", "elev"},
			ContainsAll: [][]string{{"z", "enter"}},
		},
	}
}

// NormalizeHeader prepares header text for rule matching: trim, lower-case,
// collapse internal whitespace to single spaces.
func NormalizeHeader(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
