// Package advisory maps a predicted disease label to a canned remedy.
package advisory

import "strings"

// Rule matches any label containing Pattern.
type Rule struct {
	Pattern string
	Message string
}

// Advice is the outcome of a table lookup. Matched is false when the table
// fell through to its fallback message.
type Advice struct {
	Message string
	Matched bool
}

func (a Advice) String() string {
	if a.Matched {
		return "Suggestion: " + a.Message
	}
	return a.Message
}

// Table is an ordered decision table: the first matching rule wins.
type Table struct {
	Rules    []Rule
	Fallback string
}

func DefaultTable() Table {
	return Table{
		Rules: []Rule{
			{Pattern: "Late_blight", Message: "Spray neem oil twice a week and remove infected leaves."},
			{Pattern: "Leaf_Mold", Message: "Improve ventilation and apply baking soda + water mix."},
		},
		Fallback: "Your crop looks healthy or mild issue detected.",
	}
}

func (t Table) Select(label string) Advice {
	for _, rule := range t.Rules {
		if strings.Contains(label, rule.Pattern) {
			return Advice{Message: rule.Message, Matched: true}
		}
	}
	return Advice{Message: t.Fallback}
}
