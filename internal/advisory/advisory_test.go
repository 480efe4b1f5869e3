package advisory

import (
	"strings"
	"testing"
)

func TestDefaultTableSelect(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		label   string
		contain string
		matched bool
	}{
		{"Tomato___Late_blight", "neem oil", true},
		{"Potato___Late_blight", "neem oil", true},
		{"Tomato___Leaf_Mold", "ventilation", true},
		{"Tomato___healthy", "healthy or mild", false},
		{"Corn___Common_rust", "healthy or mild", false},
		{"Unknown", "healthy or mild", false},
		{"", "healthy or mild", false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			advice := table.Select(tt.label)
			if advice.Matched != tt.matched {
				t.Errorf("matched = %v, want %v", advice.Matched, tt.matched)
			}
			if !strings.Contains(advice.Message, tt.contain) {
				t.Errorf("message %q does not contain %q", advice.Message, tt.contain)
			}
		})
	}
}

func TestSelectFirstRuleWins(t *testing.T) {
	table := Table{
		Rules: []Rule{
			{Pattern: "blight", Message: "first"},
			{Pattern: "Late_blight", Message: "second"},
		},
		Fallback: "none",
	}

	if got := table.Select("Tomato___Late_blight").Message; got != "first" {
		t.Errorf("got %q, want first", got)
	}
}

func TestAdviceString(t *testing.T) {
	table := DefaultTable()

	if got := table.Select("Tomato___Leaf_Mold").String(); !strings.HasPrefix(got, "Suggestion: ") {
		t.Errorf("matched advice should carry the suggestion prefix, got %q", got)
	}
	if got := table.Select("Apple___healthy").String(); got != table.Fallback {
		t.Errorf("fallback advice = %q, want %q", got, table.Fallback)
	}
}
