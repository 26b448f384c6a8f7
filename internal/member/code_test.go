package member

import (
	"strings"
	"testing"
)

func TestGenerateCode_ShapeAndAlphabet(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateCode()
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if len(code) != CodeLength {
			t.Fatalf("want %d chars, got %q", CodeLength, code)
		}
		if !ValidCode(code) {
			t.Fatalf("generated code fails validation: %q", code)
		}
		// Ambiguous glyphs never generated.
		if strings.ContainsAny(code, "0O1I") {
			t.Fatalf("ambiguous glyph in generated code: %q", code)
		}
		letters, digits := 0, 0
		for _, c := range code {
			if c >= 'A' && c <= 'Z' {
				letters++
			} else {
				digits++
			}
		}
		if letters != 4 || digits != 2 {
			t.Fatalf("want 4 letters + 2 digits, got %q", code)
		}
	}
}

func TestValidCode(t *testing.T) {
	cases := []struct {
		code string
		want bool
	}{
		{"ABCD23", true},
		{"A1B2C3", true}, // ambiguous glyphs valid on input
		{"O0II11", true},
		{"abcd23", false},
		{"ABC23", false},
		{"ABCD234", false},
		{"ABC-23", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidCode(tc.code); got != tc.want {
			t.Errorf("ValidCode(%q) = %v, want %v", tc.code, got, tc.want)
		}
	}
}
