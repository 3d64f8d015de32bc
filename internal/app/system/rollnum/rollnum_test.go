package rollnum

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"BSE-24F-623", "bse24f623"},
		{"bse-24f-623", "bse24f623"},
		{"BSE 24F 623", "bse24f623"},
		{"bse_24f_623", "bse24f623"},
		{"bse24f623", "bse24f623"},
		{"  BSE-24F-623  ", "bse24f623"},
		{"", ""},
		{"CS-101", "cs101"},
		{"a.b/c", "a.b/c"}, // only dashes, underscores, whitespace are stripped
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"BSE-24F-623", "bse24f623", "", "A_B C-d", "12-34"}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"bse24f623", "bse-24f-623"},
		{"BSE-24F-623", "bse-24f-623"},
		{"cs22a1234", "cs-22a-1234"},
		{"bba245b789", "bba-245b-789"},
		{"xyz", "xyz"},            // pattern mismatch: returned normalized, unchanged
		{"12345", "12345"},        // digits only
		{"bse24f62", "bse24f62"},  // trailing digit group too short
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Format(tt.input)
			if got != tt.want {
				t.Errorf("Format(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"bse24f623", true},
		{"BSE-24F-623", true},
		{"12345", false}, // no letters
		{"abcde", false}, // no digits
		{"a1", false},    // too short
		{"a-1", false},   // still too short after stripping
		{"ab1cd", true},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := IsValid(tt.input)
			if got != tt.want {
				t.Errorf("IsValid(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"BSE-24F-623", "bse24f623", true},
		{"bse 24f 623", "BSE_24F_623", true},
		{"bse24f623", "bse24f624", false},
		{"", "", true},
		{"BSE-24F-623", "", false},
	}

	for _, tt := range tests {
		if got := Match(tt.a, tt.b); got != tt.want {
			t.Errorf("Match(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
