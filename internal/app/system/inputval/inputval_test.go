package inputval

import "testing"

func TestValidate(t *testing.T) {
	type TestInput struct {
		Title string `validate:"required,min=3" label:"Title"`
		Email string `validate:"required,email" label:"Contact email"`
	}

	tests := []struct {
		name       string
		input      TestInput
		wantErrors bool
		wantFirst  string
	}{
		{
			name:       "valid input",
			input:      TestInput{Title: "Lost wallet", Email: "student@campus.edu"},
			wantErrors: false,
		},
		{
			name:       "missing title",
			input:      TestInput{Title: "", Email: "student@campus.edu"},
			wantErrors: true,
			wantFirst:  "Title is required.",
		},
		{
			name:       "title too short",
			input:      TestInput{Title: "ab", Email: "student@campus.edu"},
			wantErrors: true,
			wantFirst:  "Title must be at least 3 characters.",
		},
		{
			name:       "invalid email",
			input:      TestInput{Title: "Lost wallet", Email: "not-an-email"},
			wantErrors: true,
			wantFirst:  "A valid email address is required.",
		},
		{
			name:       "missing both",
			input:      TestInput{Title: "", Email: ""},
			wantErrors: true,
			wantFirst:  "Title is required.", // First error
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.input)

			if result.HasErrors() != tt.wantErrors {
				t.Errorf("Validate() HasErrors = %v, want %v", result.HasErrors(), tt.wantErrors)
			}

			if tt.wantErrors && result.First() != tt.wantFirst {
				t.Errorf("Validate() First() = %q, want %q", result.First(), tt.wantFirst)
			}
		})
	}
}

func TestValidate_PhoneDigits(t *testing.T) {
	type PhoneInput struct {
		Phone string `validate:"required,phonedigits" label:"Phone"`
	}

	tests := []struct {
		phone string
		want  bool // valid
	}{
		{"03001234567", true},
		{"+92 300 123-4567", true},
		{"(0300) 123 4567", true},
		{"12345", false},
		{"no digits here", false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			result := Validate(PhoneInput{Phone: tt.phone})
			if result.HasErrors() == tt.want {
				t.Errorf("Validate(%q) HasErrors = %v, want valid=%v", tt.phone, result.HasErrors(), tt.want)
			}
		})
	}
}

func TestValidate_ItemType(t *testing.T) {
	type TypeInput struct {
		Type string `validate:"required,itemtype" label:"Type"`
	}

	valid := []string{"LOST", "FOUND", "lost", "Found", " lost "}
	for _, v := range valid {
		if Validate(TypeInput{Type: v}).HasErrors() {
			t.Errorf("Validate(%q) should be valid", v)
		}
	}

	invalid := []string{"STOLEN", "open", "LOSTX"}
	for _, v := range invalid {
		if !Validate(TypeInput{Type: v}).HasErrors() {
			t.Errorf("Validate(%q) should be invalid", v)
		}
	}
}

func TestResult_Details(t *testing.T) {
	r := &Result{
		Errors: []FieldError{
			{Field: "Title", Message: "Title is required."},
			{Field: "Title", Message: "Title must be at least 3 characters."},
			{Field: "Phone", Message: "Phone must contain at least 10 digits."},
		},
	}

	d := r.Details()
	if len(d) != 2 {
		t.Fatalf("Details() has %d entries, want 2", len(d))
	}
	if d["Title"] != "Title is required." {
		t.Errorf("Details()[Title] = %q, want first message kept", d["Title"])
	}
	if d["Phone"] == "" {
		t.Error("Details() missing Phone")
	}
}

func TestResult_All(t *testing.T) {
	t.Run("no errors", func(t *testing.T) {
		r := &Result{}
		if r.All() != "" {
			t.Errorf("All() = %q, want empty", r.All())
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		r := &Result{
			Errors: []FieldError{
				{Message: "Error 1"},
				{Message: "Error 2"},
			},
		}
		want := "Error 1; Error 2"
		if r.All() != want {
			t.Errorf("All() = %q, want %q", r.All(), want)
		}
	})
}
