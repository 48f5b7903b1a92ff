package inputval

import "testing"

func TestValidate(t *testing.T) {
	type contactInput struct {
		LastName string `validate:"required,max=10" label:"Last name"`
		Email    string `validate:"required,email" label:"Email"`
		Gender   string `validate:"omitempty,gender" label:"Gender"`
	}

	tests := []struct {
		name       string
		input      contactInput
		wantErrors bool
		wantFirst  string
	}{
		{"valid input", contactInput{LastName: "Lovelace", Email: "ada@example.org", Gender: "female"}, false, ""},
		{"gender optional", contactInput{LastName: "Lovelace", Email: "ada@example.org"}, false, ""},
		{"missing name", contactInput{Email: "ada@example.org"}, true, "Last name is required."},
		{"name too long", contactInput{LastName: "VeryLongNameThatExceedsLimit", Email: "ada@example.org"}, true, "Last name must be at most 10 characters."},
		{"invalid email", contactInput{LastName: "Lovelace", Email: "not-an-email"}, true, "A valid email address is required."},
		{"invalid gender", contactInput{LastName: "Lovelace", Email: "ada@example.org", Gender: "robot"}, true, "Gender must be one of: male, female, diverse."},
		{"missing both", contactInput{}, true, "Last name is required."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.input)
			if result.HasErrors() != tt.wantErrors {
				t.Errorf("HasErrors = %v, want %v (%v)", result.HasErrors(), tt.wantErrors, result.Errors)
			}
			if tt.wantErrors && result.First() != tt.wantFirst {
				t.Errorf("First() = %q, want %q", result.First(), tt.wantFirst)
			}
		})
	}
}

func TestValidate_Role(t *testing.T) {
	type userInput struct {
		Role string `validate:"required,role" label:"Role"`
	}
	if r := Validate(userInput{Role: "Admin"}); r.HasErrors() {
		t.Errorf("expected Admin to be valid, got %v", r.Errors)
	}
	r := Validate(userInput{Role: "owner"})
	if r.First() != "Role must be one of: admin, user." {
		t.Errorf("First() = %q", r.First())
	}
}

func TestResult_AllAndFirst(t *testing.T) {
	r := &Result{}
	if r.All() != "" || r.First() != "" {
		t.Errorf("empty result: All=%q First=%q", r.All(), r.First())
	}

	r = &Result{Errors: []FieldError{{Message: "Error 1"}, {Message: "Error 2"}}}
	if r.All() != "Error 1; Error 2" {
		t.Errorf("All() = %q", r.All())
	}
	if r.First() != "Error 1" {
		t.Errorf("First() = %q", r.First())
	}
}
