package validate

import (
	"strings"
	"testing"
)

func TestStructValidateValid(t *testing.T) {
	type User struct {
		Name  string `json:"name" validate:"required"`
		Email string `json:"email" validate:"required,email"`
	}

	err := Validate(User{Name: "John", Email: "john@example.com"})
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestStructValidateInvalid(t *testing.T) {
	type User struct {
		Name  string `json:"name" validate:"required"`
		Email string `json:"email" validate:"required,email"`
	}

	err := Validate(User{Name: "", Email: "not-an-email"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	errStr := err.Error()
	if !strings.Contains(errStr, "name") {
		t.Errorf("expected error to mention 'name', got %q", errStr)
	}
}

func TestStructValidateMaxMin(t *testing.T) {
	type Input struct {
		Code string `json:"code" validate:"required,min=3,max=10"`
	}

	if err := Validate(Input{Code: "abc"}); err != nil {
		t.Errorf("expected valid, got %v", err)
	}

	if err := Validate(Input{Code: "ab"}); err == nil {
		t.Error("expected error for code too short")
	}
}
