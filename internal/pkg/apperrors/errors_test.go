package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestCustomErrorUnwrap(t *testing.T) {
	err := fmt.Errorf("register: %w", NewConflictError("User with this email already exists"))

	if !errors.Is(err, ErrConflict) {
		t.Fatal("wrapped conflict should match ErrConflict")
	}
	if got := UserMessage(err, "fallback"); got != "User with this email already exists" {
		t.Errorf("UserMessage = %q", got)
	}
}

func TestUserMessageFallback(t *testing.T) {
	if got := UserMessage(errors.New("boom"), "fallback"); got != "fallback" {
		t.Errorf("UserMessage = %q, want fallback", got)
	}
	if got := UserMessage(NewCustomError(ErrBadRequest, ""), "fallback"); got != "fallback" {
		t.Errorf("empty message should fall back, got %q", got)
	}
}

func TestValidationErrorDetails(t *testing.T) {
	err := NewValidationError("Invalid email format", map[string]interface{}{"field": "email"})

	if !Is(err, ErrBadRequest, ErrValidationFailed) {
		t.Fatal("Is should match any of the listed errors")
	}
	if DetailsOf(err)["field"] != "email" {
		t.Errorf("details = %v", DetailsOf(err))
	}
	if DetailsOf(errors.New("plain")) != nil {
		t.Error("plain errors carry no details")
	}
	if NewCustomError(nil, "").WithCode("X").Error() != "unknown error" {
		t.Error("empty custom error should describe itself as unknown")
	}
}
