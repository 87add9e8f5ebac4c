package security

import (
	"errors"
	"testing"
)

func TestDefaultPasswordValidatorSuccess(t *testing.T) {
	validator := DefaultPasswordValidator()

	if err := validator.Validate("Test123!"); err != nil {
		t.Fatalf("expected password to pass validation, got %v", err)
	}
}

func TestDefaultPasswordValidatorViolations(t *testing.T) {
	validator := DefaultPasswordValidator()

	assertViolation := func(password, expectedCode string) {
		t.Helper()
		err := validator.Validate(password)
		if err == nil {
			t.Fatalf("expected validation error for %s", expectedCode)
		}
		var vErr *PasswordValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected PasswordValidationError, got %T", err)
		}
		if vErr.Code != expectedCode {
			t.Fatalf("expected %s code, got %s", expectedCode, vErr.Code)
		}
	}

	assertViolation("Ab1!", "min_length")
	assertViolation("lowercase1!pass", "require_uppercase")
	assertViolation("NoDigits!Here", "require_digit")
	assertViolation("NoSpecial123ab", "require_special")
}

func TestCustomPasswordValidator(t *testing.T) {
	validator := NewPasswordValidator(
		MinLengthRule(4),
		RequireSpecialRule(),
	)

	if err := validator.Validate("abc"); err == nil {
		t.Fatal("expected validation error for short password")
	}

	if err := validator.Validate("abcd"); err == nil {
		t.Fatal("expected validation error for missing special character")
	}

	if err := validator.Validate("abc!"); err != nil {
		t.Fatalf("expected password to pass custom validation, got %v", err)
	}
}

func TestPasswordStrengthRule(t *testing.T) {
	validator := NewPasswordValidator(RequirePasswordStrengthRule(3, "techuser"))

	if err := validator.Validate("techuser1"); err == nil {
		t.Fatal("expected weak password built from user input to fail")
	}

	if err := validator.Validate("vivid-Quartz-Lantern-42"); err != nil {
		t.Fatalf("expected strong passphrase to pass, got %v", err)
	}
}
