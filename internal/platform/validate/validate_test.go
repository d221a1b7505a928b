// Copyright (c) 2026 PawWell Care Center. All rights reserved.

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aayusha497/PawWell-Care-Center/internal/platform/apperr"
	"github.com/Aayusha497/PawWell-Care-Center/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "first_name", "Ava", false},
		{"empty_string", "first_name", "", true},
		{"whitespace_only", "first_name", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Email checks the email format validation rule.
*/
func TestValidator_Email(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		isValid bool
	}{
		{"valid_email", "owner@example.com", true},
		{"invalid_format", "invalid-email", false},
		{"missing_domain", "owner@", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Email("email", tt.email)

			if tt.isValid {
				assert.False(t, v.HasErrors())
			} else {
				assert.True(t, v.HasErrors())
			}
		})
	}
}

/*
TestValidator_Password exercises the account password policy.
*/
func TestValidator_Password(t *testing.T) {
	tests := []struct {
		name     string
		password string
		isValid  bool
	}{
		{"letters_and_digits", "Passw0rd", true},
		{"long_mixed", "correct horse 42", true},
		{"too_short", "Pa55", false},
		{"digits_only", "12345678", false},
		{"letters_only", "passwordz", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Password("password", tt.password)

			if tt.isValid {
				assert.False(t, v.HasErrors())
			} else {
				assert.True(t, v.HasErrors())
			}
		})
	}
}

/*
TestValidator_Phone checks the optional phone number rule, including
separator stripping.
*/
func TestValidator_Phone(t *testing.T) {
	tests := []struct {
		name    string
		phone   string
		isValid bool
	}{
		{"empty_is_allowed", "", true},
		{"plain_digits", "9812345678", true},
		{"international", "+9779812345678", true},
		{"with_separators", "(981) 234-5678", true},
		{"too_short", "12345", false},
		{"too_long", "12345678901234567", false},
		{"alphabetic", "not-a-phone", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Phone("phone_number", tt.phone)

			if tt.isValid {
				assert.False(t, v.HasErrors())
			} else {
				assert.True(t, v.HasErrors())
			}
		})
	}
}

/*
TestValidator_Match verifies the password confirmation rule.
*/
func TestValidator_Match(t *testing.T) {
	v := &validate.Validator{}
	v.Match("confirm_password", "Passw0rd", "Passw0rd")
	assert.False(t, v.HasErrors())

	v.Match("confirm_password", "Passw0rd", "Different1")
	assert.True(t, v.HasErrors())
}

/*
TestValidator_Chain tests the fluent API (chaining multiple rules).
*/
func TestValidator_Chain(t *testing.T) {
	v := &validate.Validator{}

	// Multi-rule validation
	err := v.
		Required("email", "owner@pawwellcare.com").
		Email("email", "owner@pawwellcare.com").
		Password("password", "Passw0rd!").
		Match("confirm_password", "Passw0rd!", "Passw0rd!").
		Err()

	assert.NoError(t, err)
	assert.False(t, v.HasErrors())
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("email", "").           // Fails
		Password("password", "short").   // Fails
		Phone("phone_number", "abcdef"). // Fails
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	// Should accumulate all 3 errors
	assert.Len(t, ae.Details, 3)
}

/*
TestNormalizeEmail verifies canonical lower-cased, trimmed emails.
*/
func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "owner@example.com", validate.NormalizeEmail("  Owner@Example.COM "))
	assert.Equal(t, "a@x.com", validate.NormalizeEmail("a@x.com"))
}
