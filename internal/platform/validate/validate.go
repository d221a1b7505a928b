// Copyright (c) 2026 PawWell Care Center. All rights reserved.

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError].
//
// # Architecture
//
// This package is used exclusively in the service layer — never in handlers or
// storage. It ensures that business logic only operates on semantically valid data.
package validate

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Aayusha497/PawWell-Care-Center/internal/platform/apperr"
)

var (
	// uuidRegex matches a UUIDv4 or UUIDv7 string.
	uuidRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	// phoneSeparators strips the common formatting characters before digit counting.
	phoneSeparators = regexp.MustCompile(`[\s\-\(\)]`)
	// phoneRegex matches 10-15 digits with an optional leading + for international numbers.
	phoneRegex = regexp.MustCompile(`^\+?[\d]{10,15}$`)
	// hasLetter and hasDigit implement the account password policy.
	hasLetter = regexp.MustCompile(`[A-Za-z]`)
	hasDigit  = regexp.MustCompile(`\d`)

	// ErrInvalidJSON is returned when the request body cannot be decoded.
	ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")
)

// Validator collects field-level validation errors via a fluent, chainable API.
//
// # Concurrency
//
// Validator is not safe for concurrent use. A new instance must be created
// for every request/operation.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "This field is required")
	}
	return v
}

// MaxLen fails if the Unicode character count exceeds max.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("Maximum %d characters", max))
	}
	return v
}

// MinLen fails if the Unicode character count is below min.
func (v *Validator) MinLen(field, value string, min int) *Validator {
	if utf8.RuneCountInString(value) < min {
		v.add(field, fmt.Sprintf("Minimum %d characters", min))
	}
	return v
}

// Email fails if the value is not a valid RFC 5322 email address.
func (v *Validator) Email(field, value string) *Validator {
	if _, err := mail.ParseAddress(value); err != nil {
		v.add(field, "Must be a valid email address")
	}
	return v
}

// Password enforces the account password policy: at least 8 characters,
// at least one letter, at least one digit.
//
// # Rationale
//
// The policy applies identically at registration and at password reset, so
// it lives here rather than being duplicated in two workflows.
func (v *Validator) Password(field, value string) *Validator {
	if utf8.RuneCountInString(value) < 8 {
		v.add(field, "Password must be at least 8 characters long")
		return v
	}
	if !hasLetter.MatchString(value) {
		v.add(field, "Password must contain at least one letter")
	}
	if !hasDigit.MatchString(value) {
		v.add(field, "Password must contain at least one number")
	}
	return v
}

// Match fails if the two values differ. Used for password confirmation.
func (v *Validator) Match(field, value, other string) *Validator {
	if value != other {
		v.add(field, "Passwords do not match")
	}
	return v
}

// Phone fails if the value is not a plausible phone number (10-15 digits,
// optional leading +, with spaces/hyphens/parentheses ignored).
//
// # Optionality
//
// An empty value passes; callers gate with Required if the field is mandatory.
func (v *Validator) Phone(field, value string) *Validator {
	if value == "" {
		return v
	}
	cleaned := phoneSeparators.ReplaceAllString(value, "")
	if !phoneRegex.MatchString(cleaned) {
		v.add(field, "Enter a valid phone number (10-15 digits)")
	}
	return v
}

// UUID fails if the value is not a valid UUID string (case-insensitive).
func (v *Validator) UUID(field, value string) *Validator {
	lower := strings.ToLower(value)
	if !uuidRegex.MatchString(lower) {
		v.add(field, "Must be a valid UUID")
	}
	return v
}

// OneOf fails if the value is not in the allowed set of strings.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.add(field, fmt.Sprintf("Must be one of: %s", strings.Join(allowed, ", ")))
	return v
}

// Custom adds a failure with a custom message if the condition is true.
//
// # Example
//
//	v.Custom("role", !role.Valid(), "Unknown account type")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// Err returns a [apperr.AppError] (VALIDATION_ERROR) if any rules failed,
// or nil if all rules passed.
//
// This is the only output method — call it at the end of the chain.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

// HasErrors reports whether any validation rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

// add appends a [apperr.FieldError] to the internal slice.
func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}

// RequiredError is a shortcut to create a single-field validation error.
func RequiredError(field, message string) *apperr.AppError {
	return apperr.ValidationError("Validation failed", apperr.FieldError{
		Field:   field,
		Message: message,
	})
}

// NormalizeEmail lower-cases and trims an email address. Every workflow that
// accepts an email normalizes through this single helper so the unique index
// on users.account(email) sees one canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
