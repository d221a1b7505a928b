// Copyright (c) 2026 PawWell Care Center. All rights reserved.

/*
Package auth implements the user identity and session management layer.

It defines the core domain entities (User, VerificationToken, ResetToken) and
logic for registration, email verification, authentication, and password
recovery.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.
*/
package auth

import (
	"strings"
	"time"

	"github.com/Aayusha497/PawWell-Care-Center/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the PawWell platform.
//
// Accounts are created unverified and inactive. Email verification flips
// EmailVerified and IsActive together; login requires both.
type User struct {
	ID            string       `json:"id"`
	Email         string       `json:"email"`
	FirstName     string       `json:"first_name"`
	LastName      string       `json:"last_name"`
	PhoneNumber   string       `json:"phone_number,omitempty"`
	PasswordHash  string       `json:"-"` // Explicitly omitted from JSON for security.
	Role          sec.UserRole `json:"role"`
	EmailVerified bool         `json:"email_verified"`
	IsActive      bool         `json:"is_active"`
	IsStaff       bool         `json:"is_staff"`
	DateJoined    time.Time    `json:"date_joined"`
	LastLogin     *time.Time   `json:"last_login,omitempty"`
}

// FullName returns the user's display name composed from first and last name.
func (user *User) FullName() string {
	return strings.TrimSpace(user.FirstName + " " + user.LastName)
}

// CanLogin reports whether the account is allowed to authenticate.
func (user *User) CanLogin() bool {
	return user.EmailVerified && user.IsActive
}

// VerificationToken represents a single-use email verification record.
//
// The token value is a CSPRNG-generated UUIDv4. A token is consumed exactly
// once: the isverified flag is flipped in the same transaction that activates
// the account, guarded by a compare-and-set in storage.
type VerificationToken struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Token      string    `json:"token"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	IsVerified bool      `json:"is_verified"`
}

// IsExpired reports whether the verification window has elapsed.
func (token *VerificationToken) IsExpired() bool {
	return time.Now().After(token.ExpiresAt)
}

// ResetToken represents a single-use password reset record.
type ResetToken struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	IsUsed    bool      `json:"is_used"`
}

// IsExpired reports whether the reset window has elapsed.
func (token *ResetToken) IsExpired() bool {
	return time.Now().After(token.ExpiresAt)
}

// CanReset reports whether the token is still usable for a password reset.
func (token *ResetToken) CanReset() bool {
	return !token.IsUsed && !token.IsExpired()
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirm_password"
	FieldNewPassword     = "new_password"
	FieldFirstName       = "first_name"
	FieldLastName        = "last_name"
	FieldPhoneNumber     = "phone_number"
	FieldRole            = "role"
	FieldToken           = "token"
	FieldRefresh         = "refresh"
	FieldAccessToken     = "access"
	FieldUser            = "user"
	FieldMessage         = "message"
	FieldEmailSent       = "email_sent"
	FieldExpiresIn       = "expires_in"
	FieldTokenType       = "token_type"
)
