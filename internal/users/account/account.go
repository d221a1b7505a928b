// Copyright (c) 2026 PawWell Care Center. All rights reserved.

/*
Package account handles authenticated profile retrieval.

It projects the auth package's User entity into a transport-safe profile
view. The package is read-only: identity mutations (passwords, verification
state) belong to the auth workflows.

# Architecture

  - Entities: Profile (DTO).
  - Domain: This package depends on the auth package for the User entity.
*/
package account

import (
	"context"
	"time"

	"github.com/Aayusha497/PawWell-Care-Center/internal/users/auth"
)

// # Domain Entities

// Profile is the transport-safe projection of a user account.
//
// It carries the computed full_name and omits the password hash entirely;
// the struct simply has no field for it.
type Profile struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	FullName      string     `json:"full_name"`
	PhoneNumber   string     `json:"phone_number,omitempty"`
	Role          string     `json:"role"`
	EmailVerified bool       `json:"email_verified"`
	IsActive      bool       `json:"is_active"`
	IsStaff       bool       `json:"is_staff"`
	DateJoined    time.Time  `json:"date_joined"`
	LastLogin     *time.Time `json:"last_login,omitempty"`
}

// NewProfile builds the projection from a hydrated user entity.
func NewProfile(user *auth.User) *Profile {
	return &Profile{
		ID:            user.ID,
		Email:         user.Email,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		FullName:      user.FullName(),
		PhoneNumber:   user.PhoneNumber,
		Role:          string(user.Role),
		EmailVerified: user.EmailVerified,
		IsActive:      user.IsActive,
		IsStaff:       user.IsStaff,
		DateJoined:    user.DateJoined,
		LastLogin:     user.LastLogin,
	}
}

// # Repository Contracts

// AccountRepository defines the persistence contract for profile lookups.
//
// The auth package's Postgres user repository satisfies it; no separate
// storage implementation is needed for a read-only projection.
type AccountRepository interface {
	/*
		FindByID retrieves a user record by their unique ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)
}
