// Copyright (c) 2026 PawWell Care Center. All rights reserved.

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given (normalized) email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a brand-new user account to the storage.

		Description: The email unique index is the authority on uniqueness;
		a 23505 violation surfaces as a client-safe Conflict.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Conflict or persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		UpdatePassword replaces only the user's password hash.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - newHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, userID, newHash string) error

	/*
		UpdateLastLogin stamps the account's lastlogin column.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - loginTime: time.Time

		Returns:
		  - error: Persistence failures
	*/
	UpdateLastLogin(context context.Context, userID string, loginTime time.Time) error
}

// # Verification Token Data Access

// VerificationTokenRepository defines the contract for single-use email
// verification records.
type VerificationTokenRepository interface {

	/*
		Create persists a fresh verification token row.

		Parameters:
		  - context: context.Context
		  - token: *VerificationToken

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, token *VerificationToken) error

	/*
		FindByToken returns the record matching the given token value.

		Parameters:
		  - context: context.Context
		  - tokenValue: string

		Returns:
		  - *VerificationToken: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByToken(context context.Context, tokenValue string) (*VerificationToken, error)

	/*
		ConsumeAndActivate atomically marks the token verified and activates
		the owning account in one transaction.

		Description: The update is guarded by `isverified = FALSE` so that
		exactly one of two concurrent verifications succeeds. The loser
		observes an ALREADY_VERIFIED error.

		Parameters:
		  - context: context.Context
		  - tokenID: string
		  - userID: string

		Returns:
		  - error: ALREADY_VERIFIED or transactional failures
	*/
	ConsumeAndActivate(context context.Context, tokenID, userID string) error

	/*
		DeleteForUser removes every verification token belonging to the user.

		Description: Used by resend-verification to purge stale links before
		issuing a fresh one.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Deletion failures
	*/
	DeleteForUser(context context.Context, userID string) error
}

// # Reset Token Data Access

// ResetTokenRepository defines the contract for single-use password reset
// records.
type ResetTokenRepository interface {

	/*
		Create persists a fresh reset token row.

		Parameters:
		  - context: context.Context
		  - token: *ResetToken

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, token *ResetToken) error

	/*
		FindByToken returns the record matching the given token value.

		Parameters:
		  - context: context.Context
		  - tokenValue: string

		Returns:
		  - *ResetToken: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByToken(context context.Context, tokenValue string) (*ResetToken, error)

	/*
		ConsumeAndSetPassword atomically marks the token used and writes the
		new password hash in one transaction.

		Description: The update is guarded by `isused = FALSE`; the loser of
		a concurrent reset observes an ALREADY_USED error and the password is
		written at most once per token.

		Parameters:
		  - context: context.Context
		  - tokenID: string
		  - userID: string
		  - newHash: string

		Returns:
		  - error: ALREADY_USED or transactional failures
	*/
	ConsumeAndSetPassword(context context.Context, tokenID, userID, newHash string) error
}

// # Session Revocation

// TokenBlacklist defines the contract for refresh-token revocation storage.
//
// Access and refresh tokens are stateless JWTs; revocation is tracked by the
// token's unique ID (jti) with a TTL equal to its remaining lifetime.
type TokenBlacklist interface {

	/*
		Add records a token ID as revoked until its natural expiry.

		Parameters:
		  - context: context.Context
		  - tokenID: string (jti claim)
		  - ttl: time.Duration (remaining token lifetime)

		Returns:
		  - error: Storage failures
	*/
	Add(context context.Context, tokenID string, ttl time.Duration) error

	/*
		IsRevoked reports whether a token ID has been blacklisted.

		Parameters:
		  - context: context.Context
		  - tokenID: string

		Returns:
		  - bool: true when revoked
		  - error: Connectivity failures
	*/
	IsRevoked(context context.Context, tokenID string) (bool, error)
}
