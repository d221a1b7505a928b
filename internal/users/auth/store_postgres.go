// Copyright (c) 2026 PawWell Care Center. All rights reserved.

// PostgreSQL implementations of the auth repositories.
//
// # Architecture
//
// Repositories are strictly separated from domain logic. They implement the
// domain-defined interfaces (e.g. [UserRepository]) using the [pgxpool.Pool]
// connection manager.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Aayusha497/PawWell-Care-Center/internal/platform/apperr"
	"github.com/Aayusha497/PawWell-Care-Center/internal/platform/dberr"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
Create persists a new user record into the users.account table.

Description: Deep-persists account metadata. The email column carries a
unique index; a 23505 violation is mapped to a client-safe Conflict so the
database stays the single authority on uniqueness.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.Conflict, constraint violations, or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			id, email, firstname, lastname, phonenumber, passwordhash,
			role, emailverified, isactive, isstaff, datejoined
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	if user.DateJoined.IsZero() {
		user.DateJoined = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Email,
		user.FirstName,
		user.LastName,
		user.PhoneNumber,
		user.PasswordHash,
		user.Role,
		user.EmailVerified,
		user.IsActive,
		user.IsStaff,
		user.DateJoined,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("An account with this email already exists.")
		}
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByEmail retrieves a user record by their unique email address.

Description: The caller is expected to normalize (lowercase, trim) the email
before lookup.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	const query = `
		SELECT id, email, firstname, lastname, phonenumber, passwordhash,
		       role, emailverified, isactive, isstaff, datejoined, lastlogin
		FROM users.account
		WHERE email = $1`

	return repository.scanOne(context, query, email)
}

/*
FindByID retrieves a user record by their unique ID.

Description: Primary key resolution for user accounts.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	const query = `
		SELECT id, email, firstname, lastname, phonenumber, passwordhash,
		       role, emailverified, isactive, isstaff, datejoined, lastlogin
		FROM users.account
		WHERE id = $1`

	return repository.scanOne(context, query, id)
}

// scanOne executes a single-row account query and hydrates the entity.
func (repository *PostgresUserRepository) scanOne(context context.Context, query, arg string) (*User, error) {
	user := &User{}
	err := repository.pool.QueryRow(context, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.PhoneNumber,
		&user.PasswordHash,
		&user.Role,
		&user.EmailVerified,
		&user.IsActive,
		&user.IsStaff,
		&user.DateJoined,
		&user.LastLogin,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_failed: %w", err)
	}

	return user, nil
}

/*
UpdatePassword updates only the password hash for a specific user.

Parameters:
  - context: context.Context
  - userID: string
  - newHash: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID, newHash string) error {
	const query = "UPDATE users.account SET passwordhash = $2 WHERE id = $1"

	_, err := repository.pool.Exec(context, query, userID, newHash)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_password_failed: %w", err)
	}

	return nil
}

/*
UpdateLastLogin stamps the account's lastlogin column after authentication.

Parameters:
  - context: context.Context
  - userID: string
  - loginTime: time.Time

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) UpdateLastLogin(context context.Context, userID string, loginTime time.Time) error {
	const query = "UPDATE users.account SET lastlogin = $2 WHERE id = $1"

	_, err := repository.pool.Exec(context, query, userID, loginTime)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_last_login_failed: %w", err)
	}

	return nil
}

// # Verification Token Repository

// PostgresVerificationTokenRepository implements VerificationTokenRepository using pgx.
type PostgresVerificationTokenRepository struct {
	pool *pgxpool.Pool
}

// NewVerificationTokenRepository creates a new PostgreSQL implementation of
// VerificationTokenRepository.
func NewVerificationTokenRepository(pool *pgxpool.Pool) *PostgresVerificationTokenRepository {
	return &PostgresVerificationTokenRepository{pool: pool}
}

/*
Create persists a fresh verification token row.

Parameters:
  - context: context.Context
  - token: *VerificationToken

Returns:
  - error: Storage failures
*/
func (repository *PostgresVerificationTokenRepository) Create(context context.Context, token *VerificationToken) error {
	const query = `
		INSERT INTO users.verificationtoken (
			id, userid, token, createdat, expiresat, isverified
		) VALUES ($1, $2, $3, $4, $5, $6)`

	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		token.ID,
		token.UserID,
		token.Token,
		token.CreatedAt,
		token.ExpiresAt,
		token.IsVerified,
	)

	if err != nil {
		return fmt.Errorf("postgres_verification_token_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByToken retrieves a verification record by its unique token value.

Parameters:
  - context: context.Context
  - tokenValue: string

Returns:
  - *VerificationToken: Hydrated record
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresVerificationTokenRepository) FindByToken(context context.Context, tokenValue string) (*VerificationToken, error) {
	const query = `
		SELECT id, userid, token, createdat, expiresat, isverified
		FROM users.verificationtoken
		WHERE token = $1`

	token := &VerificationToken{}
	err := repository.pool.QueryRow(context, query, tokenValue).Scan(
		&token.ID,
		&token.UserID,
		&token.Token,
		&token.CreatedAt,
		&token.ExpiresAt,
		&token.IsVerified,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Verification token")
		}
		return nil, fmt.Errorf("postgres_verification_token_repo_find_failed: %w", err)
	}

	return token, nil
}

/*
ConsumeAndActivate marks the token verified and activates the owning account
inside a single transaction.

Description: The token update is guarded by `isverified = FALSE`. Under two
concurrent verifications exactly one UPDATE reports an affected row; the
other transaction observes zero rows and rolls back with ALREADY_VERIFIED.

Parameters:
  - context: context.Context
  - tokenID: string
  - userID: string

Returns:
  - error: ALREADY_VERIFIED or transactional failures
*/
func (repository *PostgresVerificationTokenRepository) ConsumeAndActivate(context context.Context, tokenID, userID string) error {
	const consumeQuery = `
		UPDATE users.verificationtoken
		SET isverified = TRUE
		WHERE id = $1 AND isverified = FALSE`

	const activateQuery = `
		UPDATE users.account
		SET emailverified = TRUE, isactive = TRUE
		WHERE id = $1`

	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_verification_token_repo_begin_failed: %w", err)
	}
	defer func() { _ = transaction.Rollback(context) }()

	// Compare-and-set consumption. Zero affected rows means another request
	// already verified this token.
	tag, err := transaction.Exec(context, consumeQuery, tokenID)
	if err != nil {
		return fmt.Errorf("postgres_verification_token_repo_consume_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.BadRequest("ALREADY_VERIFIED", "Email already verified. You can now login.")
	}

	if _, err := transaction.Exec(context, activateQuery, userID); err != nil {
		return fmt.Errorf("postgres_verification_token_repo_activate_failed: %w", err)
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_verification_token_repo_commit_failed: %w", err)
	}

	return nil
}

/*
DeleteForUser removes every verification token belonging to the user.

Description: Resend-verification purges stale links before issuing a fresh one.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Deletion failures
*/
func (repository *PostgresVerificationTokenRepository) DeleteForUser(context context.Context, userID string) error {
	const query = "DELETE FROM users.verificationtoken WHERE userid = $1"

	_, err := repository.pool.Exec(context, query, userID)
	if err != nil {
		return fmt.Errorf("postgres_verification_token_repo_delete_failed: %w", err)
	}

	return nil
}

// # Reset Token Repository

// PostgresResetTokenRepository implements ResetTokenRepository using pgx.
type PostgresResetTokenRepository struct {
	pool *pgxpool.Pool
}

// NewResetTokenRepository creates a new PostgreSQL implementation of
// ResetTokenRepository.
func NewResetTokenRepository(pool *pgxpool.Pool) *PostgresResetTokenRepository {
	return &PostgresResetTokenRepository{pool: pool}
}

/*
Create persists a fresh reset token row.

Description: Prior reset tokens are deliberately left untouched; each one
expires or is consumed on its own.

Parameters:
  - context: context.Context
  - token: *ResetToken

Returns:
  - error: Storage failures
*/
func (repository *PostgresResetTokenRepository) Create(context context.Context, token *ResetToken) error {
	const query = `
		INSERT INTO users.resettoken (
			id, userid, token, createdat, expiresat, isused
		) VALUES ($1, $2, $3, $4, $5, $6)`

	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		token.ID,
		token.UserID,
		token.Token,
		token.CreatedAt,
		token.ExpiresAt,
		token.IsUsed,
	)

	if err != nil {
		return fmt.Errorf("postgres_reset_token_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByToken retrieves a reset record by its unique token value.

Parameters:
  - context: context.Context
  - tokenValue: string

Returns:
  - *ResetToken: Hydrated record
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresResetTokenRepository) FindByToken(context context.Context, tokenValue string) (*ResetToken, error) {
	const query = `
		SELECT id, userid, token, createdat, expiresat, isused
		FROM users.resettoken
		WHERE token = $1`

	token := &ResetToken{}
	err := repository.pool.QueryRow(context, query, tokenValue).Scan(
		&token.ID,
		&token.UserID,
		&token.Token,
		&token.CreatedAt,
		&token.ExpiresAt,
		&token.IsUsed,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Password reset token")
		}
		return nil, fmt.Errorf("postgres_reset_token_repo_find_failed: %w", err)
	}

	return token, nil
}

/*
ConsumeAndSetPassword marks the token used and writes the new password hash
inside a single transaction.

Description: The token update is guarded by `isused = FALSE`; the loser of a
concurrent reset rolls back with ALREADY_USED and the password is written at
most once per token.

Parameters:
  - context: context.Context
  - tokenID: string
  - userID: string
  - newHash: string

Returns:
  - error: ALREADY_USED or transactional failures
*/
func (repository *PostgresResetTokenRepository) ConsumeAndSetPassword(context context.Context, tokenID, userID, newHash string) error {
	const consumeQuery = `
		UPDATE users.resettoken
		SET isused = TRUE
		WHERE id = $1 AND isused = FALSE`

	const passwordQuery = "UPDATE users.account SET passwordhash = $2 WHERE id = $1"

	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_reset_token_repo_begin_failed: %w", err)
	}
	defer func() { _ = transaction.Rollback(context) }()

	tag, err := transaction.Exec(context, consumeQuery, tokenID)
	if err != nil {
		return fmt.Errorf("postgres_reset_token_repo_consume_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.BadRequest("ALREADY_USED", "This password reset link has already been used.")
	}

	if _, err := transaction.Exec(context, passwordQuery, userID, newHash); err != nil {
		return fmt.Errorf("postgres_reset_token_repo_password_failed: %w", err)
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_reset_token_repo_commit_failed: %w", err)
	}

	return nil
}
