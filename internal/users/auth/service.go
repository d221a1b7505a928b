// Copyright (c) 2026 PawWell Care Center. All rights reserved.

/*
Account lifecycle workflows.

The Service orchestrates registration, email verification, login, password
recovery, and resend-verification on top of the repository contracts. It owns
the ordering of every check (verification before activation before password)
and the existence-hiding behavior of the recovery endpoints.

Architecture:

  - Service: Orchestrates business logic over Postgres-backed repositories.
  - SessionService: Stateless JWT pair issuance and revocation (Redis blacklist).
  - Notifier: Outbound email; failures surface as the email_sent flag, never
    as workflow errors.
*/
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Aayusha497/PawWell-Care-Center/internal/platform/apperr"
	"github.com/Aayusha497/PawWell-Care-Center/internal/platform/sec"
	"github.com/Aayusha497/PawWell-Care-Center/internal/platform/validate"
	"github.com/Aayusha497/PawWell-Care-Center/pkg/uuidv7"
)

// # Contracts & Types

// Notifier defines the outbound email contract consumed by the workflows.
//
// Every method reports delivery as a boolean. A failed send never fails the
// surrounding workflow; callers forward the flag to the client as email_sent.
type Notifier interface {
	SendVerification(context context.Context, user *User, token string) bool
	SendWelcome(context context.Context, user *User) bool
	SendPasswordReset(context context.Context, user *User, token string) bool
	SendPasswordChanged(context context.Context, user *User) bool
}

// Service implements the account lifecycle use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, token
// consumption, or login gating logic must be reviewed by the security team.
type Service struct {
	userRepository              UserRepository
	verificationTokenRepository VerificationTokenRepository
	resetTokenRepository        ResetTokenRepository
	sessionService              *SessionService
	notifier                    Notifier

	verificationWindow time.Duration
	resetWindow        time.Duration
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	verifyRepo VerificationTokenRepository,
	resetRepo ResetTokenRepository,
	sessions *SessionService,
	notifier Notifier,
	verificationWindow time.Duration,
	resetWindow time.Duration,
) *Service {
	return &Service{
		userRepository:              userRepo,
		verificationTokenRepository: verifyRepo,
		resetTokenRepository:        resetRepo,
		sessionService:              sessions,
		notifier:                    notifier,
		verificationWindow:          verificationWindow,
		resetWindow:                 resetWindow,
	}
}

// newTokenValue returns a CSPRNG-generated opaque token value (UUIDv4).
func newTokenValue() string {
	return uuid.NewString()
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
//
// The email is expected pre-normalized (lowercased, trimmed) and the input
// policy-validated by the transport layer before this struct is built.
type RegisterInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber string
	Role        sec.UserRole
}

// RegisterResult carries the created account and the delivery outcome of the
// verification email.
type RegisterResult struct {
	User      *User
	EmailSent bool
}

/*
Register hashes credentials and persists a brand new user account.

Description: The account is created unverified and inactive; a verification
token is issued and mailed in the same call. Email uniqueness is enforced by
the database index and surfaces as a Conflict.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *RegisterResult: Created entity plus email_sent flag
  - error: Conflict (if the email exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*RegisterResult, error) {

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	role := input.Role
	if role == "" {
		role = sec.RolePetOwner
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:            uuidv7.New(),
		Email:         validate.NormalizeEmail(input.Email),
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		PhoneNumber:   input.PhoneNumber,
		PasswordHash:  hashedPassword,
		Role:          role,
		EmailVerified: false,
		IsActive:      false,
		IsStaff:       role.IsStaff(),
	}

	// Persist the user. A duplicate email comes back as apperr.Conflict.
	if err := service.userRepository.Create(context, user); err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	// Issue the verification token and dispatch the email. Delivery failure
	// is reported, not fatal; the user can always request a resend.
	emailSent, err := service.issueVerification(context, user)
	if err != nil {
		return nil, err
	}

	return &RegisterResult{User: user, EmailSent: emailSent}, nil
}

// issueVerification creates a fresh verification token row and mails the link.
func (service *Service) issueVerification(context context.Context, user *User) (bool, error) {
	now := time.Now()
	token := &VerificationToken{
		ID:        uuidv7.New(),
		UserID:    user.ID,
		Token:     newTokenValue(),
		CreatedAt: now,
		ExpiresAt: now.Add(service.verificationWindow),
	}

	if err := service.verificationTokenRepository.Create(context, token); err != nil {
		return false, fmt.Errorf("auth_service_verification_token_failed: %w", err)
	}

	return service.notifier.SendVerification(context, user, token.Token), nil
}

// # Email Verification Flow

/*
VerifyEmail confirms a user's email address using a single-use token.

Description: Checks run in a fixed order: existence, already-verified,
expiry, then the transactional consume-and-activate. Under two concurrent
verifications of the same token exactly one succeeds; the loser observes
ALREADY_VERIFIED from the storage compare-and-set.

Parameters:
  - context: context.Context
  - tokenValue: string

Returns:
  - *User: The verified account
  - error: NotFound, ALREADY_VERIFIED, TOKEN_EXPIRED, or storage errors
*/
func (service *Service) VerifyEmail(context context.Context, tokenValue string) (*User, error) {

	token, err := service.verificationTokenRepository.FindByToken(context, tokenValue)
	if err != nil {
		return nil, err
	}

	if token.IsVerified {
		return nil, apperr.BadRequest("ALREADY_VERIFIED", "Email already verified. You can now login.")
	}

	if token.IsExpired() {
		return nil, apperr.BadRequest("TOKEN_EXPIRED", "Verification link has expired. Please register again or request a new verification link.")
	}

	// Consume the token and activate the account in one transaction
	if err := service.verificationTokenRepository.ConsumeAndActivate(context, token.ID, token.UserID); err != nil {
		return nil, err
	}

	user, err := service.userRepository.FindByID(context, token.UserID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_verify_email_lookup_failed: %w", err)
	}

	// Best-effort welcome email for the race winner
	_ = service.notifier.SendWelcome(context, user)

	return user, nil
}

// ResendResult carries the outcome of a resend-verification request.
//
// Hidden is true when the email did not match an account; the transport
// layer must then return the generic success message, byte-identical to the
// real one, to prevent account enumeration.
type ResendResult struct {
	Email     string
	EmailSent bool
	Hidden    bool
}

/*
ResendVerification purges stale verification tokens and issues a fresh one.

Description: A missing account yields a generic success (existence-hiding).
An already-verified account is told so. Otherwise every prior verification
token for the user is deleted before the new one is created.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *ResendResult: Delivery outcome or hidden marker
  - error: ALREADY_VERIFIED or storage errors
*/
func (service *Service) ResendVerification(context context.Context, email string) (*ResendResult, error) {

	user, err := service.userRepository.FindByEmail(context, validate.NormalizeEmail(email))
	if err != nil {
		if apperr.IsNotFound(err) {
			// Don't reveal whether the email is registered
			return &ResendResult{Hidden: true}, nil
		}
		return nil, fmt.Errorf("auth_service_resend_lookup_failed: %w", err)
	}

	if user.EmailVerified {
		return nil, apperr.BadRequest("ALREADY_VERIFIED", "Email is already verified. You can login.")
	}

	// Purge stale links so only the newest one works
	if err := service.verificationTokenRepository.DeleteForUser(context, user.ID); err != nil {
		return nil, fmt.Errorf("auth_service_resend_purge_failed: %w", err)
	}

	emailSent, err := service.issueVerification(context, user)
	if err != nil {
		return nil, err
	}

	return &ResendResult{Email: user.Email, EmailSent: emailSent}, nil
}

// # Authentication Flow

// LoginResult represents a successfully established user session.
type LoginResult struct {
	User   *User
	Tokens *TokenPair
}

/*
Login validates user credentials and issues a session token pair.

Description: Account gating runs before the password check: an unverified
email and a deactivated account each get their own 403, while a missing user
and a wrong password are indistinguishable 401s to prevent enumeration.

Parameters:
  - context: context.Context
  - email: string
  - password: string

Returns:
  - *LoginResult: Token pair and profile
  - error: Unauthorized, Forbidden, or internal failures
*/
func (service *Service) Login(context context.Context, email, password string) (*LoginResult, error) {

	user, err := service.userRepository.FindByEmail(context, validate.NormalizeEmail(email))

	// If (err != nil) the user does not exist. Generic message to prevent enumeration.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid email or password.")
	}

	if !user.EmailVerified {
		return nil, apperr.Forbidden("Please verify your email before logging in. Check your inbox for the verification link.")
	}

	if !user.IsActive {
		return nil, apperr.Forbidden("Your account has been deactivated. Please contact support.")
	}

	// Constant-time comparison in bcrypt prevents timing attacks
	if !sec.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid email or password.")
	}

	tokens, err := service.sessionService.IssuePair(user)
	if err != nil {
		return nil, fmt.Errorf("auth_service_login_token_failed: %w", err)
	}

	// Stamp lastlogin; a failed stamp should not fail the login
	now := time.Now()
	if err := service.userRepository.UpdateLastLogin(context, user.ID, now); err == nil {
		user.LastLogin = &now
	}

	return &LoginResult{User: user, Tokens: tokens}, nil
}

// # Password Recovery

/*
ForgotPassword initiates the password recovery flow.

Description: When the email matches an account a reset token is issued and
mailed; otherwise nothing happens. Either way the transport layer returns
the same generic success, so the response never reveals account existence.
Prior reset tokens stay valid until they expire or are used.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - error: Storage failures only; a missing account is not an error
*/
func (service *Service) ForgotPassword(context context.Context, email string) error {

	user, err := service.userRepository.FindByEmail(context, validate.NormalizeEmail(email))
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("auth_service_forgot_lookup_failed: %w", err)
	}

	now := time.Now()
	token := &ResetToken{
		ID:        uuidv7.New(),
		UserID:    user.ID,
		Token:     newTokenValue(),
		CreatedAt: now,
		ExpiresAt: now.Add(service.resetWindow),
	}

	if err := service.resetTokenRepository.Create(context, token); err != nil {
		return fmt.Errorf("auth_service_reset_token_failed: %w", err)
	}

	_ = service.notifier.SendPasswordReset(context, user, token.Token)

	return nil
}

/*
ResetPassword completes the forgot-password flow.

Description: Checks run in a fixed order: existence, already-used, expiry.
The password write and the used-flag flip share one transaction guarded by a
compare-and-set, so a token that cannot reset never mutates the password.

Parameters:
  - context: context.Context
  - tokenValue: string
  - newPassword: string (policy-validated by the transport layer)

Returns:
  - error: NotFound, ALREADY_USED, TOKEN_EXPIRED, or storage errors
*/
func (service *Service) ResetPassword(context context.Context, tokenValue, newPassword string) error {

	token, err := service.resetTokenRepository.FindByToken(context, tokenValue)
	if err != nil {
		return err
	}

	if token.IsUsed {
		return apperr.BadRequest("ALREADY_USED", "This password reset link has already been used.")
	}

	if token.IsExpired() {
		return apperr.BadRequest("TOKEN_EXPIRED", "This password reset link has expired. Please request a new one.")
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_reset_hash_failed: %w", err)
	}

	// Mark used and write the hash atomically; the CAS loser gets ALREADY_USED
	if err := service.resetTokenRepository.ConsumeAndSetPassword(context, token.ID, token.UserID, hashedPassword); err != nil {
		return err
	}

	// Best-effort security notification
	if user, err := service.userRepository.FindByID(context, token.UserID); err == nil {
		_ = service.notifier.SendPasswordChanged(context, user)
	}

	return nil
}

// # Session Delegation

// Sessions exposes the session service for transport-layer token operations.
func (service *Service) Sessions() *SessionService {
	return service.sessionService
}
