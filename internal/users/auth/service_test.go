// Copyright (c) 2026 PawWell Care Center. All rights reserved.

package auth_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aayusha497/PawWell-Care-Center/internal/platform/apperr"
	"github.com/Aayusha497/PawWell-Care-Center/internal/platform/sec"
	"github.com/Aayusha497/PawWell-Care-Center/internal/users/auth"
)

// # Registration

/*
TestService_Register verifies the postconditions of a fresh registration:
hashed credentials, default role, inactive unverified state, and a mailed
verification token.
*/
func TestService_Register(t *testing.T) {
	fixture := newServiceFixture()

	result, err := fixture.service.Register(context.Background(), auth.RegisterInput{
		Email:       "  Aayusha@Example.COM ",
		Password:    "Sup3r$ecret",
		FirstName:   "Aayusha",
		LastName:    "Shrestha",
		PhoneNumber: "+9779812345678",
	})
	require.NoError(t, err)
	require.NotNil(t, result.User)

	user := result.User
	assert.Equal(t, "aayusha@example.com", user.Email, "email must be normalized before storage")
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, sec.RolePetOwner, user.Role, "role defaults to pet_owner")
	assert.False(t, user.IsStaff)
	assert.False(t, user.EmailVerified, "accounts start unverified")
	assert.False(t, user.IsActive, "accounts start inactive")

	// Never the plaintext; must verify with bcrypt
	assert.NotEqual(t, "Sup3r$ecret", user.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("Sup3r$ecret", user.PasswordHash))

	assert.True(t, result.EmailSent)
	assert.Equal(t, 1, fixture.notifier.verificationCount)
	require.Len(t, fixture.verifications.tokensForUser(user.ID), 1)
	assert.Equal(t, fixture.notifier.lastVerificationToken, fixture.verifications.tokensForUser(user.ID)[0].Token)
}

/*
TestService_Register_StaffRole checks that staff-capable roles set the flag.
*/
func TestService_Register_StaffRole(t *testing.T) {
	fixture := newServiceFixture()

	result, err := fixture.service.Register(context.Background(), auth.RegisterInput{
		Email:     "vet@pawwellcare.com",
		Password:  "Sup3r$ecret",
		FirstName: "Staff",
		LastName:  "Member",
		Role:      sec.RoleStaff,
	})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleStaff, result.User.Role)
	assert.True(t, result.User.IsStaff)
}

/*
TestService_Register_DuplicateEmail asserts the duplicate email Conflict.
*/
func TestService_Register_DuplicateEmail(t *testing.T) {
	fixture := newServiceFixture()
	fixture.registerUser(t, "aayusha@example.com", "Sup3r$ecret")

	_, err := fixture.service.Register(context.Background(), auth.RegisterInput{
		Email:     "aayusha@example.com",
		Password:  "An0ther$ecret",
		FirstName: "Dup",
		LastName:  "Licate",
	})
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusConflict, appError.HTTPStatus)
	assert.Equal(t, "An account with this email already exists.", appError.Message)
}

/*
TestService_Register_EmailDeliveryFailure verifies that a failed verification
email does not fail the registration; the outcome is reported via EmailSent.
*/
func TestService_Register_EmailDeliveryFailure(t *testing.T) {
	fixture := newServiceFixture()
	fixture.notifier.deliver = false

	result, err := fixture.service.Register(context.Background(), auth.RegisterInput{
		Email:     "aayusha@example.com",
		Password:  "Sup3r$ecret",
		FirstName: "Aayusha",
		LastName:  "Shrestha",
	})
	require.NoError(t, err)
	assert.False(t, result.EmailSent)
	assert.Len(t, fixture.verifications.tokensForUser(result.User.ID), 1, "token persists so a resend can succeed")
}

// # Email Verification

/*
TestService_VerifyEmail walks the happy path: the account is activated, the
token consumed, and a welcome email dispatched.
*/
func TestService_VerifyEmail(t *testing.T) {
	fixture := newServiceFixture()
	registered := fixture.registerUser(t, "aayusha@example.com", "Sup3r$ecret")

	user, err := fixture.service.VerifyEmail(context.Background(), fixture.notifier.lastVerificationToken)
	require.NoError(t, err)

	assert.Equal(t, registered.ID, user.ID)
	assert.True(t, user.EmailVerified)
	assert.True(t, user.IsActive)
	assert.Equal(t, 1, fixture.notifier.welcomeCount)
}

/*
TestService_VerifyEmail_SecondUse asserts the single-use guarantee: a second
verification of the same token fails with ALREADY_VERIFIED.
*/
func TestService_VerifyEmail_SecondUse(t *testing.T) {
	fixture := newServiceFixture()
	fixture.registerUser(t, "aayusha@example.com", "Sup3r$ecret")
	tokenValue := fixture.notifier.lastVerificationToken

	_, err := fixture.service.VerifyEmail(context.Background(), tokenValue)
	require.NoError(t, err)

	_, err = fixture.service.VerifyEmail(context.Background(), tokenValue)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "ALREADY_VERIFIED"))
	assert.Equal(t, 1, fixture.notifier.welcomeCount, "the loser must not trigger a second welcome email")
}

/*
TestService_VerifyEmail_Expired asserts that an elapsed verification window
yields TOKEN_EXPIRED and leaves the account inactive.
*/
func TestService_VerifyEmail_Expired(t *testing.T) {
	fixture := newServiceFixture()
	user := fixture.registerUser(t, "aayusha@example.com", "Sup3r$ecret")

	// Force the token past its window
	token := fixture.verifications.tokensForUser(user.ID)[0]
	token.ExpiresAt = token.CreatedAt.Add(-time.Hour)

	_, err := fixture.service.VerifyEmail(context.Background(), token.Token)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "TOKEN_EXPIRED"))
	assert.False(t, user.EmailVerified)
	assert.False(t, user.IsActive)
}

/*
TestService_VerifyEmail_UnknownToken asserts the 404 for a bogus token value.
*/
func TestService_VerifyEmail_UnknownToken(t *testing.T) {
	fixture := newServiceFixture()

	_, err := fixture.service.VerifyEmail(context.Background(), "no-such-token")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

// # Resend Verification

/*
TestService_ResendVerification checks that resending purges prior tokens and
issues exactly one fresh link.
*/
func TestService_ResendVerification(t *testing.T) {
	fixture := newServiceFixture()
	user := fixture.registerUser(t, "aayusha@example.com", "Sup3r$ecret")
	originalToken := fixture.notifier.lastVerificationToken

	result, err := fixture.service.ResendVerification(context.Background(), "aayusha@example.com")
	require.NoError(t, err)

	assert.False(t, result.Hidden)
	assert.True(t, result.EmailSent)
	assert.Equal(t, "aayusha@example.com", result.Email)

	// Only the newest link may remain valid
	tokens := fixture.verifications.tokensForUser(user.ID)
	require.Len(t, tokens, 1)
	assert.NotEqual(t, originalToken, tokens[0].Token)

	_, err = fixture.service.VerifyEmail(context.Background(), originalToken)
	assert.True(t, apperr.IsNotFound(err), "the purged link must no longer verify")
}

/*
TestService_ResendVerification_UnknownEmail asserts existence-hiding: the
caller gets a hidden success, never an error.
*/
func TestService_ResendVerification_UnknownEmail(t *testing.T) {
	fixture := newServiceFixture()

	result, err := fixture.service.ResendVerification(context.Background(), "ghost@example.com")
	require.NoError(t, err)
	assert.True(t, result.Hidden)
	assert.Equal(t, 0, fixture.notifier.verificationCount)
}

/*
TestService_ResendVerification_AlreadyVerified asserts the explicit rejection
for accounts that no longer need a link.
*/
func TestService_ResendVerification_AlreadyVerified(t *testing.T) {
	fixture := newServiceFixture()
	fixture.registerVerifiedUser(t, "aayusha@example.com", "Sup3r$ecret")

	_, err := fixture.service.ResendVerification(context.Background(), "aayusha@example.com")
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "ALREADY_VERIFIED"))
}

// # Login

/*
TestService_Login covers the full gating order of authentication. An
unverified email is rejected BEFORE the password is checked, while unknown
accounts and wrong passwords share one indistinguishable 401.
*/
func TestService_Login(t *testing.T) {
	fixture := newServiceFixture()
	fixture.registerVerifiedUser(t, "active@example.com", "Sup3r$ecret")
	fixture.registerUser(t, "unverified@example.com", "Sup3r$ecret")

	deactivated := fixture.registerVerifiedUser(t, "dormant@example.com", "Sup3r$ecret")
	deactivated.IsActive = false

	tests := []struct {
		name       string
		email      string
		password   string
		wantStatus int
	}{
		{"unknown_email", "ghost@example.com", "Sup3r$ecret", http.StatusUnauthorized},
		{"unverified_even_with_wrong_password", "unverified@example.com", "wrong", http.StatusForbidden},
		{"deactivated_account", "dormant@example.com", "Sup3r$ecret", http.StatusForbidden},
		{"wrong_password", "active@example.com", "wrong", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fixture.service.Login(context.Background(), tt.email, tt.password)
			require.Error(t, err)

			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, tt.wantStatus, appError.HTTPStatus)
		})
	}
}

/*
TestService_Login_Success asserts the issued token pair and lastlogin stamp.
*/
func TestService_Login_Success(t *testing.T) {
	fixture := newServiceFixture()
	fixture.registerVerifiedUser(t, "aayusha@example.com", "Sup3r$ecret")

	result, err := fixture.service.Login(context.Background(), "Aayusha@Example.com", "Sup3r$ecret")
	require.NoError(t, err)

	require.NotNil(t, result.Tokens)
	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.NotEmpty(t, result.Tokens.RefreshToken)
	assert.NotEqual(t, result.Tokens.AccessToken, result.Tokens.RefreshToken)
	assert.True(t, result.Tokens.RefreshExpiresAt.After(result.Tokens.AccessExpiresAt))

	require.NotNil(t, result.User.LastLogin)
}

/*
TestService_Login_EnumerationResistance asserts that an unknown email and a
wrong password produce byte-identical errors.
*/
func TestService_Login_EnumerationResistance(t *testing.T) {
	fixture := newServiceFixture()
	fixture.registerVerifiedUser(t, "aayusha@example.com", "Sup3r$ecret")

	_, unknownErr := fixture.service.Login(context.Background(), "ghost@example.com", "Sup3r$ecret")
	_, wrongPasswordErr := fixture.service.Login(context.Background(), "aayusha@example.com", "wrong")

	require.Error(t, unknownErr)
	require.Error(t, wrongPasswordErr)
	assert.Equal(t, unknownErr.Error(), wrongPasswordErr.Error())
	assert.Equal(t, apperr.As(unknownErr).HTTPStatus, apperr.As(wrongPasswordErr).HTTPStatus)
}

/*
TestService_Login_LastLoginStampFailure asserts that a failed lastlogin write
does not fail the login itself.
*/
func TestService_Login_LastLoginStampFailure(t *testing.T) {
	fixture := newServiceFixture()
	fixture.registerVerifiedUser(t, "aayusha@example.com", "Sup3r$ecret")
	fixture.users.failLastLogin = true

	result, err := fixture.service.Login(context.Background(), "aayusha@example.com", "Sup3r$ecret")
	require.NoError(t, err)
	assert.Nil(t, result.User.LastLogin)
}

// # Password Recovery

/*
TestService_ForgotPassword asserts token issuance and mailing for a known
account, and silence for an unknown one.
*/
func TestService_ForgotPassword(t *testing.T) {
	fixture := newServiceFixture()
	user := fixture.registerVerifiedUser(t, "aayusha@example.com", "Sup3r$ecret")

	require.NoError(t, fixture.service.ForgotPassword(context.Background(), "aayusha@example.com"))
	assert.Equal(t, 1, fixture.notifier.passwordResetCount)
	assert.Len(t, fixture.resets.tokensForUser(user.ID), 1)

	// Unknown email: same nil error, nothing happens
	require.NoError(t, fixture.service.ForgotPassword(context.Background(), "ghost@example.com"))
	assert.Equal(t, 1, fixture.notifier.passwordResetCount)
}

/*
TestService_ForgotPassword_PriorTokensSurvive asserts that requesting a second
reset does not invalidate the first link.
*/
func TestService_ForgotPassword_PriorTokensSurvive(t *testing.T) {
	fixture := newServiceFixture()
	user := fixture.registerVerifiedUser(t, "aayusha@example.com", "Sup3r$ecret")

	require.NoError(t, fixture.service.ForgotPassword(context.Background(), "aayusha@example.com"))
	firstToken := fixture.notifier.lastResetToken
	require.NoError(t, fixture.service.ForgotPassword(context.Background(), "aayusha@example.com"))

	assert.Len(t, fixture.resets.tokensForUser(user.ID), 2)
	require.NoError(t, fixture.service.ResetPassword(context.Background(), firstToken, "N3w$ecret!"))
}

/*
TestService_ResetPassword walks the happy path: the hash changes, the old
password stops working, and a security notification goes out.
*/
func TestService_ResetPassword(t *testing.T) {
	fixture := newServiceFixture()
	user := fixture.registerVerifiedUser(t, "aayusha@example.com", "Sup3r$ecret")
	require.NoError(t, fixture.service.ForgotPassword(context.Background(), "aayusha@example.com"))

	err := fixture.service.ResetPassword(context.Background(), fixture.notifier.lastResetToken, "N3w$ecret!")
	require.NoError(t, err)

	assert.True(t, sec.CheckPasswordHash("N3w$ecret!", user.PasswordHash))
	assert.False(t, sec.CheckPasswordHash("Sup3r$ecret", user.PasswordHash))
	assert.Equal(t, 1, fixture.notifier.passwordChangedCount)

	_, err = fixture.service.Login(context.Background(), "aayusha@example.com", "Sup3r$ecret")
	require.Error(t, err)
	_, err = fixture.service.Login(context.Background(), "aayusha@example.com", "N3w$ecret!")
	require.NoError(t, err)
}

/*
TestService_ResetPassword_SecondUse asserts the single-use guarantee: a reused
link fails with ALREADY_USED and the password does not change again.
*/
func TestService_ResetPassword_SecondUse(t *testing.T) {
	fixture := newServiceFixture()
	user := fixture.registerVerifiedUser(t, "aayusha@example.com", "Sup3r$ecret")
	require.NoError(t, fixture.service.ForgotPassword(context.Background(), "aayusha@example.com"))
	tokenValue := fixture.notifier.lastResetToken

	require.NoError(t, fixture.service.ResetPassword(context.Background(), tokenValue, "N3w$ecret!"))
	hashAfterFirstReset := user.PasswordHash

	err := fixture.service.ResetPassword(context.Background(), tokenValue, "Thi3f$ecret")
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "ALREADY_USED"))
	assert.Equal(t, hashAfterFirstReset, user.PasswordHash, "a consumed token must never mutate the password")
}

/*
TestService_ResetPassword_Expired asserts that an elapsed reset window never
touches the stored hash.
*/
func TestService_ResetPassword_Expired(t *testing.T) {
	fixture := newServiceFixture()
	user := fixture.registerVerifiedUser(t, "aayusha@example.com", "Sup3r$ecret")
	require.NoError(t, fixture.service.ForgotPassword(context.Background(), "aayusha@example.com"))

	token := fixture.resets.tokensForUser(user.ID)[0]
	token.ExpiresAt = token.CreatedAt.Add(-time.Minute)
	originalHash := user.PasswordHash

	err := fixture.service.ResetPassword(context.Background(), token.Token, "N3w$ecret!")
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "TOKEN_EXPIRED"))
	assert.Equal(t, originalHash, user.PasswordHash)
}

/*
TestService_ResetPassword_UnknownToken asserts the 404 for a bogus link.
*/
func TestService_ResetPassword_UnknownToken(t *testing.T) {
	fixture := newServiceFixture()

	err := fixture.service.ResetPassword(context.Background(), "no-such-token", "N3w$ecret!")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}
