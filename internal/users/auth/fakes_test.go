// Copyright (c) 2026 PawWell Care Center. All rights reserved.

package auth_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/Aayusha497/PawWell-Care-Center/internal/platform/apperr"
	"github.com/Aayusha497/PawWell-Care-Center/internal/platform/sec"
	"github.com/Aayusha497/PawWell-Care-Center/internal/users/auth"
)

// # In-Memory Fakes
//
// The fakes mirror the Postgres/Redis behavior the workflows depend on:
// NotFound errors on misses, Conflict on duplicate emails, and the
// compare-and-set semantics of token consumption.

type fakeUserRepository struct {
	byID          map[string]*auth.User
	byEmail       map[string]*auth.User
	failLastLogin bool
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{
		byID:    make(map[string]*auth.User),
		byEmail: make(map[string]*auth.User),
	}
}

func (repo *fakeUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	user, ok := repo.byID[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return user, nil
}

func (repo *fakeUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	user, ok := repo.byEmail[email]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return user, nil
}

func (repo *fakeUserRepository) Create(_ context.Context, user *auth.User) error {
	if _, exists := repo.byEmail[user.Email]; exists {
		return apperr.Conflict("An account with this email already exists.")
	}
	user.DateJoined = time.Now()
	repo.byID[user.ID] = user
	repo.byEmail[user.Email] = user
	return nil
}

func (repo *fakeUserRepository) UpdatePassword(_ context.Context, userID, newHash string) error {
	user, ok := repo.byID[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.PasswordHash = newHash
	return nil
}

func (repo *fakeUserRepository) UpdateLastLogin(_ context.Context, userID string, loginTime time.Time) error {
	if repo.failLastLogin {
		return errors.New("connection reset")
	}
	user, ok := repo.byID[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.LastLogin = &loginTime
	return nil
}

type fakeVerificationTokenRepository struct {
	users   *fakeUserRepository
	byValue map[string]*auth.VerificationToken
	byID    map[string]*auth.VerificationToken
}

func newFakeVerificationTokenRepository(users *fakeUserRepository) *fakeVerificationTokenRepository {
	return &fakeVerificationTokenRepository{
		users:   users,
		byValue: make(map[string]*auth.VerificationToken),
		byID:    make(map[string]*auth.VerificationToken),
	}
}

func (repo *fakeVerificationTokenRepository) Create(_ context.Context, token *auth.VerificationToken) error {
	repo.byValue[token.Token] = token
	repo.byID[token.ID] = token
	return nil
}

func (repo *fakeVerificationTokenRepository) FindByToken(_ context.Context, tokenValue string) (*auth.VerificationToken, error) {
	token, ok := repo.byValue[tokenValue]
	if !ok {
		return nil, apperr.NotFound("Verification token")
	}
	return token, nil
}

func (repo *fakeVerificationTokenRepository) ConsumeAndActivate(_ context.Context, tokenID, userID string) error {
	token, ok := repo.byID[tokenID]
	if !ok || token.IsVerified {
		return apperr.BadRequest("ALREADY_VERIFIED", "Email already verified. You can now login.")
	}
	token.IsVerified = true

	user, ok := repo.users.byID[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.EmailVerified = true
	user.IsActive = true
	return nil
}

func (repo *fakeVerificationTokenRepository) DeleteForUser(_ context.Context, userID string) error {
	for value, token := range repo.byValue {
		if token.UserID == userID {
			delete(repo.byValue, value)
			delete(repo.byID, token.ID)
		}
	}
	return nil
}

// tokensForUser returns the live verification tokens belonging to a user.
func (repo *fakeVerificationTokenRepository) tokensForUser(userID string) []*auth.VerificationToken {
	var tokens []*auth.VerificationToken
	for _, token := range repo.byValue {
		if token.UserID == userID {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

type fakeResetTokenRepository struct {
	users   *fakeUserRepository
	byValue map[string]*auth.ResetToken
	byID    map[string]*auth.ResetToken
}

func newFakeResetTokenRepository(users *fakeUserRepository) *fakeResetTokenRepository {
	return &fakeResetTokenRepository{
		users:   users,
		byValue: make(map[string]*auth.ResetToken),
		byID:    make(map[string]*auth.ResetToken),
	}
}

func (repo *fakeResetTokenRepository) Create(_ context.Context, token *auth.ResetToken) error {
	repo.byValue[token.Token] = token
	repo.byID[token.ID] = token
	return nil
}

func (repo *fakeResetTokenRepository) FindByToken(_ context.Context, tokenValue string) (*auth.ResetToken, error) {
	token, ok := repo.byValue[tokenValue]
	if !ok {
		return nil, apperr.NotFound("Password reset token")
	}
	return token, nil
}

func (repo *fakeResetTokenRepository) ConsumeAndSetPassword(_ context.Context, tokenID, userID, newHash string) error {
	token, ok := repo.byID[tokenID]
	if !ok || token.IsUsed {
		return apperr.BadRequest("ALREADY_USED", "This password reset link has already been used.")
	}
	token.IsUsed = true

	user, ok := repo.users.byID[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.PasswordHash = newHash
	return nil
}

// tokensForUser returns the reset tokens belonging to a user.
func (repo *fakeResetTokenRepository) tokensForUser(userID string) []*auth.ResetToken {
	var tokens []*auth.ResetToken
	for _, token := range repo.byValue {
		if token.UserID == userID {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

type fakeNotifier struct {
	deliver bool

	verificationCount    int
	welcomeCount         int
	passwordResetCount   int
	passwordChangedCount int

	lastVerificationToken string
	lastResetToken        string
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{deliver: true}
}

func (notifier *fakeNotifier) SendVerification(_ context.Context, _ *auth.User, token string) bool {
	notifier.verificationCount++
	notifier.lastVerificationToken = token
	return notifier.deliver
}

func (notifier *fakeNotifier) SendWelcome(_ context.Context, _ *auth.User) bool {
	notifier.welcomeCount++
	return notifier.deliver
}

func (notifier *fakeNotifier) SendPasswordReset(_ context.Context, _ *auth.User, token string) bool {
	notifier.passwordResetCount++
	notifier.lastResetToken = token
	return notifier.deliver
}

func (notifier *fakeNotifier) SendPasswordChanged(_ context.Context, _ *auth.User) bool {
	notifier.passwordChangedCount++
	return notifier.deliver
}

// fakeTokenIssuer mints deterministic opaque strings instead of signed JWTs,
// keeping RSA key files out of the unit tests.
type fakeTokenIssuer struct {
	sequence      int
	refreshClaims map[string]*sec.AuthClaims
}

func newFakeTokenIssuer() *fakeTokenIssuer {
	return &fakeTokenIssuer{refreshClaims: make(map[string]*sec.AuthClaims)}
}

func (issuer *fakeTokenIssuer) GenerateAccessToken(userID, _, _ string, _ time.Duration) (string, error) {
	issuer.sequence++
	return fmt.Sprintf("access-%s-%d", userID, issuer.sequence), nil
}

func (issuer *fakeTokenIssuer) GenerateRefreshToken(userID, email, role string, timeToLive time.Duration) (string, error) {
	issuer.sequence++
	tokenString := fmt.Sprintf("refresh-%s-%d", userID, issuer.sequence)
	issuer.refreshClaims[tokenString] = &sec.AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        fmt.Sprintf("jti-%d", issuer.sequence),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(timeToLive)),
		},
		UserID:    userID,
		Email:     email,
		Role:      role,
		TokenType: "refresh",
	}
	return tokenString, nil
}

func (issuer *fakeTokenIssuer) VerifyRefreshToken(tokenString string) (*sec.AuthClaims, error) {
	claims, ok := issuer.refreshClaims[tokenString]
	if !ok {
		return nil, errors.New("token is malformed")
	}
	if time.Now().After(claims.ExpiresAt.Time) {
		return nil, errors.New("token is expired")
	}
	return claims, nil
}

type fakeTokenBlacklist struct {
	revoked map[string]time.Duration
}

func newFakeTokenBlacklist() *fakeTokenBlacklist {
	return &fakeTokenBlacklist{revoked: make(map[string]time.Duration)}
}

func (blacklist *fakeTokenBlacklist) Add(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	blacklist.revoked[tokenID] = ttl
	return nil
}

func (blacklist *fakeTokenBlacklist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, revoked := blacklist.revoked[tokenID]
	return revoked, nil
}

// # Test Fixture

type serviceFixture struct {
	users         *fakeUserRepository
	verifications *fakeVerificationTokenRepository
	resets        *fakeResetTokenRepository
	issuer        *fakeTokenIssuer
	blacklist     *fakeTokenBlacklist
	notifier      *fakeNotifier
	sessions      *auth.SessionService
	service       *auth.Service
}

// newServiceFixture wires a fully in-memory service with production-like
// windows: 24h for email verification, 1h for password resets.
func newServiceFixture() *serviceFixture {
	users := newFakeUserRepository()
	verifications := newFakeVerificationTokenRepository(users)
	resets := newFakeResetTokenRepository(users)
	issuer := newFakeTokenIssuer()
	blacklist := newFakeTokenBlacklist()
	notifier := newFakeNotifier()

	sessions := auth.NewSessionService(issuer, blacklist, 15*time.Minute, 24*time.Hour)

	return &serviceFixture{
		users:         users,
		verifications: verifications,
		resets:        resets,
		issuer:        issuer,
		blacklist:     blacklist,
		notifier:      notifier,
		sessions:      sessions,
		service: auth.NewService(
			users, verifications, resets, sessions, notifier,
			24*time.Hour, time.Hour,
		),
	}
}

// registerUser runs the registration workflow and returns the created account.
func (fixture *serviceFixture) registerUser(t *testing.T, email, password string) *auth.User {
	t.Helper()

	result, err := fixture.service.Register(context.Background(), auth.RegisterInput{
		Email:     email,
		Password:  password,
		FirstName: "Aayusha",
		LastName:  "Shrestha",
	})
	require.NoError(t, err)
	return result.User
}

// registerVerifiedUser registers an account and walks it through email
// verification so it can log in.
func (fixture *serviceFixture) registerVerifiedUser(t *testing.T, email, password string) *auth.User {
	t.Helper()

	user := fixture.registerUser(t, email, password)
	_, err := fixture.service.VerifyEmail(context.Background(), fixture.notifier.lastVerificationToken)
	require.NoError(t, err)
	return user
}
