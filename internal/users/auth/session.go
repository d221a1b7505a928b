// Copyright (c) 2026 PawWell Care Center. All rights reserved.

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/Aayusha497/PawWell-Care-Center/internal/platform/apperr"
	"github.com/Aayusha497/PawWell-Care-Center/internal/platform/sec"
)

// # Session Contracts

// TokenIssuer defines the contract for minting and verifying session JWTs.
//
// # Why an interface?
//
// Decoupling from [sec.TokenService] lets unit tests inject a deterministic
// issuer without RSA key files.
type TokenIssuer interface {
	GenerateAccessToken(userID, email, role string, timeToLive time.Duration) (string, error)
	GenerateRefreshToken(userID, email, role string, timeToLive time.Duration) (string, error)
	VerifyRefreshToken(tokenString string) (*sec.AuthClaims, error)
}

// TokenPair is the transport-ready result of a successful authentication.
type TokenPair struct {
	AccessToken      string    `json:"access"`
	RefreshToken     string    `json:"refresh"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// SessionService manages the stateless JWT session lifecycle.
//
// Sessions are a signed access/refresh token pair. There is no server-side
// session row; revocation is tracked per refresh token via its jti in the
// [TokenBlacklist], with a TTL equal to the token's remaining lifetime.
type SessionService struct {
	issuer     TokenIssuer
	blacklist  TokenBlacklist
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewSessionService constructs a new [SessionService].
func NewSessionService(issuer TokenIssuer, blacklist TokenBlacklist, accessTTL, refreshTTL time.Duration) *SessionService {
	return &SessionService{
		issuer:     issuer,
		blacklist:  blacklist,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// # Session Lifecycle

/*
IssuePair mints a fresh access/refresh token pair for an authenticated user.

Parameters:
  - user: *User

Returns:
  - *TokenPair: Signed tokens with absolute expiries
  - error: Signing failures
*/
func (service *SessionService) IssuePair(user *User) (*TokenPair, error) {

	now := time.Now()

	accessToken, err := service.issuer.GenerateAccessToken(user.ID, user.Email, string(user.Role), service.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("session_service_access_token_failed: %w", err)
	}

	refreshToken, err := service.issuer.GenerateRefreshToken(user.ID, user.Email, string(user.Role), service.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("session_service_refresh_token_failed: %w", err)
	}

	return &TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  now.Add(service.accessTTL),
		RefreshExpiresAt: now.Add(service.refreshTTL),
	}, nil
}

/*
Refresh mints a new access token from a valid refresh token.

Description: Validates signature, expiry, token type, and the revocation
blacklist. The refresh token itself is NOT rotated; it stays valid until its
natural expiry or an explicit logout.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - string: New signed access token
  - time.Time: Absolute access token expiry
  - error: Unauthorized on any validation failure
*/
func (service *SessionService) Refresh(context context.Context, refreshToken string) (string, time.Time, error) {

	claims, err := service.issuer.VerifyRefreshToken(refreshToken)
	if err != nil {
		return "", time.Time{}, apperr.Unauthorized("Invalid or expired refresh token.")
	}

	// A blacklisted jti means the token was revoked by logout
	revoked, err := service.blacklist.IsRevoked(context, claims.ID)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("session_service_blacklist_check_failed: %w", err)
	}
	if revoked {
		return "", time.Time{}, apperr.Unauthorized("Invalid or expired refresh token.")
	}

	accessToken, err := service.issuer.GenerateAccessToken(claims.UserID, claims.Email, claims.Role, service.accessTTL)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("session_service_refresh_access_token_failed: %w", err)
	}

	return accessToken, time.Now().Add(service.accessTTL), nil
}

/*
Revoke permanently invalidates a refresh token (logout).

Description: The token's jti is blacklisted for its remaining lifetime.
Revoking an already-revoked token succeeds (idempotent operation).

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - error: MISSING_TOKEN, INVALID_TOKEN, or storage failures
*/
func (service *SessionService) Revoke(context context.Context, refreshToken string) error {

	if refreshToken == "" {
		return apperr.BadRequest("MISSING_TOKEN", "Refresh token is required.")
	}

	claims, err := service.issuer.VerifyRefreshToken(refreshToken)
	if err != nil {
		return apperr.BadRequest("INVALID_TOKEN", "Invalid or expired refresh token.")
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if err := service.blacklist.Add(context, claims.ID, remaining); err != nil {
		return fmt.Errorf("session_service_revoke_failed: %w", err)
	}

	return nil
}
