// Copyright (c) 2026 PawWell Care Center. All rights reserved.

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer behind small interfaces defined where they are consumed.
package sec

import (
	"crypto/rsa"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token type discriminators carried in the "typ" claim. A refresh token is
// never accepted where an access token is required, and vice versa.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// AuthClaims represents the payload embedded inside a JWT token.
//
// # Why custom claims?
//
// By embedding the UserID, Email, and Role directly inside the JWT,
// the authentication middleware can reconstruct the active user context
// WITHOUT querying the database on every single API request.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	UserID    string `json:"uid"`
	Email     string `json:"eml"`
	Role      string `json:"rol"`
	TokenType string `json:"typ"`
}

// TokenService handles generation and verification of JWT tokens using RS256.
type TokenService struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	issuer     string
}

// NewTokenService creates a new TokenService.
// It reads RSA keys from the provided filesystem paths.
func NewTokenService(privateKeyPath, publicKeyPath, issuer string) (*TokenService, error) {
	privateKeyData, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to read private key from %s: %w", privateKeyPath, err)
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyData)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to parse private key: %w", err)
	}

	publicKeyData, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to read public key from %s: %w", publicKeyPath, err)
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyData)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to parse public key: %w", err)
	}

	return &TokenService{
		privateKey: privateKey,
		publicKey:  publicKey,
		issuer:     issuer,
	}, nil
}

// GenerateAccessToken creates a new JWT access token for a user.
func (service *TokenService) GenerateAccessToken(userID, email, role string, timeToLive time.Duration) (string, error) {
	return service.generate(userID, email, role, TokenTypeAccess, timeToLive)
}

// GenerateRefreshToken creates a new JWT refresh token for a user.
//
// The token carries a unique "jti" claim so individual refresh tokens can be
// revoked (blacklisted) without invalidating the user's other sessions.
func (service *TokenService) GenerateRefreshToken(userID, email, role string, timeToLive time.Duration) (string, error) {
	return service.generate(userID, email, role, TokenTypeRefresh, timeToLive)
}

// generate signs a token of the given type with the usual claim set.
func (service *TokenService) generate(userID, email, role, tokenType string, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		UserID:    userID,
		Email:     email,
		Role:      role,
		TokenType: tokenType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signedToken, err := token.SignedString(service.privateKey)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifyToken checks the signature and validity of a JWT access token string.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	claims, err := service.parse(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.TokenType != TokenTypeAccess {
		return nil, fmt.Errorf("sec: token is not an access token")
	}

	return claims, nil
}

// VerifyRefreshToken checks the signature and validity of a JWT refresh token
// string. The returned claims expose the token's ID (jti) and absolute expiry
// so the caller can consult and populate the revocation blacklist.
func (service *TokenService) VerifyRefreshToken(tokenString string) (*AuthClaims, error) {
	claims, err := service.parse(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.TokenType != TokenTypeRefresh {
		return nil, fmt.Errorf("sec: token is not a refresh token")
	}

	return claims, nil
}

// parse validates the signature, expiry, and claim shape of a token string.
func (service *TokenService) parse(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.publicKey, nil
	})

	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("sec: invalid token claims")
	}

	return claims, nil
}
