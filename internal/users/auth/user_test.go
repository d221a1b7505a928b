// Copyright (c) 2026 PawWell Care Center. All rights reserved.

package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Aayusha497/PawWell-Care-Center/internal/platform/sec"
	"github.com/Aayusha497/PawWell-Care-Center/internal/users/auth"
)

/*
TestUser_FullName tests display-name composition from the name parts.
*/
func TestUser_FullName(t *testing.T) {
	tests := []struct {
		name      string
		firstName string
		lastName  string
		want      string
	}{
		{"both_parts", "Aayusha", "Shrestha", "Aayusha Shrestha"},
		{"first_only", "Aayusha", "", "Aayusha"},
		{"last_only", "", "Shrestha", "Shrestha"},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &auth.User{FirstName: tt.firstName, LastName: tt.lastName}
			assert.Equal(t, tt.want, user.FullName())
		})
	}
}

/*
TestUser_CanLogin verifies that both verification and activation gate login.
*/
func TestUser_CanLogin(t *testing.T) {
	tests := []struct {
		name     string
		verified bool
		active   bool
		want     bool
	}{
		{"verified_and_active", true, true, true},
		{"unverified", false, true, false},
		{"deactivated", true, false, false},
		{"fresh_registration", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &auth.User{
				Role:          sec.RolePetOwner,
				EmailVerified: tt.verified,
				IsActive:      tt.active,
			}
			assert.Equal(t, tt.want, user.CanLogin())
		})
	}
}

/*
TestVerificationToken_IsExpired checks the verification window boundary.
*/
func TestVerificationToken_IsExpired(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{"still_valid", time.Now().Add(time.Hour), false},
		{"expired", time.Now().Add(-time.Minute), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := &auth.VerificationToken{ExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.want, token.IsExpired())
		})
	}
}

/*
TestResetToken_CanReset covers the used/expired combinations of a reset token.
*/
func TestResetToken_CanReset(t *testing.T) {
	tests := []struct {
		name      string
		isUsed    bool
		expiresAt time.Time
		want      bool
	}{
		{"fresh", false, time.Now().Add(time.Hour), true},
		{"already_used", true, time.Now().Add(time.Hour), false},
		{"expired", false, time.Now().Add(-time.Minute), false},
		{"used_and_expired", true, time.Now().Add(-time.Minute), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := &auth.ResetToken{IsUsed: tt.isUsed, ExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.want, token.CanReset())
		})
	}
}
