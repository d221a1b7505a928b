// Copyright (c) 2026 PawWell Care Center. All rights reserved.

package account

import (
	"context"
	"fmt"
	"log/slog"
)

// # Service Layer

// Service orchestrates profile retrieval for authenticated users.
type Service struct {
	accountRepository AccountRepository
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(accountRepo AccountRepository, logger *slog.Logger) *Service {
	return &Service{
		accountRepository: accountRepo,
		logger:            logger,
	}
}

// # Profile Management

/*
GetProfile retrieves the full private profile of a user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *Profile: The projected user profile
  - error: Not found or execution failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*Profile, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_profile_failed: %w", err)
	}

	return NewProfile(user), nil
}
