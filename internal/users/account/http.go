// Copyright (c) 2026 PawWell Care Center. All rights reserved.

/*
HTTP delivery layer for profile retrieval.

# Security

All endpoints in this package require an active authentication session
provided by the RequireAuth middleware.
*/
package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Aayusha497/PawWell-Care-Center/internal/platform/middleware"
	requestutil "github.com/Aayusha497/PawWell-Care-Center/internal/platform/request"
	"github.com/Aayusha497/PawWell-Care-Center/internal/platform/respond"
)

// Handler implements the HTTP layer for profile access.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with the account domain's endpoints.
//
// Every route requires an authenticated session.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequireAuth)
	router.Get("/", handler.getProfile)

	return router
}

// # Profile Endpoints

/*
GetProfile returns the authenticated user's profile.

GET /api/accounts/profile

Description: Resolves the user ID from the verified access token claims and
returns the projected profile, including the computed full_name.

Response:
  - 200: Profile: Projected account data
  - 401: UNAUTHORIZED: Authentication required
  - 404: NOT_FOUND: Account no longer exists
*/
func (handler *Handler) getProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.accountService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}
