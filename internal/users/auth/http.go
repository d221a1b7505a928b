// Copyright (c) 2026 PawWell Care Center. All rights reserved.

/*
HTTP delivery layer for the account lifecycle.

It implements the gateway for the authentication workflows, from account
creation to session management and recovery.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface.
  - Security: Refresh tokens travel in the JSON body, never in cookies.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes, headers, JSON).
*/
package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Aayusha497/PawWell-Care-Center/internal/platform/middleware"
	requestutil "github.com/Aayusha497/PawWell-Care-Center/internal/platform/request"
	"github.com/Aayusha497/PawWell-Care-Center/internal/platform/respond"
	"github.com/Aayusha497/PawWell-Care-Center/internal/platform/sec"
	"github.com/Aayusha497/PawWell-Care-Center/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages everything related to the user lifecycle entry points
// (Registration, Verification, Login, Password Recovery, Token Refresh).
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register              : Creates a new account.
//   - GET  /verify-email/{token}  : Verifies via the emailed link.
//   - POST /verify-email          : Verifies via a JSON body token.
//   - POST /resend-verification   : Re-issues the verification link.
//   - POST /login                 : Authenticates and returns a token pair.
//   - POST /forgot-password       : Starts password recovery.
//   - POST /reset-password        : Completes password recovery.
//   - POST /token/refresh         : Mints a new access token.
//   - POST /logout                : Revokes the refresh token.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Get("/verify-email/{token}", handler.verifyEmailLink)
	router.Post("/verify-email", handler.verifyEmail)
	router.Post("/resend-verification", handler.resendVerification)
	router.Post("/login", handler.login)
	router.Post("/forgot-password", handler.forgotPassword)
	router.Post("/reset-password", handler.resetPassword)
	router.Post("/token/refresh", handler.refresh)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/logout", handler.logout)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	PhoneNumber     string `json:"phone_number"`
	Role            string `json:"role"`
}

type verifyEmailRequest struct {
	Token string `json:"token"`
}

type resendVerificationRequest struct {
	Email string `json:"email"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token           string `json:"token"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

/*
Register handles the creation of a new user account.

POST /api/accounts/register

Description: Validates input against the account policy, persists a new
unverified profile, and dispatches the verification email.

Request:
  - Body: registerRequest

Response:
  - 201: User profile, message, email_sent flag
  - 400: VALIDATION_ERROR: Bad input or policy failure
  - 409: CONFLICT: Email already registered
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		Password(FieldPassword, input.Password).
		Match(FieldConfirmPassword, input.ConfirmPassword, input.Password).
		Required(FieldFirstName, input.FirstName).
		Required(FieldLastName, input.LastName).
		Phone(FieldPhoneNumber, input.PhoneNumber)

	if input.Role != "" {
		validator.OneOf(FieldRole, input.Role,
			string(sec.RolePetOwner), string(sec.RoleStaff), string(sec.RoleAdmin))
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.Register(request.Context(), RegisterInput{
		Email:       input.Email,
		Password:    input.Password,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		PhoneNumber: input.PhoneNumber,
		Role:        sec.UserRole(input.Role),
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, map[string]any{
		FieldMessage:   "Registration successful! Please check your email to verify your account.",
		FieldUser:      result.User,
		FieldEmailSent: result.EmailSent,
	})
}

/*
VerifyEmailLink confirms email ownership via the emailed link.

GET /api/accounts/verify-email/{token}

Description: Link-click variant of verification; the token arrives as a URL
parameter instead of a JSON body.

Response:
  - 200: Success: Email verified
  - 400: ALREADY_VERIFIED / TOKEN_EXPIRED
  - 404: NOT_FOUND: Unknown token
*/
func (handler *Handler) verifyEmailLink(writer http.ResponseWriter, request *http.Request) {
	handler.completeVerification(writer, request, chi.URLParam(request, FieldToken))
}

/*
VerifyEmail confirms email ownership via a JSON body token.

POST /api/accounts/verify-email

Request:
  - Body: verifyEmailRequest (Token)

Response:
  - 200: Success: Email verified
  - 400: ALREADY_VERIFIED / TOKEN_EXPIRED / missing token
  - 404: NOT_FOUND: Unknown token
*/
func (handler *Handler) verifyEmail(writer http.ResponseWriter, request *http.Request) {
	var input verifyEmailRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.Token == "" {
		respond.Error(writer, request, validate.RequiredError(FieldToken, "is required"))
		return
	}

	handler.completeVerification(writer, request, input.Token)
}

// completeVerification runs the shared verification workflow for both the
// link-click and JSON-body entry points.
func (handler *Handler) completeVerification(writer http.ResponseWriter, request *http.Request, token string) {
	user, err := handler.authService.VerifyEmail(request.Context(), token)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldMessage: "Email verified successfully! You can now login to your account.",
		FieldEmail:   user.Email,
	})
}

/*
ResendVerification re-issues the verification email for an unverified account.

POST /api/accounts/resend-verification

Description: Purges stale tokens and sends a fresh link. A non-existent
email receives a generic success to prevent account enumeration.

Request:
  - Body: resendVerificationRequest (Email)

Response:
  - 200: Success: Link sent (or generic security message)
  - 400: ALREADY_VERIFIED or missing email
*/
func (handler *Handler) resendVerification(writer http.ResponseWriter, request *http.Request) {
	var input resendVerificationRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).Email(FieldEmail, input.Email)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.ResendVerification(request.Context(), input.Email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if result.Hidden {
		respond.OK(writer, map[string]any{
			FieldMessage: "If an account exists with this email, you will receive a verification link shortly.",
		})
		return
	}

	respond.OK(writer, map[string]any{
		FieldMessage:   "Verification email sent successfully!",
		FieldEmail:     result.Email,
		FieldEmailSent: result.EmailSent,
	})
}

/*
Login authenticates a user and establishes a session.

POST /api/accounts/login

Description: Verifies credentials and returns a signed access/refresh token
pair together with the profile.

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: Token pair and User profile
  - 401: UNAUTHORIZED: Invalid credentials
  - 403: FORBIDDEN: Unverified email or deactivated account
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.Login(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldMessage: "Login successful!",
		FieldUser:    result.User,
		"tokens":     result.Tokens,
	})
}

/*
ForgotPassword initiates the password recovery flow.

POST /api/accounts/forgot-password

Description: Issues a reset link when the account exists. The response body
is byte-identical whether or not the email is registered.

Request:
  - Body: forgotPasswordRequest (Email)

Response:
  - 200: Generic success message
  - 400: VALIDATION_ERROR: Invalid email format
*/
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input forgotPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).Email(FieldEmail, input.Email)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ForgotPassword(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldMessage: "If an account exists with this email, you will receive a password reset link shortly.",
	})
}

/*
ResetPassword completes the password recovery flow.

POST /api/accounts/reset-password

Description: Validates the new password against the account policy, then
consumes the single-use token and updates the credential.

Request:
  - Body: resetPasswordRequest (Token, NewPassword, ConfirmPassword)

Response:
  - 200: Success: Password updated
  - 400: ALREADY_USED / TOKEN_EXPIRED / VALIDATION_ERROR
  - 404: NOT_FOUND: Unknown token
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	var input resetPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldToken, input.Token).
		Required(FieldNewPassword, input.NewPassword).
		Password(FieldNewPassword, input.NewPassword).
		Match(FieldConfirmPassword, input.ConfirmPassword, input.NewPassword)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ResetPassword(request.Context(), input.Token, input.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldMessage: "Password reset successful! You can now login with your new password.",
	})
}

/*
Refresh issues a new access token using a valid refresh token.

POST /api/accounts/token/refresh

Description: Validates the refresh token's signature, expiry, type, and
revocation state, then mints a fresh access token. The refresh token is not
rotated.

Request:
  - Body: refreshRequest (Refresh)

Response:
  - 200: New access token with absolute expiry
  - 401: UNAUTHORIZED: Missing, invalid, expired, or revoked refresh token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	var input refreshRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.Refresh == "" {
		respond.Error(writer, request, validate.RequiredError(FieldRefresh, "is required"))
		return
	}

	accessToken, expiresAt, err := handler.authService.Sessions().Refresh(request.Context(), input.Refresh)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldAccessToken: accessToken,
		FieldTokenType:   "Bearer",
		FieldExpiresIn:   int64(time.Until(expiresAt) / time.Second),
	})
}

/*
Logout revokes the supplied refresh token.

POST /api/accounts/logout

Description: Blacklists the refresh token's ID for its remaining lifetime.
The access token naturally expires; no server-side state tracks it.

Request:
  - Body: refreshRequest (Refresh)

Response:
  - 200: Success: Logged out
  - 400: MISSING_TOKEN / INVALID_TOKEN
  - 401: UNAUTHORIZED: Authentication required
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	var input refreshRequest

	// A missing/unreadable body falls through with an empty token so the
	// session service can report MISSING_TOKEN consistently
	_ = requestutil.DecodeJSON(request, &input)

	if err := handler.authService.Sessions().Revoke(request.Context(), input.Refresh); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldMessage: "Logout successful.",
	})
}
