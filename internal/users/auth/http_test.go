// Copyright (c) 2026 PawWell Care Center. All rights reserved.

package auth_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aayusha497/PawWell-Care-Center/internal/users/auth"
)

// postJSON performs a request against the handler's router and returns the
// recorded response.
func postJSON(handler *auth.Handler, path, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	handler.Routes().ServeHTTP(recorder, request)
	return recorder
}

/*
TestHandler_Register_ValidationBeforeCreation asserts that a policy failure
rejects the request before any account is persisted.
*/
func TestHandler_Register_ValidationBeforeCreation(t *testing.T) {
	fixture := newServiceFixture()
	handler := auth.NewHandler(fixture.service)

	tests := []struct {
		name string
		body string
	}{
		{"password_mismatch", `{"email":"a@example.com","password":"Sup3r$ecret","confirm_password":"different1","first_name":"A","last_name":"S"}`},
		{"weak_password", `{"email":"a@example.com","password":"short1","confirm_password":"short1","first_name":"A","last_name":"S"}`},
		{"no_digit_in_password", `{"email":"a@example.com","password":"onlyletters","confirm_password":"onlyletters","first_name":"A","last_name":"S"}`},
		{"invalid_email", `{"email":"not-an-email","password":"Sup3r$ecret","confirm_password":"Sup3r$ecret","first_name":"A","last_name":"S"}`},
		{"missing_names", `{"email":"a@example.com","password":"Sup3r$ecret","confirm_password":"Sup3r$ecret"}`},
		{"bad_phone", `{"email":"a@example.com","password":"Sup3r$ecret","confirm_password":"Sup3r$ecret","first_name":"A","last_name":"S","phone_number":"123"}`},
		{"unknown_role", `{"email":"a@example.com","password":"Sup3r$ecret","confirm_password":"Sup3r$ecret","first_name":"A","last_name":"S","role":"wizard"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response := postJSON(handler, "/register", tt.body)

			assert.Equal(t, http.StatusBadRequest, response.Code)
			assert.Empty(t, fixture.users.byEmail, "no account may exist after a rejected registration")
			assert.Equal(t, 0, fixture.notifier.verificationCount)
		})
	}
}

/*
TestHandler_ForgotPassword_IdenticalResponses asserts that the response for a
registered email and an unknown email are byte-identical, so the endpoint
cannot be used to probe for accounts.
*/
func TestHandler_ForgotPassword_IdenticalResponses(t *testing.T) {
	fixture := newServiceFixture()
	fixture.registerVerifiedUser(t, "aayusha@example.com", "Sup3r$ecret")
	handler := auth.NewHandler(fixture.service)

	known := postJSON(handler, "/forgot-password", `{"email":"aayusha@example.com"}`)
	unknown := postJSON(handler, "/forgot-password", `{"email":"ghost@example.com"}`)

	assert.Equal(t, http.StatusOK, known.Code)
	assert.Equal(t, known.Code, unknown.Code)
	assert.Equal(t, known.Body.String(), unknown.Body.String())

	// The real account still got its reset email behind the identical facade
	require.Equal(t, 1, fixture.notifier.passwordResetCount)
}

/*
TestHandler_VerifyEmail_LinkAndBody asserts that the GET link-click route and
the POST body route share one verification workflow.
*/
func TestHandler_VerifyEmail_LinkAndBody(t *testing.T) {
	fixture := newServiceFixture()
	fixture.registerUser(t, "aayusha@example.com", "Sup3r$ecret")
	handler := auth.NewHandler(fixture.service)

	request := httptest.NewRequest(http.MethodGet, "/verify-email/"+fixture.notifier.lastVerificationToken, nil)
	recorder := httptest.NewRecorder()
	handler.Routes().ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)

	// The consumed link now fails identically through the POST variant
	response := postJSON(handler, "/verify-email", `{"token":"`+fixture.notifier.lastVerificationToken+`"}`)
	assert.Equal(t, http.StatusBadRequest, response.Code)
	assert.Contains(t, response.Body.String(), "ALREADY_VERIFIED")
}
