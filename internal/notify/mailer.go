// Copyright (c) 2026 PawWell Care Center. All rights reserved.

/*
Package notify implements outbound email delivery via Resend.

# Architecture

The Mailer satisfies the auth package's Notifier contract. Every send is
best-effort: failures are logged and reported as a boolean so account
workflows never fail because the mail provider is down. In development mode
(or without an API key) messages are logged instead of sent, which keeps the
verification and reset links visible in the console.
*/
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"

	"github.com/Aayusha497/PawWell-Care-Center/internal/platform/ctxutil"
	"github.com/Aayusha497/PawWell-Care-Center/internal/users/auth"
)

// # Mailer

// Mailer sends transactional account emails through the Resend API.
type Mailer struct {
	client      *resend.Client
	fromAddress string
	frontendURL string
	devMode     bool
}

// NewMailer constructs a [Mailer].
//
// # Parameters
//   - apiKey: Resend API key. Empty disables real delivery.
//   - fromAddress: RFC 5322 sender, e.g. "PawWell <no-reply@pawwellcare.com>".
//   - frontendURL: Base URL embedded in verification and reset links.
//   - devMode: When true, messages are logged instead of sent.
func NewMailer(apiKey, fromAddress, frontendURL string, devMode bool) *Mailer {
	var client *resend.Client
	if apiKey != "" && !devMode {
		client = resend.NewClient(apiKey)
	}

	return &Mailer{
		client:      client,
		fromAddress: fromAddress,
		frontendURL: frontendURL,
		devMode:     devMode,
	}
}

// # Message Kinds

// SendVerification mails the email verification link.
func (mailer *Mailer) SendVerification(context context.Context, user *auth.User, token string) bool {
	link := fmt.Sprintf("%s/verify-email/%s", mailer.frontendURL, token)

	subject := "Verify Your Email - PawWell Care Center"
	body := fmt.Sprintf(`Welcome %s!

Thank you for registering with PawWell Care Center.

To complete your registration, please verify your email address by clicking this link:
%s

Note: This link will expire in 24 hours.

If you didn't create an account with PawWell Care Center, please ignore this email.`,
		user.FirstName, link)

	return mailer.deliver(context, "verification", user.Email, subject, body, link)
}

// SendWelcome mails the post-verification welcome message.
func (mailer *Mailer) SendWelcome(context context.Context, user *auth.User) bool {
	subject := "Welcome to PawWell Care Center!"
	body := fmt.Sprintf(`Hi %s,

Your email has been verified and your account is now active.

You can log in at %s/login and start booking care for your pets.

Taking care of your pets, one paw at a time.`,
		user.FirstName, mailer.frontendURL)

	return mailer.deliver(context, "welcome", user.Email, subject, body, "")
}

// SendPasswordReset mails the password reset link.
func (mailer *Mailer) SendPasswordReset(context context.Context, user *auth.User, token string) bool {
	link := fmt.Sprintf("%s/reset-password/%s", mailer.frontendURL, token)

	subject := "Reset Your Password - PawWell Care Center"
	body := fmt.Sprintf(`Hi %s,

We received a request to reset the password for your PawWell Care Center account.

Click this link to choose a new password:
%s

Note: This link will expire in 1 hour and can be used only once.

If you didn't request a password reset, please ignore this email.`,
		user.FirstName, link)

	return mailer.deliver(context, "password_reset", user.Email, subject, body, link)
}

// SendPasswordChanged mails the security notification after a reset completes.
func (mailer *Mailer) SendPasswordChanged(context context.Context, user *auth.User) bool {
	subject := "Your Password Was Changed - PawWell Care Center"
	body := fmt.Sprintf(`Hi %s,

The password for your PawWell Care Center account was just changed.

If this was you, no action is needed. If you didn't change your password,
please contact support immediately.`,
		user.FirstName)

	return mailer.deliver(context, "password_changed", user.Email, subject, body, "")
}

// # Delivery

// deliver sends one message and reports success. In dev mode (or without a
// configured client) the message is logged with its link so local flows stay
// testable end to end.
func (mailer *Mailer) deliver(context context.Context, kind, to, subject, body, link string) bool {
	logger := ctxutil.GetLogger(context)

	if mailer.devMode || mailer.client == nil {
		logger.InfoContext(context, "email_sent_dev_mode",
			slog.String("kind", kind),
			slog.String("to", to),
			slog.String("subject", subject),
			slog.String("link", link),
		)
		return true
	}

	params := &resend.SendEmailRequest{
		From:    mailer.fromAddress,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}

	if _, err := mailer.client.Emails.SendWithContext(context, params); err != nil {
		logger.ErrorContext(context, "email_send_failed",
			slog.String("kind", kind),
			slog.String("to", to),
			slog.Any("error", err),
		)
		return false
	}

	logger.InfoContext(context, "email_sent",
		slog.String("kind", kind),
		slog.String("to", to),
	)

	return true
}
