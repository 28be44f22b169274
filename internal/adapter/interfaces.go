// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport layer for the PromptShield API.
//
// The primary abstraction is [ServerAdapter], which decouples the session
// and flow controllers from HTTP. It is stateless with respect to
// credentials: every authorized call receives the key to send, so the
// session store stays the only owner of the main key and the verify call can
// send a temporary one.
//
// Non-2xx responses are returned as [*APIError] wrapping a status sentinel
// from errors.go, so callers can use [errors.Is] (e.g. [ErrUnauthorized] for
// 401) and [Detail] to surface the server's message.
package adapter

import (
	"context"

	"github.com/MKhiriev/prompt-shield/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines communication with the PromptShield API. An empty
// key means the X-API-Key header is omitted.
type ServerAdapter interface {
	// Me returns the profile of the account owning key.
	Me(ctx context.Context, key models.Credential) (models.Profile, error)

	// RotateKey invalidates key and returns its replacement.
	RotateKey(ctx context.Context, key models.Credential) (models.Credential, error)

	// Login exchanges e-mail and password for the account key.
	Login(ctx context.Context, creds models.Credentials) (models.Credential, error)

	// Signup creates an account. The returned key belongs to an unverified
	// account.
	Signup(ctx context.Context, creds models.Credentials) (models.Credential, error)

	// Verify confirms the e-mail of the account owning tempKey with the code
	// the user received.
	Verify(ctx context.Context, tempKey models.Credential, code string) (models.MessageResponse, error)

	// ForgotPassword asks the server to e-mail a reset link.
	ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) (models.MessageResponse, error)

	// ResetPassword sets a new password using the token from a reset link.
	// Responses that are not JSON yield [ErrUnexpectedResponse].
	ResetPassword(ctx context.Context, req models.ResetPasswordRequest) (models.MessageResponse, error)

	// ChangePassword replaces the password of the account owning key.
	ChangePassword(ctx context.Context, key models.Credential, req models.ChangePasswordRequest) (models.MessageResponse, error)

	// CreatePayment opens a payment intent for a plan.
	CreatePayment(ctx context.Context, key models.Credential, req models.CreatePaymentRequest) (models.PaymentIntent, error)

	// ConfirmPayment submits the transaction reference of a payment.
	ConfirmPayment(ctx context.Context, key models.Credential, req models.ConfirmPaymentRequest) (models.PaymentOutcome, error)

	// Optimize compresses a prompt without executing it. key may be empty.
	Optimize(ctx context.Context, key models.Credential, req models.OptimizeRequest) (models.OptimizationResult, error)

	// Execute compresses a prompt and runs it against an LLM provider.
	Execute(ctx context.Context, key models.Credential, req models.ExecuteRequest) (models.ExecuteResponse, error)

	// History returns up to limit recent requests. key may be empty.
	History(ctx context.Context, key models.Credential, limit int) ([]models.ActivityLog, error)

	// Stats returns the account's aggregate counters.
	Stats(ctx context.Context, key models.Credential) (models.AnalyticsStats, error)

	// TimeSeries returns the account's per-day series.
	TimeSeries(ctx context.Context, key models.Credential) ([]models.TimeSeriesPoint, error)
}
