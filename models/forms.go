// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Form structs hold raw user input and carry the validation rules applied
// before any request is sent. Field order matters: the first failing field
// is the one reported.

// SignupForm is the input of the signup view.
type SignupForm struct {
	Email       string `validate:"required,email"`
	Password    string `validate:"required"`
	AcceptTerms bool   `validate:"eq=true"`
}

// VerifyForm is the input of the verify view.
type VerifyForm struct {
	Code string `validate:"notblank"`
}

// ChangePasswordForm is the input of the change-password dialog.
type ChangePasswordForm struct {
	OldPassword     string `validate:"required"`
	ConfirmPassword string `validate:"eqfield=NewPassword"`
	NewPassword     string `validate:"min=8"`
}

// ResetPasswordForm is the input of the reset-password page. Token comes
// from the reset link, not from the user.
type ResetPasswordForm struct {
	Token           string `validate:"notblank"`
	ConfirmPassword string `validate:"eqfield=NewPassword"`
	NewPassword     string `validate:"min=6"`
}

// PaymentReferenceForm is the transaction reference typed on the pay step.
type PaymentReferenceForm struct {
	Reference string `validate:"len=12,number"`
}

// PromptForm is the playground input.
type PromptForm struct {
	Text string `validate:"notblank"`
}
