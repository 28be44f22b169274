package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrInvalidInput    = errors.New("invalid input")

	ErrEmailRequired    = errors.New("Email is required")
	ErrInvalidEmail     = errors.New("Enter a valid email address")
	ErrPasswordRequired = errors.New("Password is required")
	ErrTermsNotAccepted = errors.New("You must accept the Terms of Service and Privacy Policy")
	ErrCodeRequired     = errors.New("Verification code is required")

	ErrCurrentPasswordRequired = errors.New("Current password is required")
	ErrNewPasswordsMismatch    = errors.New("New passwords do not match")
	ErrNewPasswordTooShort     = errors.New("New password must be at least 8 characters")

	ErrInvalidResetLink  = errors.New("Invalid link. Please check your email and try again.")
	ErrPasswordsMismatch = errors.New("Passwords do not match")
	ErrPasswordTooShort  = errors.New("Password must be at least 6 characters")
	ErrInvalidReference  = errors.New("Transaction reference must be exactly 12 digits")
	ErrPromptRequired    = errors.New("Prompt text is required")
)
