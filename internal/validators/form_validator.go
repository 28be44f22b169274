package validators

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// fieldErrors maps "<Struct>.<Field>/<tag>" to the error reported for it.
var fieldErrors = map[string]error{
	"Credentials.Email/required":    ErrEmailRequired,
	"Credentials.Email/email":       ErrInvalidEmail,
	"Credentials.Password/required": ErrPasswordRequired,

	"SignupForm.Email/required":    ErrEmailRequired,
	"SignupForm.Email/email":       ErrInvalidEmail,
	"SignupForm.Password/required": ErrPasswordRequired,
	"SignupForm.AcceptTerms/eq":    ErrTermsNotAccepted,

	"ForgotPasswordRequest.Email/required": ErrEmailRequired,
	"ForgotPasswordRequest.Email/email":    ErrInvalidEmail,

	"VerifyForm.Code/notblank": ErrCodeRequired,

	"ChangePasswordForm.OldPassword/required":    ErrCurrentPasswordRequired,
	"ChangePasswordForm.ConfirmPassword/eqfield": ErrNewPasswordsMismatch,
	"ChangePasswordForm.NewPassword/min":         ErrNewPasswordTooShort,
	"ResetPasswordForm.Token/notblank":           ErrInvalidResetLink,
	"ResetPasswordForm.ConfirmPassword/eqfield":  ErrPasswordsMismatch,
	"ResetPasswordForm.NewPassword/min":          ErrPasswordTooShort,
	"PaymentReferenceForm.Reference/len":         ErrInvalidReference,
	"PaymentReferenceForm.Reference/number":      ErrInvalidReference,
	"PromptForm.Text/notblank":                   ErrPromptRequired,
}

// FormValidator validates the form structs of the models package.
type FormValidator struct {
	validate *validator.Validate
}

func NewFormValidator() Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", validateNotBlank)
	return &FormValidator{validate: v}
}

// validateNotBlank rejects strings made of whitespace only.
func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Validate checks obj, or only the named fields of obj when fields are
// given. The first violation, in field declaration order, is returned.
func (v *FormValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	var err error
	if len(fields) > 0 {
		err = v.validate.StructPartialCtx(ctx, obj, fields...)
	} else {
		err = v.validate.StructCtx(ctx, obj)
	}
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return ErrUnsupportedType
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return mapFieldError(fieldErrs[0])
	}

	return fmt.Errorf("%w: %w", ErrInvalidInput, err)
}

func mapFieldError(fe validator.FieldError) error {
	if mapped, ok := fieldErrors[fe.StructNamespace()+"/"+fe.Tag()]; ok {
		return mapped
	}
	return fmt.Errorf("%w: %s failed on %q", ErrInvalidInput, fe.StructNamespace(), fe.Tag())
}
