package models

// Credential is the opaque API key that authorizes requests to the
// PromptShield API. The client never inspects its contents.
type Credential string

// String returns the raw key.
func (c Credential) String() string {
	return string(c)
}

// IsEmpty reports whether no key is set.
func (c Credential) IsEmpty() bool {
	return c == ""
}

// Masked returns a shortened form of the key that is safe to show in the UI
// and in logs.
func (c Credential) Masked() string {
	s := string(c)
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "…" + s[len(s)-4:]
}

// Profile is the snapshot returned by GET /api/v1/auth/me.
//
// It is a UI convenience only. Authorization is always decided by the
// [Credential] sent with each request, never by the fields below.
type Profile struct {
	// Email is the account e-mail address.
	Email string `json:"email"`

	// Tier is the account tier, e.g. "free" or "pro".
	Tier string `json:"tier"`

	// UsageCount is the number of requests consumed in the current period.
	UsageCount int `json:"usage_count"`

	// MaxUsage is the request quota of the current period.
	MaxUsage int `json:"max_usage"`

	// IsVerified reports whether the e-mail address has been confirmed.
	IsVerified bool `json:"is_verified"`

	// SubscriptionPlan is the active plan name, "free" when none.
	SubscriptionPlan string `json:"subscription_plan"`
}

// IsFree reports whether the account is on the free tier and may upgrade.
func (p Profile) IsFree() bool {
	return p.Tier == "free"
}

// QuotaExhausted reports whether the usage counter reached the quota.
func (p Profile) QuotaExhausted() bool {
	return p.MaxUsage > 0 && p.UsageCount >= p.MaxUsage
}

// Credentials is the request body of the login and signup endpoints.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest is the request body of POST /api/v1/auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest is the request body of POST /api/v1/auth/reset-password.
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// ChangePasswordRequest is the request body of POST /api/v1/auth/change-password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}
