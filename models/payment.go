package models

// Plan identifies a purchasable subscription plan.
type Plan string

const (
	PlanMonthly Plan = "monthly"
	PlanYearly  Plan = "yearly"
	PlanTopUp   Plan = "topup"
)

// Valid reports whether p is one of the known plans.
func (p Plan) Valid() bool {
	switch p {
	case PlanMonthly, PlanYearly, PlanTopUp:
		return true
	}
	return false
}

// PlanOffer describes a plan as it is presented on the selection screen.
type PlanOffer struct {
	ID          Plan
	Name        string
	Price       string
	Period      string
	Features    []string
	Recommended bool
}

// PaymentStep is the step of the subscription flow.
type PaymentStep int

const (
	PaymentStepSelect PaymentStep = iota
	PaymentStepPay
	PaymentStepConfirm
	PaymentStepPending
)

// String returns the lowercase step name.
func (s PaymentStep) String() string {
	switch s {
	case PaymentStepSelect:
		return "select"
	case PaymentStepPay:
		return "pay"
	case PaymentStepConfirm:
		return "confirm"
	case PaymentStepPending:
		return "pending"
	default:
		return "unknown"
	}
}

// CreatePaymentRequest is the request body of POST /api/v1/payment/create.
type CreatePaymentRequest struct {
	Plan Plan `json:"plan"`
}

// PaymentIntent is the server-issued payment order awaiting a transaction
// reference from the user.
type PaymentIntent struct {
	// QRCodeBase64 is a PNG rendering of the payment code.
	QRCodeBase64 string `json:"qr_code_base64"`

	// Amount is the amount to pay, in rupees.
	Amount float64 `json:"amount"`

	// UPIURL is the upi:// deep link encoded in the QR code.
	UPIURL string `json:"upi_url"`

	// UPIID is the optional human-readable payee handle.
	UPIID string `json:"upi_id,omitempty"`

	// PaymentID is the optional server order id echoed back on confirm.
	PaymentID *int64 `json:"payment_id,omitempty"`
}

// ConfirmPaymentRequest is the request body of POST /api/v1/payment/confirm.
type ConfirmPaymentRequest struct {
	Plan                 Plan   `json:"plan"`
	TransactionReference string `json:"transaction_reference"`
	PaymentID            *int64 `json:"payment_id,omitempty"`
}

// PaymentStatusPendingVerification is the status value the server returns
// when a payment needs manual review.
const PaymentStatusPendingVerification = "pending_verification"

// ConfirmPaymentResponse is the raw body of a successful confirm call. Use
// [ConfirmPaymentResponse.Outcome] to turn it into a [PaymentOutcome].
type ConfirmPaymentResponse struct {
	Status    string `json:"status,omitempty"`
	NewAPIKey string `json:"new_api_key,omitempty"`
}

// Outcome classifies the response.
func (r ConfirmPaymentResponse) Outcome() PaymentOutcome {
	if r.Status == PaymentStatusPendingVerification {
		return PaymentPending{}
	}
	return PaymentConfirmed{NewCredential: Credential(r.NewAPIKey)}
}

// PaymentOutcome is the result of a payment confirmation: either
// [PaymentConfirmed] or [PaymentPending].
type PaymentOutcome interface {
	paymentOutcome()
}

// PaymentConfirmed means the payment was accepted immediately. The plan
// upgrade may rotate the key; NewCredential is empty when it did not.
type PaymentConfirmed struct {
	NewCredential Credential
}

// PaymentPending means the payment awaits manual verification. No new key is
// issued.
type PaymentPending struct{}

func (PaymentConfirmed) paymentOutcome() {}
func (PaymentPending) paymentOutcome()   {}
