package service

import (
	"context"
	"strings"
	"sync"

	"github.com/MKhiriev/prompt-shield/internal/adapter"
	"github.com/MKhiriev/prompt-shield/internal/logger"
	"github.com/MKhiriev/prompt-shield/internal/session"
	"github.com/MKhiriev/prompt-shield/internal/validators"
	"github.com/MKhiriev/prompt-shield/models"
)

// TransactionReferenceLength is the length of a UPI transaction reference.
const TransactionReferenceLength = 12

const (
	msgCreatePaymentFailed  = "Failed to initialize payment. Please try again."
	msgConfirmPaymentFailed = "Payment verification failed. If you paid, please contact support."
)

var planCatalogue = []models.PlanOffer{
	{
		ID:       models.PlanMonthly,
		Name:     "Pro Monthly",
		Price:    "₹99",
		Period:   "/ month",
		Features: []string{"1,000 Requests", "Priority Support", "Advanced Analytics"},
	},
	{
		ID:          models.PlanYearly,
		Name:        "Pro Yearly",
		Price:       "₹999",
		Period:      "/ year",
		Features:    []string{"14,400 Requests", "Priority Support", "Advanced Analytics", "Save ₹200/year"},
		Recommended: true,
	},
	{
		ID:       models.PlanTopUp,
		Name:     "Top-Up Credits",
		Price:    "₹19",
		Period:   "one-time",
		Features: []string{"200 Requests", "Adds to your existing plan"},
	},
}

// Plans returns the purchasable plans in display order.
func Plans() []models.PlanOffer {
	out := make([]models.PlanOffer, len(planCatalogue))
	copy(out, planCatalogue)
	return out
}

// PaymentFlowState is a snapshot of a [PaymentFlow].
type PaymentFlowState struct {
	Step   models.PaymentStep
	Plan   models.Plan
	Intent *models.PaymentIntent

	// Reference is the sanitized transaction reference typed so far.
	Reference string
	Error     string

	Submitting bool
	// CanConfirm reports whether the confirm action is enabled.
	CanConfirm bool
}

// PaymentFlow drives plan selection and UPI payment confirmation:
// select → pay → confirm | pending, with pay → select as the way back.
// confirm and pending are terminal; a pending payment is never polled.
type PaymentFlow struct {
	mu        sync.Mutex
	step      models.PaymentStep
	plan      models.Plan
	intent    *models.PaymentIntent
	reference string
	errMsg    string
	sub       submission

	session   *session.Store
	adapter   adapter.ServerAdapter
	validator validators.Validator
	logger    *logger.Logger
}

func NewPaymentFlow(sess *session.Store, serverAdapter adapter.ServerAdapter, validator validators.Validator, logger *logger.Logger) *PaymentFlow {
	return &PaymentFlow{
		step:      models.PaymentStepSelect,
		session:   sess,
		adapter:   serverAdapter,
		validator: validator,
		logger:    logger,
	}
}

func (f *PaymentFlow) State() PaymentFlowState {
	f.mu.Lock()
	defer f.mu.Unlock()

	st := PaymentFlowState{
		Step:       f.step,
		Plan:       f.plan,
		Reference:  f.reference,
		Error:      f.errMsg,
		Submitting: f.sub.busy,
		CanConfirm: f.canConfirmLocked(),
	}
	if f.intent != nil {
		intent := *f.intent
		st.Intent = &intent
	}
	return st
}

// SelectPlan creates a payment intent for plan and moves to pay. On failure
// the flow stays on select and the selection can be retried.
func (f *PaymentFlow) SelectPlan(ctx context.Context, plan models.Plan) error {
	if !plan.Valid() {
		return ErrUnknownPlan
	}
	key := f.session.Credential()

	f.mu.Lock()
	if f.step != models.PaymentStepSelect {
		f.mu.Unlock()
		return ErrInvalidTransition
	}
	if f.sub.busy {
		f.mu.Unlock()
		return ErrSubmissionInProgress
	}
	f.errMsg = ""
	if key.IsEmpty() {
		f.errMsg = ErrAPIKeyRequired.Error()
		f.mu.Unlock()
		return ErrAPIKeyRequired
	}
	f.plan = plan
	gen, _ := f.sub.start()
	f.mu.Unlock()

	intent, err := f.adapter.CreatePayment(ctx, key, models.CreatePaymentRequest{Plan: plan})
	if err != nil {
		f.session.InvalidateOnAuthError(ctx, key, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.sub.finish(gen) {
		return ErrStaleResult
	}
	if err != nil {
		f.logger.Debug().Err(err).Str("func", "PaymentFlow.SelectPlan").Str("plan", string(plan)).Msg("create payment failed")
		ue := newUserError(err, msgCreatePaymentFailed)
		f.errMsg = ue.Message
		return ue
	}

	f.intent = &intent
	f.reference = ""
	f.step = models.PaymentStepPay
	return nil
}

// SetReference stores raw keeping digits only, truncated to 12 characters,
// and returns the stored value.
func (f *PaymentFlow) SetReference(raw string) string {
	ref := SanitizeReference(raw)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.reference = ref
	return ref
}

// SanitizeReference keeps the digits of raw, up to 12 of them.
func SanitizeReference(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if b.Len() == TransactionReferenceLength {
			break
		}
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CanConfirm reports whether ConfirmPayment would be sent: the flow is on
// pay, idle, and the reference has exactly 12 digits.
func (f *PaymentFlow) CanConfirm() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.canConfirmLocked()
}

func (f *PaymentFlow) canConfirmLocked() bool {
	if f.step != models.PaymentStepPay || f.intent == nil || f.sub.busy {
		return false
	}
	return f.validator.Validate(context.Background(), models.PaymentReferenceForm{Reference: f.reference}) == nil
}

// ConfirmPayment submits the stored reference.
//
// A confirmed payment clears the intent, moves to confirm and hands a
// rotated key, if any, to the session. A pending one clears the intent and
// moves to pending without touching the key. Errors keep the flow on pay
// with the reference intact.
func (f *PaymentFlow) ConfirmPayment(ctx context.Context) error {
	key := f.session.Credential()

	f.mu.Lock()
	if f.step != models.PaymentStepPay || f.intent == nil {
		f.mu.Unlock()
		return ErrInvalidTransition
	}
	if f.sub.busy {
		f.mu.Unlock()
		return ErrSubmissionInProgress
	}
	f.errMsg = ""
	if err := f.validator.Validate(ctx, models.PaymentReferenceForm{Reference: f.reference}); err != nil {
		f.errMsg = err.Error()
		f.mu.Unlock()
		return err
	}
	if key.IsEmpty() {
		f.errMsg = ErrAPIKeyRequired.Error()
		f.mu.Unlock()
		return ErrAPIKeyRequired
	}
	req := models.ConfirmPaymentRequest{
		Plan:                 f.plan,
		TransactionReference: f.reference,
		PaymentID:            f.intent.PaymentID,
	}
	gen, _ := f.sub.start()
	f.mu.Unlock()

	outcome, err := f.adapter.ConfirmPayment(ctx, key, req)
	if err != nil {
		f.session.InvalidateOnAuthError(ctx, key, err)
	}

	f.mu.Lock()
	if !f.sub.current(gen) {
		f.mu.Unlock()
		return ErrStaleResult
	}
	if err != nil {
		f.sub.finish(gen)
		ue := newUserError(err, msgConfirmPaymentFailed)
		f.errMsg = ue.Message
		f.mu.Unlock()
		return ue
	}

	var newKey models.Credential
	switch o := outcome.(type) {
	case models.PaymentPending:
		f.step = models.PaymentStepPending
	case models.PaymentConfirmed:
		f.step = models.PaymentStepConfirm
		newKey = o.NewCredential
	default:
		f.sub.finish(gen)
		f.mu.Unlock()
		return ErrInvalidTransition
	}
	f.intent = nil
	f.sub.finish(gen)
	step := f.step
	f.mu.Unlock()

	f.logger.Info().Str("func", "PaymentFlow.ConfirmPayment").Str("plan", string(req.Plan)).Str("step", step.String()).Msg("payment submitted")

	if step != models.PaymentStepConfirm {
		return nil
	}
	if !newKey.IsEmpty() {
		if err = f.session.SetCredential(ctx, newKey); err != nil {
			return newUserError(err, msgSomethingFailed)
		}
		return nil
	}
	// upgraded in place: show the new tier
	if _, err = f.session.RefreshProfile(ctx); err != nil {
		f.logger.Warn().Err(err).Str("func", "PaymentFlow.ConfirmPayment").Msg("profile refresh after payment failed")
	}
	return nil
}

// Back returns from pay to select, dropping the intent and any response
// still in flight.
func (f *PaymentFlow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != models.PaymentStepPay {
		return ErrInvalidTransition
	}
	f.step = models.PaymentStepSelect
	f.intent = nil
	f.reference = ""
	f.errMsg = ""
	f.sub.invalidate()
	return nil
}

// Close ends the flow from any step. The flow can be reopened from select.
func (f *PaymentFlow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.step = models.PaymentStepSelect
	f.plan = ""
	f.intent = nil
	f.reference = ""
	f.errMsg = ""
	f.sub.invalidate()
}
