package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/prompt-shield/internal/service"
	"github.com/MKhiriev/prompt-shield/models"
)

// SubscriptionModel walks through plan selection and UPI payment.
type SubscriptionModel struct {
	ctx     context.Context
	newFlow func() *service.PaymentFlow
	flow    *service.PaymentFlow

	plans     []models.PlanOffer
	idx       int
	reference textinput.Model
	status    string
	errMsg    string
}

func NewSubscriptionModel(ctx context.Context, newFlow func() *service.PaymentFlow) *SubscriptionModel {
	ref := textinput.New()
	ref.Placeholder = "12-digit UPI transaction reference"
	ref.CharLimit = 32
	ref.Width = 20

	return &SubscriptionModel{
		ctx:       ctx,
		newFlow:   newFlow,
		flow:      newFlow(),
		plans:     service.Plans(),
		reference: ref,
	}
}

func (m *SubscriptionModel) Init() tea.Cmd {
	m.flow.Close()
	m.flow = m.newFlow()
	m.idx = 0
	m.status = ""
	m.errMsg = ""
	m.reference.Reset()
	m.reference.Blur()
	return nil
}

func (m *SubscriptionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case flowDoneMsg:
		if msg.page != pageSubscription {
			return m, nil
		}
		if m.flow.State().Step == models.PaymentStepPay {
			m.reference.Focus()
		}
		return m, nil
	case copiedMsg:
		m.status = "Copied " + msg.what + "!"
		return m, cmdClearStatus()
	case copyFailedMsg:
		m.errMsg = msg.err.Error()
		return m, nil
	case clearStatusMsg:
		m.status = ""
		return m, nil
	case tea.KeyMsg:
		switch m.flow.State().Step {
		case models.PaymentStepSelect:
			return m.updateSelect(msg)
		case models.PaymentStepPay:
			return m.updatePay(msg)
		default:
			if key.Matches(msg, keys.enter) || key.Matches(msg, keys.esc) {
				m.flow.Close()
				return m, navigate(pageMenu)
			}
		}
	}
	return m, nil
}

func (m *SubscriptionModel) updateSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.flow.Close()
		return m, navigate(pageMenu)
	case key.Matches(msg, keys.up):
		if m.idx > 0 {
			m.idx--
		}
	case key.Matches(msg, keys.down):
		if m.idx < len(m.plans)-1 {
			m.idx++
		}
	case key.Matches(msg, keys.enter):
		if m.flow.State().Submitting {
			return m, nil
		}
		return m, m.cmdSelect(m.plans[m.idx].ID)
	}
	return m, nil
}

func (m *SubscriptionModel) updatePay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		_ = m.flow.Back()
		m.reference.Reset()
		m.reference.Blur()
		return m, nil
	case key.Matches(msg, keys.copyUPI):
		st := m.flow.State()
		if st.Intent == nil || st.Intent.UPIID == "" {
			return m, nil
		}
		return m, cmdCopyToClipboard("UPI ID", st.Intent.UPIID)
	case key.Matches(msg, keys.enter):
		if !m.flow.CanConfirm() {
			return m, nil
		}
		return m, m.cmdConfirm()
	}

	var cmd tea.Cmd
	m.reference, cmd = m.reference.Update(msg)
	m.reference.SetValue(m.flow.SetReference(m.reference.Value()))
	m.reference.CursorEnd()
	return m, cmd
}

func (m *SubscriptionModel) View() string {
	st := m.flow.State()

	var (
		title   string
		body    string
		hotKeys string
	)
	switch st.Step {
	case models.PaymentStepSelect:
		title, body, hotKeys = "UPGRADE PLAN", m.viewSelect(), "enter: choose plan │ ↑/↓: navigate │ esc: back"
	case models.PaymentStepPay:
		title, body, hotKeys = "PAY WITH UPI", m.viewPay(st), "enter: confirm payment │ ctrl+u: copy UPI ID │ esc: choose another plan"
	case models.PaymentStepConfirm:
		title, body, hotKeys = "PAYMENT SUCCESSFUL", "Payment successful! Your plan has been upgraded.", "enter/esc: done"
	case models.PaymentStepPending:
		title, body, hotKeys = "PAYMENT SUBMITTED",
			"Your payment was submitted for verification.\nYour plan will be upgraded once the payment is confirmed.",
			"enter/esc: done"
	}

	var b strings.Builder
	b.WriteString(body)
	b.WriteString("\n")
	if st.Submitting {
		b.WriteString("\n[Processing...]\n")
	}
	writeFeedback(&b, m.status, firstNonEmpty(m.errMsg, st.Error))

	return renderPage(title, strings.TrimRight(b.String(), "\n"), hotKeys)
}

func (m *SubscriptionModel) viewSelect() string {
	var b strings.Builder
	for i, p := range m.plans {
		cursor := " "
		if i == m.idx {
			cursor = ">"
		}
		fmt.Fprintf(&b, "%s %-15s %6s %-9s", cursor, p.Name, p.Price, p.Period)
		if p.Recommended {
			b.WriteString(" ★ recommended")
		}
		b.WriteString("\n")
		for _, f := range p.Features {
			b.WriteString("      · ")
			b.WriteString(f)
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *SubscriptionModel) viewPay(st service.PaymentFlowState) string {
	var b strings.Builder
	if st.Intent != nil {
		fmt.Fprintf(&b, "Amount: ₹%.2f\n", st.Intent.Amount)
		if st.Intent.UPIID != "" {
			fmt.Fprintf(&b, "UPI ID: %s\n", st.Intent.UPIID)
		}
		b.WriteString("\nScan with any UPI app:\n\n")
		if qr, err := renderQR(st.Intent.UPIURL); err == nil {
			b.WriteString(qr)
		} else {
			b.WriteString(st.Intent.UPIURL)
		}
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "Transaction reference │ [%s] %d/%d\n", m.reference.View(), len(st.Reference), service.TransactionReferenceLength)
	if st.CanConfirm {
		b.WriteString("\n[Confirm payment]")
	} else {
		b.WriteString("\n[Enter all 12 digits to confirm]")
	}
	return b.String()
}

func (m *SubscriptionModel) cmdSelect(plan models.Plan) tea.Cmd {
	ctx := m.ctx
	flow := m.flow
	return func() tea.Msg {
		err := flow.SelectPlan(ctx, plan)
		if errors.Is(err, service.ErrStaleResult) {
			return nil
		}
		return flowDoneMsg{page: pageSubscription, err: err}
	}
}

func (m *SubscriptionModel) cmdConfirm() tea.Cmd {
	ctx := m.ctx
	flow := m.flow
	return func() tea.Msg {
		err := flow.ConfirmPayment(ctx)
		if errors.Is(err, service.ErrStaleResult) {
			return nil
		}
		return flowDoneMsg{page: pageSubscription, err: err}
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
