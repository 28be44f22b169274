// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/prompt-shield/internal/service"
	"github.com/MKhiriev/prompt-shield/models"
)

const (
	authEmail = iota
	authPassword
	authCode
)

// AuthModel renders an [service.AuthFlow]: login, signup, verify and forgot
// share one page and one set of inputs.
type AuthModel struct {
	ctx     context.Context
	newFlow func() *service.AuthFlow
	flow    *service.AuthFlow

	inputs      []textinput.Model
	focus       int
	acceptTerms bool
}

// NewAuthModel creates the page. newFlow is called on every visit so each
// visit starts on a fresh login view.
func NewAuthModel(ctx context.Context, newFlow func() *service.AuthFlow) *AuthModel {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 254
	email.Width = 40

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 256
	password.Width = 40
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	code := textinput.New()
	code.Placeholder = "verification code"
	code.CharLimit = 16
	code.Width = 20

	return &AuthModel{
		ctx:     ctx,
		newFlow: newFlow,
		flow:    newFlow(),
		inputs:  []textinput.Model{email, password, code},
	}
}

func (m *AuthModel) Init() tea.Cmd {
	m.flow = m.newFlow()
	for i := range m.inputs {
		m.inputs[i].Reset()
	}
	m.acceptTerms = false
	m.focusFirst()
	return textinput.Blink
}

// visible lists the inputs of the current view in focus order.
func (m *AuthModel) visible() []int {
	switch m.flow.State().View {
	case models.AuthViewVerify:
		return []int{authCode}
	case models.AuthViewForgot:
		return []int{authEmail}
	default:
		return []int{authEmail, authPassword}
	}
}

func (m *AuthModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if done, ok := msg.(flowDoneMsg); ok {
		if done.page != pageAuth {
			return m, nil
		}
		st := m.flow.State()
		if st.Done {
			return m, navigateWithNotice(pageMenu, "Logged in")
		}
		if st.View == models.AuthViewVerify {
			m.focusFirst()
		}
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		view := m.flow.State().View
		switch {
		case key.Matches(keyMsg, keys.esc):
			if view == models.AuthViewLogin {
				return m, navigate(pageMenu)
			}
			_ = m.flow.ShowLogin()
			m.focusFirst()
			return m, nil
		case key.Matches(keyMsg, keys.signup):
			if m.flow.ShowSignup() == nil {
				m.focusFirst()
			}
			return m, nil
		case key.Matches(keyMsg, keys.forgot):
			if m.flow.ShowForgot() == nil {
				m.focusFirst()
			}
			return m, nil
		case key.Matches(keyMsg, keys.terms):
			if view == models.AuthViewSignup {
				m.acceptTerms = !m.acceptTerms
			}
			return m, nil
		case key.Matches(keyMsg, keys.tab):
			m.moveFocus(1)
			return m, nil
		case key.Matches(keyMsg, keys.backtab):
			m.moveFocus(-1)
			return m, nil
		case key.Matches(keyMsg, keys.enter):
			if m.flow.State().Submitting {
				return m, nil
			}
			return m, m.cmdSubmit(view)
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *AuthModel) View() string {
	st := m.flow.State()

	var b strings.Builder
	b.WriteString("Field    │ Value\n")
	b.WriteString("─────────┼────────────────────────────────────────────\n")
	for _, i := range m.visible() {
		b.WriteString(authLabel(i))
		b.WriteString(" │ [")
		b.WriteString(m.inputs[i].View())
		b.WriteString("]\n")
	}
	if st.View == models.AuthViewSignup {
		b.WriteString("\n")
		b.WriteString(checkbox(m.acceptTerms))
		b.WriteString(" I accept the Terms of Service and Privacy Policy (ctrl+t)\n")
	}

	b.WriteString("\n[")
	b.WriteString(authAction(st.View))
	if st.Submitting {
		b.WriteString("...")
	}
	b.WriteString("]\n")

	writeFeedback(&b, st.Message, st.Error)

	return renderPage(authTitle(st.View), strings.TrimRight(b.String(), "\n"), authHotKeys(st.View))
}

func (m *AuthModel) cmdSubmit(view models.AuthView) tea.Cmd {
	ctx := m.ctx
	flow := m.flow
	email := strings.TrimSpace(m.inputs[authEmail].Value())
	password := m.inputs[authPassword].Value()
	code := strings.TrimSpace(m.inputs[authCode].Value())
	acceptTerms := m.acceptTerms

	return func() tea.Msg {
		var err error
		switch view {
		case models.AuthViewLogin:
			err = flow.Login(ctx, email, password)
		case models.AuthViewSignup:
			err = flow.Signup(ctx, email, password, acceptTerms)
		case models.AuthViewVerify:
			err = flow.Verify(ctx, code)
		case models.AuthViewForgot:
			err = flow.ForgotPassword(ctx, email)
		}
		if errors.Is(err, service.ErrStaleResult) {
			return nil
		}
		return flowDoneMsg{page: pageAuth, err: err}
	}
}

func (m *AuthModel) focusFirst() {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.focus = m.visible()[0]
	m.inputs[m.focus].Focus()
}

func (m *AuthModel) moveFocus(step int) {
	order := m.visible()
	pos := 0
	for i, idx := range order {
		if idx == m.focus {
			pos = i
		}
	}
	m.inputs[m.focus].Blur()
	m.focus = order[(pos+step+len(order))%len(order)]
	m.inputs[m.focus].Focus()
}

func authLabel(input int) string {
	switch input {
	case authEmail:
		return "Email   "
	case authPassword:
		return "Password"
	default:
		return "Code    "
	}
}

func authTitle(view models.AuthView) string {
	switch view {
	case models.AuthViewSignup:
		return "SIGN UP"
	case models.AuthViewVerify:
		return "VERIFY EMAIL"
	case models.AuthViewForgot:
		return "FORGOT PASSWORD"
	default:
		return "LOGIN"
	}
}

func authAction(view models.AuthView) string {
	switch view {
	case models.AuthViewSignup:
		return "Create account"
	case models.AuthViewVerify:
		return "Verify"
	case models.AuthViewForgot:
		return "Send reset link"
	default:
		return "Login"
	}
}

func authHotKeys(view models.AuthView) string {
	switch view {
	case models.AuthViewLogin:
		return "enter: login │ tab: next field │ ctrl+n: sign up │ ctrl+f: forgot password │ esc: back"
	case models.AuthViewSignup:
		return "enter: sign up │ tab: next field │ ctrl+t: accept terms │ esc: to login"
	default:
		return "enter: submit │ esc: to login"
	}
}
