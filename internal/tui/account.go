package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/prompt-shield/internal/service"
	"github.com/MKhiriev/prompt-shield/internal/session"
	"github.com/MKhiriev/prompt-shield/models"
)

// AccountModel shows the profile and manages the API key.
type AccountModel struct {
	ctx     context.Context
	session *session.Store
	account service.ClientAccountService

	profile       *models.Profile
	loading       bool
	rotating      bool
	confirmRotate bool
	status        string
	errMsg        string
}

func NewAccountModel(ctx context.Context, sess *session.Store, account service.ClientAccountService) *AccountModel {
	return &AccountModel{ctx: ctx, session: sess, account: account}
}

func (m *AccountModel) Init() tea.Cmd {
	m.status = ""
	m.errMsg = ""
	m.confirmRotate = false
	if p, ok := m.session.Profile(); ok {
		m.profile = &p
	}
	m.loading = true
	return m.cmdLoadProfile()
}

func (m *AccountModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case profileLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = service.ErrorMessage(msg.err)
			return m, nil
		}
		p := msg.profile
		m.profile = &p
		return m, nil
	case keyRotatedMsg:
		m.rotating = false
		if msg.err != nil {
			m.errMsg = service.ErrorMessage(msg.err)
			return m, nil
		}
		m.status = "New API key generated. The old key no longer works."
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
		if m.confirmRotate {
			switch {
			case key.Matches(msg, keys.yes):
				m.confirmRotate = false
				m.rotating = true
				m.errMsg = ""
				return m, m.cmdRotate()
			case key.Matches(msg, keys.no, keys.esc):
				m.confirmRotate = false
			}
			return m, nil
		}
		switch {
		case key.Matches(msg, keys.esc):
			return m, navigate(pageMenu)
		case key.Matches(msg, keys.rotate):
			if !m.rotating && m.session.IsAuthenticated() {
				m.confirmRotate = true
			}
		case key.Matches(msg, keys.copyKey):
			if k := m.session.Credential(); !k.IsEmpty() {
				return m, cmdCopyToClipboard("API key", k.String())
			}
		}
	}
	return m, nil
}

func (m *AccountModel) View() string {
	var b strings.Builder

	if !m.session.IsAuthenticated() {
		b.WriteString("You are signed out.\n")
		writeFeedback(&b, "", m.errMsg)
		return renderPage("ACCOUNT", strings.TrimRight(b.String(), "\n"), "esc: back")
	}

	if m.profile != nil {
		p := m.profile
		fmt.Fprintf(&b, "Email     │ %s\n", valueOrDash(p.Email))
		fmt.Fprintf(&b, "Verified  │ %t\n", p.IsVerified)
		fmt.Fprintf(&b, "Tier      │ %s\n", valueOrDash(p.Tier))
		fmt.Fprintf(&b, "Plan      │ %s\n", valueOrDash(p.SubscriptionPlan))
		fmt.Fprintf(&b, "Usage     │ %d / %d requests\n", p.UsageCount, p.MaxUsage)
		if p.QuotaExhausted() {
			b.WriteString("\nYou have used your whole quota. Upgrade your plan to continue.\n")
		}
	} else if m.loading {
		b.WriteString("Loading...\n")
	}
	fmt.Fprintf(&b, "API key   │ %s\n", m.session.Credential().Masked())

	if m.confirmRotate {
		b.WriteString("\nGenerate a new API key? The current key stops working. (y/n)\n")
	}
	if m.rotating {
		b.WriteString("\n[Rotating...]\n")
	}
	writeFeedback(&b, m.status, m.errMsg)

	return renderPage("ACCOUNT", strings.TrimRight(b.String(), "\n"), "c: copy API key │ r: rotate key │ esc: back")
}

func (m *AccountModel) cmdLoadProfile() tea.Cmd {
	ctx := m.ctx
	account := m.account
	return func() tea.Msg {
		profile, err := account.Whoami(ctx)
		return profileLoadedMsg{profile: profile, err: err}
	}
}

func (m *AccountModel) cmdRotate() tea.Cmd {
	ctx := m.ctx
	account := m.account
	return func() tea.Msg {
		k, err := account.RotateKey(ctx)
		return keyRotatedMsg{key: k, err: err}
	}
}
