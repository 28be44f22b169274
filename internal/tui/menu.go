package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MKhiriev/prompt-shield/internal/service"
	"github.com/MKhiriev/prompt-shield/internal/session"
)

const cookieBanner = "We use cookies to improve your experience.\nWe use cookies to analyze traffic and personalize content."

type menuItem struct {
	label string
	page  string
	// action runs instead of navigating when set.
	action func(m *MenuModel) tea.Cmd
}

// MenuModel is the home page. Its entries depend on whether a key is held.
type MenuModel struct {
	ctx     context.Context
	session *session.Store
	account service.ClientAccountService
	consent service.ClientConsentService

	idx           int
	status        string
	errMsg        string
	consentLoaded bool
	consented     bool
}

func NewMenuModel(ctx context.Context, sess *session.Store, account service.ClientAccountService, consent service.ClientConsentService) *MenuModel {
	return &MenuModel{
		ctx:     ctx,
		session: sess,
		account: account,
		consent: consent,
	}
}

func (m *MenuModel) items() []menuItem {
	if !m.session.IsAuthenticated() {
		return []menuItem{
			{label: "Playground", page: pagePlayground},
			{label: "Login / Sign up", page: pageAuth},
			{label: "History", page: pageHistory},
			{label: "Quit", action: func(*MenuModel) tea.Cmd { return tea.Quit }},
		}
	}
	return []menuItem{
		{label: "Playground", page: pagePlayground},
		{label: "Account", page: pageAccount},
		{label: "Upgrade plan", page: pageSubscription},
		{label: "History & analytics", page: pageHistory},
		{label: "Change password", page: pageChangePassword},
		{label: "Logout", action: (*MenuModel).cmdLogout},
		{label: "Quit", action: func(*MenuModel) tea.Cmd { return tea.Quit }},
	}
}

func (m *MenuModel) Init() tea.Cmd {
	m.errMsg = ""
	if m.idx >= len(m.items()) {
		m.idx = 0
	}
	if m.consentLoaded {
		return nil
	}
	return m.cmdLoadConsent()
}

func (m *MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusNotice:
		m.status = msg.text
		return m, nil
	case consentLoadedMsg:
		m.consentLoaded = true
		if msg.err != nil {
			m.errMsg = service.ErrorMessage(msg.err)
			return m, nil
		}
		m.consented = msg.accepted
		return m, nil
	case loggedOutMsg:
		m.idx = 0
		if msg.err != nil {
			m.errMsg = service.ErrorMessage(msg.err)
			return m, nil
		}
		m.status = "Logged out"
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	items := m.items()
	switch {
	case key.Matches(keyMsg, keys.up):
		if m.idx > 0 {
			m.idx--
		}
	case key.Matches(keyMsg, keys.down):
		if m.idx < len(items)-1 {
			m.idx++
		}
	case key.Matches(keyMsg, keys.accept):
		if m.consentLoaded && !m.consented {
			m.consented = true
			return m, m.cmdAcceptConsent()
		}
	case key.Matches(keyMsg, keys.quit):
		return m, tea.Quit
	case key.Matches(keyMsg, keys.enter):
		if m.idx >= len(items) {
			return m, nil
		}
		m.status = ""
		m.errMsg = ""
		item := items[m.idx]
		if item.action != nil {
			return m, item.action(m)
		}
		return m, navigate(item.page)
	}

	return m, nil
}

func (m *MenuModel) View() string {
	var b strings.Builder

	if profile, ok := m.session.Profile(); ok {
		fmt.Fprintf(&b, "Signed in as %s (%s, %d/%d requests)\n\n", profile.Email, profile.Tier, profile.UsageCount, profile.MaxUsage)
	} else if m.session.IsAuthenticated() {
		fmt.Fprintf(&b, "Signed in with key %s\n\n", m.session.Credential().Masked())
	} else {
		b.WriteString("Not signed in\n\n")
	}

	items := m.items()
	idColWidth := lipgloss.Width(fmt.Sprintf("%d", len(items))) + 2
	actionColWidth := lipgloss.Width("Action")
	for _, item := range items {
		if w := lipgloss.Width(item.label); w > actionColWidth {
			actionColWidth = w
		}
	}

	fmt.Fprintf(&b, "%-*s │ %-*s\n", idColWidth, "ID", actionColWidth, "Action")
	b.WriteString(strings.Repeat("─", idColWidth))
	b.WriteString("─┼─")
	b.WriteString(strings.Repeat("─", actionColWidth))
	b.WriteString("\n")

	for i, item := range items {
		cursor := " "
		if i == m.idx {
			cursor = ">"
		}
		idCell := fmt.Sprintf("%s %d", cursor, i+1)
		fmt.Fprintf(&b, "%-*s │ %-*s\n", idColWidth, idCell, actionColWidth, item.label)
	}

	writeFeedback(&b, m.status, m.errMsg)

	hotKeys := "enter: select │ ↑/↓: navigate │ v: version │ q: quit"
	if m.consentLoaded && !m.consented {
		b.WriteString("\n")
		b.WriteString(overlayBoxStyle.Render(cookieBanner + "\n\na: accept"))
		hotKeys += " │ a: accept cookies"
	}

	return renderPage("PROMPTSHIELD", strings.TrimRight(b.String(), "\n"), hotKeys)
}

func (m *MenuModel) cmdLoadConsent() tea.Cmd {
	ctx := m.ctx
	consent := m.consent
	return func() tea.Msg {
		accepted, err := consent.Accepted(ctx)
		return consentLoadedMsg{accepted: accepted, err: err}
	}
}

func (m *MenuModel) cmdAcceptConsent() tea.Cmd {
	ctx := m.ctx
	consent := m.consent
	return func() tea.Msg {
		if err := consent.Accept(ctx); err != nil {
			return consentLoadedMsg{accepted: false, err: err}
		}
		return consentLoadedMsg{accepted: true}
	}
}

func (m *MenuModel) cmdLogout() tea.Cmd {
	ctx := m.ctx
	account := m.account
	return func() tea.Msg {
		return loggedOutMsg{err: account.Logout(ctx)}
	}
}
