package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/prompt-shield/internal/service"
	"github.com/MKhiriev/prompt-shield/models"
)

const (
	pageMenu           = "menu"
	pageAuth           = "auth"
	pagePlayground     = "playground"
	pageAccount        = "account"
	pageSubscription   = "subscription"
	pageHistory        = "history"
	pageChangePassword = "change-password"
	pageResetPassword  = "reset-password"
)

// NavigateTo switches the active page. Payload, when set, is delivered to
// the new page right after its Init.
type NavigateTo struct {
	Page    string
	Payload tea.Msg
}

// statusNotice is a one-line confirmation shown by the receiving page.
type statusNotice struct {
	text string
}

// flowDoneMsg reports that a flow submit of page returned. Pages re-read
// the flow state; err is already phrased for the user.
type flowDoneMsg struct {
	page string
	err  error
}

type playgroundDoneMsg struct {
	result service.PlaygroundResult
	err    error
}

type historyLoadedMsg struct {
	rows []models.ActivityRow
	err  error
}

type dashboardLoadedMsg struct {
	dashboard models.Dashboard
	err       error
}

type profileLoadedMsg struct {
	profile models.Profile
	err     error
}

type keyRotatedMsg struct {
	key models.Credential
	err error
}

type consentLoadedMsg struct {
	accepted bool
	err      error
}

type loggedOutMsg struct {
	err error
}

type copiedMsg struct {
	what string
}

type copyFailedMsg struct {
	err error
}

type clearStatusMsg struct{}

func navigate(page string) tea.Cmd {
	return func() tea.Msg { return NavigateTo{Page: page} }
}

func navigateWithNotice(page, text string) tea.Cmd {
	return func() tea.Msg { return NavigateTo{Page: page, Payload: statusNotice{text: text}} }
}
