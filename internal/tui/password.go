package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/prompt-shield/internal/service"
)

// closeFlowMsg is scheduled after a successful password flow; gen ties it
// to the flow instance that scheduled it.
type closeFlowMsg struct {
	page string
	gen  int
}

func newPasswordInput(placeholder string) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 256
	in.Width = 40
	in.EchoMode = textinput.EchoPassword
	in.EchoCharacter = '*'
	return in
}

// passwordForm is the input handling shared by both password pages.
type passwordForm struct {
	inputs []textinput.Model
	focus  int
}

func (f *passwordForm) reset() {
	for i := range f.inputs {
		f.inputs[i].Reset()
		f.inputs[i].Blur()
	}
	f.focus = 0
	f.inputs[0].Focus()
}

func (f *passwordForm) move(step int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + step + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

func (f *passwordForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *passwordForm) render(b *strings.Builder, labels []string) {
	for i, label := range labels {
		b.WriteString(label)
		b.WriteString(" │ [")
		b.WriteString(f.inputs[i].View())
		b.WriteString("]\n")
	}
}

// ChangePasswordModel changes the password of the signed-in account and
// closes itself shortly after success.
type ChangePasswordModel struct {
	ctx     context.Context
	newFlow func() *service.ChangePasswordFlow
	flow    *service.ChangePasswordFlow
	gen     int

	form passwordForm
}

func NewChangePasswordModel(ctx context.Context, newFlow func() *service.ChangePasswordFlow) *ChangePasswordModel {
	return &ChangePasswordModel{
		ctx:     ctx,
		newFlow: newFlow,
		flow:    newFlow(),
		form: passwordForm{inputs: []textinput.Model{
			newPasswordInput("current password"),
			newPasswordInput("new password"),
			newPasswordInput("confirm new password"),
		}},
	}
}

func (m *ChangePasswordModel) Init() tea.Cmd {
	m.flow.Close()
	m.flow = m.newFlow()
	m.gen++
	m.form.reset()
	return textinput.Blink
}

func (m *ChangePasswordModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case flowDoneMsg:
		if msg.page != pageChangePassword {
			return m, nil
		}
		if st := m.flow.State(); st.Finished {
			gen := m.gen
			return m, tea.Tick(st.CloseAfter, func(time.Time) tea.Msg {
				return closeFlowMsg{page: pageChangePassword, gen: gen}
			})
		}
		return m, nil
	case closeFlowMsg:
		if msg.page == pageChangePassword && msg.gen == m.gen {
			return m, navigateWithNotice(pageMenu, "Password changed")
		}
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.esc):
			m.flow.Close()
			return m, navigate(pageMenu)
		case key.Matches(msg, keys.tab):
			m.form.move(1)
			return m, nil
		case key.Matches(msg, keys.backtab):
			m.form.move(-1)
			return m, nil
		case key.Matches(msg, keys.enter):
			if st := m.flow.State(); st.Submitting || st.Finished {
				return m, nil
			}
			return m, m.cmdSubmit()
		}
	}

	return m, m.form.update(msg)
}

func (m *ChangePasswordModel) View() string {
	st := m.flow.State()

	var b strings.Builder
	m.form.render(&b, []string{"Current password    ", "New password        ", "Confirm new password"})
	if st.Submitting {
		b.WriteString("\n[Changing...]\n")
	} else {
		b.WriteString("\n[Change password]\n")
	}
	writeFeedback(&b, st.Success, st.Error)

	return renderPage("CHANGE PASSWORD", strings.TrimRight(b.String(), "\n"), "enter: submit │ tab: next field │ esc: cancel")
}

func (m *ChangePasswordModel) cmdSubmit() tea.Cmd {
	ctx := m.ctx
	flow := m.flow
	oldPassword := m.form.inputs[0].Value()
	newPassword := m.form.inputs[1].Value()
	confirm := m.form.inputs[2].Value()

	return func() tea.Msg {
		err := flow.Submit(ctx, oldPassword, newPassword, confirm)
		if errors.Is(err, service.ErrStaleResult) {
			return nil
		}
		return flowDoneMsg{page: pageChangePassword, err: err}
	}
}

// ResetPasswordModel sets a new password from a reset token and returns
// home after success.
type ResetPasswordModel struct {
	ctx  context.Context
	flow *service.ResetPasswordFlow
	gen  int

	form passwordForm
}

func NewResetPasswordModel(ctx context.Context, flow *service.ResetPasswordFlow) *ResetPasswordModel {
	return &ResetPasswordModel{
		ctx:  ctx,
		flow: flow,
		form: passwordForm{inputs: []textinput.Model{
			newPasswordInput("new password"),
			newPasswordInput("confirm password"),
		}},
	}
}

func (m *ResetPasswordModel) Init() tea.Cmd {
	m.gen++
	m.form.reset()
	return textinput.Blink
}

func (m *ResetPasswordModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case flowDoneMsg:
		if msg.page != pageResetPassword {
			return m, nil
		}
		if st := m.flow.State(); st.Finished {
			gen := m.gen
			return m, tea.Tick(st.CloseAfter, func(time.Time) tea.Msg {
				return closeFlowMsg{page: pageResetPassword, gen: gen}
			})
		}
		return m, nil
	case closeFlowMsg:
		if msg.page == pageResetPassword && msg.gen == m.gen {
			return m, navigateWithNotice(pageMenu, "Password reset. You can now log in.")
		}
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.esc):
			m.flow.Close()
			return m, navigate(pageMenu)
		case key.Matches(msg, keys.tab):
			m.form.move(1)
			return m, nil
		case key.Matches(msg, keys.backtab):
			m.form.move(-1)
			return m, nil
		case key.Matches(msg, keys.enter):
			st := m.flow.State()
			if st.InvalidLink {
				return m, navigate(pageMenu)
			}
			if st.Submitting || st.Finished {
				return m, nil
			}
			return m, m.cmdSubmit()
		}
	}

	return m, m.form.update(msg)
}

func (m *ResetPasswordModel) View() string {
	st := m.flow.State()
	if st.InvalidLink {
		return renderPage("RESET PASSWORD", errorStyle.Render(st.Error), "enter/esc: home")
	}

	var b strings.Builder
	m.form.render(&b, []string{"New password    ", "Confirm password"})
	if st.Submitting {
		b.WriteString("\n[Resetting...]\n")
	} else {
		b.WriteString("\n[Reset password]\n")
	}
	if st.Finished {
		b.WriteString("\nRedirecting to home...\n")
	}
	writeFeedback(&b, st.Success, st.Error)

	return renderPage("RESET PASSWORD", strings.TrimRight(b.String(), "\n"), "enter: submit │ tab: next field │ esc: home")
}

func (m *ResetPasswordModel) cmdSubmit() tea.Cmd {
	ctx := m.ctx
	flow := m.flow
	newPassword := m.form.inputs[0].Value()
	confirm := m.form.inputs[1].Value()

	return func() tea.Msg {
		err := flow.Submit(ctx, newPassword, confirm)
		if errors.Is(err, service.ErrStaleResult) {
			return nil
		}
		return flowDoneMsg{page: pageResetPassword, err: err}
	}
}
