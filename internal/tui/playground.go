package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/prompt-shield/internal/service"
)

const (
	pgProvider = iota
	pgModel
	pgProviderKey
)

// PlaygroundModel sends prompts through the optimizer and, with a key, to
// the selected LLM.
type PlaygroundModel struct {
	ctx        context.Context
	playground *service.Playground
	snippets   service.ClientSnippetService

	prompt textarea.Model
	inputs []textinput.Model
	// focus is -1 for the prompt, else an index into inputs.
	focus int

	langIdx int
	result  *service.PlaygroundResult
	pending bool
	status  string
	errMsg  string
}

func NewPlaygroundModel(ctx context.Context, playground *service.Playground, snippets service.ClientSnippetService) *PlaygroundModel {
	prompt := textarea.New()
	prompt.Placeholder = "Enter your prompt here..."
	prompt.SetWidth(72)
	prompt.SetHeight(6)
	prompt.ShowLineNumbers = false

	defaults := playground.Defaults()

	provider := textinput.New()
	provider.Placeholder = "openai"
	provider.CharLimit = 32
	provider.Width = 20
	provider.SetValue(defaults.Provider)

	model := textinput.New()
	model.Placeholder = "gpt-4"
	model.CharLimit = 64
	model.Width = 30
	model.SetValue(defaults.Model)

	providerKey := textinput.New()
	providerKey.Placeholder = "optional, your own provider key"
	providerKey.CharLimit = 256
	providerKey.Width = 40
	providerKey.EchoMode = textinput.EchoPassword
	providerKey.EchoCharacter = '*'

	return &PlaygroundModel{
		ctx:        ctx,
		playground: playground,
		snippets:   snippets,
		prompt:     prompt,
		inputs:     []textinput.Model{provider, model, providerKey},
		focus:      -1,
	}
}

func (m *PlaygroundModel) Init() tea.Cmd {
	m.errMsg = ""
	m.status = ""
	m.setFocus(-1)
	return textarea.Blink
}

func (m *PlaygroundModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case playgroundDoneMsg:
		m.pending = false
		if msg.err != nil {
			m.errMsg = service.ErrorMessage(msg.err)
			return m, nil
		}
		res := msg.result
		m.result = &res
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
		switch {
		case key.Matches(msg, keys.esc):
			return m, navigate(pageMenu)
		case key.Matches(msg, keys.tab):
			m.setFocus(m.focus + 1)
			return m, nil
		case key.Matches(msg, keys.backtab):
			m.setFocus(m.focus - 1)
			return m, nil
		case key.Matches(msg, keys.optimize):
			return m, m.submit(false)
		case key.Matches(msg, keys.execute):
			return m, m.submit(true)
		case key.Matches(msg, keys.language):
			m.langIdx = (m.langIdx + 1) % len(service.SnippetLanguages)
			return m, nil
		case key.Matches(msg, keys.snippet):
			return m, m.cmdCopySnippet()
		}
	}

	var cmd tea.Cmd
	if m.focus < 0 {
		m.prompt, cmd = m.prompt.Update(msg)
	} else {
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	}
	return m, cmd
}

func (m *PlaygroundModel) View() string {
	var b strings.Builder

	b.WriteString("Prompt\n")
	b.WriteString(m.prompt.View())
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Provider     │ [%s]\n", m.inputs[pgProvider].View())
	fmt.Fprintf(&b, "Model        │ [%s]\n", m.inputs[pgModel].View())
	fmt.Fprintf(&b, "Provider key │ [%s]\n", m.inputs[pgProviderKey].View())

	if m.pending {
		b.WriteString("\n[Processing...]\n")
	}

	if m.result != nil {
		b.WriteString("\n")
		b.WriteString(renderPlaygroundResult(*m.result))
	}

	fmt.Fprintf(&b, "\nSnippet language: %s (ctrl+l to switch)\n", m.language())
	writeFeedback(&b, m.status, m.errMsg)

	return renderPage("PLAYGROUND", strings.TrimRight(b.String(), "\n"),
		"ctrl+o: optimize only │ ctrl+r: run │ ctrl+y: copy snippet │ tab: next field │ esc: back")
}

func renderPlaygroundResult(res service.PlaygroundResult) string {
	var b strings.Builder
	r := res.Response

	fmt.Fprintf(&b, "Provider: %s │ Model: %s\n", valueOrDash(r.Provider), valueOrDash(r.ModelName("")))
	fmt.Fprintf(&b, "Tokens: %d → %d (%d%% saved)\n", r.Tokens.RawTokens, r.Tokens.CompressedTokens, res.Metrics.SavingsPercent)
	if res.Metrics.PricePerMillion > 0 {
		fmt.Fprintf(&b, "Est. cost (approx.): %s → %s, saved %s\n",
			usd(res.Metrics.RawCost), usd(res.Metrics.CompressedCost), usd(res.Metrics.CostSaved))
	}
	if r.ConfidenceScore != nil {
		fmt.Fprintf(&b, "Confidence: %.2f\n", *r.ConfidenceScore)
	}
	b.WriteString("\nCompressed prompt:\n")
	b.WriteString(valueOrDash(r.CompressedText))
	b.WriteString("\n\nOutput:\n")
	b.WriteString(valueOrDash(r.Output))
	b.WriteString("\n")

	if len(r.Suggestions) > 0 {
		b.WriteString("\nSuggestions:\n")
		for _, s := range r.Suggestions {
			b.WriteString("  • ")
			b.WriteString(s)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *PlaygroundModel) submit(execute bool) tea.Cmd {
	if m.pending {
		return nil
	}
	m.errMsg = ""
	m.pending = true

	ctx := m.ctx
	pg := m.playground
	input := service.ExecuteInput{
		Text:        m.prompt.Value(),
		Provider:    strings.TrimSpace(m.inputs[pgProvider].Value()),
		Model:       strings.TrimSpace(m.inputs[pgModel].Value()),
		ProviderKey: m.inputs[pgProviderKey].Value(),
	}

	return func() tea.Msg {
		var (
			res service.PlaygroundResult
			err error
		)
		if execute {
			res, err = pg.Execute(ctx, input)
		} else {
			res, err = pg.OptimizeOnly(ctx, input.Text, input.Model)
		}
		if errors.Is(err, service.ErrSubmissionInProgress) {
			return nil
		}
		return playgroundDoneMsg{result: res, err: err}
	}
}

func (m *PlaygroundModel) cmdCopySnippet() tea.Cmd {
	snippet, err := m.snippets.Snippet(m.language(), service.SnippetInput{
		Text:     m.prompt.Value(),
		Provider: strings.TrimSpace(m.inputs[pgProvider].Value()),
		Model:    strings.TrimSpace(m.inputs[pgModel].Value()),
	})
	if err != nil {
		m.errMsg = err.Error()
		return nil
	}
	return cmdCopyToClipboard(string(m.language())+" snippet", snippet)
}

func (m *PlaygroundModel) language() service.SnippetLanguage {
	return service.SnippetLanguages[m.langIdx]
}

// setFocus moves focus over the prompt (-1) and the inputs, wrapping.
func (m *PlaygroundModel) setFocus(focus int) {
	total := len(m.inputs) + 1
	focus = ((focus+1)%total+total)%total - 1

	m.prompt.Blur()
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.focus = focus
	if focus < 0 {
		m.prompt.Focus()
		return
	}
	m.inputs[focus].Focus()
}
