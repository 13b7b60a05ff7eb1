package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// WizardResult holds answers collected by the setup wizard. Empty fields
// mean "keep the current value".
type WizardResult struct {
	Backend    string
	BuilderURL string
	Cancelled  bool
}

type wizardStep int

const (
	stepBackend wizardStep = iota
	stepBuilder
	stepDone
)

// WizardModel asks for the document store backend and the builder URL.
type WizardModel struct {
	step     wizardStep
	backends []string
	cursor   int
	url      textinput.Model
	result   WizardResult
}

// NewWizardModel starts the wizard with the cursor on current.
func NewWizardModel(backends []string, current, builderURL string) WizardModel {
	in := textinput.New()
	in.Placeholder = builderURL
	in.Prompt = "> "
	in.Width = 48

	m := WizardModel{backends: backends, url: in}
	for i, b := range backends {
		if b == current {
			m.cursor = i
		}
	}
	return m
}

// Result returns the collected answers.
func (m WizardModel) Result() WizardResult { return m.result }

// Init implements tea.Model.
func (m WizardModel) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m WizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.step == stepBuilder {
			var cmd tea.Cmd
			m.url, cmd = m.url.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc":
		m.result.Cancelled = true
		return m, tea.Quit
	case "enter":
		return m.advance()
	}

	switch m.step {
	case stepBackend:
		switch key.String() {
		case "q":
			m.result.Cancelled = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.backends)-1 {
				m.cursor++
			}
		}
	case stepBuilder:
		var cmd tea.Cmd
		m.url, cmd = m.url.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m WizardModel) advance() (tea.Model, tea.Cmd) {
	switch m.step {
	case stepBackend:
		if m.cursor < len(m.backends) {
			m.result.Backend = m.backends[m.cursor]
		}
		m.step = stepBuilder
		return m, m.url.Focus()
	case stepBuilder:
		m.result.BuilderURL = strings.TrimSpace(m.url.Value())
		m.step = stepDone
	}
	return m, tea.Quit
}

// View implements tea.Model.
func (m WizardModel) View() string {
	var s string
	switch m.step {
	case stepBackend:
		s = renderMenu("Where should dapp documents be stored?", m.backends, m.cursor)
	case stepBuilder:
		s = StyleTitle.Render("DappBuilder URL") + "\n\n"
		s += StyleMeta.Render("Press Enter to keep "+m.url.Placeholder) + "\n"
		s += m.url.View() + "\n"
	case stepDone:
		s = Success("Setup complete!") + "\n"
	}
	return StyleBorder.Render(s) + "\n"
}

func renderMenu(title string, items []string, cursor int) string {
	s := StyleTitle.Render(title) + "\n\n"
	for i, item := range items {
		icon := "  "
		style := lipgloss.NewStyle().Foreground(ColorValue)
		if i == cursor {
			icon = "▸ "
			style = StyleFocused
		}
		s += icon + style.Render(item) + "\n"
	}
	s += "\n" + StyleMeta.Render("↑/↓ navigate · Enter select · q quit")
	return s
}

// RunWizard launches the interactive setup wizard and returns the answers.
func RunWizard(backends []string, current, builderURL string) (*WizardResult, error) {
	final, err := tea.NewProgram(NewWizardModel(backends, current, builderURL)).Run()
	if err != nil {
		return nil, fmt.Errorf("wizard error: %w", err)
	}
	result := final.(WizardModel).Result()
	return &result, nil
}
