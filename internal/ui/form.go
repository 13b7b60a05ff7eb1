package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/Mohsinsiddi/dappos/internal/alert"
	"github.com/Mohsinsiddi/dappos/internal/compiler"
	"github.com/Mohsinsiddi/dappos/internal/plugin"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// DocsURL is shown under the form.
const DocsURL = "https://docs.dappos.io/"

// EmptyMessage is shown instead of the checkbox list before the first
// successful compilation.
const EmptyMessage = "None found, please compile a contract and point --watch at its output"

// Submitter is the part of the plugin the form drives.
type Submitter interface {
	Submit(ctx context.Context, f plugin.Form) (*plugin.Submission, error)
}

// Messages the host sends into the running program.
type (
	// ContractsMsg carries a fresh contract map.
	ContractsMsg struct{ Contracts compiler.ContractMap }
	// StatusMsg carries a host status change.
	StatusMsg struct{ Status plugin.Status }
	// AlertMsg carries the alert to show; the zero Alert hides it.
	AlertMsg struct{ Alert alert.Alert }
)

type submittedMsg struct {
	sub *plugin.Submission
	err error
}

// FormModel is the Bubble Tea model for the plugin panel: the contract
// checkboxes, the name and address inputs, the submit button, the alert
// block and the status line.
type FormModel struct {
	ctx       context.Context
	submitter Submitter

	names   []string
	abiLen  map[string]int
	checked map[string]bool

	name       textinput.Model
	address    textinput.Model
	nameEdited bool

	focus  int
	alert  alert.Alert
	status plugin.Status
	spin   spinner.Model
	busy   bool

	// Last is the most recent submission that passed validation.
	Last     *plugin.Submission
	Quitting bool
}

// NewFormModel creates an empty form that submits through s.
func NewFormModel(ctx context.Context, s Submitter) FormModel {
	name := textinput.New()
	name.Placeholder = "My dapp"
	name.CharLimit = 64
	name.Width = 40
	name.Prompt = "> "

	addr := textinput.New()
	addr.Placeholder = "0xabc..."
	addr.CharLimit = 66
	addr.Width = 44
	addr.Prompt = "> "

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = StyleBrand

	return FormModel{
		ctx:       ctx,
		submitter: s,
		abiLen:    map[string]int{},
		checked:   map[string]bool{},
		name:      name,
		address:   addr,
		spin:      sp,
	}
}

// Init implements tea.Model.
func (m FormModel) Init() tea.Cmd { return textinput.Blink }

// Enabled reports whether the inputs accept edits: only once contracts exist.
func (m FormModel) Enabled() bool { return len(m.names) > 0 }

// Names returns the listed contract names in display order.
func (m FormModel) Names() []string { return append([]string(nil), m.names...) }

// Selected returns the checked contract names in display order.
func (m FormModel) Selected() []string {
	var out []string
	for _, n := range m.names {
		if m.checked[n] {
			out = append(out, n)
		}
	}
	return out
}

// Form returns what the user has filled in.
func (m FormModel) Form() plugin.Form {
	return plugin.Form{Name: m.name.Value(), Address: m.address.Value(), Selected: m.Selected()}
}

// Alert returns the alert currently shown.
func (m FormModel) Alert() alert.Alert { return m.alert }

// Status returns the host status currently shown.
func (m FormModel) Status() plugin.Status { return m.status }

// focus slots after the checkbox list
func (m FormModel) nameSlot() int   { return len(m.names) }
func (m FormModel) addrSlot() int   { return len(m.names) + 1 }
func (m FormModel) buttonSlot() int { return len(m.names) + 2 }

// Update implements tea.Model.
func (m FormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ContractsMsg:
		return m.setContracts(msg.Contracts), nil

	case StatusMsg:
		m.status = msg.Status
		if msg.Status.Key == plugin.KeyLoading {
			return m, m.spin.Tick
		}
		return m, nil

	case AlertMsg:
		m.alert = msg.Alert
		return m, nil

	case submittedMsg:
		m.busy = false
		if msg.err == nil {
			m.Last = msg.sub
		}
		return m, nil

	case spinner.TickMsg:
		if m.status.Key != plugin.KeyLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateInputs(msg)
}

func (m FormModel) setContracts(cm compiler.ContractMap) FormModel {
	m.names = cm.Names()
	m.abiLen = make(map[string]int, len(m.names))
	m.checked = make(map[string]bool, len(m.names))
	for _, n := range m.names {
		m.abiLen[n] = len(cm[n].ABI)
		m.checked[n] = true
	}
	if !m.nameEdited {
		first := ""
		if len(m.names) > 0 {
			first = m.names[0]
		}
		m.name.SetValue(first)
	}
	if m.focus > m.buttonSlot() {
		m.focus = m.buttonSlot()
	}
	return m.refocus()
}

func (m FormModel) refocus() FormModel {
	m.name.Blur()
	m.address.Blur()
	if !m.Enabled() {
		return m
	}
	switch m.focus {
	case m.nameSlot():
		m.name.Focus()
	case m.addrSlot():
		m.address.Focus()
	}
	return m
}

func (m FormModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	onInput := m.Enabled() && (m.focus == m.nameSlot() || m.focus == m.addrSlot())

	switch msg.String() {
	case "ctrl+c", "esc":
		m.Quitting = true
		return m, tea.Quit
	case "q":
		if !onInput {
			m.Quitting = true
			return m, tea.Quit
		}
	case "tab", "down":
		if m.Enabled() {
			m.focus = (m.focus + 1) % (m.buttonSlot() + 1)
			return m.refocus(), nil
		}
		return m, nil
	case "shift+tab", "up":
		if m.Enabled() {
			m.focus = (m.focus + m.buttonSlot()) % (m.buttonSlot() + 1)
			return m.refocus(), nil
		}
		return m, nil
	case " ":
		if m.Enabled() && m.focus < len(m.names) {
			n := m.names[m.focus]
			m.checked[n] = !m.checked[n]
			return m, nil
		}
	case "enter":
		if m.Enabled() && m.focus >= m.nameSlot() {
			return m.submit()
		}
		return m, nil
	}

	if !onInput {
		return m, nil
	}
	if m.focus == m.nameSlot() {
		m.nameEdited = true
	}
	return m.updateInputs(msg)
}

func (m FormModel) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var c1, c2 tea.Cmd
	m.name, c1 = m.name.Update(msg)
	m.address, c2 = m.address.Update(msg)
	return m, tea.Batch(c1, c2)
}

func (m FormModel) submit() (tea.Model, tea.Cmd) {
	if m.busy || m.submitter == nil {
		return m, nil
	}
	m.busy = true
	ctx, s, f := m.ctx, m.submitter, m.Form()
	return m, func() tea.Msg {
		sub, err := s.Submit(ctx, f)
		return submittedMsg{sub: sub, err: err}
	}
}

// View implements tea.Model.
func (m FormModel) View() string {
	if m.Quitting {
		return ""
	}
	var sb strings.Builder

	sb.WriteString(StyleTitle.Render("Dappos") + "\n")
	sb.WriteString(StyleMeta.Render("Dapps interfaces with no-code") + "\n\n")

	sb.WriteString(m.label("Available Contracts:", -1) + "\n")
	if !m.Enabled() {
		sb.WriteString("  " + StyleMeta.Render(EmptyMessage) + "\n")
	}
	for i, n := range m.names {
		box := "[ ]"
		if m.checked[n] {
			box = StyleSuccess.Render("[x]")
		}
		line := fmt.Sprintf("%s [%d functions]", n, m.abiLen[n])
		cursor := "  "
		if m.focus == i {
			cursor = StyleFocused.Render("▸ ")
			line = StyleFocused.Render(line)
		}
		sb.WriteString(cursor + box + " " + line + "\n")
	}
	sb.WriteString("\n")

	sb.WriteString(m.label("Dapp Name:", m.nameSlot()) + "\n")
	sb.WriteString("  " + m.input(m.name) + "\n")
	sb.WriteString(m.label("Deployed Address:", m.addrSlot()) + "\n")
	sb.WriteString("  " + m.input(m.address) + "\n\n")

	btn := StyleButton
	if m.Enabled() && m.focus == m.buttonSlot() {
		btn = StyleButtonFocused
	}
	if !m.Enabled() {
		btn = btn.Background(ColorMeta)
	}
	sb.WriteString("  " + btn.Render("Create Dapp") + "\n")
	if m.Last != nil {
		sb.WriteString("  " + StyleMeta.Render("Builder: ") + Addr(m.Last.URL) + "\n")
	}

	if a := AlertBlock(m.alert); a != "" {
		sb.WriteString("\n" + a + "\n")
	}
	if s := m.statusLine(); s != "" {
		sb.WriteString("\n" + s + "\n")
	}

	sb.WriteString("\n" + StyleMeta.Render("Need help? ") + Addr(DocsURL) + "\n")
	sb.WriteString(StyleMeta.Render("tab/↑↓ move · space toggle · enter create · esc quit"))
	return StyleBorder.Render(sb.String()) + "\n"
}

func (m FormModel) label(text string, slot int) string {
	if slot >= 0 && m.Enabled() && m.focus == slot {
		return StyleFocused.Render(text)
	}
	return StyleValue.Render(text)
}

func (m FormModel) input(in textinput.Model) string {
	if !m.Enabled() {
		v := in.Value()
		if v == "" {
			v = in.Placeholder
		}
		return StyleMeta.Render(in.Prompt + v + " (disabled)")
	}
	return in.View()
}

func (m FormModel) statusLine() string {
	switch m.status.Key {
	case plugin.KeyLoading:
		return m.spin.View() + " " + Info(m.status.Title)
	case plugin.KeySucceed:
		return Success(m.status.Title)
	default:
		return ""
	}
}

// AlertBlock renders an alert, or "" when it is hidden.
func AlertBlock(a alert.Alert) string {
	if a.Empty() {
		return ""
	}
	if a.Type == alert.TypeSuccess {
		return StyleAlertSuccess.Render("✓ " + a.Message)
	}
	return StyleAlertWarning.Render("⚠ " + a.Message)
}
