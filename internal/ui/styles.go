package ui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	ColorSuccess   = lipgloss.Color("#00D26A") // green: success alerts, checked boxes
	ColorWarning   = lipgloss.Color("#FFB800") // yellow: warning alerts
	ColorError     = lipgloss.Color("#FF4444") // red: fatal errors
	ColorAddress   = lipgloss.Color("#00B4D8") // cyan: addresses, URLs, ids
	ColorValue     = lipgloss.Color("#FFFFFF") // white: contract names
	ColorMeta      = lipgloss.Color("#555555") // dim gray
	ColorBrand     = lipgloss.Color("#9B5DE5") // purple: titles, spinner
	ColorHighlight = lipgloss.Color("#F15BB5") // pink: focused field
)

// Base styles.
var (
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleAddress = lipgloss.NewStyle().Foreground(ColorAddress)
	StyleValue   = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	StyleMeta    = lipgloss.NewStyle().Foreground(ColorMeta)
	StyleBrand   = lipgloss.NewStyle().Foreground(ColorBrand).Bold(true)

	StyleBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBrand).
			Padding(0, 1)

	StyleFocused = lipgloss.NewStyle().Foreground(ColorHighlight).Bold(true)

	StyleButton = lipgloss.NewStyle().
			Background(ColorBrand).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 2)

	StyleButtonFocused = StyleButton.
				Background(ColorHighlight).
				Foreground(lipgloss.Color("#000000"))

	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorBrand).
			Bold(true).
			MarginBottom(1)

	StyleAlertSuccess = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder(), false, false, false, true).
				BorderForeground(ColorSuccess).
				Foreground(ColorSuccess).
				PaddingLeft(1)

	StyleAlertWarning = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder(), false, false, false, true).
				BorderForeground(ColorWarning).
				Foreground(ColorWarning).
				PaddingLeft(1)
)

// Banner returns the dappos ASCII banner.
func Banner() string {
	art := `
  ██████╗  █████╗ ██████╗ ██████╗  ██████╗ ███████╗
  ██╔══██╗██╔══██╗██╔══██╗██╔══██╗██╔═══██╗██╔════╝
  ██║  ██║███████║██████╔╝██████╔╝██║   ██║███████╗
  ██║  ██║██╔══██║██╔═══╝ ██╔═══╝ ██║   ██║╚════██║
  ██████╔╝██║  ██║██║     ██║     ╚██████╔╝███████║
  ╚═════╝ ╚═╝  ╚═╝╚═╝     ╚═╝      ╚═════╝ ╚══════╝`

	tagline := StyleMeta.Render("     Compiled contracts → no-code dapps")
	return StyleBrand.Render(art) + "\n" + tagline + "\n"
}

// Success formats a success message.
func Success(msg string) string { return StyleSuccess.Render("✓ " + msg) }

// Warn formats a warning message.
func Warn(msg string) string { return StyleWarning.Render("⚠ " + msg) }

// Err formats an error message.
func Err(msg string) string { return StyleError.Render("✗ " + msg) }

// Info formats an informational message.
func Info(msg string) string { return StyleAddress.Render("ℹ " + msg) }

// Hint formats a tip.
func Hint(msg string) string { return StyleMeta.Render("💡 " + msg) }

// Addr formats an address, URL or identifier.
func Addr(a string) string { return StyleAddress.Render(a) }

// Val formats a value.
func Val(v string) string { return StyleValue.Render(v) }

// Meta formats metadata text.
func Meta(m string) string { return StyleMeta.Render(m) }
