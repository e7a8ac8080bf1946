package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles holds the lipgloss styles used in text mode.
type Styles struct {
	Header1       lipgloss.Style
	Header2       lipgloss.Style
	Bold          lipgloss.Style
	Muted         lipgloss.Style
	Info          lipgloss.Style
	Success       lipgloss.Style
	Warning       lipgloss.Style
	Error         lipgloss.Style
	Entity        lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusFailed  lipgloss.Style
	StatusRunning lipgloss.Style
}

// TerminalStyles returns colored styles with the color profile detected
// for w. NO_COLOR selects the plain styles.
func TerminalStyles(w io.Writer) *Styles {
	if termenv.EnvNoColor() {
		return PlainStyles()
	}
	return StylesFor(lipgloss.NewRenderer(w, termenv.WithColorCache(true)))
}

// StylesFor builds the colored styles on a lipgloss renderer.
func StylesFor(lr *lipgloss.Renderer) *Styles {
	return &Styles{
		Header1:       lr.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Underline(true),
		Header2:       lr.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		Bold:          lr.NewStyle().Bold(true),
		Muted:         lr.NewStyle().Foreground(lipgloss.Color("8")),
		Info:          lr.NewStyle().Foreground(lipgloss.Color("12")),
		Success:       lr.NewStyle().Foreground(lipgloss.Color("10")),
		Warning:       lr.NewStyle().Foreground(lipgloss.Color("11")),
		Error:         lr.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Entity:        lr.NewStyle().Foreground(lipgloss.Color("13")),
		StatusSuccess: lr.NewStyle().Foreground(lipgloss.Color("10")),
		StatusFailed:  lr.NewStyle().Foreground(lipgloss.Color("9")),
		StatusRunning: lr.NewStyle().Foreground(lipgloss.Color("11")),
	}
}

// PlainStyles returns styles that render text unchanged.
func PlainStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Header1:       plain,
		Header2:       plain,
		Bold:          plain,
		Muted:         plain,
		Info:          plain,
		Success:       plain,
		Warning:       plain,
		Error:         plain,
		Entity:        plain,
		StatusSuccess: plain,
		StatusFailed:  plain,
		StatusRunning: plain,
	}
}

// StatusStyle returns the style for a conversion status.
func (s *Styles) StatusStyle(status string) lipgloss.Style {
	switch status {
	case "success":
		return s.StatusSuccess
	case "failed":
		return s.StatusFailed
	default:
		return s.StatusRunning
	}
}
