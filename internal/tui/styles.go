// Package tui hosts the interactive model picker built on Bubble Tea.
package tui

import "github.com/charmbracelet/lipgloss"

// Theme is the color palette used by every component.
type Theme struct {
	Name         string
	Accent       lipgloss.Color
	Primary      lipgloss.Color
	Secondary    lipgloss.Color
	Dim          lipgloss.Color
	Border       lipgloss.Color
	ActiveBorder lipgloss.Color
	ActiveBg     lipgloss.Color
	Success      lipgloss.Color
	Error        lipgloss.Color
}

var darkTheme = Theme{
	Name:         "dark",
	Accent:       lipgloss.Color("#7D56F4"),
	Primary:      lipgloss.Color("#FAFAFA"),
	Secondary:    lipgloss.Color("#A8A8A8"),
	Dim:          lipgloss.Color("#666666"),
	Border:       lipgloss.Color("#3C3C3C"),
	ActiveBorder: lipgloss.Color("#7D56F4"),
	ActiveBg:     lipgloss.Color("#2A2140"),
	Success:      lipgloss.Color("#04B575"),
	Error:        lipgloss.Color("#FF5F87"),
}

var lightTheme = Theme{
	Name:         "light",
	Accent:       lipgloss.Color("#5A3FC0"),
	Primary:      lipgloss.Color("#1A1A1A"),
	Secondary:    lipgloss.Color("#4A4A4A"),
	Dim:          lipgloss.Color("#888888"),
	Border:       lipgloss.Color("#D0D0D0"),
	ActiveBorder: lipgloss.Color("#5A3FC0"),
	ActiveBg:     lipgloss.Color("#ECE6FF"),
	Success:      lipgloss.Color("#0A7F4F"),
	Error:        lipgloss.Color("#D00000"),
}

// DetectTheme returns the theme named by override ("dark" or "light"), or
// picks one from the terminal background.
func DetectTheme(override string) Theme {
	switch override {
	case "dark":
		return darkTheme
	case "light":
		return lightTheme
	}
	if lipgloss.HasDarkBackground() {
		return darkTheme
	}
	return lightTheme
}

// StyleSet holds the rendered styles derived from a Theme.
type StyleSet struct {
	Theme      Theme
	Title      lipgloss.Style
	Label      lipgloss.Style
	AccentTxt  lipgloss.Style
	PrimaryTxt lipgloss.Style
	DimTxt     lipgloss.Style
	ErrorTxt   lipgloss.Style
	SuccessTxt lipgloss.Style
	Highlight  lipgloss.Style
	Box        lipgloss.Style
	KbdKey     lipgloss.Style
	KbdDesc    lipgloss.Style
}

// NewStyleSet builds the styles for a theme.
func NewStyleSet(theme Theme) *StyleSet {
	return &StyleSet{
		Theme:      theme,
		Title:      lipgloss.NewStyle().Bold(true).Foreground(theme.Accent),
		Label:      lipgloss.NewStyle().Bold(true).Foreground(theme.Primary),
		AccentTxt:  lipgloss.NewStyle().Foreground(theme.Accent),
		PrimaryTxt: lipgloss.NewStyle().Foreground(theme.Primary),
		DimTxt:     lipgloss.NewStyle().Foreground(theme.Dim),
		ErrorTxt:   lipgloss.NewStyle().Foreground(theme.Error),
		SuccessTxt: lipgloss.NewStyle().Foreground(theme.Success),
		Highlight: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary).
			Background(theme.ActiveBg),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),
		KbdKey:  lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true),
		KbdDesc: lipgloss.NewStyle().Foreground(theme.Dim),
	}
}

// KeyHints renders "key desc" pairs for a footer.
func (s *StyleSet) KeyHints(pairs ...string) string {
	out := ""
	for i := 0; i+1 < len(pairs); i += 2 {
		if out != "" {
			out += s.KbdDesc.Render("  ·  ")
		}
		out += s.KbdKey.Render(pairs[i]) + " " + s.KbdDesc.Render(pairs[i+1])
	}
	return out
}
