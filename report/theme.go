// Package report renders build progress for humans and machines.
package report

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the colors used by the console reporter.
type Theme struct {
	Name string

	Accent  lipgloss.Color
	Info    lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	Primary lipgloss.Color
	Dim     lipgloss.Color
}

// DarkTheme is the default dark terminal theme.
var DarkTheme = Theme{
	Name:    "dark",
	Accent:  lipgloss.Color("#22d3ee"),
	Info:    lipgloss.Color("#3b82f6"),
	Success: lipgloss.Color("#22c55e"),
	Warning: lipgloss.Color("#eab308"),
	Error:   lipgloss.Color("#ef4444"),
	Primary: lipgloss.Color("#e0e0e8"),
	Dim:     lipgloss.Color("#5a5a70"),
}

// LightTheme is the light terminal theme.
var LightTheme = Theme{
	Name:    "light",
	Accent:  lipgloss.Color("#0e7490"),
	Info:    lipgloss.Color("#1d4ed8"),
	Success: lipgloss.Color("#15803d"),
	Warning: lipgloss.Color("#a16207"),
	Error:   lipgloss.Color("#b91c1c"),
	Primary: lipgloss.Color("#0f172a"),
	Dim:     lipgloss.Color("#4b5563"),
}

// DetectTheme returns the appropriate theme based on flag, env, or detection.
func DetectTheme(flagVal string) Theme {
	// 1. --theme flag
	switch strings.ToLower(flagVal) {
	case "dark":
		return DarkTheme
	case "light":
		return LightTheme
	}

	// 2. PKGFORGE_THEME env
	switch strings.ToLower(os.Getenv("PKGFORGE_THEME")) {
	case "dark":
		return DarkTheme
	case "light":
		return LightTheme
	}

	// 3. COLORFGBG heuristic (format: "fg;bg")
	if colorfgbg := os.Getenv("COLORFGBG"); colorfgbg != "" {
		parts := strings.Split(colorfgbg, ";")
		if len(parts) >= 2 {
			bg := parts[len(parts)-1]
			if bg == "15" || bg == "7" {
				return LightTheme
			}
		}
	}

	return DarkTheme
}

// styleSet holds lipgloss styles derived from a theme for one renderer.
type styleSet struct {
	time      lipgloss.Style
	dim       lipgloss.Style
	path      lipgloss.Style
	warning   lipgloss.Style
	errorHead lipgloss.Style
	errorText lipgloss.Style

	infoBadge    lipgloss.Style
	successBadge lipgloss.Style
	errorBadge   lipgloss.Style
	warnBadge    lipgloss.Style
}

func newStyleSet(r *lipgloss.Renderer, theme Theme) *styleSet {
	badge := func(c lipgloss.Color) lipgloss.Style {
		return r.NewStyle().Background(c)
	}
	return &styleSet{
		time:      r.NewStyle().Foreground(theme.Dim),
		dim:       r.NewStyle().Foreground(theme.Dim),
		path:      r.NewStyle().Foreground(theme.Accent),
		warning:   r.NewStyle().Foreground(theme.Warning),
		errorHead: r.NewStyle().Foreground(theme.Error).Bold(true),
		errorText: r.NewStyle().Foreground(theme.Primary).Bold(true),

		infoBadge:    badge(theme.Info),
		successBadge: badge(theme.Success),
		errorBadge:   badge(theme.Error),
		warnBadge:    badge(theme.Warning),
	}
}
