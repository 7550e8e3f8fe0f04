// Package theme holds the focuslit palette. Focus phases are warm and
// breaks are cool so the current phase reads at a glance.
package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/focuslit/internal/timer"
)

var (
	Ember = lipgloss.AdaptiveColor{Light: "#C2410C", Dark: "#FB923C"}
	Mint  = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#6EE7B7"}
	Ink   = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#E5E7EB"}
	Slate = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#94A3B8"}
	Brick = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
	Honey = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FCD34D"}
)

// Accent is the colour of phase p.
func Accent(p timer.Phase) lipgloss.AdaptiveColor {
	if p == timer.PhaseBreak {
		return Mint
	}
	return Ember
}
