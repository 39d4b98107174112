// Package color names the colors used in command output.
package color

import "github.com/charmbracelet/lipgloss"

// Terminal colors, so the user's theme decides the actual shade.
var (
	Red    = lipgloss.Color("1")
	Green  = lipgloss.Color("2")
	Yellow = lipgloss.Color("3")
	Blue   = lipgloss.Color("4")
	Purple = lipgloss.Color("5")
	Cyan   = lipgloss.Color("6")

	HiRed    = lipgloss.Color("9")
	HiPurple = lipgloss.Color("13")
)

// Track listings use fixed colors per kind.
var (
	Video    = lipgloss.Color("#74c7ec")
	Audio    = lipgloss.Color("#94e2d5")
	Subtitle = lipgloss.Color("#fab387")
)
