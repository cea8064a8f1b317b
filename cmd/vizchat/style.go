package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/spektr-org/vizchat/descriptor"
)

var (
	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4477AA"))
	assistantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#228833"))
	noticeStyle    = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#EE8866"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#BBBBBB"))
	errorStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EE6677"))
)

func speaker(s descriptor.Sender) string {
	if s == descriptor.SenderAssistant {
		return assistantStyle.Render("assistant")
	}
	return userStyle.Render("you")
}

func printMessage(m descriptor.Message) {
	stamp := ""
	if !m.Timestamp.IsZero() {
		stamp = dimStyle.Render(m.Timestamp.Format("15:04")) + " "
	}
	fmt.Printf("%s%s: %s\n", stamp, speaker(m.Sender), m.Text)
}

// swatch draws a two-cell block in hex. Alpha suffixes are dropped: terminals
// have no transparency.
func swatch(hex string) string {
	if len(hex) > 7 {
		hex = hex[:7]
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("  ")
}
