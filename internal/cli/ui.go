package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ANSI 256 colors.
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle renders headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	// StyleLink renders URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)
	// StyleSuccess renders completed actions.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
)

var (
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleLabel   = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// status prints msg behind a colored mark.
func status(mark string, style lipgloss.Style, msg string) {
	fmt.Println(style.Render(mark) + " " + msg)
}

func printSuccess(format string, args ...any) {
	status("✓", StyleSuccess, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	status("!", styleWarning, styleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	status("›", styleInfo, fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Println("  " + StyleDim.Render("→") + " " + styleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleLabel.Render(key) + " " + styleValue.Render(value))
}

// printStats prints a one-line summary of a rendered board.
func printStats(cells, clicks, removed int, cached bool) {
	parts := []string{fmt.Sprintf("%d cells", cells)}
	if clicks > 0 {
		parts = append(parts, fmt.Sprintf("%d clicks", clicks))
	}
	if removed > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", removed))
	}
	source := styleInfo.Render("fresh")
	if cached {
		source = StyleSuccess.Render("cached")
	}
	sep := StyleDim.Render(" · ")
	fmt.Println("  " + StyleDim.Render(strings.Join(parts, " · ")) + sep + source)
}

func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}
