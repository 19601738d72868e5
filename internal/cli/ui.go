package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // headings, spinner
	colorGreen  = lipgloss.Color("35")  // success, cached figures
	colorYellow = lipgloss.Color("220") // warnings
	colorRed    = lipgloss.Color("167") // errors
	colorBlue   = lipgloss.Color("75")  // commands
	colorWhite  = lipgloss.Color("255") // paths and values
	colorGray   = lipgloss.Color("245") // labels
	colorDim    = lipgloss.Color("240") // muted text, borders
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle renders headings such as the stepper's figure title.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	StyleDim     = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCached  = lipgloss.NewStyle().Foreground(colorGreen)
	styleDrawn   = lipgloss.NewStyle().Foreground(colorGray)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Lines
// =============================================================================

// printStatus writes one status line: a styled icon followed by the message.
func printStatus(w io.Writer, icon string, iconStyle, msgStyle lipgloss.Style, format string, args ...any) {
	fmt.Fprintln(w, iconStyle.Render(icon)+" "+msgStyle.Render(fmt.Sprintf(format, args...)))
}

func printSuccess(w io.Writer, format string, args ...any) {
	printStatus(w, iconSuccess, styleIconSuccess, lipgloss.NewStyle(), format, args...)
}

func printError(w io.Writer, format string, args ...any) {
	printStatus(w, iconError, styleIconError, lipgloss.NewStyle(), format, args...)
}

func printWarning(w io.Writer, format string, args ...any) {
	printStatus(w, iconWarning, styleIconWarning, StyleWarning, format, args...)
}

func printInfo(w io.Writer, format string, args ...any) {
	printStatus(w, iconInfo, styleIconInfo, lipgloss.NewStyle(), format, args...)
}

// printDetail writes an indented, muted line under a status line.
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile writes an output path line.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue writes a label padded to a fixed column and its value.
func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printStats writes a render summary such as
// "  3 figures · 6 files · 2 cached".
func printStats(w io.Writer, figures, files, cached int) {
	parts := []string{StyleDim.Render(fmt.Sprintf("%d figures", figures))}
	if files > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d files", files)))
	}
	if cached > 0 {
		parts = append(parts, styleCached.Render(fmt.Sprintf("%d cached", cached)))
	} else {
		parts = append(parts, styleDrawn.Render("drawn"))
	}
	fmt.Fprintln(w, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

// printNextStep suggests a follow-up command.
func printNextStep(w io.Writer, description, cmd string) {
	fmt.Fprintln(w, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}
