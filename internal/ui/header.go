package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Param is one labelled line under a header.
type Param struct {
	Key   string
	Value string
}

// Header is the banner printed above a settings listing: a title, the
// command that produced it and a few parameters such as the file path.
type Header struct {
	Title   string  // e.g., "LDDC CONFIGURATION"
	Command string  // e.g., "lddc-config show"
	Params  []Param // Printed in order
	Width   int     // Terminal width for responsive rendering
}

// NewHeader creates a new header with the given values
func NewHeader(title, command string, params ...Param) *Header {
	return &Header{
		Title:   title,
		Command: command,
		Params:  params,
		Width:   GetTerminalWidth(),
	}
}

// SetWidth sets the terminal width for responsive rendering
func (h *Header) SetWidth(width int) *Header {
	h.Width = width
	return h
}

// Render returns the styled header as a string
func (h *Header) Render() string {
	width := clampWidth(h.Width)

	titleLine := HeaderTitleStyle.Render(strings.ToUpper(h.Title))
	commandLine := HeaderCommandStyle.Render(h.Command)
	topSection := lipgloss.JoinVertical(lipgloss.Left, titleLine, commandLine)

	if len(h.Params) == 0 {
		return h.border(width).Render(topSection)
	}

	dividerWidth := width - 6
	if dividerWidth < 10 {
		dividerWidth = 10
	}
	divider := RenderHorizontalDivider(dividerWidth, "─")

	keyWidth := 0
	for _, p := range h.Params {
		keyWidth = max(keyWidth, lipgloss.Width(p.Key)+1)
	}

	paramLines := make([]string, 0, len(h.Params))
	for _, p := range h.Params {
		keyStyled := HeaderParamKeyStyle.Width(keyWidth + 2).Render(p.Key + ":")
		paramLines = append(paramLines, keyStyled+" "+HeaderParamValueStyle.Render(p.Value))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, topSection, divider, strings.Join(paramLines, "\n"))
	return h.border(width).Render(content)
}

func (h *Header) border(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Width(width - 2)
}

// String implements fmt.Stringer
func (h *Header) String() string {
	return h.Render()
}
