package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Row is one setting in a listing.
type Row struct {
	Key     string
	Kind    string
	Value   string
	Changed bool // Differs from the default
}

// Section is a titled group of rows.
type Section struct {
	Title string
	Rows  []Row
}

// RenderTable renders sections as aligned columns. Changed values are
// highlighted and marked.
func RenderTable(sections []Section) string {
	var blocks []string
	for _, sec := range sections {
		if len(sec.Rows) == 0 {
			continue
		}
		lines := []string{GroupTitleStyle.Render(sec.Title)}
		for _, row := range sec.Rows {
			valueStyle := SettingValueStyle
			marker := " "
			if row.Changed {
				valueStyle = SettingChangedStyle
				marker = ChangedMarker
			}
			lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
				SettingKeyStyle.Render(row.Key),
				SettingKindStyle.Render(row.Kind),
				valueStyle.Render(marker+" "+row.Value),
			))
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}

// RenderPlain renders sections as "key = value" lines for pipes and files.
func RenderPlain(sections []Section) string {
	var b strings.Builder
	for _, sec := range sections {
		for _, row := range sec.Rows {
			b.WriteString(row.Key)
			b.WriteString(" = ")
			b.WriteString(row.Value)
			b.WriteByte('\n')
		}
	}
	return b.String()
}
