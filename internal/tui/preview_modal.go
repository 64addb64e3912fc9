package tui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// Preview modal layout constants.
const (
	previewModalMaxWidth  = 100 // maximum modal width in columns
	previewModalMaxHeight = 30  // maximum modal height in rows
	previewModalMargin    = 4   // margin from screen edges
	previewModalChrome    = 8   // rows for title, divider, help, and border
	previewModalPadding   = 6   // border plus horizontal padding
	glamourGutter         = 2   // glamour adds gutter space
)

// PreviewModal displays a record rendered as markdown.
type PreviewModal struct {
	title    string
	subtitle string
	viewport viewport.Model
}

// NewPreviewModal creates a preview sized for a width x height screen.
func NewPreviewModal(title, subtitle, markdown string, width, height int) PreviewModal {
	modalWidth := max(min(width-previewModalMargin, previewModalMaxWidth), 20)
	modalHeight := max(min(height-previewModalMargin, previewModalMaxHeight), previewModalChrome+1)

	vp := viewport.New(modalWidth-previewModalPadding, modalHeight-previewModalChrome)

	m := PreviewModal{
		title:    title,
		subtitle: subtitle,
		viewport: vp,
	}
	m.viewport.SetContent(renderMarkdown(markdown, modalWidth-previewModalPadding-glamourGutter))
	return m
}

// renderMarkdown renders md for the terminal, falling back to the raw text.
func renderMarkdown(md string, width int) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("tokyo-night"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}

	rendered, err := renderer.Render(md)
	if err != nil {
		return md
	}

	content := strings.TrimSpace(rendered)
	content = stripLeadingDecorative(content)
	return stripTrailingDecorative(content)
}

// ScrollUp scrolls the viewport up.
func (m *PreviewModal) ScrollUp() {
	m.viewport.ScrollUp(1)
}

// ScrollDown scrolls the viewport down.
func (m *PreviewModal) ScrollDown() {
	m.viewport.ScrollDown(1)
}

// View renders the preview modal centered on a width x height screen.
func (m PreviewModal) View(width, height int) string {
	modalWidth := max(min(width-previewModalMargin, previewModalMaxWidth), 20)

	scrollInfo := ""
	if m.viewport.TotalLineCount() > m.viewport.VisibleLineCount() {
		scrollInfo = previewScrollStyle.Render(fmt.Sprintf(" (%.0f%%)", m.viewport.ScrollPercent()*100))
	}

	inner := modalWidth - previewModalPadding
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		modalTitleStyle.Render(m.title)+scrollInfo,
		descStyle.Render(m.subtitle),
		previewDividerStyle.Render(strings.Repeat("─", max(inner, 0))),
		m.viewport.View(),
		modalHelpStyle.Render("[↑/↓/j/k] scroll  [enter/esc] close"),
	)

	return lipgloss.Place(
		width, height,
		lipgloss.Center, lipgloss.Center,
		modalStyle.Width(modalWidth).Render(content),
	)
}

// ansiPattern matches ANSI escape sequences.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// isDecorativeLine checks if a line contains only decorative characters
// (horizontal rules, spaces) after stripping ANSI codes.
func isDecorativeLine(line string) bool {
	stripped := strings.TrimSpace(ansiPattern.ReplaceAllString(line, ""))
	for _, r := range stripped {
		if r != '─' && r != '━' && r != '-' && r != '=' {
			return false
		}
	}
	return true
}

// stripLeadingDecorative removes leading decorative lines from content.
func stripLeadingDecorative(content string) string {
	lines := strings.Split(content, "\n")
	start := 0
	for start < len(lines) && isDecorativeLine(lines[start]) {
		start++
	}
	return strings.Join(lines[start:], "\n")
}

// stripTrailingDecorative removes trailing decorative lines from content.
func stripTrailingDecorative(content string) string {
	lines := strings.Split(content, "\n")
	end := len(lines)
	for end > 0 && isDecorativeLine(lines[end-1]) {
		end--
	}
	return strings.Join(lines[:end], "\n")
}
