// Package scrollbar renders a vertical scrollbar next to a scrolled view.
package scrollbar

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Model describes a scrolled view and how to draw its bar.
type Model struct {
	// ContentHeight is the total height of the scrollable content.
	ContentHeight int
	// ViewportHeight is the height of the visible window, and of the bar.
	ViewportHeight int
	// YOffset is the current vertical scroll position.
	YOffset int

	ThumbStyle lipgloss.Style
	TrackStyle lipgloss.Style
	ThumbChar  string
	TrackChar  string
}

// New returns a scrollbar with the default look.
func New() Model {
	return Model{
		ThumbChar:  "┃",
		TrackChar:  "│",
		ThumbStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		TrackStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// Sync copies the geometry of a scrolled view.
func (m *Model) Sync(content, viewport, offset int) {
	m.ContentHeight = content
	m.ViewportHeight = viewport
	m.YOffset = offset
}

// Thumb returns the first row and the height of the thumb. Content that fits
// the viewport gets a full-height thumb. The offset is clamped to the
// scrollable range.
func Thumb(content, viewport, offset int) (top, height int) {
	if viewport <= 0 {
		return 0, 0
	}
	if content <= viewport {
		return 0, viewport
	}

	maxOffset := content - viewport
	offset = min(max(offset, 0), maxOffset)

	// proportional to the visible fraction, at least one row
	height = max(viewport*viewport/content, 1)
	maxTop := viewport - height
	top = offset * maxTop / maxOffset
	return top, height
}

// View renders exactly ViewportHeight rows.
func (m Model) View() string {
	if m.ViewportHeight <= 0 {
		return ""
	}
	top, height := Thumb(m.ContentHeight, m.ViewportHeight, m.YOffset)

	rows := make([]string, m.ViewportHeight)
	for i := range rows {
		if i >= top && i < top+height {
			rows[i] = m.ThumbStyle.Render(m.ThumbChar)
		} else {
			rows[i] = m.TrackStyle.Render(m.TrackChar)
		}
	}
	return strings.Join(rows, "\n")
}
