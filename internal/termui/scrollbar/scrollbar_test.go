package scrollbar

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestThumb(t *testing.T) {
	for _, tc := range []struct {
		name                      string
		content, viewport, offset int
		top, height               int
	}{
		{"no viewport", 10, 0, 0, 0, 0},
		{"content fits", 5, 10, 3, 0, 10},
		{"half visible at top", 20, 10, 0, 0, 5},
		{"half visible at bottom", 20, 10, 10, 5, 5},
		{"half visible midway", 20, 10, 5, 2, 5},
		{"offset clamped high", 20, 10, 99, 5, 5},
		{"offset clamped low", 20, 10, -4, 0, 5},
		{"tiny fraction keeps one row", 1000, 10, 990, 9, 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			top, height := Thumb(tc.content, tc.viewport, tc.offset)
			assert.Equal(t, tc.top, top, "top")
			assert.Equal(t, tc.height, height, "height")
		})
	}
}

func TestView(t *testing.T) {
	m := New()
	m.ThumbStyle = lipgloss.NewStyle()
	m.TrackStyle = lipgloss.NewStyle()
	m.ThumbChar, m.TrackChar = "#", "|"

	assert.Empty(t, m.View())

	m.Sync(8, 4, 4)
	assert.Equal(t, "|\n|\n#\n#", m.View())

	m.Sync(3, 4, 0)
	assert.Equal(t, 4, strings.Count(m.View(), "#"))
}
