package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUICommand_AltScreen(t *testing.T) {
	f := newFixture(t, false)
	app := f.app("")
	c := NewUICommand(app)

	assert.True(t, c.altScreen(), "default")

	f.cfg.SetCommandOption("ui", "alt-screen", "no")
	assert.False(t, c.altScreen())

	f.cfg.SetCommandOption("ui", "alt-screen", "yes")
	assert.True(t, c.altScreen())

	c.noAltScreen = true
	assert.False(t, c.altScreen(), "flag wins")
}

func TestUICommand_Model(t *testing.T) {
	f := newFixture(t, true)
	app := f.app("")
	c := NewUICommand(app)

	f.cfg.SetCommandOption("ui", "start", "/coach")
	assert.Equal(t, "/coach", c.model().Route().Path)

	c.start = "/insights"
	assert.Equal(t, "/insights", c.model().Route().Path)
}
