package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrigen/nutri/internal/state"
)

func TestLogMealCommand(t *testing.T) {
	f := newFixture(t, true)
	app := f.app("")

	out, _, err := f.run(app, "log-meal")
	require.NoError(t, err)
	assert.Equal(t, state.MealLoggedNotice+"\nCurrent streak: 1 day\n", out)

	out, _, err = f.run(app, "streak")
	require.NoError(t, err)
	assert.Equal(t, "Current streak: 1 day\n", out)
}

func TestDays(t *testing.T) {
	assert.Equal(t, "0 days", days(0))
	assert.Equal(t, "1 day", days(1))
	assert.Equal(t, "7 days", days(7))
}
