package command

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrigen/nutri/internal/api"
	"github.com/nutrigen/nutri/internal/storage"
)

func TestLoginCommand(t *testing.T) {
	f := newFixture(t, false)
	app := f.app(f.email + "\n" + testPassword + "\n")

	out, _, err := f.run(app, "login")
	require.NoError(t, err)
	assert.Equal(t, "Signed in as Ada <"+f.email+">.\n", out)
	assert.True(t, storage.HasCredential(f.creds))
	assert.True(t, app.Store().Snapshot().Auth.IsAuthenticated)
}

func TestLoginCommand_Errors(t *testing.T) {
	t.Run("invalid email is a usage error", func(t *testing.T) {
		f := newFixture(t, false)
		_, _, err := f.run(f.app("pw\n"), "login", "--email", "not-an-email")
		var usage *UsageError
		require.ErrorAs(t, err, &usage)
		assert.Contains(t, err.Error(), "Invalid email address")
		assert.Empty(t, f.srv.Requests())
	})

	t.Run("wrong password reports the server message", func(t *testing.T) {
		f := newFixture(t, false)
		_, _, err := f.run(f.app("wrong\n"), "login", "--email", f.email)
		var opErr *OpError
		require.ErrorAs(t, err, &opErr)
		assert.Equal(t, "Invalid email or password", opErr.Message)
		assert.False(t, storage.HasCredential(f.creds))
	})

	t.Run("unexpected arguments", func(t *testing.T) {
		f := newFixture(t, false)
		_, _, err := f.run(f.app(""), "login", "extra")
		var usage *UsageError
		require.ErrorAs(t, err, &usage)
	})
}

func TestRegisterCommand(t *testing.T) {
	f := newFixture(t, false)
	app := f.app("Grace\ngrace@example.com\nabc\nabc\n")

	out, errOut, err := f.run(app, "register",
		"--age", "36", "--gender", "Female", "--height", "170", "--weight", "60",
		"--goal", "Muscle Gain", "--activity", "Very Active", "--allergies", "Gluten, None, Nuts")
	require.NoError(t, err)
	assert.Equal(t, "Account created. Signed in as Grace <grace@example.com>.\n", out)
	assert.Contains(t, errOut, "Warning: weak password")
	assert.True(t, storage.HasCredential(f.creds))

	req, ok := f.srv.LastRequest("/api/auth/register")
	require.True(t, ok)
	var body api.RegisterRequest
	require.NoError(t, json.Unmarshal(req.Body, &body))
	assert.Equal(t, "Grace", body.Name)
	assert.Equal(t, "36", body.Age)
	assert.Equal(t, "Female", body.Gender)
	assert.Equal(t, "Muscle Gain", body.Goal)
	assert.Equal(t, "Very Active", body.ActivityLevel)
	assert.Equal(t, api.Allergies{"Gluten", "Nuts"}, body.Allergies)
}

func TestRegisterCommand_Validation(t *testing.T) {
	f := newFixture(t, false)

	_, _, err := f.run(f.app("Grace\ngrace@example.com\nabc\nabd\n"), "register")
	var usage *UsageError
	require.ErrorAs(t, err, &usage)
	assert.Contains(t, err.Error(), "Passwords do not match")

	_, _, err = f.run(f.app("Grace\ngrace@example.com\nabc\nabc\n"), "register", "--gender", "Robot")
	require.ErrorAs(t, err, &usage)
	assert.Contains(t, err.Error(), "must be one of")

	_, _, err = f.run(f.app("Grace\ngrace@example.com\nabc\nabc\n"), "register", "--goal", "Maintain")
	require.ErrorAs(t, err, &usage)
	assert.Contains(t, err.Error(), "goal must be one of: Weight Loss, Maintenance, Muscle Gain")
	assert.Empty(t, f.srv.Requests())
}

func TestRegisterCommand_DuplicateEmail(t *testing.T) {
	f := newFixture(t, false)
	_, _, err := f.run(f.app("Ada\n"+f.email+"\nStrong1!Pass\nStrong1!Pass\n"), "register")
	var opErr *OpError
	require.ErrorAs(t, err, &opErr)
	assert.Contains(t, opErr.Message, "EMAIL_EXISTS")
}

func TestLogoutCommand(t *testing.T) {
	f := newFixture(t, true)
	app := f.app("")

	out, _, err := f.run(app, "logout")
	require.NoError(t, err)
	assert.Equal(t, "Signed out.\n", out)
	assert.False(t, storage.HasCredential(f.creds))

	out, _, err = f.run(app, "logout")
	require.NoError(t, err)
	assert.Equal(t, "Not signed in.\n", out)
}

func TestWhoamiCommand(t *testing.T) {
	f := newFixture(t, true)
	app := f.app("")

	out, _, err := f.run(app, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Ada")
	assert.Contains(t, out, f.email)
	assert.Contains(t, out, "Allergies")

	out, _, err = f.run(app, "whoami", "--token")
	require.NoError(t, err)
	assert.Contains(t, out, "Subject")
	assert.Contains(t, out, "Expires")
	assert.NotContains(t, out, "(expired)")
}
