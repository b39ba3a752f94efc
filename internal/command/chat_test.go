package command

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrigen/nutri/internal/api"
	"github.com/nutrigen/nutri/internal/tui"
)

func TestChatCommand_OneShot(t *testing.T) {
	f := newFixture(t, true)

	out, _, err := f.run(f.app(""), "chat", "how", "much", "protein?")
	require.NoError(t, err)
	assert.Equal(t, "Coach: You said: how much protein?\n", out)
}

func TestChatCommand_Conversation(t *testing.T) {
	f := newFixture(t, true)
	var (
		mu   sync.Mutex
		seen []int
	)
	f.srv.Reply = func(messages []api.Message) string {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, len(messages))
		return "ok " + messages[len(messages)-1].Content
	}
	app := f.app("first\n\nsecond\n/new\nthird\n/quit\nignored\n")

	out, _, err := f.run(app, "chat")
	require.NoError(t, err)
	assert.Contains(t, out, tui.SuggestedQuestions[0])
	assert.Contains(t, out, "Coach: ok first\n")
	assert.Contains(t, out, "Coach: ok second\n")
	assert.Contains(t, out, "Started a new conversation.\n")
	assert.NotContains(t, out, "ignored")

	// second carries the first exchange; /new starts the history over.
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{1, 3, 1}, seen)
}

func TestChatCommand_FailureKeepsGoing(t *testing.T) {
	f := newFixture(t, true)
	f.srv.Fail("POST", "/api/chat", 500, `{"error":"model overloaded"}`)
	app := f.app("hello\n")

	out, _, err := f.run(app, "chat")
	require.NoError(t, err, "end of input ends the conversation")
	assert.Contains(t, out, "Coach: Sorry, something went wrong. Please try again.")
	assert.Equal(t, 1, strings.Count(out, "Coach:"))
}
