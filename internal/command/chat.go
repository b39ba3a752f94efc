package command

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nutrigen/nutri/internal/api"
	"github.com/nutrigen/nutri/internal/routes"
	"github.com/nutrigen/nutri/internal/state"
	"github.com/nutrigen/nutri/internal/tui"
)

func coachError(s state.State) string { return s.Coach.Error }

// ChatCommand talks to the virtual coach, once or interactively.
type ChatCommand struct {
	*BaseCommand
	app *App
}

// NewChatCommand creates a new chat command.
func NewChatCommand(app *App) *ChatCommand {
	return &ChatCommand{
		BaseCommand: NewBaseCommand("chat", "Ask the virtual nutrition coach", "chat [message...]"),
		app:         app,
	}
}

// Execute sends args as one question, or starts a conversation when there
// are none. In a conversation /new starts over and /quit (or end of input)
// leaves.
func (c *ChatCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if err := c.app.requireAuth(routes.Coach); err != nil {
		return err
	}
	if len(args) > 0 {
		return c.ask(strings.Join(args, " "), stdout)
	}

	_, _ = fmt.Fprintln(stdout, "Chatting with your coach. Type /new to start over, /quit to leave.")
	_, _ = fmt.Fprintln(stdout, "Try asking:")
	for _, q := range tui.SuggestedQuestions {
		_, _ = fmt.Fprintf(stdout, "  - %s\n", q)
	}
	for {
		line, err := c.app.prompter.Line("You")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		switch text := strings.TrimSpace(line); text {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/new":
			c.app.store.Dispatch(state.ResetChat{})
			_, _ = fmt.Fprintln(stdout, "Started a new conversation.")
		default:
			if err := c.ask(text, stdout); err != nil {
				var opErr *OpError
				if !errors.As(err, &opErr) {
					return err
				}
			}
		}
	}
}

// ask sends text and prints the coach's reply. A failed send still prints
// the apology the coach slice appended.
func (c *ChatCommand) ask(text string, stdout io.Writer) error {
	_, err := await(c.app, c.app.ops.Ask(c.app.ctx, text), coachError)
	history := c.app.store.Snapshot().Coach.History
	if n := len(history); n > 0 && history[n-1].Role == api.RoleAssistant {
		_, _ = fmt.Fprintf(stdout, "Coach: %s\n", history[n-1].Content)
	}
	return err
}
