package command

import (
	"flag"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nutrigen/nutri/internal/config"
	"github.com/nutrigen/nutri/internal/tui"
)

// UICommand starts the full-screen interface.
type UICommand struct {
	*BaseCommand
	app         *App
	start       string
	noAltScreen bool
}

// NewUICommand creates a new ui command.
func NewUICommand(app *App) *UICommand {
	return &UICommand{
		BaseCommand: NewBaseCommand("ui", "Open the interactive terminal interface", "ui [--start path] [--no-alt-screen]"),
		app:         app,
	}
}

// SetupFlags configures the flags for the ui command.
func (c *UICommand) SetupFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.start, "start", "", "Route to open first, e.g. /coach (default from [ui] start)")
	fs.BoolVar(&c.noAltScreen, "no-alt-screen", false, "Render inline instead of on the alternate screen")
}

// Execute runs the interface until the user quits.
func (c *UICommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 {
		return usageErrorf("unexpected arguments: %v", args)
	}
	m := c.model()

	opts := []tea.ProgramOption{tea.WithOutput(stdout)}
	if c.altScreen() {
		opts = append(opts, tea.WithAltScreen())
	}
	return tui.Run(c.app.ctx, m, opts...)
}

func (c *UICommand) model() *tui.Model {
	start := c.start
	if start == "" {
		start = c.app.schema.ResolveCommand(c.app.cfg, "ui", "start")
	}
	return tui.New(c.app.store, c.app.ops,
		tui.WithStartPath(start),
		tui.WithLogger(c.app.logger.Named("tui")),
		tui.WithContext(c.app.ctx),
	)
}

func (c *UICommand) altScreen() bool {
	if c.noAltScreen {
		return false
	}
	v, err := config.ParseBool(c.app.schema.ResolveCommand(c.app.cfg, "ui", "alt-screen"))
	return err != nil || v
}
