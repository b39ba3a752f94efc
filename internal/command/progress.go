package command

import (
	"fmt"
	"io"

	"github.com/nutrigen/nutri/internal/routes"
	"github.com/nutrigen/nutri/internal/state"
)

func progressError(s state.State) string { return s.Progress.Error }

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

// LogMealCommand records today's meal.
type LogMealCommand struct {
	*BaseCommand
	app *App
}

// NewLogMealCommand creates a new log-meal command.
func NewLogMealCommand(app *App) *LogMealCommand {
	return &LogMealCommand{
		BaseCommand: NewBaseCommand("log-meal", "Log today's meal and extend your streak", "log-meal"),
		app:         app,
	}
}

// Execute logs the meal and prints the updated streak.
func (c *LogMealCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if err := c.app.requireAuth(routes.Dashboard); err != nil {
		return err
	}
	if _, err := await(c.app, c.app.ops.LogMeal(c.app.ctx), progressError); err != nil {
		return err
	}
	p := c.app.store.Snapshot().Progress
	_, _ = fmt.Fprintln(stdout, p.Notice)
	_, _ = fmt.Fprintf(stdout, "Current streak: %s\n", days(p.Streak))
	return nil
}

// StreakCommand shows the logging streak.
type StreakCommand struct {
	*BaseCommand
	app *App
}

// NewStreakCommand creates a new streak command.
func NewStreakCommand(app *App) *StreakCommand {
	return &StreakCommand{
		BaseCommand: NewBaseCommand("streak", "Show your meal logging streak", "streak"),
		app:         app,
	}
}

// Execute fetches and prints the streak.
func (c *StreakCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if err := c.app.requireAuth(routes.Dashboard); err != nil {
		return err
	}
	if _, err := await(c.app, c.app.ops.FetchStreak(c.app.ctx), progressError); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(stdout, "Current streak: %s\n", days(c.app.store.Snapshot().Progress.Streak))
	return nil
}
