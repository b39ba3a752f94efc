package command

import "github.com/nutrigen/nutri/internal/config"

// NewDefaultRegistry returns a registry holding every nutri command. The API
// commands share app.
func NewDefaultRegistry(app *App, cfg *config.Config, configPath, version string) (*Registry, *HelpCommand) {
	r := NewRegistry()
	help := NewHelpCommand(r)
	r.Register(help)
	r.Register(NewVersionCommand(version))
	r.Register(NewConfigCommand(cfg, configPath))

	r.Register(NewLoginCommand(app))
	r.Register(NewRegisterCommand(app))
	r.Register(NewLogoutCommand(app))
	r.Register(NewWhoamiCommand(app))
	r.Register(NewPlanCommand(app))
	r.Register(NewSearchCommand(app))
	r.Register(NewFoodCommand(app))
	r.Register(NewScanCommand(app))
	r.Register(NewChatCommand(app))
	r.Register(NewLogMealCommand(app))
	r.Register(NewStreakCommand(app))
	r.Register(NewUICommand(app))
	return r, help
}
