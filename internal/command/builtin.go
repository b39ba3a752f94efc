package command

import (
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/nutrigen/nutri/internal/config"
)

// HelpCommand displays help information for commands.
type HelpCommand struct {
	*BaseCommand
	registry *Registry
}

// NewHelpCommand creates a new help command.
func NewHelpCommand(registry *Registry) *HelpCommand {
	return &HelpCommand{
		BaseCommand: NewBaseCommand(
			"help",
			"Display help information for commands",
			"help [command]",
		),
		registry: registry,
	}
}

// Execute displays help information.
func (c *HelpCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		_, _ = fmt.Fprintln(stdout, "nutri - AI nutrition planning from your terminal")
		_, _ = fmt.Fprintln(stdout, "")
		_, _ = fmt.Fprintln(stdout, "Usage: nutri [--log-level level] [--log-file path] [-v] <command> [options] [args...]")
		_, _ = fmt.Fprintln(stdout, "")
		_, _ = fmt.Fprintln(stdout, "Available commands:")

		w := tabwriter.NewWriter(stdout, 0, 8, 2, ' ', 0)
		for _, name := range c.registry.List() {
			if cmd, err := c.registry.Get(name); err == nil {
				_, _ = fmt.Fprintf(w, "  %s\t%s\n", name, cmd.Description())
			}
		}
		_ = w.Flush()

		_, _ = fmt.Fprintln(stdout, "")
		_, _ = fmt.Fprintln(stdout, "Use 'nutri help <command>' for more information about a specific command (includes flags).")
		return nil
	}

	cmdName := args[0]
	cmd, err := c.registry.Get(cmdName)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Unknown command: %s\n", cmdName)
		return err
	}

	_, _ = fmt.Fprintf(stdout, "Command: %s\n", cmd.Name())
	_, _ = fmt.Fprintf(stdout, "Description: %s\n", cmd.Description())
	_, _ = fmt.Fprintf(stdout, "Usage: nutri %s\n", cmd.Usage())

	if defaults := flagDefaults(cmd); defaults != "" {
		_, _ = fmt.Fprintln(stdout, "")
		_, _ = fmt.Fprintln(stdout, "Flags:")
		_, _ = fmt.Fprint(stdout, defaults)
	}
	return nil
}

// VersionCommand displays version information.
type VersionCommand struct {
	*BaseCommand
	version string
}

// NewVersionCommand creates a new version command.
func NewVersionCommand(version string) *VersionCommand {
	return &VersionCommand{
		BaseCommand: NewBaseCommand(
			"version",
			"Display version information",
			"version",
		),
		version: version,
	}
}

// Execute displays version information.
func (c *VersionCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 {
		return usageErrorf("unexpected arguments: %v", args)
	}
	_, _ = fmt.Fprintf(stdout, "nutri version %s\n", c.version)
	return nil
}

// ConfigCommand reads, writes and checks configuration.
type ConfigCommand struct {
	*BaseCommand
	config     *config.Config
	schema     *config.ConfigSchema
	configPath string
	showAll    bool
}

// NewConfigCommand creates a new config command. An empty configPath skips
// persisting to disk.
func NewConfigCommand(cfg *config.Config, configPath string) *ConfigCommand {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &ConfigCommand{
		BaseCommand: NewBaseCommand(
			"config",
			"Manage configuration settings",
			"config [--all] [key [value] | validate | schema]",
		),
		config:     cfg,
		schema:     config.DefaultSchema(),
		configPath: configPath,
	}
}

// SetupFlags configures the flags for the config command.
func (c *ConfigCommand) SetupFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.showAll, "all", false, "Show the effective value of every known option")
}

// Execute manages configuration.
func (c *ConfigCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		if c.showAll {
			c.printEffective(stdout)
			return nil
		}
		_, _ = fmt.Fprintln(stdout, "Configuration management:")
		_, _ = fmt.Fprintln(stdout, "  config <key>          - Get the effective value")
		_, _ = fmt.Fprintln(stdout, "  config <key> <value>  - Set a value in the config file")
		_, _ = fmt.Fprintln(stdout, "  config --all          - Show every option")
		_, _ = fmt.Fprintln(stdout, "  config validate       - Validate configuration")
		_, _ = fmt.Fprintln(stdout, "  config schema         - Show configuration schema")
		return nil
	}

	switch args[0] {
	case "validate":
		return c.executeValidate(stdout)
	case "schema":
		_, _ = fmt.Fprint(stdout, c.schema.FormatHelp())
		return nil
	}

	switch len(args) {
	case 1:
		key := args[0]
		if !c.schema.IsKnown("", key) {
			if _, ok := c.config.GetGlobalOption(key); !ok {
				_, _ = fmt.Fprintf(stdout, "Configuration key '%s' not found\n", key)
				return nil
			}
		}
		_, _ = fmt.Fprintf(stdout, "%s: %s\n", key, c.schema.Resolve(c.config, key))
		return nil

	case 2:
		key, value := args[0], args[1]
		if opt := c.schema.Lookup("", key); opt == nil {
			_, _ = fmt.Fprintf(stderr, "Warning: %q is not a known option\n", key)
		} else if err := config.ValidateValue(opt.Type, value); err != nil {
			return usageErrorf("invalid value for %s: %v", key, err)
		}
		c.config.SetGlobalOption(key, value)

		if c.configPath != "" {
			if err := config.SetKeyInFile(c.configPath, key, value); err != nil {
				_, _ = fmt.Fprintf(stderr, "Warning: failed to persist config to disk: %v\n", err)
			}
		}
		_, _ = fmt.Fprintf(stdout, "Set configuration: %s = %s\n", key, value)
		return nil
	}

	return usageErrorf("invalid number of arguments")
}

func (c *ConfigCommand) printEffective(stdout io.Writer) {
	w := tabwriter.NewWriter(stdout, 0, 8, 2, ' ', 0)
	for _, opt := range c.schema.SectionOptions("") {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", opt.Key, c.schema.Resolve(c.config, opt.Key))
	}
	for _, section := range c.schema.Sections() {
		_, _ = fmt.Fprintf(w, "[%s]\t\n", section)
		for _, opt := range c.schema.SectionOptions(section) {
			_, _ = fmt.Fprintf(w, "  %s\t%s\n", opt.Key, c.schema.ResolveCommand(c.config, section, opt.Key))
		}
	}
	_ = w.Flush()
}

// executeValidate validates the current config against the schema.
func (c *ConfigCommand) executeValidate(stdout io.Writer) error {
	issues := config.ValidateConfig(c.config, c.schema)
	if len(issues) == 0 {
		_, _ = fmt.Fprintln(stdout, "Configuration is valid.")
		return nil
	}
	_, _ = fmt.Fprintf(stdout, "Configuration has %d issue(s):\n", len(issues))
	for _, issue := range issues {
		_, _ = fmt.Fprintf(stdout, "  - %s\n", issue)
	}
	return fmt.Errorf("configuration has %d issue(s)", len(issues))
}
