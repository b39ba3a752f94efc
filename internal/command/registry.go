package command

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
)

// Registry holds the available commands by name.
type Registry struct {
	commands map[string]Command
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

// Register adds cmd, replacing any command of the same name.
func (r *Registry) Register(cmd Command) {
	r.commands[cmd.Name()] = cmd
}

// Get returns a command by name.
func (r *Registry) Get(name string) (Command, error) {
	if cmd, exists := r.commands[name]; exists {
		return cmd, nil
	}
	return nil, fmt.Errorf("command not found: %s", name)
}

// List returns the command names, sorted.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run parses args for the named command and executes it. -h prints the
// command usage and returns nil.
func (r *Registry) Run(name string, args []string, stdout, stderr io.Writer) error {
	cmd, err := r.Get(name)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Unknown command: %s\n", name)
		_, _ = fmt.Fprintln(stderr, "Use 'nutri help' to see available commands.")
		return err
	}

	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		_, _ = fmt.Fprintf(stderr, "Usage: nutri %s\n", cmd.Usage())
		_, _ = fmt.Fprintf(stderr, "\n%s\n", cmd.Description())
		if defaults := flagDefaults(cmd); defaults != "" {
			_, _ = fmt.Fprintf(stderr, "\nOptions:\n%s", defaults)
		}
	}
	cmd.SetupFlags(fs)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return &UsageError{Message: err.Error()}
	}
	return cmd.Execute(fs.Args(), stdout, stderr)
}

// flagDefaults renders the flags of cmd on a scratch FlagSet.
func flagDefaults(cmd Command) string {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	buf := &bytes.Buffer{}
	fs.SetOutput(buf)
	cmd.SetupFlags(fs)
	fs.PrintDefaults()
	return buf.String()
}
