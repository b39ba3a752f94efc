package config

import (
	"fmt"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// OptionType represents the expected type of a configuration option value.
type OptionType string

const (
	// TypeString is a plain string value (the default for all config values).
	TypeString OptionType = "string"
	// TypeBool is a boolean value (true/false/yes/no/1/0/on/off).
	TypeBool OptionType = "bool"
	// TypeInt is an integer value.
	TypeInt OptionType = "int"
	// TypeDuration is a Go time.Duration value (e.g. "30s", "5m", "1h").
	TypeDuration OptionType = "duration"
	// TypeURL is an absolute http or https URL.
	TypeURL OptionType = "url"
)

// ConfigOption declares a single configuration option with its type, default,
// documentation, and environment variable override.
type ConfigOption struct {
	// Key is the option name as it appears in the config file (kebab-case).
	Key string
	// Type is the expected value type for validation.
	Type OptionType
	// Default is the default value as a string, or "" for no default.
	Default string
	// Description is a human-readable description of the option.
	Description string
	// Section is "" for global options, or a command name.
	Section string
	// EnvVar is the environment variable that overrides this option, or "".
	EnvVar string
}

// ConfigSchema declares the expected configuration options. It drives
// validation, documentation, and env var resolution.
type ConfigSchema struct {
	options   []*ConfigOption
	byKey     map[string]*ConfigOption
	bySection map[string]map[string]*ConfigOption
}

// NewSchema creates a new empty ConfigSchema.
func NewSchema() *ConfigSchema {
	return &ConfigSchema{
		byKey:     make(map[string]*ConfigOption),
		bySection: make(map[string]map[string]*ConfigOption),
	}
}

// Register adds a ConfigOption to the schema. The last registration of a key
// within a section wins.
func (s *ConfigSchema) Register(opt ConfigOption) {
	ref := &opt
	s.options = append(s.options, ref)
	if opt.Section == "" {
		s.byKey[opt.Key] = ref
		return
	}
	if s.bySection[opt.Section] == nil {
		s.bySection[opt.Section] = make(map[string]*ConfigOption)
	}
	s.bySection[opt.Section][opt.Key] = ref
}

// RegisterAll adds multiple ConfigOptions to the schema.
func (s *ConfigSchema) RegisterAll(opts []ConfigOption) {
	for _, opt := range opts {
		s.Register(opt)
	}
}

// Lookup returns the ConfigOption for a key in a given section ("" for global),
// or nil.
func (s *ConfigSchema) Lookup(section, key string) *ConfigOption {
	if section == "" {
		return s.byKey[key]
	}
	return s.bySection[section][key]
}

// IsKnown returns true if the key is registered in the given section. Global
// keys are known in every section.
func (s *ConfigSchema) IsKnown(section, key string) bool {
	return s.Lookup(section, key) != nil || s.byKey[key] != nil
}

// SectionOptions returns all registered options for a section ("" for global),
// in registration order.
func (s *ConfigSchema) SectionOptions(section string) []ConfigOption {
	var out []ConfigOption
	for _, o := range s.options {
		if o.Section == section {
			out = append(out, *o)
		}
	}
	return out
}

// Sections returns the sorted names of all non-global sections.
func (s *ConfigSchema) Sections() []string {
	out := make([]string, 0, len(s.bySection))
	for sec := range s.bySection {
		out = append(out, sec)
	}
	sort.Strings(out)
	return out
}

// Resolve returns the effective value for a global key: the schema's
// environment variable, then the config value, then the schema default.
func (s *ConfigSchema) Resolve(c *Config, key string) string {
	opt := s.Lookup("", key)
	if opt != nil && opt.EnvVar != "" {
		if v, ok := os.LookupEnv(opt.EnvVar); ok {
			return v
		}
	}
	if c != nil {
		if v, ok := c.GetGlobalOption(key); ok {
			return v
		}
	}
	if opt != nil {
		return opt.Default
	}
	return ""
}

// ResolveCommand returns the effective value of key for command: the command
// section, then the global option (see Resolve), then the section default.
func (s *ConfigSchema) ResolveCommand(c *Config, command, key string) string {
	if c != nil {
		if v, ok := c.Commands[command][key]; ok {
			return v
		}
	}
	if v := s.Resolve(c, key); v != "" {
		return v
	}
	if opt := s.Lookup(command, key); opt != nil {
		return opt.Default
	}
	return ""
}

// ValidateConfig checks a loaded Config against the schema and returns sorted,
// human-readable issues: unknown options and type mismatches.
func ValidateConfig(c *Config, s *ConfigSchema) []string {
	var issues []string

	for key, value := range c.Global {
		opt := s.Lookup("", key)
		if opt == nil {
			issues = append(issues, fmt.Sprintf("unknown global option: %q (value: %q)", key, value))
			continue
		}
		if err := validateType(opt.Type, value); err != nil {
			issues = append(issues, fmt.Sprintf("global option %q: %v", key, err))
		}
	}

	for section, opts := range c.Commands {
		for key, value := range opts {
			opt := s.Lookup(section, key)
			if opt == nil {
				opt = s.Lookup("", key)
			}
			if opt == nil {
				issues = append(issues, fmt.Sprintf("unknown option for command %q: %q (value: %q)", section, key, value))
				continue
			}
			if err := validateType(opt.Type, value); err != nil {
				issues = append(issues, fmt.Sprintf("option %q in [%s]: %v", key, section, err))
			}
		}
	}

	sort.Strings(issues)
	return issues
}

// ValidateValue checks value against t.
func ValidateValue(t OptionType, value string) error {
	return validateType(t, value)
}

func validateType(t OptionType, value string) error {
	switch t {
	case TypeString, "":
		return nil
	case TypeBool:
		if _, err := parseBool(value); err != nil {
			return fmt.Errorf("expected bool, got %q", value)
		}
	case TypeInt:
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Errorf("expected int, got %q", value)
		}
	case TypeDuration:
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("expected duration, got %q", value)
		}
	case TypeURL:
		if value == "" {
			return nil
		}
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("expected http(s) URL, got %q", value)
		}
	default:
		return fmt.Errorf("unknown option type %q", t)
	}
	return nil
}

// GetString returns the global option value for key, or "" if not set.
func (c *Config) GetString(key string) string {
	v, _ := c.GetGlobalOption(key)
	return v
}

// GetBool returns the global option value for key parsed as a boolean, or
// false if unset or malformed.
func (c *Config) GetBool(key string) bool {
	b, err := parseBool(c.GetString(key))
	return err == nil && b
}

// GetInt returns the global option value for key parsed as an integer, or 0.
func (c *Config) GetInt(key string) int {
	i, _ := strconv.Atoi(c.GetString(key))
	return i
}

// GetDuration returns the global option value for key parsed as a
// time.Duration, or 0.
func (c *Config) GetDuration(key string) time.Duration {
	d, _ := time.ParseDuration(c.GetString(key))
	return d
}

// FormatHelp returns a human-readable reference of all registered options,
// grouped by section.
func (s *ConfigSchema) FormatHelp() string {
	var b strings.Builder
	if globals := s.SectionOptions(""); len(globals) > 0 {
		b.WriteString("Global Options:\n")
		for _, o := range globals {
			writeOptionHelp(&b, o)
		}
	}
	for _, sec := range s.Sections() {
		opts := s.SectionOptions(sec)
		if len(opts) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n[%s] Options:\n", sec)
		for _, o := range opts {
			writeOptionHelp(&b, o)
		}
	}
	return b.String()
}

func writeOptionHelp(b *strings.Builder, o ConfigOption) {
	fmt.Fprintf(b, "  %-28s %s", o.Key, o.Description)
	parts := make([]string, 0, 3)
	if o.Type != "" && o.Type != TypeString {
		parts = append(parts, "type: "+string(o.Type))
	}
	if o.Default != "" {
		parts = append(parts, "default: "+o.Default)
	}
	if o.EnvVar != "" {
		parts = append(parts, "env: "+o.EnvVar)
	}
	if len(parts) > 0 {
		fmt.Fprintf(b, " (%s)", strings.Join(parts, ", "))
	}
	b.WriteString("\n")
}

// DefaultSchema returns the schema of every nutri configuration option.
func DefaultSchema() *ConfigSchema {
	s := NewSchema()
	s.RegisterAll([]ConfigOption{
		{Key: "api.base-url", Type: TypeURL, Default: "https://nutri-gen-3.onrender.com", Description: "Base URL of the nutrition API", EnvVar: "NUTRI_API_URL"},
		{Key: "api.timeout", Type: TypeDuration, Default: "30s", Description: "HTTP request timeout", EnvVar: "NUTRI_API_TIMEOUT"},
		{Key: "api.circuit-breaker", Type: TypeBool, Default: "false", Description: "Stop calling the API after repeated server failures"},
		{Key: "credential.file", Type: TypeString, Default: "", Description: "Session credential file (default ~/.nutri/credential)", EnvVar: "NUTRI_CREDENTIAL_FILE"},
		{Key: "log.level", Type: TypeString, Default: "info", Description: "Log level: debug, info, warn, error", EnvVar: "NUTRI_LOG_LEVEL"},
		{Key: "log.file", Type: TypeString, Default: "", Description: "Log file path (JSON lines)", EnvVar: "NUTRI_LOG_FILE"},
		{Key: "nutrition.history-size", Type: TypeInt, Default: "10", Description: "Food search history entries kept"},

		{Key: "day", Section: "plan", Type: TypeString, Default: "", Description: "Day shown by default (e.g. Monday)"},
		{Key: "start", Section: "ui", Type: TypeString, Default: "/", Description: "Route opened on start"},
		{Key: "alt-screen", Section: "ui", Type: TypeBool, Default: "true", Description: "Use the terminal's alternate screen"},
	})
	return s
}
