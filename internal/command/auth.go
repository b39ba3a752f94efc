package command

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/nutrigen/nutri/internal/api"
	"github.com/nutrigen/nutri/internal/forms"
	"github.com/nutrigen/nutri/internal/routes"
	"github.com/nutrigen/nutri/internal/state"
	"github.com/nutrigen/nutri/internal/storage"
)

func authError(s state.State) string { return s.Auth.Error }

// validationError turns a form failure into a usage error.
func validationError(err error) error {
	var invalid *forms.ValidationError
	if errors.As(err, &invalid) {
		return &UsageError{Message: invalid.Error()}
	}
	return err
}

// LoginCommand signs in and stores the session token.
type LoginCommand struct {
	*BaseCommand
	app   *App
	email string
}

// NewLoginCommand creates a new login command.
func NewLoginCommand(app *App) *LoginCommand {
	return &LoginCommand{
		BaseCommand: NewBaseCommand("login", "Sign in to your account", "login [--email address]"),
		app:         app,
	}
}

// SetupFlags configures the flags for the login command.
func (c *LoginCommand) SetupFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "Account email (prompted when empty)")
}

// Execute prompts for missing credentials and signs in.
func (c *LoginCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 {
		return usageErrorf("unexpected arguments: %v", args)
	}
	email := c.email
	if email == "" {
		var err error
		if email, err = c.app.prompter.Line("Email"); err != nil {
			return err
		}
	}
	password, err := c.app.prompter.Secret("Password")
	if err != nil {
		return err
	}

	form := forms.Login{Email: email, Password: password}
	if err := forms.Validate(form); err != nil {
		return validationError(err)
	}
	if _, err := await(c.app, c.app.ops.Login(c.app.ctx, strings.TrimSpace(form.Email), form.Password), authError); err != nil {
		return err
	}

	u := c.app.store.Snapshot().Auth.User
	_, _ = fmt.Fprintf(stdout, "Signed in as %s.\n", displayName(u))
	return nil
}

// RegisterCommand creates an account and signs in.
type RegisterCommand struct {
	*BaseCommand
	app  *App
	form forms.Register

	allergies string
}

// NewRegisterCommand creates a new register command.
func NewRegisterCommand(app *App) *RegisterCommand {
	return &RegisterCommand{
		BaseCommand: NewBaseCommand("register", "Create an account", "register [--name name] [--email address] [health options]"),
		app:         app,
	}
}

// SetupFlags configures the flags for the register command.
func (c *RegisterCommand) SetupFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.form.Name, "name", "", "Full name (prompted when empty)")
	fs.StringVar(&c.form.Email, "email", "", "Account email (prompted when empty)")
	fs.StringVar(&c.form.Age, "age", "", "Age in years")
	fs.StringVar(&c.form.Gender, "gender", "", "One of: "+strings.Join(forms.GenderOptions, ", "))
	fs.StringVar(&c.form.Height, "height", "", "Height in cm")
	fs.StringVar(&c.form.Weight, "weight", "", "Weight in kg")
	fs.StringVar(&c.form.DietPreference, "diet", "", "One of: "+strings.Join(forms.DietOptions, ", "))
	fs.StringVar(&c.form.Goal, "goal", "", "One of: "+strings.Join(forms.GoalOptions, ", "))
	fs.StringVar(&c.form.ActivityLevel, "activity", "", "One of: "+strings.Join(forms.ActivityLevelOptions, ", "))
	fs.StringVar(&c.allergies, "allergies", "", "Comma-separated allergies, e.g. Gluten,Nuts")
}

// Execute prompts for missing fields, validates and registers.
func (c *RegisterCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 {
		return usageErrorf("unexpected arguments: %v", args)
	}
	form := c.form
	var err error
	if form.Name == "" {
		if form.Name, err = c.app.prompter.Line("Name"); err != nil {
			return err
		}
	}
	if form.Email == "" {
		if form.Email, err = c.app.prompter.Line("Email"); err != nil {
			return err
		}
	}
	if form.Password, err = c.app.prompter.Secret("Password"); err != nil {
		return err
	}
	if form.ConfirmPassword, err = c.app.prompter.Secret("Confirm password"); err != nil {
		return err
	}
	form.Allergies = api.ParseAllergies(c.allergies)

	if err := forms.Validate(form); err != nil {
		return validationError(err)
	}
	if checks := forms.CheckPassword(form.Password); checks.Label() == "Weak" {
		_, _ = fmt.Fprintf(stderr, "Warning: weak password (%d/5 criteria met)\n", checks.Strength())
	}
	if _, err := await(c.app, c.app.ops.Register(c.app.ctx, form.Request()), authError); err != nil {
		return err
	}

	u := c.app.store.Snapshot().Auth.User
	_, _ = fmt.Fprintf(stdout, "Account created. Signed in as %s.\n", displayName(u))
	return nil
}

// LogoutCommand deletes the stored session.
type LogoutCommand struct {
	*BaseCommand
	app *App
}

// NewLogoutCommand creates a new logout command.
func NewLogoutCommand(app *App) *LogoutCommand {
	return &LogoutCommand{
		BaseCommand: NewBaseCommand("logout", "Sign out and forget the stored session", "logout"),
		app:         app,
	}
}

// Execute signs out.
func (c *LogoutCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if !c.app.store.Snapshot().Auth.IsAuthenticated {
		_, _ = fmt.Fprintln(stdout, "Not signed in.")
		return nil
	}
	if _, err := await(c.app, c.app.ops.Logout(c.app.ctx), authError); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(stdout, "Signed out.")
	return nil
}

// WhoamiCommand shows the signed-in profile.
type WhoamiCommand struct {
	*BaseCommand
	app   *App
	token bool
}

// NewWhoamiCommand creates a new whoami command.
func NewWhoamiCommand(app *App) *WhoamiCommand {
	return &WhoamiCommand{
		BaseCommand: NewBaseCommand("whoami", "Show your profile and health details", "whoami [--token]"),
		app:         app,
	}
}

// SetupFlags configures the flags for the whoami command.
func (c *WhoamiCommand) SetupFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.token, "token", false, "Show the claims of the stored token instead of calling the server")
}

// Execute prints the profile, or the token claims with --token.
func (c *WhoamiCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if err := c.app.requireAuth(routes.Profile); err != nil {
		return err
	}
	if c.token {
		return c.printToken(stdout)
	}
	if _, err := await(c.app, c.app.ops.LoadUser(c.app.ctx), authError); err != nil {
		return err
	}
	printProfile(stdout, c.app.store.Snapshot().Auth.User)
	return nil
}

func (c *WhoamiCommand) printToken(stdout io.Writer) error {
	token, err := c.app.creds.Load()
	if err != nil {
		return fmt.Errorf("failed to read credential: %w", err)
	}
	info, err := storage.InspectToken(token)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(stdout, 0, 8, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Subject\t%s\n", orNone(info.Subject))
	_, _ = fmt.Fprintf(w, "UID\t%s\n", orNone(info.UID))
	_, _ = fmt.Fprintf(w, "Issued\t%s\n", formatTime(info.IssuedAt))
	expires := formatTime(info.ExpiresAt)
	if info.Expired(c.app.now()) {
		expires += " (expired)"
	}
	_, _ = fmt.Fprintf(w, "Expires\t%s\n", expires)
	return w.Flush()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func displayName(u *api.User) string {
	switch {
	case u == nil:
		return "unknown user"
	case u.Name != "" && u.Email != "":
		return fmt.Sprintf("%s <%s>", u.Name, u.Email)
	case u.Name != "":
		return u.Name
	default:
		return orNone(u.Email)
	}
}

func printProfile(stdout io.Writer, u *api.User) {
	if u == nil {
		_, _ = fmt.Fprintln(stdout, "No profile loaded.")
		return
	}
	h := u.HealthDetails
	w := tabwriter.NewWriter(stdout, 0, 8, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Name\t%s\n", orNone(u.Name))
	_, _ = fmt.Fprintf(w, "Email\t%s\n", orNone(u.Email))
	_, _ = fmt.Fprintf(w, "Age\t%s\n", orNone(string(h.Age)))
	_, _ = fmt.Fprintf(w, "Gender\t%s\n", orNone(h.Gender))
	_, _ = fmt.Fprintf(w, "Height\t%s\n", withUnit(h.Height, "cm"))
	_, _ = fmt.Fprintf(w, "Weight\t%s\n", withUnit(h.Weight, "kg"))
	_, _ = fmt.Fprintf(w, "Diet\t%s\n", orNone(h.DietPreference))
	_, _ = fmt.Fprintf(w, "Goal\t%s\n", orNone(h.Goal))
	_, _ = fmt.Fprintf(w, "Activity level\t%s\n", orNone(h.ActivityLevel))
	_, _ = fmt.Fprintf(w, "Allergies\t%s\n", orNone(h.Allergies.String()))
	_ = w.Flush()
}

func withUnit(m api.Measure, unit string) string {
	if _, ok := m.Float(); ok {
		return string(m) + " " + unit
	}
	return orNone(string(m))
}
