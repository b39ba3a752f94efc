package command

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/nutrigen/nutri/internal/api"
	"github.com/nutrigen/nutri/internal/config"
	"github.com/nutrigen/nutri/internal/routes"
	"github.com/nutrigen/nutri/internal/state"
	"github.com/nutrigen/nutri/internal/storage"
)

// App is the state shared by the API commands: one client, one store and the
// operations bound to them.
type App struct {
	ctx      context.Context
	cfg      *config.Config
	schema   *config.ConfigSchema
	settings config.Settings
	logger   *zap.Logger
	creds    storage.CredentialStore
	client   *api.Client
	store    *state.Store
	ops      *state.Ops
	prompter Prompter
	now      func() time.Time
}

// AppOption configures an App.
type AppOption func(*appOptions)

type appOptions struct {
	creds     storage.CredentialStore
	prompter  Prompter
	clientOps []api.Option
	version   string
}

// WithCredentials replaces the file credential store.
func WithCredentials(creds storage.CredentialStore) AppOption {
	return func(o *appOptions) { o.creds = creds }
}

// WithPrompter replaces the terminal prompter.
func WithPrompter(p Prompter) AppOption {
	return func(o *appOptions) { o.prompter = p }
}

// WithClientOptions appends options to the API client.
func WithClientOptions(opts ...api.Option) AppOption {
	return func(o *appOptions) { o.clientOps = append(o.clientOps, opts...) }
}

// WithVersion sets the version reported in the User-Agent header.
func WithVersion(v string) AppOption {
	return func(o *appOptions) { o.version = v }
}

// NewApp builds the client and store described by settings.
func NewApp(ctx context.Context, cfg *config.Config, settings config.Settings, logger *zap.Logger, opts ...AppOption) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := appOptions{version: "dev"}
	for _, opt := range opts {
		opt(&o)
	}

	if o.creds == nil {
		fc, err := storage.NewFileCredentialStore(settings.CredentialFile)
		if err != nil {
			return nil, err
		}
		logger.Debug("using credential file", zap.String("path", fc.Path()))
		o.creds = fc
	}
	if o.prompter == nil {
		o.prompter = NewPrompter(os.Stdin, os.Stderr)
	}

	clientOpts := []api.Option{
		api.WithBaseURL(settings.BaseURL),
		api.WithTimeout(settings.Timeout),
		api.WithLogger(logger.Named("api")),
		api.WithUserAgent("nutri/" + o.version),
	}
	if settings.CircuitBreaker {
		clientOpts = append(clientOpts, api.WithCircuitBreaker(api.DefaultBreakerConfig("nutri-api").Settings(logger)))
	}
	client := api.NewClient(o.creds, append(clientOpts, o.clientOps...)...)

	store := state.New(o.creds, logger.Named("store"), state.WithHistoryCap(settings.HistorySize))
	return &App{
		ctx:      ctx,
		cfg:      cfg,
		schema:   config.DefaultSchema(),
		settings: settings,
		logger:   logger,
		creds:    o.creds,
		client:   client,
		store:    store,
		ops:      state.NewOps(store, state.ServicesFrom(client)),
		prompter: o.prompter,
		now:      time.Now,
	}, nil
}

// Store returns the app's store.
func (a *App) Store() *state.Store { return a.store }

// requireAuth applies the route guard of path to the current session.
func (a *App) requireAuth(path string) error {
	d := routes.Guard(routes.Resolve(path), a.store.Snapshot().Auth.IsAuthenticated)
	if d.Allow {
		return nil
	}
	return &NotSignedInError{Path: d.From}
}

// NotSignedInError is returned by commands that need a session when there is
// none.
type NotSignedInError struct {
	Path string
}

func (e *NotSignedInError) Error() string {
	return "not signed in: run 'nutri login' first"
}

// OpError is a failed operation. Its text is the message the store recorded.
type OpError struct {
	Type    string
	Message string
	Err     error
}

func (e *OpError) Error() string { return e.Message }

func (e *OpError) Unwrap() error { return e.Err }

// await waits for req and converts a failure into an OpError carrying the
// slice error selected by errOf.
func await[Out any](a *App, req *state.Request[Out], errOf func(state.State) string) (Out, error) {
	out, err := req.Wait(a.ctx)
	if err == nil {
		return out, nil
	}
	msg := errOf(a.store.Snapshot())
	if msg == "" {
		msg = api.MessageOf(err, err.Error())
	}
	a.logger.Debug("command operation failed", zap.String("type", req.Type), zap.Error(err))
	return out, &OpError{Type: req.Type, Message: msg, Err: err}
}

// Prompter reads interactive input.
type Prompter interface {
	// Line prompts for a line of text.
	Line(label string) (string, error)
	// Secret prompts without echo when input is a terminal.
	Secret(label string) (string, error)
}

type prompter struct {
	in  io.Reader
	out io.Writer
	r   *bufio.Reader
}

// NewPrompter returns a Prompter reading in and writing prompts to out.
// Secrets are read with echo disabled when in is a terminal.
func NewPrompter(in io.Reader, out io.Writer) Prompter {
	return &prompter{in: in, out: out, r: bufio.NewReader(in)}
}

func (p *prompter) Line(label string) (string, error) {
	_, _ = fmt.Fprintf(p.out, "%s: ", label)
	line, err := p.r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (p *prompter) Secret(label string) (string, error) {
	f, ok := p.in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return p.Line(label)
	}
	_, _ = fmt.Fprintf(p.out, "%s: ", label)
	b, err := term.ReadPassword(int(f.Fd()))
	_, _ = fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return string(b), nil
}
