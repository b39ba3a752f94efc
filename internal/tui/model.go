// Package tui is the full-screen terminal front end. Each route of the route
// table is a page; pages render from the latest store snapshot and dispatch
// operations through state.Ops.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/nutrigen/nutri/internal/routes"
	"github.com/nutrigen/nutri/internal/state"
)

// DefaultBannerDuration is how long dashboard banners stay up.
const DefaultBannerDuration = 3 * time.Second

// env is shared by the root model and every page.
type env struct {
	ctx     context.Context
	store   *state.Store
	ops     *state.Ops
	logger  *zap.Logger
	snap    state.State
	spinner spinner.Model
	width   int
	height  int

	bannerDuration time.Duration
}

// page is one screen. Pages are created fresh on every navigation.
type page interface {
	// enter runs once when the page becomes current.
	enter() tea.Cmd
	update(msg tea.Msg) tea.Cmd
	view() string
	// typing reports whether printable keys belong to a text field.
	typing() bool
}

// stateMsg carries a new store snapshot.
type stateMsg state.State

// navigateMsg asks the root model to change route.
type navigateMsg struct{ path string }

// Navigate returns a command that moves to path through the route guard.
func Navigate(path string) tea.Cmd {
	return func() tea.Msg { return navigateMsg{path: path} }
}

// Option configures a Model.
type Option func(*Model)

// WithStartPath sets the route shown first.
func WithStartPath(path string) Option {
	return func(m *Model) { m.start = path }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.env.logger = logger
		}
	}
}

// WithBannerDuration sets how long dashboard banners stay up.
func WithBannerDuration(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.env.bannerDuration = d
		}
	}
}

// WithContext sets the context operations are dispatched with.
func WithContext(ctx context.Context) Option {
	return func(m *Model) {
		if ctx != nil {
			m.env.ctx = ctx
		}
	}
}

// Model is the root bubbletea model.
type Model struct {
	env   *env
	start string
	route routes.Route
	from  string
	page  page

	sub         <-chan state.State
	unsubscribe func()
}

// New returns the root model showing the start route (by default "/").
func New(store *state.Store, ops *state.Ops, opts ...Option) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle

	m := &Model{
		env: &env{
			ctx:            context.Background(),
			store:          store,
			ops:            ops,
			logger:         zap.NewNop(),
			snap:           store.Snapshot(),
			spinner:        sp,
			width:          80,
			height:         24,
			bannerDuration: DefaultBannerDuration,
		},
		start: routes.Landing,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.switchTo(m.start)
	return m
}

// Route returns the current route.
func (m *Model) Route() routes.Route { return m.route }

// From returns the protected path the login page will return to.
func (m *Model) From() string { return m.from }

// Init subscribes to the store and enters the start page.
func (m *Model) Init() tea.Cmd {
	m.sub, m.unsubscribe = m.env.store.Subscribe()
	return tea.Batch(m.waitForState(), m.env.spinner.Tick, m.page.enter())
}

// Close drops the store subscription.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

func (m *Model) waitForState() tea.Cmd {
	ch := m.sub
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return stateMsg(s)
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.env.width, m.env.height = msg.Width, msg.Height
		return m, m.page.update(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.env.spinner, cmd = m.env.spinner.Update(msg)
		return m, cmd

	case stateMsg:
		return m, tea.Batch(m.applyState(state.State(msg)), m.waitForState())

	case navigateMsg:
		return m, m.navigate(msg.path)

	case tea.KeyMsg:
		if cmd, ok := m.globalKey(msg); ok {
			return m, cmd
		}
	}
	return m, m.page.update(msg)
}

// applyState stores a snapshot and follows authentication changes: losing
// the session on a protected page goes through the guard again, and signing
// in on an auth page moves on to the remembered location.
func (m *Model) applyState(s state.State) tea.Cmd {
	was := m.env.snap.Auth.IsAuthenticated
	m.env.snap = s
	now := s.Auth.IsAuthenticated

	switch {
	case was && !now && m.route.Protected:
		m.env.logger.Debug("session ended, leaving protected page", zap.String("route", m.route.Path))
		return m.navigate(m.route.Path)
	case !was && now && (m.route.Page == routes.PageLogin || m.route.Page == routes.PageRegister):
		return m.navigate(routes.AfterLogin(m.from))
	}
	return m.page.update(stateMsg(s))
}

func (m *Model) globalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	key := msg.String()
	switch key {
	case "ctrl+c":
		return tea.Quit, true
	case "q":
		if !m.page.typing() {
			return tea.Quit, true
		}
	}
	if strings.HasPrefix(key, "alt+") && m.env.snap.Auth.IsAuthenticated {
		nav := routes.Navigation()
		var n int
		if _, err := fmt.Sscanf(key, "alt+%d", &n); err == nil && n >= 1 && n <= len(nav) {
			return m.navigate(nav[n-1].Path), true
		}
	}
	return nil, false
}

// navigate resolves path, applies the guard and enters the resulting page.
func (m *Model) navigate(path string) tea.Cmd {
	m.switchTo(path)
	return m.page.enter()
}

func (m *Model) switchTo(path string) {
	route := routes.Resolve(path)
	if d := routes.Guard(route, m.env.snap.Auth.IsAuthenticated); !d.Allow {
		m.env.logger.Debug("redirecting", zap.String("from", d.From), zap.String("to", d.Redirect))
		m.from = d.From
		route = routes.Resolve(d.Redirect)
	} else if route.Page != routes.PageLogin && route.Page != routes.PageRegister {
		m.from = ""
	}
	m.route = route
	m.page = m.newPage(route)
}

func (m *Model) newPage(r routes.Route) page {
	switch r.Page {
	case routes.PageLanding:
		return newLandingPage(m.env)
	case routes.PageLogin:
		return newLoginPage(m.env)
	case routes.PageRegister:
		return newRegisterPage(m.env)
	case routes.PageDashboard:
		return newDashboardPage(m.env)
	case routes.PageMealPlanner:
		return newMealPlannerPage(m.env)
	case routes.PageInsights:
		return newInsightsPage(m.env)
	case routes.PageCoach:
		return newCoachPage(m.env)
	case routes.PageProfile:
		return newProfilePage(m.env)
	default:
		return newNotFoundPage(m.env, r.Path)
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left, m.header(), "", m.page.view(), "", m.footer())
}

func (m *Model) header() string {
	brand := titleStyle.Render("🥗 NutriGen")
	if !m.env.snap.Auth.IsAuthenticated {
		return brand
	}
	tabs := []string{brand, " "}
	for i, r := range routes.Navigation() {
		label := fmt.Sprintf("%d %s", i+1, r.Title)
		if r.Path == m.route.Path {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) footer() string {
	keys := []string{"ctrl+c quit"}
	if !m.page.typing() {
		keys = append(keys, "q quit")
	}
	if m.env.snap.Auth.IsAuthenticated {
		keys = append(keys, "alt+1…5 switch page")
	}
	return help(keys...)
}

// Run runs m as a full-screen program until the user quits or ctx is done.
func Run(ctx context.Context, m *Model, opts ...tea.ProgramOption) error {
	defer m.Close()
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	return nil
}

func (e *env) loading(label string) string {
	return e.spinner.View() + " " + mutedStyle.Render(label)
}
