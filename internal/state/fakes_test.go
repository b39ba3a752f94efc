package state

import (
	"context"
	"slices"
	"strconv"
	"sync"

	"github.com/nutrigen/nutri/internal/api"
)

type result[Out any] struct {
	out Out
	err error
}

// gates hands each call a result chosen by the test. Calls are keyed so
// concurrent calls can be released in any order.
type gates[Out any] struct {
	mu      sync.Mutex
	pending map[string]chan result[Out]
	started chan string
}

func newGates[Out any]() *gates[Out] {
	return &gates[Out]{
		pending: make(map[string]chan result[Out]),
		started: make(chan string, 16),
	}
}

func (g *gates[Out]) gate(key string) chan result[Out] {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.pending[key]
	if !ok {
		ch = make(chan result[Out], 1)
		g.pending[key] = ch
	}
	return ch
}

func (g *gates[Out]) call(ctx context.Context, key string) (Out, error) {
	g.started <- key
	select {
	case r := <-g.gate(key):
		return r.out, r.err
	case <-ctx.Done():
		var zero Out
		return zero, ctx.Err()
	}
}

func (g *gates[Out]) release(key string, out Out, err error) {
	g.gate(key) <- result[Out]{out: out, err: err}
}

// instant services answer immediately with canned values.
type fakeAuth struct {
	user      *api.User
	err       error
	logoutErr error
	// when set, CurrentUser waits on the "me" gate
	current *gates[*api.User]
}

func (f *fakeAuth) Register(ctx context.Context, req api.RegisterRequest) (*api.User, error) {
	return f.user, f.err
}
func (f *fakeAuth) Login(ctx context.Context, email, password string) (*api.User, error) {
	return f.user, f.err
}
func (f *fakeAuth) CurrentUser(ctx context.Context) (*api.User, error) {
	if f.current != nil {
		return f.current.call(ctx, "me")
	}
	return f.user, f.err
}
func (f *fakeAuth) Logout(ctx context.Context) error                  { return f.logoutErr }

type fakePlans struct {
	plan api.MealPlan
	err  error
}

func (f *fakePlans) Generate(ctx context.Context) (api.MealPlan, error) { return f.plan, f.err }
func (f *fakePlans) Get(ctx context.Context) (api.MealPlan, error)      { return f.plan, f.err }

type fakeNutrition struct {
	searches *gates[[]api.FoodSummary]
	detail   *api.FoodDetail
	err      error
	// when set, Food waits on a gate keyed by the decimal id
	details *gates[*api.FoodDetail]
}

func (f *fakeNutrition) Search(ctx context.Context, query string) ([]api.FoodSummary, error) {
	return f.searches.call(ctx, query)
}
func (f *fakeNutrition) Food(ctx context.Context, id int64) (*api.FoodDetail, error) {
	if f.details != nil {
		return f.details.call(ctx, strconv.FormatInt(id, 10))
	}
	return f.detail, f.err
}
func (f *fakeNutrition) Scan(ctx context.Context, barcode string) (api.ScanResult, error) {
	return api.ScanResult{"barcode": barcode}, f.err
}

type fakeChat struct {
	reply string
	err   error
	seen  [][]api.Message
	mu    sync.Mutex
	// when set, Send waits on a gate keyed by the last message's content
	replies *gates[string]
}

func (f *fakeChat) Send(ctx context.Context, messages []api.Message) (string, error) {
	f.mu.Lock()
	f.seen = append(f.seen, messages)
	f.mu.Unlock()
	if f.replies != nil && len(messages) > 0 {
		return f.replies.call(ctx, messages[len(messages)-1].Content)
	}
	return f.reply, f.err
}

func (f *fakeChat) transcripts() [][]api.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.seen)
}

type fakeProgress struct {
	streak int
	err    error
}

func (f *fakeProgress) LogMeal(ctx context.Context) (int, error) { return f.streak, f.err }
func (f *fakeProgress) Streak(ctx context.Context) (int, error)  { return f.streak, f.err }
