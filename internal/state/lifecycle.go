package state

import (
	"context"

	"go.uber.org/zap"

	"github.com/nutrigen/nutri/internal/api"
)

// tracked is implemented by every slice: the busy flag and error that the
// shared lifecycle rule maintains.
type tracked interface {
	setBusy(bool)
	setError(string)
}

// AsyncOp describes one asynchronous operation against a slice S: a single
// call taking In and producing Out, plus the slice transforms applied when
// it starts, succeeds or fails.
//
// On dispatch the slice becomes busy and its error is cleared (unless
// KeepError), then Pending runs. On success the slice stops being busy and
// Fulfilled runs. On failure the slice stops being busy, its error becomes the
// server message (or Fallback), then Rejected runs.
//
// Key names the generation the operation competes in; it defaults to Type.
// Operations writing the same fields share a key. Prepare, when set, runs
// under the store lock before Pending and may derive the call input from
// the state.
type AsyncOp[S tracked, In, Out any] struct {
	Type      string
	Key       string
	Select    func(*State) S
	Call      func(ctx context.Context, in In) (Out, error)
	Fallback  string
	KeepError bool

	Prepare   func(st *State, in In) In
	Pending   func(s S, in In)
	Fulfilled func(s S, out Out)
	Rejected  func(s S, msg string)
}

// messageFor applies the message policy: a cancelled dispatch context, then
// the server message, then fallback.
func messageFor(ctx context.Context, err error, fallback string) string {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr.Error()
	}
	return api.MessageOf(err, fallback)
}

// Request is the handle of a dispatched operation.
type Request[Out any] struct {
	Type       string
	Generation uint64

	done  chan struct{}
	out   Out
	err   error
	stale bool
}

// Done is closed once the operation has completed and its transition (if
// any) has been applied.
func (r *Request[Out]) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the operation completes or ctx is done.
func (r *Request[Out]) Wait(ctx context.Context) (Out, error) {
	select {
	case <-r.done:
		return r.out, r.err
	case <-ctx.Done():
		var zero Out
		return zero, ctx.Err()
	}
}

// Stale reports whether the completion was discarded because a newer request
// with the same key had been dispatched, or the slice had been reset. Only
// meaningful after Done.
func (r *Request[Out]) Stale() bool {
	select {
	case <-r.done:
		return r.stale
	default:
		return false
	}
}

// Run dispatches op on store. The pending transition is applied before Run
// returns; the call itself runs on its own goroutine.
//
// Each dispatch takes the next generation for op's key. A completion whose
// generation is no longer the latest for its key is discarded, so a slow
// response can never overwrite a fresher one, nor undo a local reset.
func Run[S tracked, In, Out any](ctx context.Context, store *Store, op AsyncOp[S, In, Out], in In) *Request[Out] {
	req := &Request[Out]{Type: op.Type, done: make(chan struct{})}
	key := op.Key
	if key == "" {
		key = op.Type
	}

	req.Generation = store.begin(key, func(st *State) {
		if op.Prepare != nil {
			in = op.Prepare(st, in)
		}
		slice := op.Select(st)
		slice.setBusy(true)
		if !op.KeepError {
			slice.setError("")
		}
		if op.Pending != nil {
			op.Pending(slice, in)
		}
	})

	go func() {
		defer close(req.done)

		out, err := op.Call(ctx, in)
		req.out, req.err = out, err

		var applied bool
		if err == nil {
			applied = store.complete(key, req.Generation, func(st *State) {
				slice := op.Select(st)
				slice.setBusy(false)
				if op.Fulfilled != nil {
					op.Fulfilled(slice, out)
				}
			})
		} else {
			msg := messageFor(ctx, err, op.Fallback)
			store.logger.Debug("operation rejected",
				zap.String("type", op.Type),
				zap.Uint64("generation", req.Generation),
				zap.String("message", msg),
				zap.Error(err))
			applied = store.complete(key, req.Generation, func(st *State) {
				slice := op.Select(st)
				slice.setBusy(false)
				slice.setError(msg)
				if op.Rejected != nil {
					op.Rejected(slice, msg)
				}
			})
		}
		req.stale = !applied
	}()

	return req
}
