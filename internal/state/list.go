package state

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/planetexplorer/planetexplorer/internal/model"
	"github.com/planetexplorer/planetexplorer/internal/result"
)

// ListHolderName labels the list holder in logs and metrics.
const ListHolderName = "planet_list"

const (
	loadKey            = "planets"
	unknownListFailure = "Unknown error occurred"
)

// PlanetsLoader is the use case the list holder drives.
type PlanetsLoader interface {
	Execute(ctx context.Context, page int) result.Result[[]model.Planet]
}

// ListHolder owns the planet list screen state. The first subscriber
// triggers a load; Retry reloads on demand.
type ListHolder struct {
	loader PlanetsLoader
	stream *Stream[ListState]
	group  singleflight.Group
	opts   options
	logger *slog.Logger

	// scope outlives individual pipelines and is cancelled by Close.
	scope  context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewListHolder returns a holder in the loading state. Nothing is fetched
// until the first subscriber attaches.
func NewListHolder(loader PlanetsLoader, opts ...Option) *ListHolder {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	h := &ListHolder{
		loader: loader,
		opts:   o,
		logger: o.logger.With("holder", ListHolderName, "page", o.page),
	}
	h.scope, h.cancel = context.WithCancel(context.Background())
	h.stream = NewStream(ListLoading(), h.load, o.streamOptions(ListHolderName)...)
	return h
}

// Stream exposes the underlying state stream.
func (h *ListHolder) Stream() *Stream[ListState] { return h.stream }

// State returns the latest state without subscribing.
func (h *ListHolder) State() ListState { return h.stream.Value() }

// Subscribe attaches to the state stream.
func (h *ListHolder) Subscribe(ctx context.Context) *Subscription[ListState] {
	return h.stream.Subscribe(ctx)
}

// Page returns the upstream page this holder loads.
func (h *ListHolder) Page() int { return h.opts.page }

// Retry moves back to loading and reloads. A retry issued while a load is
// in flight joins that load.
func (h *ListHolder) Retry() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.publish(ListLoading())
	ch := h.startLoad()
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		h.await(h.scope, ch)
	}()
}

// Close cancels all work owned by the holder and waits for it to finish.
func (h *ListHolder) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	h.cancel()
	h.mu.Unlock()

	h.stream.Close()
	h.wg.Wait()
	// Joins a load still in flight so no loader call outlives Close.
	h.group.Do(loadKey, func() (any, error) { return nil, nil })
}

// load is the stream's pipeline: one load per attachment cycle.
func (h *ListHolder) load(ctx context.Context) {
	h.await(ctx, h.startLoad())
}

func (h *ListHolder) startLoad() <-chan singleflight.Result {
	return h.group.DoChan(loadKey, func() (any, error) {
		h.logger.Debug("loading planets")
		return h.loader.Execute(h.scope, h.opts.page), nil
	})
}

// await publishes the outcome of a load unless ctx ends first.
func (h *ListHolder) await(ctx context.Context, ch <-chan singleflight.Result) {
	select {
	case <-ctx.Done():
		return
	case r := <-ch:
		if ctx.Err() != nil || h.scope.Err() != nil {
			return
		}
		res, _ := r.Val.(result.Result[[]model.Planet])
		switch {
		case res.IsSuccess():
			h.publish(ListSuccess(res.Data()))
		case res.IsFailure():
			msg := res.Err().Error()
			if msg == "" {
				msg = unknownListFailure
			}
			h.logger.Warn("planet list load failed", "error", res.Err())
			h.publish(ListError(msg))
		}
	}
}

func (h *ListHolder) publish(s ListState) {
	if h.stream.Publish(s) && h.opts.observer != nil {
		h.opts.observer.ObserveState(ListHolderName, string(s.Phase))
	}
}
