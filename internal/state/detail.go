package state

import (
	"context"

	"github.com/planetexplorer/planetexplorer/internal/handoff"
)

// DetailHolderName labels the detail holder in logs and metrics.
const DetailHolderName = "planet_detail"

const detailFailure = "Failed to load planet details"

// DetailHolder owns the planet detail screen state. The planet comes from
// a handoff payload, so there is no network fetch.
type DetailHolder struct {
	stream  *Stream[DetailState]
	decoded DetailState
	opts    options
}

// NewDetailHolder decodes payload up front. The decoded state is published
// once a subscriber attaches; an empty payload leaves the holder loading.
func NewDetailHolder(payload string, opts ...Option) *DetailHolder {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	h := &DetailHolder{opts: o, decoded: decodeDetail(payload)}
	if h.decoded.Phase == PhaseError {
		o.logger.Warn("planet handoff rejected", "holder", DetailHolderName, "error", h.decoded.Message)
	}
	h.stream = NewStream(DetailLoading(), h.run, o.streamOptions(DetailHolderName)...)
	return h
}

func decodeDetail(payload string) DetailState {
	if payload == "" {
		return DetailLoading()
	}
	p, err := handoff.Decode(payload)
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = detailFailure
		}
		return DetailError(msg)
	}
	return DetailSuccess(p)
}

func (h *DetailHolder) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if h.stream.Publish(h.decoded) && h.opts.observer != nil {
		h.opts.observer.ObserveState(DetailHolderName, string(h.decoded.Phase))
	}
}

// Stream exposes the underlying state stream.
func (h *DetailHolder) Stream() *Stream[DetailState] { return h.stream }

// State returns the latest state without subscribing.
func (h *DetailHolder) State() DetailState { return h.stream.Value() }

// Subscribe attaches to the state stream.
func (h *DetailHolder) Subscribe(ctx context.Context) *Subscription[DetailState] {
	return h.stream.Subscribe(ctx)
}

// Close releases the holder.
func (h *DetailHolder) Close() { h.stream.Close() }
