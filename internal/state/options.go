package state

import (
	"log/slog"
	"time"
)

// Observer receives state transitions and subscriber counts. The telemetry
// package implements it with Prometheus collectors.
type Observer interface {
	ObserveState(holder, phase string)
	SetSubscribers(holder string, n int)
}

// Option configures a holder.
type Option func(*options)

type options struct {
	logger      *slog.Logger
	observer    Observer
	stopTimeout time.Duration
	page        int
}

func defaultOptions() options {
	return options{
		logger:      slog.New(slog.DiscardHandler),
		stopTimeout: DefaultStopTimeout,
		page:        1,
	}
}

// WithLogger sets the holder's logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithObserver reports transitions to obs.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}

// WithHolderStopTimeout sets the stop grace period of the holder's stream.
func WithHolderStopTimeout(d time.Duration) Option {
	return func(o *options) { o.stopTimeout = d }
}

// WithPage selects which upstream page the list holder loads.
func WithPage(page int) Option {
	return func(o *options) {
		if page > 0 {
			o.page = page
		}
	}
}

func (o options) streamOptions(holder string) []StreamOption {
	opts := []StreamOption{WithStopTimeout(o.stopTimeout)}
	if o.observer != nil {
		obs := o.observer
		opts = append(opts, WithSubscriberHook(func(n int) { obs.SetSubscribers(holder, n) }))
	}
	return opts
}
