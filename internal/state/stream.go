// Package state holds the presentation state machines that sit between the
// use cases and the surfaces that render planets (HTTP, SSE, CLI).
package state

import (
	"context"
	"errors"
	"sync"
	"time"
)

// DefaultStopTimeout is how long a pipeline keeps running after its last
// subscriber detaches.
const DefaultStopTimeout = 5 * time.Second

// ErrClosed is returned when waiting on a subscription that has been closed.
var ErrClosed = errors.New("state: subscription closed")

// Equaler is implemented by state values that can be de-duplicated.
type Equaler[S any] interface {
	Equal(S) bool
}

// StartFunc runs a stream's upstream pipeline. ctx is cancelled when the
// pipeline is torn down.
type StartFunc func(ctx context.Context)

// StreamOption configures a Stream.
type StreamOption func(*streamOptions)

type streamOptions struct {
	stopTimeout   time.Duration
	onSubscribers func(n int)
}

// WithStopTimeout sets the grace period between the last detach and the
// pipeline being cancelled. Zero or negative stops immediately.
func WithStopTimeout(d time.Duration) StreamOption {
	return func(o *streamOptions) { o.stopTimeout = d }
}

// WithSubscriberHook registers fn to be called with the subscriber count
// every time it changes. fn runs with the stream locked and must not call
// back into the stream.
func WithSubscriberHook(fn func(n int)) StreamOption {
	return func(o *streamOptions) { o.onSubscribers = fn }
}

// Stream is a single latest value shared by any number of subscribers,
// backed by a pipeline that runs only while somebody is watching.
type Stream[S Equaler[S]] struct {
	mu    sync.Mutex
	value S
	subs  map[*Subscription[S]]struct{}
	start StartFunc
	opts  streamOptions

	cancel    context.CancelFunc
	stopTimer *time.Timer
	gen       uint64
	closed    bool
	wg        sync.WaitGroup
}

// NewStream returns a stream holding initial. start is invoked on its own
// goroutine whenever the first subscriber attaches to an idle stream.
func NewStream[S Equaler[S]](initial S, start StartFunc, opts ...StreamOption) *Stream[S] {
	o := streamOptions{stopTimeout: DefaultStopTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	return &Stream[S]{
		value: initial,
		subs:  make(map[*Subscription[S]]struct{}),
		start: start,
		opts:  o,
	}
}

// Value returns the latest value.
func (s *Stream[S]) Value() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Subscribers returns the number of attached subscriptions.
func (s *Stream[S]) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Running reports whether the upstream pipeline is active.
func (s *Stream[S]) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// Publish replaces the latest value and fans it out. A value equal to the
// current one is dropped and Publish returns false.
func (s *Stream[S]) Publish(v S) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.value.Equal(v) {
		return false
	}
	s.value = v
	for sub := range s.subs {
		sub.deliver(v)
	}
	return true
}

// Subscribe attaches a new subscriber. Its channel yields the latest value
// immediately. The subscription is closed when ctx is done or Close is
// called, whichever happens first.
func (s *Stream[S]) Subscribe(ctx context.Context) *Subscription[S] {
	sub := &Subscription[S]{
		stream: s,
		ch:     make(chan S, 1),
		done:   make(chan struct{}),
	}

	s.mu.Lock()
	sub.ch <- s.value
	if s.closed {
		s.mu.Unlock()
		sub.once.Do(func() {
			close(sub.ch)
			close(sub.done)
		})
		return sub
	}
	s.subs[sub] = struct{}{}
	s.gen++
	if s.stopTimer != nil {
		s.stopTimer.Stop()
		s.stopTimer = nil
	}
	if s.cancel == nil {
		s.launch()
	}
	s.notifySubscribers()
	s.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			sub.Close()
		case <-sub.done:
		}
	}()
	return sub
}

// Close tears down the pipeline, closes every subscription and waits for
// the pipeline goroutine to return. It is safe to call more than once.
func (s *Stream[S]) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.wg.Wait()
		return
	}
	s.closed = true
	s.gen++
	if s.stopTimer != nil {
		s.stopTimer.Stop()
		s.stopTimer = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	subs := s.subs
	s.subs = make(map[*Subscription[S]]struct{})
	for sub := range subs {
		sub.closeLocked()
	}
	s.notifySubscribers()
	s.mu.Unlock()

	s.wg.Wait()
}

// launch starts the pipeline. s.mu must be held.
func (s *Stream[S]) launch() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	if s.start == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.start(ctx)
	}()
}

func (s *Stream[S]) detach(sub *Subscription[S]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[sub]; !ok {
		return
	}
	delete(s.subs, sub)
	sub.closeLocked()
	s.notifySubscribers()
	if len(s.subs) > 0 || s.cancel == nil {
		return
	}

	s.gen++
	if s.opts.stopTimeout <= 0 {
		s.cancel()
		s.cancel = nil
		return
	}
	gen := s.gen
	s.stopTimer = time.AfterFunc(s.opts.stopTimeout, func() { s.stopIfIdle(gen) })
}

// stopIfIdle cancels the pipeline unless a subscriber attached (or the
// stream was otherwise touched) after the timer was armed.
func (s *Stream[S]) stopIfIdle(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || len(s.subs) > 0 || s.cancel == nil {
		return
	}
	s.cancel()
	s.cancel = nil
	s.stopTimer = nil
}

func (s *Stream[S]) notifySubscribers() {
	if s.opts.onSubscribers != nil {
		s.opts.onSubscribers(len(s.subs))
	}
}

// Subscription is one attached observer of a Stream.
type Subscription[S Equaler[S]] struct {
	stream *Stream[S]
	ch     chan S
	done   chan struct{}
	once   sync.Once
}

// C returns the channel of values. Only the most recent undelivered value
// is kept. The channel is closed when the subscription ends.
func (sub *Subscription[S]) C() <-chan S {
	return sub.ch
}

// Done is closed when the subscription ends.
func (sub *Subscription[S]) Done() <-chan struct{} {
	return sub.done
}

// Close detaches the subscriber. It is idempotent.
func (sub *Subscription[S]) Close() {
	sub.stream.detach(sub)
}

// Await blocks until a value satisfying ready arrives, ctx is done, or the
// subscription is closed.
func (sub *Subscription[S]) Await(ctx context.Context, ready func(S) bool) (S, error) {
	for {
		select {
		case v, ok := <-sub.ch:
			if !ok {
				var zero S
				return zero, ErrClosed
			}
			if ready(v) {
				return v, nil
			}
		case <-ctx.Done():
			var zero S
			return zero, ctx.Err()
		}
	}
}

// deliver conflates v into the channel. The stream lock must be held.
func (sub *Subscription[S]) deliver(v S) {
	select {
	case <-sub.ch:
	default:
	}
	sub.ch <- v
}

// closeLocked closes the channels. The stream lock must be held.
func (sub *Subscription[S]) closeLocked() {
	sub.once.Do(func() {
		close(sub.ch)
		close(sub.done)
	})
}
