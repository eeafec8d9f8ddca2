// Package stream implements lazy, pull based sequences of values.
//
// A Stream hands out a channel for its next value. Producers are expected to block on sending
// until somebody receives, so a stream that nobody pulls from does no work. Streams created by
// Demand go further and only compute a value once it was asked for. When a stream ends it
// reports Terminated and closes its channel, in that order.
package stream

import (
	"context"
	"sync"
	"sync/atomic"
)

// Stream is a lazy sequence of values.
type Stream[T any] interface {
	// Next returns the channel the next value is delivered on. The channel is closed when the
	// stream ends. A nil channel blocks forever, which is how an exhausted stream can be left out
	// of a select.
	Next() <-chan T

	// Terminated reports whether the stream has ended.
	Terminated() bool
}

// Result is a value or the error that prevented producing it.
type Result[T any] struct {
	Value T
	Err   error
}

// Ok wraps a value.
func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Fail wraps an error.
func Fail[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

// Withdrawer is implemented by streams that compute values on demand. Withdraw tells the stream
// that its consumer no longer waits for the value it asked for last. A value computed for that
// request is discarded, so the next value received is computed after the next call to Next.
type Withdrawer interface {
	Withdraw()
}

type generator[T any] struct {
	ctx  context.Context
	fn   func()
	once sync.Once
	done atomic.Bool

	mu sync.Mutex
	ch chan T

	// Only set for streams created by Demand. Every withdrawal starts a new epoch with its own
	// value channel.
	demand   chan uint64
	epoch    uint64
	withdraw chan struct{}
}

// Generate returns a stream of the values fn yields. The function runs in its own goroutine,
// started by the first call to Next. Every call to yield blocks until the value is received and
// returns false once ctx is done, after which fn should return. The stream ends when fn returns.
func Generate[T any](ctx context.Context, fn func(ctx context.Context, yield func(T) bool)) Stream[T] {
	g := &generator[T]{
		ctx: ctx,
		ch:  make(chan T),
	}
	g.fn = func() { fn(ctx, g.yield) }
	return g
}

// Demand is like Generate, but fn yields functions that compute the next value. A value is only
// computed after a consumer called Next, and a value computed before the consumer withdrew is
// computed again, so consumers never receive values computed while they were not asking.
func Demand[T any](ctx context.Context, fn func(ctx context.Context, yield func(func() T) bool)) Stream[T] {
	g := &generator[T]{
		ctx:      ctx,
		ch:       make(chan T),
		demand:   make(chan uint64, 1),
		withdraw: make(chan struct{}),
	}
	g.fn = func() { fn(ctx, g.yieldOnDemand) }
	return g
}

func (g *generator[T]) Next() <-chan T {
	g.once.Do(func() { go g.run() })

	g.mu.Lock()
	epoch, ch := g.epoch, g.ch
	g.mu.Unlock()
	if g.demand != nil {
		select {
		case <-g.demand:
		default:
		}
		select {
		case g.demand <- epoch:
		default:
		}
	}
	return ch
}

func (g *generator[T]) Withdraw() {
	if g.demand == nil {
		return
	}
	g.mu.Lock()
	if g.done.Load() {
		g.mu.Unlock()
		return
	}
	g.epoch++
	close(g.withdraw)
	g.withdraw = make(chan struct{})
	g.ch = make(chan T)
	g.mu.Unlock()

	select {
	case <-g.demand:
	default:
	}
}

func (g *generator[T]) Terminated() bool {
	return g.done.Load()
}

func (g *generator[T]) run() {
	defer func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		g.done.Store(true)
		close(g.ch)
	}()
	g.fn()
}

func (g *generator[T]) yield(v T) bool {
	select {
	case g.ch <- v:
		return true
	case <-g.ctx.Done():
		return false
	}
}

func (g *generator[T]) yieldOnDemand(compute func() T) bool {
	for {
		var epoch uint64
		select {
		case epoch = <-g.demand:
		case <-g.ctx.Done():
			return false
		}

		g.mu.Lock()
		current, withdraw, ch := g.epoch, g.withdraw, g.ch
		g.mu.Unlock()
		if epoch != current {
			// Asked for before the last withdrawal.
			continue
		}

		v := compute()
		select {
		case ch <- v:
			return true
		case <-withdraw:
		case <-g.ctx.Done():
			return false
		}
	}
}

// Of returns a finite stream of the given values.
func Of[T any](ctx context.Context, values ...T) Stream[T] {
	return Generate(ctx, func(_ context.Context, yield func(T) bool) {
		for _, v := range values {
			if !yield(v) {
				return
			}
		}
	})
}

// Collect receives all values until the stream ends or ctx is done.
func Collect[T any](ctx context.Context, s Stream[T]) ([]T, error) {
	var values []T
	for {
		select {
		case v, ok := <-s.Next():
			if !ok {
				return values, nil
			}
			values = append(values, v)
		case <-ctx.Done():
			return values, ctx.Err()
		}
	}
}
