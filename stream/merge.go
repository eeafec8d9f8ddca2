package stream

import (
	"context"
	"sync"
)

// Merge returns a stream of the values of all streams in the order they arrive. It ends when
// every stream has ended.
func Merge[T any](ctx context.Context, streams ...Stream[T]) Stream[T] {
	return Generate(ctx, func(ctx context.Context, yield func(T) bool) {
		var (
			items = make(chan T)
			wait  sync.WaitGroup
		)
		for _, s := range streams {
			wait.Add(1)
			go func(s Stream[T]) {
				defer wait.Done()
				forward(ctx, s, items)
			}(s)
		}
		go func() {
			wait.Wait()
			close(items)
		}()

		for v := range items {
			if !yield(v) {
				return
			}
		}
	})
}

func forward[T any](ctx context.Context, s Stream[T], items chan<- T) {
	for !s.Terminated() {
		select {
		case v, ok := <-s.Next():
			if !ok {
				return
			}
			select {
			case items <- v:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
