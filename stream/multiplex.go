package stream

import "fmt"

// Multiplexer forwards pulls to one of a fixed list of streams.
type Multiplexer[T any] struct {
	streams  []Stream[T]
	selector func() int
	last     int
}

// Multiplex returns a stream that on every call to Next asks selector which stream is active and
// pulls only from that one. The other streams are left alone. The selector must return a valid
// index into streams. When the selection changes, the previously selected stream is withdrawn
// if it implements Withdrawer.
func Multiplex[T any](streams []Stream[T], selector func() int) *Multiplexer[T] {
	return &Multiplexer[T]{
		streams:  streams,
		selector: selector,
		last:     -1,
	}
}

// Len is the number of streams.
func (m *Multiplexer[T]) Len() int {
	return len(m.streams)
}

// Next returns the next value channel of the selected stream, or nil if that stream has ended.
func (m *Multiplexer[T]) Next() <-chan T {
	i := m.selector()
	if i < 0 || i >= len(m.streams) {
		panic(fmt.Sprintf("stream: selected stream %d out of range [0,%d)", i, len(m.streams)))
	}
	if i != m.last {
		m.Withdraw()
		m.last = i
	}
	s := m.streams[i]
	if s.Terminated() {
		return nil
	}
	return s.Next()
}

// Withdraw withdraws the stream selected by the last call to Next.
func (m *Multiplexer[T]) Withdraw() {
	if m.last < 0 {
		return
	}
	if w, ok := m.streams[m.last].(Withdrawer); ok {
		w.Withdraw()
	}
}

// Terminated reports whether every stream has ended.
func (m *Multiplexer[T]) Terminated() bool {
	for _, s := range m.streams {
		if !s.Terminated() {
			return false
		}
	}
	return true
}
