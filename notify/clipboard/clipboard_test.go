package clipboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/BeatGlow/oled/stream"
)

func TestFirstLine(t *testing.T) {
	for in, want := range map[string]string{
		"hello":               "hello",
		"\n\n  second  \nx":   "second",
		"   \n\t\n":           "",
		"https://example.org": "https://example.org",
	} {
		if got := FirstLine(in); got != want {
			t.Errorf("FirstLine(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestStream(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	changes := make(chan []byte, 3)
	changes <- []byte("copied text")
	changes <- []byte("   ")
	changes <- []byte("more")
	close(changes)

	w := &Watcher{watch: func(context.Context) (<-chan []byte, error) { return changes, nil }}
	s, err := w.Stream(ctx)
	if err != nil {
		t.Fatal(err)
	}
	results, err := stream.Collect(ctx, s)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(results))
	}
	for _, r := range results {
		if r.Err != nil || r.Value == nil {
			t.Errorf("unexpected result %+v", r)
		}
	}
}

func TestStreamInitError(t *testing.T) {
	failed := errors.New("no display")
	w := &Watcher{watch: func(context.Context) (<-chan []byte, error) { return nil, failed }}
	if _, err := w.Stream(context.Background()); !errors.Is(err, failed) {
		t.Errorf("expected init error, got %v", err)
	}
}
