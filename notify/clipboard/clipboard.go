// Package clipboard shows a notification whenever text is copied to the clipboard.
package clipboard

import (
	"context"
	"fmt"
	"strings"

	"golang.design/x/clipboard"

	"github.com/BeatGlow/oled/notify"
	"github.com/BeatGlow/oled/provider"
	"github.com/BeatGlow/oled/stream"
)

// Name of the source.
const Name = "clipboard"

// Title of clipboard notifications.
const Title = "Clipboard"

// Registration of the clipboard notification source.
var Registration = notify.Registration{
	Name: Name,
	New: func(provider.Config) (notify.Provider, error) {
		return New(), nil
	},
}

// Watcher watches the system clipboard.
type Watcher struct {
	watch func(context.Context) (<-chan []byte, error)
}

// New returns a watcher for the system clipboard.
func New() *Watcher {
	return &Watcher{watch: watchSystem}
}

func watchSystem(ctx context.Context) (<-chan []byte, error) {
	if err := clipboard.Init(); err != nil {
		return nil, fmt.Errorf("clipboard: %w", err)
	}
	return clipboard.Watch(ctx, clipboard.FmtText), nil
}

func (w *Watcher) Name() string { return Name }

func (w *Watcher) Stream(ctx context.Context) (notify.Notifications, error) {
	changes, err := w.watch(ctx)
	if err != nil {
		return nil, err
	}
	return stream.Generate(ctx, func(ctx context.Context, yield func(stream.Result[*notify.Notification]) bool) {
		for {
			select {
			case data, ok := <-changes:
				if !ok {
					return
				}
				content := FirstLine(string(data))
				if content == "" {
					continue
				}
				n, err := notify.NewBuilder().
					WithIcon(notify.ClipboardIcon()).
					WithTitle(Title).
					WithContent(content).
					Build()
				if !yield(stream.Result[*notify.Notification]{Value: n, Err: err}) {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}), nil
}

// FirstLine returns the first non blank line of s without surrounding white space.
func FirstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
