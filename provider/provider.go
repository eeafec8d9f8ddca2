// Package provider defines the content producers shown on the display.
//
// A ContentProvider renders frames into a lazy stream. The scheduler asks every provider for its
// stream once and then pulls frames only from the provider that is currently shown, so a provider
// that is not on screen stays blocked on handing out its next frame.
package provider

import (
	"context"
	"math"
	"time"

	"github.com/BeatGlow/oled/pixel"
	"github.com/BeatGlow/oled/stream"
)

// TickLength is the default time between two rendered frames.
const TickLength = 50 * time.Millisecond

// TicksPerSecond is the number of frames per second at TickLength.
const TicksPerSecond = int(time.Second / TickLength)

// Frames is a stream of rendered frames. A failed frame carries its error and does not end the
// stream.
type Frames = stream.Stream[stream.Result[pixel.FrameBuffer]]

// ContentProvider produces frames.
type ContentProvider interface {
	// Name is used to look up configuration keys, such as "<name>.enabled".
	Name() string

	// Stream starts producing frames. The stream lives until ctx is done.
	Stream(ctx context.Context) (Frames, error)
}

// Config is a read-only view of the configuration. It is satisfied by *viper.Viper.
type Config interface {
	IsSet(key string) bool
	GetBool(key string) bool
	GetInt(key string) int
	GetFloat64(key string) float64
	GetString(key string) string
	GetDuration(key string) time.Duration
}

// Factory creates a provider from the configuration.
type Factory func(Config) (ContentProvider, error)

// Registration describes a provider known to the daemon.
type Registration struct {
	// Name of the provider, identical to the Name of the providers New creates.
	Name string

	// New creates the provider.
	New Factory
}

// Enabled reports whether "<name>.enabled" is unset or true.
func Enabled(config Config, name string) bool {
	return Bool(config, name+".enabled", true)
}

// Priority returns "<name>.priority", providers without one sort last.
func Priority(config Config, name string) int {
	return Int(config, name+".priority", math.MaxInt)
}

// Bool returns the boolean at key or def if it is not set.
func Bool(config Config, key string, def bool) bool {
	if config == nil || !config.IsSet(key) {
		return def
	}
	return config.GetBool(key)
}

// Int returns the integer at key or def if it is not set.
func Int(config Config, key string, def int) int {
	if config == nil || !config.IsSet(key) {
		return def
	}
	return config.GetInt(key)
}

// Float returns the number at key or def if it is not set.
func Float(config Config, key string, def float64) float64 {
	if config == nil || !config.IsSet(key) {
		return def
	}
	return config.GetFloat64(key)
}

// String returns the string at key or def if it is not set or empty.
func String(config Config, key, def string) string {
	if config == nil || !config.IsSet(key) {
		return def
	}
	if s := config.GetString(key); s != "" {
		return s
	}
	return def
}

// Millis returns the duration at key in milliseconds or def if it is not set.
func Millis(config Config, key string, def time.Duration) time.Duration {
	if config == nil || !config.IsSet(key) {
		return def
	}
	return time.Duration(config.GetInt(key)) * time.Millisecond
}

// Seconds returns the duration at key in seconds or def if it is not set.
func Seconds(config Config, key string, def time.Duration) time.Duration {
	if config == nil || !config.IsSet(key) {
		return def
	}
	return time.Duration(config.GetFloat64(key) * float64(time.Second))
}

// Ticker returns a stream that calls render for a new frame every interval. Frames are only
// rendered once they are pulled, and intervals that pass while nobody pulls are skipped.
func Ticker(ctx context.Context, interval time.Duration, render func(context.Context) (pixel.FrameBuffer, error)) Frames {
	return stream.Demand(ctx, func(ctx context.Context, yield func(func() stream.Result[pixel.FrameBuffer]) bool) {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			if !yield(func() stream.Result[pixel.FrameBuffer] {
				frame, err := render(ctx)
				return stream.Result[pixel.FrameBuffer]{Value: frame, Err: err}
			}) {
				return
			}
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	})
}
