// Package clock shows the local time.
package clock

import (
	"context"
	"image"
	"time"

	"github.com/BeatGlow/oled/draw"
	"github.com/BeatGlow/oled/pixel"
	"github.com/BeatGlow/oled/provider"
)

// Name of the provider.
const Name = "clock"

// Registration of the clock provider.
var Registration = provider.Registration{
	Name: Name,
	New: func(config provider.Config) (provider.ContentProvider, error) {
		c := New(
			provider.Bool(config, "clock.twelve_hour", false),
			provider.Bool(config, "clock.seconds", true),
		)
		if path := provider.String(config, "font.path", ""); path != "" {
			face, err := draw.LoadFontFile(path, provider.Float(config, "font.size", DefaultFontSize))
			if err != nil {
				return nil, err
			}
			c.WithFace(face)
		}
		return c, nil
	},
}

// DefaultFontSize is the size of a font loaded from "font.path".
const DefaultFontSize = 16

// Clock renders the current time centred on the frame.
type Clock struct {
	layout string
	face   draw.Face
	now    func() time.Time
}

// New returns a clock in 24 or 12 hour format, optionally with seconds.
func New(twelveHour, seconds bool) *Clock {
	var layout string
	switch {
	case twelveHour && seconds:
		layout = "03:04:05 PM"
	case twelveHour:
		layout = "03:04 PM"
	case seconds:
		layout = "15:04:05"
	default:
		layout = "15:04"
	}
	return &Clock{
		layout: layout,
		face:   draw.BoldFace,
		now:    time.Now,
	}
}

// WithFace sets the font.
func (c *Clock) WithFace(face draw.Face) *Clock {
	c.face = face
	return c
}

func (c *Clock) Name() string { return Name }

func (c *Clock) Stream(ctx context.Context) (provider.Frames, error) {
	return provider.Ticker(ctx, provider.TickLength, func(context.Context) (pixel.FrameBuffer, error) {
		return c.Render(c.now()), nil
	}), nil
}

// Render draws the time t.
func (c *Clock) Render(t time.Time) pixel.FrameBuffer {
	var (
		frame = pixel.NewFrameBuffer()
		text  = t.Format(c.layout)
		size  = draw.Measure(c.face, text)
	)
	draw.Text(&frame, image.Pt(pixel.Width/2-size.X/2, pixel.Height/2-size.Y/2), c.face, text, pixel.On)
	return frame
}
