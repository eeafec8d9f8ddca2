// Package image shows still images and animated GIFs.
package image

import (
	"context"
	"image"
	"log/slog"
	"os"
	"time"

	"github.com/BeatGlow/oled/draw"
	"github.com/BeatGlow/oled/pixel"
	"github.com/BeatGlow/oled/provider"
	"github.com/BeatGlow/oled/stream"
)

// Name of the provider.
const Name = "image"

// DefaultPath is shown when "image.path" is not set.
const DefaultPath = "images/sample_1.gif"

// Registration of the image provider.
var Registration = provider.Registration{
	Name: Name,
	New: func(config provider.Config) (provider.ContentProvider, error) {
		return Open(provider.String(config, "image.path", DefaultPath)), nil
	},
}

// Image loops over the frames of an animation.
type Image struct {
	frames []Frame
}

// New returns a provider showing frames. Without frames the missing image frame is shown.
func New(frames []Frame) *Image {
	if len(frames) == 0 {
		frames = []Frame{{Image: Missing(), Delay: StillDelay}}
	}
	return &Image{frames: frames}
}

// Open decodes the image at path. Unreadable images are replaced by the missing image frame.
func Open(path string) *Image {
	f, err := os.Open(path)
	if err != nil {
		slog.Error("image: error opening image", "path", path, "err", err)
		return New(nil)
	}
	defer func() { _ = f.Close() }()

	frames, err := Decode(f)
	if err != nil {
		slog.Error("image: error decoding image", "path", path, "err", err)
		return New(nil)
	}
	slog.Debug("image: loaded", "path", path, "frames", len(frames))
	return New(frames)
}

func (p *Image) Name() string { return Name }

// Frames returns the decoded frames.
func (p *Image) Frames() []Frame { return p.frames }

func (p *Image) Stream(ctx context.Context) (provider.Frames, error) {
	return stream.Generate(ctx, func(ctx context.Context, yield func(stream.Result[pixel.FrameBuffer]) bool) {
		timer := time.NewTimer(0)
		defer timer.Stop()
		for i := 0; ; i = (i + 1) % len(p.frames) {
			select {
			case <-timer.C:
			case <-ctx.Done():
				return
			}
			if !yield(stream.Ok(p.frames[i].Image)) {
				return
			}
			timer.Reset(p.frames[i].Delay)
		}
	}), nil
}

// Missing renders the frame shown for unreadable images.
func Missing() pixel.FrameBuffer {
	var (
		frame = pixel.NewFrameBuffer()
		text  = "image missing"
		size  = draw.Measure(draw.RegularFace, text)
		box   = image.Rect(4, pixel.Height/2-10, 24, pixel.Height/2+10)
	)
	draw.Rectangle(&frame, box, pixel.On)
	draw.Line(&frame, box.Min, box.Max.Sub(image.Pt(1, 1)), pixel.On)
	draw.Line(&frame, image.Pt(box.Max.X-1, box.Min.Y), image.Pt(box.Min.X, box.Max.Y-1), pixel.On)
	draw.Text(&frame, image.Pt(32, pixel.Height/2-size.Y/2), draw.RegularFace, text, pixel.On)
	return frame
}
