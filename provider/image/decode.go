package image

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	_ "image/jpeg" // JPEG support
	_ "image/png"  // PNG support
	"io"
	"time"

	_ "golang.org/x/image/bmp" // BMP support
	xdraw "golang.org/x/image/draw"

	"github.com/BeatGlow/oled/draw"
	"github.com/BeatGlow/oled/pixel"
)

// Frame delays.
const (
	MinDelay   = 16 * time.Millisecond
	StillDelay = 1500 * time.Millisecond
)

// Frame of an animation.
type Frame struct {
	Image pixel.FrameBuffer
	Delay time.Duration
}

// Decode reads a still image or an animated GIF and converts every frame to a binary frame.
func Decode(r io.Reader) ([]Frame, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if _, format, err := image.DecodeConfig(bytes.NewReader(b)); err == nil && format == "gif" {
		return decodeGIF(b)
	}

	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("image: error decoding: %w", err)
	}
	return []Frame{{Image: Threshold(img), Delay: StillDelay}}, nil
}

func decodeGIF(b []byte) ([]Frame, error) {
	g, err := gif.DecodeAll(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("image: error decoding gif: %w", err)
	}
	if len(g.Image) == 0 {
		return nil, fmt.Errorf("image: gif without frames")
	}

	var (
		bounds = image.Rect(0, 0, g.Config.Width, g.Config.Height)
		canvas = image.NewRGBA(bounds.Union(g.Image[0].Bounds()))
		frames = make([]Frame, 0, len(g.Image))
	)
	for i, src := range g.Image {
		var previous *image.RGBA
		if i < len(g.Disposal) && g.Disposal[i] == gif.DisposalPrevious {
			previous = image.NewRGBA(canvas.Bounds())
			draw.Copy(previous, canvas.Bounds().Min, canvas)
		}

		draw.Draw(canvas, src.Bounds(), src, src.Bounds().Min, draw.Over)

		delay := MinDelay
		if i < len(g.Delay) && g.Delay[i] > 0 {
			// Delays are in hundredths of a second.
			delay = max(MinDelay, time.Duration(g.Delay[i])*10*time.Millisecond)
		}
		frames = append(frames, Frame{Image: Threshold(canvas), Delay: delay})

		if i < len(g.Disposal) {
			switch g.Disposal[i] {
			case gif.DisposalBackground:
				draw.Draw(canvas, src.Bounds(), image.Transparent, image.Point{}, draw.Src)
			case gif.DisposalPrevious:
				draw.Copy(canvas, canvas.Bounds().Min, previous)
			}
		}
	}
	return frames, nil
}

// Fit scales img down to fit the frame, keeping its aspect ratio. Images that already fit are
// returned as is.
func Fit(img image.Image) image.Image {
	size := img.Bounds().Size()
	if size.X <= pixel.Width && size.Y <= pixel.Height {
		return img
	}
	scale := min(float64(pixel.Width)/float64(size.X), float64(pixel.Height)/float64(size.Y))
	dst := image.NewRGBA(image.Rect(0, 0, max(1, int(float64(size.X)*scale)), max(1, int(float64(size.Y)*scale))))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}

// Threshold fits img into the frame, centres it and lights every pixel at least as bright as the
// median brightness.
func Threshold(img image.Image) pixel.FrameBuffer {
	var (
		frame  = pixel.NewFrameBuffer()
		fitted = Fit(img)
		bounds = fitted.Bounds()
		offset = image.Pt((pixel.Width-bounds.Dx())/2, (pixel.Height-bounds.Dy())/2)
		median = Median(fitted)
	)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if brightness(fitted.At(x, y)) >= median {
				frame.DrawPixel(offset.X+x-bounds.Min.X, offset.Y+y-bounds.Min.Y, true)
			}
		}
	}
	return frame
}

// Median is the median brightness of img, every pixel weighted by its opacity. It is never zero,
// so fully black pixels stay off.
func Median(img image.Image) uint8 {
	var (
		histogram [256]uint64
		total     uint64
		bounds    = img.Bounds()
	)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.At(x, y)
			_, _, _, a := c.RGBA()
			histogram[brightness(c)] += uint64(a >> 8)
			total += uint64(a >> 8)
		}
	}

	var sum uint64
	for value, weight := range histogram {
		sum += weight
		if sum >= total/2 && total > 0 {
			return max(1, uint8(value))
		}
	}
	return 1
}

// brightness is the average of the color channels, ignoring opacity.
func brightness(c color.Color) uint8 {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return uint8((uint32(n.R) + uint32(n.G) + uint32(n.B)) / 3)
}
