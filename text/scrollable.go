// Package text renders text that scrolls horizontally through a fixed size window.
//
// Text is rendered once into an off-screen canvas that is wider than the window by a little blank
// spacing. Every tick the window slides one column to the right and wraps around at the end of
// the canvas, so the start of the text follows its end after the spacing.
package text

import (
	"image"

	"github.com/BeatGlow/oled/draw"
	"github.com/BeatGlow/oled/pixel"
)

// DefaultSpacing is the number of blank columns between the end and the start of scrolled text.
const DefaultSpacing = 5

// Scrollable is a canvas with text and the window onto it.
type Scrollable struct {
	// Canvas holds the rendered text followed by the spacing.
	Canvas *pixel.Canvas

	// Position is the top left corner of the window on the destination.
	Position image.Point

	// Projection is the window size.
	Projection image.Point

	tick int
}

// NeedsScroll reports whether the canvas is wider than the window.
func (s *Scrollable) NeedsScroll() bool {
	return s.Projection.X < s.Canvas.Rect.Dx()
}

// Tick is the current scroll offset in columns.
func (s *Scrollable) Tick() int {
	return s.tick
}

// Scroll moves the window one column to the right.
func (s *Scrollable) Scroll() {
	s.tick++
}

// Reset moves the window back to the start of the text.
func (s *Scrollable) Reset() {
	s.tick = 0
}

// Draw renders the window at the current scroll offset.
func (s *Scrollable) Draw(dst draw.Image) {
	s.AtTick(dst, s.tick)
}

// AtTick renders the window scrolled by tick columns onto dst. If the window is at least as wide
// as the canvas the text is drawn without scrolling.
func (s *Scrollable) AtTick(dst draw.Image, tick int) {
	var (
		cw     = s.Canvas.Rect.Dx()
		ch     = s.Canvas.Rect.Dy()
		pw     = s.Projection.X
		rows   = min(s.Projection.Y, ch)
		scroll int
	)
	if cw == 0 || pw <= 0 {
		return
	}
	if pw < cw {
		if scroll = tick % cw; scroll < 0 {
			scroll += cw
		}
	}

	end := min(scroll+pw, cw)
	for y := 0; y < rows; y++ {
		row := y * cw
		for x := scroll; x < end; x++ {
			s.set(dst, x-scroll, y, s.Canvas.Bit(row+x))
		}
		if scroll+pw >= cw && pw < cw {
			overflow := scroll + pw - cw
			for x := 0; x < overflow; x++ {
				s.set(dst, pw-overflow+x, y, s.Canvas.Bit(row+x))
			}
		}
	}
}

func (s *Scrollable) set(dst draw.Image, x, y int, on bool) {
	dst.Set(s.Position.X+x, s.Position.Y+y, pixel.Mono{On: on})
}

// Builder renders text into scrollables.
type Builder struct {
	face       draw.Face
	spacing    int
	position   image.Point
	projection image.Point
}

// NewBuilder returns a builder for a full frame window using the regular face.
func NewBuilder() *Builder {
	return &Builder{
		face:       draw.RegularFace,
		spacing:    DefaultSpacing,
		projection: image.Pt(pixel.Width, pixel.Height),
	}
}

// WithFace sets the font face.
func (b *Builder) WithFace(face draw.Face) *Builder {
	b.face = face
	return b
}

// WithSpacing sets the blank columns after the text.
func (b *Builder) WithSpacing(spacing int) *Builder {
	b.spacing = max(0, spacing)
	return b
}

// WithPosition sets the top left corner of the window.
func (b *Builder) WithPosition(p image.Point) *Builder {
	b.position = p
	return b
}

// WithProjection sets the window size.
func (b *Builder) WithProjection(size image.Point) *Builder {
	b.projection = size
	return b
}

// Face returns the configured face.
func (b *Builder) Face() draw.Face {
	return b.face
}

// Build renders s onto a new canvas.
func (b *Builder) Build(s string) *Scrollable {
	size := draw.Measure(b.face, s)
	canvas := pixel.NewCanvas(size.X+b.spacing, size.Y)
	draw.Text(canvas, image.Point{}, b.face, s, pixel.On)
	return &Scrollable{
		Canvas:     canvas,
		Position:   b.position,
		Projection: b.projection,
	}
}

// Stateful keeps a scrollable for the last text it was updated with.
type Stateful struct {
	builder    *Builder
	text       string
	scrollable *Scrollable
}

// NewStateful returns a stateful scrollable, initially built for the empty string.
func NewStateful(builder *Builder) *Stateful {
	return &Stateful{
		builder:    builder,
		scrollable: builder.Build(""),
	}
}

// Update renders s if it differs from the current text and reports whether it did. The scroll
// offset starts over after a rebuild.
func (s *Stateful) Update(text string) bool {
	if text == s.text {
		return false
	}
	s.text = text
	s.scrollable = s.builder.Build(text)
	return true
}

// Text is the current text.
func (s *Stateful) Text() string {
	return s.text
}

// Scrollable returns the scrollable for the current text.
func (s *Stateful) Scrollable() *Scrollable {
	return s.scrollable
}
