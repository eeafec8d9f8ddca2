// Package notify implements notifications: short animations that interrupt the regular content
// until they have been shown completely.
package notify

import (
	"context"
	"errors"
	"image"
	"time"

	"github.com/google/uuid"

	"github.com/BeatGlow/oled/draw"
	"github.com/BeatGlow/oled/pixel"
	"github.com/BeatGlow/oled/provider"
	"github.com/BeatGlow/oled/stream"
	"github.com/BeatGlow/oled/text"
)

// IconSize is the only supported icon size.
const IconSize = 24

// DefaultTitle is used for notifications without a title.
const DefaultTitle = "Notification"

// ErrIconSize is returned for icons that are not IconSize square.
var ErrIconSize = errors.New("notify: icons must be 24x24")

// Notifications is a stream of notifications. Errors do not end the stream.
type Notifications = stream.Stream[stream.Result[*Notification]]

// Provider is a source of notifications.
type Provider interface {
	Name() string
	Stream(ctx context.Context) (Notifications, error)
}

// Registration describes a notification source known to the daemon.
type Registration struct {
	Name string
	New  func(provider.Config) (Provider, error)
}

var progressOrigin = image.Pt(117, 29)

const (
	progressDiameter = 10
	progressStroke   = 2
)

// Notification is a finite animation with an optional icon, a scrolling title, a line of content
// and a countdown ring.
type Notification struct {
	// ID identifies the notification in logs.
	ID uuid.UUID

	base       pixel.FrameBuffer
	title      *text.Scrollable
	scroll     bool
	content    string
	contentAt  image.Point
	face       draw.Face
	ticks      int
	tickLength time.Duration
}

// Name of the notification when used as a content provider.
func (n *Notification) Name() string { return "notification" }

// Ticks is the number of frames.
func (n *Notification) Ticks() int { return n.ticks }

// Scrolls reports whether the title scrolls.
func (n *Notification) Scrolls() bool { return n.scroll }

// Stream produces all frames, one per tick, and then ends.
func (n *Notification) Stream(ctx context.Context) (provider.Frames, error) {
	return stream.Generate(ctx, func(ctx context.Context, yield func(stream.Result[pixel.FrameBuffer]) bool) {
		ticker := time.NewTicker(n.tickLength)
		defer ticker.Stop()
		for i := 0; i < n.ticks; i++ {
			if !yield(stream.Ok(n.Render(i))) {
				return
			}
			if i == n.ticks-1 {
				return
			}
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}), nil
}

// Render draws frame i.
func (n *Notification) Render(i int) pixel.FrameBuffer {
	frame := n.base
	tick := 0
	if n.scroll {
		tick = i
	}
	n.title.AtTick(&frame, tick)
	draw.Text(&frame, n.contentAt, n.face, n.content, pixel.On)

	// Countdown from a full ring to nothing, starting at the top.
	remaining := 1 - float64(i)/float64(n.ticks)
	draw.Arc(&frame, progressOrigin, progressDiameter, progressStroke, -90, 360*remaining, pixel.On)
	return frame
}

// Builder configures a notification.
type Builder struct {
	title      string
	content    string
	icon       image.Image
	face       draw.Face
	ticks      int
	tickLength time.Duration
}

// NewBuilder returns a builder for a notification without icon and content.
func NewBuilder() *Builder {
	return &Builder{
		title:      DefaultTitle,
		face:       draw.MonoFace(10),
		tickLength: provider.TickLength,
	}
}

// WithTitle sets the title, an empty title is replaced by DefaultTitle.
func (b *Builder) WithTitle(title string) *Builder {
	if title == "" {
		title = DefaultTitle
	}
	b.title = title
	return b
}

// WithContent sets the content line.
func (b *Builder) WithContent(content string) *Builder {
	b.content = content
	return b
}

// WithIcon sets the icon drawn in the top left corner.
func (b *Builder) WithIcon(icon image.Image) *Builder {
	b.icon = icon
	return b
}

// WithFace sets a fixed width face for title and content.
func (b *Builder) WithFace(face draw.Face) *Builder {
	b.face = face
	return b
}

// WithTicks overrides the number of frames.
func (b *Builder) WithTicks(ticks int) *Builder {
	b.ticks = ticks
	return b
}

// WithTickLength overrides the time between frames.
func (b *Builder) WithTickLength(d time.Duration) *Builder {
	b.tickLength = d
	return b
}

func (b *Builder) offset() image.Point {
	offset := image.Pt(3, 10)
	if b.icon != nil {
		offset = offset.Add(b.icon.Bounds().Size())
	}
	return offset
}

func (b *Builder) projection() image.Point {
	return image.Pt(pixel.Width-b.offset().X-3, draw.GlyphSize(b.face).Y)
}

func (b *Builder) visibleChars() int {
	return b.projection().X / draw.GlyphSize(b.face).X
}

func (b *Builder) needsScroll() bool {
	return len([]rune(b.title)) > b.visibleChars()
}

// RequiredTicks is one second, plus the time to scroll the title, plus another second.
func (b *Builder) RequiredTicks() int {
	var scroll int
	if b.needsScroll() {
		scroll = (len([]rune(b.title)) - b.visibleChars() + 2) * draw.GlyphSize(b.face).X
	}
	return provider.TicksPerSecond + scroll + provider.TicksPerSecond
}

// Build renders the static parts of the notification.
func (b *Builder) Build() (*Notification, error) {
	base := pixel.NewFrameBuffer()
	if b.icon != nil {
		if size := b.icon.Bounds().Size(); size.X != IconSize || size.Y != IconSize {
			return nil, ErrIconSize
		}
		draw.Copy(&base, image.Point{}, b.icon)
	}

	var (
		offset = b.offset()
		glyph  = draw.GlyphSize(b.face)
		ticks  = b.ticks
	)
	if ticks <= 0 {
		ticks = b.RequiredTicks()
	}
	title := text.NewBuilder().
		WithFace(b.face).
		WithPosition(image.Pt(offset.X, 3)).
		WithProjection(b.projection()).
		Build(b.title)

	return &Notification{
		ID:         uuid.New(),
		base:       base,
		title:      title,
		scroll:     b.needsScroll(),
		content:    b.content,
		contentAt:  image.Pt(offset.X, 3+glyph.Y+1),
		face:       b.face,
		ticks:      ticks,
		tickLength: b.tickLength,
	}, nil
}
