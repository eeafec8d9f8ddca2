package music

import (
	"image"

	"github.com/BeatGlow/oled/draw"
	"github.com/BeatGlow/oled/pixel"
	"github.com/BeatGlow/oled/text"
)

// Fallback texts for tracks without metadata.
const (
	UnknownTitle  = "Unknown title"
	UnknownArtist = "Unknown artist"
)

const (
	iconOffset    = 5
	textOffset    = iconOffset + 3 + 24
	visibleChars  = 16
	glyphWidth    = 6
	lineHeight    = 10
	progressInset = 3
	progressRow   = 35
)

// Renderer draws player progress. It keeps the scroll state of title and artist between frames.
type Renderer struct {
	play, pause, idle pixel.FrameBuffer

	title, artist *text.Stateful
}

// NewRenderer prepares the frame templates.
func NewRenderer() *Renderer {
	face := draw.MonoFace(10)

	base := pixel.NewFrameBuffer()
	draw.Line(&base, image.Pt(0, pixel.Height-1), image.Pt(pixel.Width-1, pixel.Height-1), pixel.On)
	draw.Line(&base, image.Pt(0, pixel.Height-1), image.Pt(0, pixel.Height-6), pixel.On)
	draw.Line(&base, image.Pt(pixel.Width-1, pixel.Height-1), image.Pt(pixel.Width-1, pixel.Height-6), pixel.On)

	r := &Renderer{play: base, pause: base}
	draw.Copy(&r.play, image.Pt(iconOffset, iconOffset), noteIcon())
	draw.Copy(&r.pause, image.Pt(iconOffset, iconOffset), pauseIcon())
	r.idle = r.pause
	draw.Text(&r.idle, image.Pt(textOffset, 3), face, "No player found", pixel.On)

	scroll := func(y int) *text.Stateful {
		return text.NewStateful(text.NewBuilder().
			WithFace(face).
			WithSpacing(10).
			WithPosition(image.Pt(textOffset, y)).
			WithProjection(image.Pt(visibleChars*glyphWidth, lineHeight)))
	}
	r.title = scroll(3)
	r.artist = scroll(3 + lineHeight)
	r.title.Update(UnknownTitle)
	r.artist.Update(UnknownArtist)
	return r
}

// Idle is shown while no player is running.
func (r *Renderer) Idle() pixel.FrameBuffer {
	return r.idle
}

// Update renders progress. Title and artist scroll one column per update if they are too long.
func (r *Renderer) Update(progress Progress) pixel.FrameBuffer {
	frame := r.pause
	if progress.Status == Playing {
		frame = r.play
	}

	width := int(float64(pixel.Width-2*progressInset) * progress.Completion())
	draw.ThickLine(&frame, image.Pt(progressInset, progressRow), image.Pt(progressInset+width, progressRow), 3, pixel.On)

	title, artist := progress.Title, progress.Artist
	if title == "" {
		title = UnknownTitle
	}
	if artist == "" {
		artist = UnknownArtist
	}
	for _, line := range []struct {
		s    *text.Stateful
		text string
	}{{r.title, title}, {r.artist, artist}} {
		if !line.s.Update(line.text) && len([]rune(line.text)) > visibleChars {
			line.s.Scrollable().Scroll()
		}
		line.s.Scrollable().Draw(&frame)
	}
	return frame
}

func noteIcon() *pixel.Canvas {
	return draw.MustIcon(
		"........................",
		"..............######....",
		"..........##########....",
		"..........####....##....",
		"..........##......##....",
		"..........##......##....",
		"..........##......##....",
		"..........##......##....",
		"..........##......##....",
		"..........##......##....",
		"..........##......##....",
		"..........##......##....",
		"..........##......##....",
		"..........##......##....",
		"..........##......##....",
		"......######..######....",
		".....#######.#######....",
		"....################....",
		"....#######.#######.....",
		".....#####...#####......",
		"........................",
		"........................",
		"........................",
		"........................",
	)
}

func pauseIcon() *pixel.Canvas {
	return draw.MustIcon(
		"........................",
		"........................",
		"........................",
		"......####....####......",
		"......####....####......",
		"......####....####......",
		"......####....####......",
		"......####....####......",
		"......####....####......",
		"......####....####......",
		"......####....####......",
		"......####....####......",
		"......####....####......",
		"......####....####......",
		"......####....####......",
		"......####....####......",
		"......####....####......",
		"......####....####......",
		"......####....####......",
		"......####....####......",
		"......####....####......",
		"........................",
		"........................",
		"........................",
	)
}
