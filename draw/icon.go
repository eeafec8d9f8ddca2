package draw

import (
	"errors"
	"fmt"

	"github.com/BeatGlow/oled/pixel"
)

// ErrIconEmpty is returned when an icon has no pixels.
var ErrIconEmpty = errors.New("draw: empty icon")

// Icon converts ASCII art into a canvas. A '#' lights a pixel, any other character leaves it off.
// All rows must have the same length.
func Icon(rows ...string) (*pixel.Canvas, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrIconEmpty
	}
	w := len(rows[0])
	icon := pixel.NewCanvas(w, len(rows))
	for y, row := range rows {
		if len(row) != w {
			return nil, fmt.Errorf("draw: icon row %d is %d pixels wide, expected %d", y, len(row), w)
		}
		for x := 0; x < w; x++ {
			icon.SetBit(x+y*w, row[x] == '#')
		}
	}
	return icon, nil
}

// MustIcon is like Icon but panics on malformed art. It is meant for icons defined in code.
func MustIcon(rows ...string) *pixel.Canvas {
	icon, err := Icon(rows...)
	if err != nil {
		panic(err)
	}
	return icon
}
