package oled

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/BeatGlow/oled/pixel"
)

// Terminal escape sequences.
const (
	escHome       = "\x1b[H"
	escClear      = "\x1b[2J"
	escHideCursor = "\x1b[?25l"
	escShowCursor = "\x1b[?25h"
)

// Terminal size needed for a frame with a border, two pixel rows per line.
const (
	TerminalColumns = pixel.Width + 2
	TerminalLines   = pixel.Height/2 + 2
)

// Terminal previews frames in a terminal using half block characters.
type Terminal struct {
	w io.Writer
}

// NewTerminal returns a preview sink writing to out. Unless force is set, out must be a terminal
// large enough for a frame.
func NewTerminal(out *os.File, force bool) (*Terminal, error) {
	if !force {
		fd := int(out.Fd())
		if !term.IsTerminal(fd) {
			return nil, ErrNotTerminal
		}
		cols, lines, err := term.GetSize(fd)
		if err != nil {
			return nil, fmt.Errorf("oled: error getting terminal size: %w", err)
		}
		if cols < TerminalColumns || lines < TerminalLines {
			return nil, fmt.Errorf("%w: need %dx%d, have %dx%d", ErrTooSmall, TerminalColumns, TerminalLines, cols, lines)
		}
	}
	return newTerminal(out)
}

func newTerminal(w io.Writer) (*Terminal, error) {
	if _, err := io.WriteString(w, escHideCursor+escClear); err != nil {
		return nil, err
	}
	return &Terminal{w: w}, nil
}

func (t *Terminal) String() string {
	return "terminal preview"
}

// Draw redraws the preview.
func (t *Terminal) Draw(frame pixel.FrameBuffer) error {
	_, err := io.WriteString(t.w, escHome+Render(&frame))
	return err
}

// Clear blanks the preview.
func (t *Terminal) Clear() error {
	return t.Draw(pixel.NewFrameBuffer())
}

// Fill lights every pixel.
func (t *Terminal) Fill() error {
	return t.Draw(allOn())
}

// Shutdown clears the terminal and restores the cursor.
func (t *Terminal) Shutdown() error {
	_, err := io.WriteString(t.w, escClear+escHome+escShowCursor)
	return err
}

// Render draws frame as text inside a border, every character covers two rows of pixels. Lines
// end in CRLF so the output also works on a terminal in raw mode.
func Render(frame *pixel.FrameBuffer) string {
	var b strings.Builder
	b.Grow(TerminalLines * (TerminalColumns*3 + 1))

	b.WriteString("┌" + strings.Repeat("─", pixel.Width) + "┐\r\n")
	for y := 0; y < pixel.Height; y += 2 {
		b.WriteString("│")
		for x := 0; x < pixel.Width; x++ {
			top, bottom := frame.ReadPixel(x, y), frame.ReadPixel(x, y+1)
			switch {
			case top && bottom:
				b.WriteString("█")
			case top:
				b.WriteString("▀")
			case bottom:
				b.WriteString("▄")
			default:
				b.WriteByte(' ')
			}
		}
		b.WriteString("│\r\n")
	}
	b.WriteString("└" + strings.Repeat("─", pixel.Width) + "┘\r\n")
	return b.String()
}
