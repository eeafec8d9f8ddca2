// Package simulator shows frames in a desktop window, for development without a keyboard screen.
package simulator

import (
	"context"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/BeatGlow/oled/input"
	"github.com/BeatGlow/oled/pixel"
)

// DefaultScale is the size of a frame pixel in screen pixels.
const DefaultScale = 4

// Colors of lit and dark pixels, RGBA.
var (
	OnColor  = [4]byte{0xff, 0xff, 0xff, 0xff}
	OffColor = [4]byte{0x00, 0x00, 0x00, 0xff}
)

// keys maps window keys to commands.
var keys = map[ebiten.Key]input.Command{
	ebiten.KeyArrowLeft:  input.PreviousSource,
	ebiten.KeyA:          input.PreviousSource,
	ebiten.KeyArrowRight: input.NextSource,
	ebiten.KeyD:          input.NextSource,
	ebiten.KeyQ:          input.Shutdown,
	ebiten.KeyEscape:     input.Shutdown,
}

// Window is a sink drawing frames in a window. Key presses in the window and closing the window
// are sent as commands.
type Window struct {
	scale   int
	pending chan input.Command

	mu     sync.Mutex
	pix    []byte
	closed bool

	screen *ebiten.Image
}

// New returns a window scaling every pixel to scale×scale screen pixels.
func New(scale int) *Window {
	if scale <= 0 {
		scale = DefaultScale
	}
	w := &Window{
		scale:   scale,
		pending: make(chan input.Command, 16),
		pix:     make([]byte, pixel.Width*pixel.Height*4),
	}
	writePixels(w.pix, new(pixel.FrameBuffer))
	return w
}

// Run opens the window and blocks until it is closed, the sink is shut down or ctx is done.
// Commands are sent on commands. Like all ebiten games this must run on the main goroutine.
func (w *Window) Run(ctx context.Context, commands chan<- input.Command) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		for {
			select {
			case cmd := <-w.pending:
				if !input.Send(ctx, commands, cmd) {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	context.AfterFunc(ctx, func() {
		w.mu.Lock()
		w.closed = true
		w.mu.Unlock()
	})

	ebiten.SetWindowSize(pixel.Width*w.scale, pixel.Height*w.scale)
	ebiten.SetWindowTitle("oled simulator")
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetWindowClosingHandled(true)
	return ebiten.RunGame(w)
}

func (w *Window) String() string {
	return "simulator"
}

func (w *Window) emit(cmd input.Command) {
	select {
	case w.pending <- cmd:
	default:
	}
}

// Update implements ebiten.Game.
func (w *Window) Update() error {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return ebiten.Termination
	}

	if ebiten.IsWindowBeingClosed() {
		w.emit(input.Shutdown)
		return nil
	}
	for key, cmd := range keys {
		if inpututil.IsKeyJustPressed(key) {
			w.emit(cmd)
		}
	}
	return nil
}

// Draw implements ebiten.Game.
func (w *Window) Draw(screen *ebiten.Image) {
	if w.screen == nil {
		w.screen = ebiten.NewImage(pixel.Width, pixel.Height)
	}
	w.mu.Lock()
	w.screen.WritePixels(w.pix)
	w.mu.Unlock()

	op := new(ebiten.DrawImageOptions)
	op.GeoM.Scale(float64(w.scale), float64(w.scale))
	screen.DrawImage(w.screen, op)
}

// Layout implements ebiten.Game.
func (w *Window) Layout(_, _ int) (int, int) {
	return pixel.Width * w.scale, pixel.Height * w.scale
}

// DrawFrame shows frame. It is named Draw in the sink interface, but ebiten.Game owns that name.
func (w *Window) DrawFrame(frame pixel.FrameBuffer) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	writePixels(w.pix, &frame)
	return nil
}

// Clear blanks the window.
func (w *Window) Clear() error {
	return w.DrawFrame(pixel.NewFrameBuffer())
}

// Fill lights every pixel.
func (w *Window) Fill() error {
	frame := pixel.NewFrameBuffer()
	frame.Fill(pixel.On)
	return w.DrawFrame(frame)
}

// Shutdown closes the window.
func (w *Window) Shutdown() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

// Sink adapts the window to the scheduler's device interface.
func (w *Window) Sink() Sink {
	return Sink{w}
}

// Sink draws on a Window.
type Sink struct {
	*Window
}

// Draw shows frame.
func (s Sink) Draw(frame pixel.FrameBuffer) error {
	return s.DrawFrame(frame)
}

// writePixels converts frame to RGBA.
func writePixels(dst []byte, frame *pixel.FrameBuffer) {
	for y := 0; y < pixel.Height; y++ {
		for x := 0; x < pixel.Width; x++ {
			c := OffColor
			if frame.ReadPixel(x, y) {
				c = OnColor
			}
			copy(dst[(y*pixel.Width+x)*4:], c[:])
		}
	}
}
