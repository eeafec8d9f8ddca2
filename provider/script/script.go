// Package script renders frames with Lua scripts.
//
// A script defines a global function render(tick) that is called for every frame on a cleared
// frame. It draws with these functions:
//
//	clear()                      turn all pixels off
//	pixel(x, y [, on])           set one pixel, on defaults to true
//	line(x1, y1, x2, y2)         draw a line
//	rect(x, y, w, h [, fill])    draw a rectangle outline or a filled box
//	text(x, y, s)                draw text with its top left corner at (x, y)
//	width, height                the frame size
package script

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/BeatGlow/oled/draw"
	"github.com/BeatGlow/oled/pixel"
	"github.com/BeatGlow/oled/provider"
)

// Name of the provider.
const Name = "script"

// Errors.
var (
	ErrNoPath   = errors.New("script: no script path configured")
	ErrNoRender = errors.New("script: render function not defined")
	ErrClosed   = errors.New("script: closed")
)

// Registration of the script provider.
var Registration = provider.Registration{
	Name: Name,
	New: func(config provider.Config) (provider.ContentProvider, error) {
		path := provider.String(config, "script.path", "")
		if path == "" {
			return nil, ErrNoPath
		}
		return Load(path)
	},
}

// Script holds a Lua state with a loaded script.
type Script struct {
	mu     sync.Mutex
	state  *lua.LState
	closed bool
	face   draw.Face
	frame  pixel.FrameBuffer
	tick   int
}

// Load runs the script file at path.
func Load(path string) (*Script, error) {
	s := newScript()
	if err := s.state.DoFile(path); err != nil {
		s.Close()
		return nil, fmt.Errorf("script: error loading %s: %w", path, err)
	}
	return s, s.check()
}

// LoadString runs a script from source.
func LoadString(source string) (*Script, error) {
	s := newScript()
	if err := s.state.DoString(source); err != nil {
		s.Close()
		return nil, fmt.Errorf("script: error loading: %w", err)
	}
	return s, s.check()
}

func newScript() *Script {
	s := &Script{
		state: lua.NewState(),
		face:  draw.RegularFace,
		frame: pixel.NewFrameBuffer(),
	}
	s.state.SetGlobal("width", lua.LNumber(pixel.Width))
	s.state.SetGlobal("height", lua.LNumber(pixel.Height))
	for name, fn := range map[string]lua.LGFunction{
		"clear": s.luaClear,
		"pixel": s.luaPixel,
		"line":  s.luaLine,
		"rect":  s.luaRect,
		"text":  s.luaText,
	} {
		s.state.SetGlobal(name, s.state.NewFunction(fn))
	}
	return s
}

func (s *Script) check() error {
	if s.state.GetGlobal("render").Type() != lua.LTFunction {
		s.Close()
		return ErrNoRender
	}
	return nil
}

func (s *Script) Name() string { return Name }

// Stream renders a frame per tick. The Lua state is closed once ctx is done.
func (s *Script) Stream(ctx context.Context) (provider.Frames, error) {
	s.state.SetContext(ctx)
	context.AfterFunc(ctx, s.Close)
	return provider.Ticker(ctx, provider.TickLength, func(context.Context) (pixel.FrameBuffer, error) {
		frame, err := s.Render(s.tick)
		s.tick++
		return frame, err
	}), nil
}

// Render calls the render function for one frame.
func (s *Script) Render(tick int) (pixel.FrameBuffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return pixel.NewFrameBuffer(), ErrClosed
	}

	s.frame = pixel.NewFrameBuffer()
	if err := s.state.CallByParam(lua.P{
		Fn:      s.state.GetGlobal("render"),
		NRet:    0,
		Protect: true,
	}, lua.LNumber(tick)); err != nil {
		return pixel.NewFrameBuffer(), fmt.Errorf("script: render: %w", err)
	}
	return s.frame, nil
}

// Close releases the Lua state. Closing twice is a no-op.
func (s *Script) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		s.state.Close()
	}
}

func (s *Script) luaClear(*lua.LState) int {
	s.frame.Clear()
	return 0
}

func (s *Script) luaPixel(L *lua.LState) int {
	s.frame.DrawPixel(L.CheckInt(1), L.CheckInt(2), L.OptBool(3, true))
	return 0
}

func (s *Script) luaLine(L *lua.LState) int {
	draw.Line(&s.frame, image.Pt(L.CheckInt(1), L.CheckInt(2)), image.Pt(L.CheckInt(3), L.CheckInt(4)), pixel.On)
	return 0
}

func (s *Script) luaRect(L *lua.LState) int {
	var r image.Rectangle
	r.Min = image.Pt(L.CheckInt(1), L.CheckInt(2))
	r.Max = r.Min.Add(image.Pt(L.CheckInt(3), L.CheckInt(4)))
	if L.OptBool(5, false) {
		draw.Box(&s.frame, r, pixel.On)
	} else {
		draw.Rectangle(&s.frame, r, pixel.On)
	}
	return 0
}

func (s *Script) luaText(L *lua.LState) int {
	draw.Text(&s.frame, image.Pt(L.CheckInt(1), L.CheckInt(2)), s.face, L.CheckString(3), pixel.On)
	return 0
}
