package oled

import (
	"fmt"
	"image"

	"github.com/BeatGlow/oled/pixel"
)

// PanelSink shows frames on an OLED panel. The frame is centred on the panel and clipped when the
// panel is smaller than a frame.
type PanelSink struct {
	panel    Panel
	rotation Rotation
	offset   image.Point
}

// NewPanelSink returns a sink for panel. Only NoRotation and Rotate180 are supported, a rotated
// frame would not fit the panels this drives.
func NewPanelSink(panel Panel, rotation Rotation) (*PanelSink, error) {
	switch rotation {
	case NoRotation, Rotate180:
	default:
		return nil, fmt.Errorf("%w: %s", ErrRotation, rotation)
	}
	size := panel.Bounds().Size()
	return &PanelSink{
		panel:    panel,
		rotation: rotation,
		offset:   image.Pt((size.X-pixel.Width)/2, (size.Y-pixel.Height)/2),
	}, nil
}

func (s *PanelSink) String() string {
	return fmt.Sprintf("%s rotated %s", s.panel, s.rotation)
}

// Draw replaces the panel contents with frame.
func (s *PanelSink) Draw(frame pixel.FrameBuffer) error {
	s.panel.Clear()
	if s.rotation == Rotate180 {
		corner := s.panel.Bounds().Max
		for y := 0; y < pixel.Height; y++ {
			for x := 0; x < pixel.Width; x++ {
				s.panel.Set(corner.X-1-(x+s.offset.X), corner.Y-1-(y+s.offset.Y), pixel.Mono{On: frame.ReadPixel(x, y)})
			}
		}
	} else {
		pixel.Blit(s.panel, &frame, s.offset)
	}
	if err := s.panel.Refresh(); err != nil {
		return fmt.Errorf("oled: error refreshing %s: %w", s.panel, err)
	}
	return nil
}

// Clear blanks the panel.
func (s *PanelSink) Clear() error {
	s.panel.Clear()
	return s.panel.Refresh()
}

// Fill lights every pixel a frame covers.
func (s *PanelSink) Fill() error {
	return s.Draw(allOn())
}

// Shutdown blanks the panel, turns it off and closes the connection.
func (s *PanelSink) Shutdown() error {
	if err := s.Clear(); err != nil {
		_ = s.panel.Close()
		return err
	}
	return s.panel.Close()
}
