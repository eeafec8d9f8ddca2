// Package sysinfo shows CPU, memory, network and temperature statistics.
package sysinfo

import (
	"context"
	"fmt"
	"image"
	"strconv"
	"strings"
	"time"

	"github.com/BeatGlow/oled/draw"
	"github.com/BeatGlow/oled/pixel"
	"github.com/BeatGlow/oled/provider"
)

// Name of the provider.
const Name = "sysinfo"

// DefaultPollingInterval is the time between two samples.
const DefaultPollingInterval = 2 * time.Second

const (
	rowHeight = 8
	barHeight = 7

	maxFrequency = 7.0                 // GHz
	maxNetRate   = 100 * 1024 * 1024.0 // bytes per second
	maxTemp      = 100.0               // °C
)

// Registration of the sysinfo provider.
var Registration = provider.Registration{
	Name: Name,
	New: func(config provider.Config) (provider.ContentProvider, error) {
		sampler := NewSystemSampler(
			provider.String(config, "sysinfo.net_interface_name", "eth0"),
			provider.String(config, "sysinfo.sensor_name", ""),
		)
		return New(sampler, provider.Millis(config, "sysinfo.polling_interval", DefaultPollingInterval)), nil
	},
}

// Sample is a snapshot of the system statistics.
type Sample struct {
	// Load is the CPU usage in percent.
	Load float64

	// Frequency is the highest core frequency in GHz.
	Frequency float64

	// MemoryUsed and MemoryTotal are in bytes.
	MemoryUsed, MemoryTotal uint64

	// Receive and Transmit are network rates in bytes per second.
	Receive, Transmit float64

	// Temperature in degrees Celsius.
	Temperature float64
}

// Sampler takes samples.
type Sampler interface {
	Sample(context.Context) (Sample, error)
}

// Sysinfo renders samples as labelled bars.
type Sysinfo struct {
	sampler  Sampler
	interval time.Duration
	face     draw.Face
}

// New returns a provider that samples every interval.
func New(sampler Sampler, interval time.Duration) *Sysinfo {
	if interval <= 0 {
		interval = DefaultPollingInterval
	}
	return &Sysinfo{
		sampler:  sampler,
		interval: interval,
		face:     draw.SmallFace(),
	}
}

func (s *Sysinfo) Name() string { return Name }

func (s *Sysinfo) Stream(ctx context.Context) (provider.Frames, error) {
	return provider.Ticker(ctx, s.interval, func(ctx context.Context) (pixel.FrameBuffer, error) {
		sample, err := s.sampler.Sample(ctx)
		if err != nil {
			return pixel.NewFrameBuffer(), err
		}
		return s.Render(sample), nil
	}), nil
}

// Render draws a sample.
func (s *Sysinfo) Render(sample Sample) pixel.FrameBuffer {
	frame := pixel.NewFrameBuffer()

	var memory float64
	if sample.MemoryTotal > 0 {
		memory = float64(sample.MemoryUsed) / float64(sample.MemoryTotal)
	}
	direction, rate := "I", sample.Receive
	if sample.Transmit > sample.Receive {
		direction, rate = "O", sample.Transmit
	}

	s.row(&frame, 0, fmt.Sprintf("C: %4.0f%%", sample.Load), sample.Load/100)
	s.row(&frame, 1, fmt.Sprintf("F: %4.2fG", sample.Frequency), sample.Frequency/maxFrequency)
	s.row(&frame, 2, fmt.Sprintf("M: %4.1fG", float64(sample.MemoryUsed)/(1<<30)), memory)
	s.row(&frame, 3, fmt.Sprintf("%s: %4s", direction, FormatRate(rate)), rate/maxNetRate)
	s.row(&frame, 4, fmt.Sprintf("T: %4.1fC", sample.Temperature), sample.Temperature/maxTemp)
	return frame
}

func (s *Sysinfo) row(frame *pixel.FrameBuffer, slot int, label string, fill float64) {
	y := slot*rowHeight + 1
	draw.Text(frame, image.Pt(0, y), s.face, label, pixel.On)

	// Align the bars on the widest label.
	x := draw.Measure(s.face, "C: 100.0G").X + 2
	draw.Bar(frame, image.Rect(x, y, pixel.Width, y+barHeight), fill, pixel.On)
}

// FormatRate formats bytes per second with at most four significant characters and a B, k, M or
// G unit.
func FormatRate(rate float64) string {
	var (
		units = []string{"B", "k", "M", "G"}
		unit  int
	)
	for unit < len(units)-1 && rate > 1024 {
		rate /= 1024
		unit++
	}
	value := strconv.FormatFloat(rate, 'f', -1, 64)
	if len(value) > 4 {
		value = value[:4]
	}
	return strings.TrimSuffix(value, ".") + units[unit]
}
