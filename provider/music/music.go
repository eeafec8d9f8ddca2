// Package music shows the status of a media player.
package music

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/BeatGlow/oled/pixel"
	"github.com/BeatGlow/oled/provider"
	"github.com/BeatGlow/oled/stream"
)

// Name of the provider, it matches the configuration section "mpris2".
const Name = "mpris2"

// ReconnectDelay is the time between two searches for a player.
const ReconnectDelay = 5 * time.Second

// PollInterval is the time between two progress updates without any player events.
const PollInterval = 100 * time.Millisecond

// ErrNoPlayer is returned when no media player is running.
var ErrNoPlayer = errors.New("music: no player found")

// PlaybackStatus of a player.
type PlaybackStatus int

// Playback states.
const (
	Stopped PlaybackStatus = iota
	Paused
	Playing
)

// ParsePlaybackStatus parses the MPRIS2 playback status, anything unknown is Stopped.
func ParsePlaybackStatus(s string) PlaybackStatus {
	switch s {
	case "Playing":
		return Playing
	case "Paused":
		return Paused
	default:
		return Stopped
	}
}

func (s PlaybackStatus) String() string {
	switch s {
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Stopped"
	}
}

// Progress of the current track.
type Progress struct {
	Title    string
	Artist   string
	Length   time.Duration
	Position time.Duration
	Status   PlaybackStatus
}

// Completion is the played fraction of the track.
func (p Progress) Completion() float64 {
	if p.Length <= 0 {
		return 0
	}
	return max(0, min(1, float64(p.Position)/float64(p.Length)))
}

// Player is a running media player.
type Player interface {
	Name() string
	Progress(context.Context) (Progress, error)
}

// Bus finds media players.
type Bus interface {
	// FindPlayer returns the preferred player if it is running, or any other player.
	FindPlayer(ctx context.Context, preferred string) (Player, error)

	// Changed is signalled when a player reports a change.
	Changed() <-chan struct{}

	Close() error
}

// Registration of the music provider.
var Registration = provider.Registration{
	Name: Name,
	New: func(config provider.Config) (provider.ContentProvider, error) {
		return New(ConnectMPRIS, provider.String(config, "mpris2.preferred_player", "")), nil
	},
}

// Music shows the progress of a media player.
type Music struct {
	connect   func() (Bus, error)
	preferred string
	renderer  *Renderer
}

// New returns a provider that connects to the bus when streaming starts.
func New(connect func() (Bus, error), preferred string) *Music {
	return &Music{
		connect:   connect,
		preferred: preferred,
		renderer:  NewRenderer(),
	}
}

func (m *Music) Name() string { return Name }

func (m *Music) Stream(ctx context.Context) (provider.Frames, error) {
	bus, err := m.connect()
	if err != nil {
		return nil, err
	}
	return stream.Demand(ctx, func(ctx context.Context, yield func(func() stream.Result[pixel.FrameBuffer]) bool) {
		defer func() { _ = bus.Close() }()
		for {
			if !yield(m.idle) {
				return
			}

			slog.Debug("music: looking for player", "preferred", m.preferred)
			player, err := bus.FindPlayer(ctx, m.preferred)
			if err != nil {
				if !errors.Is(err, ErrNoPlayer) {
					slog.Debug("music: error finding player", "err", err)
				}
				select {
				case <-time.After(ReconnectDelay):
					continue
				case <-ctx.Done():
					return
				}
			}

			slog.Info("music: connected to player", "player", player.Name())
			if !m.follow(ctx, bus, player, yield) {
				return
			}
		}
	}), nil
}

func (m *Music) idle() stream.Result[pixel.FrameBuffer] {
	return stream.Ok(m.renderer.Idle())
}

// follow renders the player until it disappears. It returns false if the stream should end.
func (m *Music) follow(ctx context.Context, bus Bus, player Player, yield func(func() stream.Result[pixel.FrameBuffer]) bool) bool {
	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()
	for {
		var lost error
		if !yield(func() stream.Result[pixel.FrameBuffer] {
			progress, err := player.Progress(ctx)
			if lost = err; err != nil {
				return m.idle()
			}
			return stream.Ok(m.renderer.Update(progress))
		}) {
			return false
		}
		if lost != nil {
			slog.Info("music: lost player", "player", player.Name(), "err", lost)
			return true
		}
		select {
		case <-ticker.C:
		case <-bus.Changed():
		case <-ctx.Done():
			return false
		}
	}
}
