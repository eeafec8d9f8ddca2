// Package scheduler drives a display from a rotating set of content providers.
//
// The scheduler shows one provider at a time and only pulls frames from that provider. Commands
// switch between providers, and an optional timer switches to the next provider once a full period
// passed since the last switch. Notifications interrupt the rotation: every frame of a notification is
// drawn before content is shown again.
package scheduler

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/BeatGlow/oled/input"
	"github.com/BeatGlow/oled/notify"
	"github.com/BeatGlow/oled/pixel"
	"github.com/BeatGlow/oled/provider"
	"github.com/BeatGlow/oled/stream"
)

// DefaultRefreshInterval is the auto-advance threshold used when "refresh.interval" is not set.
const DefaultRefreshInterval = 30 * time.Second

// Device is the display the scheduler draws on. It is only used from the scheduler's loop.
type Device interface {
	Draw(pixel.FrameBuffer) error
	Clear() error
	Shutdown() error
}

// Scheduler owns the device and the providers.
type Scheduler struct {
	device        Device
	config        provider.Config
	providers     []provider.Registration
	notifications []notify.Registration
	log           *slog.Logger

	current atomic.Int64
	refresh time.Duration
	advance *time.Timer

	mu    sync.Mutex
	names []string
}

// New returns a scheduler for the given providers and notification sources. Providers are filtered
// by "<name>.enabled" and ordered by "<name>.priority" when Run starts.
func New(device Device, config provider.Config, providers []provider.Registration, notifications []notify.Registration) *Scheduler {
	s := &Scheduler{
		device:        device,
		config:        config,
		providers:     providers,
		notifications: notifications,
		log:           slog.Default(),
	}
	if provider.Bool(config, "interval.refresh", false) {
		s.refresh = provider.Seconds(config, "refresh.interval", DefaultRefreshInterval)
	}
	return s
}

// WithLogger sets the logger.
func (s *Scheduler) WithLogger(log *slog.Logger) *Scheduler {
	if log != nil {
		s.log = log
	}
	return s
}

// Providers returns the names of the active providers in rotation order.
func (s *Scheduler) Providers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.names)
}

// Current is the index of the provider on screen.
func (s *Scheduler) Current() int {
	return int(s.current.Load())
}

// Run starts all providers and draws until a Shutdown command arrives, ctx is done or the device
// fails. On shutdown the device is cleared and shut down. Provider work is abandoned when Run
// returns.
func (s *Scheduler) Run(ctx context.Context, commands <-chan input.Command) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		streams       = s.startProviders(ctx)
		notifications = s.startNotifications(ctx)
		mux           = stream.Multiplex(streams, s.Current)
	)
	s.log.Info("scheduler: started", "providers", s.Providers())

	if err := s.device.Clear(); err != nil {
		return fmt.Errorf("scheduler: error clearing device: %w", err)
	}

	var autoAdvance <-chan time.Time
	if s.refresh > 0 {
		s.advance = time.NewTimer(s.refresh)
		defer s.advance.Stop()
		autoAdvance = s.advance.C
	}

	for {
		var content <-chan stream.Result[pixel.FrameBuffer]
		if mux.Len() > 0 {
			content = mux.Next()
		}

		select {
		case cmd, ok := <-commands:
			if !ok {
				commands = nil
				continue
			}
			if cmd == input.Shutdown {
				return s.shutdown()
			}
			if err := s.switchSource(cmd, mux.Len()); err != nil {
				return s.fail(err)
			}

		case r, ok := <-next(notifications):
			if !ok {
				continue
			}
			if r.Err != nil {
				s.log.Debug("scheduler: dropped notification", "err", r.Err)
				continue
			}
			mux.Withdraw()
			if err := s.drain(ctx, r.Value); err != nil {
				return s.fail(err)
			}

		case r, ok := <-content:
			if !ok {
				s.log.Info("scheduler: provider ended", "index", s.Current())
				continue
			}
			if r.Err != nil {
				s.log.Debug("scheduler: dropped frame", "index", s.Current(), "err", r.Err)
				continue
			}
			if err := s.device.Draw(r.Value); err != nil {
				return s.fail(fmt.Errorf("scheduler: error drawing: %w", err))
			}

		case <-autoAdvance:
			if err := s.switchSource(input.NextSource, mux.Len()); err != nil {
				return s.fail(err)
			}

		case <-ctx.Done():
			return s.shutdown()
		}
	}
}

// next returns the value channel of s, or nil if there is nothing left to receive.
func next[T any](s stream.Stream[T]) <-chan T {
	if s == nil || s.Terminated() {
		return nil
	}
	return s.Next()
}

func (s *Scheduler) startProviders(ctx context.Context) []provider.Frames {
	var registrations []provider.Registration
	for _, r := range s.providers {
		if !provider.Enabled(s.config, r.Name) {
			s.log.Info("scheduler: provider disabled", "provider", r.Name)
			continue
		}
		registrations = append(registrations, r)
	}
	slices.SortStableFunc(registrations, func(a, b provider.Registration) int {
		return cmp.Compare(provider.Priority(s.config, a.Name), provider.Priority(s.config, b.Name))
	})

	var (
		streams []provider.Frames
		names   []string
	)
	for _, r := range registrations {
		p, err := r.New(s.config)
		if err != nil {
			s.log.Error("scheduler: error creating provider", "provider", r.Name, "err", err)
			continue
		}
		frames, err := p.Stream(ctx)
		if err != nil {
			s.log.Error("scheduler: error starting provider", "provider", r.Name, "err", err)
			continue
		}
		streams = append(streams, frames)
		names = append(names, p.Name())
	}

	s.mu.Lock()
	s.names = names
	s.mu.Unlock()
	return streams
}

func (s *Scheduler) startNotifications(ctx context.Context) notify.Notifications {
	var streams []notify.Notifications
	for _, r := range s.notifications {
		if !provider.Enabled(s.config, r.Name) {
			continue
		}
		p, err := r.New(s.config)
		if err != nil {
			s.log.Error("scheduler: error creating notification source", "source", r.Name, "err", err)
			continue
		}
		notifications, err := p.Stream(ctx)
		if err != nil {
			s.log.Error("scheduler: error starting notification source", "source", r.Name, "err", err)
			continue
		}
		streams = append(streams, notifications)
	}
	if len(streams) == 0 {
		return nil
	}
	return stream.Merge(ctx, streams...)
}

func (s *Scheduler) switchSource(cmd input.Command, count int) error {
	if count == 0 {
		return nil
	}
	index := s.Current()
	switch cmd {
	case input.NextSource:
		index = (index + 1) % count
	case input.PreviousSource:
		index = (index - 1 + count) % count
	default:
		return nil
	}
	s.current.Store(int64(index))
	if s.advance != nil {
		s.advance.Reset(s.refresh)
	}
	s.log.Info("scheduler: switched provider", "command", cmd, "index", index, "provider", s.nameOf(index))

	if err := s.device.Clear(); err != nil {
		return fmt.Errorf("scheduler: error clearing device: %w", err)
	}
	return nil
}

func (s *Scheduler) nameOf(index int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < len(s.names) {
		return s.names[index]
	}
	return ""
}

// drain draws every frame of n.
func (s *Scheduler) drain(ctx context.Context, n *notify.Notification) error {
	frames, err := n.Stream(ctx)
	if err != nil {
		s.log.Debug("scheduler: dropped notification", "id", n.ID, "err", err)
		return nil
	}
	s.log.Debug("scheduler: showing notification", "id", n.ID, "ticks", n.Ticks())
	for {
		select {
		case r, ok := <-frames.Next():
			if !ok {
				return nil
			}
			if r.Err != nil {
				s.log.Debug("scheduler: dropped notification frame", "id", n.ID, "err", r.Err)
				continue
			}
			if err = s.device.Draw(r.Value); err != nil {
				return fmt.Errorf("scheduler: error drawing notification: %w", err)
			}
		case <-ctx.Done():
			return nil
		}
	}
}

func (s *Scheduler) shutdown() error {
	s.log.Info("scheduler: shutting down")
	var err error
	if clearErr := s.device.Clear(); clearErr != nil {
		err = fmt.Errorf("scheduler: error clearing device: %w", clearErr)
	}
	if shutdownErr := s.device.Shutdown(); shutdownErr != nil {
		err = errors.Join(err, fmt.Errorf("scheduler: error shutting down device: %w", shutdownErr))
	}
	return err
}

// fail tries to leave a blank display behind after a device error.
func (s *Scheduler) fail(err error) error {
	s.log.Error("scheduler: device failed", "err", err)
	_ = s.device.Clear()
	return err
}
