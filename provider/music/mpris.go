package music

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	mprisPrefix    = "org.mpris.MediaPlayer2."
	mprisPath      = "/org/mpris/MediaPlayer2"
	mprisPlayer    = "org.mpris.MediaPlayer2.Player"
	dbusProperties = "org.freedesktop.DBus.Properties"
)

// MPRIS finds media players on the D-Bus session bus.
type MPRIS struct {
	conn    *dbus.Conn
	signals chan *dbus.Signal
	changed chan struct{}
}

// ConnectMPRIS connects to the session bus and subscribes to player changes.
func ConnectMPRIS() (Bus, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("music: error connecting to session bus: %w", err)
	}

	for _, match := range [][]dbus.MatchOption{
		{
			dbus.WithMatchObjectPath(mprisPath),
			dbus.WithMatchInterface(dbusProperties),
			dbus.WithMatchMember("PropertiesChanged"),
		},
		{
			dbus.WithMatchObjectPath(mprisPath),
			dbus.WithMatchInterface(mprisPlayer),
			dbus.WithMatchMember("Seeked"),
		},
	} {
		if err = conn.AddMatchSignal(match...); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("music: error adding signal match: %w", err)
		}
	}

	m := &MPRIS{
		conn:    conn,
		signals: make(chan *dbus.Signal, 16),
		changed: make(chan struct{}, 1),
	}
	conn.Signal(m.signals)
	go m.relay()
	return m, nil
}

func (m *MPRIS) relay() {
	for range m.signals {
		select {
		case m.changed <- struct{}{}:
		default:
		}
	}
}

func (m *MPRIS) Changed() <-chan struct{} {
	return m.changed
}

func (m *MPRIS) Close() error {
	m.conn.RemoveSignal(m.signals)
	return m.conn.Close()
}

// Players lists the bus names of all running media players.
func (m *MPRIS) Players(ctx context.Context) ([]string, error) {
	var names []string
	if err := m.conn.BusObject().CallWithContext(ctx, "org.freedesktop.DBus.ListNames", 0).Store(&names); err != nil {
		return nil, fmt.Errorf("music: error listing bus names: %w", err)
	}
	return slices.DeleteFunc(names, func(name string) bool {
		return !strings.HasPrefix(name, mprisPrefix)
	}), nil
}

func (m *MPRIS) FindPlayer(ctx context.Context, preferred string) (Player, error) {
	names, err := m.Players(ctx)
	if err != nil {
		return nil, err
	}
	name, ok := pickPlayer(names, preferred)
	if !ok {
		return nil, ErrNoPlayer
	}
	return &mprisClient{
		name: strings.TrimPrefix(name, mprisPrefix),
		obj:  m.conn.Object(name, mprisPath),
	}, nil
}

// pickPlayer returns the bus name of the preferred player, or the first one.
func pickPlayer(names []string, preferred string) (string, bool) {
	if len(names) == 0 {
		return "", false
	}
	if preferred != "" {
		for _, name := range names {
			if strings.EqualFold(strings.TrimPrefix(name, mprisPrefix), preferred) {
				return name, true
			}
		}
	}
	return names[0], true
}

type mprisClient struct {
	name string
	obj  dbus.BusObject
}

func (p *mprisClient) Name() string { return p.name }

func (p *mprisClient) Progress(ctx context.Context) (progress Progress, err error) {
	var (
		metadata map[string]dbus.Variant
		position int64
		status   string
	)
	if err = p.get(ctx, "Metadata", &metadata); err != nil {
		return
	}
	if err = p.get(ctx, "PlaybackStatus", &status); err != nil {
		return
	}
	// Players may not implement Position, the track is shown without progress then.
	_ = p.get(ctx, "Position", &position)

	progress = parseMetadata(metadata)
	progress.Position = time.Duration(position) * time.Microsecond
	progress.Status = ParsePlaybackStatus(status)
	return
}

func (p *mprisClient) get(ctx context.Context, property string, value any) error {
	call := p.obj.CallWithContext(ctx, dbusProperties+".Get", 0, mprisPlayer, property)
	if call.Err != nil {
		return fmt.Errorf("music: error getting %s: %w", property, call.Err)
	}
	var v dbus.Variant
	if err := call.Store(&v); err != nil {
		return err
	}
	return dbus.Store([]any{v.Value()}, value)
}

// parseMetadata extracts title, artists and length from MPRIS2 track metadata.
func parseMetadata(metadata map[string]dbus.Variant) (progress Progress) {
	if v, ok := metadata["xesam:title"]; ok {
		progress.Title, _ = v.Value().(string)
	}
	if v, ok := metadata["xesam:artist"]; ok {
		switch artists := v.Value().(type) {
		case []string:
			progress.Artist = strings.Join(artists, ", ")
		case string:
			progress.Artist = artists
		}
	}
	if v, ok := metadata["mpris:length"]; ok {
		switch length := v.Value().(type) {
		case int64:
			progress.Length = time.Duration(length) * time.Microsecond
		case uint64:
			progress.Length = time.Duration(length) * time.Microsecond
		case int32:
			progress.Length = time.Duration(length) * time.Microsecond
		}
	}
	return
}
