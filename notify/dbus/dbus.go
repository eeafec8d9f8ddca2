// Package dbus turns desktop notifications sent over the D-Bus session bus into notifications.
//
// The bus is monitored for calls of org.freedesktop.Notifications.Notify, so notifications are
// shown in addition to the desktop's own notification daemon.
package dbus

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/godbus/dbus/v5"

	"github.com/BeatGlow/oled/notify"
	"github.com/BeatGlow/oled/pixel"
	"github.com/BeatGlow/oled/provider"
	"github.com/BeatGlow/oled/stream"
)

// Name of the source.
const Name = "dbus"

const (
	notificationsInterface = "org.freedesktop.Notifications"
	notifyMember           = "Notify"
)

// MatchRule selects the Notify method calls.
var MatchRule = fmt.Sprintf("type='method_call',interface='%s',member='%s'", notificationsInterface, notifyMember)

// chatApps are shown with the chat icon.
var chatApps = []string{"discord", "slack", "telegram", "signal", "element", "teams", "whatsapp"}

// Registration of the D-Bus notification source.
var Registration = notify.Registration{
	Name: Name,
	New: func(provider.Config) (notify.Provider, error) {
		return New(dbus.ConnectSessionBus), nil
	},
}

// Message is a desktop notification.
type Message struct {
	App     string
	Summary string
	Body    string
}

// Monitor listens for desktop notifications.
type Monitor struct {
	connect func(...dbus.ConnOption) (*dbus.Conn, error)
}

// New returns a monitor using connect to open a private bus connection.
func New(connect func(...dbus.ConnOption) (*dbus.Conn, error)) *Monitor {
	return &Monitor{connect: connect}
}

func (m *Monitor) Name() string { return Name }

func (m *Monitor) Stream(ctx context.Context) (notify.Notifications, error) {
	conn, err := m.connect()
	if err != nil {
		return nil, fmt.Errorf("dbus: error connecting to session bus: %w", err)
	}
	if call := conn.BusObject().CallWithContext(ctx, "org.freedesktop.DBus.Monitoring.BecomeMonitor", 0, []string{MatchRule}, uint32(0)); call.Err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("dbus: error becoming monitor: %w", call.Err)
	}

	messages := make(chan *dbus.Message, 10)
	conn.Eavesdrop(messages)

	return stream.Generate(ctx, func(ctx context.Context, yield func(stream.Result[*notify.Notification]) bool) {
		defer func() { _ = conn.Close() }()
		for {
			select {
			case msg, ok := <-messages:
				if !ok {
					return
				}
				note, ok := Parse(msg)
				if !ok {
					continue
				}
				slog.Debug("dbus: notification", "app", note.App, "summary", note.Summary)
				n, err := note.Notification()
				if !yield(stream.Result[*notify.Notification]{Value: n, Err: err}) {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}), nil
}

// Parse extracts a Message from a Notify method call.
func Parse(msg *dbus.Message) (m Message, ok bool) {
	if msg == nil || msg.Type != dbus.TypeMethodCall {
		return
	}
	if member, _ := msg.Headers[dbus.FieldMember].Value().(string); member != notifyMember {
		return
	}
	if iface, _ := msg.Headers[dbus.FieldInterface].Value().(string); iface != notificationsInterface {
		return
	}
	// app_name, replaces_id, app_icon, summary, body, actions, hints, expire_timeout
	if len(msg.Body) < 5 {
		return
	}
	m.App, _ = msg.Body[0].(string)
	m.Summary, _ = msg.Body[3].(string)
	m.Body, _ = msg.Body[4].(string)
	return m, true
}

// Notification builds the notification for m.
func (m Message) Notification() (*notify.Notification, error) {
	title := m.Summary
	if title == "" {
		title = m.App
	}
	body, _, _ := strings.Cut(m.Body, "\n")
	return notify.NewBuilder().
		WithIcon(m.icon()).
		WithTitle(title).
		WithContent(body).
		Build()
}

func (m Message) icon() *pixel.Canvas {
	app := strings.ToLower(m.App)
	for _, chat := range chatApps {
		if strings.Contains(app, chat) {
			return notify.ChatIcon()
		}
	}
	return notify.BellIcon()
}
