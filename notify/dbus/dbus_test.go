package dbus

import (
	"testing"

	"github.com/godbus/dbus/v5"

	"github.com/BeatGlow/oled/notify"
)

func notifyCall(member string, body ...any) *dbus.Message {
	return &dbus.Message{
		Type: dbus.TypeMethodCall,
		Headers: map[dbus.HeaderField]dbus.Variant{
			dbus.FieldPath:      dbus.MakeVariant(dbus.ObjectPath("/org/freedesktop/Notifications")),
			dbus.FieldInterface: dbus.MakeVariant(notificationsInterface),
			dbus.FieldMember:    dbus.MakeVariant(member),
		},
		Body: body,
	}
}

func TestParse(t *testing.T) {
	msg := notifyCall(notifyMember,
		"discord", uint32(0), "", "Alice", "hello\nsecond line",
		[]string{}, map[string]dbus.Variant{}, int32(-1))

	m, ok := Parse(msg)
	if !ok {
		t.Fatal("expected notification")
	}
	if m.App != "discord" || m.Summary != "Alice" || m.Body != "hello\nsecond line" {
		t.Errorf("unexpected message %+v", m)
	}

	n, err := m.Notification()
	if err != nil {
		t.Fatal(err)
	}
	frame := n.Render(0)
	for y := 0; y < notify.IconSize; y++ {
		for x := 0; x < notify.IconSize; x++ {
			if frame.ReadPixel(x, y) != (notify.ChatIcon().Bit(x+y*notify.IconSize)) {
				t.Fatalf("expected chat icon, pixel (%d,%d) differs", x, y)
			}
		}
	}
}

func TestParseIgnores(t *testing.T) {
	tests := map[string]*dbus.Message{
		"nil":         nil,
		"other":       notifyCall("CloseNotification", uint32(1)),
		"short":       notifyCall(notifyMember, "app"),
		"signal type": {Type: dbus.TypeSignal, Headers: notifyCall(notifyMember).Headers},
	}
	for name, msg := range tests {
		if _, ok := Parse(msg); ok {
			t.Errorf("%s: expected message to be ignored", name)
		}
	}
}

func TestTitleFallback(t *testing.T) {
	n, err := Message{App: "mail"}.Notification()
	if err != nil {
		t.Fatal(err)
	}
	if n.Ticks() <= 0 {
		t.Error("expected ticks")
	}
	if (Message{App: "mail"}).icon().Bit(11+1*notify.IconSize) != notify.BellIcon().Bit(11+1*notify.IconSize) {
		t.Error("expected bell icon")
	}
}
