// Package mqtt shows messages published on an MQTT topic as notifications.
//
// A payload is either a JSON object with "title" and "content" fields, or plain text whose first
// line is the title and whose second line is the content.
package mqtt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
	mqtt "github.com/soypat/natiu-mqtt"

	"github.com/BeatGlow/oled/notify"
	"github.com/BeatGlow/oled/provider"
	"github.com/BeatGlow/oled/stream"
)

// Name of the source.
const Name = "mqtt"

// Defaults.
const (
	DefaultTopic   = "oled/notifications"
	ReconnectDelay = 5 * time.Second
	Timeout        = 10 * time.Second
)

// ErrNoBroker is returned when no broker address is configured.
var ErrNoBroker = errors.New("mqtt: no broker configured")

var errStopped = errors.New("mqtt: stopped")

// Registration of the MQTT notification source.
var Registration = notify.Registration{
	Name: Name,
	New: func(config provider.Config) (notify.Provider, error) {
		broker := provider.String(config, "mqtt.broker", "")
		if broker == "" {
			return nil, ErrNoBroker
		}
		return &Subscriber{
			Broker:   broker,
			Topic:    provider.String(config, "mqtt.topic", DefaultTopic),
			ClientID: provider.String(config, "mqtt.client_id", "oled-"+uuid.NewString()[:8]),
		}, nil
	},
}

// Message is a notification published on the topic.
type Message struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ParseMessage decodes a payload.
func ParseMessage(payload []byte) Message {
	payload = bytes.TrimSpace(payload)
	var m Message
	if len(payload) > 0 && payload[0] == '{' {
		if err := json.Unmarshal(payload, &m); err == nil {
			return m
		}
	}
	title, content, _ := strings.Cut(string(payload), "\n")
	content, _, _ = strings.Cut(content, "\n")
	return Message{Title: strings.TrimSpace(title), Content: strings.TrimSpace(content)}
}

// Notification builds the notification for m.
func (m Message) Notification() (*notify.Notification, error) {
	return notify.NewBuilder().
		WithIcon(notify.BellIcon()).
		WithTitle(m.Title).
		WithContent(m.Content).
		Build()
}

// Subscriber subscribes to a topic on a broker.
type Subscriber struct {
	// Broker address as host:port.
	Broker string

	// Topic filter to subscribe to.
	Topic string

	// ClientID sent to the broker.
	ClientID string

	// Dial opens the connection to the broker, net.Dialer is used if nil.
	Dial func(ctx context.Context, network, address string) (net.Conn, error)
}

func (s *Subscriber) Name() string { return Name }

func (s *Subscriber) Stream(ctx context.Context) (notify.Notifications, error) {
	if s.Broker == "" {
		return nil, ErrNoBroker
	}
	return stream.Generate(ctx, func(ctx context.Context, yield func(stream.Result[*notify.Notification]) bool) {
		for {
			err := s.session(ctx, yield)
			if errors.Is(err, errStopped) || ctx.Err() != nil {
				return
			}
			slog.Warn("mqtt: session ended", "broker", s.Broker, "err", err)
			select {
			case <-time.After(ReconnectDelay):
			case <-ctx.Done():
				return
			}
		}
	}), nil
}

// session connects, subscribes and yields notifications until the connection fails.
func (s *Subscriber) session(ctx context.Context, yield func(stream.Result[*notify.Notification]) bool) error {
	dial := s.Dial
	if dial == nil {
		dial = new(net.Dialer).DialContext
	}
	conn, err := dial(ctx, "tcp", s.Broker)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	// Unblock reads when the stream is cancelled.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	client := mqtt.NewClient(mqtt.ClientConfig{
		Decoder: mqtt.DecoderNoAlloc{UserBuffer: make([]byte, 4096)},
		OnPub: func(_ mqtt.Header, pub mqtt.VariablesPublish, r io.Reader) error {
			payload, err := io.ReadAll(r)
			if err != nil {
				return err
			}
			slog.Debug("mqtt: message", "topic", string(pub.TopicName), "size", len(payload))
			n, err := ParseMessage(payload).Notification()
			if !yield(stream.Result[*notify.Notification]{Value: n, Err: err}) {
				return errStopped
			}
			return nil
		},
	})

	var connect mqtt.VariablesConnect
	connect.SetDefaultMQTT([]byte(s.ClientID))
	// The client only reads, so there is nothing to send keep alive pings between.
	connect.KeepAlive = 0

	connectCtx, cancel := context.WithTimeout(ctx, Timeout)
	defer cancel()
	if err = client.Connect(connectCtx, conn, &connect); err != nil {
		return fmt.Errorf("mqtt: error connecting to %s: %w", s.Broker, err)
	}
	if err = client.Subscribe(connectCtx, mqtt.VariablesSubscribe{
		PacketIdentifier: 1,
		TopicFilters: []mqtt.SubscribeRequest{
			{TopicFilter: []byte(s.Topic), QoS: mqtt.QoS0},
		},
	}); err != nil {
		return fmt.Errorf("mqtt: error subscribing to %s: %w", s.Topic, err)
	}
	slog.Info("mqtt: subscribed", "broker", s.Broker, "topic", s.Topic, "client", s.ClientID)

	for client.IsConnected() {
		if err = client.HandleNext(); err != nil {
			return err
		}
	}
	return client.Err()
}
