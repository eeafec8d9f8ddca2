// Package coindesk shows the Bitcoin price index published by CoinDesk.
package coindesk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/BeatGlow/oled/draw"
	"github.com/BeatGlow/oled/pixel"
	"github.com/BeatGlow/oled/provider"
	"github.com/BeatGlow/oled/stream"
)

// Name of the provider.
const Name = "coindesk"

// Defaults.
const (
	DefaultURL     = "https://api.coindesk.com/v1/bpi/currentprice.json"
	DefaultRefetch = time.Minute
)

// Errors.
var (
	ErrCurrency = errors.New("coindesk: unknown currency")
	ErrStatus   = errors.New("coindesk: unexpected status")
)

// Currency is a target currency of the price index.
type Currency string

// Supported currencies.
const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
)

// ParseCurrency accepts currency codes and a few common names.
func ParseCurrency(s string) (Currency, error) {
	switch strings.ToLower(s) {
	case "usd", "dollar":
		return USD, nil
	case "eur", "euro":
		return EUR, nil
	case "gbp", "pound":
		return GBP, nil
	default:
		return "", fmt.Errorf("%w %q", ErrCurrency, s)
	}
}

// Format the rate of price in this currency.
func (c Currency) Format(price Price) string {
	rate := price[c].Rate
	switch c {
	case EUR:
		return rate + " EUR"
	case GBP:
		return "£" + rate
	default:
		return "$" + rate
	}
}

// Rate of one currency.
type Rate struct {
	Code      string  `json:"code"`
	Symbol    string  `json:"symbol"`
	Rate      string  `json:"rate"`
	RateFloat float64 `json:"rate_float"`
}

// Price maps currency codes to rates.
type Price map[Currency]Rate

// Status is the price index response.
type Status struct {
	Time struct {
		Updated string `json:"updated"`
	} `json:"time"`
	ChartName string `json:"chartName"`
	BPI       Price  `json:"bpi"`
}

// Registration of the coindesk provider.
var Registration = provider.Registration{
	Name: Name,
	New: func(config provider.Config) (provider.ContentProvider, error) {
		currency, err := ParseCurrency(provider.String(config, "crypto.currency", string(USD)))
		if err != nil {
			slog.Warn("coindesk: falling back to USD", "err", err)
			currency = USD
		}
		return New(
			provider.String(config, "crypto.url", DefaultURL),
			currency,
			provider.Seconds(config, "crypto.refetch", DefaultRefetch),
		), nil
	},
}

// Coindesk periodically fetches the price and shows the last one it got.
type Coindesk struct {
	Client   *http.Client
	url      string
	currency Currency
	refetch  time.Duration
	icon     *pixel.Canvas
	face     draw.Face
}

// New returns a provider fetching url every refetch interval.
func New(url string, currency Currency, refetch time.Duration) *Coindesk {
	if refetch <= 0 {
		refetch = DefaultRefetch
	}
	return &Coindesk{
		Client:   &http.Client{Timeout: 10 * time.Second},
		url:      url,
		currency: currency,
		refetch:  refetch,
		icon:     bitcoinIcon(),
		face:     draw.RegularFace,
	}
}

func (c *Coindesk) Name() string { return Name }

func (c *Coindesk) Stream(ctx context.Context) (provider.Frames, error) {
	return stream.Demand(ctx, func(ctx context.Context, yield func(func() stream.Result[pixel.FrameBuffer]) bool) {
		var (
			ticker  = time.NewTicker(provider.TickLength)
			frame   = c.Render("...")
			fetched time.Time
		)
		defer ticker.Stop()

		for {
			if !yield(func() stream.Result[pixel.FrameBuffer] {
				if fetched.IsZero() || time.Since(fetched) >= c.refetch {
					fetched = time.Now()
					c.update(ctx, &frame)
				}
				return stream.Ok(frame)
			}) {
				return
			}
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}), nil
}

// update replaces frame if fetching succeeds and keeps the previous one otherwise.
func (c *Coindesk) update(ctx context.Context, frame *pixel.FrameBuffer) {
	status, err := c.Fetch(ctx)
	if err != nil {
		slog.Debug("coindesk: fetch failed", "url", c.url, "err", err)
		return
	}
	*frame = c.Render(c.currency.Format(status.BPI))
}

// Fetch the current price index.
func (c *Coindesk) Fetch(ctx context.Context) (*Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "oled/1")

	res, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w %s", ErrStatus, res.Status)
	}

	status := new(Status)
	if err = json.NewDecoder(res.Body).Decode(status); err != nil {
		return nil, fmt.Errorf("coindesk: error decoding response: %w", err)
	}
	return status, nil
}

// Render draws the icon with text right of it.
func (c *Coindesk) Render(text string) pixel.FrameBuffer {
	var (
		frame = pixel.NewFrameBuffer()
		icon  = c.icon.Bounds().Size()
		size  = draw.Measure(c.face, text)
	)
	draw.Copy(&frame, image.Pt(2, pixel.Height/2-icon.Y/2), c.icon)
	draw.Text(&frame, image.Pt(24, pixel.Height/2-size.Y/2), c.face, text, pixel.On)
	return frame
}

func bitcoinIcon() *pixel.Canvas {
	return draw.MustIcon(
		"....#..#......",
		"....#..#......",
		"..#########...",
		"..##......##..",
		"..##.......##.",
		"..##.......##.",
		"..##......##..",
		"..#########...",
		"..##......##..",
		"..##.......##.",
		"..##.......##.",
		"..##.......##.",
		"..##......##..",
		"..#########...",
		"....#..#......",
		"....#..#......",
	)
}
