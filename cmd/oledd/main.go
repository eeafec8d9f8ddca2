// Command oledd shows clocks, system stats, media status, prices, images and notifications on a
// small monochrome screen.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/BeatGlow/oled/input"
	"github.com/BeatGlow/oled/internal/cli"
	"github.com/BeatGlow/oled/notify"
	"github.com/BeatGlow/oled/notify/clipboard"
	"github.com/BeatGlow/oled/notify/dbus"
	"github.com/BeatGlow/oled/notify/mqtt"
	"github.com/BeatGlow/oled/provider"
	"github.com/BeatGlow/oled/provider/clock"
	"github.com/BeatGlow/oled/provider/coindesk"
	imageprovider "github.com/BeatGlow/oled/provider/image"
	"github.com/BeatGlow/oled/provider/music"
	"github.com/BeatGlow/oled/provider/script"
	"github.com/BeatGlow/oled/provider/sysinfo"
	"github.com/BeatGlow/oled/scheduler"
	"github.com/BeatGlow/oled/simulator"
)

// Content providers in their default rotation order.
var providers = []provider.Registration{
	clock.Registration,
	sysinfo.Registration,
	music.Registration,
	coindesk.Registration,
	imageprovider.Registration,
	script.Registration,
}

var notifications = []notify.Registration{
	dbus.Registration,
	mqtt.Registration,
	clipboard.Registration,
}

func main() {
	configFlag := flag.String("config", "", "Configuration file (TOML, YAML or JSON)")
	sinkFlag := flag.String("sink", "apex", "Output: apex, panel, terminal or simulator")
	keysFlag := flag.Bool("keys", false, "Read hotkeys from the terminal")
	verboseFlag := flag.Bool("v", false, "Verbose logging")
	sinkFlags := cli.RegisterFlags(flag.CommandLine)
	flag.Parse()

	config, err := loadConfig(*configFlag)
	if err != nil {
		fatal(err)
	}
	log := newLogger(config, *verboseFlag)
	slog.SetDefault(log)

	if err = run(config, log, *sinkFlag, *keysFlag, sinkFlags); err != nil {
		fatal(err)
	}
}

func loadConfig(name string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("OLED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if name != "" {
		v.SetConfigFile(name)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading %s: %w", name, err)
		}
	}
	return v, nil
}

func newLogger(config provider.Config, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if s := provider.String(config, "log.level", ""); s != "" {
		if err := level.UnmarshalText([]byte(s)); err != nil {
			fmt.Fprintf(os.Stderr, "ignoring invalid log level %q\n", s)
		}
	}
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func run(config *viper.Viper, log *slog.Logger, sinkName string, keys bool, sinkFlags *cli.Flags) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		commands = make(chan input.Command)
		window   *simulator.Window
		sink     scheduler.Device
		err      error
	)
	if sinkName == "simulator" {
		window = simulator.New(config.GetInt("simulator.scale"))
		sink = window.Sink()
	} else if sink, err = cli.Open(sinkName, sinkFlags); err != nil {
		return err
	}
	log.Info("using sink", "sink", sink)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return scheduler.New(sink, config, providers, notifications).WithLogger(log).Run(ctx, commands)
	})
	g.Go(func() error {
		return input.Signals(ctx, commands)
	})
	if keys {
		g.Go(func() error {
			if err := (input.Keys{}).Run(ctx, commands); err != nil && !errors.Is(err, context.Canceled) {
				log.Warn("hotkeys disabled", "err", err)
			}
			return nil
		})
	}

	if window != nil {
		if err = window.Run(ctx, commands); err != nil {
			log.Error("simulator failed", "err", err)
			cancel()
		}
	}
	return g.Wait()
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}
