// Command oled-ctl clears, fills or draws a test pattern on a sink.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"time"

	"github.com/BeatGlow/oled"
	"github.com/BeatGlow/oled/draw"
	"github.com/BeatGlow/oled/internal/cli"
	"github.com/BeatGlow/oled/pixel"
)

func main() {
	sinkFlags := cli.RegisterFlags(flag.CommandLine)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <apex|panel|terminal> <clear|fill|pattern>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}

	sink, err := cli.Open(flag.Arg(0), sinkFlags)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("using sink: %s\n", sink)

	switch action := flag.Arg(1); action {
	case "clear":
		err = sink.Clear()
	case "fill":
		if filler, ok := sink.(oled.Filler); ok {
			err = filler.Fill()
		} else {
			err = fmt.Errorf("sink %s can't fill", sink)
		}
	case "pattern":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		err = pattern(ctx, sink)
		stop()
		if err == nil {
			err = sink.Shutdown()
		}
	default:
		err = fmt.Errorf("unsupported action %q", action)
	}
	if err != nil {
		fatal(err)
	}
}

// pattern draws moving diagonal stripes inside a frame border until ctx is done.
func pattern(ctx context.Context, sink oled.Sink) error {
	var (
		offset int
		ticker = time.NewTicker(50 * time.Millisecond)
		r      = image.Rect(0, 0, pixel.Width, pixel.Height)
	)
	defer ticker.Stop()

	fmt.Println("hit control-c to stop...")
	for {
		frame := pixel.NewFrameBuffer()
		draw.Rectangle(&frame, r, pixel.On)
		for y := 1; y < r.Max.Y-1; y++ {
			for x := 1; x < r.Max.X-1; x++ {
				frame.DrawPixel(x, y, (x+y+offset)%4 == 0)
			}
		}
		draw.Box(&frame, image.Rect(5, 5, 123, 15), pixel.Off)
		draw.Rectangle(&frame, image.Rect(5, 5, 123, 15), pixel.On)

		if err := sink.Draw(frame); err != nil {
			return err
		}

		offset++
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil
		}
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}
