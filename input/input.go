// Package input provides the commands that control the scheduler and the sources emitting them.
package input

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Command controls the scheduler.
type Command int

// Commands.
const (
	PreviousSource Command = iota
	NextSource
	Shutdown
)

func (c Command) String() string {
	switch c {
	case PreviousSource:
		return "previous"
	case NextSource:
		return "next"
	case Shutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// Send delivers cmd unless ctx is done first.
func Send(ctx context.Context, commands chan<- Command, cmd Command) bool {
	select {
	case commands <- cmd:
		return true
	case <-ctx.Done():
		return false
	}
}

// Signals sends Shutdown when the process receives SIGINT or SIGTERM. It returns when ctx is done.
func Signals(ctx context.Context, commands chan<- Command) error {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)

	for {
		select {
		case <-signals:
			if !Send(ctx, commands, Shutdown) {
				return nil
			}
		case <-ctx.Done():
			return nil
		}
	}
}
