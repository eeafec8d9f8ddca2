package input

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// ErrNotTerminal is returned when hotkeys are read from something that is not a terminal.
var ErrNotTerminal = errors.New("input: not a terminal")

// Keys reads hotkeys from a terminal in raw mode:
//
//	a, left arrow    previous source
//	d, right arrow   next source
//	q, Ctrl-C        shutdown
type Keys struct {
	In *os.File
}

// Run puts the terminal in raw mode and sends commands for keys until ctx is done or input ends.
// The terminal state is restored before Run returns.
func (k Keys) Run(ctx context.Context, commands chan<- Command) error {
	in := k.In
	if in == nil {
		in = os.Stdin
	}
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return ErrNotTerminal
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return err
	}
	defer func() {
		if err := term.Restore(fd, state); err != nil {
			slog.Warn("input: error restoring terminal", "err", err)
		}
	}()

	return ReadKeys(ctx, in, commands)
}

// ReadKeys sends commands for the keys read from r until ctx is done or r ends.
func ReadKeys(ctx context.Context, r io.Reader, commands chan<- Command) error {
	var (
		chunks = make(chan []byte)
		errs   = make(chan error, 1)
	)
	go func() {
		buf := make([]byte, 16)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				select {
				case chunks <- append([]byte(nil), buf[:n]...):
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				errs <- err
				return
			}
		}
	}()

	for {
		select {
		case chunk := <-chunks:
			for _, cmd := range ParseKeys(chunk) {
				slog.Debug("input: key command", "command", cmd)
				if !Send(ctx, commands, cmd) {
					return nil
				}
			}
		case err := <-errs:
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		case <-ctx.Done():
			return nil
		}
	}
}

// ParseKeys maps raw terminal input to commands. Unknown keys are ignored.
func ParseKeys(b []byte) (commands []Command) {
	for i := 0; i < len(b); i++ {
		switch b[i] {
		case 'a', 'A':
			commands = append(commands, PreviousSource)
		case 'd', 'D':
			commands = append(commands, NextSource)
		case 'q', 'Q', 0x03:
			commands = append(commands, Shutdown)
		case 0x1b:
			// CSI arrow keys: ESC [ C and ESC [ D
			if i+2 < len(b) && b[i+1] == '[' {
				switch b[i+2] {
				case 'C':
					commands = append(commands, NextSource)
				case 'D':
					commands = append(commands, PreviousSource)
				}
				i += 2
			}
		}
	}
	return
}
