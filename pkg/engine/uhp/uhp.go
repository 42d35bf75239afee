// Package uhp contains a driver for serving the engine over the Universal
// Hive Protocol: one command per line on stdin, response bodies terminated
// by "ok" on stdout.
package uhp

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rsarvar1a/hivemind/pkg/engine"
	"github.com/rsarvar1a/hivemind/pkg/fault"
	"github.com/rsarvar1a/hivemind/pkg/search"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

// Driver implements the UHP protocol loop for an engine.
type Driver struct {
	iox.AsyncCloser

	e   *engine.Engine
	out chan<- string

	fatal error
}

// NewDriver starts a driver processing the given line stream. The returned
// channel carries the response lines.
func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{
		AsyncCloser: iox.NewAsyncCloser(),
		e:           e,
		out:         out,
	}
	go d.process(ctx, in)

	return d, out
}

// Err returns the fatal error that terminated the driver, if any.
func (d *Driver) Err() error {
	return d.fatal
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	logw.Infof(ctx, "UHP protocol initialized")

	for {
		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "Input stream closed. Exiting")
				return
			}

			parts := strings.Fields(line)
			if len(parts) == 0 {
				d.out <- "ok"
				continue
			}

			cmd := parts[0]
			args := parts[1:]

			if err := d.apply(ctx, cmd, args); err != nil {
				if fault.IsFatal(err) {
					logw.Errorf(ctx, "fatal error: %v", err)
					d.out <- "err"
					d.fatal = err
					return
				}

				logw.Warningf(ctx, "encountered recoverable error: %v", err)
				d.out <- fmt.Sprintf("err\n%v", err)
			}
			d.out <- "ok"

		case <-d.Closed():
			logw.Infof(ctx, "Driver closed")
			return
		}
	}
}

// apply matches the command to the engine's functionality.
func (d *Driver) apply(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "info":
		d.out <- fmt.Sprintf("id %v", d.e.Name())
		d.out <- d.e.Capabilities()
		return nil

	case "newgame":
		result, err := d.e.NewGame(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		d.out <- result
		return nil

	case "play":
		if len(args) == 0 {
			return fault.New(fault.ParseError, "You must provide a MoveString.")
		}
		result, err := d.e.Play(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		d.out <- result
		return nil

	case "pass":
		result, err := d.e.Play(ctx, "pass")
		if err != nil {
			return err
		}
		d.out <- result
		return nil

	case "bestmove":
		searchArgs, err := search.ParseArgs(args)
		if err != nil {
			return err
		}
		result, err := d.e.BestMove(ctx, searchArgs)
		if err != nil {
			return err
		}
		d.out <- result
		return nil

	case "validmoves":
		result, err := d.e.ValidMoves(ctx)
		if err != nil {
			return err
		}
		d.out <- result
		return nil

	case "undo":
		n := 1
		if len(args) > 0 {
			parsed, err := strconv.Atoi(args[0])
			if err != nil || parsed < 0 || parsed > 255 {
				return fault.ForParse("number", args[0])
			}
			n = parsed
		}
		result, err := d.e.Undo(ctx, uint8(n))
		if err != nil {
			return err
		}
		d.out <- result
		return nil

	case "options":
		return nil

	default:
		return fault.New(fault.UnrecognizedCommand, cmd)
	}
}
