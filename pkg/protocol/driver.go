package protocol

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

// ReadStdinLines streams stdin line by line onto a channel, closing it at
// EOF or read error. This is the only place in the adapter allowed to block.
func ReadStdinLines(ctx context.Context) <-chan string {
	ret := make(chan string, 1)
	go func() {
		defer close(ret)

		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			logw.Debugf(ctx, "<< %v", scanner.Text())
			ret <- scanner.Text()
		}
	}()
	return ret
}

// WriteStdoutLines drains out to stdout until the channel closes.
func WriteStdoutLines(ctx context.Context, out <-chan string) {
	for line := range out {
		logw.Debugf(ctx, ">> %v", line)
		_, _ = fmt.Fprintln(os.Stdout, line)
	}
}

// Driver is the line-oriented command loop around a Core: it parses one
// command per input line, drives the synchronous Core primitives, and
// writes textual replies. The Core itself never blocks; Driver is where
// the adapter waits on request_move's search to finish.
type Driver struct {
	iox.AsyncCloser

	core *Core
	out  chan<- string
}

// NewDriver starts the command loop over in, returning the reply channel.
func NewDriver(ctx context.Context, core *Core, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 16)
	d := &Driver{AsyncCloser: iox.NewAsyncCloser(), core: core, out: out}
	go d.run(ctx, in)
	return d, out
}

func (d *Driver) run(ctx context.Context, in <-chan string) {
	defer close(d.out)
	defer d.Close()

	d.out <- fmt.Sprintf("fen: %v", d.core.FEN())

	for line := range in {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		cmd, args := strings.ToLower(fields[0]), fields[1:]

		switch cmd {
		case "new":
			d.core.NewGame(ctx)
			d.out <- fmt.Sprintf("fen: %v", d.core.FEN())

		case "move":
			if len(args) != 1 {
				d.out <- "error: move requires exactly one argument"
				continue
			}
			applied, illegal := d.core.SubmitMove(ctx, args[0])
			if illegal {
				d.out <- fmt.Sprintf("illegal: %v", args[0])
				continue
			}
			if applied {
				d.out <- fmt.Sprintf("applied: %v", args[0])
				d.reportStatus(ctx)
			}

		case "go":
			d.out <- d.core.RequestMove(ctx)
			d.reportStatus(ctx)

		case "clock":
			if len(args) != 2 {
				d.out <- "error: clock requires remaining and increment in seconds"
				continue
			}
			remaining, err1 := strconv.ParseFloat(args[0], 64)
			increment, err2 := strconv.ParseFloat(args[1], 64)
			if err1 != nil || err2 != nil {
				d.out <- "error: clock values must be numeric seconds"
				continue
			}
			d.core.SetClock(ctx, secondsToDuration(remaining), secondsToDuration(increment))

		case "fen":
			d.out <- d.core.FEN()

		case "status":
			d.reportStatus(ctx)

		case "quit", "exit":
			return

		default:
			d.out <- fmt.Sprintf("error: unrecognized command %q", cmd)
		}
	}
}

func (d *Driver) reportStatus(ctx context.Context) {
	if status := d.core.CheckGameOver(ctx); status.Status != InProgress {
		d.out <- fmt.Sprintf("status: %v", status)
	}
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
