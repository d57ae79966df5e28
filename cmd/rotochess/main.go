// rotochess is a line-oriented chess engine. See spec.md §6 for the protocol
// this adapter speaks.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/rotochess/rotochess/internal/config"
	"github.com/rotochess/rotochess/pkg/book"
	"github.com/rotochess/rotochess/pkg/board"
	"github.com/rotochess/rotochess/pkg/protocol"
	"github.com/rotochess/rotochess/pkg/search"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

var version = build.NewVersion(0, 1, 0)

var configPath = flag.String("config", "rotochess.toml", "Path to a TOML configuration file")

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: rotochess [options]

rotochess is a line-oriented chess engine.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()
	logw.Infof(ctx, "rotochess %v", version)

	opts, err := config.Load(*configPath)
	if err != nil {
		logw.Exitf(ctx, "Invalid configuration '%v': %v", *configPath, err)
	}

	zt := board.Default()
	e := search.NewEngine(opts.Engine.TranspositionEntries, opts.Engine.AttackCacheBuckets, opts.Engine.PawnCacheBuckets)
	if opts.Engine.DepthLimit > 0 {
		e.SetDepthLimit(lang.Some(opts.Engine.DepthLimit))
	}

	var bk *book.Book
	if f, err := os.Open(opts.Book.Path); err == nil {
		defer f.Close()
		bk, err = book.Load(f)
		if err != nil {
			logw.Errorf(ctx, "Failed to load book '%v': %v", opts.Book.Path, err)
		}
	} else {
		logw.Infof(ctx, "No opening book at '%v'; playing without one", opts.Book.Path)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	core := protocol.NewCore(ctx, zt, e, bk, rng)

	in := protocol.ReadStdinLines(ctx)
	driver, out := protocol.NewDriver(ctx, core, in)
	go protocol.WriteStdoutLines(ctx, out)

	<-driver.Closed()
}
