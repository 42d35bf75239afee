package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rsarvar1a/hivemind/pkg/engine"
	"github.com/rsarvar1a/hivemind/pkg/engine/uhp"
	"github.com/seekerror/logw"
)

var (
	cacheMemory = flag.Float64("cache-memory", 1.0, "Maximum memory in GB for the per-thread caches")
	tableMemory = flag.Float64("table-memory", 1.0, "Maximum memory in GB for transpositions")
	logLevel    = flag.String("log-level", "info", "Lowest log level to show")
	numThreads  = flag.Int("num-threads", 0, "Number of search threads (0 = one per logical CPU)")
	verbose     = flag.Bool("verbose", false, "Whether to print verbose search output")
)

func init() {
	flag.StringVar(logLevel, "l", "info", "Lowest log level to show (shorthand)")
	flag.IntVar(numThreads, "n", 0, "Number of search threads (shorthand)")
	flag.BoolVar(verbose, "v", false, "Whether to print verbose search output (shorthand)")

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: hivemind [options]

HIVEMIND is a UHP engine for the board game Hive.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	// A .env file may pre-populate the environment, including the log
	// filter consumed by the logger.
	_ = godotenv.Load()

	flag.Parse()
	ctx := context.Background()

	logw.Infof(ctx, "starting hivemind server (log-level=%v)", *logLevel)

	e := engine.New(ctx, "hivemind", engine.Config{
		TableMemory: *tableMemory,
		CacheMemory: *cacheMemory,
		NumThreads:  *numThreads,
		Verbose:     *verbose,
	})

	in := engine.ReadLines(ctx, os.Stdin)
	driver, out := uhp.NewDriver(ctx, e, in)
	go engine.WriteLines(ctx, os.Stdout, out)

	<-driver.Closed()

	if err := driver.Err(); err != nil {
		logw.Exitf(ctx, "fatal error: %v", err)
	}
}
