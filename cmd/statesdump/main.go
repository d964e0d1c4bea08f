// Command statesdump decodes one OpenSky /states/all reply and prints the
// vehicles and diagnostics it contains. The reply is read from a file, from
// stdin, or fetched live with --fetch.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"

	"opensky-state-decoder/internal/config"
	"opensky-state-decoder/internal/fetcher"
	"opensky-state-decoder/internal/metrics"
	"opensky-state-decoder/internal/model"
	"opensky-state-decoder/pkg/logger"
)

type options struct {
	file     string
	fetch    bool
	bbox     string
	preset   string
	baseURL  string
	save     string
	logLevel string
	utc      bool
}

func main() {
	opts := options{}
	pflag.StringVarP(&opts.file, "file", "f", "", "read the reply from this file instead of stdin")
	pflag.BoolVar(&opts.fetch, "fetch", false, "fetch a live reply from the OpenSky API")
	pflag.StringVarP(&opts.bbox, "bbox", "b", "", "bounding box as lamin,lomin,lamax,lomax or a preset name")
	pflag.StringVarP(&opts.preset, "preset", "p", "", "named bounding box (switzerland, new-jersey, bjarred)")
	pflag.StringVar(&opts.baseURL, "base-url", "https://opensky-network.org/api", "OpenSky API base URL")
	pflag.StringVar(&opts.save, "save", "", "append the raw fetched reply to this file")
	pflag.StringVar(&opts.logLevel, "log-level", "WARN", "log level (DEBUG, INFO, WARN, ERROR)")
	pflag.BoolVar(&opts.utc, "utc", false, "print timestamps in UTC instead of local time")
	pflag.Parse()

	if err := run(opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "statesdump: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options, out io.Writer) error {
	log := logger.New(opts.logLevel)
	log.SetOutput(os.Stderr)

	client := fetcher.NewOpenSkyClient(opts.baseURL, 30*time.Second, os.Getenv("OPENSKY_USERNAME"), os.Getenv("OPENSKY_PASSWORD"), log, metrics.NewMetrics())

	var (
		reply *model.Reply
		err   error
	)
	if opts.fetch {
		reply, err = fetch(client, opts)
	} else {
		reply, err = decodeInput(client, opts.file)
	}
	if err != nil {
		return err
	}

	loc := time.Local
	if opts.utc {
		loc = time.UTC
	}
	fmt.Fprint(out, render(reply, loc, time.Now()))
	return nil
}

func fetch(client *fetcher.OpenSkyClient, opts options) (*model.Reply, error) {
	area := opts.bbox
	if opts.preset != "" {
		if _, ok := fetcher.Presets[opts.preset]; !ok {
			return nil, fmt.Errorf("unknown preset %q", opts.preset)
		}
		area = opts.preset
	}

	var box *fetcher.BoundingBox
	if area != "" {
		b, err := config.ParseBoundingBox(area)
		if err != nil {
			return nil, err
		}
		box = &b
	}

	if opts.save != "" {
		f, err := os.OpenFile(opts.save, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open save file: %w", err)
		}
		defer f.Close()
		client.WithRawSink(f)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	return client.FetchStates(ctx, box)
}

func decodeInput(client *fetcher.OpenSkyClient, path string) (*model.Reply, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read reply: %w", err)
	}
	return client.Decode(string(data))
}
