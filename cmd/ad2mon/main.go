// Copyright 2025 Antimetal Inc.
//
// Licensed under the PolyForm Shield License 1.0.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at:
//
//     https://polyformproject.org/licenses/shield/1.0.0/
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command ad2mon reads an AD2 panel's wire stream from a file or
// stdin, prints every dispatched event as JSON, and exposes parser
// counters on a Prometheus endpoint.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/antimetal/ad2core/pkg/ad2"
	"github.com/antimetal/ad2core/pkg/ad2/search"
)

var (
	inputPath     = flag.String("input", "", "Path to an AD2 wire capture file (default: stdin)")
	metricsAddr   = flag.String("metrics-addr", ":9321", "Listen address for the Prometheus /metrics endpoint")
	verbose       = flag.Bool("verbose", false, "Enable verbose logging")
	maxMessageSize = flag.Int("max-message-size", ad2.MaxMessageSize, "Ring buffer capacity in bytes")
	searchPattern = flag.String("search", "", "Regular expression; matching frames fire a SEARCH_MATCH event")
	chunkSize     = flag.Int("chunk-size", 256, "Bytes read from input per Put call")
)

func main() {
	flag.Parse()

	var logger logr.Logger
	if *verbose {
		zapLog, _ := zap.NewDevelopment()
		logger = zapr.NewLogger(zapLog)
	} else {
		logger = logr.Discard()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	registry := prometheus.NewRegistry()
	metrics := ad2.NewMetrics(registry)

	opts := []ad2.Option{
		ad2.WithMaxMessageSize(*maxMessageSize),
		ad2.WithMetrics(metrics),
	}
	if *searchPattern != "" {
		re, err := regexp.Compile(*searchPattern)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ad2mon: invalid -search pattern: %v\n", err)
			os.Exit(1)
		}
		opts = append(opts, ad2.WithSearchMatcher(regexpMatcher{pattern: re, name: "cli-search"}))
	}

	parser := ad2.NewParser(logger, opts...)
	parser.Subscribe(ad2.EventMessage, printEvent)
	parser.Subscribe(ad2.EventArm, printEvent)
	parser.Subscribe(ad2.EventDisarm, printEvent)
	parser.Subscribe(ad2.EventFire, printEvent)
	parser.Subscribe(ad2.EventLowBattery, printEvent)
	parser.Subscribe(ad2.EventSearchMatch, printEvent)
	parser.Subscribe(ad2.EventBoot, printEvent)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return serveMetrics(gctx, *metricsAddr, registry, logger)
	})

	g.Go(func() error {
		return ingest(gctx, parser, logger)
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "ad2mon: %v\n", err)
		os.Exit(1)
	}
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry, logger logr.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving metrics", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		return srv.Shutdown(context.Background())
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}

func ingest(ctx context.Context, parser *ad2.Parser, logger logr.Logger) error {
	var src io.Reader = os.Stdin
	if *inputPath != "" {
		f, err := os.Open(*inputPath)
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		src = f
	}

	reader := bufio.NewReaderSize(src, *chunkSize)
	buf := make([]byte, *chunkSize)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		n, err := reader.Read(buf)
		if n > 0 {
			if putErr := parser.Put(buf[:n]); putErr != nil {
				logger.Error(putErr, "put failed")
			}
		}
		if ad2.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
	}
}

func printEvent(e ad2.Event) {
	type wireEvent struct {
		Kind      ad2.EventKind        `json:"kind"`
		Frame     string               `json:"frame,omitempty"`
		Partition *ad2.PartitionState  `json:"partition,omitempty"`
		Search    *search.Result       `json:"search,omitempty"`
	}

	out := wireEvent{Kind: e.Kind, Frame: e.Frame, Partition: e.Partition}
	if e.Kind == ad2.EventSearchMatch {
		out.Search = &e.Search
	}

	b, err := json.Marshal(out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ad2mon: marshal event: %v\n", err)
		return
	}
	fmt.Println(string(b))
}

// regexpMatcher is a minimal search.Matcher demonstrating the hook:
// any frame matching pattern fires a SEARCH_MATCH event. Production
// matchers would track per-name OPEN/CLOSED/FAULT state transitions;
// this one just reports every match as open.
type regexpMatcher struct {
	pattern *regexp.Regexp
	name    string
}

func (m regexpMatcher) TryMatch(kind string, frame string) (search.Result, bool) {
	if !m.pattern.MatchString(frame) {
		return search.Result{}, false
	}
	return search.Result{Name: m.name, State: search.StateOpen, Message: frame}, true
}
