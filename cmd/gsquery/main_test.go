package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/danmuck/gsquery/internal/testutil/testlog"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestRunWithoutMetricsReturns(t *testing.T) {
	testlog.Start(t)
	cfg := queryConfig{Capacity: 16, Keys: []string{"id"}}

	var out bytes.Buffer
	if err := run(context.Background(), cfg, []string{loginChallenge}, nil, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.String() != "id=1\n" {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestRunServesMetricsUntilCanceled(t *testing.T) {
	testlog.Start(t)
	cfg := queryConfig{Capacity: 16, Keys: []string{"id"}, MetricsAddr: "127.0.0.1:0"}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var out bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- run(ctx, cfg, []string{loginChallenge}, nil, &out)
	}()

	select {
	case err := <-done:
		t.Fatalf("run returned before cancel: %v", err)
	case <-time.After(100 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("run did not return after cancel")
	}
	if out.String() != "id=1\n" {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestRunRejectsBadMetricsAddr(t *testing.T) {
	testlog.Start(t)
	cfg := queryConfig{Capacity: 16, Keys: []string{"id"}, MetricsAddr: "not-an-addr"}
	if err := run(context.Background(), cfg, []string{loginChallenge}, nil, io.Discard); err == nil {
		t.Fatalf("expected listen error")
	}
}

func TestStartMetricsServesExtractionCounters(t *testing.T) {
	testlog.Start(t)
	if err := queryMessage(io.Discard, queryConfig{Capacity: 16, Keys: []string{"id"}}, loginChallenge); err != nil {
		t.Fatalf("query: %v", err)
	}

	srv, addr, err := startMetrics("127.0.0.1:0")
	if err != nil {
		t.Fatalf("start metrics: %v", err)
	}
	defer shutdownMetrics(srv)

	resp, err := http.Get("http://" + addr.String() + "/metrics")
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "gsquery_extract_lookups_total") {
		t.Fatalf("extraction counter missing from scrape")
	}
}

func TestConfigLogLevelDebugEmitsDebugLines(t *testing.T) {
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf).Level(zerolog.InfoLevel)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := loadQueryConfig(writeConfig(t, `
keys = ["notakey"]
log_level = "debug"
`))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if err := run(context.Background(), cfg, []string{loginChallenge}, nil, io.Discard); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(buf.String(), "key missing") {
		t.Fatalf("debug line not written with log_level=debug: %q", buf.String())
	}
}
