package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/danmuck/gsquery/internal/logging"
	"github.com/danmuck/gsquery/internal/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type keyList []string

func (k *keyList) String() string { return strings.Join(*k, ",") }

func (k *keyList) Set(v string) error {
	*k = append(*k, v)
	return nil
}

func main() {
	observability.InitLogger("gsquery")

	configPath := flag.String("config", "", "path to gsquery config.toml")
	capacity := flag.Int("capacity", -1, "destination buffer size per lookup (overrides config)")
	metricsAddr := flag.String("metrics-addr", "", "serve /metrics on this address until interrupted (overrides config)")
	var keys keyList
	flag.Var(&keys, "key", "bare key name to extract; repeatable (overrides config)")
	flag.Parse()

	cfg := defaultQueryConfig()
	if *configPath != "" {
		loaded, err := loadQueryConfig(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load gsquery config")
		}
		cfg = loaded
		log.Info().Str("path", *configPath).Msg("loaded gsquery config")
	}
	if *capacity >= 0 {
		cfg.Capacity = *capacity
	}
	if len(keys) > 0 {
		cfg.Keys = keys
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}
	if err := validateQueryConfig(cfg); err != nil {
		log.Fatal().Err(err).Msg("invalid gsquery options")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, cfg, flag.Args(), os.Stdin, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("gsquery stopped")
	}
}

// run queries args, or stdin when there are none. With a metrics address it
// keeps serving /metrics after the queries finish until ctx is done.
func run(ctx context.Context, cfg queryConfig, args []string, in io.Reader, out io.Writer) error {
	applyLogLevel(cfg.LogLevel)
	observability.RegisterMetrics()

	var srv *http.Server
	if cfg.MetricsAddr != "" {
		var (
			addr net.Addr
			err  error
		)
		srv, addr, err = startMetrics(cfg.MetricsAddr)
		if err != nil {
			return err
		}
		defer shutdownMetrics(srv)
		log.Info().Str("addr", addr.String()).Msg("metrics listening")
	}

	if len(args) > 0 {
		for _, message := range args {
			if err := queryMessage(out, cfg, message); err != nil {
				return err
			}
		}
	} else if err := queryStream(out, cfg, in); err != nil {
		return err
	}

	if srv != nil {
		log.Info().Msg("queries done, serving metrics until interrupted")
		<-ctx.Done()
	}
	return nil
}

func applyLogLevel(raw string) {
	if lvl, ok := logging.ParseLevel(raw); ok {
		logging.SetLevel(lvl)
	}
}

func startMetrics(addr string) (*http.Server, net.Addr, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server stopped")
		}
	}()
	return srv, ln.Addr(), nil
}

func shutdownMetrics(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("metrics shutdown")
	}
}
