package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/prasadk/mailsift/internal/instrumentation"
)

const (
	// DefaultMetricsAddr is the listen address used when none is configured.
	DefaultMetricsAddr = ":9090"

	// DefaultMetricsReadTimeout bounds how long a scrape may take to send
	// its request headers.
	DefaultMetricsReadTimeout = 10 * time.Second

	// DefaultMetricsWriteTimeout bounds how long a metrics response may take.
	DefaultMetricsWriteTimeout = 10 * time.Second

	// DefaultMetricsIdleTimeout closes keep-alive scrape connections that go
	// quiet.
	DefaultMetricsIdleTimeout = 60 * time.Second

	// DefaultShutdownTimeout is how long serve waits for in-flight scrapes
	// on shutdown.
	DefaultShutdownTimeout = 30 * time.Second
)

// MetricsServerConfig configures the metrics listener.
type MetricsServerConfig struct {
	// Addr is the listen address, e.g. ":9090". Empty means
	// DefaultMetricsAddr.
	Addr string

	// Enabled reports whether the serve command wants metrics at all.
	Enabled bool

	// InstrumentationProvider must be an enabled provider with a Prometheus
	// exporter; its metrics land in the default registry that /metrics reads.
	InstrumentationProvider *instrumentation.Provider
}

// MetricsServer exposes Prometheus metrics over HTTP. The MCP server itself
// speaks stdio, so scrapes need their own listener; keeping it separate also
// keeps operational data off any client-facing surface.
type MetricsServer struct {
	httpServer *http.Server
	addr       string
}

// NewMetricsServer validates the configuration and prepares a server. It
// requires an enabled instrumentation provider because without one /metrics
// would serve an empty registry.
func NewMetricsServer(config MetricsServerConfig) (*MetricsServer, error) {
	if config.Addr == "" {
		config.Addr = DefaultMetricsAddr
	}

	if config.InstrumentationProvider == nil {
		return nil, fmt.Errorf("instrumentation provider is required for metrics server")
	}

	if !config.InstrumentationProvider.Enabled() {
		return nil, fmt.Errorf("instrumentation provider is not enabled")
	}

	return &MetricsServer{
		addr: config.Addr,
	}, nil
}

// Start listens and serves until Shutdown or a listener error. It blocks;
// the serve command runs it in a goroutine alongside the stdio transport.
func (s *MetricsServer) Start() error {
	mux := http.NewServeMux()

	// The OpenTelemetry Prometheus exporter writes to the global registry,
	// which promhttp.Handler reads.
	mux.Handle("/metrics", promhttp.Handler())

	// Liveness check for the metrics listener itself.
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           mux,
		ReadHeaderTimeout: DefaultMetricsReadTimeout,
		WriteTimeout:      DefaultMetricsWriteTimeout,
		IdleTimeout:       DefaultMetricsIdleTimeout,
	}

	slog.Info("starting metrics server", "addr", s.addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight scrapes. Safe to call before Start.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		slog.Info("shutting down metrics server")
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// Addr returns the configured listen address.
func (s *MetricsServer) Addr() string {
	return s.addr
}
