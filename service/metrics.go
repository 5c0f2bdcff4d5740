package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/c360studio/semstreams/pkg/errs"
)

// MetricsPath is where the Prometheus handler is mounted.
const MetricsPath = "/metrics"

// MetricsServer serves /metrics and /health over HTTP.
type MetricsServer struct {
	addr     string
	gatherer prometheus.Gatherer
	holder   *Holder

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// NewMetricsServer creates a server listening on addr. Health reports 503
// until holder has a snapshot; a nil holder is always healthy.
func NewMetricsServer(addr string, gatherer prometheus.Gatherer, holder *Holder) *MetricsServer {
	return &MetricsServer{addr: addr, gatherer: gatherer, holder: holder}
}

// Handler returns the HTTP handler without starting a listener.
func (s *MetricsServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(MetricsPath, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		if s.holder != nil {
			o := s.holder.Load()
			if o == nil {
				http.Error(w, "no ontology loaded", http.StatusServiceUnavailable)
				return
			}
			w.Header().Set("X-Ontology-Id", o.ID())
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	return mux
}

// Start binds the listener and serves in the background.
func (s *MetricsServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		return errs.WrapInvalid(errors.New("server already running"), "MetricsServer", "Start", "start server")
	}
	if s.gatherer == nil {
		return errs.WrapFatal(errors.New("nil gatherer"), "MetricsServer", "Start", "metrics registry not provided")
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return errs.WrapFatal(err, "MetricsServer", "Start", fmt.Sprintf("listen on %s", s.addr))
	}
	s.listener = ln
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	srv := s.server
	go func() { _ = srv.Serve(ln) }()
	return nil
}

// Addr returns the bound address, or the configured one before Start.
func (s *MetricsServer) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Stop shuts the server down.
func (s *MetricsServer) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return nil
	}
	err := s.server.Shutdown(ctx)
	s.server = nil
	s.listener = nil
	if err != nil {
		return errs.WrapTransient(err, "MetricsServer", "Stop", "failed to stop HTTP server")
	}
	return nil
}
