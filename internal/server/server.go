// Package server exposes class merging over HTTP and WebSocket.
package server

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/vango-cn/internal/metrics"
	"github.com/vango-dev/vango-cn/internal/middleware"
	"github.com/vango-dev/vango-cn/pkg/cn"
)

// maxBodySize bounds JSON request bodies.
const maxBodySize = 1 << 20

// Server holds the HTTP handler dependencies.
type Server struct {
	merger   *cn.Merger
	combiner *cn.Combiner
	metrics  *metrics.Metrics
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[*session]struct{}
	closing  bool
}

// New creates a Server merging with merger. Style objects are deep merged
// with cn.Mergo.
func New(merger *cn.Merger, m *metrics.Metrics, logger *slog.Logger) *Server {
	return &Server{
		merger:   merger,
		combiner: &cn.Combiner{Classes: merger, Styles: cn.Mergo},
		metrics:  m,
		logger:   logger,
		sessions: make(map[*session]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// The API is stateless and carries no credentials.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Routes returns the router with all middleware and endpoints mounted.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(middleware.Recovery(s.logger))
	r.Use(middleware.Tracing())
	r.Use(s.metrics.Middleware)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/merge", s.Merge)
		r.Post("/join", s.Join)
		r.Post("/styles", s.Styles)
		r.Get("/ws", s.WebSocket)
	})

	return r
}
