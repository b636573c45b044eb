package server

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// Config configures the catalog server.
type Config struct {
	Addr         string
	Registry     *Registry
	Cache        Cache // optional
	AuthUsername string
	AuthPassword string
	Logger       *zap.Logger
}

// Server serves the model catalog over HTTP.
type Server struct {
	cfg     Config
	logger  *zap.Logger
	metrics *Metrics
	promReg *prometheus.Registry
	handler http.Handler
	srv     *http.Server
}

// New creates a Server and wires its routes.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Registry == nil {
		cfg.Registry = NewRegistry(cfg.Logger)
	}

	promReg := prometheus.NewRegistry()
	s := &Server{
		cfg:     cfg,
		logger:  cfg.Logger,
		metrics: NewMetrics(promReg),
		promReg: promReg,
	}
	cfg.Registry.SetObserver(s.metrics.ObserveProvider)

	mux := http.NewServeMux()
	mux.Handle("GET /models", s.requireAuth(http.HandlerFunc(s.handleModels)))
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))

	s.handler = s.withRequestID(corsMiddleware(mux))
	return s
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler { return s.handler }

// Start listens on the configured address and blocks until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("binding to %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.srv = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
	}

	s.logger.Info("catalog server listening",
		zap.String("addr", ln.Addr().String()),
		zap.Bool("auth", s.cfg.AuthUsername != "" && s.cfg.AuthPassword != ""),
		zap.Bool("cache", s.cfg.Cache != nil),
	)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("server shutdown error", zap.Error(err))
		}
	}()

	if err := s.srv.Serve(ln); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withRequestID tags each request with an id, echoes it in the response and
// logs the completed request.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		s.metrics.ObserveRequest(routeLabel(r.URL.Path), strconv.Itoa(rec.status))
		s.logger.Debug("request",
			zap.String("request_id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

// routeLabel maps a request path to one of the served routes, or "other".
func routeLabel(path string) string {
	switch path {
	case "/models", "/health", "/metrics":
		return path
	}
	return "other"
}

// requireAuth enforces HTTP basic auth when both credentials are configured.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	username, password := s.cfg.AuthUsername, s.cfg.AuthPassword
	if username == "" || password == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		userOK := subtle.ConstantTimeCompare([]byte(user), []byte(username)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(password)) == 1
		if !ok || !userOK || !passOK {
			w.Header().Set("WWW-Authenticate", "Basic")
			writeError(w, http.StatusUnauthorized, "Incorrect username or password")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware allows credentialed cross-origin reads by echoing the
// request origin.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
