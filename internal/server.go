package internal

import (
	"context"
	"log/slog"
	"net"
	"net/http"

	"connectrpc.com/connect"
	"connectrpc.com/grpchealth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kazz187/novapm/internal/config"
	"github.com/kazz187/novapm/pkg/cerr"
	"github.com/kazz187/novapm/pkg/clog"
)

type Server struct {
	server  *http.Server
	env     *config.Env
	console http.Handler
}

func NewServer(env *config.Env, console http.Handler) *Server {
	return &Server{
		env:     env,
		console: console,
	}
}

// Handler is the full route tree: operational endpoints first, then the
// console for everything else.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer,
		clog.SlogChiMiddleware(clog.WithChiFilter(clog.SkipPaths("/health", "/metrics"))),
	)
	r.Handle("/health", &HealthChecker{})
	r.Handle("/metrics", promhttp.Handler())

	path, health := grpchealth.NewHandler(
		grpchealth.NewStaticChecker(),
		connect.WithInterceptors(s.interceptors()...),
	)
	r.Mount(path, health)
	r.Mount("/", s.console)

	return cors.New(cors.Options{
		AllowedOrigins:   s.env.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(r)
}

// ListenAndServe uses ctx as the base context of every request, so a
// shutdown signal also cancels in-flight upstream calls.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := net.JoinHostPort(s.env.HTTPHost, s.env.HTTPPort)
	slog.Info("starting server", "addr", addr)

	s.server = &http.Server{
		Addr:        addr,
		Handler:     h2c.NewHandler(s.Handler(), &http2.Server{}),
		BaseContext: func(_ net.Listener) context.Context { return ctx },
	}
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

type HealthChecker struct{}

func (hc *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) interceptors() []connect.Interceptor {
	return []connect.Interceptor{
		clog.NewSlogConnectUnaryInterceptor(clog.WithConnectFilter(clog.DefaultConnectHealthCheckUnaryFilter)),
		cerr.NewConvertConnectErrorInterceptor(),
	}
}
