package server

import (
	"context"
	"net"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	mldb "github.com/src-d/go-mldb"
	"github.com/src-d/go-mldb/persisted"
	"github.com/src-d/go-mldb/seed"
	"github.com/src-d/go-mldb/sql"
)

// Server is an HTTP server serving the API of an engine.
type Server struct {
	cfg      Config
	engine   *mldb.Engine
	handler  http.Handler
	listener net.Listener
	srv      *http.Server
}

// NewServer creates a server listening on the configured address. Persisted
// datasets of the data dir are restored and the seed file, if any, is loaded
// before the server accepts requests.
func NewServer(cfg Config, e *mldb.Engine) (*Server, error) {
	if err := Prepare(sql.NewEmptyContext(), cfg, e); err != nil {
		return nil, err
	}

	l, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return nil, err
	}

	h := NewServerHandler(cfg, e)
	return &Server{
		cfg:      cfg,
		engine:   e,
		handler:  h,
		listener: l,
		srv: &http.Server{
			Handler:      h,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}, nil
}

// Prepare registers the persisted dataset kind when a data dir is
// configured, restores the datasets stored there and loads the seed file.
func Prepare(ctx *sql.Context, cfg Config, e *mldb.Engine) error {
	if cfg.DataDir != "" {
		e.RegisterKind(persisted.Kind, persisted.Factory(cfg.DataDir))
		restored, err := persisted.Restore(e.Catalog, cfg.DataDir)
		if err != nil {
			return err
		}

		logrus.WithFields(logrus.Fields{
			"dir":      cfg.DataDir,
			"datasets": len(restored),
		}).Info("persisted datasets restored")
	}

	if cfg.SeedFile != "" {
		file, err := seed.Load(cfg.SeedFile)
		if err != nil {
			return err
		}

		if err := file.Apply(ctx, e); err != nil {
			return err
		}
	}

	return nil
}

// NewServerHandler returns the full HTTP handler of the API: routes, panic
// recovery and, if enabled, the metrics endpoint.
func NewServerHandler(cfg Config, e *mldb.Engine) http.Handler {
	router := NewHandler(e, cfg).Router()
	if cfg.Metrics {
		router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	}

	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(logrus.StandardLogger()),
		handlers.PrintRecoveryStack(true),
	)(router)
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start starts accepting connections on the server. It blocks until the
// server is closed.
func (s *Server) Start() error {
	logrus.WithField("address", s.Addr().String()).Info("server started")

	if err := s.srv.Serve(s.listener); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close gracefully stops the server and closes the datasets of the engine.
func (s *Server) Close() error {
	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultConfig().ShutdownTimeout
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := s.srv.Shutdown(ctx)
	if cerr := s.engine.Close(); err == nil {
		err = cerr
	}

	logrus.Info("server stopped")
	return err
}
