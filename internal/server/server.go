// Package server exposes the shop as a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/rshade/ecoshopper/internal/config"
	"github.com/rshade/ecoshopper/internal/logging"
	"github.com/rshade/ecoshopper/internal/shop"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Server serves one shop over HTTP.
type Server struct {
	shop     *shop.Shop
	cfg      config.ServerConfig
	logger   zerolog.Logger
	sanitize *bluemonday.Policy
	router   chi.Router
}

// New builds the server and its routes. Zero values in cfg fall back to the
// configuration defaults.
func New(ctx context.Context, s *shop.Shop, cfg config.ServerConfig) *Server {
	if cfg.Addr == "" {
		cfg.Addr = config.DefaultServerAddr
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = config.DefaultMaxBodyBytes
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = config.DefaultRequestTimeout
	}

	srv := &Server{
		shop:     s,
		cfg:      cfg,
		logger:   logging.ComponentLogger(*logging.FromContext(ctx), "server"),
		sanitize: bluemonday.StrictPolicy(),
	}
	srv.router = srv.routes()
	return srv
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		s.traceLogger,
		middleware.Recoverer,
		middleware.Timeout(s.cfg.RequestTimeout),
	)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, http.StatusNotFound, codeRouteNotFound, "no route for "+req.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed,
			fmt.Sprintf("method %s not allowed on %s", req.Method, req.URL.Path))
	})

	r.Get("/healthz", s.healthz)
	r.Post("/score", s.scoreText)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", s.listProducts)
		r.Route("/{productID}", func(r chi.Router) {
			r.Get("/", s.getProduct)
			r.Post("/view", s.viewProduct)
			r.Get("/feedback", s.getFeedback)
			r.Post("/feedback", s.submitFeedback)
			r.Post("/vote", s.vote)
		})
	})

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", s.getCart)
		r.Delete("/", s.clearCart)
		r.Post("/items", s.addCartItem)
		r.Put("/items/{productID}", s.setCartQuantity)
		r.Delete("/items/{productID}", s.removeCartItem)
	})

	r.Get("/feedback", s.listFeedback)
	r.Get("/stats", s.getStats)
	r.Get("/theme", s.getTheme)
	r.Post("/theme/toggle", s.toggleTheme)
	r.Get("/preference", s.getPreference)
	r.Put("/preference", s.setPreference)

	return r
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext: func(_ net.Listener) context.Context {
			return s.logger.WithContext(context.WithoutCancel(ctx))
		},
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("operation", "listen").Str("addr", s.cfg.Addr).Msg("ecoshopper api listening")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info().Str("operation", "shutdown").Msg("shutdown requested; draining requests")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	return nil
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
