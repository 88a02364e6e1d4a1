// Package server exposes the rewriter over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/haytac/emojiril/internal/metrics"
	"github.com/haytac/emojiril/internal/rewriter"
	"github.com/haytac/emojiril/internal/shortname"
)

const source = "http"

// Config configures a Server.
type Config struct {
	Addr         string
	RateLimit    float64 // requests per second, 0 disables limiting
	Burst        int
	MaxBodyBytes int64
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server serves rewrite requests. The active rewriter is swapped atomically
// on Reload, so in-flight requests finish against the registry they started with.
type Server struct {
	cfg     Config
	opts    []rewriter.Option
	current atomic.Pointer[rewriter.Rewriter]
	limiter *rate.Limiter
	router  chi.Router
}

// New creates a Server around reg. opts are applied to every rewriter the
// server builds, including after Reload.
func New(cfg Config, reg *shortname.Registry, opts ...rewriter.Option) *Server {
	s := &Server{cfg: cfg, opts: opts}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = int(cfg.RateLimit) + 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	s.Reload(reg)
	s.router = s.routes()
	return s
}

// Reload publishes reg as the registry for subsequent requests. The server
// keeps its own copy, so the caller may keep mutating reg.
func (s *Server) Reload(reg *shortname.Registry) {
	opts := append([]rewriter.Option{rewriter.WithObserver(metrics.ObserveTokens)}, s.opts...)
	s.current.Store(rewriter.New(reg.Clone(), opts...))
	metrics.RegisteredAliases.Set(float64(reg.Len()))
}

// Registry returns the registry currently serving requests. It must not be
// mutated.
func (s *Server) Registry() *shortname.Registry {
	return s.current.Load().Registry()
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok")
	})
	r.Handle("/metrics", metrics.Handler())
	r.Get("/aliases", s.handleAliases)

	r.Group(func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Post("/rewrite", s.handleRewrite(false))
		r.Post("/rewrite/text", s.handleRewrite(true))
	})
	return r
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleRewrite(plain bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		body := r.Body
		if s.cfg.MaxBodyBytes > 0 {
			body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
		}
		data, err := io.ReadAll(body)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
				return
			}
			http.Error(w, "reading body failed", http.StatusBadRequest)
			return
		}

		rw := s.current.Load()
		var out string
		if plain {
			var stats shortname.Stats
			out, stats, err = rw.Registry().ReplaceText(string(data))
			if err == nil {
				metrics.ObserveTokens(stats)
			}
		} else {
			out, err = rw.Rewrite(string(data))
		}
		metrics.ObserveRewrite(source, started, err)
		if err != nil {
			writeRewriteError(w, r, err)
			return
		}

		if plain {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		} else {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
		}
		_, _ = io.WriteString(w, out)
	}
}

func writeRewriteError(w http.ResponseWriter, r *http.Request, err error) {
	var parseErr *rewriter.ParseError
	var resolveErr *shortname.ResolveError
	switch {
	case errors.As(err, &parseErr):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &resolveErr):
		log.Warn().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("Alias resolver failed")
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		log.Error().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("Rewrite failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

type aliasesResponse struct {
	Prefix  string   `json:"prefix"`
	Suffix  string   `json:"suffix"`
	Count   int      `json:"count"`
	Aliases []string `json:"aliases"`
}

func (s *Server) handleAliases(w http.ResponseWriter, _ *http.Request) {
	reg := s.Registry()
	prefix, suffix := reg.Affixes()
	resp := aliasesResponse{Prefix: prefix, Suffix: suffix, Count: reg.Len(), Aliases: reg.Aliases()}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("Encoding aliases response failed")
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(started)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}

// Run listens on the configured address until ctx is done, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("address", s.cfg.Addr).Msg("Starting rewrite server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("rewrite server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down rewrite server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down rewrite server: %w", err)
	}
	log.Info().Msg("Rewrite server stopped")
	return nil
}
