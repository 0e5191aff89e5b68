// Package server serves feeds on demand. Every request fetches fresh data
// from upstream; nothing is cached.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/gauthierbraillon/wirefeed/internal/aggregator"
	"github.com/gauthierbraillon/wirefeed/internal/display"
	"github.com/gauthierbraillon/wirefeed/internal/logger"
	"github.com/gauthierbraillon/wirefeed/internal/publish"
	"github.com/gauthierbraillon/wirefeed/internal/source"
)

const (
	rssContentType = "application/rss+xml; charset=utf-8"

	shutdownTimeout = 10 * time.Second
)

// Server routes feed requests to an Assembler.
type Server struct {
	assembler *aggregator.Assembler
	baseURL   string
	mux       *http.ServeMux
}

// New creates a Server. baseURL prefixes self links; empty yields
// root-relative links.
func New(a *aggregator.Assembler, baseURL string) *Server {
	s := &Server{assembler: a, baseURL: baseURL, mux: http.NewServeMux()}

	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /feed", s.handleMainFeed)
	s.mux.HandleFunc("GET /feed/{category}", s.handleCategoryFeed)
	s.mux.HandleFunc("GET /scroll", s.handleNewsletter)
	s.mux.HandleFunc("GET /"+publish.PlaceholderName, s.handlePlaceholder)
	return s
}

// ServeHTTP implements http.Handler with request logging.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

	s.mux.ServeHTTP(rec, r)

	logger.Z.Info("request",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", rec.status),
		zap.Duration("duration", time.Since(start)),
	)
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
// ready, when non-nil, receives the bound address once listening.
func (s *Server) Run(ctx context.Context, addr string, ready func(net.Addr)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	logger.Infof("listening on %s", ln.Addr())
	if ready != nil {
		ready(ln.Addr())
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) selfURL(path string) string {
	return s.baseURL + path
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(display.ServerIndex(s.baseURL))
}

func (s *Server) handleMainFeed(w http.ResponseWriter, r *http.Request) {
	feed, err := s.assembler.MainFeed(r.Context(), s.selfURL("/feed"))
	s.writeFeed(w, r, feed, err)
}

func (s *Server) handleCategoryFeed(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("category")
	feed, err := s.assembler.CategoryFeedBySlug(r.Context(), slug, s.selfURL("/feed/"+slug))
	s.writeFeed(w, r, feed, err)
}

func (s *Server) handleNewsletter(w http.ResponseWriter, r *http.Request) {
	feed, err := s.assembler.NewsletterFeed(r.Context(), s.selfURL("/scroll"))
	s.writeFeed(w, r, feed, err)
}

func (s *Server) handlePlaceholder(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(publish.Placeholder)
}

func (s *Server) writeFeed(w http.ResponseWriter, r *http.Request, feed aggregator.Feed, err error) {
	switch {
	case errors.Is(err, source.ErrNotFound):
		writeText(w, http.StatusNotFound, "Category not found")
	case err != nil:
		logger.Errorf("%s %s: %v", r.Method, r.URL.Path, err)
		writeText(w, http.StatusInternalServerError, "Internal Server Error")
	default:
		w.Header().Set("Content-Type", rssContentType)
		_, _ = w.Write(feed.XML)
	}
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
