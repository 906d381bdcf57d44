// Package api exposes flows and boards over a small JSON HTTP API.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/alexanderramin/flowboard/internal/service"
	"github.com/julienschmidt/httprouter"
)

const shutdownTimeout = 5 * time.Second

// Services are the use cases the API serves.
type Services struct {
	Flows  service.FlowService
	Export service.ExportService
	Boards service.BoardService
}

type Server struct {
	svc    Services
	logger *slog.Logger
	router *httprouter.Router
}

func NewServer(svc Services, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{svc: svc, logger: logger}

	router := httprouter.New()
	router.GET("/status", s.status)
	router.GET("/flows", s.listFlows)
	router.GET("/flows/:id", s.getFlow)
	router.POST("/flows/:id/export", s.exportFlow)
	router.POST("/flows/:id/propagate", s.propagateFlow)
	router.GET("/boards", s.listBoards)
	router.GET("/boards/:id", s.getBoard)
	router.PanicHandler = s.recoverPanic
	s.router = router
	return s
}

// Handler returns the routed handler with request logging.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		s.router.ServeHTTP(rec, r)
		s.logger.Debug("http_request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("api listening", "addr", ln.Addr().String())
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("api shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) recoverPanic(w http.ResponseWriter, r *http.Request, v any) {
	s.logger.Error("handler panic", "path", r.URL.Path, "panic", v)
	writeError(w, http.StatusInternalServerError, errorBody{Message: "internal error"})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
