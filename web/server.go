package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nyaruka/voicex/runtime"
)

// Handler is the signature of our webhook handlers
type Handler func(ctx context.Context, rt *runtime.Runtime, r *http.Request, w http.ResponseWriter) error

type route struct {
	method  string
	pattern string
	handler Handler
}

var routes = []*route{}

// RegisterRoute registers a new handler for the given method and pattern
func RegisterRoute(method string, pattern string, handler Handler) {
	routes = append(routes, &route{method, pattern, handler})
}

// Server is our webhook server, serving the registered routes
type Server struct {
	ctx context.Context
	rt  *runtime.Runtime
	wg  *sync.WaitGroup

	httpServer *http.Server
}

// NewServer creates a new server for the registered routes
func NewServer(ctx context.Context, rt *runtime.Runtime, wg *sync.WaitGroup) *Server {
	s := &Server{ctx: ctx, rt: rt, wg: wg}

	router := chi.NewRouter()
	router.Use(panicRecovery)
	router.Use(middleware.Compress(5))
	router.Use(requestLogger)

	// set up our routes
	for _, r := range routes {
		router.Method(r.method, r.pattern, s.wrap(r.handler))
	}

	// and a simple ping route
	router.Get("/", s.wrap(handlePing))

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", rt.Config.Address, rt.Config.Port),
		Handler: router,
	}

	return s
}

// Start starts our web server, listening for new requests
func (s *Server) Start() {
	log := slog.With("comp", "server", "address", s.rt.Config.Address, "port", s.rt.Config.Port)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("error listening", "error", err)
		}
	}()

	log.Info("server started")
}

// Stop stops our web server
func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		slog.Error("error shutting down server", "error", err)
	}
}

// wrap converts one of our handlers to a stdlib handler, taking care of error responses
func (s *Server) wrap(handler Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := handler(s.ctx, s.rt, r, w); err != nil {
			slog.Error("error handling request", "error", err, "method", r.Method, "url", r.URL.String())

			w.Header().Set("Content-Type", "text/plain")
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(err.Error()))
		}
	}
}

func handlePing(ctx context.Context, rt *runtime.Runtime, r *http.Request, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "text/plain")
	_, err := w.Write([]byte("OK " + rt.Config.Version))
	return err
}

// requestLogger logs every completed request with its status and timing
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		if r.RequestURI != "/" {
			slog.Info("request completed", "method", r.Method, "status", ww.Status(), "elapsed", time.Since(start), "length", ww.BytesWritten(), "url", r.RequestURI)
		}
	})
}

// panicRecovery recovers from panics in handlers and returns an HTTP 500 response
func panicRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				debug.PrintStack()
				slog.Error("recovered from panic in web handling", "error", fmt.Sprint(rvr))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
