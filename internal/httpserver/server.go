// internal/httpserver/server.go
//
// HTTP server wiring for the border quiz backend.
// Responsibilities:
//   - Router + middleware (request IDs, access log, panic recovery, timeouts, CORS).
//   - Public endpoints: "/", "/health".
//   - Game endpoints under /api/game (start, current, update-field, suggestions, hint, reveal, daily).
//   - API docs: /openapi.json and /docs.
//   - Translating engine errors into status codes and user-facing messages.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled for the configured client origin.
//   - Handlers only ever see sanitized views; answers leave through /api/game/reveal alone.

package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"github.com/swaggest/swgui/v5emb"

	"github.com/robalobadob/borders/apps/go-server/internal/game"
	"github.com/robalobadob/borders/apps/go-server/internal/quiz"
)

var endpoints = []string{
	"/health",
	"POST /api/game/start",
	"/api/game/current",
	"POST /api/game/update-field",
	"POST /api/game/suggestions",
	"/api/game/hint",
	"/api/game/reveal",
	"/api/game/daily",
	"/docs",
}

// Options configures a Server.
type Options struct {
	Addr            string
	ClientOrigin    string
	ShutdownTimeout time.Duration
	HandlerTimeout  time.Duration
}

// Server bundles the router, the quiz service and the listening http.Server.
type Server struct {
	r    *chi.Mux
	srv  *http.Server
	svc  *quiz.Service
	opts Options
	now  func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(svc *quiz.Service, opts Options) *Server {
	if opts.ClientOrigin == "" {
		opts.ClientOrigin = "http://localhost:5173"
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	if opts.HandlerTimeout <= 0 {
		opts.HandlerTimeout = 10 * time.Second
	}
	s := &Server{r: chi.NewRouter(), svc: svc, opts: opts, now: time.Now}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                    // add X-Request-ID
	s.r.Use(chimw.RealIP)                       // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)                      // zerolog access log
	s.r.Use(chimw.Recoverer)                    // recover from panics
	s.r.Use(chimw.Timeout(opts.HandlerTimeout)) // bound handler time
	s.r.Use(cors(opts.ClientOrigin))            // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, bannerResponse{Service: "borders-go", Endpoints: endpoints})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{OK: true})
	})

	s.r.Route("/api/game", s.mountGame)

	// --- docs ---
	s.r.Get("/openapi.json", handleOpenAPI())
	s.r.Mount("/docs", v5emb.New("Borders API", "/openapi.json", "/docs"))

	// Debug: catalog counts
	s.r.Get("/debug/catalog", func(w http.ResponseWriter, r *http.Request) {
		cat := s.svc.Catalog()
		writeJSON(w, http.StatusOK, CatalogStats{
			Territories: cat.Len(),
			Eligible:    len(cat.Eligible(game.MinBorders)),
			Dangling:    cat.Dangling(),
		})
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	s.r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	s.srv = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Run listens on the configured address and serves until Shutdown.
func (s *Server) Run(_ context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.srv.Addr, err)
	}
	log.Info().Str("addr", ln.Addr().String()).Msg("http server listening")

	err = s.srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests, bounded by the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.ShutdownTimeout)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

// fail maps engine errors onto status codes. Unknown errors are logged and hidden.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, game.ErrNoActiveGame):
		writeError(w, http.StatusNotFound, "No active game")
	case errors.Is(err, game.ErrInvalidField):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).
			Str("path", r.URL.Path).
			Str("request_id", chimw.GetReqID(r.Context())).
			Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
