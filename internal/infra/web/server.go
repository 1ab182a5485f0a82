package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"telegram-vip-codes/internal/usecase"
)

// Server exposes the health endpoints, the Prometheus scrape target and a
// read-only admin API.
type Server struct {
	codeUC    usecase.CodeUseCase
	apiKey    string
	botName   string
	version   string
	ready     func() bool // bot connectivity probe
	startedAt time.Time
	log       *zerolog.Logger
}

func NewServer(codeUC usecase.CodeUseCase, apiKey, botName, version string, ready func() bool, logger *zerolog.Logger) *Server {
	if ready == nil {
		ready = func() bool { return true }
	}
	return &Server{
		codeUC:    codeUC,
		apiKey:    apiKey,
		botName:   botName,
		version:   version,
		ready:     ready,
		startedAt: time.Now(),
		log:       logger,
	}
}

// Router builds the chi routing tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/", s.handleHealth)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/codes", s.handleCodes)
		r.Get("/status", s.handleStatus)
	})
	return r
}

// authMiddleware provides simple Bearer token authentication for the admin API.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" {
			s.log.Error().Msg("admin API key is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || !strings.EqualFold(tokenParts[0], "bearer") {
			http.Error(w, "Unauthorized: Malformed token", http.StatusUnauthorized)
			return
		}

		if tokenParts[1] != s.apiKey {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
