package server

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"dashgate/authflow"
	"dashgate/internal/config"
	"dashgate/provider"
	"dashgate/session"
)

type Server struct {
	env     string
	mux     *http.ServeMux
	routes  []string
	handler http.HandlerFunc
	config  config.Config

	sessions *session.Manager
	flow     *authflow.Controller
}

func New(cfg config.Config, repo session.Repo, providerClient provider.Client) *Server {
	s := &Server{
		mux:      http.NewServeMux(),
		config:   cfg,
		sessions: session.NewManager(repo),
		flow:     authflow.New(providerClient),
	}
	s.env = cfg.GetEnv()

	s.initRoutes()
	s.logRoutes()

	// The guard runs innermost so every request is classified after
	// logging and panic recovery are in place.
	s.handler = ChainMiddleware(s.mux.ServeHTTP,
		s.LoggingMiddleware,
		s.RecoverMiddleware,
		s.SecurityHeadersMiddleware,
		s.AccessGuard,
	)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			log.Info().Str("method", parts[0]).Str("path", parts[1]).Msg("route registered")
		} else {
			log.Info().Str("path", parts[0]).Msg("route registered")
		}
	}
}
