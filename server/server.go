package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/scholarhub/portal/auth"
	"github.com/scholarhub/portal/chatbot"
	"github.com/scholarhub/portal/googleauth"
	"github.com/scholarhub/portal/internal/config"
	"github.com/scholarhub/portal/scholarships"
)

// Server wires the login, signup, federated-login, dashboard, and chat
// handlers onto a ServeMux in the idiom of a small self-contained web app.
type Server struct {
	env          string // Environment (e.g., "DEV", "production")
	mux          *http.ServeMux
	routes       []string
	config       config.Config
	auth         *auth.Service
	federator    *googleauth.Federator
	scholarships scholarships.Repo
	chat         chatbot.Client
	chatHistory  *chatbot.HistoryRepo
}

func New(cfg config.Config, authService *auth.Service, federator *googleauth.Federator, scholarshipRepo scholarships.Repo, chatClient chatbot.Client) (*Server, error) {
	if authService == nil {
		return nil, fmt.Errorf("[server.New] auth service is required")
	}
	if federator == nil {
		return nil, fmt.Errorf("[server.New] google federator is required")
	}
	if scholarshipRepo == nil {
		return nil, fmt.Errorf("[server.New] scholarship repo is required")
	}
	if chatClient == nil {
		return nil, fmt.Errorf("[server.New] chat client is required")
	}

	s := &Server{
		mux:          http.NewServeMux(),
		config:       cfg,
		auth:         authService,
		federator:    federator,
		scholarships: scholarshipRepo,
		chat:         chatClient,
		chatHistory:  chatbot.NewHistoryRepo(),
	}
	s.env = cfg.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
