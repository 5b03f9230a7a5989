package server

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/cfranzen/eightball/pkg/api"
	"github.com/cfranzen/eightball/pkg/domain"
)

// Server wires the HTTP router to a store
type Server struct {
	router  *mux.Router
	store   domain.Store
	handler *api.Handler
	chain   http.Handler
}

// New creates a new Server on top of the given store
func New(store domain.Store) *Server {
	s := &Server{
		router:  mux.NewRouter(),
		store:   store,
		handler: api.NewHandler(store),
	}
	s.router.StrictSlash(true)
	s.handler.RegisterRoutes(s.router)

	// Customize NotFoundHandler to log 404s
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("WARN: No route found for %s %s", r.Method, r.URL.Path)
		api.WriteJSONError(w, http.StatusNotFound, "no such route")
	})

	// The middleware chain wraps the router itself so CORS preflights and
	// 404s pass through it too
	s.chain = requestIDMiddleware(
		requestLoggerMiddleware(
			metricsMiddleware(
				corsMiddleware(s.router))))

	return s
}

// Router exposes the handler chain serving all requests
func (s *Server) Router() http.Handler {
	return s.chain
}
