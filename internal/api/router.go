package api

import (
	"net/http"

	"hazard-route-service/internal/api/handlers"
	"hazard-route-service/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	resolver *services.WaypointResolver,
	registry *services.SessionRegistry,
	allowedOrigins []string,
) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	wpHandler := &handlers.WaypointHandler{Resolver: resolver}
	sessionHandler := &handlers.SessionHandler{Registry: registry}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{requestIDHeader},
	}))

	r.Get("/health", handlers.Health)
	r.Get("/waypoints/search", wpHandler.Search)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", sessionHandler.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", sessionHandler.Get)
			r.Delete("/", sessionHandler.Delete)
			r.Put("/waypoints/{slot}", sessionHandler.PlaceWaypoint)
			r.Delete("/waypoints/{slot}", sessionHandler.RemoveWaypoint)
			r.Post("/recalculate", sessionHandler.Recalculate)
			r.Post("/narration/play", sessionHandler.PlayNarration)
			r.Post("/narration/stop", sessionHandler.StopNarration)
		})
	})

	return r
}
