// internal/router/router.go
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/FACorreiaa/go-trip-itineraries/internal/api/itinerary"
	"github.com/FACorreiaa/go-trip-itineraries/internal/api/mailer"
	"github.com/FACorreiaa/go-trip-itineraries/internal/api/planner"
	"github.com/FACorreiaa/go-trip-itineraries/internal/api/preferences"
	"github.com/FACorreiaa/go-trip-itineraries/internal/api/selection"
	"github.com/FACorreiaa/go-trip-itineraries/internal/api/spots"
)

// Config contains dependencies needed for the router setup
type Config struct {
	SpotsHandler           *spots.HandlerImpl
	PreferencesHandler     *preferences.HandlerImpl
	SelectionHandler       *selection.HandlerImpl
	PlannerHandler         *planner.HandlerImpl
	ItineraryHandler       *itinerary.HandlerImpl
	MailerHandler          *mailer.HandlerImpl
	AuthenticateMiddleware func(http.Handler) http.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are expected to be
// applied *before* mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any major browsers
	}))

	// Heartbeat/Health check endpoint (public)
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	// Auth-service hook. Authenticated by webhook signature rather than a
	// bearer token, so it sits outside /api/v1 and gets its own rate limit.
	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(30, time.Minute))
		r.Post("/functions/v1/send-email", cfg.MailerHandler.SendEmail)
	})

	r.Route("/api/v1", func(r chi.Router) {

		// --- Protected Routes ---
		// Routes under this group require a valid JWT from the auth service
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Get("/spots", cfg.SpotsHandler.GetAllSpots)
			r.Get("/spots/{spotID}", cfg.SpotsHandler.GetSpot)

			r.Get("/preferences", cfg.PreferencesHandler.GetPreferences)
			r.Put("/preferences", cfg.PreferencesHandler.UpsertPreferences)

			r.Route("/selection", func(r chi.Router) {
				r.Get("/", cfg.SelectionHandler.GetSelection)
				r.Put("/", cfg.SelectionHandler.ReplaceSelection)
				r.Delete("/", cfg.SelectionHandler.ClearSelection)
				r.Put("/{spotID}", cfg.SelectionHandler.ToggleSpot)
			})

			r.Post("/itineraries/suggestions", cfg.PlannerHandler.SuggestItinerary)
			r.Post("/itineraries", cfg.ItineraryHandler.CreateItinerary)
			r.Get("/itineraries", cfg.ItineraryHandler.GetItineraries)
			r.Get("/itineraries/{itineraryID}", cfg.ItineraryHandler.GetItinerary)
		})
	})

	return r
}
