package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Vaishnavigophane/NestAway-backend/internal/api/handlers"
	"github.com/Vaishnavigophane/NestAway-backend/internal/auth"
	"github.com/Vaishnavigophane/NestAway-backend/internal/services"
	"github.com/Vaishnavigophane/NestAway-backend/internal/uploads"
)

// NewRouter creates and configures a new Chi router. Route paths mirror
// the original frontend contract and must not change.
func NewRouter(frontendOrigin string, sessions *auth.Manager, userService services.UserServiceProvider, flatService services.FlatServiceProvider, uploadStore *uploads.Store) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Cookie sessions cross origin: exactly one allowed origin, with
	// credentials.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{frontendOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, sessions)
	flatHandler := handlers.NewFlatHandler(flatService)
	uploadHandler := handlers.NewUploadHandler(uploadStore)

	// Public
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("NestAway Backend is live!"))
	})
	r.Post("/register", authHandler.Register)
	r.Post("/login", authHandler.Login)
	r.Get("/tenant", flatHandler.Search)
	r.Post("/tenant", flatHandler.Search)
	r.Get("/static/uploads/{filename}", uploadHandler.Serve)

	// Session required
	r.Group(func(r chi.Router) {
		r.Use(sessions.Middleware)

		r.Post("/logout", authHandler.Logout)
		r.Get("/profile", authHandler.Profile)
		r.Delete("/delete_account", authHandler.DeleteAccount)

		r.Post("/landlord", flatHandler.Create)
		r.Get("/myflats", flatHandler.Mine)
		r.Put("/myflats/{id}", flatHandler.Update)
		r.Delete("/myflats/{id}", flatHandler.Delete)
	})

	return r
}
