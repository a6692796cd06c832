package api

import (
	"net/http"

	"github.com/aliceinword/legal-time-tracker/internal/api/handlers"
	"github.com/aliceinword/legal-time-tracker/internal/auth"
	"github.com/aliceinword/legal-time-tracker/internal/mail"
	"github.com/aliceinword/legal-time-tracker/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates and configures the application router.
func NewRouter(
	userService services.UserServiceProvider,
	entryService services.EntryServiceProvider,
	referenceService services.ReferenceServiceProvider,
	settingsService services.SettingsServiceProvider,
	sender mail.Sender,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for the PWA frontend
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authHandler := handlers.NewAuthHandler(userService)
	entryHandler := handlers.NewEntryHandler(entryService, referenceService)
	exportHandler := handlers.NewExportHandler(entryService, settingsService, sender)
	settingsHandler := handlers.NewSettingsHandler(settingsService, referenceService)
	adminHandler := handlers.NewAdminHandler(userService)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		// Session lifecycle
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Get("/logout", authHandler.Logout)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(auth.JWTMiddleware())

			r.Get("/me", authHandler.GetMe)

			r.Get("/entries", entryHandler.List)
			r.Post("/entries", entryHandler.Save)
			r.Post("/entries/edit", entryHandler.Edit)
			r.Post("/entries/delete", entryHandler.Delete)

			r.Get("/export", exportHandler.ExportCSV)
			r.Post("/export", exportHandler.ExportCSV)
			r.Get("/export_xlsx", exportHandler.ExportXLSX)
			r.Post("/export_xlsx", exportHandler.ExportXLSX)
			r.Post("/export/email", exportHandler.EmailExport)

			r.Get("/options", settingsHandler.Get)
			r.Post("/options", settingsHandler.Save)

			// Mobile/PWA mirrors
			r.Post("/quick-entry", entryHandler.QuickEntry)
			r.Get("/entries-cache", entryHandler.EntriesCache)
			r.Get("/user-data", entryHandler.UserData)
			r.Get("/today-summary", entryHandler.TodaySummary)
			r.Get("/recent-clients", entryHandler.RecentClients)
			r.Get("/dashboard", entryHandler.Dashboard)

			// Admin-only user management
			r.Route("/admin/users", func(r chi.Router) {
				r.Use(auth.AdminMiddleware())
				r.Get("/", adminHandler.ListUsers)
				r.Post("/add", adminHandler.AddUser)
				r.Post("/delete", adminHandler.DeleteUser)
				r.Post("/reset_password", adminHandler.ResetPassword)
			})
		})
	})

	return r
}
