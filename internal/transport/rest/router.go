package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/budgetoffice/staff-portal/internal/transport/middleware"
	"github.com/budgetoffice/staff-portal/internal/transport/swagger"
)

// RegisterAllRoutes mounts the portal API. The whole surface reads and
// mutates the one store instance behind svc.
func RegisterAllRoutes(router *chi.Mux, svc PortalService, gatewayBaseURL, allowedOrigins string, logger *slog.Logger) {
	sessionHandler := NewSessionHandler(svc)
	staffHandler := NewStaffHandler(svc)
	usersHandler := NewUsersHandler(svc)
	healthHandler := NewHealthHandler(gatewayBaseURL)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Post("/session", sessionHandler.SignIn)
		r.Delete("/session", sessionHandler.SignOut)
		r.Get("/state", sessionHandler.GetState)

		r.Post("/password/forgot", sessionHandler.ForgotPassword)
		r.Post("/password/reset", sessionHandler.ResetPassword)

		// Everything below needs the signed-in session.
		r.Group(func(pr chi.Router) {
			pr.Use(RequireSession(svc))

			pr.Route("/staff", func(sr chi.Router) {
				sr.Get("/", staffHandler.List)
				sr.Post("/refresh", staffHandler.Refresh)
				sr.Get("/stats", staffHandler.Stats)
				sr.Get("/counts", staffHandler.Counts)
				sr.Get("/export", staffHandler.Export)
			})

			// Admin surface: director and ICT head only.
			pr.Group(func(ar chi.Router) {
				ar.Use(RequireUserAdmin(svc))

				ar.Route("/users", func(ur chi.Router) {
					ur.Get("/", usersHandler.List)
					ur.Post("/", usersHandler.Create)
					ur.Patch("/{id}/approve", usersHandler.Approve)
					ur.Delete("/{id}", usersHandler.Reject)
				})
			})
		})
	})
}
