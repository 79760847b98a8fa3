package http

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"gigcity/internal/delivery/http/controllers"
	"gigcity/internal/delivery/http/middleware"
	"gigcity/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	logger *slog.Logger,
	verifier domain.TokenVerifier,
	authController *controllers.AuthController,
	eventController *controllers.EventController,
	ticketController *controllers.TicketController,
) *http.ServeMux {
	mux := http.NewServeMux()

	auth := middleware.RequireAuth(verifier, logger)
	fanOnly := middleware.RequireRole(domain.RoleFan)
	organizerOnly := middleware.RequireRole(domain.RoleOrganizer)
	artistOnly := middleware.RequireRole(domain.RoleArtist)

	// Auth
	mux.HandleFunc("POST /auth/signup", authController.SignUp)
	mux.HandleFunc("POST /auth/login", authController.Login)
	mux.HandleFunc("POST /auth/google", authController.GoogleLogin)
	mux.HandleFunc("GET /auth/me", auth(authController.Me))
	mux.HandleFunc("PUT /auth/me", auth(authController.UpdateMe))

	// Events
	mux.HandleFunc("GET /events", eventController.ListEvents)
	mux.HandleFunc("POST /events", auth(organizerOnly(eventController.CreateEvent)))
	mux.HandleFunc("GET /events/{eventID}", eventController.GetEvent)
	mux.HandleFunc("DELETE /events/{eventID}", auth(eventController.DeleteEvent))
	mux.HandleFunc("GET /me/events", auth(eventController.MyEvents))

	// Tickets and admission. Only fans hold tickets; organizers and artists
	// run events, they don't attend them.
	mux.HandleFunc("POST /events/join", auth(fanOnly(ticketController.Join)))
	mux.HandleFunc("POST /events/create-order", auth(fanOnly(ticketController.CreateOrder)))
	mux.HandleFunc("POST /events/verify-payment", auth(fanOnly(ticketController.VerifyPayment)))
	mux.HandleFunc("POST /events/checkin", auth(ticketController.CheckIn))
	mux.HandleFunc("GET /me/tickets", auth(ticketController.MyTickets))

	// Comments
	mux.HandleFunc("GET /events/{eventID}/comments", eventController.ListComments)
	mux.HandleFunc("POST /events/{eventID}/comments", auth(eventController.AddComment))
	mux.HandleFunc("DELETE /events/{eventID}/comments/{commentID}", auth(eventController.DeleteComment))

	// Artists
	mux.HandleFunc("POST /events/apply", auth(artistOnly(eventController.Apply)))
	mux.HandleFunc("GET /events/{eventID}/applications", auth(eventController.ListApplications))

	// Operational
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
