package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"cerclepartages/internal/delivery/http/controllers"
	"cerclepartages/internal/delivery/http/middleware"
	"cerclepartages/internal/domain"
)

// Controllers bundles every request handler the router wires up.
type Controllers struct {
	Auth          *controllers.AuthController
	Profiles      *controllers.ProfileController
	Events        *controllers.EventController
	Registrations *controllers.RegistrationController
	Invitations   *controllers.InvitationController
	Users         *controllers.UserController
	Media         *controllers.MediaController
	Contact       *controllers.ContactController
}

// NewRouter initializes the HTTP router with all application routes.
// Everything except login, invitation acceptance/lookup, and the
// contact form requires a valid Bearer token; admin routes re-read the
// caller's roles from storage on every request.
func NewRouter(c Controllers, verifier domain.TokenVerifier, roleRepo domain.RoleRepository, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	auth := middleware.RequireAuth(verifier, logger)
	admin := func(next http.HandlerFunc) http.HandlerFunc {
		return auth(middleware.RequireRole(roleRepo, domain.RoleAdmin, logger)(next))
	}

	// Public
	mux.HandleFunc("POST /auth/accept-invitation", c.Auth.AcceptInvitation)
	mux.HandleFunc("POST /auth/login", c.Auth.Login)
	mux.HandleFunc("GET /invitations/{token}", c.Invitations.Lookup)
	mux.HandleFunc("POST /contact", c.Contact.Send)

	// Session
	mux.HandleFunc("GET /auth/me", auth(c.Auth.Me))

	// Profiles
	mux.HandleFunc("GET /profiles/me", auth(c.Profiles.GetOwn))
	mux.HandleFunc("PUT /profiles/me", auth(c.Profiles.UpdateOwn))
	mux.HandleFunc("POST /profiles/me/avatar", auth(c.Media.UploadAvatar))
	mux.HandleFunc("GET /presenters", auth(c.Profiles.ListPresenters))

	// Events
	mux.HandleFunc("GET /events", auth(c.Events.ListPublished))
	mux.HandleFunc("GET /events/{eventID}", auth(c.Events.Get))
	mux.HandleFunc("GET /events/{eventID}/presenters", auth(c.Events.GetPresenters))
	mux.HandleFunc("GET /events/{eventID}/documents", auth(c.Events.ListDocuments))

	// Registrations
	mux.HandleFunc("POST /events/{eventID}/registrations", auth(c.Registrations.Register))
	mux.HandleFunc("POST /events/{eventID}/waitlist", auth(c.Registrations.JoinWaitlist))
	mux.HandleFunc("DELETE /events/{eventID}/registrations", auth(c.Registrations.Cancel))
	mux.HandleFunc("GET /registrations/me", auth(c.Registrations.ListOwn))

	// Event management (admin)
	mux.HandleFunc("POST /events", admin(c.Events.Create))
	mux.HandleFunc("PATCH /events/{eventID}", admin(c.Events.Update))
	mux.HandleFunc("DELETE /events/{eventID}", admin(c.Events.Delete))
	mux.HandleFunc("POST /events/{eventID}/cancel", admin(c.Events.Cancel))
	mux.HandleFunc("POST /events/{eventID}/complete", admin(c.Events.Complete))
	mux.HandleFunc("POST /events/{eventID}/invitations", admin(c.Events.SendInvitations))
	mux.HandleFunc("POST /events/{eventID}/reminder", admin(c.Events.SendReminder))
	mux.HandleFunc("PUT /events/{eventID}/presenters", admin(c.Events.SetPresenters))
	mux.HandleFunc("PUT /events/{eventID}/video", admin(c.Events.SetVideo))
	mux.HandleFunc("GET /events/{eventID}/registrations", admin(c.Registrations.ListParticipants))

	// Event media (admin)
	mux.HandleFunc("POST /events/{eventID}/image", admin(c.Media.UploadEventImage))
	mux.HandleFunc("POST /events/{eventID}/video", admin(c.Media.UploadEventVideo))
	mux.HandleFunc("POST /events/{eventID}/documents", admin(c.Media.UploadEventDocument))
	mux.HandleFunc("DELETE /documents/{documentID}", admin(c.Media.DeleteDocument))

	// Administration
	mux.HandleFunc("GET /admin/events", admin(c.Events.ListAll))
	mux.HandleFunc("GET /admin/users", admin(c.Users.List))
	mux.HandleFunc("DELETE /admin/users/{userID}", admin(c.Users.Delete))
	mux.HandleFunc("PUT /admin/profiles/{userID}", admin(c.Profiles.UpdateAny))
	mux.HandleFunc("DELETE /admin/presenters/{userID}", admin(c.Profiles.RemovePresenter))
	mux.HandleFunc("POST /admin/invitations", admin(c.Invitations.Create))
	mux.HandleFunc("GET /admin/invitations", admin(c.Invitations.List))
	mux.HandleFunc("DELETE /admin/invitations/{invitationID}", admin(c.Invitations.Revoke))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
