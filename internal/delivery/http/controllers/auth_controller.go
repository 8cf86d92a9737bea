package controllers

import (
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	h "cerclepartages/internal/delivery/http/helpers"
	"cerclepartages/internal/delivery/http/middleware"
	"cerclepartages/internal/domain"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// AcceptInvitationRequest is the request body for POST /auth/accept-invitation
type AcceptInvitationRequest struct {
	Token string `json:"token"`
	// Email is only honored when the invitation was created without an
	// address; otherwise the invitation's address wins.
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Validate implements Validator.
func (a AcceptInvitationRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(a.Token) == "" {
		errs = append(errs, "token is required")
	}
	if email := strings.TrimSpace(strings.ToLower(a.Email)); email != "" && !emailRegexp.MatchString(email) {
		errs = append(errs, "invalid email format")
	}
	if a.Password == "" {
		errs = append(errs, "password is required")
	} else if len(a.Password) < 8 {
		errs = append(errs, "password must be at least 8 characters")
	}
	return errs
}

// LoginRequest is the request body for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate implements Validator.
func (l LoginRequest) Validate() []string {
	var errs []string
	email := strings.TrimSpace(strings.ToLower(l.Email))
	if email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegexp.MatchString(email) {
		errs = append(errs, "invalid email format")
	}
	if l.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// SessionResponse is the response body for successful authentication.
type SessionResponse struct {
	Token     string           `json:"token"`
	TokenType string           `json:"token_type"`
	Identity  *domain.Identity `json:"identity"`
}

type AuthController struct {
	Logger  *slog.Logger
	Service domain.AuthService
}

func NewAuthController(logger *slog.Logger, svc domain.AuthService) *AuthController {
	return &AuthController{
		Logger:  logger,
		Service: svc,
	}
}

// AcceptInvitation godoc
// @Summary Accept an invitation and create the account
// @Description Consume a single-use invitation token, create the member account with the invitation's role, and sign in. The token is spent even when viewed concurrently; only one acceptance wins.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body AcceptInvitationRequest true "Invitation acceptance data"
// @Success 201 {object} helpers.APIResponse "data contains token, token_type, and identity"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (token used or expired)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/accept-invitation [post]
func (c *AuthController) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	var req AcceptInvitationRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	token, identity, err := c.Service.AcceptInvitation(r.Context(), strings.TrimSpace(req.Token), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		if !h.IsDomainError(err) {
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		}
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, SessionResponse{Token: token, TokenType: "Bearer", Identity: identity})
}

// Login godoc
// @Summary Log in
// @Description Authenticate with email and password. Returns a JWT and the resolved identity.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} helpers.APIResponse "data contains token, token_type, and identity"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	token, identity, err := c.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if !h.IsDomainError(err) {
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		}
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, SessionResponse{Token: token, TokenType: "Bearer", Identity: identity})
}

// Me godoc
// @Summary Resolve the current member
// @Description Return the authenticated member's account, profile, roles, and derived flags in one response.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the identity"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/me [get]
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "not authenticated")
		return
	}
	identity, err := c.Service.Resolve(r.Context(), userID)
	if err != nil {
		if !h.IsDomainError(err) {
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		}
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, identity)
}
