package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	h "cerclepartages/internal/delivery/http/helpers"
	"cerclepartages/internal/delivery/http/middleware"
	"cerclepartages/internal/domain"
)

// CreateInvitationRequest is the request body for POST /admin/invitations
type CreateInvitationRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Validate implements Validator.
func (c CreateInvitationRequest) Validate() []string {
	var errs []string
	if !domain.ValidRoleCode(c.Role) {
		errs = append(errs, "role must be one of admin, presenter, participant")
	}
	if e := strings.TrimSpace(c.Email); e != "" && !emailRegexp.MatchString(e) {
		errs = append(errs, "invalid email")
	}
	return errs
}

// InvitationLookupResponse is the public view of an invitation. The
// token holder learns only what the acceptance page needs.
type InvitationLookupResponse struct {
	Email     string `json:"email"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	ExpiresAt string `json:"expires_at"`
}

type InvitationController struct {
	Logger  *slog.Logger
	Service domain.InvitationService
}

func NewInvitationController(logger *slog.Logger, svc domain.InvitationService) *InvitationController {
	return &InvitationController{
		Logger:  logger,
		Service: svc,
	}
}

func (c *InvitationController) fail(w http.ResponseWriter, r *http.Request, err error) {
	if !h.IsDomainError(err) {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	}
	h.WriteDomainError(w, err)
}

// Create godoc
// @Summary Issue an account invitation (admin)
// @Description Creates a single-use invitation token. When an email address is given the invite link is sent to it.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateInvitationRequest true "Invitation data"
// @Success 201 {object} helpers.APIResponse "data contains the invitation"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /admin/invitations [post]
func (c *InvitationController) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	var req CreateInvitationRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	inv, err := c.Service.CreateInvitation(r.Context(), strings.TrimSpace(req.Email), req.Role, userID)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, inv)
}

// List godoc
// @Summary List invitations (admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param search query string false "Filter by email"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} helpers.APIResponse "data contains invitations and pagination"
// @Router /admin/invitations [get]
func (c *InvitationController) List(w http.ResponseWriter, r *http.Request) {
	params := h.ParsePagination(r)
	search := r.URL.Query().Get("search")
	invs, total, err := c.Service.ListInvitations(r.Context(), search, params)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, map[string]any{
		"invitations": invs,
		"pagination":  h.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// Revoke godoc
// @Summary Revoke a pending invitation (admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param invitationID path string true "Invitation ID"
// @Success 204 "no content"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (no pending invitation with that id)"
// @Router /admin/invitations/{invitationID} [delete]
func (c *InvitationController) Revoke(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("invitationID"))
	if id == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invitation id is required")
		return
	}
	if err := c.Service.RevokeInvitation(r.Context(), id); err != nil {
		c.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Lookup godoc
// @Summary Look up an invitation token
// @Description Public endpoint backing the acceptance page. Returns the invitation's email, role, and status for the token.
// @Tags auth
// @Produce json
// @Param token path string true "Invitation token"
// @Success 200 {object} helpers.APIResponse "data contains the invitation summary"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /invitations/{token} [get]
func (c *InvitationController) Lookup(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.PathValue("token"))
	if token == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "token is required")
		return
	}
	inv, err := c.Service.LookupByToken(r.Context(), token)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, InvitationLookupResponse{
		Email:     inv.Email,
		Role:      inv.Role,
		Status:    inv.Status,
		ExpiresAt: inv.ExpiresAt.Format(time.RFC3339),
	})
}
