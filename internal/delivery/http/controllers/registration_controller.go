package controllers

import (
	"log/slog"
	"net/http"

	h "cerclepartages/internal/delivery/http/helpers"
	"cerclepartages/internal/delivery/http/middleware"
	"cerclepartages/internal/domain"
)

type RegistrationController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewRegistrationController(logger *slog.Logger, svc domain.RegistrationService) *RegistrationController {
	return &RegistrationController{
		Logger:  logger,
		Service: svc,
	}
}

func (c *RegistrationController) fail(w http.ResponseWriter, r *http.Request, err error) {
	if !h.IsDomainError(err) {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	}
	h.WriteDomainError(w, err)
}

// Register godoc
// @Summary Register for an event
// @Description Claims a confirmed seat. When the event is full the call fails with capacity_exceeded and the client may offer the waitlist instead.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 201 {object} helpers.APIResponse "data contains the registration"
// @Failure 409 {object} helpers.APIResponse "error.code: capacity_exceeded"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/registrations [post]
func (c *RegistrationController) Register(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}
	userID, _ := middleware.UserIDFromContext(r.Context())
	reg, err := c.Service.Register(r.Context(), id, userID)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, reg)
}

// JoinWaitlist godoc
// @Summary Join the event's waitlist
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 201 {object} helpers.APIResponse "data contains the registration"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/waitlist [post]
func (c *RegistrationController) JoinWaitlist(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}
	userID, _ := middleware.UserIDFromContext(r.Context())
	reg, err := c.Service.JoinWaitlist(r.Context(), id, userID)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, reg)
}

// Cancel godoc
// @Summary Cancel own registration
// @Description Marks the registration cancelled. The row is kept so a later re-registration reclaims it.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 204 "no content"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/registrations [delete]
func (c *RegistrationController) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}
	userID, _ := middleware.UserIDFromContext(r.Context())
	if err := c.Service.Cancel(r.Context(), id, userID); err != nil {
		c.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListOwn godoc
// @Summary List the caller's registrations with their events
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the registrations"
// @Router /registrations/me [get]
func (c *RegistrationController) ListOwn(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "authentication required")
		return
	}
	regs, err := c.Service.ListOwn(r.Context(), userID)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, regs)
}

// ListParticipants godoc
// @Summary List an event's participants (admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param status query string false "Filter by registration status (confirmed, waitlist, cancelled)"
// @Success 200 {object} helpers.APIResponse "data contains the participants"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/registrations [get]
func (c *RegistrationController) ListParticipants(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}
	status := r.URL.Query().Get("status")
	if status != "" && !domain.ValidRegistrationStatus(status) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "status must be one of confirmed, waitlist, cancelled")
		return
	}
	parts, err := c.Service.ListParticipants(r.Context(), id, status)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, parts)
}
