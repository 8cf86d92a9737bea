package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "cerclepartages/internal/delivery/http/helpers"
	"cerclepartages/internal/delivery/http/middleware"
	"cerclepartages/internal/domain"
)

// UpdateProfileRequest is the request body for PUT /profiles/me and
// PUT /admin/profiles/{userID}.
type UpdateProfileRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Bio         string `json:"bio"`
	Background  string `json:"background"`
	IsPresenter *bool  `json:"is_presenter,omitempty"` // admin route only
}

// Validate implements Validator.
func (u UpdateProfileRequest) Validate() []string {
	var errs []string
	if len(u.FirstName) > 100 || len(u.LastName) > 100 {
		errs = append(errs, "name parts must be at most 100 characters")
	}
	if len(u.Bio) > 2000 {
		errs = append(errs, "bio must be at most 2000 characters")
	}
	return errs
}

type ProfileController struct {
	Logger  *slog.Logger
	Service domain.ProfileService
}

func NewProfileController(logger *slog.Logger, svc domain.ProfileService) *ProfileController {
	return &ProfileController{
		Logger:  logger,
		Service: svc,
	}
}

func (c *ProfileController) fail(w http.ResponseWriter, r *http.Request, err error) {
	if !h.IsDomainError(err) {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	}
	h.WriteDomainError(w, err)
}

// GetOwn godoc
// @Summary Get own profile
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the profile"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /profiles/me [get]
func (c *ProfileController) GetOwn(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	profile, err := c.Service.GetOwn(r.Context(), userID)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, profile)
}

// UpdateOwn godoc
// @Summary Update own profile
// @Description Update name, bio, and background. The presenter flag cannot be changed here.
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} helpers.APIResponse "data contains the updated profile"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /profiles/me [put]
func (c *ProfileController) UpdateOwn(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	var req UpdateProfileRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	profile, err := c.Service.UpdateOwn(r.Context(), &domain.Profile{
		UserID:     userID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Bio:        req.Bio,
		Background: req.Background,
	})
	if err != nil {
		c.fail(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, profile)
}

// UpdateAny godoc
// @Summary Update a member's profile (admin)
// @Description Update any profile, including the presenter flag.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userID path string true "User ID"
// @Param body body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} helpers.APIResponse "data contains the updated profile"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /admin/profiles/{userID} [put]
func (c *ProfileController) UpdateAny(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	if userID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "user id is required")
		return
	}
	var req UpdateProfileRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	profile := &domain.Profile{
		UserID:     userID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Bio:        req.Bio,
		Background: req.Background,
	}
	if req.IsPresenter != nil {
		profile.IsPresenter = *req.IsPresenter
	}
	updated, err := c.Service.UpdateAny(r.Context(), profile)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, updated)
}

// ListPresenters godoc
// @Summary List presenter profiles
// @Tags presenters
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the presenter profiles"
// @Router /presenters [get]
func (c *ProfileController) ListPresenters(w http.ResponseWriter, r *http.Request) {
	profiles, err := c.Service.ListPresenters(r.Context())
	if err != nil {
		c.fail(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, profiles)
}

// RemovePresenter godoc
// @Summary Remove a member from the presenter list (admin)
// @Description Clears the presenter flag. The profile itself is kept.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param userID path string true "User ID"
// @Success 204 "no content"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /admin/presenters/{userID} [delete]
func (c *ProfileController) RemovePresenter(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.PathValue("userID"))
	if userID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "user id is required")
		return
	}
	if err := c.Service.RemovePresenter(r.Context(), userID); err != nil {
		c.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
