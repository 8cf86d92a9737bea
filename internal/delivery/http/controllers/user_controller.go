package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "cerclepartages/internal/delivery/http/helpers"
	"cerclepartages/internal/delivery/http/middleware"
	"cerclepartages/internal/domain"
)

type UserController struct {
	Logger  *slog.Logger
	Service domain.UserAdminService
}

func NewUserController(logger *slog.Logger, svc domain.UserAdminService) *UserController {
	return &UserController{
		Logger:  logger,
		Service: svc,
	}
}

func (c *UserController) fail(w http.ResponseWriter, r *http.Request, err error) {
	if !h.IsDomainError(err) {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	}
	h.WriteDomainError(w, err)
}

// List godoc
// @Summary List member accounts with profiles and roles (admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param search query string false "Filter by email"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} helpers.APIResponse "data contains users and pagination"
// @Router /admin/users [get]
func (c *UserController) List(w http.ResponseWriter, r *http.Request) {
	params := h.ParsePagination(r)
	search := r.URL.Query().Get("search")
	users, total, err := c.Service.ListUsers(r.Context(), search, params)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, map[string]any{
		"users":      users,
		"pagination": h.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// Delete godoc
// @Summary Delete a member account (admin)
// @Description Removes the account and its profile, roles, and registrations. Admins cannot delete their own account.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param userID path string true "User ID"
// @Success 204 "no content"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /admin/users/{userID} [delete]
func (c *UserController) Delete(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("userID"))
	if id == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "user id is required")
		return
	}
	if callerID, ok := middleware.UserIDFromContext(r.Context()); ok && callerID == id {
		h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, "cannot delete your own account")
		return
	}
	if err := c.Service.DeleteUser(r.Context(), id); err != nil {
		c.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
