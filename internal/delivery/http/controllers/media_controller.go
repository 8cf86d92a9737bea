package controllers

import (
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"cerclepartages/internal/adapters/storage"
	h "cerclepartages/internal/delivery/http/helpers"
	"cerclepartages/internal/delivery/http/middleware"
	"cerclepartages/internal/domain"
)

// multipartMemory caps how much of an upload is buffered in memory;
// the rest spills to temp files.
const multipartMemory = 10 << 20

// UploadResponse returns the public URL of a stored object.
type UploadResponse struct {
	URL string `json:"url"`
}

// MediaController handles multipart uploads for avatars, event images,
// videos, and documents. Files are validated, streamed to object
// storage, and their public URL recorded on the owning entity.
type MediaController struct {
	Logger   *slog.Logger
	Store    domain.ObjectStore
	Events   domain.EventService
	Profiles domain.ProfileService
}

func NewMediaController(logger *slog.Logger, store domain.ObjectStore, events domain.EventService, profiles domain.ProfileService) *MediaController {
	return &MediaController{
		Logger:   logger,
		Store:    store,
		Events:   events,
		Profiles: profiles,
	}
}

func (c *MediaController) fail(w http.ResponseWriter, r *http.Request, err error) {
	if !h.IsDomainError(err) {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	}
	h.WriteDomainError(w, err)
}

func (c *MediaController) storeReady(w http.ResponseWriter) bool {
	if c.Store == nil {
		h.WriteJSONError(w, http.StatusServiceUnavailable, h.ErrCodeInternalError, "object storage not configured")
		return false
	}
	return true
}

// formFile extracts the "file" part and validates it for kind. The
// caller must close the returned file.
func (c *MediaController) formFile(w http.ResponseWriter, r *http.Request, kind domain.MediaKind) (multipart.File, *multipart.FileHeader, bool) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid multipart form")
		return nil, nil, false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "file field is required")
		return nil, nil, false
	}
	contentType := header.Header.Get("Content-Type")
	if err := domain.ValidateUpload(kind, contentType, header.Size); err != nil {
		file.Close()
		c.fail(w, r, err)
		return nil, nil, false
	}
	return file, header, true
}

// UploadAvatar godoc
// @Summary Upload the caller's avatar
// @Description Accepts an image up to 5MB as multipart field "file" and sets it as the caller's profile picture.
// @Tags profiles
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image file"
// @Success 200 {object} helpers.APIResponse "data contains the public URL"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /profiles/me/avatar [post]
func (c *MediaController) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	if !c.storeReady(w) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "authentication required")
		return
	}
	file, header, ok := c.formFile(w, r, domain.MediaAvatar)
	if !ok {
		return
	}
	defer file.Close()
	key := storage.ObjectKey(userID, header.Filename)
	url, err := c.Store.Upload(r.Context(), domain.MediaAvatar, key, header.Header.Get("Content-Type"), file, header.Size)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	if err := c.Profiles.SetAvatarURL(r.Context(), userID, url); err != nil {
		c.fail(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, UploadResponse{URL: url})
}

// UploadEventImage godoc
// @Summary Upload an event's cover image (admin)
// @Tags events
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param file formData file true "Image file"
// @Success 200 {object} helpers.APIResponse "data contains the public URL"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /events/{eventID}/image [post]
func (c *MediaController) UploadEventImage(w http.ResponseWriter, r *http.Request) {
	if !c.storeReady(w) {
		return
	}
	id, ok := eventID(w, r)
	if !ok {
		return
	}
	file, header, ok := c.formFile(w, r, domain.MediaEventImage)
	if !ok {
		return
	}
	defer file.Close()
	key := storage.ObjectKey(id, header.Filename)
	url, err := c.Store.Upload(r.Context(), domain.MediaEventImage, key, header.Header.Get("Content-Type"), file, header.Size)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	if _, err := c.Events.UpdateEvent(r.Context(), id, domain.EventUpdate{ImageURL: &url}); err != nil {
		c.fail(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, UploadResponse{URL: url})
}

// UploadEventVideo godoc
// @Summary Upload an event's replay video (admin)
// @Description Accepts a video up to 500MB as multipart field "file". The upload is streamed to storage in parts.
// @Tags events
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param file formData file true "Video file"
// @Success 200 {object} helpers.APIResponse "data contains the public URL"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /events/{eventID}/video [post]
func (c *MediaController) UploadEventVideo(w http.ResponseWriter, r *http.Request) {
	if !c.storeReady(w) {
		return
	}
	id, ok := eventID(w, r)
	if !ok {
		return
	}
	file, header, ok := c.formFile(w, r, domain.MediaEventVideo)
	if !ok {
		return
	}
	defer file.Close()
	key := storage.ObjectKey(id, header.Filename)
	url, err := c.Store.Upload(r.Context(), domain.MediaEventVideo, key, header.Header.Get("Content-Type"), file, header.Size)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	if err := c.Events.SetVideoURL(r.Context(), id, &url); err != nil {
		c.fail(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, UploadResponse{URL: url})
}

// UploadEventDocument godoc
// @Summary Attach a PDF document to an event (admin)
// @Tags events
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param file formData file true "PDF file"
// @Success 201 {object} helpers.APIResponse "data contains the document"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /events/{eventID}/documents [post]
func (c *MediaController) UploadEventDocument(w http.ResponseWriter, r *http.Request) {
	if !c.storeReady(w) {
		return
	}
	id, ok := eventID(w, r)
	if !ok {
		return
	}
	userID, _ := middleware.UserIDFromContext(r.Context())
	file, header, ok := c.formFile(w, r, domain.MediaEventDocument)
	if !ok {
		return
	}
	defer file.Close()
	key := storage.ObjectKey(id, header.Filename)
	url, err := c.Store.Upload(r.Context(), domain.MediaEventDocument, key, header.Header.Get("Content-Type"), file, header.Size)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	doc := &domain.EventDocument{
		EventID:    id,
		FileName:   header.Filename,
		FileSize:   header.Size,
		URL:        url,
		UploadedBy: userID,
	}
	if err := c.Events.AddDocument(r.Context(), doc); err != nil {
		c.fail(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, doc)
}

// DeleteDocument godoc
// @Summary Delete an event document (admin)
// @Description Removes the document record and best-effort deletes the stored object.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param documentID path string true "Document ID"
// @Success 204 "no content"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /documents/{documentID} [delete]
func (c *MediaController) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("documentID"))
	if id == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "document id is required")
		return
	}
	if err := c.Events.DeleteDocument(r.Context(), id); err != nil {
		c.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
