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

// CreateEventRequest is the request body for POST /events
type CreateEventRequest struct {
	Title            string    `json:"title"`
	Category         string    `json:"category"`
	Description      string    `json:"description"`
	Date             time.Time `json:"date"`
	Location         string    `json:"location"`
	ParticipantLimit int       `json:"participant_limit"`
	ImageURL         *string   `json:"image_url,omitempty"`
}

// Validate implements Validator.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	if !domain.ValidEventCategory(c.Category) {
		errs = append(errs, "category must be one of conference, atelier, rencontre, sortie")
	}
	if c.Date.IsZero() {
		errs = append(errs, "date is required")
	}
	if c.ParticipantLimit < 0 {
		errs = append(errs, "participant_limit cannot be negative")
	}
	return errs
}

// UpdateEventRequest is the request body for PATCH /events/{eventID}.
// Absent fields are left unchanged.
type UpdateEventRequest struct {
	Title            *string    `json:"title,omitempty"`
	Category         *string    `json:"category,omitempty"`
	Description      *string    `json:"description,omitempty"`
	Date             *time.Time `json:"date,omitempty"`
	Location         *string    `json:"location,omitempty"`
	ParticipantLimit *int       `json:"participant_limit,omitempty"`
	ImageURL         *string    `json:"image_url,omitempty"`
}

// Validate implements Validator.
func (u UpdateEventRequest) Validate() []string {
	var errs []string
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		errs = append(errs, "title cannot be empty")
	}
	if u.Category != nil && !domain.ValidEventCategory(*u.Category) {
		errs = append(errs, "category must be one of conference, atelier, rencontre, sortie")
	}
	if u.ParticipantLimit != nil && *u.ParticipantLimit < 0 {
		errs = append(errs, "participant_limit cannot be negative")
	}
	return errs
}

// SendInvitationsRequest is the request body for POST /events/{eventID}/invitations
type SendInvitationsRequest struct {
	Emails []string `json:"emails"`
}

// Validate implements Validator.
func (s SendInvitationsRequest) Validate() []string {
	var errs []string
	if len(s.Emails) == 0 {
		errs = append(errs, "at least one email is required")
	}
	for _, e := range s.Emails {
		e = strings.TrimSpace(e)
		if e != "" && !emailRegexp.MatchString(e) {
			errs = append(errs, "invalid email: "+e)
		}
	}
	return errs
}

// SendInvitationsResponse is the response body for POST /events/{eventID}/invitations
type SendInvitationsResponse struct {
	Sent   int      `json:"sent"`
	Failed []string `json:"failed"`
	Status string   `json:"status"`
}

// SetPresentersRequest is the request body for PUT /events/{eventID}/presenters
type SetPresentersRequest struct {
	ProfileIDs []string `json:"profile_ids"`
}

// SetVideoRequest is the request body for PUT /events/{eventID}/video
type SetVideoRequest struct {
	VideoURL *string `json:"video_url"`
}

// NotifiedResponse reports how many members were emailed.
type NotifiedResponse struct {
	Notified int `json:"notified"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

func (c *EventController) fail(w http.ResponseWriter, r *http.Request, err error) {
	if !h.IsDomainError(err) {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	}
	h.WriteDomainError(w, err)
}

func eventID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(r.PathValue("eventID"))
	if id == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "event id is required")
		return "", false
	}
	return id, true
}

// Create godoc
// @Summary Create an event (admin)
// @Description Create a new event in draft status. Publishing happens through the invitation flow.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateEventRequest true "Event data"
// @Success 201 {object} helpers.APIResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /events [post]
func (c *EventController) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	var req CreateEventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	event := &domain.Event{
		Title:            strings.TrimSpace(req.Title),
		Category:         req.Category,
		Description:      req.Description,
		Date:             req.Date,
		Location:         req.Location,
		ParticipantLimit: req.ParticipantLimit,
		ImageURL:         req.ImageURL,
		CreatorID:        userID,
	}
	if err := c.Service.CreateEvent(r.Context(), event); err != nil {
		c.fail(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, event)
}

// Get godoc
// @Summary Get an event with stats
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the event, presenters, and counts"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID} [get]
func (c *EventController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}
	ws, err := c.Service.GetEvent(r.Context(), id)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, ws)
}

// ListPublished godoc
// @Summary List published events
// @Description The member-facing event list: published events with presenters and capacity counts.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the events"
// @Router /events [get]
func (c *EventController) ListPublished(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.ListPublishedEvents(r.Context())
	if err != nil {
		c.fail(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, events)
}

// ListAll godoc
// @Summary List all events regardless of status (admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} helpers.APIResponse "data contains events and pagination"
// @Router /admin/events [get]
func (c *EventController) ListAll(w http.ResponseWriter, r *http.Request) {
	params := h.ParsePagination(r)
	events, total, err := c.Service.ListAllEvents(r.Context(), params)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, map[string]any{
		"events":     events,
		"pagination": h.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// Update godoc
// @Summary Update an event (admin)
// @Description Partial update. Changing the date of a published event cancels all confirmed registrations and notifies the affected members.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body UpdateEventRequest true "Fields to change"
// @Success 200 {object} helpers.APIResponse "data contains the event and notified count"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID} [patch]
func (c *EventController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}
	var req UpdateEventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	res, err := c.Service.UpdateEvent(r.Context(), id, domain.EventUpdate{
		Title:            req.Title,
		Category:         req.Category,
		Description:      req.Description,
		Date:             req.Date,
		Location:         req.Location,
		ParticipantLimit: req.ParticipantLimit,
		ImageURL:         req.ImageURL,
	})
	if err != nil {
		c.fail(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, res)
}

// Cancel godoc
// @Summary Cancel an event (admin)
// @Description Mark the event cancelled and notify confirmed participants.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the notified count"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already completed or cancelled)"
// @Router /events/{eventID}/cancel [post]
func (c *EventController) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}
	notified, err := c.Service.CancelEvent(r.Context(), id)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, NotifiedResponse{Notified: notified})
}

// Complete godoc
// @Summary Mark an event completed (admin)
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 204 "no content"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /events/{eventID}/complete [post]
func (c *EventController) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}
	if err := c.Service.CompleteEvent(r.Context(), id); err != nil {
		c.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete godoc
// @Summary Delete an event (admin)
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 204 "no content"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID} [delete]
func (c *EventController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), id); err != nil {
		c.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SendInvitations godoc
// @Summary Send event invitations (admin)
// @Description Email the given addresses about the event. Sending invitations for a draft event publishes it. Addresses that fail are listed in the response, not an error.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body SendInvitationsRequest true "Recipient addresses"
// @Success 200 {object} helpers.APIResponse "data contains sent count, failed addresses, and the event status"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (event cancelled or completed)"
// @Router /events/{eventID}/invitations [post]
func (c *EventController) SendInvitations(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}
	userID, _ := middleware.UserIDFromContext(r.Context())
	var req SendInvitationsRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	sent, failed, err := c.Service.SendInvitations(r.Context(), id, userID, req.Emails)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, SendInvitationsResponse{
		Sent:   sent,
		Failed: failed,
		Status: domain.EventStatusPublished,
	})
}

// SendReminder godoc
// @Summary Send a reminder to confirmed participants (admin)
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the notified count"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (event not published)"
// @Router /events/{eventID}/reminder [post]
func (c *EventController) SendReminder(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}
	notified, err := c.Service.SendReminder(r.Context(), id)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, NotifiedResponse{Notified: notified})
}

// SetPresenters godoc
// @Summary Replace the event's presenter list (admin)
// @Description Replaces the ordered presenter list. Every id must resolve to a presenter-eligible profile.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body SetPresentersRequest true "Ordered presenter profile ids"
// @Success 204 "no content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /events/{eventID}/presenters [put]
func (c *EventController) SetPresenters(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}
	var req SetPresentersRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.ReplacePresenters(r.Context(), id, req.ProfileIDs); err != nil {
		c.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetPresenters godoc
// @Summary List the event's presenters in order
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the presenter profiles"
// @Router /events/{eventID}/presenters [get]
func (c *EventController) GetPresenters(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}
	profiles, err := c.Service.ListPresenters(r.Context(), id)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, profiles)
}

// ListDocuments godoc
// @Summary List the event's documents
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the documents"
// @Router /events/{eventID}/documents [get]
func (c *EventController) ListDocuments(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}
	docs, err := c.Service.ListDocuments(r.Context(), id)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, docs)
}

// SetVideo godoc
// @Summary Set or clear the event's replay video URL (admin)
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body SetVideoRequest true "Video URL (null clears)"
// @Success 204 "no content"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/video [put]
func (c *EventController) SetVideo(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}
	var req SetVideoRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.SetVideoURL(r.Context(), id, req.VideoURL); err != nil {
		c.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
