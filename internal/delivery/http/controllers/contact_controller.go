package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "cerclepartages/internal/delivery/http/helpers"
	"cerclepartages/internal/domain"
)

// ContactRequest is the request body for POST /contact
type ContactRequest struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Validate implements Validator.
func (c ContactRequest) Validate() []string {
	var errs []string
	if !emailRegexp.MatchString(strings.TrimSpace(c.Email)) {
		errs = append(errs, "a valid email is required")
	}
	if strings.TrimSpace(c.Subject) == "" {
		errs = append(errs, "subject is required")
	}
	if strings.TrimSpace(c.Message) == "" {
		errs = append(errs, "message is required")
	}
	if len(c.Message) > 5000 {
		errs = append(errs, "message cannot exceed 5000 characters")
	}
	return errs
}

type ContactController struct {
	Logger  *slog.Logger
	Service domain.EmailService
}

func NewContactController(logger *slog.Logger, svc domain.EmailService) *ContactController {
	return &ContactController{
		Logger:  logger,
		Service: svc,
	}
}

// Send godoc
// @Summary Send a contact-form message to the association
// @Tags contact
// @Accept json
// @Produce json
// @Param body body ContactRequest true "Message"
// @Success 202 {object} helpers.APIResponse "data contains an acknowledgement"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /contact [post]
func (c *ContactController) Send(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	err := c.Service.SendContactEmail(r.Context(), &domain.ContactEmailData{
		FromEmail: strings.TrimSpace(req.Email),
		FromName:  strings.TrimSpace(req.Name),
		Subject:   strings.TrimSpace(req.Subject),
		Message:   req.Message,
	})
	if err != nil {
		if !h.IsDomainError(err) {
			c.Logger.ErrorContext(r.Context(), "contact email failed", "err", err)
		}
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusAccepted, map[string]string{"status": "sent"})
}
