package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"flexbo-edge/internal/models"
)

type mailSender interface {
	SendContactEmail(ctx context.Context, req models.ContactRequest) (string, error)
}

// ContactHandler relays contact-form submissions to the mail
// collaborator. Responses use the {ok, id?, error?} envelope the
// contact form expects.
type ContactHandler struct {
	mail mailSender
	log  zerolog.Logger
}

func NewContactHandler(mail mailSender, log zerolog.Logger) *ContactHandler {
	return &ContactHandler{mail: mail, log: log}
}

func (h *ContactHandler) Forward(w http.ResponseWriter, r *http.Request) {
	var req models.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ContactResponse{OK: false, Error: "Invalid request body"})
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, models.ContactResponse{OK: false, Error: "Empty message"})
		return
	}

	id, err := h.mail.SendContactEmail(r.Context(), req)
	if err != nil {
		h.log.Error().Err(err).Str("tag", "contact-mail").Msg("mail delivery failed")
		writeJSON(w, http.StatusInternalServerError, models.ContactResponse{OK: false, Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, models.ContactResponse{OK: true, ID: id})
}
