package mailer

import (
	"encoding/json"
	"log"
	"net/http"

	"crowdguard/backend/internal/platform/httpx"
)

// ConfiguredSender is a Sender that can also report whether it has credentials.
type ConfiguredSender interface {
	Sender
	Configured() bool
}

// Handler is the mail service's single endpoint: render a template and send it.
// It is stateless; every request carries everything needed.
type Handler struct {
	sender ConfiguredSender
}

func NewHandler(sender ConfiguredSender) *Handler {
	return &Handler{sender: sender}
}

type sendRequest struct {
	To           string          `json:"to"`
	TemplateType string          `json:"templateType"`
	TemplateData json.RawMessage `json:"templateData"`
}

// Send handles POST /send.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Missing required fields: to, templateType")
		return
	}
	if req.To == "" || req.TemplateType == "" {
		httpx.Error(w, http.StatusBadRequest, "Missing required fields: to, templateType")
		return
	}
	if !h.sender.Configured() {
		log.Printf("warn: email credentials not configured")
		httpx.Error(w, http.StatusInternalServerError, "Email service not configured")
		return
	}

	var email Email
	switch req.TemplateType {
	case TemplateInvitation:
		var data InvitationData
		if len(req.TemplateData) > 0 {
			if err := json.Unmarshal(req.TemplateData, &data); err != nil {
				httpx.Error(w, http.StatusBadRequest, "Invalid template type")
				return
			}
		}
		var err error
		email, err = RenderInvitation(data)
		if err != nil {
			httpx.Error(w, http.StatusInternalServerError, "Failed to send email")
			return
		}
	default:
		httpx.Error(w, http.StatusBadRequest, "Invalid template type")
		return
	}
	email.To = req.To

	messageID, err := h.sender.Send(email)
	if err != nil {
		log.Printf("warn: send email to %s: %v", req.To, err)
		httpx.Error(w, http.StatusInternalServerError, "Failed to send email")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"messageId": messageID,
		"message":   "Email sent successfully",
	})
}
