package handlers

import (
	"log"
	"net/http"

	"github.com/muraken91/day-88-cafes-wifi-website/internal/mailer"
)

type ContactHandler struct {
	Mailer mailer.Mailer
}

func NewContactHandler(m mailer.Mailer) *ContactHandler { return &ContactHandler{Mailer: m} }

// Handle renders the contact form and relays submissions to the operator
// mailbox. A relay failure is logged and shown to the user; it is never
// reported as success and never left to propagate as a fault.
func (h *ContactHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		renderTemplate(w, r, http.StatusOK, "contact", map[string]any{"MsgSent": false})
		return
	}
	if err := r.ParseForm(); err != nil {
		renderTemplate(w, r, http.StatusBadRequest, "contact", map[string]any{"MsgSent": false, "Error": "invalid form"})
		return
	}
	msg := mailer.ContactMessage{
		Name:    r.FormValue("name"),
		Email:   r.FormValue("email"),
		Phone:   r.FormValue("phone"),
		Message: r.FormValue("message"),
	}
	if err := h.Mailer.Send(r.Context(), msg); err != nil {
		log.Printf("contact: relay failed: %v", err)
		renderTemplate(w, r, http.StatusBadGateway, "contact", map[string]any{
			"MsgSent": false,
			"Error":   "Your message could not be sent right now. Please try again later.",
		})
		return
	}
	renderTemplate(w, r, http.StatusOK, "contact", map[string]any{"MsgSent": true})
}
