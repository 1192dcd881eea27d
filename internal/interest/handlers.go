package interest

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/VybCoding/OneWonderLake/internal/email"
	"github.com/VybCoding/OneWonderLake/internal/utils"
	"go.uber.org/zap"
)

type Handler struct {
	store   Store
	mailer  *email.Mailer
	siteURL string
	log     *zap.Logger
}

// NewHandler wires the interest endpoints. mailer may be nil, in which case
// no thank-you note is sent.
func NewHandler(store Store, mailer *email.Mailer, siteURL string) *Handler {
	return &Handler{store: store, mailer: mailer, siteURL: siteURL, log: zap.L().Named("interest")}
}

type submitRequest struct {
	Name       string   `json:"name" validate:"required,min=2,max=100"`
	Email      string   `json:"email" validate:"required,email,max=255"`
	Address    string   `json:"address" validate:"required,min=5,max=500"`
	Phone      string   `json:"phone" validate:"max=20"`
	Notes      string   `json:"notes" validate:"max=1000"`
	Source     string   `json:"source" validate:"required,oneof=address_checker tax_estimator"`
	Interested *bool    `json:"interested"`
	Latitude   *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude  *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
}

func (h *Handler) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Address = strings.TrimSpace(req.Address)
	if err := utils.Validate.Struct(req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "Invalid data provided",
			"details": utils.ValidationMessage(err),
		})
		return
	}

	ctx := r.Context()
	if _, err := h.store.FindByEmail(ctx, req.Email); err == nil {
		writeDuplicate(w)
		return
	} else if !errors.Is(err, ErrNotFound) {
		h.log.Error("lookup interested party", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to register your interest. Please try again.")
		return
	}

	token, err := utils.NewToken()
	if err != nil {
		h.log.Error("generate unsubscribe token", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to register your interest. Please try again.")
		return
	}
	party := &InterestedParty{
		Name:             req.Name,
		Email:            req.Email,
		Address:          req.Address,
		Phone:            optional(req.Phone),
		Notes:            optional(req.Notes),
		Source:           req.Source,
		Interested:       req.Interested,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		UnsubscribeToken: token,
	}
	if err := h.store.Create(ctx, party); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			writeDuplicate(w)
			return
		}
		h.log.Error("create interested party", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to register your interest. Please try again.")
		return
	}

	h.sendThankYou(context.WithoutCancel(ctx), party)

	utils.WriteJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Thank you for your interest! We'll be in touch soon.",
		"id":      party.ID,
	})
}

// sendThankYou mails the confirmation note. Failures are logged; the
// signup itself has already succeeded.
func (h *Handler) sendThankYou(ctx context.Context, p *InterestedParty) {
	if !h.mailer.Enabled() {
		return
	}
	subject, html, err := email.ThankYou(h.siteURL, p.Name, p.Address, p.UnsubscribeToken)
	if err != nil {
		h.log.Error("render thank-you", zap.Error(err))
		return
	}
	id := p.ID.String()
	_, err = h.mailer.Send(ctx, email.Outgoing{
		To:          p.Email,
		Subject:     subject,
		HTML:        html,
		RelatedType: email.RelatedInterested,
		RelatedID:   id,
	})
	if err != nil {
		h.log.Warn("thank-you email not sent", zap.String("id", id), zap.Error(err))
		return
	}
	if err := h.store.MarkEmailSent(ctx, id); err != nil {
		h.log.Warn("mark email sent", zap.String("id", id), zap.Error(err))
		return
	}
	p.EmailSent = true
}

func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.List(r.Context())
	if err != nil {
		h.log.Error("list interested parties", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to fetch interested parties")
		return
	}
	if rows == nil {
		rows = []InterestedParty{}
	}
	utils.WriteJSON(w, http.StatusOK, rows)
}

func (h *Handler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.IDParam(r)
	if !ok {
		utils.WriteError(w, http.StatusNotFound, "Interested party not found")
		return
	}
	err := h.store.Delete(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		utils.WriteError(w, http.StatusNotFound, "Interested party not found")
		return
	}
	if err != nil {
		h.log.Error("delete interested party", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to delete interested party")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func writeDuplicate(w http.ResponseWriter) {
	utils.WriteJSON(w, http.StatusConflict, map[string]string{
		"error":   "This email address has already been registered",
		"message": "Thank you! You're already on our list.",
	})
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
