package contacts

import (
	"errors"
	"net/http"
	"strings"

	"github.com/VybCoding/OneWonderLake/internal/utils"
	"go.uber.org/zap"
)

type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

type contactRequest struct {
	Name         string   `json:"name" validate:"required,max=200"`
	Email        string   `json:"email" validate:"required,email,max=255"`
	Phone        string   `json:"phone" validate:"max=30"`
	Address      string   `json:"address" validate:"max=500"`
	Organization string   `json:"organization" validate:"max=200"`
	Notes        string   `json:"notes" validate:"max=5000"`
	Tags         []string `json:"tags" validate:"max=20,dive,required,max=50"`
}

// updateRequest is a partial update; absent fields are left alone and an
// empty string clears an optional field.
type updateRequest struct {
	Name         *string   `json:"name" validate:"omitempty,max=200"`
	Email        *string   `json:"email" validate:"omitempty,email,max=255"`
	Phone        *string   `json:"phone" validate:"omitempty,max=30"`
	Address      *string   `json:"address" validate:"omitempty,max=500"`
	Organization *string   `json:"organization" validate:"omitempty,max=200"`
	Notes        *string   `json:"notes" validate:"omitempty,max=5000"`
	Tags         *[]string `json:"tags" validate:"omitempty,max=20,dive,required,max=50"`
}

func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.List(r.Context())
	if err != nil {
		zap.L().Error("list contacts", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to fetch contacts")
		return
	}
	if rows == nil {
		rows = []Contact{}
	}
	utils.WriteJSON(w, http.StatusOK, rows)
}

func (h *Handler) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.IDParam(r)
	if !ok {
		writeStoreError(w, ErrNotFound, "")
		return
	}
	c, err := h.store.Find(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "Failed to fetch contact")
		return
	}
	utils.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := utils.Validate.Struct(req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.ValidationMessage(err))
		return
	}

	c := &Contact{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        optional(req.Phone),
		Address:      optional(req.Address),
		Organization: optional(req.Organization),
		Notes:        optional(req.Notes),
		Tags:         req.Tags,
	}
	if err := h.store.Create(r.Context(), c); err != nil {
		writeStoreError(w, err, "Failed to create contact")
		return
	}
	utils.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.Validate.Struct(req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.ValidationMessage(err))
		return
	}
	if blank(req.Name) || blank(req.Email) {
		utils.WriteError(w, http.StatusBadRequest, "name and email cannot be empty")
		return
	}

	id, ok := utils.IDParam(r)
	if !ok {
		writeStoreError(w, ErrNotFound, "")
		return
	}
	c, err := h.store.Find(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "Failed to fetch contact")
		return
	}
	req.apply(c)
	if err := h.store.Save(r.Context(), c); err != nil {
		writeStoreError(w, err, "Failed to update contact")
		return
	}
	utils.WriteJSON(w, http.StatusOK, c)
}

func (req updateRequest) apply(c *Contact) {
	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		c.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		c.Phone = optional(*req.Phone)
	}
	if req.Address != nil {
		c.Address = optional(*req.Address)
	}
	if req.Organization != nil {
		c.Organization = optional(*req.Organization)
	}
	if req.Notes != nil {
		c.Notes = optional(*req.Notes)
	}
	if req.Tags != nil {
		c.Tags = *req.Tags
	}
}

func (h *Handler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.IDParam(r)
	if !ok {
		writeStoreError(w, ErrNotFound, "")
		return
	}
	if err := h.store.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err, "Failed to delete contact")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func writeStoreError(w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, ErrNotFound):
		utils.WriteError(w, http.StatusNotFound, "Contact not found")
	case errors.Is(err, ErrDuplicateEmail):
		utils.WriteError(w, http.StatusConflict, "A contact with this email already exists")
	default:
		zap.L().Error(msg, zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, msg)
	}
}

func blank(s *string) bool {
	return s != nil && strings.TrimSpace(*s) == ""
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
