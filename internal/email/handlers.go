package email

import (
	"errors"
	"net/http"
	"strings"

	"github.com/VybCoding/OneWonderLake/internal/utils"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	mailer *Mailer
	store  Store
}

func NewHandler(mailer *Mailer, store Store) *Handler {
	return &Handler{mailer: mailer, store: store}
}

func (h *Handler) ListEmailsHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.ListCorrespondence(r.Context())
	if err != nil {
		zap.L().Error("list correspondence", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to fetch emails")
		return
	}
	if rows == nil {
		rows = []EmailCorrespondence{}
	}
	utils.WriteJSON(w, http.StatusOK, rows)
}

func (h *Handler) RelatedEmailsHandler(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "type")
	if !validRelated(kind) {
		utils.WriteError(w, http.StatusBadRequest, "Invalid related type")
		return
	}
	rows, err := h.store.ListCorrespondenceByRelated(r.Context(), kind, chi.URLParam(r, "id"))
	if err != nil {
		zap.L().Error("list related correspondence", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to fetch emails")
		return
	}
	if rows == nil {
		rows = []EmailCorrespondence{}
	}
	utils.WriteJSON(w, http.StatusOK, rows)
}

type sendRequest struct {
	To          string `json:"to" validate:"required,email,max=255"`
	Subject     string `json:"subject" validate:"required,max=300"`
	HTML        string `json:"html" validate:"required"`
	Text        string `json:"text"`
	RelatedType string `json:"relatedType" validate:"omitempty,oneof=interested question contact inbound"`
	RelatedID   string `json:"relatedId"`
}

func (h *Handler) SendHandler(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.Validate.Struct(req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.ValidationMessage(err))
		return
	}

	userID, _ := utils.GetUserIDFromContext(r.Context())
	rec, err := h.mailer.Send(r.Context(), Outgoing{
		To:          req.To,
		Subject:     req.Subject,
		HTML:        req.HTML,
		Text:        req.Text,
		RelatedType: req.RelatedType,
		RelatedID:   req.RelatedID,
		SentBy:      userID,
	})
	if err != nil {
		h.writeSendError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, rec)
}

func (h *Handler) writeSendError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrDisabled):
		utils.WriteError(w, http.StatusServiceUnavailable, "Email sending is not configured")
	case errors.Is(err, ErrShutoff):
		utils.WriteError(w, http.StatusServiceUnavailable, "Email sending is paused: the monthly limit has been reached")
	default:
		zap.L().Error("send email", zap.Error(err))
		utils.WriteError(w, http.StatusBadGateway, "Failed to send email")
	}
}

func (h *Handler) InboxHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.ListInbound(r.Context())
	if err != nil {
		zap.L().Error("list inbound", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to fetch inbox")
		return
	}
	if rows == nil {
		rows = []InboundEmail{}
	}
	utils.WriteJSON(w, http.StatusOK, rows)
}

// InboxItemHandler returns one message and marks it read.
func (h *Handler) InboxItemHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.IDParam(r)
	if !ok {
		h.writeLookupError(w, ErrNotFound)
		return
	}
	msg, err := h.store.FindInbound(r.Context(), id)
	if err != nil {
		h.writeLookupError(w, err)
		return
	}
	if !msg.IsRead {
		if err := h.store.MarkInboundRead(r.Context(), id); err != nil {
			zap.L().Warn("mark inbound read", zap.String("id", id), zap.Error(err))
		} else {
			msg.IsRead = true
		}
	}
	utils.WriteJSON(w, http.StatusOK, msg)
}

type replyRequest struct {
	Subject string `json:"subject" validate:"max=300"`
	HTML    string `json:"html" validate:"required"`
	Text    string `json:"text"`
}

func (h *Handler) ReplyHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.IDParam(r)
	if !ok {
		h.writeLookupError(w, ErrNotFound)
		return
	}
	var req replyRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.Validate.Struct(req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.ValidationMessage(err))
		return
	}

	msg, err := h.store.FindInbound(r.Context(), id)
	if err != nil {
		h.writeLookupError(w, err)
		return
	}

	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		subject = replySubject(msg.Subject)
	}
	userID, _ := utils.GetUserIDFromContext(r.Context())
	rec, err := h.mailer.Send(r.Context(), Outgoing{
		To:          msg.FromEmail,
		Subject:     subject,
		HTML:        req.HTML,
		Text:        req.Text,
		RelatedType: RelatedInbound,
		RelatedID:   id,
		SentBy:      userID,
	})
	if err != nil {
		h.writeSendError(w, err)
		return
	}
	if rec.ResendEmailID != nil {
		if err := h.store.MarkInboundReplied(r.Context(), id, *rec.ResendEmailID); err != nil {
			zap.L().Warn("mark inbound replied", zap.String("id", id), zap.Error(err))
		}
	}
	utils.WriteJSON(w, http.StatusCreated, rec)
}

func replySubject(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(strings.ToLower(s), "re:") {
		return s
	}
	if s == "" {
		return "Re: your message"
	}
	return "Re: " + s
}

func (h *Handler) DeleteInboxHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.IDParam(r)
	if !ok {
		h.writeLookupError(w, ErrNotFound)
		return
	}
	if err := h.store.DeleteInbound(r.Context(), id); err != nil {
		h.writeLookupError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) UsageHandler(w http.ResponseWriter, r *http.Request) {
	u, err := h.mailer.Usage(r.Context())
	if err != nil {
		zap.L().Error("email usage", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to fetch email usage")
		return
	}
	utils.WriteJSON(w, http.StatusOK, u)
}

type shutoffRequest struct {
	IsShutoff *bool `json:"isShutoff" validate:"required"`
}

func (h *Handler) ShutoffHandler(w http.ResponseWriter, r *http.Request) {
	var req shutoffRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.Validate.Struct(req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "isShutoff is required")
		return
	}
	if err := h.mailer.SetShutoff(r.Context(), *req.IsShutoff); err != nil {
		zap.L().Error("set email shutoff", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to update email shutoff")
		return
	}
	h.UsageHandler(w, r)
}

func (h *Handler) writeLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		utils.WriteError(w, http.StatusNotFound, "Email not found")
		return
	}
	zap.L().Error("inbound lookup", zap.Error(err))
	utils.WriteError(w, http.StatusInternalServerError, "Failed to fetch email")
}

func validRelated(kind string) bool {
	switch kind {
	case RelatedInterested, RelatedQuestion, RelatedContact, RelatedInbound:
		return true
	}
	return false
}
