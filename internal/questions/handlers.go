package questions

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/VybCoding/OneWonderLake/internal/email"
	"github.com/VybCoding/OneWonderLake/internal/utils"
	"go.uber.org/zap"
)

type Handler struct {
	store   Store
	mailer  *email.Mailer
	siteURL string
	now     func() time.Time
	log     *zap.Logger
}

func NewHandler(store Store, mailer *email.Mailer, siteURL string) *Handler {
	return &Handler{
		store:   store,
		mailer:  mailer,
		siteURL: siteURL,
		now:     time.Now,
		log:     zap.L().Named("questions"),
	}
}

type submitRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Address  string `json:"address" validate:"max=500"`
	Phone    string `json:"phone" validate:"max=20"`
	Question string `json:"question" validate:"required,min=10,max=2000"`
	Category string `json:"category" validate:"omitempty,oneof=general taxes property_rights services"`
}

func (h *Handler) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Question = strings.TrimSpace(req.Question)
	if err := utils.Validate.Struct(req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "Invalid data provided",
			"details": utils.ValidationMessage(err),
		})
		return
	}
	if req.Category == "" {
		req.Category = CategoryGeneral
	}

	token, err := utils.NewToken()
	if err != nil {
		h.log.Error("generate unsubscribe token", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to submit your question. Please try again.")
		return
	}
	q := &CommunityQuestion{
		Name:             req.Name,
		Email:            req.Email,
		Address:          optional(req.Address),
		Phone:            optional(req.Phone),
		Question:         req.Question,
		Category:         req.Category,
		Status:           StatusPending,
		UnsubscribeToken: token,
	}
	if err := h.store.CreateQuestion(r.Context(), q); err != nil {
		h.log.Error("create question", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to submit your question. Please try again.")
		return
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Thank you for your question! We'll get back to you soon.",
		"id":      q.ID,
	})
}

func (h *Handler) ListFaqsHandler(w http.ResponseWriter, r *http.Request) {
	faqs, err := h.store.ListFaqs(r.Context())
	if err != nil {
		h.log.Error("list faqs", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to fetch FAQs")
		return
	}
	if faqs == nil {
		faqs = []DynamicFaq{}
	}
	utils.WriteJSON(w, http.StatusOK, faqs)
}

func (h *Handler) SearchFaqsHandler(w http.ResponseWriter, r *http.Request) {
	faqs, err := h.store.ListFaqs(r.Context())
	if err != nil {
		h.log.Error("search faqs", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to search FAQs")
		return
	}
	utils.WriteJSON(w, http.StatusOK, Search(faqs, r.URL.Query().Get("q")))
}

func (h *Handler) ViewFaqHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.IDParam(r)
	if !ok {
		utils.WriteError(w, http.StatusNotFound, "FAQ not found")
		return
	}
	if err := h.store.IncrementFaqView(r.Context(), id); err != nil {
		h.log.Error("increment faq view", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to update view count")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) ListQuestionsHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.ListQuestions(r.Context())
	if err != nil {
		h.log.Error("list questions", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to fetch questions")
		return
	}
	if rows == nil {
		rows = []CommunityQuestion{}
	}
	utils.WriteJSON(w, http.StatusOK, rows)
}

type answerRequest struct {
	Answer         string `json:"answer"`
	EditedQuestion string `json:"editedQuestion"`
	EditedCategory string `json:"editedCategory"`
	Notify         bool   `json:"notify"`
}

// AnswerHandler stores an answer. With notify set, the asker is emailed
// unless they have unsubscribed.
func (h *Handler) AnswerHandler(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(strings.TrimSpace(req.Answer)) < 10 {
		utils.WriteError(w, http.StatusBadRequest, "Answer must be at least 10 characters")
		return
	}

	id, ok := utils.IDParam(r)
	if !ok {
		utils.WriteError(w, http.StatusNotFound, "Question not found")
		return
	}
	q, err := h.store.AnswerQuestion(r.Context(), id, AnswerUpdate{
		Answer:   req.Answer,
		Question: req.EditedQuestion,
		Category: req.EditedCategory,
		At:       h.now(),
	})
	if errors.Is(err, ErrNotFound) {
		utils.WriteError(w, http.StatusNotFound, "Question not found")
		return
	}
	if err != nil {
		h.log.Error("answer question", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to answer question")
		return
	}

	if req.Notify {
		userID, _ := utils.GetUserIDFromContext(r.Context())
		h.notify(context.WithoutCancel(r.Context()), q, userID)
	}
	utils.WriteJSON(w, http.StatusOK, q)
}

func (h *Handler) notify(ctx context.Context, q *CommunityQuestion, sentBy string) {
	if q.Unsubscribed || q.Answer == nil || !h.mailer.Enabled() {
		return
	}
	subject, html, err := email.AnswerNotice(h.siteURL, q.Name, q.Question, *q.Answer, q.UnsubscribeToken)
	if err != nil {
		h.log.Error("render answer notice", zap.Error(err))
		return
	}
	_, err = h.mailer.Send(ctx, email.Outgoing{
		To:          q.Email,
		Subject:     subject,
		HTML:        html,
		RelatedType: email.RelatedQuestion,
		RelatedID:   q.ID.String(),
		SentBy:      sentBy,
	})
	if err != nil {
		h.log.Warn("answer notice not sent", zap.String("id", q.ID.String()), zap.Error(err))
	}
}

func (h *Handler) PublishHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.IDParam(r)
	if !ok {
		utils.WriteError(w, http.StatusNotFound, "Question not found")
		return
	}
	faq, err := h.store.PublishQuestion(r.Context(), id)
	switch {
	case errors.Is(err, ErrNotFound):
		utils.WriteError(w, http.StatusNotFound, "Question not found")
	case errors.Is(err, ErrNotAnswered):
		utils.WriteError(w, http.StatusBadRequest, "Question must be answered before publishing")
	case errors.Is(err, ErrAlreadyPublished):
		utils.WriteError(w, http.StatusConflict, "Question has already been published")
	case err != nil:
		h.log.Error("publish question", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to publish to FAQ")
	default:
		utils.WriteJSON(w, http.StatusOK, faq)
	}
}

func (h *Handler) DeleteQuestionHandler(w http.ResponseWriter, r *http.Request) {
	h.writeDelete(w, withID(r, func(id string) error {
		return h.store.DeleteQuestion(r.Context(), id)
	}), "Question not found", "Failed to delete question")
}

type faqRequest struct {
	Question string   `json:"question" validate:"required,min=5,max=2000"`
	Answer   string   `json:"answer" validate:"required,min=10"`
	Category string   `json:"category" validate:"omitempty,oneof=general taxes property_rights services"`
	Keywords []string `json:"keywords" validate:"max=30,dive,max=50"`
}

func (h *Handler) CreateFaqHandler(w http.ResponseWriter, r *http.Request) {
	var req faqRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Question = strings.TrimSpace(req.Question)
	if err := utils.Validate.Struct(req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "Invalid data provided",
			"details": utils.ValidationMessage(err),
		})
		return
	}

	faq := &DynamicFaq{
		Question: req.Question,
		Answer:   req.Answer,
		Category: req.Category,
		IsNew:    true,
		Keywords: req.Keywords,
	}
	if faq.Category == "" {
		faq.Category = CategoryGeneral
	}
	if len(faq.Keywords) == 0 {
		faq.Keywords = Keywords(req.Question)
	}
	if err := h.store.CreateFaq(r.Context(), faq); err != nil {
		h.log.Error("create faq", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to create FAQ")
		return
	}
	utils.WriteJSON(w, http.StatusCreated, faq)
}

func (h *Handler) DeleteFaqHandler(w http.ResponseWriter, r *http.Request) {
	h.writeDelete(w, withID(r, func(id string) error {
		return h.store.DeleteFaq(r.Context(), id)
	}), "FAQ not found", "Failed to delete FAQ")
}

func (h *Handler) MarkFaqNotNewHandler(w http.ResponseWriter, r *http.Request) {
	h.writeDelete(w, withID(r, func(id string) error {
		return h.store.MarkFaqNotNew(r.Context(), id)
	}), "FAQ not found", "Failed to update FAQ")
}

// withID calls fn with the {id} path parameter. Ids that are not UUIDs
// cannot match a row and report ErrNotFound without a query.
func withID(r *http.Request, fn func(id string) error) error {
	id, ok := utils.IDParam(r)
	if !ok {
		return ErrNotFound
	}
	return fn(id)
}

// writeDelete answers the admin endpoints that return {"success":true}.
func (h *Handler) writeDelete(w http.ResponseWriter, err error, missing, failed string) {
	if errors.Is(err, ErrNotFound) {
		utils.WriteError(w, http.StatusNotFound, missing)
		return
	}
	if err != nil {
		h.log.Error(failed, zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, failed)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
