package interest

import (
	"context"
	"net/http"

	"github.com/VybCoding/OneWonderLake/internal/utils"
	"go.uber.org/zap"
)

// Subscriptions is implemented by every store whose rows carry an
// unsubscribe token. FindSubscriber returns nil for an unknown token.
type Subscriptions interface {
	FindSubscriber(ctx context.Context, token string) (*utils.Subscriber, error)
	Unsubscribe(ctx context.Context, token string) (bool, error)
}

const (
	KindInterested = "interested"
	KindQuestion   = "question"
)

// Unsubscribe serves both unsubscribe endpoints. Token kinds map to the
// store that owns them.
type Unsubscribe struct {
	kinds map[string]Subscriptions
}

func NewUnsubscribe(interested, questions Subscriptions) *Unsubscribe {
	return &Unsubscribe{kinds: map[string]Subscriptions{
		KindInterested: interested,
		KindQuestion:   questions,
	}}
}

type unsubscribeRequest struct {
	Token string `json:"token"`
	Type  string `json:"type"`
}

func (u *Unsubscribe) UnsubscribeHandler(w http.ResponseWriter, r *http.Request) {
	var req unsubscribeRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil || req.Token == "" {
		utils.WriteError(w, http.StatusBadRequest, "Invalid unsubscribe token")
		return
	}
	subs, ok := u.kinds[req.Type]
	if !ok || subs == nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid unsubscribe type")
		return
	}

	done, err := subs.Unsubscribe(r.Context(), req.Token)
	if err != nil {
		zap.L().Error("unsubscribe", zap.String("type", req.Type), zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to process unsubscribe request")
		return
	}
	if !done {
		utils.WriteJSON(w, http.StatusNotFound, map[string]string{
			"error":   "Subscription not found",
			"message": "This unsubscribe link may have already been used or is invalid.",
		})
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "You have been successfully unsubscribed from our communications.",
	})
}

// ValidateHandler checks a token without unsubscribing, so the landing page
// can show which address it applies to.
func (u *Unsubscribe) ValidateHandler(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	kind := r.URL.Query().Get("type")
	if token == "" {
		utils.WriteJSON(w, http.StatusBadRequest, map[string]any{"valid": false, "error": "Invalid token"})
		return
	}
	subs, ok := u.kinds[kind]
	if !ok || subs == nil {
		utils.WriteJSON(w, http.StatusBadRequest, map[string]any{"valid": false, "error": "Invalid type"})
		return
	}

	sub, err := subs.FindSubscriber(r.Context(), token)
	if err != nil {
		zap.L().Error("validate unsubscribe token", zap.String("type", kind), zap.Error(err))
		utils.WriteJSON(w, http.StatusInternalServerError, map[string]any{"valid": false, "error": "Failed to validate token"})
		return
	}
	if sub == nil {
		utils.WriteJSON(w, http.StatusOK, map[string]any{"valid": false, "alreadyUnsubscribed": false})
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"valid":               true,
		"alreadyUnsubscribed": sub.Unsubscribed,
		"email":               utils.MaskEmail(sub.Email),
	})
}
