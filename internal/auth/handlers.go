package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/VybCoding/OneWonderLake/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const cookieName = "session_id"

type Handler struct {
	store        Store
	ttl          time.Duration
	cookieSecure bool
}

func NewHandler(store Store, ttl time.Duration, cookieSecure bool) *Handler {
	return &Handler{store: store, ttl: ttl, cookieSecure: cookieSecure}
}

func (h *Handler) sessionCookie(value string, maxAge int) *http.Cookie {
	c := &http.Cookie{
		Name:     cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.cookieSecure,
	}
	// Cross-site admin frontends need None, which browsers only accept
	// alongside Secure.
	if h.cookieSecure {
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
	IsAdmin  bool   `json:"isAdmin"`
}

func toResponse(u *User) userResponse {
	return userResponse{
		UserID:   u.UserID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
		IsAdmin:  u.IsAdmin(),
	}
}

func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		http.Error(w, "Invalid Data", http.StatusBadRequest)
		return
	}
	if err := utils.Validate.Struct(req); err != nil {
		http.Error(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.store.FindUserByUsername(r.Context(), req.Username)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			zap.L().Error("login lookup failed", zap.Error(err))
		}
		http.Error(w, "Invalid Credentials", http.StatusUnauthorized)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		http.Error(w, "Invalid Credentials", http.StatusUnauthorized)
		return
	}

	sess := newSession(user.UserID, h.ttl)
	if err := h.store.PutSession(r.Context(), sess); err != nil {
		zap.L().Error("failed to store session", zap.String("user_id", user.UserID), zap.Error(err))
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, h.sessionCookie(sess.SessionID, int(h.ttl.Seconds())))
	utils.WriteJSON(w, http.StatusOK, toResponse(user))
}

func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		http.Error(w, "Couldn't find cookie", http.StatusUnauthorized)
		return
	}

	if err := h.store.DeleteSession(r.Context(), cookie.Value); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "Couldn't find session", http.StatusUnauthorized)
			return
		}
		zap.L().Error("failed to delete session", zap.Error(err))
		http.Error(w, "Failed to log out", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, h.sessionCookie("", -1))
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

// MeHandler runs behind SessionMiddleware.
func (h *Handler) MeHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	utils.WriteJSON(w, http.StatusOK, toResponse(user))
}

// AdminCheckHandler answers whether the signed-in user is an admin. It does
// not require the admin role itself.
func (h *Handler) AdminCheckHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]bool{"isAdmin": user.IsAdmin()})
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

func (h *Handler) UpdatePasswordHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req updatePasswordRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		http.Error(w, "Current and new password are required", http.StatusBadRequest)
		return
	}
	if err := utils.Validate.Struct(req); err != nil {
		http.Error(w, utils.ValidationMessage(err), http.StatusBadRequest)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.CurrentPassword)); err != nil {
		http.Error(w, "Invalid current password", http.StatusUnauthorized)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Server error hashing password", http.StatusInternalServerError)
		return
	}
	if err := h.store.UpdatePassword(r.Context(), user.UserID, string(hashed)); err != nil {
		zap.L().Error("failed to update password", zap.Error(err))
		http.Error(w, "Failed to update password", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Password updated"})
}

func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) (*User, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing user ID in context", http.StatusUnauthorized)
		return nil, false
	}
	user, err := h.store.FindUserByID(r.Context(), userID)
	if err != nil {
		http.Error(w, "Couldn't find user", http.StatusNotFound)
		return nil, false
	}
	return user, true
}
