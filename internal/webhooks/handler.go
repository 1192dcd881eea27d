package webhooks

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/VybCoding/OneWonderLake/internal/email"
	"go.uber.org/zap"
)

// Tolerance is how far a signed timestamp may drift from the local clock.
const Tolerance = 5 * time.Minute

// Inbox stores verified inbound mail.
type Inbox interface {
	Receive(ctx context.Context, ev email.InboundEvent) (*email.InboundEmail, bool, error)
}

type Handler struct {
	secret string
	inbox  Inbox
	now    func() time.Time
}

func NewHandler(secret string, inbox Inbox) *Handler {
	return &Handler{secret: secret, inbox: inbox, now: time.Now}
}

type resendEvent struct {
	Type      string `json:"type"`
	CreatedAt string `json:"created_at"`
	Data      struct {
		EmailID   string   `json:"email_id"`
		From      string   `json:"from"`
		To        []string `json:"to"`
		Subject   string   `json:"subject"`
		HTML      string   `json:"html"`
		Text      string   `json:"text"`
		CreatedAt string   `json:"created_at"`
	} `json:"data"`
}

// ResendInboundWebhook accepts email.received events. Events of any other
// type are acknowledged and ignored.
func (h *Handler) ResendInboundWebhook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MiB
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "payload too large or unreadable", http.StatusRequestEntityTooLarge)
		return
	}
	defer r.Body.Close()

	if h.secret == "" {
		http.Error(w, "server misconfigured", http.StatusInternalServerError)
		return
	}

	id := r.Header.Get("svix-id")
	ts := r.Header.Get("svix-timestamp")
	sig := r.Header.Get("svix-signature")
	if id == "" || ts == "" || sig == "" {
		http.Error(w, "missing signature headers", http.StatusBadRequest)
		return
	}
	if !verifySvix(h.secret, id, ts, sig, raw, h.now()) {
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	var ev resendEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if ev.Type != "email.received" {
		writeOK(w, map[string]any{"ok": true, "ignored": ev.Type})
		return
	}

	received := parseTime(ev.Data.CreatedAt)
	if received.IsZero() {
		received = parseTime(ev.CreatedAt)
	}
	msg, created, err := h.inbox.Receive(r.Context(), email.InboundEvent{
		EmailID:    ev.Data.EmailID,
		From:       ev.Data.From,
		To:         ev.Data.To,
		Subject:    ev.Data.Subject,
		HTML:       ev.Data.HTML,
		Text:       ev.Data.Text,
		ReceivedAt: received,
	})
	if err != nil {
		zap.L().Named("webhooks").Error("store inbound email", zap.String("email_id", ev.Data.EmailID), zap.Error(err))
		http.Error(w, "db insert failed", http.StatusInternalServerError)
		return
	}

	writeOK(w, map[string]any{"ok": true, "id": msg.ID, "duplicate": !created})
}

// verifySvix checks a Svix-style signature: base64 HMAC-SHA256 over
// "id.timestamp.body" with the base64 secret after its "whsec_" prefix.
// The header may carry several space-separated "v1,<sig>" entries.
func verifySvix(secret, id, ts, header string, raw []byte, now time.Time) bool {
	sec, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return false
	}
	sent := time.Unix(sec, 0)
	if now.Sub(sent) > Tolerance || sent.Sub(now) > Tolerance {
		return false
	}

	key, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, "whsec_"))
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(id + "." + ts + "."))
	mac.Write(raw)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	for _, part := range strings.Fields(header) {
		version, sig, ok := strings.Cut(part, ",")
		if !ok || version != "v1" {
			continue
		}
		if hmac.Equal([]byte(sig), []byte(expected)) {
			return true
		}
	}
	return false
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999-07", "2006-01-02 15:04:05.999999+00"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func writeOK(w http.ResponseWriter, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(body)
}
