package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/VybCoding/OneWonderLake/internal/utils"
	"go.uber.org/zap"
)

type window struct {
	count int
	start time.Time
}

// SubmissionLimiter caps form submissions per client IP in fixed windows.
// A window opens on the first submission and resets once it is older than
// the configured length.
type SubmissionLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	clients map[string]*window
	now     func() time.Time
}

func NewSubmissionLimiter(limit int, length time.Duration) *SubmissionLimiter {
	return &SubmissionLimiter{
		limit:   limit,
		window:  length,
		clients: map[string]*window{},
		now:     time.Now,
	}
}

// Allow records a submission for key and reports whether it is within the
// limit. Rejected attempts do not extend the window.
func (l *SubmissionLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.clients[key]
	if !ok || now.Sub(w.start) > l.window {
		l.clients[key] = &window{count: 1, start: now}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// Sweep drops windows that have already expired.
func (l *SubmissionLimiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	for k, w := range l.clients {
		if now.Sub(w.start) > l.window {
			delete(l.clients, k)
		}
	}
}

// Middleware rejects over-limit requests with 429.
func (l *SubmissionLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := ClientIP(r)
		if !l.Allow(ip) {
			zap.L().Named("middleware").Info("submission rate limited",
				zap.String("ip", ip), zap.String("path", r.URL.Path))
			w.Header().Set("Retry-After", strconv.Itoa(int(l.window.Seconds())))
			utils.WriteJSON(w, http.StatusTooManyRequests, map[string]string{
				"error":   "Too many submissions. Please try again later.",
				"message": "For security purposes, we limit submissions to " + strconv.Itoa(l.limit) + " per " + windowLabel(l.window) + ".",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func windowLabel(d time.Duration) string {
	switch d {
	case time.Hour:
		return "hour"
	case time.Minute:
		return "minute"
	case 24 * time.Hour:
		return "day"
	}
	return d.String()
}

// ClientIP is the first X-Forwarded-For hop, else the RemoteAddr host.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ip := strings.TrimSpace(strings.SplitN(xff, ",", 2)[0])
		if ip != "" {
			return ip
		}
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
