package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sony/gobreaker/v2"
)

// Message is one outbound email as the provider sees it.
type Message struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

// RemoteEmail is the provider's copy of a stored message.
type RemoteEmail struct {
	ID        string   `json:"id"`
	From      string   `json:"from"`
	To        []string `json:"to"`
	Subject   string   `json:"subject"`
	HTML      string   `json:"html"`
	Text      string   `json:"text"`
	CreatedAt string   `json:"created_at"`
}

// APIError is a non-2xx answer from the provider.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("resend: HTTP %d", e.Status)
	}
	return fmt.Sprintf("resend: HTTP %d: %s", e.Status, e.Message)
}

// retryable reports whether the failure says something about the provider's
// health rather than about our request.
func (e *APIError) retryable() bool {
	return e.Status >= 500 || e.Status == http.StatusTooManyRequests
}

// ResendClient talks to the Resend HTTP API through a circuit breaker so a
// provider outage fails fast instead of stalling every submission.
type ResendClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
}

func NewResendClient(baseURL, apiKey string, timeout time.Duration) *ResendClient {
	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "resend",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		IsSuccessful: func(err error) bool {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return !apiErr.retryable()
			}
			return err == nil
		},
	})
	return &ResendClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		breaker: cb,
	}
}

// Send delivers m and returns the provider's message id.
func (c *ResendClient) Send(ctx context.Context, m Message) (string, error) {
	body, err := json.Marshal(m)
	if err != nil {
		return "", eris.Wrap(err, "resend: encode message")
	}
	raw, err := c.do(ctx, http.MethodPost, "/emails", body)
	if err != nil {
		return "", err
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", eris.Wrap(err, "resend: decode send response")
	}
	return out.ID, nil
}

// GetEmail fetches a stored message, including its body.
func (c *ResendClient) GetEmail(ctx context.Context, id string) (*RemoteEmail, error) {
	raw, err := c.do(ctx, http.MethodGet, "/emails/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	var out RemoteEmail
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, eris.Wrap(err, "resend: decode email")
	}
	return &out, nil
}

func (c *ResendClient) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	return c.breaker.Execute(func() ([]byte, error) {
		var rd io.Reader
		if body != nil {
			rd = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
		if err != nil {
			return nil, eris.Wrap(err, "resend: build request")
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, eris.Wrapf(err, "resend: %s %s", method, path)
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
		if err != nil {
			return nil, eris.Wrap(err, "resend: read response")
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			apiErr := &APIError{Status: resp.StatusCode}
			var msg struct {
				Message string `json:"message"`
			}
			if json.Unmarshal(raw, &msg) == nil {
				apiErr.Message = msg.Message
			}
			return nil, apiErr
		}
		return raw, nil
	})
}
