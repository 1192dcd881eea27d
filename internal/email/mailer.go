package email

import (
	"context"
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/VybCoding/OneWonderLake/internal/config"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

var (
	ErrDisabled = errors.New("email: sending is not configured")
	ErrShutoff  = errors.New("email: monthly sending limit reached")
)

// Sender delivers outbound messages.
type Sender interface {
	Send(ctx context.Context, m Message) (string, error)
}

// Fetcher retrieves a stored message body by provider id.
type Fetcher interface {
	GetEmail(ctx context.Context, id string) (*RemoteEmail, error)
}

// Outgoing is a message to send plus the record it belongs to.
type Outgoing struct {
	To          string
	Subject     string
	HTML        string
	Text        string
	RelatedType string
	RelatedID   string
	SentBy      string
}

// Mailer sends mail within the monthly budget and keeps the paper trail.
// Sending stops for the rest of the month once the shutoff threshold is
// reached or an admin flips the switch.
type Mailer struct {
	sender    Sender
	fetcher   Fetcher
	store     Store
	from      string
	limit     int
	threshold int
	now       func() time.Time
	log       *zap.Logger
}

// NewMailer builds a mailer. sender and fetcher may be nil when no provider
// is configured; Send then returns ErrDisabled.
func NewMailer(cfg config.EmailConfig, sender Sender, fetcher Fetcher, store Store) *Mailer {
	return &Mailer{
		sender:    sender,
		fetcher:   fetcher,
		store:     store,
		from:      cfg.From,
		limit:     cfg.MonthlyLimit,
		threshold: cfg.ShutoffThreshold,
		now:       time.Now,
		log:       zap.L().Named("email"),
	}
}

func (m *Mailer) Enabled() bool { return m != nil && m.sender != nil }

func (m *Mailer) month() string { return m.now().UTC().Format("2006-01") }

// Send delivers o and records the attempt. A failed delivery is recorded with
// status failed and its error returned.
func (m *Mailer) Send(ctx context.Context, o Outgoing) (*EmailCorrespondence, error) {
	if !m.Enabled() {
		return nil, ErrDisabled
	}
	month := m.month()
	usage, err := m.store.GetUsage(ctx, month)
	if err != nil {
		return nil, err
	}
	if usage.IsShutoff || usage.SentCount >= m.threshold {
		sendsTotal.WithLabelValues("shutoff").Inc()
		return nil, ErrShutoff
	}

	text := o.Text
	if text == "" {
		text = StripTags(o.HTML)
	}
	rec := &EmailCorrespondence{
		Direction:   DirectionOutbound,
		FromEmail:   m.from,
		ToEmail:     o.To,
		Subject:     o.Subject,
		HTMLBody:    o.HTML,
		TextBody:    text,
		RelatedType: optional(o.RelatedType),
		RelatedID:   optional(o.RelatedID),
		SentBy:      optional(o.SentBy),
	}

	id, sendErr := m.sender.Send(ctx, Message{
		From:    m.from,
		To:      []string{o.To},
		Subject: o.Subject,
		HTML:    o.HTML,
		Text:    text,
	})
	if sendErr != nil {
		sendsTotal.WithLabelValues("failed").Inc()
		rec.Status = StatusFailed
		msg := sendErr.Error()
		rec.Error = &msg
		if err := m.store.CreateCorrespondence(ctx, rec); err != nil {
			m.log.Warn("failed to record failed email", zap.Error(err))
		}
		return rec, eris.Wrap(sendErr, "email: send")
	}

	sendsTotal.WithLabelValues("sent").Inc()
	rec.Status = StatusSent
	rec.ResendEmailID = &id
	if err := m.store.CreateCorrespondence(ctx, rec); err != nil {
		m.log.Warn("failed to record sent email", zap.String("resend_id", id), zap.Error(err))
	}

	usage, err = m.store.IncrementSent(ctx, month)
	if err != nil {
		m.log.Warn("failed to count sent email", zap.Error(err))
		return rec, nil
	}
	if usage.SentCount >= m.threshold && !usage.IsShutoff {
		m.log.Warn("email shutoff threshold reached",
			zap.String("month", month),
			zap.Int("sent", usage.SentCount),
			zap.Int("threshold", m.threshold))
		if err := m.store.SetShutoff(ctx, month, true); err != nil {
			m.log.Error("failed to set email shutoff", zap.Error(err))
		}
	}
	return rec, nil
}

// InboundEvent is a received message as reported by the provider webhook.
type InboundEvent struct {
	EmailID    string
	From       string
	To         []string
	Subject    string
	HTML       string
	Text       string
	ReceivedAt time.Time
}

// Receive stores an inbound message once per provider id. The second return
// is false when the message had already been stored.
func (m *Mailer) Receive(ctx context.Context, ev InboundEvent) (*InboundEmail, bool, error) {
	if ev.EmailID == "" {
		return nil, false, eris.New("email: inbound event without id")
	}
	existing, err := m.store.FindInboundByResendID(ctx, ev.EmailID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	if ev.HTML == "" && ev.Text == "" && m.fetcher != nil {
		remote, err := m.fetcher.GetEmail(ctx, ev.EmailID)
		if err != nil {
			m.log.Warn("failed to fetch inbound body", zap.String("resend_id", ev.EmailID), zap.Error(err))
		} else {
			ev.HTML, ev.Text = remote.HTML, remote.Text
			if ev.Subject == "" {
				ev.Subject = remote.Subject
			}
		}
	}

	name, addr := splitAddress(ev.From)
	received := ev.ReceivedAt
	if received.IsZero() {
		received = m.now()
	}
	in := &InboundEmail{
		ResendEmailID: ev.EmailID,
		FromEmail:     addr,
		FromName:      name,
		To:            ev.To,
		Subject:       ev.Subject,
		HTMLBody:      ev.HTML,
		TextBody:      ev.Text,
		ReceivedAt:    received,
	}
	if err := m.store.CreateInbound(ctx, in); err != nil {
		return nil, false, err
	}
	if _, err := m.store.IncrementReceived(ctx, m.month()); err != nil {
		m.log.Warn("failed to count received email", zap.Error(err))
	}
	return in, true, nil
}

// Usage reports this month's counters alongside the configured limits.
type Usage struct {
	EmailUsage
	MonthlyLimit         int `json:"monthlyLimit"`
	AutoShutoffThreshold int `json:"autoShutoffThreshold"`
	Remaining            int `json:"remaining"`
}

func (m *Mailer) Usage(ctx context.Context) (*Usage, error) {
	u, err := m.store.GetUsage(ctx, m.month())
	if err != nil {
		return nil, err
	}
	remaining := m.threshold - u.SentCount
	if remaining < 0 || u.IsShutoff {
		remaining = 0
	}
	return &Usage{
		EmailUsage:           *u,
		MonthlyLimit:         m.limit,
		AutoShutoffThreshold: m.threshold,
		Remaining:            remaining,
	}, nil
}

func (m *Mailer) SetShutoff(ctx context.Context, shutoff bool) error {
	return m.store.SetShutoff(ctx, m.month(), shutoff)
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// StripTags is the plain-text fallback for an HTML body.
func StripTags(html string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(html, ""))
}

// splitAddress parses "Jane Doe <jane@example.com>". Unparseable input is
// kept whole as the address.
func splitAddress(s string) (name, addr string) {
	a, err := mail.ParseAddress(s)
	if err != nil {
		return "", strings.TrimSpace(s)
	}
	return a.Name, a.Address
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
