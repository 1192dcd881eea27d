package email

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	DirectionOutbound = "outbound"
	DirectionInbound  = "inbound"

	StatusSent   = "sent"
	StatusFailed = "failed"
)

// Related record kinds an outbound email can be filed under.
const (
	RelatedInterested = "interested"
	RelatedQuestion   = "question"
	RelatedContact    = "contact"
	RelatedInbound    = "inbound"
)

// EmailCorrespondence is one outbound message, successful or not.
type EmailCorrespondence struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Direction     string    `gorm:"not null;default:'outbound'" json:"direction"`
	FromEmail     string    `gorm:"not null" json:"fromEmail"`
	ToEmail       string    `gorm:"not null;index" json:"toEmail"`
	Subject       string    `gorm:"not null" json:"subject"`
	HTMLBody      string    `gorm:"type:text" json:"htmlBody"`
	TextBody      string    `gorm:"type:text" json:"textBody"`
	Status        string    `gorm:"not null" json:"status"`
	Error         *string   `json:"error,omitempty"`
	ResendEmailID *string   `gorm:"index" json:"resendEmailId,omitempty"`
	RelatedType   *string   `gorm:"index:idx_email_related" json:"relatedType,omitempty"`
	RelatedID     *string   `gorm:"index:idx_email_related" json:"relatedId,omitempty"`
	SentBy        *string   `json:"sentBy,omitempty"`
	CreatedAt     time.Time `gorm:"index" json:"createdAt"`
}

func (EmailCorrespondence) TableName() string { return "mail.email_correspondence" }

type InboundEmail struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	ResendEmailID string         `gorm:"not null;uniqueIndex" json:"resendEmailId"`
	FromEmail     string         `gorm:"not null" json:"fromEmail"`
	FromName      string         `json:"fromName,omitempty"`
	To            pq.StringArray `gorm:"type:text[]" json:"to"`
	Subject       string         `json:"subject"`
	HTMLBody      string         `gorm:"type:text" json:"htmlBody"`
	TextBody      string         `gorm:"type:text" json:"textBody"`
	IsRead        bool           `gorm:"not null;default:false" json:"isRead"`
	IsReplied     bool           `gorm:"not null;default:false" json:"isReplied"`
	ReplyEmailID  *string        `json:"replyEmailId,omitempty"`
	ReceivedAt    time.Time      `gorm:"not null;index" json:"receivedAt"`
}

func (InboundEmail) TableName() string { return "mail.inbound_emails" }

// EmailUsage counts traffic for one calendar month ("2006-01").
type EmailUsage struct {
	Month         string    `gorm:"primaryKey" json:"month"`
	SentCount     int       `gorm:"not null;default:0" json:"sentCount"`
	ReceivedCount int       `gorm:"not null;default:0" json:"receivedCount"`
	IsShutoff     bool      `gorm:"not null;default:false" json:"isShutoff"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (EmailUsage) TableName() string { return "mail.email_usage" }
