package interest

import (
	"time"

	"github.com/google/uuid"
)

const (
	SourceAddressChecker = "address_checker"
	SourceTaxEstimator   = "tax_estimator"
)

// InterestedParty is a resident who asked to be contacted about annexation.
type InterestedParty struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Name             string    `gorm:"not null" json:"name"`
	Email            string    `gorm:"not null;uniqueIndex" json:"email"`
	Address          string    `gorm:"not null" json:"address"`
	Phone            *string   `json:"phone"`
	Notes            *string   `gorm:"type:text" json:"notes"`
	Source           string    `gorm:"not null" json:"source"`
	Interested       *bool     `json:"interested"`
	Latitude         *float64  `json:"latitude,omitempty"`
	Longitude        *float64  `json:"longitude,omitempty"`
	EmailSent        bool      `gorm:"not null;default:false" json:"emailSent"`
	UnsubscribeToken string    `gorm:"not null;uniqueIndex" json:"-"`
	Unsubscribed     bool      `gorm:"not null;default:false" json:"unsubscribed"`
	CreatedAt        time.Time `gorm:"index" json:"createdAt"`
}

func (InterestedParty) TableName() string { return "outreach.interested_parties" }
