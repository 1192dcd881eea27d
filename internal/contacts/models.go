package contacts

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Contact is an entry in the admin address book: local officials,
// volunteers, neighbours who reached out outside the web forms.
type Contact struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"not null;uniqueIndex" json:"email"`
	Phone        *string        `json:"phone"`
	Address      *string        `json:"address"`
	Organization *string        `json:"organization"`
	Notes        *string        `gorm:"type:text" json:"notes"`
	Tags         pq.StringArray `gorm:"type:text[]" json:"tags"`
	CreatedAt    time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

func (Contact) TableName() string { return "outreach.contacts" }
