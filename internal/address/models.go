package address

import (
	"time"

	"github.com/google/uuid"
)

// SearchedAddress is a write-only analytics row, one per finished address
// check. Nothing in the classification path ever reads it back.
type SearchedAddress struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Address          string    `gorm:"not null" json:"address"`
	Result           string    `gorm:"not null;index" json:"result"`
	MunicipalityName *string   `json:"municipalityName"`
	Latitude         *float64  `json:"latitude"`
	Longitude        *float64  `json:"longitude"`
	CreatedAt        time.Time `gorm:"index" json:"createdAt"`
}

func (SearchedAddress) TableName() string { return "outreach.searched_addresses" }
