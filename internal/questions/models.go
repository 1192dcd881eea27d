package questions

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	CategoryGeneral        = "general"
	CategoryTaxes          = "taxes"
	CategoryPropertyRights = "property_rights"
	CategoryServices       = "services"

	StatusPending   = "pending"
	StatusAnswered  = "answered"
	StatusPublished = "published"
)

func ValidCategory(c string) bool {
	switch c {
	case CategoryGeneral, CategoryTaxes, CategoryPropertyRights, CategoryServices:
		return true
	}
	return false
}

type CommunityQuestion struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Name             string     `gorm:"not null" json:"name"`
	Email            string     `gorm:"not null;index" json:"email"`
	Address          *string    `json:"address"`
	Phone            *string    `json:"phone"`
	Question         string     `gorm:"type:text;not null" json:"question"`
	Category         string     `gorm:"not null;default:'general'" json:"category"`
	Status           string     `gorm:"not null;default:'pending';index" json:"status"`
	Answer           *string    `gorm:"type:text" json:"answer"`
	AnsweredAt       *time.Time `json:"answeredAt"`
	UnsubscribeToken string     `gorm:"not null;uniqueIndex" json:"-"`
	Unsubscribed     bool       `gorm:"not null;default:false" json:"unsubscribed"`
	CreatedAt        time.Time  `gorm:"index" json:"createdAt"`
}

func (CommunityQuestion) TableName() string { return "outreach.community_questions" }

// DynamicFaq is a published answer, either written directly by an admin or
// promoted from a community question.
type DynamicFaq struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Question         string         `gorm:"type:text;not null" json:"question"`
	Answer           string         `gorm:"type:text;not null" json:"answer"`
	Category         string         `gorm:"not null;default:'general'" json:"category"`
	SourceQuestionID *uuid.UUID     `gorm:"type:uuid" json:"sourceQuestionId"`
	ViewCount        int            `gorm:"not null;default:0" json:"viewCount"`
	IsNew            bool           `gorm:"not null;default:true" json:"isNew"`
	Keywords         pq.StringArray `gorm:"type:text[]" json:"keywords"`
	CreatedAt        time.Time      `gorm:"index" json:"createdAt"`
}

func (DynamicFaq) TableName() string { return "outreach.dynamic_faqs" }
