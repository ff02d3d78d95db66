// internal/models/user.go
package models

import (
	"time"
)

// User mirrors an identity-provider account inside this service.
type User struct {
	BaseModel
	ExternalID     string     `json:"externalId" gorm:"uniqueIndex;size:128;not null"`
	Email          string     `json:"email" gorm:"size:255"`
	Name           string     `json:"name" gorm:"size:255"`
	OrganizationID *string    `json:"organizationId" gorm:"size:64;index"`
	LastSeenAt     *time.Time `json:"lastSeenAt"`

	// Relationships
	Drafts []CampaignDraft `json:"-" gorm:"foreignKey:UserID"`
}
