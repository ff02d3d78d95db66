// internal/models/admin.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type AuditLog struct {
	BaseModel
	UserID         *string    `json:"userId" gorm:"size:128;index"`
	OrganizationID *string    `json:"organizationId" gorm:"size:64;index"`
	Action         string     `json:"action" gorm:"size:100;not null;index"`
	ResourceType   string     `json:"resourceType" gorm:"size:50;not null;index"`
	ResourceID     *uuid.UUID `json:"resourceId" gorm:"type:uuid;index"`
	NewValues      JSONB      `json:"newValues" gorm:"type:jsonb"`
	StatusCode     int        `json:"statusCode"`
	IPAddress      string     `json:"ipAddress" gorm:"size:45"`
	UserAgent      string     `json:"userAgent" gorm:"type:text"`
}

// CampaignSearchDocument is the denormalized row served by campaign search.
type CampaignSearchDocument struct {
	DraftID        uuid.UUID `json:"draftId" gorm:"type:uuid;primaryKey"`
	OrganizationID *string   `json:"organizationId" gorm:"size:64;index"`
	Name           string    `json:"name" gorm:"size:255"`
	Status         string    `json:"status" gorm:"size:20"`
	Content        string    `json:"-" gorm:"type:text"`
	Document       JSONB     `json:"document" gorm:"type:jsonb"`
	ContentHash    string    `json:"-" gorm:"size:64"`
	IndexedAt      time.Time `json:"indexedAt"`
}
