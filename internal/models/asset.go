// internal/models/asset.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type InfluencerAssignment struct {
	ID        string    `json:"id" gorm:"primaryKey;size:64"`
	DraftID   uuid.UUID `json:"draftId" gorm:"type:uuid;not null;index"`
	Platform  Platform  `json:"platform" gorm:"type:varchar(20);not null"`
	Handle    string    `json:"handle" gorm:"size:255;not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreativeAsset is owned by a draft until finalization moves it to a submission.
type CreativeAsset struct {
	ID                      uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	DraftID                 *uuid.UUID     `json:"draftId" gorm:"type:uuid;index"`
	SubmissionID            *uint          `json:"submissionId" gorm:"index"`
	Name                    string         `json:"name" gorm:"size:255;not null"`
	Description             string         `json:"description" gorm:"type:text"`
	FileName                string         `json:"fileName" gorm:"size:255"`
	Type                    AssetType      `json:"type" gorm:"type:varchar(20);default:'video'"`
	URL                     string         `json:"url" gorm:"size:1024"`
	FileSize                *int64         `json:"fileSize"`
	MuxAssetID              *string        `json:"muxAssetId" gorm:"size:128"`
	MuxPlaybackID           *string        `json:"muxPlaybackId" gorm:"size:128"`
	ProcessingStatus        *string        `json:"muxProcessingStatus" gorm:"size:32"`
	Duration                *float64       `json:"duration"`
	UserID                  *uuid.UUID     `json:"userId" gorm:"type:uuid"`
	IsPrimaryPreview        bool           `json:"isPrimaryForBrandLiftPreview" gorm:"not null;default:false"`
	Budget                  *float64       `json:"budget"`
	AssociatedInfluencerIDs pq.StringArray `json:"associatedInfluencerIds" gorm:"type:text[]"`
	CreatedAt               time.Time      `json:"createdAt"`
	UpdatedAt               time.Time      `json:"updatedAt"`
}

// Submission is the snapshot produced from a draft. Only its status changes
// after creation.
type Submission struct {
	ID          uint             `json:"id" gorm:"primaryKey;autoIncrement"`
	DraftID     uuid.UUID        `json:"draftId" gorm:"type:uuid;not null;uniqueIndex"`
	Status      SubmissionStatus `json:"status" gorm:"type:varchar(20);not null;default:'draft';index"`
	Snapshot    JSONB            `json:"snapshot" gorm:"type:jsonb"`
	SubmittedBy uuid.UUID        `json:"submittedBy" gorm:"type:uuid;not null"`
	SubmittedAt *time.Time       `json:"submittedAt"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}
