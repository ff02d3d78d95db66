// internal/models/campaign.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// CampaignDraft is the long-lived record edited step by step through the wizard.
type CampaignDraft struct {
	BaseModel
	OrganizationID *string        `json:"organizationId" gorm:"size:64;index"`
	UserID         uuid.UUID      `json:"userId" gorm:"type:uuid;not null;index"`
	LastEditedByID *uuid.UUID     `json:"lastEditedById" gorm:"type:uuid"`
	CurrentStep    int            `json:"currentStep" gorm:"not null;default:1"`
	IsComplete     bool           `json:"isComplete" gorm:"not null;default:false"`
	Status         CampaignStatus `json:"status" gorm:"type:varchar(20);not null;default:'DRAFT';index"`

	// Step 1: campaign details
	Name               *string    `json:"name" gorm:"size:255"`
	BusinessGoal       *string    `json:"businessGoal" gorm:"type:text"`
	Brand              *string    `json:"brand" gorm:"size:255"`
	Website            *string    `json:"website" gorm:"size:512"`
	StartDate          *time.Time `json:"startDate"`
	EndDate            *time.Time `json:"endDate"`
	TimeZone           *string    `json:"timeZone" gorm:"size:64"`
	Budget             JSONB      `json:"budget" gorm:"type:jsonb"`
	PrimaryContact     JSONB      `json:"primaryContact" gorm:"type:jsonb"`
	SecondaryContact   JSONB      `json:"secondaryContact" gorm:"type:jsonb"`
	AdditionalContacts JSONArray  `json:"additionalContacts" gorm:"type:jsonb"`
	Step1Complete      bool       `json:"step1Complete" gorm:"not null;default:false"`

	// Step 2: objectives and messaging
	PrimaryKPI       *string        `json:"primaryKPI" gorm:"column:primary_kpi;size:50"`
	SecondaryKPIs    pq.StringArray `json:"secondaryKPIs" gorm:"column:secondary_kpis;type:text[]"`
	Features         pq.StringArray `json:"features" gorm:"type:text[]"`
	Messaging        JSONB          `json:"messaging" gorm:"type:jsonb"`
	ExpectedOutcomes JSONB          `json:"expectedOutcomes" gorm:"type:jsonb"`
	Step2Complete    bool           `json:"step2Complete" gorm:"not null;default:false"`

	// Step 3: audience
	Demographics  JSONB          `json:"demographics" gorm:"type:jsonb"`
	Locations     JSONArray      `json:"locations" gorm:"type:jsonb"`
	Targeting     JSONB          `json:"targeting" gorm:"type:jsonb"`
	Competitors   pq.StringArray `json:"competitors" gorm:"type:text[]"`
	Step3Complete bool           `json:"step3Complete" gorm:"not null;default:false"`

	// Step 4: creative
	TargetPlatforms pq.StringArray `json:"targetPlatforms" gorm:"type:text[]"`
	Guidelines      *string        `json:"guidelines" gorm:"type:text"`
	Requirements    *string        `json:"requirements" gorm:"type:text"`
	Notes           *string        `json:"notes" gorm:"type:text"`
	Assets          JSONArray      `json:"-" gorm:"type:jsonb"`
	Step4Complete   bool           `json:"step4Complete" gorm:"not null;default:false"`

	SubmissionID *uint `json:"submissionId" gorm:"index"`

	// Relationships
	User           *User                  `json:"-" gorm:"foreignKey:UserID"`
	Submission     *Submission            `json:"-" gorm:"foreignKey:SubmissionID"`
	Influencers    []InfluencerAssignment `json:"-" gorm:"foreignKey:DraftID;constraint:OnDelete:CASCADE"`
	CreativeAssets []CreativeAsset        `json:"-" gorm:"foreignKey:DraftID"`
}

// Column names written through DraftDelta.
const (
	ColumnUpdatedAt      = "updated_at"
	ColumnLastEditedByID = "last_edited_by_id"
	ColumnCurrentStep    = "current_step"
	ColumnIsComplete     = "is_complete"
	ColumnStatus         = "status"
	ColumnStep1Complete  = "step1_complete"
	ColumnStep2Complete  = "step2_complete"
	ColumnStep3Complete  = "step3_complete"
	ColumnStep4Complete  = "step4_complete"
	ColumnAssets         = "assets"
	ColumnSubmissionID   = "submission_id"
)

// DraftDelta is a column-keyed update for a CampaignDraft. A key mapped to
// nil clears the column; a missing key leaves it untouched.
type DraftDelta map[string]interface{}

// Has reports whether the delta writes the given column.
func (d DraftDelta) Has(column string) bool {
	_, ok := d[column]
	return ok
}

// Bool returns the boolean written for column, if any.
func (d DraftDelta) Bool(column string) (bool, bool) {
	v, ok := d[column]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// Columns returns the written column names.
func (d DraftDelta) Columns() []string {
	columns := make([]string, 0, len(d))
	for column := range d {
		columns = append(columns, column)
	}
	return columns
}

// WizardHistory records one successful step save.
type WizardHistory struct {
	BaseModel
	DraftID     uuid.UUID      `json:"draftId" gorm:"type:uuid;not null;index"`
	Step        int            `json:"step" gorm:"not null"`
	Action      string         `json:"action" gorm:"size:255;not null"`
	Changes     pq.StringArray `json:"changes" gorm:"type:text[]"`
	PerformedBy uuid.UUID      `json:"performedBy" gorm:"type:uuid;not null"`
}
