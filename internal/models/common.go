// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, err := jsonBytes(value)
	if err != nil {
		return err
	}

	return json.Unmarshal(bytes, j)
}

// JSONArray stores a list of JSON objects in a jsonb column.
type JSONArray []JSONB

func (a JSONArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}

func (a *JSONArray) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}

	bytes, err := jsonBytes(value)
	if err != nil {
		return err
	}

	return json.Unmarshal(bytes, a)
}

func jsonBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported jsonb source type %T", value)
	}
}

// Enums
type CampaignStatus string

const (
	CampaignStatusDraft         CampaignStatus = "DRAFT"
	CampaignStatusPendingReview CampaignStatus = "PENDING_REVIEW"
	CampaignStatusSubmitted     CampaignStatus = "SUBMITTED"
	CampaignStatusApproved      CampaignStatus = "APPROVED"
	CampaignStatusCompleted     CampaignStatus = "COMPLETED"
)

var CampaignStatuses = []CampaignStatus{
	CampaignStatusDraft,
	CampaignStatusPendingReview,
	CampaignStatusSubmitted,
	CampaignStatusApproved,
	CampaignStatusCompleted,
}

// IsForwardTransition reports whether moving a draft into this status
// finalizes its submission.
func (s CampaignStatus) IsForwardTransition() bool {
	switch s {
	case CampaignStatusSubmitted, CampaignStatusApproved, CampaignStatusCompleted:
		return true
	}
	return false
}

type SubmissionStatus string

const (
	SubmissionStatusDraft     SubmissionStatus = "draft"
	SubmissionStatusSubmitted SubmissionStatus = "submitted"
	SubmissionStatusInReview  SubmissionStatus = "in_review"
	SubmissionStatusApproved  SubmissionStatus = "approved"
	SubmissionStatusRejected  SubmissionStatus = "rejected"
)

type Platform string

const (
	PlatformInstagram Platform = "INSTAGRAM"
	PlatformYouTube   Platform = "YOUTUBE"
	PlatformTikTok    Platform = "TIKTOK"
)

type KPI string

const (
	KPIAdRecall             KPI = "AD_RECALL"
	KPIBrandAwareness       KPI = "BRAND_AWARENESS"
	KPIConsideration        KPI = "CONSIDERATION"
	KPIMessageAssociation   KPI = "MESSAGE_ASSOCIATION"
	KPIBrandPreference      KPI = "BRAND_PREFERENCE"
	KPIPurchaseIntent       KPI = "PURCHASE_INTENT"
	KPIActionIntent         KPI = "ACTION_INTENT"
	KPIRecommendationIntent KPI = "RECOMMENDATION_INTENT"
	KPIAdvocacy             KPI = "ADVOCACY"
)

type Feature string

const (
	FeatureCreativeAssetTesting Feature = "CREATIVE_ASSET_TESTING"
	FeatureBrandLift            Feature = "BRAND_LIFT"
	FeatureBrandHealth          Feature = "BRAND_HEALTH"
	FeatureMixedMediaModeling   Feature = "MIXED_MEDIA_MODELING"
)

type AssetType string

const (
	AssetTypeVideo AssetType = "video"
	AssetTypeImage AssetType = "image"
)
