// internal/services/assembler.go
package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/javajoker/campaign-wizard/internal/models"
	"github.com/javajoker/campaign-wizard/internal/wizard"
)

// DraftRepresentation is the outward form of a draft: every scalar column,
// the influencers, the submission id and one asset list.
type DraftRepresentation struct {
	*models.CampaignDraft
	Influencers  []models.InfluencerAssignment `json:"influencers"`
	Assets       []AssetDescriptor             `json:"assets"`
	SubmissionID *uint                         `json:"submissionId"`
	Message      string                        `json:"message,omitempty"`
}

type AssetDescriptor struct {
	ID                      string     `json:"id"`
	InternalAssetID         *uint      `json:"internalAssetId,omitempty"`
	Name                    string     `json:"name"`
	FileName                string     `json:"fileName"`
	Type                    string     `json:"type"`
	Description             string     `json:"description"`
	URL                     *string    `json:"url,omitempty"`
	FileSize                *int64     `json:"fileSize,omitempty"`
	MuxAssetID              *string    `json:"muxAssetId,omitempty"`
	MuxPlaybackID           *string    `json:"muxPlaybackId,omitempty"`
	MuxProcessingStatus     *string    `json:"muxProcessingStatus,omitempty"`
	Duration                *float64   `json:"duration,omitempty"`
	UserID                  *string    `json:"userId,omitempty"`
	CreatedAt               *time.Time `json:"createdAt,omitempty"`
	UpdatedAt               *time.Time `json:"updatedAt,omitempty"`
	IsPrimaryPreview        bool       `json:"isPrimaryForBrandLiftPreview"`
	Rationale               string     `json:"rationale"`
	Budget                  *float64   `json:"budget,omitempty"`
	AssociatedInfluencerIDs []string   `json:"associatedInfluencerIds"`
}

// AssembleDraft builds the representation of draft. Assets come from the
// creative asset rows, or from the stored asset list when there are none.
func AssembleDraft(draft *models.CampaignDraft) *DraftRepresentation {
	rep := &DraftRepresentation{
		CampaignDraft: draft,
		Influencers:   draft.Influencers,
		SubmissionID:  draft.SubmissionID,
	}
	if rep.Influencers == nil {
		rep.Influencers = []models.InfluencerAssignment{}
	}

	if len(draft.CreativeAssets) > 0 {
		rep.Assets = make([]AssetDescriptor, 0, len(draft.CreativeAssets))
		for i := range draft.CreativeAssets {
			rep.Assets = append(rep.Assets, describeAsset(&draft.CreativeAssets[i]))
		}
	} else {
		rep.Assets = make([]AssetDescriptor, 0, len(draft.Assets))
		for _, stored := range draft.Assets {
			rep.Assets = append(rep.Assets, describeStoredAsset(stored))
		}
	}
	return rep
}

func describeAsset(asset *models.CreativeAsset) AssetDescriptor {
	id := asset.ID
	createdAt, updatedAt := asset.CreatedAt, asset.UpdatedAt

	desc := AssetDescriptor{
		ID:                      strconv.FormatUint(uint64(asset.ID), 10),
		InternalAssetID:         &id,
		Name:                    asset.Name,
		FileName:                asset.FileName,
		Type:                    string(asset.Type),
		Description:             asset.Description,
		FileSize:                asset.FileSize,
		MuxAssetID:              asset.MuxAssetID,
		MuxPlaybackID:           asset.MuxPlaybackID,
		MuxProcessingStatus:     asset.ProcessingStatus,
		Duration:                asset.Duration,
		CreatedAt:               &createdAt,
		UpdatedAt:               &updatedAt,
		IsPrimaryPreview:        asset.IsPrimaryPreview,
		Budget:                  asset.Budget,
		AssociatedInfluencerIDs: []string(asset.AssociatedInfluencerIDs),
	}
	if asset.URL != "" {
		url := asset.URL
		desc.URL = &url
	}
	if asset.UserID != nil {
		owner := asset.UserID.String()
		desc.UserID = &owner
	}
	if desc.FileName == "" {
		desc.FileName = asset.Name
	}
	return withDescriptorDefaults(desc)
}

// storedAsset reads a verbatim asset entry; ids may be numbers or strings.
type storedAsset struct {
	AssetDescriptor
	ID wizard.AssetRef `json:"id"`
}

func describeStoredAsset(entry models.JSONB) AssetDescriptor {
	var stored storedAsset
	if data, err := json.Marshal(entry); err == nil {
		_ = json.Unmarshal(data, &stored)
	}

	desc := stored.AssetDescriptor
	desc.ID = stored.ID.String()
	if desc.InternalAssetID == nil {
		if id, ok := stored.ID.Resolve(); ok {
			desc.InternalAssetID = &id
		}
	}
	return withDescriptorDefaults(desc)
}

func withDescriptorDefaults(desc AssetDescriptor) AssetDescriptor {
	if desc.Type == "" {
		desc.Type = string(models.AssetTypeVideo)
	}
	if desc.AssociatedInfluencerIDs == nil {
		desc.AssociatedInfluencerIDs = []string{}
	}
	return desc
}

// Snapshot renders the representation as a JSON object for storage.
func (r *DraftRepresentation) Snapshot() (models.JSONB, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode draft snapshot: %w", err)
	}
	var snapshot models.JSONB
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode draft snapshot: %w", err)
	}
	return snapshot, nil
}
