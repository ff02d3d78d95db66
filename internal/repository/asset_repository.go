package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/javajoker/campaign-wizard/internal/models"
)

// AssetText is the wizard-editable part of a creative asset. Nil fields are
// left unchanged.
type AssetText struct {
	Name        *string
	Description *string
}

type AssetStore interface {
	Create(ctx context.Context, asset *models.CreativeAsset) error
	// UpdateText changes name and description of an asset the draft owns.
	UpdateText(ctx context.Context, draftID uuid.UUID, assetID uint, text AssetText) error
}

type GormAssetStore struct {
	db *gorm.DB
}

func NewAssetStore(db *gorm.DB) *GormAssetStore {
	return &GormAssetStore{db: db}
}

func (s *GormAssetStore) Create(ctx context.Context, asset *models.CreativeAsset) error {
	if err := s.db.WithContext(ctx).Create(asset).Error; err != nil {
		return fmt.Errorf("failed to create asset: %w", translate(err))
	}
	return nil
}

func (s *GormAssetStore) UpdateText(ctx context.Context, draftID uuid.UUID, assetID uint, text AssetText) error {
	updates := map[string]interface{}{}
	if text.Name != nil {
		updates["name"] = *text.Name
	}
	if text.Description != nil {
		updates["description"] = *text.Description
	}
	if len(updates) == 0 {
		return nil
	}

	result := s.db.WithContext(ctx).
		Model(&models.CreativeAsset{}).
		Where("id = ? AND draft_id = ?", assetID, draftID).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update asset %d: %w", assetID, translate(result.Error))
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("asset %d: %w", assetID, ErrNotFound)
	}
	return nil
}

// reparentAssets moves every asset the draft still owns and no submission has
// claimed onto submissionID.
func reparentAssets(tx *gorm.DB, draftID uuid.UUID, submissionID uint) (int64, error) {
	result := tx.Model(&models.CreativeAsset{}).
		Where("draft_id = ? AND submission_id IS NULL", draftID).
		Updates(map[string]interface{}{
			"submission_id": submissionID,
			"draft_id":      nil,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to re-parent assets: %w", result.Error)
	}
	return result.RowsAffected, nil
}
