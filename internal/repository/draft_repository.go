package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/javajoker/campaign-wizard/internal/models"
	"github.com/javajoker/campaign-wizard/internal/utils"
)

// DraftStore is the authoritative store for campaign drafts.
type DraftStore interface {
	Get(ctx context.Context, id uuid.UUID) (*models.CampaignDraft, error)
	// Update applies delta in a single statement and returns the row with its
	// influencers, creative assets and submission loaded.
	Update(ctx context.Context, id uuid.UUID, delta models.DraftDelta) (*models.CampaignDraft, error)
	Create(ctx context.Context, draft *models.CampaignDraft) error
	List(ctx context.Context, organizationID string, params utils.PaginationParams) ([]models.CampaignDraft, int64, error)
	// Delete removes the draft together with its influencers, history and a
	// submission that was never submitted.
	Delete(ctx context.Context, draft *models.CampaignDraft) error
}

var draftSortFields = []string{"created_at", "updated_at", "name", "status", "current_step"}

type GormDraftStore struct {
	db *gorm.DB
}

func NewDraftStore(db *gorm.DB) *GormDraftStore {
	return &GormDraftStore{db: db}
}

func withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Influencers", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC, id ASC")
		}).
		Preload("CreativeAssets", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("id ASC")
		}).
		Preload("Submission")
}

func (s *GormDraftStore) Get(ctx context.Context, id uuid.UUID) (*models.CampaignDraft, error) {
	var draft models.CampaignDraft
	if err := withChildren(s.db.WithContext(ctx)).First(&draft, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return &draft, nil
}

func (s *GormDraftStore) Update(ctx context.Context, id uuid.UUID, delta models.DraftDelta) (*models.CampaignDraft, error) {
	result := s.db.WithContext(ctx).
		Model(&models.CampaignDraft{}).
		Where("id = ?", id).
		Updates(map[string]interface{}(delta))
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update draft: %w", translate(result.Error))
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *GormDraftStore) Create(ctx context.Context, draft *models.CampaignDraft) error {
	if err := s.db.WithContext(ctx).Create(draft).Error; err != nil {
		return fmt.Errorf("failed to create draft: %w", translate(err))
	}
	return nil
}

func (s *GormDraftStore) List(ctx context.Context, organizationID string, params utils.PaginationParams) ([]models.CampaignDraft, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.CampaignDraft{}).Where("organization_id = ?", organizationID)
	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		query = query.Where("name ILIKE ? OR brand ILIKE ?", pattern, pattern)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count drafts: %w", err)
	}

	var drafts []models.CampaignDraft
	query = utils.ApplySort(query, params, draftSortFields)
	if err := utils.ApplyPagination(query, params).Find(&drafts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list drafts: %w", err)
	}
	return drafts, total, nil
}

func (s *GormDraftStore) Delete(ctx context.Context, draft *models.CampaignDraft) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("draft_id = ?", draft.ID).Delete(&models.InfluencerAssignment{}).Error; err != nil {
			return fmt.Errorf("failed to delete influencers: %w", err)
		}
		if err := tx.Where("draft_id = ?", draft.ID).Delete(&models.WizardHistory{}).Error; err != nil {
			return fmt.Errorf("failed to delete history: %w", err)
		}
		if draft.SubmissionID != nil {
			// Detach first so the draft row no longer references the submission.
			if err := tx.Model(&models.CampaignDraft{}).Where("id = ?", draft.ID).
				Update(models.ColumnSubmissionID, nil).Error; err != nil {
				return fmt.Errorf("failed to detach submission: %w", err)
			}
			if err := tx.Where("id = ? AND status = ?", *draft.SubmissionID, models.SubmissionStatusDraft).
				Delete(&models.Submission{}).Error; err != nil {
				return fmt.Errorf("failed to delete submission: %w", err)
			}
		}
		if err := tx.Model(&models.CreativeAsset{}).Where("draft_id = ? AND submission_id IS NULL", draft.ID).
			Update("draft_id", nil).Error; err != nil {
			return fmt.Errorf("failed to release assets: %w", err)
		}

		result := tx.Delete(&models.CampaignDraft{}, "id = ?", draft.ID)
		if result.Error != nil {
			return fmt.Errorf("failed to delete draft: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	return translate(err)
}
