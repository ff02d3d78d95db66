package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/javajoker/campaign-wizard/internal/models"
)

// SubmitRecord carries what a full submission writes.
type SubmitRecord struct {
	Draft       *models.CampaignDraft
	Snapshot    models.JSONB
	SubmittedBy uuid.UUID
	At          time.Time
}

type SubmissionStore interface {
	Get(ctx context.Context, id uint) (*models.Submission, error)
	// Initialize creates a draft-status submission, links it to its draft
	// and moves the draft to currentStep, all in one transaction.
	Initialize(ctx context.Context, submission *models.Submission, currentStep int) error
	// Finalize marks the submission submitted and re-parents the draft's
	// unclaimed assets onto it. It returns the number of assets moved.
	Finalize(ctx context.Context, submissionID uint, draftID uuid.UUID) (int64, error)
	// Submit creates or promotes the draft's submission, re-parents the
	// unclaimed assets and marks the draft SUBMITTED.
	Submit(ctx context.Context, record SubmitRecord) (*models.Submission, error)
}

type GormSubmissionStore struct {
	db *gorm.DB
}

func NewSubmissionStore(db *gorm.DB) *GormSubmissionStore {
	return &GormSubmissionStore{db: db}
}

func (s *GormSubmissionStore) Get(ctx context.Context, id uint) (*models.Submission, error) {
	var submission models.Submission
	if err := s.db.WithContext(ctx).First(&submission, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return &submission, nil
}

func (s *GormSubmissionStore) Initialize(ctx context.Context, submission *models.Submission, currentStep int) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(submission).Error; err != nil {
			return fmt.Errorf("failed to create submission: %w", err)
		}

		result := tx.Model(&models.CampaignDraft{}).
			Where("id = ? AND submission_id IS NULL", submission.DraftID).
			Updates(map[string]interface{}{
				models.ColumnSubmissionID: submission.ID,
				models.ColumnCurrentStep:  currentStep,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to link submission: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrConflict
		}
		return nil
	})
	return translate(err)
}

func (s *GormSubmissionStore) Finalize(ctx context.Context, submissionID uint, draftID uuid.UUID) (int64, error) {
	var moved int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Submission{}).
			Where("id = ?", submissionID).
			Updates(map[string]interface{}{
				"status":       string(models.SubmissionStatusSubmitted),
				"submitted_at": gorm.Expr("COALESCE(submitted_at, ?)", time.Now()),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to mark submission submitted: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}

		n, err := reparentAssets(tx, draftID, submissionID)
		if err != nil {
			return err
		}
		moved = n
		return nil
	})
	if err != nil {
		return 0, translate(err)
	}
	return moved, nil
}

func (s *GormSubmissionStore) Submit(ctx context.Context, record SubmitRecord) (*models.Submission, error) {
	draft := record.Draft
	submission := &models.Submission{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if draft.SubmissionID == nil {
			submission = &models.Submission{
				DraftID:     draft.ID,
				Status:      models.SubmissionStatusSubmitted,
				Snapshot:    record.Snapshot,
				SubmittedBy: record.SubmittedBy,
				SubmittedAt: &record.At,
			}
			if err := tx.Create(submission).Error; err != nil {
				return fmt.Errorf("failed to create submission: %w", err)
			}
		} else {
			result := tx.Model(&models.Submission{}).
				Where("id = ? AND status = ?", *draft.SubmissionID, models.SubmissionStatusDraft).
				Updates(map[string]interface{}{
					"status":       string(models.SubmissionStatusSubmitted),
					"snapshot":     record.Snapshot,
					"submitted_by": record.SubmittedBy,
					"submitted_at": record.At,
				})
			if result.Error != nil {
				return fmt.Errorf("failed to promote submission: %w", result.Error)
			}
			if result.RowsAffected == 0 {
				return ErrConflict
			}
			if err := tx.First(submission, *draft.SubmissionID).Error; err != nil {
				return fmt.Errorf("failed to reload submission: %w", err)
			}
		}

		if _, err := reparentAssets(tx, draft.ID, submission.ID); err != nil {
			return err
		}

		result := tx.Model(&models.CampaignDraft{}).
			Where("id = ? AND status = ?", draft.ID, models.CampaignStatusDraft).
			Updates(map[string]interface{}{
				models.ColumnStatus:         string(models.CampaignStatusSubmitted),
				models.ColumnSubmissionID:   submission.ID,
				models.ColumnUpdatedAt:      record.At,
				models.ColumnLastEditedByID: record.SubmittedBy,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to mark draft submitted: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrConflict
		}
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return submission, nil
}
