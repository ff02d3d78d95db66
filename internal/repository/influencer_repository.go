package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/javajoker/campaign-wizard/internal/models"
)

type InfluencerStore interface {
	// Replace deletes every assignment of the draft and inserts rows in one
	// transaction. An empty rows slice clears the draft.
	Replace(ctx context.Context, draftID uuid.UUID, rows []models.InfluencerAssignment) error
}

type GormInfluencerStore struct {
	db *gorm.DB
}

func NewInfluencerStore(db *gorm.DB) *GormInfluencerStore {
	return &GormInfluencerStore{db: db}
}

func (s *GormInfluencerStore) Replace(ctx context.Context, draftID uuid.UUID, rows []models.InfluencerAssignment) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("draft_id = ?", draftID).Delete(&models.InfluencerAssignment{}).Error; err != nil {
			return fmt.Errorf("failed to delete influencers: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to insert influencers: %w", err)
		}
		return nil
	})
	return translate(err)
}
