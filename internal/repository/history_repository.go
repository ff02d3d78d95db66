package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/javajoker/campaign-wizard/internal/models"
)

type HistoryStore interface {
	Record(ctx context.Context, entry *models.WizardHistory) error
	ListByDraft(ctx context.Context, draftID uuid.UUID, limit int) ([]models.WizardHistory, error)
}

type GormHistoryStore struct {
	db *gorm.DB
}

func NewHistoryStore(db *gorm.DB) *GormHistoryStore {
	return &GormHistoryStore{db: db}
}

func (s *GormHistoryStore) Record(ctx context.Context, entry *models.WizardHistory) error {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to record wizard history: %w", err)
	}
	return nil
}

func (s *GormHistoryStore) ListByDraft(ctx context.Context, draftID uuid.UUID, limit int) ([]models.WizardHistory, error) {
	var entries []models.WizardHistory
	err := s.db.WithContext(ctx).
		Where("draft_id = ?", draftID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list wizard history: %w", err)
	}
	return entries, nil
}
