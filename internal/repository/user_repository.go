package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/campaign-wizard/internal/models"
)

type UserStore interface {
	FindByExternalID(ctx context.Context, externalID string) (*models.User, error)
	// Upsert creates the user or refreshes its profile fields, keyed by
	// external id.
	Upsert(ctx context.Context, user *models.User) error
}

type GormUserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{db: db}
}

func (s *GormUserStore) FindByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("external_id = ?", externalID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (s *GormUserStore) Upsert(ctx context.Context, user *models.User) error {
	now := time.Now()
	user.LastSeenAt = &now

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "name", "organization_id", "last_seen_at", "updated_at"}),
	}).Create(user).Error
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", translate(err))
	}

	// The conflict path does not return the existing id.
	found, err := s.FindByExternalID(ctx, user.ExternalID)
	if err != nil {
		return err
	}
	*user = *found
	return nil
}
