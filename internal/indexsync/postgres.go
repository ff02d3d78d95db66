package indexsync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/campaign-wizard/internal/models"
)

// PostgresIndexer keeps campaign_search_documents in step with the drafts and
// serves full-text search over it.
type PostgresIndexer struct {
	db *gorm.DB
}

func NewPostgresIndexer(db *gorm.DB) *PostgresIndexer {
	return &PostgresIndexer{db: db}
}

func (p *PostgresIndexer) Name() string { return "postgres" }

func (p *PostgresIndexer) Upsert(ctx context.Context, doc Document) error {
	hash := doc.Hash()

	var existing models.CampaignSearchDocument
	err := p.db.WithContext(ctx).Select("content_hash").First(&existing, "draft_id = ?", doc.ID).Error
	switch {
	case err == nil && existing.ContentHash == hash:
		return nil
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("failed to read search document: %w", err)
	}

	row := models.CampaignSearchDocument{
		DraftID:        doc.ID,
		OrganizationID: doc.OrganizationID,
		Name:           doc.Name,
		Status:         doc.Status,
		Content:        doc.Content(),
		Document:       doc.Fields(),
		ContentHash:    hash,
		IndexedAt:      time.Now(),
	}
	err = p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "draft_id"}},
		UpdateAll: true,
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to upsert search document: %w", err)
	}
	return nil
}

func (p *PostgresIndexer) Delete(ctx context.Context, id uuid.UUID) error {
	if err := p.db.WithContext(ctx).Delete(&models.CampaignSearchDocument{}, "draft_id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete search document: %w", err)
	}
	return nil
}

// Search ranks the organization's documents against a plain-text query.
func (p *PostgresIndexer) Search(ctx context.Context, organizationID, query string, limit int) ([]models.CampaignSearchDocument, error) {
	var docs []models.CampaignSearchDocument
	err := p.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Where("to_tsvector('english', content) @@ plainto_tsquery('english', ?)", query).
		Order(clause.Expr{
			SQL:  "ts_rank(to_tsvector('english', content), plainto_tsquery('english', ?)) DESC",
			Vars: []interface{}{query},
		}).
		Limit(limit).
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search campaigns: %w", err)
	}
	return docs, nil
}
