// internal/services/reconciler.go
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/campaign-wizard/internal/models"
	"github.com/javajoker/campaign-wizard/internal/repository"
	"github.com/javajoker/campaign-wizard/internal/utils"
	"github.com/javajoker/campaign-wizard/internal/wizard"
)

// Reconciler keeps the influencer and creative asset rows of a draft in line
// with the lists a step save sends.
type Reconciler struct {
	influencers repository.InfluencerStore
	assets      repository.AssetStore
	drafts      repository.DraftStore
	now         func() time.Time
}

func NewReconciler(influencers repository.InfluencerStore, assets repository.AssetStore, drafts repository.DraftStore) *Reconciler {
	return &Reconciler{
		influencers: influencers,
		assets:      assets,
		drafts:      drafts,
		now:         time.Now,
	}
}

// ReplaceInfluencers swaps every assignment of the draft for the valid
// entries of inputs. Entries without a platform or a handle are dropped.
// It returns the number of rows written.
func (r *Reconciler) ReplaceInfluencers(ctx context.Context, draftID uuid.UUID, inputs []wizard.InfluencerInput) (int, error) {
	now := r.now()
	rows := make([]models.InfluencerAssignment, 0, len(inputs))
	for _, in := range inputs {
		platform := strings.ToUpper(strings.TrimSpace(in.Platform))
		handle := strings.TrimSpace(in.Handle)
		if platform == "" || handle == "" {
			continue
		}

		id := strings.TrimSpace(in.ID)
		if id == "" {
			id = r.influencerID(now)
		}
		rows = append(rows, models.InfluencerAssignment{
			ID:        id,
			DraftID:   draftID,
			Platform:  models.Platform(platform),
			Handle:    handle,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if err := r.influencers.Replace(ctx, draftID, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (r *Reconciler) influencerID(now time.Time) string {
	suffix, err := utils.GenerateRandomString(8)
	if err != nil {
		suffix = uuid.NewString()[:8]
	}
	return fmt.Sprintf("inf-%d-%s", now.UnixMilli(), suffix)
}

// SyncAssets applies name and description edits to the draft's creative
// assets, then stores the list as sent. Entries without a numeric id are
// skipped. Every failure is logged and returned; none stops the loop.
func (r *Reconciler) SyncAssets(ctx context.Context, draftID uuid.UUID, inputs []wizard.AssetInput, verbatim models.JSONArray) []error {
	log := logrus.WithField("draft_id", draftID.String())

	var errs []error
	for i, in := range inputs {
		assetID, ok := in.ID.Resolve()
		if !ok {
			log.WithFields(logrus.Fields{
				"index":    i,
				"asset_id": in.ID.String(),
			}).Warn("Skipping asset without a resolvable id")
			continue
		}

		text := repository.AssetText{Name: in.Name}
		if description, ok := in.DescriptionText(); ok {
			text.Description = &description
		}
		if err := r.assets.UpdateText(ctx, draftID, assetID, text); err != nil {
			log.WithError(err).WithField("asset_id", assetID).Error("Failed to update creative asset")
			errs = append(errs, err)
		}
	}

	delta := models.DraftDelta{
		models.ColumnAssets:    verbatim,
		models.ColumnUpdatedAt: r.now(),
	}
	if _, err := r.drafts.Update(ctx, draftID, delta); err != nil {
		log.WithError(err).Error("Failed to store asset list on draft")
		errs = append(errs, fmt.Errorf("failed to store asset list: %w", err))
	}
	return errs
}
