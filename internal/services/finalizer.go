// internal/services/finalizer.go
package services

import (
	"context"
	"errors"

	"github.com/javajoker/campaign-wizard/internal/models"
	"github.com/javajoker/campaign-wizard/internal/repository"
)

var ErrNoSubmission = errors.New("draft has no submission to finalize")

// Finalizer performs the step 5 hand-over from draft to submission.
type Finalizer struct {
	submissions repository.SubmissionStore
}

func NewFinalizer(submissions repository.SubmissionStore) *Finalizer {
	return &Finalizer{submissions: submissions}
}

// Finalize marks the draft's submission submitted and moves the draft's
// unclaimed assets to it in one transaction. It returns the number of assets
// moved.
func (f *Finalizer) Finalize(ctx context.Context, draft *models.CampaignDraft) (int64, error) {
	if draft.SubmissionID == nil {
		return 0, ErrNoSubmission
	}
	return f.submissions.Finalize(ctx, *draft.SubmissionID, draft.ID)
}
