// internal/services/submission_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/campaign-wizard/internal/i18n"
	"github.com/javajoker/campaign-wizard/internal/models"
	"github.com/javajoker/campaign-wizard/internal/repository"
	"github.com/javajoker/campaign-wizard/internal/utils"
)

// stepAfterInitialization is where a draft lands once its submission exists.
const stepAfterInitialization = 4

var ErrPrimaryContactIncomplete = errors.New("primary contact is incomplete")

// SubmissionService creates submissions: early, when step 3 is completed, and
// on the explicit submit call.
type SubmissionService struct {
	drafts      repository.DraftStore
	submissions repository.SubmissionStore
	users       *UserService
	index       IndexQueue
	now         func() time.Time
}

func NewSubmissionService(drafts repository.DraftStore, submissions repository.SubmissionStore, users *UserService, index IndexQueue) *SubmissionService {
	return &SubmissionService{
		drafts:      drafts,
		submissions: submissions,
		users:       users,
		index:       index,
		now:         time.Now,
	}
}

// Initialize creates a draft-status submission for draft when it has none.
// A concurrent initialization of the same draft counts as done.
func (s *SubmissionService) Initialize(ctx context.Context, draft *models.CampaignDraft, editor *models.User) (bool, error) {
	if draft.SubmissionID != nil {
		return false, nil
	}
	if missing := missingContactFields(draft.PrimaryContact, "firstName", "surname", "email"); len(missing) > 0 {
		return false, fmt.Errorf("%w: missing %s", ErrPrimaryContactIncomplete, strings.Join(missing, ", "))
	}

	snapshot, err := AssembleDraft(draft).Snapshot()
	if err != nil {
		return false, err
	}

	submission := &models.Submission{
		DraftID:     draft.ID,
		Status:      models.SubmissionStatusDraft,
		Snapshot:    snapshot,
		SubmittedBy: editor.ID,
	}
	err = s.submissions.Initialize(ctx, submission, stepAfterInitialization)
	if errors.Is(err, repository.ErrConflict) {
		logrus.WithField("draft_id", draft.ID.String()).Info("Submission already initialized by a concurrent save")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Submit turns a complete draft into a submitted campaign.
func (s *SubmissionService) Submit(ctx context.Context, identity Identity, draftID uuid.UUID) (*DraftRepresentation, error) {
	if err := identity.check(); err != nil {
		return nil, err
	}
	user, err := s.users.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}
	draft, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		return nil, classify(err, i18n.KeyCampaignNotFound)
	}
	if err := identity.canWrite(draft); err != nil {
		return nil, err
	}

	if draft.Status != models.CampaignStatusDraft {
		return nil, newError(KindBadRequest, i18n.KeyCampaignAlreadySubmitted, nil)
	}
	if draft.Submission != nil && draft.Submission.Status != models.SubmissionStatusDraft {
		return nil, newError(KindBadRequest, i18n.KeyCampaignAlreadySubmitted, nil)
	}
	if !draft.IsComplete {
		return nil, newError(KindBadRequest, i18n.KeyCampaignIncomplete, nil)
	}
	if missing := missingContactFields(draft.PrimaryContact, "firstName", "surname", "email", "position"); len(missing) > 0 {
		details := make([]utils.ValidationError, 0, len(missing))
		for _, field := range missing {
			details = append(details, utils.ValidationError{
				Field:   "primaryContact." + field,
				Tag:     "required",
				Message: "primaryContact." + field + " is required",
			})
		}
		return nil, &Error{Kind: KindValidationFailed, Key: i18n.KeyPrimaryContactRequired, Details: details}
	}

	snapshot, err := AssembleDraft(draft).Snapshot()
	if err != nil {
		return nil, classify(err, i18n.KeyCampaignNotFound)
	}

	log := logrus.WithFields(logrus.Fields{
		"draft_id": draft.ID.String(),
		"org_id":   identity.OrganizationID,
		"user_id":  user.ID.String(),
	})

	submission, err := s.submissions.Submit(ctx, repository.SubmitRecord{
		Draft:       draft,
		Snapshot:    snapshot,
		SubmittedBy: user.ID,
		At:          s.now(),
	})
	if err != nil {
		log.WithError(err).Error("Failed to submit campaign")
		return nil, classify(err, i18n.KeyCampaignNotFound)
	}
	log.WithField("submission_id", submission.ID).Info("Campaign submitted")

	submitted, err := s.drafts.Get(ctx, draft.ID)
	if err != nil {
		return nil, classify(err, i18n.KeyCampaignNotFound)
	}
	s.index.Enqueue(submitted)

	return AssembleDraft(submitted), nil
}

// missingContactFields lists the required keys that are absent or blank.
func missingContactFields(contact models.JSONB, required ...string) []string {
	var missing []string
	for _, field := range required {
		value, _ := contact[field].(string)
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	return missing
}
