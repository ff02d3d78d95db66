package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/campaign-wizard/internal/i18n"
	"github.com/javajoker/campaign-wizard/internal/models"
)

func completeDraft(d *models.CampaignDraft) {
	d.Step1Complete, d.Step2Complete, d.Step3Complete, d.Step4Complete = true, true, true, true
	d.IsComplete = true
	d.PrimaryContact = completeContact()
}

func TestSubmitCreatesSubmissionAndReparentsAssets(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	draft := f.draft(completeDraft)
	asset := f.asset(draft.ID, "hero")

	rep, err := f.submission.Submit(ctx, f.identity, draft.ID)
	require.NoError(t, err)

	assert.Equal(t, models.CampaignStatusSubmitted, rep.Status)
	require.NotNil(t, rep.SubmissionID)

	sub, ok := f.db.Submission(*rep.SubmissionID)
	require.True(t, ok)
	assert.Equal(t, models.SubmissionStatusSubmitted, sub.Status)
	assert.Equal(t, f.user.ID, sub.SubmittedBy)
	assert.NotNil(t, sub.SubmittedAt)
	assert.Equal(t, draft.ID.String(), sub.Snapshot["id"])

	stored, _ := f.db.Asset(asset.ID)
	require.NotNil(t, stored.SubmissionID)
	assert.Equal(t, sub.ID, *stored.SubmissionID)
	assert.Nil(t, stored.DraftID)

	assert.Contains(t, f.queue.Upserts(), draft.ID)
}

func TestSubmitPromotesInitializedSubmission(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	draft := f.draft(completeDraft)
	existing := f.db.AddSubmission(&models.Submission{DraftID: draft.ID, Status: models.SubmissionStatusDraft})

	rep, err := f.submission.Submit(ctx, f.identity, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, *rep.SubmissionID)

	sub, _ := f.db.Submission(existing.ID)
	assert.Equal(t, models.SubmissionStatusSubmitted, sub.Status)
}

func TestSubmitPreconditions(t *testing.T) {
	ctx := context.Background()

	t.Run("incomplete", func(t *testing.T) {
		f := newFixture(nil)
		draft := f.draft(func(d *models.CampaignDraft) { d.PrimaryContact = completeContact() })

		_, err := f.submission.Submit(ctx, f.identity, draft.ID)
		var svcErr *Error
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, KindBadRequest, svcErr.Kind)
		assert.Equal(t, i18n.KeyCampaignIncomplete, svcErr.Key)
	})

	t.Run("contact without position", func(t *testing.T) {
		f := newFixture(nil)
		draft := f.draft(func(d *models.CampaignDraft) {
			completeDraft(d)
			delete(d.PrimaryContact, "position")
			d.PrimaryContact["email"] = " "
		})

		_, err := f.submission.Submit(ctx, f.identity, draft.ID)
		var svcErr *Error
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, KindValidationFailed, svcErr.Kind)
		require.Len(t, svcErr.Details, 2)
		assert.Equal(t, "primaryContact.email", svcErr.Details[0].Field)
		assert.Equal(t, "primaryContact.position", svcErr.Details[1].Field)
	})

	t.Run("already submitted", func(t *testing.T) {
		f := newFixture(nil)
		draft := f.draft(completeDraft)

		_, err := f.submission.Submit(ctx, f.identity, draft.ID)
		require.NoError(t, err)

		_, err = f.submission.Submit(ctx, f.identity, draft.ID)
		var svcErr *Error
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, i18n.KeyCampaignAlreadySubmitted, svcErr.Key)
	})

	t.Run("submission under review", func(t *testing.T) {
		f := newFixture(nil)
		draft := f.draft(completeDraft)
		f.db.AddSubmission(&models.Submission{DraftID: draft.ID, Status: models.SubmissionStatusInReview})

		_, err := f.submission.Submit(ctx, f.identity, draft.ID)
		assert.Equal(t, KindBadRequest, KindOf(err))
	})

	t.Run("other organization", func(t *testing.T) {
		f := newFixture(nil)
		other := "org_9"
		draft := f.draft(func(d *models.CampaignDraft) {
			completeDraft(d)
			d.OrganizationID = &other
		})

		_, err := f.submission.Submit(ctx, f.identity, draft.ID)
		assert.Equal(t, KindForbidden, KindOf(err))
	})
}

func TestMissingContactFields(t *testing.T) {
	contact := models.JSONB{"firstName": "Ada", "surname": "  ", "email": 42}

	assert.Equal(t, []string{"surname", "email", "position"},
		missingContactFields(contact, "firstName", "surname", "email", "position"))
	assert.Empty(t, missingContactFields(completeContact(), "firstName", "surname", "email", "position"))
	assert.Len(t, missingContactFields(nil, "email"), 1)
}
