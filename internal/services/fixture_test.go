package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/campaign-wizard/internal/models"
	"github.com/javajoker/campaign-wizard/internal/testutil"
)

const (
	testOrg  = "org_1"
	testUser = "user_1"
)

type fixture struct {
	db         *testutil.MemoryDB
	queue      *testutil.RecordingQueue
	user       *models.User
	users      *UserService
	submission *SubmissionService
	wizard     *WizardService
	campaigns  *CampaignService
	identity   Identity
}

func newFixture(index IndexQueue) *fixture {
	db := testutil.NewMemoryDB()
	queue := &testutil.RecordingQueue{}
	if index == nil {
		index = queue
	}

	users := NewUserService(db.Users())
	submission := NewSubmissionService(db.Drafts(), db.Submissions(), users, index)
	reconciler := NewReconciler(db.Influencers(), db.Assets(), db.Drafts())
	wizardSvc := NewWizardService(db.Drafts(), db.History(), users, reconciler, submission, NewFinalizer(db.Submissions()), index)

	return &fixture{
		db:         db,
		queue:      queue,
		user:       db.AddUser(testUser, testOrg),
		users:      users,
		submission: submission,
		wizard:     wizardSvc,
		campaigns:  NewCampaignService(db.Drafts(), db.History(), users, nil, index),
		identity:   Identity{ExternalUserID: testUser, OrganizationID: testOrg},
	}
}

// draft stores a draft in the test organization owned by the test user.
func (f *fixture) draft(mutate func(d *models.CampaignDraft)) *models.CampaignDraft {
	org := testOrg
	d := &models.CampaignDraft{OrganizationID: &org, UserID: f.user.ID}
	if mutate != nil {
		mutate(d)
	}
	return f.db.AddDraft(d)
}

func (f *fixture) asset(draftID uuid.UUID, name string) *models.CreativeAsset {
	id := draftID
	return f.db.AddAsset(&models.CreativeAsset{DraftID: &id, Name: name, FileName: name + ".mp4"})
}

func completeContact() models.JSONB {
	return models.JSONB{
		"firstName": "Ada",
		"surname":   "Lovelace",
		"email":     "ada@example.com",
		"position":  "CMO",
	}
}

func strPtr(s string) *string { return &s }

func assertKind(t *testing.T, err error, kind Kind, key string) {
	t.Helper()
	var svcErr *Error
	require.True(t, errors.As(err, &svcErr), "expected *services.Error, got %T", err)
	require.Equal(t, kind, svcErr.Kind)
	require.Equal(t, key, svcErr.Key)
}
