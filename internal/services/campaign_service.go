// internal/services/campaign_service.go
package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/campaign-wizard/internal/i18n"
	"github.com/javajoker/campaign-wizard/internal/models"
	"github.com/javajoker/campaign-wizard/internal/repository"
	"github.com/javajoker/campaign-wizard/internal/utils"
)

const (
	defaultSearchLimit  = 20
	maxSearchLimit      = 100
	defaultHistoryLimit = 50
)

// SearchIndex answers full-text queries over indexed drafts.
type SearchIndex interface {
	Search(ctx context.Context, organizationID, query string, limit int) ([]models.CampaignSearchDocument, error)
}

type CampaignService struct {
	drafts  repository.DraftStore
	history repository.HistoryStore
	users   *UserService
	search  SearchIndex
	index   IndexQueue
}

type CreateCampaignRequest struct {
	Name  string `json:"name" validate:"max=255"`
	Brand string `json:"brand" validate:"max=255"`
}

func NewCampaignService(drafts repository.DraftStore, history repository.HistoryStore, users *UserService, search SearchIndex, index IndexQueue) *CampaignService {
	return &CampaignService{
		drafts:  drafts,
		history: history,
		users:   users,
		search:  search,
		index:   index,
	}
}

// Create starts a new draft owned by the caller in the caller's organization.
func (s *CampaignService) Create(ctx context.Context, identity Identity, req CreateCampaignRequest) (*DraftRepresentation, error) {
	if err := identity.check(); err != nil {
		return nil, err
	}
	user, err := s.users.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}

	org := identity.OrganizationID
	draft := &models.CampaignDraft{
		OrganizationID: &org,
		UserID:         user.ID,
		LastEditedByID: &user.ID,
		CurrentStep:    1,
		Status:         models.CampaignStatusDraft,
		Name:           optionalString(req.Name),
		Brand:          optionalString(req.Brand),
	}
	if err := s.drafts.Create(ctx, draft); err != nil {
		return nil, classify(err, i18n.KeyCampaignNotFound)
	}

	logrus.WithFields(logrus.Fields{
		"draft_id": draft.ID.String(),
		"org_id":   org,
		"user_id":  user.ID.String(),
	}).Info("Campaign draft created")

	s.index.Enqueue(draft)
	return AssembleDraft(draft), nil
}

// List returns one page of the organization's drafts.
func (s *CampaignService) List(ctx context.Context, identity Identity, params utils.PaginationParams) ([]*DraftRepresentation, int64, error) {
	if err := identity.check(); err != nil {
		return nil, 0, err
	}

	drafts, total, err := s.drafts.List(ctx, identity.OrganizationID, params)
	if err != nil {
		return nil, 0, classify(err, i18n.KeyCampaignNotFound)
	}

	reps := make([]*DraftRepresentation, 0, len(drafts))
	for i := range drafts {
		reps = append(reps, AssembleDraft(&drafts[i]))
	}
	return reps, total, nil
}

// Get returns the full record of a draft the caller may read.
func (s *CampaignService) Get(ctx context.Context, identity Identity, draftID uuid.UUID) (*DraftRepresentation, error) {
	draft, _, err := s.readable(ctx, identity, draftID)
	if err != nil {
		return nil, err
	}
	return AssembleDraft(draft), nil
}

// Delete removes a draft and its dependents. The owner of a draft without an
// organization may still delete it.
func (s *CampaignService) Delete(ctx context.Context, identity Identity, draftID uuid.UUID) error {
	if err := identity.check(); err != nil {
		return err
	}
	user, err := s.users.Resolve(ctx, identity)
	if err != nil {
		return err
	}
	draft, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		return classify(err, i18n.KeyCampaignNotFound)
	}

	legacyOwner := draft.OrganizationID == nil && draft.UserID == user.ID
	if !legacyOwner {
		if err := identity.canWrite(draft); err != nil {
			return err
		}
	}

	if err := s.drafts.Delete(ctx, draft); err != nil {
		return classify(err, i18n.KeyCampaignNotFound)
	}

	logrus.WithFields(logrus.Fields{
		"draft_id": draftID.String(),
		"org_id":   identity.OrganizationID,
		"user_id":  user.ID.String(),
	}).Info("Campaign draft deleted")

	s.index.EnqueueDelete(draftID, draft.OrganizationID)
	return nil
}

// Search runs a full-text query over the organization's indexed drafts.
func (s *CampaignService) Search(ctx context.Context, identity Identity, query string, limit int) ([]models.CampaignSearchDocument, error) {
	if err := identity.check(); err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, newError(KindBadRequest, i18n.KeySearchQueryRequired, nil)
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	results, err := s.search.Search(ctx, identity.OrganizationID, query, limit)
	if err != nil {
		return nil, classify(err, i18n.KeyCampaignNotFound)
	}
	return results, nil
}

// History lists the most recent step saves of a draft, newest first.
func (s *CampaignService) History(ctx context.Context, identity Identity, draftID uuid.UUID) ([]models.WizardHistory, error) {
	if _, _, err := s.readable(ctx, identity, draftID); err != nil {
		return nil, err
	}

	entries, err := s.history.ListByDraft(ctx, draftID, defaultHistoryLimit)
	if err != nil {
		return nil, classify(err, i18n.KeyCampaignNotFound)
	}
	return entries, nil
}

func (s *CampaignService) readable(ctx context.Context, identity Identity, draftID uuid.UUID) (*models.CampaignDraft, *models.User, error) {
	if err := identity.check(); err != nil {
		return nil, nil, err
	}
	user, err := s.users.Resolve(ctx, identity)
	if err != nil {
		return nil, nil, err
	}
	draft, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		return nil, nil, classify(err, i18n.KeyCampaignNotFound)
	}
	if err := identity.canRead(user, draft); err != nil {
		return nil, nil, err
	}
	return draft, user, nil
}

func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
