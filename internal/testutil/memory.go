// Package testutil provides in-memory stand-ins for the repository stores so
// service and handler tests run without Postgres.
package testutil

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm/schema"

	"github.com/javajoker/campaign-wizard/internal/models"
	"github.com/javajoker/campaign-wizard/internal/repository"
	"github.com/javajoker/campaign-wizard/internal/utils"
)

// MemoryDB holds every table the stores touch. The Fail* fields inject
// errors into the matching operations.
type MemoryDB struct {
	mu sync.Mutex

	drafts      map[uuid.UUID]*models.CampaignDraft
	influencers map[uuid.UUID][]models.InfluencerAssignment
	assets      map[uint]*models.CreativeAsset
	submissions map[uint]*models.Submission
	users       map[string]*models.User
	history     []models.WizardHistory

	nextAssetID      uint
	nextSubmissionID uint

	FailInfluencers error
	FailAssetCreate error
	FailAssetUpdate map[uint]error
	FailFinalize    error
	FailHistory     error
	FailUpdate      error
}

func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		drafts:          map[uuid.UUID]*models.CampaignDraft{},
		influencers:     map[uuid.UUID][]models.InfluencerAssignment{},
		assets:          map[uint]*models.CreativeAsset{},
		submissions:     map[uint]*models.Submission{},
		users:           map[string]*models.User{},
		FailAssetUpdate: map[uint]error{},
	}
}

func (db *MemoryDB) Drafts() *DraftStore           { return &DraftStore{db: db} }
func (db *MemoryDB) Influencers() *InfluencerStore { return &InfluencerStore{db: db} }
func (db *MemoryDB) Assets() *AssetStore           { return &AssetStore{db: db} }
func (db *MemoryDB) Submissions() *SubmissionStore { return &SubmissionStore{db: db} }
func (db *MemoryDB) Users() *UserStore             { return &UserStore{db: db} }
func (db *MemoryDB) History() *HistoryStore        { return &HistoryStore{db: db} }

// AddUser stores a user with the given external id and organization.
func (db *MemoryDB) AddUser(externalID, organizationID string) *models.User {
	db.mu.Lock()
	defer db.mu.Unlock()

	user := &models.User{ExternalID: externalID, Email: externalID + "@example.com"}
	user.ID = uuid.New()
	if organizationID != "" {
		user.OrganizationID = &organizationID
	}
	db.users[externalID] = user
	return user
}

// AddDraft stores draft, filling id, timestamps and status when unset.
func (db *MemoryDB) AddDraft(draft *models.CampaignDraft) *models.CampaignDraft {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.insertDraft(draft)
	return draft
}

func (db *MemoryDB) insertDraft(draft *models.CampaignDraft) {
	if draft.ID == uuid.Nil {
		draft.ID = uuid.New()
	}
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = time.Now()
		draft.UpdatedAt = draft.CreatedAt
	}
	if draft.Status == "" {
		draft.Status = models.CampaignStatusDraft
	}
	if draft.CurrentStep == 0 {
		draft.CurrentStep = 1
	}
	stored := *draft
	stored.Influencers, stored.CreativeAssets, stored.Submission = nil, nil, nil
	db.drafts[draft.ID] = &stored
}

// AddAsset stores asset and assigns its id.
func (db *MemoryDB) AddAsset(asset *models.CreativeAsset) *models.CreativeAsset {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.insertAsset(asset)
	return asset
}

func (db *MemoryDB) insertAsset(asset *models.CreativeAsset) {
	db.nextAssetID++
	asset.ID = db.nextAssetID
	if asset.Type == "" {
		asset.Type = models.AssetTypeVideo
	}
	now := time.Now()
	asset.CreatedAt, asset.UpdatedAt = now, now
	stored := *asset
	db.assets[asset.ID] = &stored
}

// AddSubmission stores submission, links it to its draft and assigns its id.
func (db *MemoryDB) AddSubmission(submission *models.Submission) *models.Submission {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.insertSubmission(submission)
	if draft, ok := db.drafts[submission.DraftID]; ok {
		id := submission.ID
		draft.SubmissionID = &id
	}
	return submission
}

func (db *MemoryDB) insertSubmission(submission *models.Submission) {
	db.nextSubmissionID++
	submission.ID = db.nextSubmissionID
	now := time.Now()
	submission.CreatedAt, submission.UpdatedAt = now, now
	stored := *submission
	db.submissions[submission.ID] = &stored
}

// Asset returns a copy of the stored asset.
func (db *MemoryDB) Asset(id uint) (models.CreativeAsset, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	asset, ok := db.assets[id]
	if !ok {
		return models.CreativeAsset{}, false
	}
	return *asset, true
}

// Submission returns a copy of the stored submission.
func (db *MemoryDB) Submission(id uint) (models.Submission, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	sub, ok := db.submissions[id]
	if !ok {
		return models.Submission{}, false
	}
	return *sub, true
}

// HistoryEntries returns every recorded history row in insertion order.
func (db *MemoryDB) HistoryEntries() []models.WizardHistory {
	db.mu.Lock()
	defer db.mu.Unlock()
	return append([]models.WizardHistory(nil), db.history...)
}

// load returns a copy of the draft with its children attached.
func (db *MemoryDB) load(id uuid.UUID) (*models.CampaignDraft, bool) {
	stored, ok := db.drafts[id]
	if !ok {
		return nil, false
	}
	draft := *stored

	draft.Influencers = append([]models.InfluencerAssignment{}, db.influencers[id]...)

	var ids []uint
	for assetID, asset := range db.assets {
		if asset.DraftID != nil && *asset.DraftID == id {
			ids = append(ids, assetID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	draft.CreativeAssets = make([]models.CreativeAsset, 0, len(ids))
	for _, assetID := range ids {
		draft.CreativeAssets = append(draft.CreativeAssets, *db.assets[assetID])
	}

	if draft.SubmissionID != nil {
		if sub, ok := db.submissions[*draft.SubmissionID]; ok {
			copied := *sub
			draft.Submission = &copied
		}
	}
	return &draft, true
}

func (db *MemoryDB) reparent(draftID uuid.UUID, submissionID uint) int64 {
	var moved int64
	for _, asset := range db.assets {
		if asset.DraftID != nil && *asset.DraftID == draftID && asset.SubmissionID == nil {
			id := submissionID
			asset.SubmissionID = &id
			asset.DraftID = nil
			moved++
		}
	}
	return moved
}

// DraftStore is the in-memory repository.DraftStore.
type DraftStore struct{ db *MemoryDB }

var _ repository.DraftStore = (*DraftStore)(nil)

func (s *DraftStore) Get(_ context.Context, id uuid.UUID) (*models.CampaignDraft, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	draft, ok := s.db.load(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return draft, nil
}

func (s *DraftStore) Update(_ context.Context, id uuid.UUID, delta models.DraftDelta) (*models.CampaignDraft, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if s.db.FailUpdate != nil {
		return nil, s.db.FailUpdate
	}
	stored, ok := s.db.drafts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	updated := *stored
	if err := ApplyDelta(&updated, delta); err != nil {
		return nil, err
	}
	*stored = updated

	draft, _ := s.db.load(id)
	return draft, nil
}

func (s *DraftStore) Create(_ context.Context, draft *models.CampaignDraft) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.insertDraft(draft)
	return nil
}

func (s *DraftStore) List(_ context.Context, organizationID string, params utils.PaginationParams) ([]models.CampaignDraft, int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	var matched []models.CampaignDraft
	for id, stored := range s.db.drafts {
		if stored.OrganizationID == nil || *stored.OrganizationID != organizationID {
			continue
		}
		if params.Status != "" && string(stored.Status) != params.Status {
			continue
		}
		if params.Search != "" && !matchesSearch(stored, params.Search) {
			continue
		}
		draft, _ := s.db.load(id)
		matched = append(matched, *draft)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := (params.Page - 1) * params.Limit
	if start < 0 || start >= len(matched) {
		return []models.CampaignDraft{}, total, nil
	}
	end := start + params.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func matchesSearch(draft *models.CampaignDraft, search string) bool {
	search = strings.ToLower(search)
	for _, v := range []*string{draft.Name, draft.Brand} {
		if v != nil && strings.Contains(strings.ToLower(*v), search) {
			return true
		}
	}
	return false
}

func (s *DraftStore) Delete(_ context.Context, draft *models.CampaignDraft) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	stored, ok := s.db.drafts[draft.ID]
	if !ok {
		return repository.ErrNotFound
	}
	delete(s.db.influencers, draft.ID)

	kept := s.db.history[:0]
	for _, entry := range s.db.history {
		if entry.DraftID != draft.ID {
			kept = append(kept, entry)
		}
	}
	s.db.history = kept

	if stored.SubmissionID != nil {
		if sub, ok := s.db.submissions[*stored.SubmissionID]; ok && sub.Status == models.SubmissionStatusDraft {
			delete(s.db.submissions, sub.ID)
		}
	}
	for _, asset := range s.db.assets {
		if asset.DraftID != nil && *asset.DraftID == draft.ID && asset.SubmissionID == nil {
			asset.DraftID = nil
		}
	}
	delete(s.db.drafts, draft.ID)
	return nil
}

// InfluencerStore is the in-memory repository.InfluencerStore.
type InfluencerStore struct{ db *MemoryDB }

var _ repository.InfluencerStore = (*InfluencerStore)(nil)

func (s *InfluencerStore) Replace(_ context.Context, draftID uuid.UUID, rows []models.InfluencerAssignment) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.FailInfluencers != nil {
		return s.db.FailInfluencers
	}
	s.db.influencers[draftID] = append([]models.InfluencerAssignment{}, rows...)
	return nil
}

// AssetStore is the in-memory repository.AssetStore.
type AssetStore struct{ db *MemoryDB }

var _ repository.AssetStore = (*AssetStore)(nil)

func (s *AssetStore) Create(_ context.Context, asset *models.CreativeAsset) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.FailAssetCreate != nil {
		return s.db.FailAssetCreate
	}
	s.db.insertAsset(asset)
	return nil
}

func (s *AssetStore) UpdateText(_ context.Context, draftID uuid.UUID, assetID uint, text repository.AssetText) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if err := s.db.FailAssetUpdate[assetID]; err != nil {
		return err
	}
	asset, ok := s.db.assets[assetID]
	if !ok || asset.DraftID == nil || *asset.DraftID != draftID {
		return fmt.Errorf("asset %d: %w", assetID, repository.ErrNotFound)
	}
	if text.Name != nil {
		asset.Name = *text.Name
	}
	if text.Description != nil {
		asset.Description = *text.Description
	}
	return nil
}

// SubmissionStore is the in-memory repository.SubmissionStore.
type SubmissionStore struct{ db *MemoryDB }

var _ repository.SubmissionStore = (*SubmissionStore)(nil)

func (s *SubmissionStore) Get(_ context.Context, id uint) (*models.Submission, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	sub, ok := s.db.submissions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *sub
	return &copied, nil
}

func (s *SubmissionStore) Initialize(_ context.Context, submission *models.Submission, currentStep int) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	draft, ok := s.db.drafts[submission.DraftID]
	if !ok {
		return repository.ErrNotFound
	}
	if draft.SubmissionID != nil {
		return repository.ErrConflict
	}
	s.db.insertSubmission(submission)
	id := submission.ID
	draft.SubmissionID = &id
	draft.CurrentStep = currentStep
	return nil
}

func (s *SubmissionStore) Finalize(_ context.Context, submissionID uint, draftID uuid.UUID) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if s.db.FailFinalize != nil {
		return 0, s.db.FailFinalize
	}
	sub, ok := s.db.submissions[submissionID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	sub.Status = models.SubmissionStatusSubmitted
	if sub.SubmittedAt == nil {
		now := time.Now()
		sub.SubmittedAt = &now
	}
	return s.db.reparent(draftID, submissionID), nil
}

func (s *SubmissionStore) Submit(_ context.Context, record repository.SubmitRecord) (*models.Submission, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	draft, ok := s.db.drafts[record.Draft.ID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if draft.Status != models.CampaignStatusDraft {
		return nil, repository.ErrConflict
	}

	var sub *models.Submission
	if draft.SubmissionID == nil {
		created := &models.Submission{DraftID: draft.ID}
		s.db.insertSubmission(created)
		sub = s.db.submissions[created.ID]
	} else {
		sub, ok = s.db.submissions[*draft.SubmissionID]
		if !ok || sub.Status != models.SubmissionStatusDraft {
			return nil, repository.ErrConflict
		}
	}
	at := record.At
	sub.Status = models.SubmissionStatusSubmitted
	sub.Snapshot = record.Snapshot
	sub.SubmittedBy = record.SubmittedBy
	sub.SubmittedAt = &at

	s.db.reparent(draft.ID, sub.ID)

	id := sub.ID
	draft.SubmissionID = &id
	draft.Status = models.CampaignStatusSubmitted
	draft.UpdatedAt = at

	copied := *sub
	return &copied, nil
}

// UserStore is the in-memory repository.UserStore.
type UserStore struct{ db *MemoryDB }

var _ repository.UserStore = (*UserStore)(nil)

func (s *UserStore) FindByExternalID(_ context.Context, externalID string) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	user, ok := s.db.users[externalID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *UserStore) Upsert(_ context.Context, user *models.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	now := time.Now()
	if existing, ok := s.db.users[user.ExternalID]; ok {
		existing.Email = user.Email
		existing.Name = user.Name
		existing.OrganizationID = user.OrganizationID
		existing.LastSeenAt = &now
		*user = *existing
		return nil
	}
	user.ID = uuid.New()
	user.LastSeenAt = &now
	stored := *user
	s.db.users[user.ExternalID] = &stored
	return nil
}

// HistoryStore is the in-memory repository.HistoryStore.
type HistoryStore struct{ db *MemoryDB }

var _ repository.HistoryStore = (*HistoryStore)(nil)

func (s *HistoryStore) Record(_ context.Context, entry *models.WizardHistory) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.FailHistory != nil {
		return s.db.FailHistory
	}
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now()
	s.db.history = append(s.db.history, *entry)
	return nil
}

func (s *HistoryStore) ListByDraft(_ context.Context, draftID uuid.UUID, limit int) ([]models.WizardHistory, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	var entries []models.WizardHistory
	for i := len(s.db.history) - 1; i >= 0 && len(entries) < limit; i-- {
		if s.db.history[i].DraftID == draftID {
			entries = append(entries, s.db.history[i])
		}
	}
	return entries, nil
}

var naming = schema.NamingStrategy{}

// ApplyDelta writes delta onto draft the way an UPDATE of those columns
// would. Unknown columns are an error.
func ApplyDelta(draft *models.CampaignDraft, delta models.DraftDelta) error {
	fields := map[string]reflect.Value{}
	collectColumns(reflect.ValueOf(draft).Elem(), fields)

	for column, value := range delta {
		field, ok := fields[column]
		if !ok {
			return fmt.Errorf("unknown column %q", column)
		}
		if err := assign(field, value); err != nil {
			return fmt.Errorf("column %q: %w", column, err)
		}
	}
	return nil
}

func collectColumns(v reflect.Value, out map[string]reflect.Value) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous {
			collectColumns(v.Field(i), out)
			continue
		}
		column := naming.ColumnName("", sf.Name)
		for _, part := range strings.Split(sf.Tag.Get("gorm"), ";") {
			if strings.HasPrefix(part, "column:") {
				column = strings.TrimPrefix(part, "column:")
			}
		}
		out[column] = v.Field(i)
	}
}

func assign(field reflect.Value, value interface{}) error {
	if value == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}

	rv := reflect.ValueOf(value)
	target := field.Type()
	if rv.Type().ConvertibleTo(target) && rv.Kind() == target.Kind() {
		field.Set(rv.Convert(target))
		return nil
	}
	if target.Kind() == reflect.Ptr && rv.Type().ConvertibleTo(target.Elem()) && rv.Kind() == target.Elem().Kind() {
		ptr := reflect.New(target.Elem())
		ptr.Elem().Set(rv.Convert(target.Elem()))
		field.Set(ptr)
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, target)
}
