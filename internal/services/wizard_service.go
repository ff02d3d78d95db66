// internal/services/wizard_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/campaign-wizard/internal/i18n"
	"github.com/javajoker/campaign-wizard/internal/metrics"
	"github.com/javajoker/campaign-wizard/internal/models"
	"github.com/javajoker/campaign-wizard/internal/repository"
	"github.com/javajoker/campaign-wizard/internal/wizard"
)

// IndexQueue accepts drafts for asynchronous search index updates. Both
// calls return immediately.
type IndexQueue interface {
	Enqueue(draft *models.CampaignDraft)
	EnqueueDelete(draftID uuid.UUID, organizationID *string)
}

// postSaveHook runs after the draft row is written. It records what it did
// on the outcome and reports whether the draft must be read again.
type postSaveHook func(ctx context.Context, save *stepSave) bool

type stepEntry struct {
	definition wizard.Definition
	postSave   postSaveHook
}

// stepSave is the state of one step save as it moves through the hooks.
type stepSave struct {
	payload wizard.Payload
	draft   *models.CampaignDraft
	editor  *models.User
	outcome *StepSaveOutcome
	log     *logrus.Entry
}

type WizardService struct {
	drafts     repository.DraftStore
	history    repository.HistoryStore
	users      *UserService
	reconciler *Reconciler
	submission *SubmissionService
	finalizer  *Finalizer
	index      IndexQueue
	steps      map[wizard.Step]stepEntry
	now        func() time.Time
}

func NewWizardService(
	drafts repository.DraftStore,
	history repository.HistoryStore,
	users *UserService,
	reconciler *Reconciler,
	submission *SubmissionService,
	finalizer *Finalizer,
	index IndexQueue,
) *WizardService {
	s := &WizardService{
		drafts:     drafts,
		history:    history,
		users:      users,
		reconciler: reconciler,
		submission: submission,
		finalizer:  finalizer,
		index:      index,
		now:        time.Now,
	}
	s.steps = map[wizard.Step]stepEntry{
		wizard.Step1: s.entry(wizard.Step1, s.replaceInfluencers),
		wizard.Step2: s.entry(wizard.Step2, nil),
		wizard.Step3: s.entry(wizard.Step3, s.initializeSubmission),
		wizard.Step4: s.entry(wizard.Step4, s.syncAssets),
		wizard.Step5: s.entry(wizard.Step5, s.finalize),
	}
	return s
}

func (s *WizardService) entry(step wizard.Step, hook postSaveHook) stepEntry {
	def, err := wizard.Lookup(step)
	if err != nil {
		panic(fmt.Sprintf("wizard step %d has no schema", step))
	}
	return stepEntry{definition: def, postSave: hook}
}

// SaveStep validates body against the step schema and writes it to the
// draft. Everything up to and including the draft write must succeed; side
// effects after it are reported on the outcome instead of failing the call.
func (s *WizardService) SaveStep(ctx context.Context, identity Identity, draftID uuid.UUID, step wizard.Step, body []byte) (*DraftRepresentation, *StepSaveOutcome, error) {
	started := s.now()
	rep, outcome, err := s.saveStep(ctx, identity, draftID, step, body)

	result := "ok"
	switch {
	case err != nil:
		result = "error"
	case outcome.Failed():
		result = "partial"
	}
	metrics.RecordStepSave(step.Int(), result, time.Since(started).Seconds())

	return rep, outcome, err
}

func (s *WizardService) saveStep(ctx context.Context, identity Identity, draftID uuid.UUID, step wizard.Step, body []byte) (*DraftRepresentation, *StepSaveOutcome, error) {
	if err := identity.check(); err != nil {
		return nil, nil, err
	}

	entry, ok := s.steps[step]
	if !ok {
		return nil, nil, newError(KindBadRequest, i18n.KeyWizardInvalidStep, wizard.ErrInvalidStep)
	}

	fields, err := wizard.DecodeObject(body)
	if err != nil {
		return nil, nil, classify(err, i18n.KeyCampaignNotFound)
	}
	payload, err := entry.definition.Decode(fields)
	if err != nil {
		return nil, nil, classify(err, i18n.KeyCampaignNotFound)
	}

	editor, err := s.users.Resolve(ctx, identity)
	if err != nil {
		return nil, nil, err
	}

	current, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		return nil, nil, classify(err, i18n.KeyCampaignNotFound)
	}
	if err := identity.canWrite(current); err != nil {
		return nil, nil, err
	}

	delta := entry.definition.Map(payload, wizard.Stamp{EditorID: editor.ID, At: s.now()})
	if step != wizard.Step5 {
		delta[models.ColumnIsComplete] = wizard.EvaluateCompletion(wizard.FlagsOf(current), delta)
	}

	log := logrus.WithFields(logrus.Fields{
		"draft_id": draftID.String(),
		"step":     step.Int(),
		"org_id":   identity.OrganizationID,
		"user_id":  editor.ID.String(),
	})

	saved, err := s.drafts.Update(ctx, draftID, delta)
	if err != nil {
		log.WithError(err).Error("Failed to save wizard step")
		return nil, nil, classify(err, i18n.KeyCampaignNotFound)
	}

	outcome := &StepSaveOutcome{Step: step, DraftSaved: true}
	save := &stepSave{
		payload: payload,
		draft:   saved,
		editor:  editor,
		outcome: outcome,
		log:     log,
	}

	if entry.postSave != nil && entry.postSave(ctx, save) {
		refreshed, err := s.drafts.Get(ctx, draftID)
		if err != nil {
			log.WithError(err).Warn("Failed to re-read draft after step side effects")
		} else {
			save.draft = refreshed
		}
	}

	s.recordHistory(ctx, save, delta)

	rep := AssembleDraft(save.draft)
	rep.Message = outcome.Message()
	if outcome.Failed() {
		log.WithField("message", rep.Message).Warn("Wizard step saved with side effect errors")
	} else {
		log.Info("Wizard step saved")
	}

	s.index.Enqueue(save.draft)

	return rep, outcome, nil
}

// GetStep returns the draft as seen from one wizard step.
func (s *WizardService) GetStep(ctx context.Context, identity Identity, draftID uuid.UUID, step wizard.Step) (*DraftRepresentation, error) {
	if err := identity.check(); err != nil {
		return nil, err
	}
	if !step.Valid() {
		return nil, newError(KindBadRequest, i18n.KeyWizardInvalidStep, wizard.ErrInvalidStep)
	}

	user, err := s.users.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}
	draft, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		return nil, classify(err, i18n.KeyCampaignNotFound)
	}
	if err := identity.canRead(user, draft); err != nil {
		return nil, err
	}
	return AssembleDraft(draft), nil
}

func (s *WizardService) replaceInfluencers(ctx context.Context, save *stepSave) bool {
	p := save.payload.(*wizard.Step1Payload)
	if !p.Influencers.Present() {
		return false
	}

	n, err := s.reconciler.ReplaceInfluencers(ctx, save.draft.ID, p.Influencers.Value)
	if err != nil {
		save.log.WithError(err).Error("Failed to replace influencers")
		metrics.RecordSideEffectFailure("influencers")
		save.outcome.InfluencerError = err
		return false
	}
	save.log.WithField("count", n).Debug("Influencers replaced")
	save.outcome.InfluencersUpdated = true
	return true
}

func (s *WizardService) initializeSubmission(ctx context.Context, save *stepSave) bool {
	p := save.payload.(*wizard.Step3Payload)
	if !p.Step3Complete.Present() || !p.Step3Complete.Value || save.draft.SubmissionID != nil {
		return false
	}

	created, err := s.submission.Initialize(ctx, save.draft, save.editor)
	if err != nil {
		save.log.WithError(err).Error("Failed to initialize submission")
		metrics.RecordSideEffectFailure("submission_init")
		save.outcome.SubmissionInitError = err
		return false
	}
	save.outcome.SubmissionInitialized = created
	return created
}

func (s *WizardService) syncAssets(ctx context.Context, save *stepSave) bool {
	p := save.payload.(*wizard.Step4Payload)
	if !p.Assets.Present() {
		return false
	}

	errs := s.reconciler.SyncAssets(ctx, save.draft.ID, p.Assets.Value, p.VerbatimAssets())
	if len(errs) > 0 {
		metrics.RecordSideEffectFailure("assets")
		save.outcome.ReconciliationErrors = errs
	}
	save.outcome.AssetsUpdated = true
	return true
}

func (s *WizardService) finalize(ctx context.Context, save *stepSave) bool {
	p := save.payload.(*wizard.Step5Payload)
	status, ok := p.RequestedStatus()
	if !ok || !status.IsForwardTransition() {
		return false
	}

	moved, err := s.finalizer.Finalize(ctx, save.draft)
	if err != nil {
		entry := save.log.WithError(err).WithField("status", string(status))
		if errors.Is(err, ErrNoSubmission) {
			entry.Error("Draft reached a submitted status without a submission")
		} else {
			entry.Error("Failed to finalize submission")
		}
		metrics.RecordSideEffectFailure("finalize")
		save.outcome.FinalizationError = err
		return false
	}

	save.log.WithField("reparented_assets", moved).Info("Submission finalized")
	save.outcome.Finalized = true
	save.outcome.ReparentedAssets = moved
	return true
}

func (s *WizardService) recordHistory(ctx context.Context, save *stepSave, delta models.DraftDelta) {
	if s.history == nil {
		return
	}

	changes := delta.Columns()
	sort.Strings(changes)
	entry := &models.WizardHistory{
		DraftID:     save.draft.ID,
		Step:        save.outcome.Step.Int(),
		Action:      save.outcome.Message(),
		Changes:     changes,
		PerformedBy: save.editor.ID,
	}
	if err := s.history.Record(ctx, entry); err != nil {
		save.log.WithError(err).Warn("Failed to record wizard history")
	}
}
