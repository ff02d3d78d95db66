package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/javajoker/campaign-wizard/internal/wizard"
)

func TestStepSaveOutcomeMessage(t *testing.T) {
	boom := errors.New("boom")

	cases := []struct {
		name    string
		outcome StepSaveOutcome
		want    string
	}{
		{"plain", StepSaveOutcome{Step: wizard.Step2, DraftSaved: true}, "Step 2 updated"},
		{"influencers", StepSaveOutcome{Step: wizard.Step1, InfluencersUpdated: true}, "Step 1 updated with influencers"},
		{"influencer error", StepSaveOutcome{Step: wizard.Step1, InfluencerError: boom}, "Step 1 updated (influencer update error)"},
		{"assets", StepSaveOutcome{Step: wizard.Step4, AssetsUpdated: true}, "Step 4 updated with assets"},
		{"asset error", StepSaveOutcome{Step: wizard.Step4, AssetsUpdated: true, ReconciliationErrors: []error{boom}}, "Step 4 updated (asset update error)"},
		{"submission initialized", StepSaveOutcome{Step: wizard.Step3, SubmissionInitialized: true}, "Step 3 updated and submission initialized"},
		{"submission init error", StepSaveOutcome{Step: wizard.Step3, SubmissionInitError: boom}, "Step 3 updated (submission initialization error)"},
		{"finalized", StepSaveOutcome{Step: wizard.Step5, Finalized: true}, "Step 5 updated and submitted"},
		{"finalization error", StepSaveOutcome{Step: wizard.Step5, FinalizationError: boom}, "Step 5 updated (submission finalization error)"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.outcome.Message())
		})
	}
}
