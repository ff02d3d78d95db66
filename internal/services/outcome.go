// internal/services/outcome.go
package services

import (
	"fmt"
	"strings"

	"github.com/javajoker/campaign-wizard/internal/wizard"
)

// StepSaveOutcome records what a step save did once the draft row was
// written. Failures here never undo the draft write.
type StepSaveOutcome struct {
	Step       wizard.Step
	DraftSaved bool

	InfluencersUpdated bool
	InfluencerError    error

	AssetsUpdated        bool
	ReconciliationErrors []error

	SubmissionInitialized bool
	SubmissionInitError   error

	Finalized         bool
	FinalizationError error
	ReparentedAssets  int64
}

// Failed reports whether any post-save side effect failed.
func (o *StepSaveOutcome) Failed() bool {
	return o.InfluencerError != nil ||
		len(o.ReconciliationErrors) > 0 ||
		o.SubmissionInitError != nil ||
		o.FinalizationError != nil
}

// Message renders the human summary, e.g. "Step 1 updated with influencers".
func (o *StepSaveOutcome) Message() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Step %d updated", o.Step.Int())

	switch {
	case o.InfluencerError != nil:
		b.WriteString(" (influencer update error)")
	case o.InfluencersUpdated:
		b.WriteString(" with influencers")
	}

	switch {
	case len(o.ReconciliationErrors) > 0:
		b.WriteString(" (asset update error)")
	case o.AssetsUpdated:
		b.WriteString(" with assets")
	}

	switch {
	case o.SubmissionInitError != nil:
		b.WriteString(" (submission initialization error)")
	case o.SubmissionInitialized:
		b.WriteString(" and submission initialized")
	}

	switch {
	case o.FinalizationError != nil:
		b.WriteString(" (submission finalization error)")
	case o.Finalized:
		b.WriteString(" and submitted")
	}

	return b.String()
}
