package wizard

import (
	"github.com/javajoker/campaign-wizard/internal/models"
)

// CompletionFlags are the four per-step completion booleans. Step 5 has no
// flag of its own.
type CompletionFlags struct {
	Step1 bool
	Step2 bool
	Step3 bool
	Step4 bool
}

func FlagsOf(draft *models.CampaignDraft) CompletionFlags {
	return CompletionFlags{
		Step1: draft.Step1Complete,
		Step2: draft.Step2Complete,
		Step3: draft.Step3Complete,
		Step4: draft.Step4Complete,
	}
}

// EvaluateCompletion returns the draft's isComplete value after delta is
// applied on top of the persisted flags.
func EvaluateCompletion(persisted CompletionFlags, delta models.DraftDelta) bool {
	pick := func(column string, current bool) bool {
		if v, ok := delta.Bool(column); ok {
			return v
		}
		return current
	}

	return pick(models.ColumnStep1Complete, persisted.Step1) &&
		pick(models.ColumnStep2Complete, persisted.Step2) &&
		pick(models.ColumnStep3Complete, persisted.Step3) &&
		pick(models.ColumnStep4Complete, persisted.Step4)
}
