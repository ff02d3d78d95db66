package wizard

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/javajoker/campaign-wizard/internal/models"
)

// Stamp identifies who wrote a delta and when.
type Stamp struct {
	EditorID uuid.UUID
	At       time.Time
}

func newDelta(stamp Stamp) models.DraftDelta {
	return models.DraftDelta{
		models.ColumnUpdatedAt:      stamp.At,
		models.ColumnLastEditedByID: stamp.EditorID,
	}
}

// put writes f into column: absent is skipped, null clears, a value is converted.
func put[T any](delta models.DraftDelta, column string, f Field[T], convert func(T) interface{}) {
	if !f.Set {
		return
	}
	if f.Null {
		delta[column] = nil
		return
	}
	delta[column] = convert(f.Value)
}

func asIs[T any](v T) interface{} { return v }

func trimmed(v string) interface{} { return strings.TrimSpace(v) }

func upper(v string) interface{} { return strings.ToUpper(strings.TrimSpace(v)) }

func dateValue(d Date) interface{} { return d.Time }

func upperArray(values []string) interface{} {
	out := make(pq.StringArray, 0, len(values))
	for _, v := range values {
		out = append(out, strings.ToUpper(strings.TrimSpace(v)))
	}
	return out
}

func stringArray(values []string) interface{} {
	out := make(pq.StringArray, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func object[T any](v T) interface{} {
	return toJSONB(v)
}

func objects[T any](values []T) interface{} {
	out := make(models.JSONArray, 0, len(values))
	for _, v := range values {
		out = append(out, toJSONB(v))
	}
	return out
}

func toJSONB(v interface{}) models.JSONB {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out models.JSONB
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}

func mapStep1(p *Step1Payload, stamp Stamp) models.DraftDelta {
	delta := newDelta(stamp)
	put(delta, "name", p.Name, trimmed)
	put(delta, "business_goal", p.BusinessGoal, asIs[string])
	put(delta, "brand", p.Brand, trimmed)
	put(delta, "website", p.Website, trimmed)
	put(delta, "start_date", p.StartDate, dateValue)
	put(delta, "end_date", p.EndDate, dateValue)
	put(delta, "time_zone", p.TimeZone, trimmed)
	put(delta, "budget", p.Budget, object[Budget])
	put(delta, "primary_contact", p.PrimaryContact, object[Contact])
	put(delta, "secondary_contact", p.SecondaryContact, object[Contact])
	put(delta, "additional_contacts", p.AdditionalContacts, objects[Contact])
	put(delta, models.ColumnStep1Complete, p.Step1Complete, asIs[bool])
	return delta
}

func mapStep2(p *Step2Payload, stamp Stamp) models.DraftDelta {
	delta := newDelta(stamp)
	put(delta, "primary_kpi", p.PrimaryKPI, upper)
	put(delta, "secondary_kpis", p.SecondaryKPIs, upperArray)
	put(delta, "features", p.Features, upperArray)
	put(delta, "messaging", p.Messaging, object[Messaging])
	put(delta, "expected_outcomes", p.ExpectedOutcomes, object[ExpectedOutcomes])
	put(delta, models.ColumnStep2Complete, p.Step2Complete, asIs[bool])
	return delta
}

func mapStep3(p *Step3Payload, stamp Stamp) models.DraftDelta {
	delta := newDelta(stamp)
	put(delta, "demographics", p.Demographics, object[Demographics])
	put(delta, "locations", p.Locations, objects[Location])
	put(delta, "targeting", p.Targeting, func(v map[string]interface{}) interface{} { return models.JSONB(v) })
	put(delta, "competitors", p.Competitors, stringArray)
	put(delta, models.ColumnStep3Complete, p.Step3Complete, asIs[bool])
	return delta
}

// mapStep4 leaves the asset list to the reconciler.
func mapStep4(p *Step4Payload, stamp Stamp) models.DraftDelta {
	delta := newDelta(stamp)
	put(delta, "target_platforms", p.TargetPlatforms, upperArray)
	put(delta, "guidelines", p.Guidelines, asIs[string])
	put(delta, "requirements", p.Requirements, asIs[string])
	put(delta, "notes", p.Notes, asIs[string])
	put(delta, models.ColumnStep4Complete, p.Step4Complete, asIs[bool])
	return delta
}

func mapStep5(p *Step5Payload, stamp Stamp) models.DraftDelta {
	delta := newDelta(stamp)
	put(delta, models.ColumnStatus, p.Status, func(v string) interface{} {
		return strings.ToUpper(strings.TrimSpace(v))
	})
	return delta
}

// RequestedStatus returns the normalized status a step 5 payload asks for.
func (p *Step5Payload) RequestedStatus() (models.CampaignStatus, bool) {
	if !p.Status.Present() {
		return "", false
	}
	return models.CampaignStatus(strings.ToUpper(strings.TrimSpace(p.Status.Value))), true
}
