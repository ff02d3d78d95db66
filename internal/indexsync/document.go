// Package indexsync pushes campaign drafts into search indexes off the
// request path.
package indexsync

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/javajoker/campaign-wizard/internal/models"
	"github.com/javajoker/campaign-wizard/internal/utils"
)

// Document is the denormalized form of a draft sent to an index.
type Document struct {
	ID              uuid.UUID  `json:"objectID"`
	OrganizationID  *string    `json:"organizationId"`
	UserID          uuid.UUID  `json:"userId"`
	Name            string     `json:"name"`
	Brand           string     `json:"brand"`
	BusinessGoal    string     `json:"businessGoal"`
	Status          string     `json:"status"`
	CurrentStep     int        `json:"currentStep"`
	IsComplete      bool       `json:"isComplete"`
	PrimaryKPI      string     `json:"primaryKPI,omitempty"`
	SecondaryKPIs   []string   `json:"secondaryKPIs,omitempty"`
	Features        []string   `json:"features,omitempty"`
	TargetPlatforms []string   `json:"targetPlatforms,omitempty"`
	Influencers     []string   `json:"influencers,omitempty"`
	StartDate       *time.Time `json:"startDate,omitempty"`
	EndDate         *time.Time `json:"endDate,omitempty"`
	SubmissionID    *uint      `json:"submissionId"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// BuildDocument copies the searchable fields out of draft.
func BuildDocument(draft *models.CampaignDraft) Document {
	doc := Document{
		ID:              draft.ID,
		OrganizationID:  draft.OrganizationID,
		UserID:          draft.UserID,
		Name:            deref(draft.Name),
		Brand:           deref(draft.Brand),
		BusinessGoal:    deref(draft.BusinessGoal),
		Status:          string(draft.Status),
		CurrentStep:     draft.CurrentStep,
		IsComplete:      draft.IsComplete,
		PrimaryKPI:      deref(draft.PrimaryKPI),
		SecondaryKPIs:   draft.SecondaryKPIs,
		Features:        draft.Features,
		TargetPlatforms: draft.TargetPlatforms,
		StartDate:       draft.StartDate,
		EndDate:         draft.EndDate,
		SubmissionID:    draft.SubmissionID,
		UpdatedAt:       draft.UpdatedAt,
	}
	for _, inf := range draft.Influencers {
		doc.Influencers = append(doc.Influencers, string(inf.Platform)+":"+inf.Handle)
	}
	return doc
}

// Content is the text the full-text index is built from.
func (d Document) Content() string {
	parts := []string{d.Name, d.Brand, d.BusinessGoal, d.PrimaryKPI}
	parts = append(parts, d.TargetPlatforms...)
	parts = append(parts, d.Influencers...)

	nonEmpty := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, " ")
}

// Hash identifies the indexed content; UpdatedAt is excluded so a save that
// changes nothing searchable does not rewrite the index.
func (d Document) Hash() string {
	d.UpdatedAt = time.Time{}
	data, _ := json.Marshal(d)
	return utils.HashBytes(data)
}

func (d Document) Fields() models.JSONB {
	data, err := json.Marshal(d)
	if err != nil {
		return nil
	}
	var out models.JSONB
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
