package wizard

import (
	"encoding/json"

	"github.com/javajoker/campaign-wizard/internal/models"
	"github.com/javajoker/campaign-wizard/internal/utils"
)

// Payload is one validated, step-specific update. The concrete type tells
// which step produced it.
type Payload interface {
	Step() Step
}

type Budget struct {
	Currency    string   `json:"currency,omitempty" validate:"omitempty,enum=USD GBP EUR"`
	Total       *float64 `json:"total,omitempty" validate:"omitempty,gte=0"`
	SocialMedia *float64 `json:"socialMedia,omitempty" validate:"omitempty,gte=0"`
}

type Contact struct {
	FirstName string `json:"firstName,omitempty" validate:"max=100"`
	Surname   string `json:"surname,omitempty" validate:"max=100"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	Position  string `json:"position,omitempty" validate:"max=100"`
	Phone     string `json:"phone,omitempty" validate:"max=40"`
}

// InfluencerInput is one influencer row sent with step 1. Rows without a
// platform or handle are dropped by the reconciler.
type InfluencerInput struct {
	ID       string `json:"id,omitempty" validate:"max=64"`
	Platform string `json:"platform" validate:"omitempty,enum=INSTAGRAM YOUTUBE TIKTOK"`
	Handle   string `json:"handle" validate:"omitempty,handle"`
}

type Step1Payload struct {
	Name               Field[string]            `json:"name" validate:"max=255"`
	BusinessGoal       Field[string]            `json:"businessGoal" validate:"max=5000"`
	Brand              Field[string]            `json:"brand" validate:"max=255"`
	Website            Field[string]            `json:"website" validate:"omitempty,url"`
	StartDate          Field[Date]              `json:"startDate"`
	EndDate            Field[Date]              `json:"endDate"`
	TimeZone           Field[string]            `json:"timeZone" validate:"omitempty,timezone"`
	Budget             Field[Budget]            `json:"budget"`
	PrimaryContact     Field[Contact]           `json:"primaryContact"`
	SecondaryContact   Field[Contact]           `json:"secondaryContact"`
	AdditionalContacts Field[[]Contact]         `json:"additionalContacts" validate:"max=10"`
	Influencers        Field[[]InfluencerInput] `json:"influencers" validate:"max=100"`
	Step1Complete      Field[bool]              `json:"step1Complete" wizard:"nonnull"`
}

func (*Step1Payload) Step() Step { return Step1 }

func (p *Step1Payload) crossCheck() []utils.ValidationError {
	if p.StartDate.Present() && p.EndDate.Present() && p.EndDate.Value.Before(p.StartDate.Value.Time) {
		return []utils.ValidationError{{
			Field:   "endDate",
			Tag:     "gtefield",
			Message: "endDate must not be before startDate",
		}}
	}
	return nil
}

type Messaging struct {
	MainMessage     string   `json:"mainMessage,omitempty" validate:"max=3000"`
	Hashtags        []string `json:"hashtags,omitempty" validate:"max=30,dive,max=100"`
	MemorableSlogan string   `json:"memorableSlogan,omitempty" validate:"max=255"`
	KeyBenefits     []string `json:"keyBenefits,omitempty" validate:"max=20,dive,max=500"`
}

type ExpectedOutcomes struct {
	Memorability    string `json:"memorability,omitempty" validate:"max=2000"`
	PurchaseIntent  string `json:"purchaseIntent,omitempty" validate:"max=2000"`
	BrandPerception string `json:"brandPerception,omitempty" validate:"max=2000"`
}

type Step2Payload struct {
	PrimaryKPI       Field[string]           `json:"primaryKPI" validate:"omitempty,enum=AD_RECALL BRAND_AWARENESS CONSIDERATION MESSAGE_ASSOCIATION BRAND_PREFERENCE PURCHASE_INTENT ACTION_INTENT RECOMMENDATION_INTENT ADVOCACY"`
	SecondaryKPIs    Field[[]string]         `json:"secondaryKPIs" validate:"max=9,dive,enum=AD_RECALL BRAND_AWARENESS CONSIDERATION MESSAGE_ASSOCIATION BRAND_PREFERENCE PURCHASE_INTENT ACTION_INTENT RECOMMENDATION_INTENT ADVOCACY"`
	Features         Field[[]string]         `json:"features" validate:"max=4,dive,enum=CREATIVE_ASSET_TESTING BRAND_LIFT BRAND_HEALTH MIXED_MEDIA_MODELING"`
	Messaging        Field[Messaging]        `json:"messaging"`
	ExpectedOutcomes Field[ExpectedOutcomes] `json:"expectedOutcomes"`
	Step2Complete    Field[bool]             `json:"step2Complete" wizard:"nonnull"`
}

func (*Step2Payload) Step() Step { return Step2 }

type Demographics struct {
	AgeDistribution map[string]float64 `json:"ageDistribution,omitempty"`
	Gender          []string           `json:"gender,omitempty" validate:"max=10,dive,max=50"`
	OtherGender     string             `json:"otherGender,omitempty" validate:"max=100"`
	EducationLevel  string             `json:"educationLevel,omitempty" validate:"max=100"`
	JobTitles       []string           `json:"jobTitles,omitempty" validate:"max=50,dive,max=100"`
	IncomeLevel     *int               `json:"incomeLevel,omitempty" validate:"omitempty,gte=0"`
}

type Location struct {
	City    string `json:"city,omitempty" validate:"max=100"`
	Region  string `json:"region,omitempty" validate:"max=100"`
	Country string `json:"country,omitempty" validate:"max=100"`
}

type Step3Payload struct {
	Demographics  Field[Demographics]           `json:"demographics"`
	Locations     Field[[]Location]             `json:"locations" validate:"max=100"`
	Targeting     Field[map[string]interface{}] `json:"targeting"`
	Competitors   Field[[]string]               `json:"competitors" validate:"max=50,dive,max=255"`
	Step3Complete Field[bool]                   `json:"step3Complete" wizard:"nonnull"`
}

func (*Step3Payload) Step() Step { return Step3 }

// AssetInput is one element of the step 4 asset list. Raw keeps the element
// as sent so the list can be stored verbatim.
type AssetInput struct {
	ID          AssetRef     `json:"id"`
	Name        *string      `json:"name,omitempty" validate:"omitempty,max=255"`
	Description *string      `json:"description,omitempty" validate:"omitempty,max=5000"`
	Rationale   *string      `json:"rationale,omitempty" validate:"omitempty,max=5000"`
	Raw         models.JSONB `json:"-"`
}

func (a *AssetInput) UnmarshalJSON(b []byte) error {
	type plain AssetInput
	var v plain
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	var raw models.JSONB
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*a = AssetInput(v)
	a.Raw = raw
	return nil
}

// DescriptionText is the description written to the asset row: the
// rationale when supplied, otherwise the description.
func (a AssetInput) DescriptionText() (string, bool) {
	if a.Rationale != nil {
		return *a.Rationale, true
	}
	if a.Description != nil {
		return *a.Description, true
	}
	return "", false
}

type Step4Payload struct {
	TargetPlatforms Field[[]string]     `json:"targetPlatforms" validate:"max=3,dive,enum=INSTAGRAM YOUTUBE TIKTOK"`
	Assets          Field[[]AssetInput] `json:"assets" validate:"max=50"`
	Guidelines      Field[string]       `json:"guidelines" validate:"max=5000"`
	Requirements    Field[string]       `json:"requirements" validate:"max=5000"`
	Notes           Field[string]       `json:"notes" validate:"max=5000"`
	Step4Complete   Field[bool]         `json:"step4Complete" wizard:"nonnull"`
}

func (*Step4Payload) Step() Step { return Step4 }

// VerbatimAssets returns the asset list exactly as sent.
func (p *Step4Payload) VerbatimAssets() models.JSONArray {
	list := make(models.JSONArray, 0, len(p.Assets.Value))
	for _, asset := range p.Assets.Value {
		list = append(list, asset.Raw)
	}
	return list
}

type Step5Payload struct {
	Status Field[string] `json:"status" validate:"enum=DRAFT PENDING_REVIEW SUBMITTED APPROVED COMPLETED" wizard:"nonnull"`
}

func (*Step5Payload) Step() Step { return Step5 }
