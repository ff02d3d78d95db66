// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeyError    = "error"
	KeyConflict = "common.conflict"

	// Authentication
	KeyAuthRequired      = "auth.required"
	KeyAuthInvalidToken  = "auth.invalid_token"
	KeyAuthTokenExpired  = "auth.token_expired"
	KeyAuthOrgRequired   = "auth.org_required"
	KeyRateLimitExceeded = "rate_limit.exceeded"

	// Users
	KeyUserNotFound = "user.not_found"
	KeyUserSynced   = "user.synced"

	// Campaigns
	KeyCampaignCreated          = "campaign.created"
	KeyCampaignDeleted          = "campaign.deleted"
	KeyCampaignNotFound         = "campaign.not_found"
	KeyCampaignForbidden        = "campaign.forbidden"
	KeyCampaignLegacy           = "campaign.legacy"
	KeyCampaignInvalidID        = "campaign.invalid_id"
	KeyCampaignSubmitted        = "campaign.submitted"
	KeyCampaignAlreadySubmitted = "campaign.already_submitted"
	KeyCampaignIncomplete       = "campaign.incomplete"
	KeyPrimaryContactRequired   = "campaign.primary_contact_required"
	KeySearchQueryRequired      = "campaign.search_query_required"

	// Wizard
	KeyWizardInvalidStep = "wizard.invalid_step"

	// Assets
	KeyAssetUploadFailed = "asset.upload_failed"
	KeyFileTooLarge      = "asset.file_too_large"
	KeyFileRequired      = "asset.file_required"

	// Validation
	KeyValidationInvalid = "validation.invalid"
	KeyPayloadTooLarge   = "validation.payload_too_large"
)
