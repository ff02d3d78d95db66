// internal/services/identity.go
package services

import (
	"github.com/javajoker/campaign-wizard/internal/i18n"
	"github.com/javajoker/campaign-wizard/internal/models"
)

// Identity is the authenticated caller: the identity provider's user id and
// the organization the caller is acting in.
type Identity struct {
	ExternalUserID string
	OrganizationID string
}

func (id Identity) check() error {
	if id.ExternalUserID == "" {
		return newError(KindUnauthenticated, i18n.KeyAuthRequired, nil)
	}
	if id.OrganizationID == "" {
		return newError(KindBadRequest, i18n.KeyAuthOrgRequired, nil)
	}
	return nil
}

// canWrite reports whether the caller may modify draft. Drafts without an
// organization predate organizations and are read-only.
func (id Identity) canWrite(draft *models.CampaignDraft) error {
	if draft.OrganizationID == nil {
		return newError(KindForbidden, i18n.KeyCampaignLegacy, nil)
	}
	if *draft.OrganizationID != id.OrganizationID {
		return newError(KindForbidden, i18n.KeyCampaignForbidden, nil)
	}
	return nil
}

// canRead also lets the owner of a legacy draft see it.
func (id Identity) canRead(user *models.User, draft *models.CampaignDraft) error {
	if draft.OrganizationID == nil && draft.UserID == user.ID {
		return nil
	}
	return id.canWrite(draft)
}
