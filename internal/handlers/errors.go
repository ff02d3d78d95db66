// internal/handlers/errors.go
package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/campaign-wizard/internal/i18n"
	"github.com/javajoker/campaign-wizard/internal/services"
	"github.com/javajoker/campaign-wizard/internal/utils"
)

// identityFrom reads the caller identity AuthRequired put on the context.
func identityFrom(c *gin.Context) services.Identity {
	userID, _ := utils.GetUserIDFromContext(c)
	orgID, _ := utils.GetOrgIDFromContext(c)
	return services.Identity{ExternalUserID: userID, OrganizationID: orgID}
}

// draftIDParam parses the :id path segment, answering 400 when it is not a UUID.
func draftIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyCampaignInvalidID), nil)
		return uuid.Nil, false
	}
	return id, true
}

// respondError writes err using the response helper for its kind.
func respondError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("Unclassified service error")
		utils.InternalErrorResponse(c, i18n.T(lang, i18n.KeyError))
		return
	}

	message := i18n.T(lang, svcErr.Key)
	switch svcErr.Kind {
	case services.KindUnauthenticated:
		utils.UnauthorizedResponse(c, message)
	case services.KindBadRequest:
		utils.BadRequestResponse(c, message, nil)
	case services.KindNotFound:
		utils.NotFoundResponse(c, strings.TrimSuffix(svcErr.Key, ".not_found"))
	case services.KindForbidden:
		utils.ForbiddenResponse(c, message)
	case services.KindValidationFailed:
		utils.ValidationErrorResponse(c, svcErr.Details)
	case services.KindPersistenceFailed:
		utils.ConflictResponse(c, "")
	default:
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("Request failed")
		utils.InternalErrorResponse(c, i18n.T(lang, i18n.KeyError))
	}
}
