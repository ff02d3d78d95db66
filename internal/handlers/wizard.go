// internal/handlers/wizard.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/campaign-wizard/internal/i18n"
	"github.com/javajoker/campaign-wizard/internal/services"
	"github.com/javajoker/campaign-wizard/internal/utils"
	"github.com/javajoker/campaign-wizard/internal/wizard"
)

type WizardHandler struct {
	wizardService *services.WizardService
}

func NewWizardHandler(wizardService *services.WizardService) *WizardHandler {
	return &WizardHandler{
		wizardService: wizardService,
	}
}

// GET /v1/campaigns/:id/wizard/:step
func (h *WizardHandler) GetStep(c *gin.Context) {
	draftID, ok := draftIDParam(c)
	if !ok {
		return
	}
	step, ok := stepParam(c)
	if !ok {
		return
	}

	rep, err := h.wizardService.GetStep(c.Request.Context(), identityFrom(c), draftID, step)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, rep)
}

// PATCH /v1/campaigns/:id/wizard/:step
func (h *WizardHandler) SaveStep(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	draftID, ok := draftIDParam(c)
	if !ok {
		return
	}
	step, ok := stepParam(c)
	if !ok {
		return
	}

	body, err := c.GetRawData()
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		utils.PayloadTooLargeResponse(c)
		return
	}
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid), err.Error())
		return
	}

	rep, _, err := h.wizardService.SaveStep(c.Request.Context(), identityFrom(c), draftID, step, body)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponseWithMessage(c, rep, rep.Message)
}

func stepParam(c *gin.Context) (wizard.Step, bool) {
	step, err := wizard.ParseStep(c.Param("step"))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyWizardInvalidStep), nil)
		return 0, false
	}
	return step, true
}
