// internal/handlers/campaign.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/campaign-wizard/internal/i18n"
	"github.com/javajoker/campaign-wizard/internal/services"
	"github.com/javajoker/campaign-wizard/internal/utils"
)

type CampaignHandler struct {
	campaignService   *services.CampaignService
	submissionService *services.SubmissionService
}

func NewCampaignHandler(campaignService *services.CampaignService, submissionService *services.SubmissionService) *CampaignHandler {
	return &CampaignHandler{
		campaignService:   campaignService,
		submissionService: submissionService,
	}
}

// POST /v1/campaigns
func (h *CampaignHandler) Create(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateCampaignRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid), err.Error())
			return
		}
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	rep, err := h.campaignService.Create(c.Request.Context(), identityFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	rep.Message = i18n.T(lang, i18n.KeyCampaignCreated)
	utils.CreatedResponse(c, rep)
}

// GET /v1/campaigns
func (h *CampaignHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	drafts, total, err := h.campaignService.List(c.Request.Context(), identityFrom(c), params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(drafts, total, params))
}

// GET /v1/campaigns/search?q=
func (h *CampaignHandler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	results, err := h.campaignService.Search(c.Request.Context(), identityFrom(c), c.Query("q"), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, results)
}

// GET /v1/campaigns/:id
func (h *CampaignHandler) Get(c *gin.Context) {
	draftID, ok := draftIDParam(c)
	if !ok {
		return
	}

	rep, err := h.campaignService.Get(c.Request.Context(), identityFrom(c), draftID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, rep)
}

// DELETE /v1/campaigns/:id
func (h *CampaignHandler) Delete(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	draftID, ok := draftIDParam(c)
	if !ok {
		return
	}

	if err := h.campaignService.Delete(c.Request.Context(), identityFrom(c), draftID); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCampaignDeleted),
	})
}

// GET /v1/campaigns/:id/history
func (h *CampaignHandler) History(c *gin.Context) {
	draftID, ok := draftIDParam(c)
	if !ok {
		return
	}

	entries, err := h.campaignService.History(c.Request.Context(), identityFrom(c), draftID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, entries)
}

// POST /v1/campaigns/:id/submit
func (h *CampaignHandler) Submit(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	draftID, ok := draftIDParam(c)
	if !ok {
		return
	}

	rep, err := h.submissionService.Submit(c.Request.Context(), identityFrom(c), draftID)
	if err != nil {
		respondError(c, err)
		return
	}

	rep.Message = i18n.T(lang, i18n.KeyCampaignSubmitted)
	utils.CreatedResponse(c, rep)
}
