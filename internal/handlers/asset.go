// internal/handlers/asset.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/campaign-wizard/internal/i18n"
	"github.com/javajoker/campaign-wizard/internal/services"
	"github.com/javajoker/campaign-wizard/internal/utils"
)

type AssetHandler struct {
	assetService *services.AssetService
}

func NewAssetHandler(assetService *services.AssetService) *AssetHandler {
	return &AssetHandler{
		assetService: assetService,
	}
}

// POST /v1/campaigns/:id/assets
func (h *AssetHandler) Upload(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	draftID, ok := draftIDParam(c)
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileRequired), nil)
		return
	}
	file, err := header.Open()
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyAssetUploadFailed), nil)
		return
	}
	defer file.Close()

	asset, err := h.assetService.Upload(c.Request.Context(), identityFrom(c), draftID, services.AssetUpload{
		File:   file,
		Header: header,
		Name:   c.PostForm("name"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, asset)
}
