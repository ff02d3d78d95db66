// internal/handlers/user.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/campaign-wizard/internal/i18n"
	"github.com/javajoker/campaign-wizard/internal/services"
	"github.com/javajoker/campaign-wizard/internal/utils"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// POST /v1/users/sync
func (h *UserHandler) Sync(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	req := services.SyncUserRequest{
		Email: c.GetString("email"),
		Name:  c.GetString("name"),
	}
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

	user, err := h.userService.Sync(c.Request.Context(), identityFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, user, gin.H{
		"message": i18n.T(lang, i18n.KeyUserSynced),
	})
}

// GET /v1/users/me
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.userService.Resolve(c.Request.Context(), identityFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, user)
}
