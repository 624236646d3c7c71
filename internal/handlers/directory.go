// internal/handlers/directory.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medisure/medisure-backend/internal/i18n"
	"github.com/medisure/medisure-backend/internal/models"
	"github.com/medisure/medisure-backend/internal/services"
	"github.com/medisure/medisure-backend/internal/utils"
)

type DirectoryHandler struct {
	directoryService *services.DirectoryService
}

func NewDirectoryHandler(directoryService *services.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{
		directoryService: directoryService,
	}
}

// GET /directory/manufacturers
func (h *DirectoryHandler) GetManufacturers(c *gin.Context) {
	manufacturers, err := h.directoryService.Manufacturers()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"manufacturers": manufacturers,
	})
}

// GET /directory/distributors
func (h *DirectoryHandler) GetDistributors(c *gin.Context) {
	distributors, err := h.directoryService.Distributors()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"distributors": distributors,
	})
}

// GET /directory/pharmacies
func (h *DirectoryHandler) GetPharmacies(c *gin.Context) {
	pharmacies, err := h.directoryService.Pharmacies()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"pharmacies": pharmacies,
	})
}

// GET /directory/users/:id
func (h *DirectoryHandler) GetUserByID(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "user_id"), nil)
		return
	}

	user, err := h.directoryService.GetUser(userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			utils.NotFoundResponse(c, i18n.KeyUserNotFound)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"user": user,
	})
}

// GET /directory/users?role=distributor
func (h *DirectoryHandler) GetUsersByRole(c *gin.Context) {
	role := models.UserRole(c.DefaultQuery("role", string(models.UserRoleDistributor)))

	users, err := h.directoryService.UsersByRole(role)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"users": users,
	})
}
