// internal/handlers/batch.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medisure/medisure-backend/internal/i18n"
	"github.com/medisure/medisure-backend/internal/services"
	"github.com/medisure/medisure-backend/internal/utils"
)

type BatchHandler struct {
	batchService      *services.BatchService
	provenanceService *services.ProvenanceService
}

func NewBatchHandler(batchService *services.BatchService, provenanceService *services.ProvenanceService) *BatchHandler {
	return &BatchHandler{
		batchService:      batchService,
		provenanceService: provenanceService,
	}
}

// POST /batches
func (h *BatchHandler) MintBatch(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.MintBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	batch, err := h.batchService.MintBatch(&req)
	if err != nil {
		if errors.Is(err, services.ErrManufacturerNotFound) {
			utils.NotFoundResponse(c, i18n.KeyManufacturerNotFound)
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyBatchMinted),
		"batch":   batch,
	})
}

// GET /verify/:qr_code
func (h *BatchHandler) VerifyByQRCode(c *gin.Context) {
	qrCode := c.Param("qr_code")

	verification, err := h.batchService.VerifyByQRCode(c.Request.Context(), qrCode)
	if err != nil {
		if errors.Is(err, services.ErrInvalidQRCode) {
			utils.NotFoundResponse(c, i18n.KeyBatchInvalidQR)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, verification)
}

// GET /batches/:batch_id/journey
func (h *BatchHandler) GetJourney(c *gin.Context) {
	batchID := c.Param("batch_id")

	batch, journey, err := h.provenanceService.Journey(batchID)
	if err != nil {
		if errors.Is(err, services.ErrBatchNotFound) {
			utils.NotFoundResponse(c, i18n.KeyBatchNotFound)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	status, err := h.provenanceService.StatusOf(batch)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"batch_id":      batch.BatchID,
		"medicine_name": batch.MedicineName,
		"status":        status,
		"journey":       journey,
	})
}

// GET /dashboard/stats
func (h *BatchHandler) GetDashboardStats(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	entityIDStr, exists := utils.GetEntityIDFromContext(c)
	if !exists || entityIDStr == "" {
		utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyAuthAccessDenied))
		return
	}

	manufacturerID, err := uuid.Parse(entityIDStr)
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "entity_id"), nil)
		return
	}

	stats, err := h.provenanceService.DashboardStats(manufacturerID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, stats)
}
