// internal/handlers/transfer.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/medisure/medisure-backend/internal/i18n"
	"github.com/medisure/medisure-backend/internal/services"
	"github.com/medisure/medisure-backend/internal/utils"
)

type TransferHandler struct {
	transferService   *services.TransferService
	provenanceService *services.ProvenanceService
}

func NewTransferHandler(transferService *services.TransferService, provenanceService *services.ProvenanceService) *TransferHandler {
	return &TransferHandler{
		transferService:   transferService,
		provenanceService: provenanceService,
	}
}

// POST /transfers
func (h *TransferHandler) TransferBatch(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	batch, err := h.transferService.TransferBatch(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBatchNotFound):
			utils.NotFoundResponse(c, i18n.KeyBatchNotFound)
		case errors.Is(err, services.ErrCustodyMismatch):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyCustodyNotInWallet), nil)
		case errors.Is(err, services.ErrCustodyNotVerified):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyCustodyOracleFailed), nil)
		default:
			utils.InternalErrorResponse(c, err.Error())
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyBatchTransferred),
		"batch":   batch,
	})
}

// POST /transfers/receive
func (h *TransferHandler) ReceiveBatch(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.ReceiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	inventory, err := h.transferService.ReceiveBatch(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBatchNotFound):
			utils.NotFoundResponse(c, i18n.KeyBatchNotFound)
		case errors.Is(err, services.ErrCustodyNotVerified):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyCustodyNotVerified), nil)
		default:
			utils.InternalErrorResponse(c, err.Error())
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":   i18n.T(lang, i18n.KeyBatchReceived),
		"inventory": inventory,
	})
}

// GET /pharmacy/dashboard
func (h *TransferHandler) GetPharmacyDashboard(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	wallet := c.Query("wallet")
	if wallet == "" {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationRequired, "wallet"), nil)
		return
	}

	dashboard, err := h.provenanceService.PharmacyDashboardStats(wallet)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, dashboard)
}
