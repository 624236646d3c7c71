// internal/handlers/shop.go
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

type ShopHandler struct {
	shopService *services.ShopService
}

func NewShopHandler(shopService *services.ShopService) *ShopHandler {
	return &ShopHandler{
		shopService: shopService,
	}
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}

// GET /shop/drugs
func (h *ShopHandler) GetMarketplaceDrugs(c *gin.Context) {
	inventory, err := h.shopService.MarketplaceDrugs()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"drugs": inventory,
	})
}

// GET /pharmacy/:id/inventory
func (h *ShopHandler) GetPharmacyInventory(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	pharmacyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "pharmacy_id"), nil)
		return
	}

	inventory, err := h.shopService.PharmacyInventory(pharmacyID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"inventory": inventory,
	})
}

// GET /cart
func (h *ShopHandler) GetCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	cart, err := h.shopService.GetCart(userID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"cart":  cart,
		"total": cart.TotalPrice(),
	})
}

// POST /cart/items
func (h *ShopHandler) AddToCart(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var body struct {
		InventoryID uuid.UUID `json:"inventory_id"`
		Quantity    int       `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}
	if body.Quantity <= 0 {
		body.Quantity = 1
	}

	req := services.AddToCartRequest{
		UserID:      userID,
		InventoryID: body.InventoryID,
		Quantity:    body.Quantity,
	}
	if err := h.shopService.AddToCart(&req); err != nil {
		switch {
		case errors.Is(err, services.ErrInventoryNotFound):
			utils.NotFoundResponse(c, i18n.KeyCartItemNotFound)
		case errors.Is(err, services.ErrInsufficientStock):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyShopOutOfStock), nil)
		default:
			utils.InternalErrorResponse(c, err.Error())
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCartItemAdded),
	})
}

// PUT /cart/items/:id
func (h *ShopHandler) UpdateCartItem(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "item_id"), nil)
		return
	}

	var body struct {
		Quantity int `json:"quantity" validate:"min=1"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if err := h.shopService.UpdateCartItem(itemID, body.Quantity); err != nil {
		switch {
		case errors.Is(err, services.ErrCartItemNotFound):
			utils.NotFoundResponse(c, i18n.KeyCartItemNotFound)
		case errors.Is(err, services.ErrInsufficientStock):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyShopOutOfStock), nil)
		default:
			utils.InternalErrorResponse(c, err.Error())
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCartUpdated),
	})
}

// DELETE /cart/items/:id
func (h *ShopHandler) RemoveFromCart(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "item_id"), nil)
		return
	}

	if err := h.shopService.RemoveFromCart(itemID); err != nil {
		if errors.Is(err, services.ErrCartItemNotFound) {
			utils.NotFoundResponse(c, i18n.KeyCartItemNotFound)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCartItemRemoved),
	})
}

// DELETE /cart
func (h *ShopHandler) ClearCart(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	if err := h.shopService.ClearCart(userID); err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCartCleared),
	})
}

// POST /orders
func (h *ShopHandler) CreateOrder(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var body struct {
		PharmacyID uuid.UUID `json:"pharmacy_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	req := services.CreateOrderRequest{
		UserID:     userID,
		PharmacyID: body.PharmacyID,
	}
	order, err := h.shopService.CreateOrder(&req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCartEmpty):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyCartEmpty), nil)
		case errors.Is(err, services.ErrPharmacyNotFound):
			utils.NotFoundResponse(c, i18n.KeyPharmacyNotFound)
		case errors.Is(err, services.ErrInsufficientStock):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyShopOutOfStock), nil)
		default:
			utils.InternalErrorResponse(c, err.Error())
		}
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyOrderCreated),
		"order":   order,
	})
}

// GET /orders
func (h *ShopHandler) GetUserOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	orders, total, err := h.shopService.GetUserOrders(userID, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(orders, total, params))
}

// GET /orders/:id
func (h *ShopHandler) GetOrder(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "order_id"), nil)
		return
	}

	order, err := h.shopService.GetOrder(orderID)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			utils.NotFoundResponse(c, i18n.KeyOrderNotFound)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	// Patients see their own orders; the fulfilling side sees all of them.
	role, _ := utils.GetUserRoleFromContext(c)
	if order.UserID != userID && role != string(models.UserRolePharmacy) {
		utils.ForbiddenResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"order": order,
	})
}

// PUT /orders/:id/status
func (h *ShopHandler) UpdateOrderStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "order_id"), nil)
		return
	}

	var req services.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	if err := h.shopService.UpdateOrderStatus(orderID, req.Status); err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			utils.NotFoundResponse(c, i18n.KeyOrderNotFound)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyOrderUpdated),
		"order_id": orderID,
		"status":   req.Status,
	})
}
