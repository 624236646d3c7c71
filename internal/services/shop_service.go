// internal/services/shop_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medisure/medisure-backend/internal/database"
	"github.com/medisure/medisure-backend/internal/models"
	"github.com/medisure/medisure-backend/internal/utils"
)

var (
	ErrInventoryNotFound = errors.New("inventory item not found")
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrInsufficientStock = errors.New("not enough stock")
	ErrCartEmpty         = errors.New("cart is empty")
	ErrPharmacyNotFound  = errors.New("pharmacy not found")
	ErrOrderNotFound     = errors.New("order not found")
)

// ShopService handles the retail tail of the supply chain: carts, checkout,
// and the marketplace listing. Checkout writes one SOLD ledger entry per
// purchased batch so patient sales appear in the batch journey.
type ShopService struct {
	db *gorm.DB
}

type AddToCartRequest struct {
	UserID      uuid.UUID `json:"user_id" validate:"required"`
	InventoryID uuid.UUID `json:"inventory_id" validate:"required"`
	Quantity    int       `json:"quantity" validate:"min=1"`
}

type CreateOrderRequest struct {
	UserID     uuid.UUID `json:"user_id" validate:"required"`
	PharmacyID uuid.UUID `json:"pharmacy_id" validate:"required"`
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required,oneof=pending confirmed delivered cancelled"`
}

func NewShopService(db *gorm.DB) *ShopService {
	return &ShopService{db: db}
}

func (s *ShopService) GetCart(userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	if err := s.db.Where(models.Cart{UserID: userID}).
		FirstOrCreate(&cart).Error; err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	if err := s.db.Preload("Items.InventoryItem.Batch").
		Preload("Items.InventoryItem.Pharmacy").
		First(&cart, "id = ?", cart.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to load cart items: %w", err)
	}

	return &cart, nil
}

func (s *ShopService) AddToCart(req *AddToCartRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	var cart models.Cart
	if err := s.db.Where(models.Cart{UserID: req.UserID}).FirstOrCreate(&cart).Error; err != nil {
		return fmt.Errorf("failed to get cart: %w", err)
	}

	var inventoryItem models.PharmacyInventory
	if err := s.db.First(&inventoryItem, "id = ?", req.InventoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInventoryNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}

	if req.Quantity > inventoryItem.QuantityAvailable {
		return ErrInsufficientStock
	}

	var item models.CartItem
	err := s.db.Where("cart_id = ? AND inventory_item_id = ?", cart.ID, inventoryItem.ID).
		First(&item).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("database error: %w", err)
		}
		item = models.CartItem{
			CartID:          cart.ID,
			InventoryItemID: inventoryItem.ID,
			Quantity:        req.Quantity,
		}
		if err := s.db.Create(&item).Error; err != nil {
			return fmt.Errorf("failed to add cart item: %w", err)
		}
		return nil
	}

	item.Quantity += req.Quantity
	if err := s.db.Save(&item).Error; err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}
	return nil
}

func (s *ShopService) UpdateCartItem(itemID uuid.UUID, quantity int) error {
	var item models.CartItem
	if err := s.db.Preload("InventoryItem").First(&item, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartItemNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}

	if quantity > item.InventoryItem.QuantityAvailable {
		return ErrInsufficientStock
	}

	item.Quantity = quantity
	if err := s.db.Save(&item).Error; err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}
	return nil
}

func (s *ShopService) RemoveFromCart(itemID uuid.UUID) error {
	result := s.db.Delete(&models.CartItem{}, "id = ?", itemID)
	if result.Error != nil {
		return fmt.Errorf("failed to remove cart item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (s *ShopService) ClearCart(userID uuid.UUID) error {
	var cart models.Cart
	if err := s.db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// CreateOrder checks out the user's cart against one pharmacy. Order rows,
// SOLD ledger entries, stock decrements, and the cart wipe all commit
// atomically; the SOLD entry carries a generated SALE- hash since no on-chain
// transaction backs a retail sale.
func (s *ShopService) CreateOrder(req *CreateOrderRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var order *models.Order
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var pharmacy models.Pharmacy
		if err := tx.First(&pharmacy, "id = ?", req.PharmacyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPharmacyNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		var cart models.Cart
		if err := tx.Where("user_id = ?", req.UserID).
			Preload("Items.InventoryItem").
			First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCartEmpty
			}
			return fmt.Errorf("database error: %w", err)
		}
		if len(cart.Items) == 0 {
			return ErrCartEmpty
		}

		order = &models.Order{
			UserID:      req.UserID,
			PharmacyID:  req.PharmacyID,
			TotalAmount: cart.TotalPrice(),
		}
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for _, cartItem := range cart.Items {
			if cartItem.Quantity > cartItem.InventoryItem.QuantityAvailable {
				return ErrInsufficientStock
			}

			orderItem := models.OrderItem{
				OrderID:         order.ID,
				InventoryItemID: cartItem.InventoryItemID,
				Quantity:        cartItem.Quantity,
				PricePerUnit:    cartItem.InventoryItem.PricePerUnit,
				Subtotal:        cartItem.Subtotal(),
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}

			soldEntry := models.Transaction{
				BatchID:         cartItem.InventoryItem.BatchID,
				TransactionType: models.TransactionTypeSold,
				FromWallet:      pharmacy.WalletAddress,
				ToWallet:        fmt.Sprintf("Patient-%s", req.UserID),
				TxHash:          utils.GenerateLedgerHash("SALE"),
			}
			if err := tx.Create(&soldEntry).Error; err != nil {
				return fmt.Errorf("failed to record sold entry: %w", err)
			}

			inventory := cartItem.InventoryItem
			inventory.QuantityAvailable -= cartItem.Quantity
			if inventory.QuantityAvailable <= 0 {
				inventory.InStock = false
			}
			if err := tx.Save(&inventory).Error; err != nil {
				return fmt.Errorf("failed to update inventory: %w", err)
			}
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.db.Preload("Items.InventoryItem.Batch").Preload("Pharmacy").First(order, "id = ?", order.ID)
	return order, nil
}

func (s *ShopService) GetOrder(orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Items.InventoryItem.Batch").Preload("Pharmacy").
		First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &order, nil
}

func (s *ShopService) GetUserOrders(userID uuid.UUID, params utils.PaginationParams) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "total_amount", "status"})
	query = utils.ApplyPagination(query, params)

	var orders []models.Order
	if err := query.Preload("Items.InventoryItem.Batch").Preload("Pharmacy").
		Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}

	return orders, total, nil
}

func (s *ShopService) UpdateOrderStatus(orderID uuid.UUID, status models.OrderStatus) error {
	result := s.db.Model(&models.Order{}).Where("id = ?", orderID).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update order: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// MarketplaceDrugs lists every in-stock inventory row across pharmacies.
func (s *ShopService) MarketplaceDrugs() ([]models.PharmacyInventory, error) {
	var inventory []models.PharmacyInventory
	if err := s.db.Where("in_stock = ? AND quantity_available > 0", true).
		Preload("Batch").Preload("Pharmacy").
		Find(&inventory).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch marketplace inventory: %w", err)
	}
	return inventory, nil
}

func (s *ShopService) PharmacyInventory(pharmacyID uuid.UUID) ([]models.PharmacyInventory, error) {
	var inventory []models.PharmacyInventory
	if err := s.db.Where("pharmacy_id = ? AND in_stock = ?", pharmacyID, true).
		Preload("Batch").
		Find(&inventory).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch pharmacy inventory: %w", err)
	}
	return inventory, nil
}
