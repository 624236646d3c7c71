// internal/models/order.go
package models

import (
	"github.com/google/uuid"
)

type Cart struct {
	BaseModel
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;uniqueIndex;not null"`

	Items []CartItem `json:"items,omitempty" gorm:"foreignKey:CartID"`
}

// TotalPrice sums the loaded items. Callers must preload Items first.
func (c *Cart) TotalPrice() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	return total
}

type CartItem struct {
	BaseModel
	CartID          uuid.UUID `json:"cart_id" gorm:"type:uuid;not null;index:idx_cart_inventory,unique"`
	InventoryItemID uuid.UUID `json:"inventory_item_id" gorm:"type:uuid;not null;index:idx_cart_inventory,unique"`
	Quantity        int       `json:"quantity" gorm:"not null;default:1"`

	InventoryItem PharmacyInventory `json:"inventory_item,omitempty" gorm:"foreignKey:InventoryItemID"`
}

func (i *CartItem) Subtotal() float64 {
	return float64(i.Quantity) * i.InventoryItem.PricePerUnit
}

type Order struct {
	BaseModel
	UserID      uuid.UUID   `json:"user_id" gorm:"type:uuid;not null;index"`
	PharmacyID  uuid.UUID   `json:"pharmacy_id" gorm:"type:uuid;not null;index"`
	TotalAmount float64     `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	Status      OrderStatus `json:"status" gorm:"type:varchar(20);default:'pending'"`

	Pharmacy Pharmacy    `json:"pharmacy,omitempty" gorm:"foreignKey:PharmacyID"`
	Items    []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
}

type OrderItem struct {
	BaseModel
	OrderID         uuid.UUID `json:"order_id" gorm:"type:uuid;not null;index"`
	InventoryItemID uuid.UUID `json:"inventory_item_id" gorm:"type:uuid;not null"`
	Quantity        int       `json:"quantity" gorm:"not null"`
	PricePerUnit    float64   `json:"price_per_unit" gorm:"type:decimal(10,2);not null"`
	Subtotal        float64   `json:"subtotal" gorm:"type:decimal(10,2);not null"`

	InventoryItem PharmacyInventory `json:"inventory_item,omitempty" gorm:"foreignKey:InventoryItemID"`
}
