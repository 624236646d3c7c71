// internal/models/inventory.go
package models

import (
	"github.com/google/uuid"
)

// PharmacyInventory tracks the sellable stock a pharmacy holds for a batch it
// has received. One row per (pharmacy, batch).
type PharmacyInventory struct {
	BaseModel
	PharmacyID        uuid.UUID `json:"pharmacy_id" gorm:"type:uuid;not null;index:idx_pharmacy_batch,unique"`
	BatchID           uuid.UUID `json:"batch_id" gorm:"type:uuid;not null;index:idx_pharmacy_batch,unique"`
	QuantityAvailable int       `json:"quantity_available" gorm:"not null;default:0"`
	PricePerUnit      float64   `json:"price_per_unit" gorm:"type:decimal(10,2);not null"`
	InStock           bool      `json:"in_stock" gorm:"default:true"`

	Pharmacy Pharmacy `json:"pharmacy,omitempty" gorm:"foreignKey:PharmacyID"`
	Batch    Batch    `json:"batch,omitempty" gorm:"foreignKey:BatchID"`
}
