// internal/models/batch.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Batch is one manufactured lot of a medicine, the unit of custody tracking.
// PolicyID and AssetName identify the on-chain token once minted; they may be
// back-filled later by a transfer request. Batches are never deleted.
type Batch struct {
	BaseModel
	BatchID          string    `json:"batch_id" gorm:"uniqueIndex;size:100;not null"`
	MedicineName     string    `json:"medicine_name" gorm:"size:255;not null"`
	Composition      string    `json:"composition" gorm:"type:text"`
	ManufacturerID   uuid.UUID `json:"manufacturer_id" gorm:"type:uuid;not null;index"`
	ManufacturedDate time.Time `json:"manufactured_date"`
	ExpiryDate       time.Time `json:"expiry_date"`
	Quantity         int       `json:"quantity" gorm:"not null"`
	PolicyID         string    `json:"policy_id" gorm:"size:120"`
	AssetName        string    `json:"asset_name" gorm:"size:120"`
	NFTMinted        bool      `json:"nft_minted" gorm:"default:false"`
	QRCode           string    `json:"qr_code" gorm:"uniqueIndex;size:64;not null"`

	Manufacturer Manufacturer  `json:"manufacturer,omitempty" gorm:"foreignKey:ManufacturerID"`
	Transactions []Transaction `json:"transactions,omitempty" gorm:"foreignKey:BatchID;references:ID"`
}

// AssetID is the concatenated policy/name key the custody oracle indexes by.
func (b *Batch) AssetID() string {
	return b.PolicyID + b.AssetName
}
