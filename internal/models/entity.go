// internal/models/entity.go
package models

// Supply-chain actors. Each is looked up by its wallet address when
// reconciling ledger entries against inbound custody claims.

type Manufacturer struct {
	BaseModel
	Name          string `json:"name" gorm:"size:255;not null"`
	License       string `json:"license" gorm:"size:100"`
	WalletAddress string `json:"wallet_address" gorm:"uniqueIndex;size:255"`
	Verified      bool   `json:"verified" gorm:"default:false"`

	Batches []Batch `json:"batches,omitempty" gorm:"foreignKey:ManufacturerID"`
}

type Distributor struct {
	BaseModel
	Name          string `json:"name" gorm:"size:255;not null"`
	License       string `json:"license" gorm:"size:100"`
	WalletAddress string `json:"wallet_address" gorm:"uniqueIndex;size:255"`
	Verified      bool   `json:"verified" gorm:"default:false"`
}

type Pharmacy struct {
	BaseModel
	Name          string `json:"name" gorm:"size:255;not null"`
	License       string `json:"license" gorm:"size:100"`
	WalletAddress string `json:"wallet_address" gorm:"uniqueIndex;size:255"`
	Verified      bool   `json:"verified" gorm:"default:false"`

	Inventory []PharmacyInventory `json:"inventory,omitempty" gorm:"foreignKey:PharmacyID"`
}
