// internal/models/common.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// BeforeCreate assigns a UUID when one is not set, so the same models work on
// Postgres and the sqlite test databases.
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Enums
type UserRole string

const (
	UserRoleManufacturer UserRole = "manufacturer"
	UserRoleDistributor  UserRole = "distributor"
	UserRolePharmacy     UserRole = "pharmacy"
	UserRolePatient      UserRole = "patient"
)

type TransactionType string

const (
	TransactionTypeMint     TransactionType = "MINT"
	TransactionTypeTransfer TransactionType = "TRANSFER"
	TransactionTypeReceived TransactionType = "RECEIVED"
	TransactionTypeSold     TransactionType = "SOLD"
)

// BatchStatus is derived from the ledger on every read, never stored.
type BatchStatus string

const (
	BatchStatusPending   BatchStatus = "Pending"
	BatchStatusMinted    BatchStatus = "Minted"
	BatchStatusInTransit BatchStatus = "In Transit"
	BatchStatusDelivered BatchStatus = "Delivered"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)
