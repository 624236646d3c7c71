// internal/models/transaction.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Transaction is one immutable custody event in a batch's append-only ledger.
// Entries are never updated or deleted once written; batch status is always
// recomputed from them. The auto-increment primary key makes insertion order
// the tie-break when two entries share a timestamp.
type Transaction struct {
	ID              uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	BatchID         uuid.UUID       `json:"batch_id" gorm:"type:uuid;not null;index"`
	TransactionType TransactionType `json:"transaction_type" gorm:"type:varchar(20);not null;index"`
	FromWallet      string          `json:"from_wallet" gorm:"size:255"`
	ToWallet        string          `json:"to_wallet" gorm:"size:255;index"`
	TxHash          string          `json:"tx_hash" gorm:"size:255;index"`
	Timestamp       time.Time       `json:"timestamp" gorm:"not null;index;autoCreateTime"`

	Batch Batch `json:"batch,omitempty" gorm:"foreignKey:BatchID"`
}

// JourneyEntry is the external projection of a ledger entry.
type JourneyEntry struct {
	Type      TransactionType `json:"type"`
	From      string          `json:"from"`
	To        string          `json:"to"`
	Timestamp time.Time       `json:"timestamp"`
	TxHash    string          `json:"tx_hash"`
}
