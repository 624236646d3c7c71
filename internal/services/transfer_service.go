// internal/services/transfer_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/medisure/medisure-backend/internal/database"
	"github.com/medisure/medisure-backend/internal/models"
	"github.com/medisure/medisure-backend/internal/utils"
)

var (
	ErrBatchNotFound      = errors.New("batch not found")
	ErrCustodyMismatch    = errors.New("asset not found in receiving wallet")
	ErrCustodyNotVerified = errors.New("asset not verified in your wallet on-chain")
)

// TransferService orchestrates a custody transfer: validate, verify against
// the oracle, append to the ledger. Verification failures leave the ledger
// untouched.
type TransferService struct {
	db      *gorm.DB
	custody *CustodyService
}

type TransferRequest struct {
	BatchID    string `json:"batch_id" validate:"required"`
	FromWallet string `json:"from_wallet" validate:"required"`
	ToWallet   string `json:"to_wallet" validate:"required"`
	TxHash     string `json:"tx_hash" validate:"required"`
	PolicyID   string `json:"policy_id,omitempty"`
	AssetName  string `json:"asset_name,omitempty"`
}

type ReceiveRequest struct {
	BatchID       uuid.UUID `json:"batch_id" validate:"required"`
	WalletAddress string    `json:"wallet_address" validate:"required"`
	PricePerUnit  float64   `json:"price_per_unit" validate:"required,gt=0"`
}

func NewTransferService(db *gorm.DB, custody *CustodyService) *TransferService {
	return &TransferService{db: db, custody: custody}
}

// TransferBatch records a custody transfer for a batch. When the batch is
// linked to an on-chain asset the receiving wallet must demonstrably hold the
// token, checked first by exact address and then by stake-address
// reconciliation. Batches without policy/asset identifiers are recorded
// unconditionally; verification is only meaningful once an asset exists
// on-chain. Repeated calls with the same tx hash append repeatedly; callers
// own dedup on this path.
func (s *TransferService) TransferBatch(ctx context.Context, req *TransferRequest) (*models.Batch, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var batch models.Batch
	if err := s.db.Where("batch_id = ?", req.BatchID).First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBatchNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	// Late linkage: a transfer request may carry the on-chain identifiers for
	// a batch minted before they were known. Concurrent writers race on this
	// backfill, last writer wins.
	updates := make(map[string]interface{})
	if req.PolicyID != "" {
		batch.PolicyID = req.PolicyID
		updates["policy_id"] = req.PolicyID
	}
	if req.AssetName != "" {
		batch.AssetName = req.AssetName
		updates["asset_name"] = req.AssetName
	}
	if len(updates) > 0 {
		if err := s.db.Model(&batch).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update batch identifiers: %w", err)
		}
	}

	if batch.PolicyID != "" && batch.AssetName != "" {
		verification := s.custody.VerifyWalletHasAsset(ctx, req.ToWallet, batch.PolicyID, batch.AssetName)

		// The oracle sees raw addresses; HD wallets rotate receiving
		// addresses under one stake key, so an absent exact match gets a
		// second chance through stake reconciliation.
		if !verification.HasAsset {
			verification = s.custody.VerifyByStakeAddress(ctx, req.ToWallet, batch.PolicyID, batch.AssetName)
		}

		if !verification.Success {
			logrus.WithFields(logrus.Fields{
				"batch_id":  batch.BatchID,
				"to_wallet": req.ToWallet,
				"error":     verification.Error,
			}).Warn("Custody oracle unavailable, transfer rejected")
			return nil, ErrCustodyNotVerified
		}
		if !verification.HasAsset {
			logrus.WithFields(logrus.Fields{
				"batch_id":  batch.BatchID,
				"to_wallet": req.ToWallet,
			}).Warn("Asset not held by receiving wallet, transfer rejected")
			return nil, ErrCustodyMismatch
		}
	}

	transaction := &models.Transaction{
		BatchID:         batch.ID,
		TransactionType: models.TransactionTypeTransfer,
		FromWallet:      req.FromWallet,
		ToWallet:        req.ToWallet,
		TxHash:          req.TxHash,
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, fmt.Errorf("failed to record transfer: %w", err)
	}

	return &batch, nil
}

// ReceiveBatch moves a verified batch into a pharmacy's inventory. The
// pharmacy record is created on first receive, keyed by wallet address. The
// RECEIVED ledger entry is get-or-create on (batch, type) so re-submitting a
// receive does not duplicate it. Inventory upsert and ledger write share one
// database transaction.
func (s *TransferService) ReceiveBatch(ctx context.Context, req *ReceiveRequest) (*models.PharmacyInventory, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var batch models.Batch
	if err := s.db.First(&batch, "id = ?", req.BatchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBatchNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	verification := s.custody.VerifyWalletHasAsset(ctx, req.WalletAddress, batch.PolicyID, batch.AssetName)
	if !verification.HasAsset {
		return nil, ErrCustodyNotVerified
	}

	quantity := 1
	if q, err := strconv.Atoi(verification.Quantity); err == nil && q > 0 {
		quantity = q
	}

	var inventory models.PharmacyInventory
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var pharmacy models.Pharmacy
		if err := tx.Where("wallet_address = ?", req.WalletAddress).First(&pharmacy).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("database error: %w", err)
			}
			pharmacy = models.Pharmacy{
				Name:          fmt.Sprintf("Pharmacy (%s...)", truncateWallet(req.WalletAddress)),
				WalletAddress: req.WalletAddress,
			}
			if err := tx.Create(&pharmacy).Error; err != nil {
				return fmt.Errorf("failed to create pharmacy: %w", err)
			}
		}

		if err := tx.Where("pharmacy_id = ? AND batch_id = ?", pharmacy.ID, batch.ID).
			First(&inventory).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("database error: %w", err)
			}
			inventory = models.PharmacyInventory{
				PharmacyID: pharmacy.ID,
				BatchID:    batch.ID,
			}
		}
		inventory.QuantityAvailable = quantity
		inventory.PricePerUnit = req.PricePerUnit
		inventory.InStock = true
		if err := tx.Save(&inventory).Error; err != nil {
			return fmt.Errorf("failed to upsert inventory: %w", err)
		}

		var ledgerEntry models.Transaction
		if err := tx.Where("batch_id = ? AND transaction_type = ?", batch.ID, models.TransactionTypeReceived).
			Attrs(models.Transaction{
				BatchID:         batch.ID,
				TransactionType: models.TransactionTypeReceived,
				FromWallet:      "Unknown",
				ToWallet:        req.WalletAddress,
				TxHash:          utils.GenerateLedgerHash("REC"),
			}).
			FirstOrCreate(&ledgerEntry).Error; err != nil {
			return fmt.Errorf("failed to record received entry: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &inventory, nil
}

func truncateWallet(wallet string) string {
	if len(wallet) <= 8 {
		return wallet
	}
	return wallet[:8]
}
