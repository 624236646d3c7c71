// internal/services/provenance_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medisure/medisure-backend/internal/models"
)

// ProvenanceService derives batch lifecycle state by replaying the ledger.
// Status is never stored; recomputing it from the append-only transaction log
// on every read keeps the ledger the single source of truth.
type ProvenanceService struct {
	db *gorm.DB
}

type DashboardStats struct {
	TotalBatches int64          `json:"total_batches"`
	Minted       int64          `json:"minted"`
	InTransit    int64          `json:"in_transit"`
	Batches      []BatchSummary `json:"batches"`
}

type BatchSummary struct {
	BatchID      string             `json:"batch_id"`
	MedicineName string             `json:"medicine_name"`
	Composition  string             `json:"composition"`
	ExpiryDate   time.Time          `json:"expiry_date"`
	Status       models.BatchStatus `json:"status"`
	PolicyID     string             `json:"policy_id"`
	AssetName    string             `json:"asset_name"`
}

type IncomingBatch struct {
	ID           uuid.UUID `json:"id"`
	BatchID      string    `json:"batch_id"`
	MedicineName string    `json:"medicine_name"`
	Composition  string    `json:"composition"`
	ExpiryDate   time.Time `json:"expiry_date"`
	FromWallet   string    `json:"from_wallet"`
	Timestamp    time.Time `json:"timestamp"`
}

type PharmacyDashboard struct {
	TotalInventory   int                        `json:"total_inventory"`
	PendingTransfers int                        `json:"pending_transfers"`
	Inventory        []models.PharmacyInventory `json:"inventory"`
	Incoming         []IncomingBatch            `json:"incoming"`
}

func NewProvenanceService(db *gorm.DB) *ProvenanceService {
	return &ProvenanceService{db: db}
}

// StatusOf computes the derived lifecycle status. Priority order matters: a
// RECEIVED entry means Delivered even when TRANSFER entries also exist, and
// SOLD entries never affect this computation.
func (s *ProvenanceService) StatusOf(batch *models.Batch) (models.BatchStatus, error) {
	if !batch.NFTMinted {
		return models.BatchStatusPending, nil
	}

	var received int64
	if err := s.db.Model(&models.Transaction{}).
		Where("batch_id = ? AND transaction_type = ?", batch.ID, models.TransactionTypeReceived).
		Count(&received).Error; err != nil {
		return "", fmt.Errorf("failed to count received entries: %w", err)
	}
	if received > 0 {
		return models.BatchStatusDelivered, nil
	}

	var transfers int64
	if err := s.db.Model(&models.Transaction{}).
		Where("batch_id = ? AND transaction_type = ?", batch.ID, models.TransactionTypeTransfer).
		Count(&transfers).Error; err != nil {
		return "", fmt.Errorf("failed to count transfer entries: %w", err)
	}
	if transfers > 0 {
		return models.BatchStatusInTransit, nil
	}

	return models.BatchStatusMinted, nil
}

// Journey replays every ledger entry for a batch, ordered by timestamp with
// insertion order breaking ties. Always recomputed, never cached.
func (s *ProvenanceService) Journey(batchID string) (*models.Batch, []models.JourneyEntry, error) {
	var batch models.Batch
	if err := s.db.Where("batch_id = ?", batchID).First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrBatchNotFound
		}
		return nil, nil, fmt.Errorf("database error: %w", err)
	}

	var transactions []models.Transaction
	if err := s.db.Where("batch_id = ?", batch.ID).
		Order("timestamp ASC, id ASC").
		Find(&transactions).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to fetch ledger entries: %w", err)
	}

	journey := make([]models.JourneyEntry, 0, len(transactions))
	for _, tx := range transactions {
		journey = append(journey, models.JourneyEntry{
			Type:      tx.TransactionType,
			From:      tx.FromWallet,
			To:        tx.ToWallet,
			Timestamp: tx.Timestamp,
			TxHash:    tx.TxHash,
		})
	}

	return &batch, journey, nil
}

// DashboardStats aggregates a manufacturer's batches. The in-transit figure
// counts distinct batches with at least one TRANSFER entry, so a multi-hop
// batch is never double-counted.
func (s *ProvenanceService) DashboardStats(manufacturerID uuid.UUID) (*DashboardStats, error) {
	stats := &DashboardStats{Batches: []BatchSummary{}}

	if err := s.db.Model(&models.Batch{}).
		Where("manufacturer_id = ?", manufacturerID).
		Count(&stats.TotalBatches).Error; err != nil {
		return nil, fmt.Errorf("failed to count batches: %w", err)
	}

	if err := s.db.Model(&models.Batch{}).
		Where("manufacturer_id = ? AND nft_minted = ?", manufacturerID, true).
		Count(&stats.Minted).Error; err != nil {
		return nil, fmt.Errorf("failed to count minted batches: %w", err)
	}

	if err := s.db.Model(&models.Transaction{}).
		Where("transaction_type = ?", models.TransactionTypeTransfer).
		Where("batch_id IN (?)", s.db.Model(&models.Batch{}).
			Select("id").Where("manufacturer_id = ?", manufacturerID)).
		Distinct("batch_id").
		Count(&stats.InTransit).Error; err != nil {
		return nil, fmt.Errorf("failed to count in-transit batches: %w", err)
	}

	var batches []models.Batch
	if err := s.db.Where("manufacturer_id = ?", manufacturerID).
		Order("created_at ASC").
		Find(&batches).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch batches: %w", err)
	}

	for i := range batches {
		status, err := s.StatusOf(&batches[i])
		if err != nil {
			return nil, err
		}
		stats.Batches = append(stats.Batches, BatchSummary{
			BatchID:      batches[i].BatchID,
			MedicineName: batches[i].MedicineName,
			Composition:  batches[i].Composition,
			ExpiryDate:   batches[i].ExpiryDate,
			Status:       status,
			PolicyID:     batches[i].PolicyID,
			AssetName:    batches[i].AssetName,
		})
	}

	return stats, nil
}

// PharmacyDashboardStats lists a pharmacy's stock plus inbound TRANSFER
// entries addressed to its wallet for batches not yet received into
// inventory. Multiple transfers of one batch collapse into one incoming row.
func (s *ProvenanceService) PharmacyDashboardStats(walletAddress string) (*PharmacyDashboard, error) {
	dashboard := &PharmacyDashboard{
		Inventory: []models.PharmacyInventory{},
		Incoming:  []IncomingBatch{},
	}

	inInventory := make(map[uuid.UUID]bool)

	var pharmacy models.Pharmacy
	err := s.db.Where("wallet_address = ?", walletAddress).First(&pharmacy).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if err == nil {
		if err := s.db.Where("pharmacy_id = ?", pharmacy.ID).
			Preload("Batch").
			Find(&dashboard.Inventory).Error; err != nil {
			return nil, fmt.Errorf("failed to fetch inventory: %w", err)
		}
		for _, item := range dashboard.Inventory {
			inInventory[item.BatchID] = true
		}
	}

	var incomingTxs []models.Transaction
	if err := s.db.Where("to_wallet = ? AND transaction_type = ?", walletAddress, models.TransactionTypeTransfer).
		Preload("Batch").
		Order("timestamp ASC, id ASC").
		Find(&incomingTxs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch incoming transfers: %w", err)
	}

	seen := make(map[uuid.UUID]bool)
	for _, tx := range incomingTxs {
		if inInventory[tx.BatchID] || seen[tx.BatchID] {
			continue
		}
		seen[tx.BatchID] = true
		dashboard.Incoming = append(dashboard.Incoming, IncomingBatch{
			ID:           tx.Batch.ID,
			BatchID:      tx.Batch.BatchID,
			MedicineName: tx.Batch.MedicineName,
			Composition:  tx.Batch.Composition,
			ExpiryDate:   tx.Batch.ExpiryDate,
			FromWallet:   tx.FromWallet,
			Timestamp:    tx.Timestamp,
		})
	}

	dashboard.TotalInventory = len(dashboard.Inventory)
	dashboard.PendingTransfers = len(dashboard.Incoming)

	return dashboard, nil
}
