// internal/services/provenance_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/medisure/medisure-backend/internal/models"
)

func appendEntry(t *testing.T, db *gorm.DB, batch *models.Batch, entryType models.TransactionType, from, to, txHash string, ts time.Time) {
	t.Helper()
	entry := &models.Transaction{
		BatchID:         batch.ID,
		TransactionType: entryType,
		FromWallet:      from,
		ToWallet:        to,
		TxHash:          txHash,
		Timestamp:       ts,
	}
	require.NoError(t, db.Create(entry).Error)
}

func TestStatusOf_PendingWhenNotMinted(t *testing.T) {
	db := newTestDB(t)
	manufacturer := seedManufacturer(t, db)
	batch := seedBatch(t, db, manufacturer, "BATCH-001")
	batch.NFTMinted = false
	require.NoError(t, db.Save(batch).Error)

	// Even a full ledger cannot outrank an unminted batch.
	now := time.Now()
	appendEntry(t, db, batch, models.TransactionTypeMint, "", "addr_manufacturer", "tx1", now)
	appendEntry(t, db, batch, models.TransactionTypeReceived, "Unknown", "addr_pharmacy", "REC-1", now.Add(time.Minute))

	svc := NewProvenanceService(db)
	status, err := svc.StatusOf(batch)

	require.NoError(t, err)
	assert.Equal(t, models.BatchStatusPending, status)
}

func TestStatusOf_MintedWithEmptyLedgerTail(t *testing.T) {
	db := newTestDB(t)
	manufacturer := seedManufacturer(t, db)
	batch := seedBatch(t, db, manufacturer, "BATCH-002")
	appendEntry(t, db, batch, models.TransactionTypeMint, "", "addr_manufacturer", "tx1", time.Now())

	svc := NewProvenanceService(db)
	status, err := svc.StatusOf(batch)

	require.NoError(t, err)
	assert.Equal(t, models.BatchStatusMinted, status)
}

func TestStatusOf_InTransitAfterTransfer(t *testing.T) {
	db := newTestDB(t)
	manufacturer := seedManufacturer(t, db)
	batch := seedBatch(t, db, manufacturer, "BATCH-003")
	now := time.Now()
	appendEntry(t, db, batch, models.TransactionTypeMint, "", "addr_manufacturer", "tx1", now)
	appendEntry(t, db, batch, models.TransactionTypeTransfer, "addr_manufacturer", "addr_distributor", "tx2", now.Add(time.Minute))

	svc := NewProvenanceService(db)
	status, err := svc.StatusOf(batch)

	require.NoError(t, err)
	assert.Equal(t, models.BatchStatusInTransit, status)
}

func TestStatusOf_DeliveredBeatsTransfer(t *testing.T) {
	db := newTestDB(t)
	manufacturer := seedManufacturer(t, db)
	batch := seedBatch(t, db, manufacturer, "BATCH-004")
	now := time.Now()
	appendEntry(t, db, batch, models.TransactionTypeMint, "", "addr_manufacturer", "tx1", now)
	appendEntry(t, db, batch, models.TransactionTypeTransfer, "addr_manufacturer", "addr_distributor", "tx2", now.Add(time.Minute))
	appendEntry(t, db, batch, models.TransactionTypeReceived, "Unknown", "addr_pharmacy", "REC-1", now.Add(2*time.Minute))

	// A later transfer does not demote a delivered batch.
	appendEntry(t, db, batch, models.TransactionTypeTransfer, "addr_pharmacy", "addr_other", "tx3", now.Add(3*time.Minute))

	svc := NewProvenanceService(db)
	status, err := svc.StatusOf(batch)

	require.NoError(t, err)
	assert.Equal(t, models.BatchStatusDelivered, status)
}

func TestStatusOf_SoldNeverAffectsStatus(t *testing.T) {
	db := newTestDB(t)
	manufacturer := seedManufacturer(t, db)
	batch := seedBatch(t, db, manufacturer, "BATCH-005")
	now := time.Now()
	appendEntry(t, db, batch, models.TransactionTypeMint, "", "addr_manufacturer", "tx1", now)
	appendEntry(t, db, batch, models.TransactionTypeSold, "addr_pharmacy", "Patient-abc", "SALE-1", now.Add(time.Minute))

	svc := NewProvenanceService(db)
	status, err := svc.StatusOf(batch)

	require.NoError(t, err)
	assert.Equal(t, models.BatchStatusMinted, status)
}

func TestJourney_OrderedWithStableTieBreak(t *testing.T) {
	db := newTestDB(t)
	manufacturer := seedManufacturer(t, db)
	batch := seedBatch(t, db, manufacturer, "BATCH-006")

	// Two entries share one timestamp; insertion order must break the tie.
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	appendEntry(t, db, batch, models.TransactionTypeMint, "", "addr_manufacturer", "tx1", ts)
	appendEntry(t, db, batch, models.TransactionTypeTransfer, "addr_manufacturer", "addr_distributor", "tx2", ts)
	appendEntry(t, db, batch, models.TransactionTypeReceived, "Unknown", "addr_pharmacy", "REC-1", ts.Add(time.Hour))

	svc := NewProvenanceService(db)
	got, journey, err := svc.Journey("BATCH-006")

	require.NoError(t, err)
	assert.Equal(t, batch.ID, got.ID)
	require.Len(t, journey, 3)
	assert.Equal(t, models.TransactionTypeMint, journey[0].Type)
	assert.Equal(t, models.TransactionTypeTransfer, journey[1].Type)
	assert.Equal(t, models.TransactionTypeReceived, journey[2].Type)
}

func TestJourney_UnknownBatch(t *testing.T) {
	db := newTestDB(t)
	svc := NewProvenanceService(db)

	_, _, err := svc.Journey("NO-SUCH-BATCH")

	assert.ErrorIs(t, err, ErrBatchNotFound)
}

func TestDashboardStats_DistinctInTransitCount(t *testing.T) {
	db := newTestDB(t)
	manufacturer := seedManufacturer(t, db)
	batchA := seedBatch(t, db, manufacturer, "BATCH-A")
	batchB := seedBatch(t, db, manufacturer, "BATCH-B")
	unminted := seedBatch(t, db, manufacturer, "BATCH-C")
	unminted.NFTMinted = false
	require.NoError(t, db.Save(unminted).Error)

	// Batch A hops twice; it must still count once.
	now := time.Now()
	appendEntry(t, db, batchA, models.TransactionTypeTransfer, "addr_manufacturer", "addr_dist1", "tx1", now)
	appendEntry(t, db, batchA, models.TransactionTypeTransfer, "addr_dist1", "addr_dist2", "tx2", now.Add(time.Minute))
	appendEntry(t, db, batchB, models.TransactionTypeMint, "", "addr_manufacturer", "tx3", now)

	svc := NewProvenanceService(db)
	stats, err := svc.DashboardStats(manufacturer.ID)

	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalBatches)
	assert.Equal(t, int64(2), stats.Minted)
	assert.Equal(t, int64(1), stats.InTransit)
	require.Len(t, stats.Batches, 3)

	byID := map[string]models.BatchStatus{}
	for _, summary := range stats.Batches {
		byID[summary.BatchID] = summary.Status
	}
	assert.Equal(t, models.BatchStatusInTransit, byID["BATCH-A"])
	assert.Equal(t, models.BatchStatusMinted, byID["BATCH-B"])
	assert.Equal(t, models.BatchStatusPending, byID["BATCH-C"])
}

func TestPharmacyDashboard_IncomingDedupAndExclusion(t *testing.T) {
	db := newTestDB(t)
	manufacturer := seedManufacturer(t, db)
	inStock := seedBatch(t, db, manufacturer, "BATCH-STOCK")
	inbound := seedBatch(t, db, manufacturer, "BATCH-INBOUND")

	pharmacy := &models.Pharmacy{Name: "Corner Pharmacy", WalletAddress: "addr_pharmacy"}
	require.NoError(t, db.Create(pharmacy).Error)
	require.NoError(t, db.Create(&models.PharmacyInventory{
		PharmacyID:        pharmacy.ID,
		BatchID:           inStock.ID,
		QuantityAvailable: 10,
		PricePerUnit:      2.5,
		InStock:           true,
	}).Error)

	now := time.Now()
	// The stocked batch was transferred here too; it must not reappear as
	// incoming. The inbound batch was transferred twice and must show once.
	appendEntry(t, db, inStock, models.TransactionTypeTransfer, "addr_manufacturer", "addr_pharmacy", "tx1", now)
	appendEntry(t, db, inbound, models.TransactionTypeTransfer, "addr_manufacturer", "addr_pharmacy", "tx2", now.Add(time.Minute))
	appendEntry(t, db, inbound, models.TransactionTypeTransfer, "addr_dist", "addr_pharmacy", "tx3", now.Add(2*time.Minute))

	svc := NewProvenanceService(db)
	dashboard, err := svc.PharmacyDashboardStats("addr_pharmacy")

	require.NoError(t, err)
	assert.Equal(t, 1, dashboard.TotalInventory)
	assert.Equal(t, 1, dashboard.PendingTransfers)
	require.Len(t, dashboard.Incoming, 1)
	assert.Equal(t, "BATCH-INBOUND", dashboard.Incoming[0].BatchID)
	assert.Equal(t, "addr_manufacturer", dashboard.Incoming[0].FromWallet)
}
