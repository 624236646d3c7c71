// internal/services/transfer_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medisure/medisure-backend/internal/models"
	"github.com/medisure/medisure-backend/internal/oracle"
)

func newTransferService(t *testing.T, fake *fakeOracle) (*TransferService, *ProvenanceService, *models.Batch) {
	t.Helper()
	db := newTestDB(t)
	manufacturer := seedManufacturer(t, db)
	batch := seedBatch(t, db, manufacturer, "BATCH-100")
	custody := NewCustodyService(fake, testConfig())
	return NewTransferService(db, custody), NewProvenanceService(db), batch
}

func TestTransferBatch_VerifiedAndRecorded(t *testing.T) {
	fake := &fakeOracle{
		assetAddressesFn: func(ctx context.Context, assetID string) ([]oracle.AssetAddress, error) {
			return []oracle.AssetAddress{{Address: "addr_distributor", Quantity: "1"}}, nil
		},
	}
	svc, provenance, batch := newTransferService(t, fake)

	got, err := svc.TransferBatch(context.Background(), &TransferRequest{
		BatchID:    "BATCH-100",
		FromWallet: "addr_manufacturer",
		ToWallet:   "addr_distributor",
		TxHash:     "txabc",
	})

	require.NoError(t, err)
	assert.Equal(t, batch.ID, got.ID)

	status, err := provenance.StatusOf(got)
	require.NoError(t, err)
	assert.Equal(t, models.BatchStatusInTransit, status)
}

func TestTransferBatch_RejectedLeavesLedgerUntouched(t *testing.T) {
	fake := &fakeOracle{
		assetAddressesFn: func(ctx context.Context, assetID string) ([]oracle.AssetAddress, error) {
			return []oracle.AssetAddress{{Address: "addr_somebody_else", Quantity: "1"}}, nil
		},
		addressInfoFn: func(ctx context.Context, address string) (*oracle.AddressInfo, error) {
			return &oracle.AddressInfo{Address: address, StakeAddress: "stake1" + address}, nil
		},
	}
	svc, provenance, batch := newTransferService(t, fake)

	_, err := svc.TransferBatch(context.Background(), &TransferRequest{
		BatchID:    "BATCH-100",
		FromWallet: "addr_manufacturer",
		ToWallet:   "addr_distributor",
		TxHash:     "txabc",
	})

	assert.ErrorIs(t, err, ErrCustodyMismatch)

	status, serr := provenance.StatusOf(batch)
	require.NoError(t, serr)
	assert.Equal(t, models.BatchStatusMinted, status)
}

func TestTransferBatch_OracleOutageRejectedAsUnverified(t *testing.T) {
	// A dead oracle is not proof of absence. The transfer is rejected with
	// the unverified error, not the mismatch one, and nothing is recorded.
	fake := &fakeOracle{
		assetAddressesFn: func(ctx context.Context, assetID string) ([]oracle.AssetAddress, error) {
			return nil, &oracle.APIError{StatusCode: 500, Message: "internal error"}
		},
		addressInfoFn: func(ctx context.Context, address string) (*oracle.AddressInfo, error) {
			return &oracle.AddressInfo{Address: address, StakeAddress: "stake1" + address}, nil
		},
	}
	svc, provenance, batch := newTransferService(t, fake)

	_, err := svc.TransferBatch(context.Background(), &TransferRequest{
		BatchID:    "BATCH-100",
		FromWallet: "addr_manufacturer",
		ToWallet:   "addr_distributor",
		TxHash:     "txabc",
	})

	assert.ErrorIs(t, err, ErrCustodyNotVerified)

	status, serr := provenance.StatusOf(batch)
	require.NoError(t, serr)
	assert.Equal(t, models.BatchStatusMinted, status)
}

func TestTransferBatch_StakeAddressFallbackAccepts(t *testing.T) {
	// The exact-address check misses because the wallet presented a rotated
	// receiving address; stake reconciliation still proves custody.
	fake := &fakeOracle{
		assetAddressesFn: func(ctx context.Context, assetID string) ([]oracle.AssetAddress, error) {
			return []oracle.AssetAddress{{Address: "addr_rotated", Quantity: "1"}}, nil
		},
		addressInfoFn: func(ctx context.Context, address string) (*oracle.AddressInfo, error) {
			return &oracle.AddressInfo{Address: address, StakeAddress: "stake1shared"}, nil
		},
	}
	svc, provenance, batch := newTransferService(t, fake)

	got, err := svc.TransferBatch(context.Background(), &TransferRequest{
		BatchID:    "BATCH-100",
		FromWallet: "addr_manufacturer",
		ToWallet:   "addr_fresh",
		TxHash:     "txabc",
	})

	require.NoError(t, err)
	assert.Equal(t, batch.ID, got.ID)

	status, serr := provenance.StatusOf(got)
	require.NoError(t, serr)
	assert.Equal(t, models.BatchStatusInTransit, status)
}

func TestTransferBatch_UnlinkedBatchSkipsVerification(t *testing.T) {
	fake := &fakeOracle{}
	db := newTestDB(t)
	manufacturer := seedManufacturer(t, db)
	batch := seedBatch(t, db, manufacturer, "BATCH-101")
	batch.PolicyID = ""
	batch.AssetName = ""
	require.NoError(t, db.Save(batch).Error)

	custody := NewCustodyService(fake, testConfig())
	svc := NewTransferService(db, custody)

	_, err := svc.TransferBatch(context.Background(), &TransferRequest{
		BatchID:    "BATCH-101",
		FromWallet: "addr_manufacturer",
		ToWallet:   "addr_distributor",
		TxHash:     "txabc",
	})

	require.NoError(t, err)
	assert.Equal(t, 0, fake.assetAddressesCalls)
}

func TestTransferBatch_BackfillsOnChainIdentifiers(t *testing.T) {
	fake := &fakeOracle{
		assetAddressesFn: func(ctx context.Context, assetID string) ([]oracle.AssetAddress, error) {
			assert.Equal(t, "policyXassetX", assetID)
			return []oracle.AssetAddress{{Address: "addr_distributor", Quantity: "1"}}, nil
		},
	}
	db := newTestDB(t)
	manufacturer := seedManufacturer(t, db)
	batch := seedBatch(t, db, manufacturer, "BATCH-102")
	batch.PolicyID = ""
	batch.AssetName = ""
	require.NoError(t, db.Save(batch).Error)

	custody := NewCustodyService(fake, testConfig())
	svc := NewTransferService(db, custody)

	got, err := svc.TransferBatch(context.Background(), &TransferRequest{
		BatchID:    "BATCH-102",
		FromWallet: "addr_manufacturer",
		ToWallet:   "addr_distributor",
		TxHash:     "txabc",
		PolicyID:   "policyX",
		AssetName:  "assetX",
	})

	require.NoError(t, err)
	assert.Equal(t, "policyX", got.PolicyID)
	assert.Equal(t, "assetX", got.AssetName)

	var persisted models.Batch
	require.NoError(t, db.First(&persisted, "id = ?", batch.ID).Error)
	assert.Equal(t, "policyX", persisted.PolicyID)
	assert.Equal(t, "assetX", persisted.AssetName)
}

func TestTransferBatch_UnknownBatch(t *testing.T) {
	svc, _, _ := newTransferService(t, &fakeOracle{})

	_, err := svc.TransferBatch(context.Background(), &TransferRequest{
		BatchID:    "NO-SUCH-BATCH",
		FromWallet: "a",
		ToWallet:   "b",
		TxHash:     "tx",
	})

	assert.ErrorIs(t, err, ErrBatchNotFound)
}

func TestReceiveBatch_CreatesPharmacyInventoryAndLedgerEntry(t *testing.T) {
	fake := &fakeOracle{
		assetAddressesFn: func(ctx context.Context, assetID string) ([]oracle.AssetAddress, error) {
			return []oracle.AssetAddress{{Address: "addr_pharmacy", Quantity: "20"}}, nil
		},
	}
	db := newTestDB(t)
	manufacturer := seedManufacturer(t, db)
	batch := seedBatch(t, db, manufacturer, "BATCH-200")
	custody := NewCustodyService(fake, testConfig())
	svc := NewTransferService(db, custody)

	inventory, err := svc.ReceiveBatch(context.Background(), &ReceiveRequest{
		BatchID:       batch.ID,
		WalletAddress: "addr_pharmacy",
		PricePerUnit:  4.75,
	})

	require.NoError(t, err)
	assert.Equal(t, 20, inventory.QuantityAvailable)
	assert.Equal(t, 4.75, inventory.PricePerUnit)
	assert.True(t, inventory.InStock)

	var pharmacy models.Pharmacy
	require.NoError(t, db.Where("wallet_address = ?", "addr_pharmacy").First(&pharmacy).Error)
	assert.Contains(t, pharmacy.Name, "Pharmacy (")

	var entries []models.Transaction
	require.NoError(t, db.Where("batch_id = ? AND transaction_type = ?", batch.ID, models.TransactionTypeReceived).Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].TxHash, "REC-")
}

func TestReceiveBatch_IdempotentLedgerEntry(t *testing.T) {
	fake := &fakeOracle{
		assetAddressesFn: func(ctx context.Context, assetID string) ([]oracle.AssetAddress, error) {
			return []oracle.AssetAddress{{Address: "addr_pharmacy", Quantity: "20"}}, nil
		},
	}
	db := newTestDB(t)
	manufacturer := seedManufacturer(t, db)
	batch := seedBatch(t, db, manufacturer, "BATCH-201")
	custody := NewCustodyService(fake, testConfig())
	svc := NewTransferService(db, custody)

	req := &ReceiveRequest{BatchID: batch.ID, WalletAddress: "addr_pharmacy", PricePerUnit: 4.75}
	_, err := svc.ReceiveBatch(context.Background(), req)
	require.NoError(t, err)

	// Re-submitting updates inventory in place and appends nothing.
	req.PricePerUnit = 5.25
	inventory, err := svc.ReceiveBatch(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 5.25, inventory.PricePerUnit)

	var entryCount int64
	require.NoError(t, db.Model(&models.Transaction{}).
		Where("batch_id = ? AND transaction_type = ?", batch.ID, models.TransactionTypeReceived).
		Count(&entryCount).Error)
	assert.Equal(t, int64(1), entryCount)

	var inventoryCount int64
	require.NoError(t, db.Model(&models.PharmacyInventory{}).
		Where("batch_id = ?", batch.ID).
		Count(&inventoryCount).Error)
	assert.Equal(t, int64(1), inventoryCount)
}

func TestReceiveBatch_RejectsUnverifiedCustody(t *testing.T) {
	fake := &fakeOracle{
		assetAddressesFn: func(ctx context.Context, assetID string) ([]oracle.AssetAddress, error) {
			return []oracle.AssetAddress{}, nil
		},
	}
	db := newTestDB(t)
	manufacturer := seedManufacturer(t, db)
	batch := seedBatch(t, db, manufacturer, "BATCH-202")
	custody := NewCustodyService(fake, testConfig())
	svc := NewTransferService(db, custody)

	_, err := svc.ReceiveBatch(context.Background(), &ReceiveRequest{
		BatchID:       batch.ID,
		WalletAddress: "addr_pharmacy",
		PricePerUnit:  4.75,
	})

	assert.ErrorIs(t, err, ErrCustodyNotVerified)

	var inventoryCount int64
	require.NoError(t, db.Model(&models.PharmacyInventory{}).Count(&inventoryCount).Error)
	assert.Equal(t, int64(0), inventoryCount)
}
