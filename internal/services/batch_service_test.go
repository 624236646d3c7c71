// internal/services/batch_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medisure/medisure-backend/internal/models"
	"github.com/medisure/medisure-backend/internal/oracle"
)

func TestMintBatch_CreatesBatchAndMintEntry(t *testing.T) {
	db := newTestDB(t)
	manufacturer := seedManufacturer(t, db)
	svc := NewBatchService(db, &fakeOracle{})

	batch, err := svc.MintBatch(&MintBatchRequest{
		BatchID:            "BATCH-400",
		MedicineName:       "Ibuprofen 200mg",
		Composition:        "Ibuprofen",
		ManufacturerID:     manufacturer.ID,
		ManufacturedDate:   "2026-01-15",
		ExpiryDate:         "2028-01-15",
		Quantity:           500,
		PolicyID:           "policy1",
		AssetName:          "asset1",
		ManufacturerWallet: "addr_manufacturer",
		TxHash:             "txmint1",
	})

	require.NoError(t, err)
	assert.True(t, batch.NFTMinted)
	assert.NotEmpty(t, batch.QRCode)
	assert.Equal(t, 2026, batch.ManufacturedDate.Year())

	var entries []models.Transaction
	require.NoError(t, db.Where("batch_id = ?", batch.ID).Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, models.TransactionTypeMint, entries[0].TransactionType)
	assert.Equal(t, "addr_manufacturer", entries[0].ToWallet)
	assert.Equal(t, "txmint1", entries[0].TxHash)

	provenance := NewProvenanceService(db)
	status, err := provenance.StatusOf(batch)
	require.NoError(t, err)
	assert.Equal(t, models.BatchStatusMinted, status)
}

func TestMintBatch_UnknownManufacturer(t *testing.T) {
	db := newTestDB(t)
	svc := NewBatchService(db, &fakeOracle{})

	_, err := svc.MintBatch(&MintBatchRequest{
		BatchID:            "BATCH-401",
		MedicineName:       "Ibuprofen 200mg",
		Composition:        "Ibuprofen",
		ManufacturerID:     uuid.New(),
		ManufacturedDate:   "2026-01-15",
		ExpiryDate:         "2028-01-15",
		Quantity:           500,
		ManufacturerWallet: "addr_manufacturer",
		TxHash:             "txmint1",
	})

	assert.ErrorIs(t, err, ErrManufacturerNotFound)
}

func TestMintBatch_RejectsMalformedBatchID(t *testing.T) {
	db := newTestDB(t)
	manufacturer := seedManufacturer(t, db)
	svc := NewBatchService(db, &fakeOracle{})

	_, err := svc.MintBatch(&MintBatchRequest{
		BatchID:            "b!",
		MedicineName:       "Ibuprofen 200mg",
		Composition:        "Ibuprofen",
		ManufacturerID:     manufacturer.ID,
		ManufacturedDate:   "2026-01-15",
		ExpiryDate:         "2028-01-15",
		Quantity:           500,
		ManufacturerWallet: "addr_manufacturer",
		TxHash:             "txmint1",
	})

	assert.Error(t, err)
}

func TestVerifyByQRCode_WithBlockchainProof(t *testing.T) {
	db := newTestDB(t)
	manufacturer := seedManufacturer(t, db)
	batch := seedBatch(t, db, manufacturer, "BATCH-402")

	fake := &fakeOracle{
		assetFn: func(ctx context.Context, assetID string) (*oracle.AssetInfo, error) {
			assert.Equal(t, "policy1asset1", assetID)
			return &oracle.AssetInfo{Asset: assetID, PolicyID: "policy1", Quantity: "1"}, nil
		},
	}
	svc := NewBatchService(db, fake)

	verification, err := svc.VerifyByQRCode(context.Background(), batch.QRCode)

	require.NoError(t, err)
	assert.True(t, verification.Verified)
	assert.Equal(t, "BATCH-402", verification.BatchID)
	assert.Equal(t, "Acme Pharma", verification.Manufacturer)
	require.NotNil(t, verification.BlockchainProof)
	assert.Equal(t, "policy1asset1", verification.BlockchainProof.Asset)
}

func TestVerifyByQRCode_OracleFailureDegradesGracefully(t *testing.T) {
	db := newTestDB(t)
	manufacturer := seedManufacturer(t, db)
	batch := seedBatch(t, db, manufacturer, "BATCH-403")
	svc := NewBatchService(db, &fakeOracle{})

	verification, err := svc.VerifyByQRCode(context.Background(), batch.QRCode)

	require.NoError(t, err)
	assert.True(t, verification.Verified)
	assert.Nil(t, verification.BlockchainProof)
}

func TestVerifyByQRCode_UnknownToken(t *testing.T) {
	db := newTestDB(t)
	svc := NewBatchService(db, &fakeOracle{})

	_, err := svc.VerifyByQRCode(context.Background(), "not-a-token")

	assert.ErrorIs(t, err, ErrInvalidQRCode)
}
