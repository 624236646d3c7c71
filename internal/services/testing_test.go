// internal/services/testing_test.go
package services

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/medisure/medisure-backend/internal/config"
	"github.com/medisure/medisure-backend/internal/models"
	"github.com/medisure/medisure-backend/internal/oracle"
	"github.com/medisure/medisure-backend/internal/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Manufacturer{},
		&models.Distributor{},
		&models.Pharmacy{},
		&models.Batch{},
		&models.Transaction{},
		&models.PharmacyInventory{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// testConfig returns a config with retries enabled but no backoff so the
// verifier's retry loop runs instantly.
func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			SecretKey:      "test-secret",
			AccessTokenTTL: 1,
		},
		Blockfrost: config.BlockfrostConfig{
			Network:       "preprod",
			RetryAttempts: 3,
			RetryBackoff:  0,
		},
	}
}

// fakeOracle scripts oracle responses per method. Unset functions fail the
// call so tests only exercise the paths they script.
type fakeOracle struct {
	assetAddressesFn func(ctx context.Context, assetID string) ([]oracle.AssetAddress, error)
	addressInfoFn    func(ctx context.Context, address string) (*oracle.AddressInfo, error)
	assetFn          func(ctx context.Context, assetID string) (*oracle.AssetInfo, error)

	assetAddressesCalls int
	addressInfoCalls    int
}

func (f *fakeOracle) AssetAddresses(ctx context.Context, assetID string) ([]oracle.AssetAddress, error) {
	f.assetAddressesCalls++
	if f.assetAddressesFn == nil {
		return nil, &oracle.APIError{StatusCode: 500, Message: "not scripted"}
	}
	return f.assetAddressesFn(ctx, assetID)
}

func (f *fakeOracle) AddressInfo(ctx context.Context, address string) (*oracle.AddressInfo, error) {
	f.addressInfoCalls++
	if f.addressInfoFn == nil {
		return nil, &oracle.APIError{StatusCode: 500, Message: "not scripted"}
	}
	return f.addressInfoFn(ctx, address)
}

func (f *fakeOracle) Asset(ctx context.Context, assetID string) (*oracle.AssetInfo, error) {
	if f.assetFn == nil {
		return nil, &oracle.APIError{StatusCode: 404, Message: "not scripted"}
	}
	return f.assetFn(ctx, assetID)
}

func testPaginationParams() utils.PaginationParams {
	return utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"}
}

func seedManufacturer(t *testing.T, db *gorm.DB) *models.Manufacturer {
	t.Helper()
	manufacturer := &models.Manufacturer{
		Name:          "Acme Pharma",
		WalletAddress: "addr_manufacturer",
	}
	if err := db.Create(manufacturer).Error; err != nil {
		t.Fatalf("failed to seed manufacturer: %v", err)
	}
	return manufacturer
}

func seedBatch(t *testing.T, db *gorm.DB, manufacturer *models.Manufacturer, batchID string) *models.Batch {
	t.Helper()
	batch := &models.Batch{
		BatchID:        batchID,
		MedicineName:   "Paracetamol 500mg",
		Composition:    "Paracetamol",
		ManufacturerID: manufacturer.ID,
		Quantity:       100,
		PolicyID:       "policy1",
		AssetName:      "asset1",
		NFTMinted:      true,
		QRCode:         "qr-" + batchID,
	}
	if err := db.Create(batch).Error; err != nil {
		t.Fatalf("failed to seed batch: %v", err)
	}
	return batch
}
