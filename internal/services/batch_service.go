// internal/services/batch_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/medisure/medisure-backend/internal/database"
	"github.com/medisure/medisure-backend/internal/models"
	"github.com/medisure/medisure-backend/internal/oracle"
	"github.com/medisure/medisure-backend/internal/utils"
)

var (
	ErrManufacturerNotFound = errors.New("manufacturer not found")
	ErrInvalidQRCode        = errors.New("invalid QR code")
)

type BatchService struct {
	db     *gorm.DB
	oracle oracle.Client
}

type MintBatchRequest struct {
	BatchID            string    `json:"batch_id" validate:"required,batch_id"`
	MedicineName       string    `json:"medicine_name" validate:"required"`
	Composition        string    `json:"composition" validate:"required"`
	ManufacturerID     uuid.UUID `json:"manufacturer_id" validate:"required"`
	ManufacturedDate   string    `json:"manufactured_date" validate:"required"`
	ExpiryDate         string    `json:"expiry_date" validate:"required"`
	Quantity           int       `json:"quantity" validate:"required,min=1"`
	PolicyID           string    `json:"policy_id,omitempty"`
	AssetName          string    `json:"asset_name,omitempty"`
	ManufacturerWallet string    `json:"manufacturer_wallet" validate:"required"`
	TxHash             string    `json:"tx_hash" validate:"required"`
}

// MedicineVerification is the public QR lookup result. BlockchainProof is
// populated best-effort from the oracle when the batch is linked on-chain.
type MedicineVerification struct {
	MedicineName     string            `json:"medicine_name"`
	BatchID          string            `json:"batch_id"`
	Manufacturer     string            `json:"manufacturer"`
	ManufacturedDate time.Time         `json:"manufactured_date"`
	ExpiryDate       time.Time         `json:"expiry_date"`
	Composition      string            `json:"composition"`
	Verified         bool              `json:"verified"`
	PolicyID         string            `json:"policy_id"`
	AssetName        string            `json:"asset_name"`
	BlockchainProof  *oracle.AssetInfo `json:"blockchain_proof,omitempty"`
}

func NewBatchService(db *gorm.DB, oracleClient oracle.Client) *BatchService {
	return &BatchService{db: db, oracle: oracleClient}
}

// MintBatch registers a new manufactured lot and its MINT ledger entry in one
// database transaction. The QR token is generated here and never changes.
func (s *BatchService) MintBatch(req *MintBatchRequest) (*models.Batch, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	manufacturedDate, err := time.Parse("2006-01-02", req.ManufacturedDate)
	if err != nil {
		return nil, fmt.Errorf("invalid manufactured_date: %w", err)
	}
	expiryDate, err := time.Parse("2006-01-02", req.ExpiryDate)
	if err != nil {
		return nil, fmt.Errorf("invalid expiry_date: %w", err)
	}

	var manufacturer models.Manufacturer
	if err := s.db.First(&manufacturer, "id = ?", req.ManufacturerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrManufacturerNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	batch := &models.Batch{
		BatchID:          req.BatchID,
		MedicineName:     req.MedicineName,
		Composition:      req.Composition,
		ManufacturerID:   manufacturer.ID,
		ManufacturedDate: manufacturedDate,
		ExpiryDate:       expiryDate,
		Quantity:         req.Quantity,
		PolicyID:         req.PolicyID,
		AssetName:        req.AssetName,
		NFTMinted:        true,
		QRCode:           utils.GenerateQRToken(),
	}

	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Create(batch).Error; err != nil {
			return fmt.Errorf("failed to create batch: %w", err)
		}

		mintEntry := &models.Transaction{
			BatchID:         batch.ID,
			TransactionType: models.TransactionTypeMint,
			ToWallet:        req.ManufacturerWallet,
			TxHash:          req.TxHash,
		}
		if err := tx.Create(mintEntry).Error; err != nil {
			return fmt.Errorf("failed to record mint entry: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"batch_id": batch.BatchID,
		"medicine": batch.MedicineName,
	}).Info("Batch minted")

	return batch, nil
}

// VerifyByQRCode resolves the batch behind a QR token. On-chain proof is
// fetched only when the batch carries policy/asset identifiers; an oracle
// failure degrades to a response without proof rather than an error.
func (s *BatchService) VerifyByQRCode(ctx context.Context, qrCode string) (*MedicineVerification, error) {
	var batch models.Batch
	if err := s.db.Where("qr_code = ?", qrCode).
		Preload("Manufacturer").
		First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidQRCode
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	verification := &MedicineVerification{
		MedicineName:     batch.MedicineName,
		BatchID:          batch.BatchID,
		Manufacturer:     batch.Manufacturer.Name,
		ManufacturedDate: batch.ManufacturedDate,
		ExpiryDate:       batch.ExpiryDate,
		Composition:      batch.Composition,
		Verified:         batch.NFTMinted,
		PolicyID:         batch.PolicyID,
		AssetName:        batch.AssetName,
	}

	if batch.PolicyID != "" && batch.AssetName != "" {
		if proof, err := s.oracle.Asset(ctx, batch.AssetID()); err == nil {
			verification.BlockchainProof = proof
		} else {
			logrus.WithField("asset", batch.AssetID()).WithError(err).
				Debug("Skipping blockchain proof in QR verification")
		}
	}

	return verification, nil
}
