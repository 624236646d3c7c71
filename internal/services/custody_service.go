// internal/services/custody_service.go
package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/medisure/medisure-backend/internal/config"
	"github.com/medisure/medisure-backend/internal/oracle"
)

// CustodyService decides whether a wallet currently holds the on-chain token
// for a batch. The oracle has read-after-write lag, so the primary check
// retries with a fixed backoff before concluding the asset is absent.
type CustodyService struct {
	oracle   oracle.Client
	attempts int
	backoff  time.Duration
}

// VerificationResult distinguishes "we checked and the asset is absent"
// (Success true, HasAsset false) from "we could not check" (Success false).
// It is never persisted or cached across calls.
type VerificationResult struct {
	Success  bool   `json:"success"`
	HasAsset bool   `json:"has_asset"`
	Quantity string `json:"quantity,omitempty"`
	Error    string `json:"error,omitempty"`
}

func NewCustodyService(oracleClient oracle.Client, cfg *config.Config) *CustodyService {
	attempts := cfg.Blockfrost.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &CustodyService{
		oracle:   oracleClient,
		attempts: attempts,
		backoff:  time.Duration(cfg.Blockfrost.RetryBackoff) * time.Second,
	}
}

// VerifyWalletHasAsset is the primary, exact-address custody check. The
// wallet address is an opaque string; anything that does not match a holder
// record verbatim simply does not match. Quantity defaults to "1" when the
// oracle omits it.
func (s *CustodyService) VerifyWalletHasAsset(ctx context.Context, walletAddress, policyID, assetName string) *VerificationResult {
	assetID := policyID + assetName

	for attempt := 1; attempt <= s.attempts; attempt++ {
		holders, err := s.oracle.AssetAddresses(ctx, assetID)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"asset":   assetID,
				"attempt": attempt,
			}).WithError(err).Warn("Custody oracle call failed")

			if attempt < s.attempts && s.wait(ctx) {
				continue
			}
			return &VerificationResult{Success: false, Error: err.Error()}
		}

		logrus.WithFields(logrus.Fields{
			"asset":   assetID,
			"attempt": attempt,
			"holders": len(holders),
		}).Debug("Fetched asset holders")

		for _, holder := range holders {
			if holder.Address == walletAddress {
				quantity := holder.Quantity
				if quantity == "" {
					quantity = "1"
				}
				return &VerificationResult{Success: true, HasAsset: true, Quantity: quantity}
			}
		}

		if attempt < s.attempts {
			logrus.WithField("asset", assetID).Debug("Asset not yet found in recipient wallet, retrying")
			if !s.wait(ctx) {
				break
			}
		}
	}

	return &VerificationResult{Success: true, HasAsset: false}
}

// VerifyByStakeAddress reconciles HD-wallet address rotation: a wallet may
// present a fresh receiving address per transaction while every address
// shares one stake key. Called by the transfer flow only after the primary
// check reports the asset absent.
func (s *CustodyService) VerifyByStakeAddress(ctx context.Context, walletAddress, policyID, assetName string) *VerificationResult {
	targetInfo, err := s.oracle.AddressInfo(ctx, walletAddress)
	if err != nil || targetInfo.StakeAddress == "" {
		// Without a resolvable stake address there is nothing to reconcile.
		return &VerificationResult{Success: true, HasAsset: false}
	}

	assetID := policyID + assetName
	holders, err := s.oracle.AssetAddresses(ctx, assetID)
	if err != nil {
		return &VerificationResult{Success: false, Error: err.Error()}
	}

	for _, holder := range holders {
		holderInfo, err := s.oracle.AddressInfo(ctx, holder.Address)
		if err != nil {
			// A holder whose stake address cannot be resolved is skipped,
			// not treated as fatal.
			logrus.WithField("holder", holder.Address).WithError(err).
				Debug("Skipping holder with unresolvable stake address")
			continue
		}

		if holderInfo.StakeAddress != "" && holderInfo.StakeAddress == targetInfo.StakeAddress {
			quantity := holder.Quantity
			if quantity == "" {
				quantity = "1"
			}
			logrus.WithFields(logrus.Fields{
				"wallet":        walletAddress,
				"holder":        holder.Address,
				"stake_address": targetInfo.StakeAddress,
			}).Info("Custody matched via stake address reconciliation")
			return &VerificationResult{Success: true, HasAsset: true, Quantity: quantity}
		}
	}

	return &VerificationResult{Success: true, HasAsset: false}
}

// wait blocks for the backoff interval. Returns false when the context is
// cancelled first, which ends the retry loop early.
func (s *CustodyService) wait(ctx context.Context) bool {
	if s.backoff <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(s.backoff)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
