// internal/utils/crypto.go
package utils

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// GenerateQRToken returns the opaque token printed on a batch's QR label.
func GenerateQRToken() string {
	return uuid.NewString()
}

// GenerateLedgerHash builds a synthetic hash for ledger entries that have no
// on-chain transaction behind them (RECEIVED, SOLD). The prefix identifies
// the flow that produced the entry.
func GenerateLedgerHash(prefix string) string {
	return prefix + "-" + HashString(uuid.NewString())[:16]
}

func HashString(input string) string {
	hasher := sha256.New()
	hasher.Write([]byte(input))
	return hex.EncodeToString(hasher.Sum(nil))
}
