// internal/oracle/client.go
package oracle

import (
	"context"
	"fmt"
)

// AssetAddress is one holder record for an asset: the raw receiving address
// and the quantity held there.
type AssetAddress struct {
	Address  string `json:"address"`
	Quantity string `json:"quantity"`
}

// AddressInfo describes a single address. StakeAddress is the wallet-level
// identifier shared across the rotating receiving addresses of an HD wallet;
// it is empty for enterprise addresses without a staking part.
type AddressInfo struct {
	Address      string `json:"address"`
	StakeAddress string `json:"stake_address"`
	Type         string `json:"type"`
}

// AssetInfo is the oracle's view of a minted asset.
type AssetInfo struct {
	Asset          string `json:"asset"`
	PolicyID       string `json:"policy_id"`
	AssetName      string `json:"asset_name"`
	Quantity       string `json:"quantity"`
	InitialMintTx  string `json:"initial_mint_tx_hash"`
	MintOrBurnTxns int    `json:"mint_or_burn_count"`
}

// Client is the asset-custody oracle capability. Both calls are read-only and
// idempotent; implementations surface transport and API failures as *APIError.
// Tests substitute a fake implementation instead of mutating shared state.
type Client interface {
	// AssetAddresses returns the current holder list for an asset identifier
	// (policy id concatenated with asset name). The returned slice is already
	// normalized: a single-record response becomes a one-element slice.
	AssetAddresses(ctx context.Context, assetID string) ([]AssetAddress, error)

	// AddressInfo resolves details for one address, including its stake address.
	AddressInfo(ctx context.Context, address string) (*AddressInfo, error)

	// Asset returns on-chain information for a minted asset.
	Asset(ctx context.Context, assetID string) (*AssetInfo, error)
}

// APIError is a failed oracle call, transport or HTTP level.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("oracle: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("oracle: %s", e.Message)
}
