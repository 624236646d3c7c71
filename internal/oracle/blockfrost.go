// internal/oracle/blockfrost.go
package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/medisure/medisure-backend/internal/config"
)

// BlockfrostClient talks to the Blockfrost Cardano indexing API. The project
// id is sent per request; the network picks the base URL (mainnet, preprod,
// preview).
type BlockfrostClient struct {
	baseURL    string
	projectID  string
	httpClient *http.Client
}

func NewBlockfrostClient(cfg config.BlockfrostConfig) *BlockfrostClient {
	return &BlockfrostClient{
		baseURL:   fmt.Sprintf("https://cardano-%s.blockfrost.io/api/v0", cfg.Network),
		projectID: cfg.ProjectID,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeout) * time.Second,
		},
	}
}

func (c *BlockfrostClient) AssetAddresses(ctx context.Context, assetID string) ([]AssetAddress, error) {
	body, err := c.get(ctx, "/assets/"+assetID+"/addresses")
	if err != nil {
		return nil, err
	}

	// The endpoint normally returns a list, but older deployments return a
	// bare record for single-holder assets. Normalize here so callers never
	// see the ambiguity.
	var addresses []AssetAddress
	if err := json.Unmarshal(body, &addresses); err == nil {
		return addresses, nil
	}

	var single AssetAddress
	if err := json.Unmarshal(body, &single); err == nil && single.Address != "" {
		return []AssetAddress{single}, nil
	}

	return []AssetAddress{}, nil
}

func (c *BlockfrostClient) AddressInfo(ctx context.Context, address string) (*AddressInfo, error) {
	body, err := c.get(ctx, "/addresses/"+address)
	if err != nil {
		return nil, err
	}

	var info AddressInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, &APIError{Message: fmt.Sprintf("decode address info: %v", err)}
	}
	info.Address = address
	return &info, nil
}

func (c *BlockfrostClient) Asset(ctx context.Context, assetID string) (*AssetInfo, error) {
	body, err := c.get(ctx, "/assets/"+assetID)
	if err != nil {
		return nil, err
	}

	var info AssetInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, &APIError{Message: fmt.Sprintf("decode asset info: %v", err)}
	}
	return &info, nil
}

func (c *BlockfrostClient) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, &APIError{Message: err.Error()}
	}
	req.Header.Set("project_id", c.projectID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Message: err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	return body, nil
}
