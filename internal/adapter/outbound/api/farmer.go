package api

import (
	"context"
	"net/http"

	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/domain/farmer"
)

// farmerEnvelope is the canonical response shape for farmer endpoints.
type farmerEnvelope struct {
	Data []farmer.Farmer `json:"data"`
}

// idsRequest is the body for bulk-by-ids lookups.
type idsRequest struct {
	IDs []string `json:"ids"`
}

// ListFarmers fetches the full farmer collection.
func (c *Client) ListFarmers(ctx context.Context) ([]farmer.Farmer, error) {
	var env farmerEnvelope
	if err := c.doRequest(ctx, http.MethodGet, "/api/farmer", nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// FarmersByIDs resolves the given farmer ids in one round trip.
func (c *Client) FarmersByIDs(ctx context.Context, ids []string) ([]farmer.Farmer, error) {
	var env farmerEnvelope
	if err := c.doRequest(ctx, http.MethodPost, "/api/farmer/by-ids", idsRequest{IDs: ids}, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// FarmerCount returns the total number of farmer records.
func (c *Client) FarmerCount(ctx context.Context) (int, error) {
	return c.count(ctx, "/api/farmer/count")
}
