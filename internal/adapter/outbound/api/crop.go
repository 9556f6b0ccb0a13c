package api

import (
	"context"
	"net/http"

	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/domain/crop"
)

// cropEnvelope is the canonical response shape for crop endpoints.
// Crop endpoints use a `crops` key where other resources use `data`;
// the difference stays inside this package.
type cropEnvelope struct {
	Crops []crop.Crop `json:"crops"`
}

// ListCrops fetches the full crop collection.
func (c *Client) ListCrops(ctx context.Context) ([]crop.Crop, error) {
	var env cropEnvelope
	if err := c.doRequest(ctx, http.MethodGet, "/api/crop/all", nil, &env); err != nil {
		return nil, err
	}
	return env.Crops, nil
}

// CropsByIDs resolves the given crop ids in one round trip.
func (c *Client) CropsByIDs(ctx context.Context, ids []string) ([]crop.Crop, error) {
	var env cropEnvelope
	if err := c.doRequest(ctx, http.MethodPost, "/api/crop/get-by-ids", idsRequest{IDs: ids}, &env); err != nil {
		return nil, err
	}
	return env.Crops, nil
}

// RecentCrops fetches the most recently submitted crops.
func (c *Client) RecentCrops(ctx context.Context) ([]crop.Crop, error) {
	var env cropEnvelope
	if err := c.doRequest(ctx, http.MethodGet, "/api/crop/recent", nil, &env); err != nil {
		return nil, err
	}
	return env.Crops, nil
}

// CropCount returns the total number of crop records.
func (c *Client) CropCount(ctx context.Context) (int, error) {
	return c.count(ctx, "/api/crop/count")
}

// countEnvelope is the canonical response shape for count endpoints.
type countEnvelope struct {
	Count int `json:"count"`
}

func (c *Client) count(ctx context.Context, path string) (int, error) {
	var env countEnvelope
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &env); err != nil {
		return 0, err
	}
	return env.Count, nil
}
