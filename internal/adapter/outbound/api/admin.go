package api

import (
	"context"
	"net/http"

	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/domain/admin"
)

// adminEnvelope is the canonical response shape for admin endpoints.
type adminEnvelope struct {
	Data []admin.Admin `json:"data"`
}

// ListAdmins fetches the officer account collection. Only super-admins
// are authorized for this endpoint.
func (c *Client) ListAdmins(ctx context.Context) ([]admin.Admin, error) {
	var env adminEnvelope
	if err := c.doRequest(ctx, http.MethodGet, "/api/admin", nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// AdminsByIDs resolves the given officer ids in one round trip.
func (c *Client) AdminsByIDs(ctx context.Context, ids []string) ([]admin.Admin, error) {
	var env adminEnvelope
	if err := c.doRequest(ctx, http.MethodPost, "/api/admin/by-ids", idsRequest{IDs: ids}, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// AdminCount returns the total number of officer accounts.
func (c *Client) AdminCount(ctx context.Context) (int, error) {
	return c.count(ctx, "/api/admin/count")
}
