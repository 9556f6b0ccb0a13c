package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/domain/verifier"
)

// verifierListEnvelope is the canonical list response for verifiers.
type verifierListEnvelope struct {
	Data []verifier.Verifier `json:"data"`
}

// verifierEnvelope is the canonical single-record response.
type verifierEnvelope struct {
	Data verifier.Verifier `json:"data"`
}

// ListVerifiers fetches the full verifier collection.
func (c *Client) ListVerifiers(ctx context.Context) ([]verifier.Verifier, error) {
	var env verifierListEnvelope
	if err := c.doRequest(ctx, http.MethodGet, "/api/verifier", nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// VerifiersByIDs resolves the given verifier ids in one round trip.
// Taluka officers use this with the restricted id set from their profile.
func (c *Client) VerifiersByIDs(ctx context.Context, ids []string) ([]verifier.Verifier, error) {
	var env verifierListEnvelope
	if err := c.doRequest(ctx, http.MethodPost, "/api/verifier/by-ids", idsRequest{IDs: ids}, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// RegisterVerifier creates a verifier account. The registration must
// already be validated and normalized; duplicate unique fields come
// back as a ConflictError naming the field.
func (c *Client) RegisterVerifier(ctx context.Context, reg *verifier.Registration) (*verifier.Verifier, error) {
	var env verifierEnvelope
	if err := c.doRequest(ctx, http.MethodPost, "/api/verifier/register", reg, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// UpdateVerifier patches a verifier record and returns the updated
// record as the backend stored it.
func (c *Client) UpdateVerifier(ctx context.Context, id string, patch map[string]any) (*verifier.Verifier, error) {
	var env verifierEnvelope
	path := fmt.Sprintf("/api/verifier/update/%s", id)
	if err := c.doRequest(ctx, http.MethodPatch, path, patch, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// VerifyVerifier marks a verifier account as verified.
func (c *Client) VerifyVerifier(ctx context.Context, id string) error {
	path := fmt.Sprintf("/api/verifier/%s/verify", id)
	return c.doRequest(ctx, http.MethodPut, path, struct{}{}, nil)
}

// DeleteVerifier removes a verifier account.
func (c *Client) DeleteVerifier(ctx context.Context, id string) error {
	path := fmt.Sprintf("/api/verifier/delete/%s", id)
	return c.doRequest(ctx, http.MethodDelete, path, nil, nil)
}

// VerifierCount returns the total number of verifier records.
func (c *Client) VerifierCount(ctx context.Context) (int, error) {
	return c.count(ctx, "/api/verifier/count")
}
