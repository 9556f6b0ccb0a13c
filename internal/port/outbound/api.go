// Package outbound defines the outbound port interfaces: the REST
// backend and the persisted client state.
package outbound

import (
	"context"

	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/adapter/outbound/api"
	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/domain/admin"
	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/domain/crop"
	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/domain/farmer"
	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/domain/verifier"
)

// AuthAPI is the outbound port for authentication.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*api.LoginResult, error)
}

// FarmerAPI is the outbound port for farmer records.
type FarmerAPI interface {
	ListFarmers(ctx context.Context) ([]farmer.Farmer, error)
	FarmersByIDs(ctx context.Context, ids []string) ([]farmer.Farmer, error)
	FarmerCount(ctx context.Context) (int, error)
}

// VerifierAPI is the outbound port for verifier records and mutations.
type VerifierAPI interface {
	ListVerifiers(ctx context.Context) ([]verifier.Verifier, error)
	VerifiersByIDs(ctx context.Context, ids []string) ([]verifier.Verifier, error)
	RegisterVerifier(ctx context.Context, reg *verifier.Registration) (*verifier.Verifier, error)
	UpdateVerifier(ctx context.Context, id string, patch map[string]any) (*verifier.Verifier, error)
	VerifyVerifier(ctx context.Context, id string) error
	DeleteVerifier(ctx context.Context, id string) error
	VerifierCount(ctx context.Context) (int, error)
}

// CropAPI is the outbound port for crop records.
type CropAPI interface {
	ListCrops(ctx context.Context) ([]crop.Crop, error)
	CropsByIDs(ctx context.Context, ids []string) ([]crop.Crop, error)
	RecentCrops(ctx context.Context) ([]crop.Crop, error)
	CropCount(ctx context.Context) (int, error)
}

// AdminAPI is the outbound port for officer accounts.
type AdminAPI interface {
	ListAdmins(ctx context.Context) ([]admin.Admin, error)
	AdminsByIDs(ctx context.Context, ids []string) ([]admin.Admin, error)
	AdminCount(ctx context.Context) (int, error)
}

// BackendAPI bundles every outbound API port. The concrete api.Client
// satisfies it.
type BackendAPI interface {
	AuthAPI
	FarmerAPI
	VerifierAPI
	CropAPI
	AdminAPI
}
