package service

import (
	"context"
	"time"

	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/domain/access"
	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/domain/admin"
	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/domain/crop"
	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/domain/farmer"
	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/domain/session"
	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/domain/verifier"
)

// Export is a point-in-time dump of the cached collections, refreshed
// first when stale. Admins is populated for super-admins only.
type Export struct {
	GeneratedAt time.Time           `json:"generatedAt" yaml:"generatedAt"`
	Role        session.Role        `json:"role" yaml:"role"`
	Farmers     []farmer.Farmer     `json:"farmers" yaml:"farmers"`
	Verifiers   []verifier.Verifier `json:"verifiers" yaml:"verifiers"`
	Crops       []crop.Crop         `json:"crops" yaml:"crops"`
	Admins      []admin.Admin       `json:"admins,omitempty" yaml:"admins,omitempty"`
}

// ExportData assembles an export for the signed-in role. Hydration is
// awaited so crop references resolve in the dump.
func (p *Portal) ExportData(ctx context.Context) (*Export, error) {
	sess, err := p.requireAccess(access.OpExport)
	if err != nil {
		return nil, err
	}

	out := &Export{
		GeneratedAt: time.Now().UTC(),
		Role:        sess.Role,
	}

	if out.Crops, err = p.Crops(ctx); err != nil {
		return nil, err
	}
	if out.Farmers, err = p.Farmers(ctx); err != nil {
		return nil, err
	}
	if out.Verifiers, err = p.Verifiers(ctx); err != nil {
		return nil, err
	}
	if sess.Role == session.RoleSuperAdmin {
		if out.Admins, err = p.Admins(ctx); err != nil {
			return nil, err
		}
	}

	p.hydrator.Wait()
	return out, nil
}
