package service

import (
	"context"
	"time"

	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/domain/access"
	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/domain/session"
)

// DashboardCounts are the headline totals shown on the portal landing
// page. IncludesAdmins is false for roles that may not see officer
// accounts.
type DashboardCounts struct {
	Farmers        int       `json:"farmers" yaml:"farmers"`
	Verifiers      int       `json:"verifiers" yaml:"verifiers"`
	Crops          int       `json:"crops" yaml:"crops"`
	Admins         int       `json:"admins,omitempty" yaml:"admins,omitempty"`
	IncludesAdmins bool      `json:"-" yaml:"-"`
	GeneratedAt    time.Time `json:"generatedAt" yaml:"generatedAt"`
}

// Dashboard fetches the record counts. Counts are cheap single-number
// calls, so they are not cached; every dashboard render shows live
// totals even while the collections themselves serve from cache.
func (p *Portal) Dashboard(ctx context.Context) (*DashboardCounts, error) {
	sess, err := p.requireAccess(access.OpDashboard)
	if err != nil {
		return nil, err
	}

	counts := &DashboardCounts{GeneratedAt: time.Now().UTC()}

	if counts.Farmers, err = p.backend.FarmerCount(ctx); err != nil {
		return nil, err
	}
	if counts.Verifiers, err = p.backend.VerifierCount(ctx); err != nil {
		return nil, err
	}
	if counts.Crops, err = p.backend.CropCount(ctx); err != nil {
		return nil, err
	}

	if sess.Role == session.RoleSuperAdmin {
		if counts.Admins, err = p.backend.AdminCount(ctx); err != nil {
			return nil, err
		}
		counts.IncludesAdmins = true
	}

	return counts, nil
}
