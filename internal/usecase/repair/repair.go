// Package repair links service records saved without a client to the
// tenant's client with the same name. It runs offline from cmd/repair.
package repair

import (
	"context"

	"go.uber.org/zap"

	"github.com/vitororigens/glowapp-site-sub000/internal/models"
	"github.com/vitororigens/glowapp-site-sub000/internal/validators"
)

type TenantLister interface {
	ListTenantIDs(ctx context.Context) ([]uint, error)
}

type OrphanStore interface {
	ListOrphans(ctx context.Context, tenantID uint) ([]models.ServiceRecord, error)
	LinkClient(ctx context.Context, tenantID uint, recordID, clientID string) (bool, error)
}

type ClientFinder interface {
	FindAllByName(ctx context.Context, tenantID uint, name string) ([]models.Client, error)
}

type Report struct {
	Linked    int `json:"linked"`
	Ambiguous int `json:"ambiguous"`
	Unmatched int `json:"unmatched"`
}

func (r *Report) add(o Report) {
	r.Linked += o.Linked
	r.Ambiguous += o.Ambiguous
	r.Unmatched += o.Unmatched
}

type LinkOrphans struct {
	tenants  TenantLister
	services OrphanStore
	clients  ClientFinder
	logger   *zap.Logger
}

func NewLinkOrphans(
	tenants TenantLister,
	services OrphanStore,
	clients ClientFinder,
	logger *zap.Logger,
) *LinkOrphans {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LinkOrphans{
		tenants:  tenants,
		services: services,
		clients:  clients,
		logger:   logger,
	}
}

// Execute passes over every tenant. A record is linked only when exactly
// one client has its normalized name.
func (uc *LinkOrphans) Execute(ctx context.Context) (Report, error) {
	ids, err := uc.tenants.ListTenantIDs(ctx)
	if err != nil {
		return Report{}, err
	}

	var total Report
	for _, id := range ids {
		r, err := uc.Tenant(ctx, id)
		if err != nil {
			return total, err
		}
		total.add(r)
	}
	return total, nil
}

func (uc *LinkOrphans) Tenant(ctx context.Context, tenantID uint) (Report, error) {
	orphans, err := uc.services.ListOrphans(ctx, tenantID)
	if err != nil {
		return Report{}, err
	}

	var rep Report
	for _, rec := range orphans {
		name := validators.NormalizeName(rec.ClientName)
		if name == "" {
			rep.Unmatched++
			continue
		}

		matches, err := uc.clients.FindAllByName(ctx, tenantID, name)
		if err != nil {
			return rep, err
		}

		switch len(matches) {
		case 0:
			rep.Unmatched++
		case 1:
			ok, err := uc.services.LinkClient(ctx, tenantID, rec.ID, matches[0].ID)
			if err != nil {
				return rep, err
			}
			if ok {
				rep.Linked++
			}
		default:
			uc.logger.Warn("orphan service matches several clients",
				zap.Uint("tenant_id", tenantID),
				zap.String("service_id", rec.ID),
				zap.Int("matches", len(matches)),
			)
			rep.Ambiguous++
		}
	}

	uc.logger.Info("orphan repair done",
		zap.Uint("tenant_id", tenantID),
		zap.Int("linked", rep.Linked),
		zap.Int("ambiguous", rep.Ambiguous),
		zap.Int("unmatched", rep.Unmatched),
	)
	return rep, nil
}
