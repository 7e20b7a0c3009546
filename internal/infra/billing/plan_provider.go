// Package billing turns the tenant's subscription state into the plan tier
// used by quota checks.
package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/preapproval"
	"go.uber.org/zap"

	"github.com/vitororigens/glowapp-site-sub000/internal/domain/quota"
	"github.com/vitororigens/glowapp-site-sub000/internal/models"
)

const statusAuthorized = "authorized"

type TenantStore interface {
	GetTenant(ctx context.Context, id uint) (*models.Tenant, error)
}

// SubscriptionFetcher is the part of the Mercado Pago preapproval client we use.
type SubscriptionFetcher interface {
	Get(ctx context.Context, id string) (*preapproval.Response, error)
}

// NewSubscriptionFetcher builds the Mercado Pago client. An empty token
// disables billing lookups.
func NewSubscriptionFetcher(accessToken string) (SubscriptionFetcher, error) {
	if accessToken == "" {
		return nil, nil
	}
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}
	return preapproval.NewClient(cfg), nil
}

type MercadoPagoPlanProvider struct {
	tenants   TenantStore
	subs      SubscriptionFetcher
	catalog   quota.Catalog
	planTiers map[string]quota.Tier
	logger    *zap.Logger
	now       func() time.Time
}

func NewMercadoPagoPlanProvider(
	tenants TenantStore,
	subs SubscriptionFetcher,
	catalog quota.Catalog,
	planTiers map[string]quota.Tier,
	logger *zap.Logger,
) *MercadoPagoPlanProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MercadoPagoPlanProvider{
		tenants:   tenants,
		subs:      subs,
		catalog:   catalog,
		planTiers: planTiers,
		logger:    logger,
		now:       time.Now,
	}
}

// GetActivePlan:
//   - com assinatura: ativo só se o preapproval está "authorized"; o tier
//     vem do plano da assinatura ou, sem mapeamento, do tenant;
//   - sem assinatura: tier do tenant, ativo até o fim do trial;
//   - billing desligado: tier do tenant, sempre ativo.
func (p *MercadoPagoPlanProvider) GetActivePlan(ctx context.Context, tenantID uint) (quota.PlanTier, error) {
	tenant, err := p.tenants.GetTenant(ctx, tenantID)
	if err != nil {
		return quota.PlanTier{}, err
	}

	storedTier, ok := quota.ParseTier(tenant.PlanTier)
	if !ok {
		storedTier = quota.TierStart
	}

	if p.subs == nil {
		return p.catalog.Plan(storedTier, true), nil
	}

	if tenant.PreapprovalID == "" {
		trial := tenant.TrialEndsAt != nil && p.now().Before(*tenant.TrialEndsAt)
		return p.catalog.Plan(storedTier, trial), nil
	}

	sub, err := p.subs.Get(ctx, tenant.PreapprovalID)
	if err != nil {
		return quota.PlanTier{}, fmt.Errorf("fetch preapproval %s: %w", tenant.PreapprovalID, err)
	}

	tier := storedTier
	if mapped, ok := p.planTiers[sub.PreapprovalPlanID]; ok {
		tier = mapped
	}

	active := sub.Status == statusAuthorized
	if !active {
		p.logger.Info("subscription not authorized",
			zap.Uint("tenant_id", tenantID),
			zap.String("status", sub.Status),
		)
	}

	return p.catalog.Plan(tier, active), nil
}

var _ quota.PlanProvider = (*MercadoPagoPlanProvider)(nil)
