// Package subscription links a tenant to its Mercado Pago preapproval.
package subscription

import (
	"context"
	"fmt"
	"strings"

	"github.com/mercadopago/sdk-go/pkg/preapproval"
	"go.uber.org/zap"

	"github.com/vitororigens/glowapp-site-sub000/internal/audit"
	"github.com/vitororigens/glowapp-site-sub000/internal/domain/quota"
	"github.com/vitororigens/glowapp-site-sub000/internal/httperr"
)

type Store interface {
	UpdateSubscription(ctx context.Context, tenantID uint, preapprovalID string, tier string) error
}

type Fetcher interface {
	Get(ctx context.Context, id string) (*preapproval.Response, error)
}

// PlanCache é opcional; sem Redis fica nil.
type PlanCache interface {
	Invalidate(ctx context.Context, tenantID uint) error
}

type Input struct {
	TenantID      uint
	UserID        uint
	PreapprovalID string
}

type Result struct {
	Tier   quota.Tier `json:"tier"`
	Status string     `json:"status"`
}

type LinkSubscription struct {
	store     Store
	subs      Fetcher
	planTiers map[string]quota.Tier
	cache     PlanCache
	audit     *audit.Dispatcher
	logger    *zap.Logger
}

func NewLinkSubscription(
	store Store,
	subs Fetcher,
	planTiers map[string]quota.Tier,
	cache PlanCache,
	audit *audit.Dispatcher,
	logger *zap.Logger,
) *LinkSubscription {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LinkSubscription{
		store:     store,
		subs:      subs,
		planTiers: planTiers,
		cache:     cache,
		audit:     audit,
		logger:    logger,
	}
}

// Execute confere a assinatura no Mercado Pago, grava o tier do plano e
// descarta o plano em cache do tenant.
func (uc *LinkSubscription) Execute(ctx context.Context, in Input) (*Result, error) {
	id := strings.TrimSpace(in.PreapprovalID)
	if id == "" {
		return nil, httperr.ErrValidation("preapproval_id", "required")
	}
	if uc.subs == nil {
		return nil, httperr.ErrBusiness("billing_disabled")
	}

	sub, err := uc.subs.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch preapproval %s: %w", id, err)
	}

	tier, ok := uc.planTiers[sub.PreapprovalPlanID]
	if !ok {
		return nil, httperr.ErrBusiness("unknown_subscription_plan")
	}

	if err := uc.store.UpdateSubscription(ctx, in.TenantID, id, string(tier)); err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx, in.TenantID); err != nil {
			uc.logger.Warn("plan cache invalidate failed",
				zap.Uint("tenant_id", in.TenantID),
				zap.Error(err),
			)
		}
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: in.TenantID,
		UserID:   &in.UserID,
		Action:   "subscription_linked",
		Entity:   "tenant",
		EntityID: fmt.Sprint(in.TenantID),
		Metadata: map[string]string{
			"preapproval_id": id,
			"tier":           string(tier),
			"status":         sub.Status,
		},
	})

	return &Result{Tier: tier, Status: sub.Status}, nil
}
