package subscription

import (
	"context"
	"errors"
	"testing"

	"github.com/mercadopago/sdk-go/pkg/preapproval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitororigens/glowapp-site-sub000/internal/domain/quota"
	"github.com/vitororigens/glowapp-site-sub000/internal/httperr"
	infraRepo "github.com/vitororigens/glowapp-site-sub000/internal/infra/repository"
	"github.com/vitororigens/glowapp-site-sub000/internal/models"
	"github.com/vitororigens/glowapp-site-sub000/internal/testutil"
)

type subsStub map[string]*preapproval.Response

func (s subsStub) Get(_ context.Context, id string) (*preapproval.Response, error) {
	if r, ok := s[id]; ok {
		return r, nil
	}
	return nil, errors.New("preapproval not found")
}

type cacheStub struct {
	invalidated []uint
	err         error
}

func (c *cacheStub) Invalidate(_ context.Context, tenantID uint) error {
	c.invalidated = append(c.invalidated, tenantID)
	return c.err
}

var tiers = map[string]quota.Tier{"plan-pro": quota.TierPro}

func TestLinkSubscription(t *testing.T) {
	gdb := testutil.NewDB(t)
	seed := testutil.SeedTenant(t, gdb, "studio")
	store := infraRepo.NewTenantGormRepository(gdb)

	subs := subsStub{
		"sub-1":   {ID: "sub-1", PreapprovalPlanID: "plan-pro", Status: "authorized"},
		"sub-odd": {ID: "sub-odd", PreapprovalPlanID: "plan-legacy", Status: "authorized"},
	}

	t.Run("grava tier e invalida o cache", func(t *testing.T) {
		cache := &cacheStub{err: errors.New("redis down")}
		uc := NewLinkSubscription(store, subs, tiers, cache, nil, nil)

		res, err := uc.Execute(context.Background(), Input{TenantID: seed.Tenant.ID, UserID: 1, PreapprovalID: " sub-1 "})
		require.NoError(t, err)
		assert.Equal(t, quota.TierPro, res.Tier)
		assert.Equal(t, "authorized", res.Status)
		assert.Equal(t, []uint{seed.Tenant.ID}, cache.invalidated)

		var tenant models.Tenant
		require.NoError(t, gdb.First(&tenant, seed.Tenant.ID).Error)
		assert.Equal(t, "sub-1", tenant.PreapprovalID)
		assert.Equal(t, "pro", tenant.PlanTier)
	})

	t.Run("plano desconhecido", func(t *testing.T) {
		uc := NewLinkSubscription(store, subs, tiers, nil, nil, nil)
		_, err := uc.Execute(context.Background(), Input{TenantID: seed.Tenant.ID, PreapprovalID: "sub-odd"})
		assert.True(t, httperr.IsBusiness(err, "unknown_subscription_plan"))
	})

	t.Run("preapproval inexistente", func(t *testing.T) {
		uc := NewLinkSubscription(store, subs, tiers, nil, nil, nil)
		_, err := uc.Execute(context.Background(), Input{TenantID: seed.Tenant.ID, PreapprovalID: "nope"})
		assert.Error(t, err)
	})

	t.Run("id obrigatório", func(t *testing.T) {
		uc := NewLinkSubscription(store, subs, tiers, nil, nil, nil)
		_, err := uc.Execute(context.Background(), Input{TenantID: seed.Tenant.ID})
		fields := httperr.ValidationFields(err)
		require.Len(t, fields, 1)
		assert.Equal(t, "preapproval_id", fields[0].Field)
	})

	t.Run("billing desligado", func(t *testing.T) {
		uc := NewLinkSubscription(store, nil, tiers, nil, nil, nil)
		_, err := uc.Execute(context.Background(), Input{TenantID: seed.Tenant.ID, PreapprovalID: "sub-1"})
		assert.True(t, httperr.IsBusiness(err, "billing_disabled"))
	})
}
