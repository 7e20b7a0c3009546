package repair

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitororigens/glowapp-site-sub000/internal/infra/repository"
	"github.com/vitororigens/glowapp-site-sub000/internal/models"
	"github.com/vitororigens/glowapp-site-sub000/internal/testutil"
)

func TestLinkOrphans(t *testing.T) {
	gdb := testutil.NewDB(t)
	seed := testutil.SeedTenant(t, gdb, "clinica")
	tenantID := seed.Tenant.ID
	ctx := context.Background()

	ana := models.Client{TenantID: tenantID, Name: "ana lima"}
	require.NoError(t, gdb.Create(&ana).Error)
	for i := 0; i < 2; i++ {
		require.NoError(t, gdb.Create(&models.Client{TenantID: tenantID, Name: "bia"}).Error)
	}

	services := repository.NewServiceGormRepository(gdb)
	orphan := func(name string) *models.ServiceRecord {
		rec := &models.ServiceRecord{
			TenantID:        tenantID,
			ClientName:      name,
			ProfessionalID:  seed.Professional.ID,
			TotalPriceCents: 6000,
		}
		require.NoError(t, services.Create(ctx, rec))
		return rec
	}

	linked := orphan("  ana   lima ")
	orphan("bia")
	orphan("carla")
	orphan("")

	uc := NewLinkOrphans(
		repository.NewTenantGormRepository(gdb),
		services,
		repository.NewClientGormRepository(gdb),
		nil,
	)

	rep, err := uc.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, Report{Linked: 1, Ambiguous: 1, Unmatched: 2}, rep)

	got, err := services.Get(ctx, tenantID, linked.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ClientID)
	assert.Equal(t, ana.ID, *got.ClientID)

	// segunda passada não encontra o já vinculado
	rep, err = uc.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, Report{Ambiguous: 1, Unmatched: 2}, rep)
}
