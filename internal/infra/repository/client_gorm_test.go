package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitororigens/glowapp-site-sub000/internal/domain/client"
	"github.com/vitororigens/glowapp-site-sub000/internal/models"
	"github.com/vitororigens/glowapp-site-sub000/internal/testutil"
)

func TestClientRepository_FindByField(t *testing.T) {
	gdb := testutil.NewDB(t)
	repo := NewClientGormRepository(gdb)
	ctx := context.Background()
	a := &testutil.SeedTenant(t, gdb, "a").Tenant
	b := &testutil.SeedTenant(t, gdb, "b").Tenant

	require.NoError(t, gdb.Create(&models.Client{TenantID: a.ID, Name: "Ana", CPF: "11122233344", Phone: "11911112222"}).Error)
	require.NoError(t, gdb.Create(&models.Client{TenantID: b.ID, Name: "Ana", Phone: "11955556666"}).Error)

	found, err := repo.FindByField(ctx, a.ID, client.FieldCPF, "11122233344", "")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Len(t, found.ID, 36)

	found, err = repo.FindByField(ctx, a.ID, client.FieldPhone, "11955556666", "")
	require.NoError(t, err)
	assert.Nil(t, found, "other tenant's client is invisible")

	found, err = repo.FindByField(ctx, b.ID, client.FieldName, "Ana", "")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, b.ID, found.TenantID)

	_, err = repo.FindByField(ctx, a.ID, client.Field("email"), "x", "")
	assert.Error(t, err)
}

func TestClientRepository_FindByFieldSkipsConflictingCPF(t *testing.T) {
	gdb := testutil.NewDB(t)
	repo := NewClientGormRepository(gdb)
	ctx := context.Background()
	tenant := &testutil.SeedTenant(t, gdb, "a").Tenant

	older := &models.Client{TenantID: tenant.ID, Name: "Maria", CPF: "11122233344", Phone: "11911112222", CreatedAt: time.Now().Add(-time.Hour)}
	newer := &models.Client{TenantID: tenant.ID, Name: "Maria Clara", Phone: "11911112222", CreatedAt: time.Now()}
	require.NoError(t, gdb.Create(older).Error)
	require.NoError(t, gdb.Create(newer).Error)

	found, err := repo.FindByField(ctx, tenant.ID, client.FieldPhone, "11911112222", "")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, older.ID, found.ID)

	found, err = repo.FindByField(ctx, tenant.ID, client.FieldPhone, "11911112222", "55566677788")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, newer.ID, found.ID)

	found, err = repo.FindByField(ctx, tenant.ID, client.FieldPhone, "11911112222", "11122233344")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, older.ID, found.ID)
}

func TestClientRepository_CreateWithinQuota(t *testing.T) {
	gdb := testutil.NewDB(t)
	repo := NewClientGormRepository(gdb)
	ctx := context.Background()
	tenant := &testutil.SeedTenant(t, gdb, "t").Tenant

	for i, name := range []string{"Ana", "Bia"} {
		created, current, err := repo.CreateWithinQuota(ctx, &models.Client{TenantID: tenant.ID, Name: name}, 2)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, i+1, current)
	}

	c := &models.Client{TenantID: tenant.ID, Name: "Carla"}
	created, current, err := repo.CreateWithinQuota(ctx, c, 2)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 2, current)

	n, err := repo.Count(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, _, err = repo.CreateWithinQuota(ctx, &models.Client{TenantID: 999, Name: "X"}, 2)
	assert.Error(t, err, "unknown tenant")
}

func TestClientRepository_UpdateAndSearch(t *testing.T) {
	gdb := testutil.NewDB(t)
	repo := NewClientGormRepository(gdb)
	ctx := context.Background()
	tenant := &testutil.SeedTenant(t, gdb, "t").Tenant

	c := &models.Client{TenantID: tenant.ID, Name: "Carla Lima"}
	require.NoError(t, gdb.Create(c).Error)

	require.NoError(t, repo.Update(ctx, tenant.ID, c.ID, map[string]any{"phone": "11977778888"}))

	got, err := repo.Get(ctx, tenant.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "11977778888", got.Phone)
	assert.Equal(t, "Carla Lima", got.Name)

	list, err := repo.Search(ctx, tenant.ID, "carla", 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = repo.Search(ctx, tenant.ID, "7777", 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	same, err := repo.FindAllByName(ctx, tenant.ID, "Carla Lima")
	require.NoError(t, err)
	assert.Len(t, same, 1)
}
