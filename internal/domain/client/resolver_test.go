package client

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitororigens/glowapp-site-sub000/internal/domain/quota"
	"github.com/vitororigens/glowapp-site-sub000/internal/httperr"
	"github.com/vitororigens/glowapp-site-sub000/internal/models"
)

type fakeRepo struct {
	clients  []*models.Client
	updates  []map[string]any
	findErr  error
	createFn func(c *models.Client, max int) (bool, int, error)
	nextID   int
}

func (f *fakeRepo) FindByField(_ context.Context, tenantID uint, field Field, value, cpf string) (*models.Client, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, c := range f.clients {
		if c.TenantID != tenantID {
			continue
		}
		if cpf != "" && c.CPF != "" && c.CPF != cpf {
			continue
		}
		var v string
		switch field {
		case FieldCPF:
			v = c.CPF
		case FieldPhone:
			v = c.Phone
		case FieldName:
			v = c.Name
		}
		if v == value {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) Count(_ context.Context, tenantID uint) (int, error) {
	n := 0
	for _, c := range f.clients {
		if c.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) CreateWithinQuota(ctx context.Context, c *models.Client, max int) (bool, int, error) {
	if f.createFn != nil {
		return f.createFn(c, max)
	}
	n, _ := f.Count(ctx, c.TenantID)
	if n >= max {
		return false, n, nil
	}
	f.nextID++
	c.ID = fmt.Sprintf("client-%d", f.nextID)
	cp := *c
	f.clients = append(f.clients, &cp)
	return true, n + 1, nil
}

func (f *fakeRepo) Update(_ context.Context, tenantID uint, id string, fields map[string]any) error {
	f.updates = append(f.updates, fields)
	for _, c := range f.clients {
		if c.TenantID != tenantID || c.ID != id {
			continue
		}
		for k, v := range fields {
			switch k {
			case "cpf":
				c.CPF = v.(string)
			case "phone":
				c.Phone = v.(string)
			case "email":
				c.Email = v.(string)
			}
		}
	}
	return nil
}

type fixedPlan struct {
	plan quota.PlanTier
	err  error
}

func (p fixedPlan) GetActivePlan(context.Context, uint) (quota.PlanTier, error) {
	return p.plan, p.err
}

var startPlan = quota.DefaultCatalog().Plan(quota.TierStart, true)

func newResolver(repo *fakeRepo, plan quota.PlanTier) *Resolver {
	r := NewResolver(repo, fixedPlan{plan: plan}, nil)
	r.now = func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) }
	return r
}

func TestResolveOrCreate_ScenarioC(t *testing.T) {
	repo := &fakeRepo{}
	r := newResolver(repo, startPlan)
	ctx := context.Background()

	first, err := r.ResolveOrCreate(ctx, 1, Input{Name: "Ana Souza", CPF: "111.222.333-44"})
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.Equal(t, "11122233344", first.Client.CPF)
	assert.Equal(t, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), first.Client.CreatedAt)

	second, err := r.ResolveOrCreate(ctx, 1, Input{Name: "Ana", CPF: "11122233344", Phone: "(11) 98765-4321"})
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Client.ID, second.Client.ID)
	assert.Equal(t, FieldCPF, second.MatchedBy)
	assert.Equal(t, []string{"phone"}, second.Backfilled)
	assert.Equal(t, "11987654321", repo.clients[0].Phone)

	third, err := r.ResolveOrCreate(ctx, 1, Input{Name: "Ana", CPF: "11122233344", Phone: "11900000000"})
	require.NoError(t, err)
	assert.Equal(t, first.Client.ID, third.Client.ID)
	assert.Empty(t, third.Backfilled)
	assert.Equal(t, "11987654321", repo.clients[0].Phone, "populated phone is never overwritten")
	assert.Len(t, repo.updates, 1)
}

func TestResolveOrCreate_IdentityPriority(t *testing.T) {
	repo := &fakeRepo{clients: []*models.Client{
		{ID: "a", TenantID: 1, Name: "C", CPF: "11122233344", Phone: "11911112222"},
		{ID: "b", TenantID: 1, Name: "Outra", Phone: "11933334444"},
	}}
	r := newResolver(repo, startPlan)

	res, err := r.ResolveOrCreate(context.Background(), 1, Input{
		Name:  "Nome Diferente",
		CPF:   "11122233344",
		Phone: "11933334444",
	})
	require.NoError(t, err)
	assert.Equal(t, "a", res.Client.ID)
	assert.Equal(t, FieldCPF, res.MatchedBy)
}

func TestResolveOrCreate_FallsThroughKeys(t *testing.T) {
	repo := &fakeRepo{clients: []*models.Client{
		{ID: "by-phone", TenantID: 1, Name: "Bia", Phone: "11911112222"},
		{ID: "by-name", TenantID: 1, Name: "Carla Lima"},
		{ID: "other-tenant", TenantID: 2, Name: "Dani"},
	}}
	r := newResolver(repo, startPlan)
	ctx := context.Background()

	res, err := r.ResolveOrCreate(ctx, 1, Input{Name: "Bia", CPF: "99988877766", Phone: "11 91111-2222"})
	require.NoError(t, err)
	assert.Equal(t, "by-phone", res.Client.ID)
	assert.Equal(t, FieldPhone, res.MatchedBy)
	assert.Equal(t, []string{"cpf"}, res.Backfilled)

	res, err = r.ResolveOrCreate(ctx, 1, Input{Name: "  Carla   Lima ", Email: " CARLA@Mail.com "})
	require.NoError(t, err)
	assert.Equal(t, "by-name", res.Client.ID)
	assert.Equal(t, FieldName, res.MatchedBy)
	assert.Equal(t, "carla@mail.com", res.Client.Email)

	res, err = r.ResolveOrCreate(ctx, 1, Input{Name: "Dani"})
	require.NoError(t, err)
	assert.True(t, res.Created, "clients of other tenants never match")
}

func TestResolveOrCreate_ConflictingCPFDoesNotMerge(t *testing.T) {
	repo := &fakeRepo{clients: []*models.Client{
		{ID: "maria-1", TenantID: 1, Name: "Maria", CPF: "11122233344"},
	}}
	r := newResolver(repo, startPlan)

	res, err := r.ResolveOrCreate(context.Background(), 1, Input{Name: "Maria", CPF: "55566677788"})
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.NotEqual(t, "maria-1", res.Client.ID)
}

func TestResolveOrCreate_SkipsConflictingCPFOnSharedPhone(t *testing.T) {
	repo := &fakeRepo{clients: []*models.Client{
		{ID: "maria-1", TenantID: 1, Name: "Maria", CPF: "11122233344", Phone: "11911112222"},
		{ID: "maria-2", TenantID: 1, Name: "Maria Clara", Phone: "11911112222"},
	}}
	r := newResolver(repo, startPlan)

	res, err := r.ResolveOrCreate(context.Background(), 1, Input{Name: "Maria C", CPF: "55566677788", Phone: "11911112222"})
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, "maria-2", res.Client.ID)
	assert.Equal(t, FieldPhone, res.MatchedBy)
	assert.Equal(t, []string{"cpf"}, res.Backfilled)
	assert.Len(t, repo.clients, 2)
}

func TestResolveOrCreate_Validation(t *testing.T) {
	r := newResolver(&fakeRepo{}, startPlan)
	ctx := context.Background()

	_, err := r.ResolveOrCreate(ctx, 1, Input{Name: "Ana", CPF: "123"})
	var ve httperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "cpf", ve.Field)

	_, err = r.ResolveOrCreate(ctx, 1, Input{Name: "   ", Phone: "11999998888"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Field)
}

func TestResolveOrCreate_Quota(t *testing.T) {
	t.Run("ceiling reached", func(t *testing.T) {
		repo := &fakeRepo{}
		for i := range 10 {
			repo.clients = append(repo.clients, &models.Client{ID: fmt.Sprint(i), TenantID: 1, Name: fmt.Sprint("c", i)})
		}
		r := newResolver(repo, startPlan)

		_, err := r.ResolveOrCreate(context.Background(), 1, Input{Name: "Nova"})
		var qe *quota.ExceededError
		require.ErrorAs(t, err, &qe)
		assert.Equal(t, 10, qe.Current)
		assert.Equal(t, 10, qe.Limit)
		assert.Len(t, repo.clients, 10)
	})

	t.Run("lost race inside transaction", func(t *testing.T) {
		repo := &fakeRepo{createFn: func(*models.Client, int) (bool, int, error) { return false, 10, nil }}
		r := newResolver(repo, startPlan)

		_, err := r.ResolveOrCreate(context.Background(), 1, Input{Name: "Nova"})
		var qe *quota.ExceededError
		require.ErrorAs(t, err, &qe)
		assert.Equal(t, 0, qe.Remaining)
	})

	t.Run("inactive plan", func(t *testing.T) {
		r := newResolver(&fakeRepo{}, quota.DefaultCatalog().Plan(quota.TierPro, false))

		_, err := r.ResolveOrCreate(context.Background(), 1, Input{Name: "Nova"})
		var qe *quota.ExceededError
		require.ErrorAs(t, err, &qe)
		assert.True(t, qe.Inactive)
	})
}

func TestResolveOrCreate_StorageError(t *testing.T) {
	boom := errors.New("connection reset")
	r := newResolver(&fakeRepo{findErr: boom}, startPlan)

	_, err := r.ResolveOrCreate(context.Background(), 1, Input{Name: "Ana"})
	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "find_by_name", se.Op)
	assert.ErrorIs(t, err, boom)

	r = NewResolver(&fakeRepo{}, fixedPlan{err: boom}, nil)
	_, err = r.ResolveOrCreate(context.Background(), 1, Input{Name: "Ana"})
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "get_plan", se.Op)
}
