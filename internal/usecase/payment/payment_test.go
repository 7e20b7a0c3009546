package payment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitororigens/glowapp-site-sub000/internal/domain/ledger"
	"github.com/vitororigens/glowapp-site-sub000/internal/httperr"
	"github.com/vitororigens/glowapp-site-sub000/internal/infra/repository"
	"github.com/vitororigens/glowapp-site-sub000/internal/models"
	"github.com/vitororigens/glowapp-site-sub000/internal/testutil"
)

func setup(t *testing.T, isBudget bool) (*repository.ServiceGormRepository, *models.ServiceRecord) {
	gdb := testutil.NewDB(t)
	seed := testutil.SeedTenant(t, gdb, "clinica")
	repo := repository.NewServiceGormRepository(gdb)

	rec := &models.ServiceRecord{
		TenantID:        seed.Tenant.ID,
		ClientName:      "Ana",
		ProfessionalID:  seed.Professional.ID,
		Procedures:      seed.Procedures,
		TotalPriceCents: 10000,
		IsBudget:        isBudget,
	}
	require.NoError(t, repo.Create(context.Background(), rec))
	return repo, rec
}

func paid(t *testing.T, repo *repository.ServiceGormRepository, rec *models.ServiceRecord) []int64 {
	t.Helper()
	got, err := repo.Get(context.Background(), rec.TenantID, rec.ID)
	require.NoError(t, err)
	var out []int64
	for _, p := range got.Payments {
		out = append(out, p.ValueCents)
	}
	return out
}

// Cenário B persistido.
func TestPaymentUseCases_ScenarioB(t *testing.T) {
	repo, rec := setup(t, false)
	ctx := context.Background()
	base := Input{TenantID: rec.TenantID, UserID: 1, ServiceID: rec.ID}

	in := base
	in.Payment = ledger.Payment{Method: ledger.MethodCash, ValueCents: 6000}
	_, err := NewAddPayment(repo, nil).Execute(ctx, in)
	require.NoError(t, err)

	in.Payment = ledger.Payment{Method: ledger.MethodPix, ValueCents: 5000}
	_, err = NewAddPayment(repo, nil).Execute(ctx, in)
	var over *ledger.OverLimitError
	require.ErrorAs(t, err, &over)
	assert.Equal(t, int64(4000), over.MaxAllowed)
	assert.Equal(t, []int64{6000}, paid(t, repo, rec), "rejected payment leaves ledger unchanged")

	in.Index = 0
	in.Payment = ledger.Payment{Method: ledger.MethodCash, ValueCents: 4000}
	_, err = NewReplacePayment(repo, nil).Execute(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, []int64{4000}, paid(t, repo, rec))

	in.Payment = ledger.Payment{Method: ledger.MethodCard, ValueCents: 6000, Installments: 3, Date: time.Now()}
	_, err = NewAddPayment(repo, nil).Execute(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, []int64{4000, 6000}, paid(t, repo, rec))

	in.Index = 0
	_, err = NewRemovePayment(repo, nil).Execute(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, []int64{6000}, paid(t, repo, rec))

	in.Index = 5
	_, err = NewRemovePayment(repo, nil).Execute(ctx, in)
	assert.ErrorIs(t, err, ledger.ErrInvalidIndex)
}

func TestPayInFull(t *testing.T) {
	repo, rec := setup(t, false)
	ctx := context.Background()

	_, err := NewPayInFull(repo, nil).Execute(ctx, Input{TenantID: rec.TenantID, ServiceID: rec.ID, Method: ledger.MethodPix})
	require.NoError(t, err)
	assert.Equal(t, []int64{10000}, paid(t, repo, rec))

	_, err = NewPayInFull(repo, nil).Execute(ctx, Input{TenantID: rec.TenantID, ServiceID: rec.ID, Method: ledger.MethodPix})
	var over *ledger.OverLimitError
	require.ErrorAs(t, err, &over)
	assert.Equal(t, int64(0), over.MaxAllowed)
}

func TestPaymentsRejectedOnQuoteAndUnknown(t *testing.T) {
	repo, rec := setup(t, true)
	ctx := context.Background()

	_, err := NewAddPayment(repo, nil).Execute(ctx, Input{
		TenantID:  rec.TenantID,
		ServiceID: rec.ID,
		Payment:   ledger.Payment{Method: ledger.MethodCash, ValueCents: 1000},
	})
	assert.True(t, httperr.IsBusiness(err, "quote_has_no_payments"))

	_, err = NewAddPayment(repo, nil).Execute(ctx, Input{TenantID: rec.TenantID, ServiceID: "nope"})
	assert.True(t, httperr.IsBusiness(err, "service_not_found"))
}

func TestAddPayment_SmallPaymentSurvivesReload(t *testing.T) {
	repo, rec := setup(t, false)
	ctx := context.Background()
	in := Input{TenantID: rec.TenantID, UserID: 1, ServiceID: rec.ID}

	in.Payment = ledger.Payment{Method: ledger.MethodCash, ValueCents: 500}
	_, err := NewAddPayment(repo, nil).Execute(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, []int64{500}, paid(t, repo, rec))

	in.Payment = ledger.Payment{Method: ledger.MethodPix, ValueCents: 100}
	_, err = NewAddPayment(repo, nil).Execute(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, []int64{500, 100}, paid(t, repo, rec))

	in.Payment = ledger.Payment{Method: ledger.MethodPix, ValueCents: 9401}
	_, err = NewAddPayment(repo, nil).Execute(ctx, in)
	var over *ledger.OverLimitError
	require.ErrorAs(t, err, &over)
	assert.Equal(t, int64(9400), over.MaxAllowed)
}
