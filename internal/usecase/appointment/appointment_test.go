package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/vitororigens/glowapp-site-sub000/internal/domain/appointment"
	"github.com/vitororigens/glowapp-site-sub000/internal/httperr"
	"github.com/vitororigens/glowapp-site-sub000/internal/infra/repository"
	"github.com/vitororigens/glowapp-site-sub000/internal/models"
	"github.com/vitororigens/glowapp-site-sub000/internal/testutil"
)

func TestAppointmentLifecycleUseCases(t *testing.T) {
	gdb := testutil.NewDB(t)
	seed := testutil.SeedTenant(t, gdb, "clinica")
	repo := repository.NewAppointmentGormRepository(gdb)
	ctx := context.Background()

	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	start := time.Date(2026, 9, 15, 10, 0, 0, 0, loc)

	ap := &models.Appointment{
		TenantID:        seed.Tenant.ID,
		ClientName:      "Ana",
		ProfessionalID:  seed.Professional.ID,
		Procedures:      seed.Procedures,
		StartTime:       start,
		EndTime:         start.Add(90 * time.Minute),
		TotalPriceCents: 10000,
		Status:          string(domain.StatusPending),
	}
	require.NoError(t, repo.CreateAppointment(ctx, ap))

	in := TransitionInput{TenantID: seed.Tenant.ID, UserID: 1, AppointmentID: ap.ID}

	_, err = NewCompleteAppointment(repo, nil).Execute(ctx, in)
	assert.True(t, httperr.IsBusiness(err, "invalid_state"), "pending cannot complete")

	_, err = NewConvertAppointment(repo, nil).Execute(ctx, in)
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))

	got, err := NewConfirmAppointment(repo, nil).Execute(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), got.Status)
	require.NotNil(t, got.ConfirmedAt)

	got, err = NewCompleteAppointment(repo, nil).Execute(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), got.Status)

	rec, err := NewConvertAppointment(repo, nil).Execute(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), rec.TotalPriceCents)
	assert.Equal(t, ap.ID, *rec.AppointmentID)

	_, err = NewConvertAppointment(repo, nil).Execute(ctx, in)
	assert.True(t, httperr.IsBusiness(err, "already_converted"))

	var svc models.ServiceRecord
	require.NoError(t, gdb.Preload("Procedures").First(&svc, "id = ?", rec.ID).Error)
	assert.Len(t, svc.Procedures, 2)

	day, err := NewListAppointmentsByDate(repo).Execute(ctx, seed.Tenant.ID, nil, start)
	require.NoError(t, err)
	require.Len(t, day, 1)
	assert.Equal(t, "R$ 100,00", day[0].TotalPrice)
	assert.ElementsMatch(t, []string{"Limpeza de pele", "Peeling"}, day[0].Procedures)
	assert.Equal(t, "Joana", day[0].ProfessionalName)
	require.NotNil(t, day[0].ServiceRecordID)

	other := uint(999)
	day, err = NewListAppointmentsByDate(repo).Execute(ctx, seed.Tenant.ID, &other, start)
	require.NoError(t, err)
	assert.Empty(t, day)

	month, err := NewListAppointmentsByMonth(repo).Execute(ctx, seed.Tenant.ID, nil, 2026, 9)
	require.NoError(t, err)
	assert.Len(t, month, 1)

	month, err = NewListAppointmentsByMonth(repo).Execute(ctx, seed.Tenant.ID, nil, 2026, 10)
	require.NoError(t, err)
	assert.Empty(t, month)
}

func TestTransitionUnknownAppointment(t *testing.T) {
	gdb := testutil.NewDB(t)
	seed := testutil.SeedTenant(t, gdb, "clinica")
	repo := repository.NewAppointmentGormRepository(gdb)

	_, err := NewCancelAppointment(repo, nil).Execute(context.Background(), TransitionInput{
		TenantID:      seed.Tenant.ID,
		AppointmentID: "missing",
	})
	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))
}
