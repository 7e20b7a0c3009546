package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/vitororigens/glowapp-site-sub000/internal/domain/appointment"
	"github.com/vitororigens/glowapp-site-sub000/internal/httperr"
	"github.com/vitororigens/glowapp-site-sub000/internal/models"
	"github.com/vitororigens/glowapp-site-sub000/internal/testutil"
)

func TestAppointmentRepository_ConflictAndLifecycle(t *testing.T) {
	gdb := testutil.NewDB(t)
	repo := NewAppointmentGormRepository(gdb)
	ctx := context.Background()
	tenant := &testutil.SeedTenant(t, gdb, "t").Tenant
	pro := models.Professional{TenantID: tenant.ID, Name: "Joana"}
	require.NoError(t, gdb.Create(&pro).Error)

	start := time.Date(2026, 7, 1, 13, 0, 0, 0, time.UTC)
	newAp := func(offset time.Duration) *models.Appointment {
		return &models.Appointment{
			TenantID:        tenant.ID,
			ClientName:      "Ana",
			ProfessionalID:  pro.ID,
			StartTime:       start.Add(offset),
			EndTime:         start.Add(offset + time.Hour),
			TotalPriceCents: 12000,
			Status:          string(domain.StatusPending),
		}
	}

	first := newAp(0)
	require.NoError(t, repo.CreateAppointment(ctx, first))

	err := repo.CreateAppointment(ctx, newAp(30*time.Minute))
	assert.True(t, httperr.IsBusiness(err, "time_conflict"))

	require.NoError(t, repo.CreateAppointment(ctx, newAp(time.Hour)), "back-to-back is fine")

	got, err := repo.GetAppointment(ctx, tenant.ID, first.ID)
	require.NoError(t, err)
	require.NoError(t, domain.Cancel(got, time.Now()))
	require.NoError(t, repo.UpdateAppointment(ctx, got))

	require.NoError(t, repo.CreateAppointment(ctx, newAp(0)), "canceled slot is free again")

	list, err := repo.ListAppointmentsForPeriod(ctx, tenant.ID, nil, start, start.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Len(t, list, 3)
	assert.Equal(t, int64(12000), list[0].TotalPriceCents)
}

func TestAppointmentRepository_ConvertToService(t *testing.T) {
	gdb := testutil.NewDB(t)
	repo := NewAppointmentGormRepository(gdb)
	ctx := context.Background()
	tenant := &testutil.SeedTenant(t, gdb, "t").Tenant

	ap := &models.Appointment{
		TenantID:        tenant.ID,
		ClientName:      "Ana",
		StartTime:       time.Date(2026, 7, 1, 13, 0, 0, 0, time.UTC),
		EndTime:         time.Date(2026, 7, 1, 14, 0, 0, 0, time.UTC),
		TotalPriceCents: 12000,
		Status:          string(domain.StatusCompleted),
	}
	require.NoError(t, repo.CreateAppointment(ctx, ap))

	rec, err := domain.ToServiceRecord(ap)
	require.NoError(t, err)
	require.NoError(t, repo.ConvertToService(ctx, ap, rec))
	require.NotNil(t, ap.ServiceRecordID)

	got, err := repo.GetAppointment(ctx, tenant.ID, ap.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ServiceRecordID)
	assert.Equal(t, rec.ID, *got.ServiceRecordID)

	err = repo.ConvertToService(ctx, got, &models.ServiceRecord{TenantID: tenant.ID})
	assert.True(t, httperr.IsBusiness(err, "already_converted"))
}
