package appointment

import (
	"context"
	"time"

	"github.com/vitororigens/glowapp-site-sub000/internal/models"
)

type Repository interface {
	// -------- Tenant --------
	GetTenantByID(
		ctx context.Context,
		id uint,
	) (*models.Tenant, error)

	// -------- Appointment (create / conflict) --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Appointment (state change) --------
	GetAppointment(
		ctx context.Context,
		tenantID uint,
		appointmentID string,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// ConvertToService grava o atendimento e liga o agendamento a ele na
	// mesma transação.
	ConvertToService(
		ctx context.Context,
		ap *models.Appointment,
		rec *models.ServiceRecord,
	) error

	// -------- Listing --------
	ListAppointmentsForPeriod(
		ctx context.Context,
		tenantID uint,
		professionalID *uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)
}
