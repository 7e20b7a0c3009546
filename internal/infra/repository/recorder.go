package repository

import (
	"context"

	"github.com/vitororigens/glowapp-site-sub000/internal/domain/booking"
	"github.com/vitororigens/glowapp-site-sub000/internal/models"
)

// BookingRecorder faz a gravação final do fluxo de atendimento.
type BookingRecorder struct {
	services     *ServiceGormRepository
	appointments *AppointmentGormRepository
}

func NewBookingRecorder(
	services *ServiceGormRepository,
	appointments *AppointmentGormRepository,
) *BookingRecorder {
	return &BookingRecorder{
		services:     services,
		appointments: appointments,
	}
}

func (r *BookingRecorder) SaveService(ctx context.Context, rec *models.ServiceRecord) error {
	return r.services.Create(ctx, rec)
}

func (r *BookingRecorder) SaveAppointment(ctx context.Context, ap *models.Appointment) error {
	return r.appointments.CreateAppointment(ctx, ap)
}

// Compile-time checks
var (
	_ booking.Recorder     = (*BookingRecorder)(nil)
	_ booking.ImageCounter = (*ServiceGormRepository)(nil)
)
