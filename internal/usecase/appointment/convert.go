package appointment

import (
	"context"

	"github.com/vitororigens/glowapp-site-sub000/internal/audit"
	domain "github.com/vitororigens/glowapp-site-sub000/internal/domain/appointment"
	"github.com/vitororigens/glowapp-site-sub000/internal/models"
)

// ConvertAppointment transforma um agendamento concluído em atendimento
// (sem pagamentos). Só acontece uma vez por agendamento.
type ConvertAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewConvertAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *ConvertAppointment {
	return &ConvertAppointment{
		repo:  repo,
		audit: audit,
	}
}

func (uc *ConvertAppointment) Execute(
	ctx context.Context,
	in TransitionInput,
) (*models.ServiceRecord, error) {

	ap, err := getAppointment(ctx, uc.repo, in.TenantID, in.AppointmentID)
	if err != nil {
		return nil, err
	}

	rec, err := domain.ToServiceRecord(ap)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.ConvertToService(ctx, ap, rec); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: in.TenantID,
		UserID:   &in.UserID,
		Action:   "appointment_converted",
		Entity:   "appointment",
		EntityID: ap.ID,
		Metadata: map[string]string{"service_record_id": rec.ID},
	})

	return rec, nil
}
