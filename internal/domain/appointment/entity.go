package appointment

import (
	"time"

	"github.com/vitororigens/glowapp-site-sub000/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Confirm(ap *models.Appointment, now time.Time) error {
	if err := CanConfirm(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusConfirmed)
	ap.ConfirmedAt = &now
	return nil
}

func Cancel(ap *models.Appointment, now time.Time) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCanceled)
	ap.CanceledAt = &now
	return nil
}

func MarkNoShow(ap *models.Appointment, now time.Time) error {
	if err := CanMarkNoShow(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusNoShow)
	ap.NoShowAt = &now
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return nil
}

// ToServiceRecord monta o atendimento de um agendamento concluído. Os
// pagamentos são lançados depois, pelo fluxo de pagamentos.
func ToServiceRecord(ap *models.Appointment) (*models.ServiceRecord, error) {
	if err := CanConvert(Status(ap.Status), ap.ServiceRecordID); err != nil {
		return nil, err
	}

	id := ap.ID
	return &models.ServiceRecord{
		TenantID:        ap.TenantID,
		ClientID:        ap.ClientID,
		ClientName:      ap.ClientName,
		ProfessionalID:  ap.ProfessionalID,
		Procedures:      ap.Procedures,
		AppointmentID:   &id,
		TotalPriceCents: ap.TotalPriceCents,
		Notes:           ap.Notes,
	}, nil
}
