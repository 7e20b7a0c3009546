package dto

import (
	"time"

	"github.com/vitororigens/glowapp-site-sub000/internal/models"
)

type AppointmentListDTO struct {
	ID               string    `json:"id"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	Status           string    `json:"status"`
	ClientID         *string   `json:"client_id"`
	ClientName       string    `json:"client_name"`
	ProfessionalName string    `json:"professional_name"`
	Procedures       []string  `json:"procedures"`
	TotalPriceCents  int64     `json:"total_price_cents"`
	TotalPrice       string    `json:"total_price"`
	ServiceRecordID  *string   `json:"service_record_id,omitempty"`
}

func NewAppointmentListDTO(ap models.Appointment, format func(int64) string) AppointmentListDTO {
	names := make([]string, 0, len(ap.Procedures))
	for _, p := range ap.Procedures {
		names = append(names, p.Name)
	}

	return AppointmentListDTO{
		ID:               ap.ID,
		StartTime:        ap.StartTime,
		EndTime:          ap.EndTime,
		Status:           ap.Status,
		ClientID:         ap.ClientID,
		ClientName:       ap.ClientName,
		ProfessionalName: ap.Professional.Name,
		Procedures:       names,
		TotalPriceCents:  ap.TotalPriceCents,
		TotalPrice:       format(ap.TotalPriceCents),
		ServiceRecordID:  ap.ServiceRecordID,
	}
}
