package dto

import (
	"time"

	"github.com/vitororigens/glowapp-site-sub000/internal/domain/ledger"
	"github.com/vitororigens/glowapp-site-sub000/internal/models"
)

type PaymentDTO struct {
	Index        int       `json:"index"`
	Method       string    `json:"method"`
	ValueCents   int64     `json:"value_cents"`
	Value        string    `json:"value"`
	Installments int       `json:"installments,omitempty"`
	Date         time.Time `json:"date"`
}

// ServiceDTO é o atendimento com os saldos já calculados.
type ServiceDTO struct {
	ID               string       `json:"id"`
	ClientID         *string      `json:"client_id"`
	ClientName       string       `json:"client_name"`
	ProfessionalID   uint         `json:"professional_id"`
	ProfessionalName string       `json:"professional_name"`
	Procedures       []string     `json:"procedures"`
	IsBudget         bool         `json:"is_budget"`
	TotalPriceCents  int64        `json:"total_price_cents"`
	TotalPrice       string       `json:"total_price"`
	PaidCents        int64        `json:"paid_cents"`
	PendingCents     int64        `json:"pending_cents"`
	Pending          string       `json:"pending"`
	Payments         []PaymentDTO `json:"payments"`
	BeforeImages     []string     `json:"before_images"`
	AfterImages      []string     `json:"after_images"`
	Notes            string       `json:"notes"`
	CreatedAt        time.Time    `json:"created_at"`
}

func NewServiceDTO(rec *models.ServiceRecord, format func(int64) string) ServiceDTO {
	names := make([]string, 0, len(rec.Procedures))
	for _, p := range rec.Procedures {
		names = append(names, p.Name)
	}

	payments := make([]PaymentDTO, 0, len(rec.Payments))
	ledgerRows := make([]ledger.Payment, 0, len(rec.Payments))
	for i, p := range rec.Payments {
		payments = append(payments, PaymentDTO{
			Index:        i,
			Method:       p.Method,
			ValueCents:   p.ValueCents,
			Value:        format(p.ValueCents),
			Installments: p.Installments,
			Date:         p.PaidAt,
		})
		ledgerRows = append(ledgerRows, ledger.Payment{ValueCents: p.ValueCents})
	}

	pending := ledger.DisplayPending(rec.TotalPriceCents, ledgerRows)

	return ServiceDTO{
		ID:               rec.ID,
		ClientID:         rec.ClientID,
		ClientName:       rec.ClientName,
		ProfessionalID:   rec.ProfessionalID,
		ProfessionalName: rec.Professional.Name,
		Procedures:       names,
		IsBudget:         rec.IsBudget,
		TotalPriceCents:  rec.TotalPriceCents,
		TotalPrice:       format(rec.TotalPriceCents),
		PaidCents:        ledger.TotalPaid(ledgerRows),
		PendingCents:     pending,
		Pending:          format(pending),
		Payments:         payments,
		BeforeImages:     nonNil(rec.ImageURLs(models.ImageBefore)),
		AfterImages:      nonNil(rec.ImageURLs(models.ImageAfter)),
		Notes:            rec.Notes,
		CreatedAt:        rec.CreatedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
