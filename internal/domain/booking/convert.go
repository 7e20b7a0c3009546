package booking

import (
	"github.com/vitororigens/glowapp-site-sub000/internal/domain/ledger"
	"github.com/vitororigens/glowapp-site-sub000/internal/models"
)

func PaymentsToModels(payments []ledger.Payment) []models.ServicePayment {
	out := make([]models.ServicePayment, len(payments))
	for i, p := range payments {
		out[i] = models.ServicePayment{
			Position:     i,
			Method:       string(p.Method),
			ValueCents:   p.ValueCents,
			Installments: p.Installments,
			PaidAt:       p.Date,
		}
	}
	return out
}

// PaymentsFromModels expects rows ordered by position.
func PaymentsFromModels(rows []models.ServicePayment) []ledger.Payment {
	out := make([]ledger.Payment, len(rows))
	for i, r := range rows {
		out[i] = ledger.Payment{
			Method:       ledger.Method(r.Method),
			ValueCents:   r.ValueCents,
			Installments: r.Installments,
			Date:         r.PaidAt,
		}
	}
	return out
}

func ImagesToModels(before, after []string) []models.ServiceImage {
	out := make([]models.ServiceImage, 0, len(before)+len(after))
	for i, u := range before {
		out = append(out, models.ServiceImage{Kind: models.ImageBefore, URL: u, Position: i})
	}
	for i, u := range after {
		out = append(out, models.ServiceImage{Kind: models.ImageAfter, URL: u, Position: i})
	}
	return out
}
