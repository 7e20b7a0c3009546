package payment

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/vitororigens/glowapp-site-sub000/internal/audit"
	"github.com/vitororigens/glowapp-site-sub000/internal/domain/booking"
	"github.com/vitororigens/glowapp-site-sub000/internal/domain/ledger"
	"github.com/vitororigens/glowapp-site-sub000/internal/httperr"
	"github.com/vitororigens/glowapp-site-sub000/internal/models"
)

type ServiceStore interface {
	Get(ctx context.Context, tenantID uint, id string) (*models.ServiceRecord, error)
	ReplacePayments(ctx context.Context, rec *models.ServiceRecord, payments []models.ServicePayment) error
}

// ======================================================
// INPUT
// ======================================================

type Input struct {
	TenantID  uint
	UserID    uint
	ServiceID string

	Index   int // replace / remove
	Payment ledger.Payment
	Method  ledger.Method // pagamento integral
}

// ======================================================
// USE CASES
// ======================================================

type mutation func(existing []ledger.Payment, total int64, in Input) ([]ledger.Payment, error)

type UpdatePayments struct {
	repo   ServiceStore
	audit  *audit.Dispatcher
	action string
	apply  mutation
	now    func() time.Time
}

func newUpdatePayments(repo ServiceStore, audit *audit.Dispatcher, action string, apply mutation) *UpdatePayments {
	return &UpdatePayments{
		repo:   repo,
		audit:  audit,
		action: action,
		apply:  apply,
		now:    time.Now,
	}
}

func NewAddPayment(repo ServiceStore, audit *audit.Dispatcher) *UpdatePayments {
	return newUpdatePayments(repo, audit, "payment_added",
		func(existing []ledger.Payment, total int64, in Input) ([]ledger.Payment, error) {
			return ledger.AddOrReplacePayment(existing, nil, in.Payment, total)
		})
}

func NewReplacePayment(repo ServiceStore, audit *audit.Dispatcher) *UpdatePayments {
	return newUpdatePayments(repo, audit, "payment_replaced",
		func(existing []ledger.Payment, total int64, in Input) ([]ledger.Payment, error) {
			index := in.Index
			return ledger.AddOrReplacePayment(existing, &index, in.Payment, total)
		})
}

func NewRemovePayment(repo ServiceStore, audit *audit.Dispatcher) *UpdatePayments {
	return newUpdatePayments(repo, audit, "payment_removed",
		func(existing []ledger.Payment, _ int64, in Input) ([]ledger.Payment, error) {
			if in.Index < 0 || in.Index >= len(existing) {
				return existing, ledger.ErrInvalidIndex
			}
			return ledger.RemovePayment(existing, in.Index), nil
		})
}

func NewPayInFull(repo ServiceStore, audit *audit.Dispatcher) *UpdatePayments {
	return newUpdatePayments(repo, audit, "payment_added",
		func(existing []ledger.Payment, total int64, in Input) ([]ledger.Payment, error) {
			return ledger.PayInFull(existing, in.Method, in.Payment.Date, total)
		})
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *UpdatePayments) Execute(ctx context.Context, in Input) (*models.ServiceRecord, error) {
	rec, err := uc.repo.Get(ctx, in.TenantID, in.ServiceID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("service_not_found")
	}
	if err != nil {
		return nil, err
	}

	if rec.IsBudget {
		return nil, httperr.ErrBusiness("quote_has_no_payments")
	}

	if in.Payment.Date.IsZero() {
		in.Payment.Date = uc.now()
	}

	existing := booking.PaymentsFromModels(rec.Payments)
	updated, err := uc.apply(existing, rec.TotalPriceCents, in)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.ReplacePayments(ctx, rec, booking.PaymentsToModels(updated)); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: in.TenantID,
		UserID:   &in.UserID,
		Action:   uc.action,
		Entity:   "service",
		EntityID: rec.ID,
		Metadata: map[string]int64{
			"paid_cents":    ledger.TotalPaid(updated),
			"pending_cents": ledger.PendingBalance(rec.TotalPriceCents, updated),
		},
	})

	return rec, nil
}
