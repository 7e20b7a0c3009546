package booking

import (
	"context"
	"errors"
	"time"

	"github.com/vitororigens/glowapp-site-sub000/internal/audit"
	"github.com/vitororigens/glowapp-site-sub000/internal/domain/booking"
	"github.com/vitororigens/glowapp-site-sub000/internal/domain/client"
	"github.com/vitororigens/glowapp-site-sub000/internal/domain/ledger"
	"github.com/vitororigens/glowapp-site-sub000/internal/httperr"
	"github.com/vitororigens/glowapp-site-sub000/internal/models"
	"github.com/vitororigens/glowapp-site-sub000/internal/timezone"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type Input struct {
	TenantID uint
	UserID   uint

	Client         client.Input
	ProcedureIDs   []uint
	ProfessionalID uint

	// atendimento completo
	Payments     []ledger.Payment
	BeforeImages []booking.File
	AfterImages  []booking.File

	// agendamento, no fuso do tenant
	Date string // 2006-01-02
	Time string // 15:04

	Notes string
}

type UploadFailure struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

type Result struct {
	Service      *models.ServiceRecord
	Appointment  *models.Appointment
	ClientLink   string
	UploadErrors []UploadFailure
}

type TenantReader interface {
	GetTenant(ctx context.Context, id uint) (*models.Tenant, error)
}

// ======================================================
// USE CASE
// ======================================================

// CreateBooking percorre o fluxo inteiro do orquestrador numa chamada só.
type CreateBooking struct {
	variant booking.Variant
	deps    booking.Deps
	tenants TenantReader
	audit   *audit.Dispatcher
}

func newCreateBooking(
	variant booking.Variant,
	deps booking.Deps,
	tenants TenantReader,
	audit *audit.Dispatcher,
) *CreateBooking {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &CreateBooking{
		variant: variant,
		deps:    deps,
		tenants: tenants,
		audit:   audit,
	}
}

func NewCreateService(deps booking.Deps, tenants TenantReader, audit *audit.Dispatcher) *CreateBooking {
	return newCreateBooking(booking.VariantFullService, deps, tenants, audit)
}

func NewCreateQuote(deps booking.Deps, tenants TenantReader, audit *audit.Dispatcher) *CreateBooking {
	return newCreateBooking(booking.VariantQuote, deps, tenants, audit)
}

func NewCreateAppointment(deps booking.Deps, tenants TenantReader, audit *audit.Dispatcher) *CreateBooking {
	return newCreateBooking(booking.VariantAppointment, deps, tenants, audit)
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(ctx context.Context, in Input) (*Result, error) {
	o := booking.New(uc.variant, in.TenantID, uc.deps)
	o.SetNotes(in.Notes)

	// --------------------------------------------------
	// 1️⃣ Cliente
	// --------------------------------------------------
	if err := o.SetClient(in.Client); err != nil {
		return nil, err
	}
	if err := o.Next(ctx); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Procedimentos, profissional e horário
	// --------------------------------------------------
	if err := o.SetProcedures(in.ProcedureIDs...); err != nil {
		return nil, err
	}
	if err := o.SetProfessional(in.ProfessionalID); err != nil {
		return nil, err
	}
	if uc.variant == booking.VariantAppointment {
		start, err := uc.startTime(ctx, in)
		if err != nil {
			return nil, err
		}
		if err := o.SetSchedule(start); err != nil {
			return nil, err
		}
	}
	if err := o.Next(ctx); err != nil {
		return nil, err
	}

	res := &Result{}

	if uc.variant == booking.VariantFullService {
		// --------------------------------------------------
		// 3️⃣ Pagamentos
		// --------------------------------------------------
		for _, p := range in.Payments {
			if p.Date.IsZero() {
				p.Date = uc.deps.Now()
			}
			if err := o.AddPayment(p); err != nil {
				return nil, err
			}
		}
		if err := o.Next(ctx); err != nil {
			return nil, err
		}

		// --------------------------------------------------
		// 4️⃣ Fotos (falha de upload não derruba o atendimento)
		// --------------------------------------------------
		for _, batch := range []struct {
			kind  string
			files []booking.File
		}{
			{models.ImageBefore, in.BeforeImages},
			{models.ImageAfter, in.AfterImages},
		} {
			err := o.UploadImages(ctx, batch.kind, batch.files)
			var failed booking.UploadErrors
			if errors.As(err, &failed) {
				for _, f := range failed {
					res.UploadErrors = append(res.UploadErrors, UploadFailure{File: f.File, Error: f.Err.Error()})
				}
				continue
			}
			if err != nil {
				return nil, err
			}
		}
		if err := o.Next(ctx); err != nil {
			return nil, err
		}
	}

	// --------------------------------------------------
	// 5️⃣ Revisão → gravação
	// --------------------------------------------------
	if err := o.Next(ctx); err != nil {
		return nil, err
	}

	draft := o.Draft()
	res.Service = o.Service()
	res.Appointment = o.Appointment()
	res.ClientLink = draft.ClientLink

	uc.dispatch(in, draft, res)
	return res, nil
}

func (uc *CreateBooking) startTime(ctx context.Context, in Input) (time.Time, error) {
	tenant, err := uc.tenants.GetTenant(ctx, in.TenantID)
	if err != nil {
		return time.Time{}, err
	}

	start, err := timezone.ParseLocal(in.Date, in.Time, tenant.Timezone)
	if err != nil {
		return time.Time{}, httperr.ErrBusiness("invalid_date_or_time")
	}
	return start, nil
}

func (uc *CreateBooking) dispatch(in Input, draft booking.Draft, res *Result) {
	userID := in.UserID

	if draft.ClientLink == "created" && draft.ClientID != nil {
		uc.audit.Dispatch(audit.Event{
			TenantID: in.TenantID,
			UserID:   &userID,
			Action:   "client_created",
			Entity:   "client",
			EntityID: *draft.ClientID,
		})
	}

	switch {
	case res.Appointment != nil:
		uc.audit.Dispatch(audit.Event{
			TenantID: in.TenantID,
			UserID:   &userID,
			Action:   "appointment_created",
			Entity:   "appointment",
			EntityID: res.Appointment.ID,
		})
	case res.Service != nil:
		action := "service_created"
		if res.Service.IsBudget {
			action = "quote_created"
		}
		uc.audit.Dispatch(audit.Event{
			TenantID: in.TenantID,
			UserID:   &userID,
			Action:   action,
			Entity:   "service",
			EntityID: res.Service.ID,
			Metadata: map[string]any{
				"total_price_cents": res.Service.TotalPriceCents,
				"client_link":       draft.ClientLink,
			},
		})
	}
}
