// Package booking drives the booking wizard as an explicit state machine:
// client, then procedures and professional, then (for a full service)
// payments and attachments, then review and the single final write.
// Nothing is persisted before the last transition except uploaded images.
package booking

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/vitororigens/glowapp-site-sub000/internal/domain/appointment"
	"github.com/vitororigens/glowapp-site-sub000/internal/domain/client"
	"github.com/vitororigens/glowapp-site-sub000/internal/domain/ledger"
	"github.com/vitororigens/glowapp-site-sub000/internal/domain/quota"
	"github.com/vitororigens/glowapp-site-sub000/internal/httperr"
	"github.com/vitororigens/glowapp-site-sub000/internal/models"
	"github.com/vitororigens/glowapp-site-sub000/internal/validators"
)

var ErrInvalidState = httperr.ErrBusiness("invalid_state")

// Draft is the working memory of the flow.
type Draft struct {
	Client     client.Input
	ClientID   *string
	ClientLink string // "resolved", "created" ou "unlinked"

	ProcedureIDs   []uint
	ProfessionalID uint
	Procedures     []models.Procedure
	Professional   *models.Professional

	TotalPriceCents int64
	Payments        []ledger.Payment

	BeforeImages []string
	AfterImages  []string

	StartTime time.Time
	EndTime   time.Time
	Notes     string
}

type Deps struct {
	Clients  ClientResolver
	Catalog  Catalog
	Images   ImageCounter
	Blobs    BlobStore
	Recorder Recorder
	Plans    quota.PlanProvider
	Logger   *zap.Logger
	Now      func() time.Time
}

type Orchestrator struct {
	variant  Variant
	tenantID uint
	state    State
	draft    Draft
	deps     Deps

	service     *models.ServiceRecord
	appointment *models.Appointment
}

func New(variant Variant, tenantID uint, deps Deps) *Orchestrator {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Orchestrator{
		variant:  variant,
		tenantID: tenantID,
		state:    StateClientEntry,
		deps:     deps,
	}
}

func (o *Orchestrator) State() State     { return o.state }
func (o *Orchestrator) Variant() Variant { return o.variant }
func (o *Orchestrator) Draft() Draft     { return o.draft }

// ======================================================
// Setters (form data)
// ======================================================

func (o *Orchestrator) SetClient(in client.Input) error {
	if o.state != StateClientEntry {
		return ErrInvalidState
	}
	o.draft.Client = in
	o.draft.ClientID = nil
	o.draft.ClientLink = ""
	return nil
}

func (o *Orchestrator) SetProcedures(ids ...uint) error {
	if o.state != StateProcedureSelection {
		return ErrInvalidState
	}
	o.draft.ProcedureIDs = append([]uint(nil), ids...)
	return nil
}

func (o *Orchestrator) SetProfessional(id uint) error {
	if o.state != StateProcedureSelection {
		return ErrInvalidState
	}
	o.draft.ProfessionalID = id
	return nil
}

func (o *Orchestrator) SetSchedule(start time.Time) error {
	if o.state != StateProcedureSelection {
		return ErrInvalidState
	}
	o.draft.StartTime = start
	return nil
}

func (o *Orchestrator) SetNotes(notes string) {
	o.draft.Notes = notes
}

// ======================================================
// Navigation
// ======================================================

// Next validates the current step and moves forward. On error the state and
// the draft are unchanged.
func (o *Orchestrator) Next(ctx context.Context) error {
	switch o.state {
	case StateClientEntry:
		if err := o.leaveClientEntry(ctx); err != nil {
			return err
		}
	case StateProcedureSelection:
		if err := o.leaveProcedureSelection(ctx); err != nil {
			return err
		}
	case StatePayment:
		if ledger.TotalPaid(o.draft.Payments) <= 0 {
			return httperr.ErrValidation("payments", "required")
		}
	case StateAttachments:
	case StateReview:
		if err := o.persist(ctx); err != nil {
			return err
		}
	default:
		return ErrInvalidState
	}

	next, ok := o.variant.neighbour(o.state, 1)
	if !ok {
		return ErrInvalidState
	}
	o.state = next
	return nil
}

// GoBack returns to the previous step keeping the draft. From the first step
// it leaves the flow.
func (o *Orchestrator) GoBack() error {
	switch o.state {
	case StatePersisted, StateExited:
		return ErrInvalidState
	case StateClientEntry:
		o.state = StateExited
		return nil
	}

	prev, ok := o.variant.neighbour(o.state, -1)
	if !ok {
		return ErrInvalidState
	}
	o.state = prev
	return nil
}

// ======================================================
// Steps
// ======================================================

func (o *Orchestrator) leaveClientEntry(ctx context.Context) error {
	if validators.NormalizeName(o.draft.Client.Name) == "" {
		return httperr.ErrValidation("client_name", "required")
	}
	return o.resolveClient(ctx)
}

// resolveClient links the draft to a client record. A store failure leaves
// the booking without a client link instead of aborting it.
func (o *Orchestrator) resolveClient(ctx context.Context) error {
	res, err := o.deps.Clients.ResolveOrCreate(ctx, o.tenantID, o.draft.Client)
	if err != nil {
		var se *client.StorageError
		if errors.As(err, &se) {
			o.deps.Logger.Warn("booking proceeds without client link",
				zap.Uint("tenant_id", o.tenantID),
				zap.String("op", se.Op),
				zap.Error(se.Err),
			)
			o.draft.ClientID = nil
			o.draft.ClientLink = "unlinked"
			return nil
		}
		return err
	}

	id := res.Client.ID
	o.draft.ClientID = &id
	o.draft.Client.Name = res.Client.Name
	if res.Created {
		o.draft.ClientLink = "created"
	} else {
		o.draft.ClientLink = "resolved"
	}
	return nil
}

func (o *Orchestrator) leaveProcedureSelection(ctx context.Context) error {
	var errs []error
	if len(o.draft.ProcedureIDs) == 0 {
		errs = append(errs, httperr.ErrValidation("procedure", "required"))
	}
	if o.draft.ProfessionalID == 0 {
		errs = append(errs, httperr.ErrValidation("professional", "required"))
	}
	if o.variant == VariantAppointment && o.draft.StartTime.IsZero() {
		errs = append(errs, httperr.ErrValidation("start_time", "required"))
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	procedures, err := o.deps.Catalog.GetProcedures(ctx, o.tenantID, o.draft.ProcedureIDs)
	if err != nil {
		return err
	}
	if len(procedures) != len(uniq(o.draft.ProcedureIDs)) {
		errs = append(errs, httperr.ErrValidation("procedure", "not_found"))
	}

	professional, err := o.deps.Catalog.GetProfessional(ctx, o.tenantID, o.draft.ProfessionalID)
	if err != nil {
		return err
	}
	if professional == nil || !professional.Active {
		errs = append(errs, httperr.ErrValidation("professional", "not_found"))
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	total, duration := sumProcedures(procedures)

	// Pagamentos já lançados precisam caber no novo total.
	if err := ledger.Validate(o.draft.Payments, total); err != nil {
		return err
	}

	o.draft.Procedures = procedures
	o.draft.Professional = professional
	o.draft.TotalPriceCents = total
	if o.variant == VariantAppointment {
		o.draft.EndTime = o.draft.StartTime.Add(duration)
	}
	return nil
}

func sumProcedures(procedures []models.Procedure) (int64, time.Duration) {
	var total int64
	var minutes int
	for _, p := range procedures {
		total += p.PriceCents
		minutes += p.DurationMin
	}
	return total, time.Duration(minutes) * time.Minute
}

func uniq(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	var out []uint
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// ======================================================
// Payment step
// ======================================================

func (o *Orchestrator) AddPayment(p ledger.Payment) error {
	return o.mutatePayments(func(existing []ledger.Payment) ([]ledger.Payment, error) {
		return ledger.AddOrReplacePayment(existing, nil, p, o.draft.TotalPriceCents)
	})
}

func (o *Orchestrator) ReplacePayment(index int, p ledger.Payment) error {
	return o.mutatePayments(func(existing []ledger.Payment) ([]ledger.Payment, error) {
		return ledger.AddOrReplacePayment(existing, &index, p, o.draft.TotalPriceCents)
	})
}

func (o *Orchestrator) RemovePayment(index int) error {
	return o.mutatePayments(func(existing []ledger.Payment) ([]ledger.Payment, error) {
		return ledger.RemovePayment(existing, index), nil
	})
}

func (o *Orchestrator) PayInFull(method ledger.Method) error {
	return o.mutatePayments(func(existing []ledger.Payment) ([]ledger.Payment, error) {
		return ledger.PayInFull(existing, method, o.deps.Now(), o.draft.TotalPriceCents)
	})
}

func (o *Orchestrator) mutatePayments(fn func([]ledger.Payment) ([]ledger.Payment, error)) error {
	if o.state != StatePayment {
		return ErrInvalidState
	}
	out, err := fn(o.draft.Payments)
	if err != nil {
		return err
	}
	o.draft.Payments = out
	return nil
}

// ======================================================
// Attachments step
// ======================================================

// UploadImages checks the batch against the client's persisted images plus
// those already staged in this draft, then uploads each file. Files that
// fail come back as UploadErrors; the rest stay staged.
func (o *Orchestrator) UploadImages(ctx context.Context, kind string, files []File) error {
	if o.state != StateAttachments {
		return ErrInvalidState
	}
	if kind != models.ImageBefore && kind != models.ImageAfter {
		return httperr.ErrValidation("kind", "invalid")
	}
	if len(files) == 0 {
		return nil
	}

	plan, err := o.deps.Plans.GetActivePlan(ctx, o.tenantID)
	if err != nil {
		return err
	}

	existing := len(o.draft.BeforeImages) + len(o.draft.AfterImages)
	if o.draft.ClientID != nil {
		persisted, err := o.deps.Images.CountClientImages(ctx, o.tenantID, *o.draft.ClientID, "")
		if err != nil {
			return err
		}
		existing += persisted
	}

	if err := CheckImages(existing, len(files), plan); err != nil {
		return err
	}

	urls, uploadErr := UploadFiles(ctx, o.deps.Blobs, o.deps.Logger, o.tenantID, files)
	if kind == models.ImageBefore {
		o.draft.BeforeImages = append(o.draft.BeforeImages, urls...)
	} else {
		o.draft.AfterImages = append(o.draft.AfterImages, urls...)
	}
	return uploadErr
}

// ======================================================
// Persist
// ======================================================

func (o *Orchestrator) persist(ctx context.Context) error {
	if o.draft.ClientID == nil {
		if err := o.resolveClient(ctx); err != nil {
			return err
		}
	}

	total, _ := sumProcedures(o.draft.Procedures)
	if err := ledger.Validate(o.draft.Payments, total); err != nil {
		return err
	}
	o.draft.TotalPriceCents = total

	professionalID := o.draft.ProfessionalID
	if o.variant == VariantAppointment {
		ap := &models.Appointment{
			TenantID:        o.tenantID,
			ClientID:        o.draft.ClientID,
			ClientName:      validators.NormalizeName(o.draft.Client.Name),
			ProfessionalID:  professionalID,
			Procedures:      o.draft.Procedures,
			StartTime:       o.draft.StartTime,
			EndTime:         o.draft.EndTime,
			TotalPriceCents: total,
			Status:          string(appointment.InitialStatus()),
			Notes:           o.draft.Notes,
		}
		if err := o.deps.Recorder.SaveAppointment(ctx, ap); err != nil {
			return err
		}
		o.appointment = ap
		return nil
	}

	rec := &models.ServiceRecord{
		TenantID:        o.tenantID,
		ClientID:        o.draft.ClientID,
		ClientName:      validators.NormalizeName(o.draft.Client.Name),
		ProfessionalID:  professionalID,
		Procedures:      o.draft.Procedures,
		TotalPriceCents: total,
		IsBudget:        o.variant == VariantQuote,
		Notes:           o.draft.Notes,
	}
	if !rec.IsBudget {
		rec.Payments = PaymentsToModels(o.draft.Payments)
		rec.Images = ImagesToModels(o.draft.BeforeImages, o.draft.AfterImages)
	}

	if err := o.deps.Recorder.SaveService(ctx, rec); err != nil {
		return err
	}
	o.service = rec
	return nil
}

// Service returns the written record once the flow reached Persisted.
func (o *Orchestrator) Service() *models.ServiceRecord { return o.service }

func (o *Orchestrator) Appointment() *models.Appointment { return o.appointment }
