package appointment

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/vitororigens/glowapp-site-sub000/internal/audit"
	domain "github.com/vitororigens/glowapp-site-sub000/internal/domain/appointment"
	"github.com/vitororigens/glowapp-site-sub000/internal/httperr"
	"github.com/vitororigens/glowapp-site-sub000/internal/models"
	"github.com/vitororigens/glowapp-site-sub000/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type TransitionInput struct {
	TenantID      uint
	UserID        uint
	AppointmentID string
}

// ======================================================
// USE CASE
// ======================================================

// TransitionAppointment aplica uma ação de status (confirmar, cancelar,
// concluir, não comparecimento) e audita.
type TransitionAppointment struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	action string
	apply  func(*models.Appointment, time.Time) error
}

func newTransition(
	repo domain.Repository,
	audit *audit.Dispatcher,
	action string,
	apply func(*models.Appointment, time.Time) error,
) *TransitionAppointment {
	return &TransitionAppointment{
		repo:   repo,
		audit:  audit,
		action: action,
		apply:  apply,
	}
}

func NewConfirmAppointment(repo domain.Repository, audit *audit.Dispatcher) *TransitionAppointment {
	return newTransition(repo, audit, "appointment_confirmed", domain.Confirm)
}

func NewCancelAppointment(repo domain.Repository, audit *audit.Dispatcher) *TransitionAppointment {
	return newTransition(repo, audit, "appointment_canceled", domain.Cancel)
}

func NewCompleteAppointment(repo domain.Repository, audit *audit.Dispatcher) *TransitionAppointment {
	return newTransition(repo, audit, "appointment_completed", domain.Complete)
}

func NewNoShowAppointment(repo domain.Repository, audit *audit.Dispatcher) *TransitionAppointment {
	return newTransition(repo, audit, "appointment_no_show", domain.MarkNoShow)
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *TransitionAppointment) Execute(
	ctx context.Context,
	in TransitionInput,
) (*models.Appointment, error) {

	tenant, err := uc.repo.GetTenantByID(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}

	ap, err := getAppointment(ctx, uc.repo, in.TenantID, in.AppointmentID)
	if err != nil {
		return nil, err
	}

	now := timezone.NowIn(tenant.Timezone)
	if err := uc.apply(ap, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: in.TenantID,
		UserID:   &in.UserID,
		Action:   uc.action,
		Entity:   "appointment",
		EntityID: ap.ID,
	})

	return ap, nil
}

func getAppointment(
	ctx context.Context,
	repo domain.Repository,
	tenantID uint,
	id string,
) (*models.Appointment, error) {

	ap, err := repo.GetAppointment(ctx, tenantID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}
	return ap, err
}
