package appointment

import (
	"context"
	"time"

	domain "github.com/vitororigens/glowapp-site-sub000/internal/domain/appointment"
	"github.com/vitororigens/glowapp-site-sub000/internal/dto"
	"github.com/vitororigens/glowapp-site-sub000/internal/money"
	"github.com/vitororigens/glowapp-site-sub000/internal/timezone"
)

type ListAppointmentsByMonth struct {
	repo domain.Repository
}

func NewListAppointmentsByMonth(
	repo domain.Repository,
) *ListAppointmentsByMonth {
	return &ListAppointmentsByMonth{
		repo: repo,
	}
}

func (uc *ListAppointmentsByMonth) Execute(
	ctx context.Context,
	tenantID uint,
	professionalID *uint,
	year int,
	month int,
) ([]dto.AppointmentListDTO, error) {

	tenant, err := uc.repo.GetTenantByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	start, end := timezone.MonthRange(year, time.Month(month), tenant.Timezone)

	appointments, err := uc.repo.ListAppointmentsForPeriod(
		ctx,
		tenantID,
		professionalID,
		start,
		end,
	)
	if err != nil {
		return nil, err
	}

	format := money.NewFormatter(tenant.Locale).Format

	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		out = append(out, dto.NewAppointmentListDTO(ap, format))
	}

	return out, nil
}
