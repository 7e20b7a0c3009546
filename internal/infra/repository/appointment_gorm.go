package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/vitororigens/glowapp-site-sub000/internal/domain/appointment"
	"github.com/vitororigens/glowapp-site-sub000/internal/httperr"
	"github.com/vitororigens/glowapp-site-sub000/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

var blockingStatuses = []string{
	string(domain.StatusPending),
	string(domain.StatusConfirmed),
}

// --------------------------------------------------
// Tenant
// --------------------------------------------------

func (r *AppointmentGormRepository) GetTenantByID(
	ctx context.Context,
	id uint,
) (*models.Tenant, error) {

	var tenant models.Tenant
	if err := r.db.WithContext(ctx).First(&tenant, id).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

// CreateAppointment checa conflito de horário do profissional e insere na
// mesma transação.
func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.
			Model(&models.Appointment{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(
				"tenant_id = ? AND professional_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
				ap.TenantID,
				ap.ProfessionalID,
				blockingStatuses,
				ap.EndTime,
				ap.StartTime,
			).
			Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			return httperr.ErrBusiness("time_conflict")
		}

		return tx.Omit("Professional", "Procedures.*").Create(ap).Error
	})

	if httperr.IsExclusionConflict(err) {
		return httperr.ErrBusiness("time_conflict")
	}
	return err
}

// --------------------------------------------------
// Appointment (state change)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	tenantID uint,
	appointmentID string,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Procedures").
		Preload("Professional").
		Where("tenant_id = ? AND id = ?", tenantID, appointmentID).
		First(&ap).Error; err != nil {
		return nil, err
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(ap).Error
}

func (r *AppointmentGormRepository) ConvertToService(
	ctx context.Context,
	ap *models.Appointment,
	rec *models.ServiceRecord,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// a trava evita duas conversões simultâneas
		var current models.Appointment
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("tenant_id = ? AND id = ?", ap.TenantID, ap.ID).
			First(&current).Error; err != nil {
			return err
		}
		if current.ServiceRecordID != nil {
			return httperr.ErrBusiness("already_converted")
		}

		if err := tx.Omit("Professional", "Procedures.*").Create(rec).Error; err != nil {
			return err
		}

		ap.ServiceRecordID = &rec.ID
		return tx.Model(&models.Appointment{}).
			Where("id = ?", ap.ID).
			Updates(map[string]any{
				"service_record_id": rec.ID,
				"updated_at":        time.Now(),
			}).Error
	})
}

// --------------------------------------------------
// Listing
// --------------------------------------------------

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	tenantID uint,
	professionalID *uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Procedures").
		Preload("Professional").
		Where("tenant_id = ? AND start_time >= ? AND start_time < ?", tenantID, start, end)

	if professionalID != nil {
		q = q.Where("professional_id = ?", *professionalID)
	}

	var apps []models.Appointment
	if err := q.Order("start_time ASC").Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
