package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/vitororigens/glowapp-site-sub000/internal/models"
)

type ServiceGormRepository struct {
	db *gorm.DB
}

func NewServiceGormRepository(db *gorm.DB) *ServiceGormRepository {
	return &ServiceGormRepository{db: db}
}

func (r *ServiceGormRepository) preload(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Professional").
		Preload("Procedures").
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("kind ASC, position ASC") })
}

// --------------------------------------------------
// Create / Read
// --------------------------------------------------

// Create grava o atendimento com pagamentos, imagens e o vínculo com os
// procedimentos existentes.
func (r *ServiceGormRepository) Create(
	ctx context.Context,
	rec *models.ServiceRecord,
) error {
	return r.db.WithContext(ctx).
		Omit("Professional", "Procedures.*").
		Create(rec).Error
}

func (r *ServiceGormRepository) Get(
	ctx context.Context,
	tenantID uint,
	id string,
) (*models.ServiceRecord, error) {

	var rec models.ServiceRecord
	if err := r.preload(r.db.WithContext(ctx)).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *ServiceGormRepository) ListByClient(
	ctx context.Context,
	tenantID uint,
	clientID string,
) ([]models.ServiceRecord, error) {

	var recs []models.ServiceRecord
	if err := r.preload(r.db.WithContext(ctx)).
		Where("tenant_id = ? AND client_id = ?", tenantID, clientID).
		Order("created_at DESC").
		Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

// ListOrphans devolve os atendimentos sem cliente vinculado.
func (r *ServiceGormRepository) ListOrphans(
	ctx context.Context,
	tenantID uint,
) ([]models.ServiceRecord, error) {

	var recs []models.ServiceRecord
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND (client_id IS NULL OR client_id = '')", tenantID).
		Order("created_at ASC").
		Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

// LinkClient vincula um atendimento órfão a um cliente. Só altera
// registros que continuam sem cliente.
func (r *ServiceGormRepository) LinkClient(
	ctx context.Context,
	tenantID uint,
	recordID string,
	clientID string,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.ServiceRecord{}).
		Where("tenant_id = ? AND id = ? AND (client_id IS NULL OR client_id = '')", tenantID, recordID).
		Update("client_id", clientID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// --------------------------------------------------
// Images
// --------------------------------------------------

// CountClientImages conta as imagens de todos os atendimentos do cliente,
// menos as do atendimento excludeRecordID.
func (r *ServiceGormRepository) CountClientImages(
	ctx context.Context,
	tenantID uint,
	clientID string,
	excludeRecordID string,
) (int, error) {

	q := r.db.WithContext(ctx).
		Model(&models.ServiceImage{}).
		Joins("JOIN service_records ON service_records.id = service_images.service_record_id").
		Where("service_records.tenant_id = ? AND service_records.client_id = ?", tenantID, clientID)

	if excludeRecordID != "" {
		q = q.Where("service_records.id <> ?", excludeRecordID)
	}

	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return int(n), nil
}

// ReplaceImages troca as imagens de um tipo pela lista dada, na ordem.
func (r *ServiceGormRepository) ReplaceImages(
	ctx context.Context,
	rec *models.ServiceRecord,
	kind string,
	urls []string,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("service_record_id = ? AND kind = ?", rec.ID, kind).
			Delete(&models.ServiceImage{}).Error; err != nil {
			return err
		}

		images := make([]models.ServiceImage, len(urls))
		for i, u := range urls {
			images[i] = models.ServiceImage{
				ServiceRecordID: rec.ID,
				Kind:            kind,
				URL:             u,
				Position:        i,
			}
		}
		if len(images) > 0 {
			if err := tx.Create(&images).Error; err != nil {
				return err
			}
		}

		kept := make([]models.ServiceImage, 0, len(rec.Images)+len(images))
		for _, img := range rec.Images {
			if img.Kind != kind {
				kept = append(kept, img)
			}
		}
		rec.Images = append(kept, images...)

		return tx.Model(&models.ServiceRecord{}).Where("id = ?", rec.ID).Update("updated_at", time.Now()).Error
	})
}

// --------------------------------------------------
// Payments
// --------------------------------------------------

// ReplacePayments troca todos os pagamentos do atendimento pela lista dada.
func (r *ServiceGormRepository) ReplacePayments(
	ctx context.Context,
	rec *models.ServiceRecord,
	payments []models.ServicePayment,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("service_record_id = ?", rec.ID).
			Delete(&models.ServicePayment{}).Error; err != nil {
			return err
		}

		for i := range payments {
			payments[i].ID = 0
			payments[i].ServiceRecordID = rec.ID
			payments[i].Position = i
		}
		if len(payments) > 0 {
			if err := tx.Create(&payments).Error; err != nil {
				return err
			}
		}

		rec.Payments = payments
		return tx.Model(&models.ServiceRecord{}).Where("id = ?", rec.ID).Update("updated_at", time.Now()).Error
	})
}
