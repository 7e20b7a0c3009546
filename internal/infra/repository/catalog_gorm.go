package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/vitororigens/glowapp-site-sub000/internal/domain/booking"
	"github.com/vitororigens/glowapp-site-sub000/internal/models"
)

// CatalogGormRepository guarda procedimentos e profissionais do tenant.
type CatalogGormRepository struct {
	db *gorm.DB
}

func NewCatalogGormRepository(db *gorm.DB) *CatalogGormRepository {
	return &CatalogGormRepository{db: db}
}

// --------------------------------------------------
// Procedures
// --------------------------------------------------

func (r *CatalogGormRepository) GetProcedures(
	ctx context.Context,
	tenantID uint,
	ids []uint,
) ([]models.Procedure, error) {

	if len(ids) == 0 {
		return nil, nil
	}

	var procedures []models.Procedure
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND active = ? AND id IN ?", tenantID, true, ids).
		Order("id ASC").
		Find(&procedures).Error; err != nil {
		return nil, err
	}
	return procedures, nil
}

func (r *CatalogGormRepository) ListProcedures(
	ctx context.Context,
	tenantID uint,
) ([]models.Procedure, error) {

	var procedures []models.Procedure
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("name ASC").
		Find(&procedures).Error; err != nil {
		return nil, err
	}
	return procedures, nil
}

func (r *CatalogGormRepository) CreateProcedure(
	ctx context.Context,
	p *models.Procedure,
) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *CatalogGormRepository) GetProcedure(
	ctx context.Context,
	tenantID uint,
	id uint,
) (*models.Procedure, error) {

	var p models.Procedure
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProcedure grava o procedimento inteiro; atendimentos já gravados
// guardam o próprio total e não mudam.
func (r *CatalogGormRepository) UpdateProcedure(
	ctx context.Context,
	p *models.Procedure,
) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// --------------------------------------------------
// Professionals
// --------------------------------------------------

// GetProfessional devolve (nil, nil) quando não existe no tenant.
func (r *CatalogGormRepository) GetProfessional(
	ctx context.Context,
	tenantID uint,
	id uint,
) (*models.Professional, error) {

	var p models.Professional
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&p).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *CatalogGormRepository) ListProfessionals(
	ctx context.Context,
	tenantID uint,
) ([]models.Professional, error) {

	var list []models.Professional
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("name ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *CatalogGormRepository) CreateProfessional(
	ctx context.Context,
	p *models.Professional,
) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// Compile-time check
var _ booking.Catalog = (*CatalogGormRepository)(nil)
