package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/vitororigens/glowapp-site-sub000/internal/models"
)

type TenantGormRepository struct {
	db *gorm.DB
}

func NewTenantGormRepository(db *gorm.DB) *TenantGormRepository {
	return &TenantGormRepository{db: db}
}

func (r *TenantGormRepository) GetTenant(
	ctx context.Context,
	id uint,
) (*models.Tenant, error) {

	var tenant models.Tenant
	if err := r.db.WithContext(ctx).First(&tenant, id).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *TenantGormRepository) ListTenantIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Tenant{}).
		Order("id ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// UpdateSubscription grava o vínculo com a assinatura do billing.
func (r *TenantGormRepository) UpdateSubscription(
	ctx context.Context,
	tenantID uint,
	preapprovalID string,
	tier string,
) error {

	return r.db.WithContext(ctx).
		Model(&models.Tenant{}).
		Where("id = ?", tenantID).
		Updates(map[string]any{
			"preapproval_id": preapprovalID,
			"plan_tier":      tier,
		}).Error
}
