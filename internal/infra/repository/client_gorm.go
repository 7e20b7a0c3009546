package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vitororigens/glowapp-site-sub000/internal/domain/client"
	"github.com/vitororigens/glowapp-site-sub000/internal/models"
)

type ClientGormRepository struct {
	db *gorm.DB
}

func NewClientGormRepository(db *gorm.DB) *ClientGormRepository {
	return &ClientGormRepository{db: db}
}

var clientColumns = map[client.Field]string{
	client.FieldCPF:   "cpf",
	client.FieldPhone: "phone",
	client.FieldName:  "name",
}

// --------------------------------------------------
// Lookup
// --------------------------------------------------

func (r *ClientGormRepository) FindByField(
	ctx context.Context,
	tenantID uint,
	field client.Field,
	value string,
	cpf string,
) (*models.Client, error) {

	column, ok := clientColumns[field]
	if !ok {
		return nil, fmt.Errorf("unknown client field %q", field)
	}

	q := r.db.WithContext(ctx).
		Where("tenant_id = ? AND "+column+" = ?", tenantID, value)
	if cpf != "" {
		q = q.Where("(cpf = '' OR cpf IS NULL OR cpf = ?)", cpf)
	}

	var c models.Client
	err := q.Order("created_at ASC").First(&c).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClientGormRepository) Get(
	ctx context.Context,
	tenantID uint,
	id string,
) (*models.Client, error) {

	var c models.Client
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// Search filtra por trecho do nome, telefone ou CPF.
func (r *ClientGormRepository) Search(
	ctx context.Context,
	tenantID uint,
	query string,
	limit int,
) ([]models.Client, error) {

	q := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("(LOWER(name) LIKE LOWER(?) OR phone LIKE ? OR cpf LIKE ?)", like, like, like)
	}

	var clients []models.Client
	if err := q.Order("name ASC").Limit(limit).Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *ClientGormRepository) Count(
	ctx context.Context,
	tenantID uint,
) (int, error) {

	var n int64
	if err := r.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("tenant_id = ?", tenantID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return int(n), nil
}

// --------------------------------------------------
// Write
// --------------------------------------------------

// CreateWithinQuota trava a linha do tenant, reconta e insere. Duas
// criações simultâneas do mesmo tenant ficam serializadas.
func (r *ClientGormRepository) CreateWithinQuota(
	ctx context.Context,
	c *models.Client,
	maxClients int,
) (bool, int, error) {

	var created bool
	var current int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tenant models.Tenant
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&tenant, c.TenantID).Error; err != nil {
			return err
		}

		var n int64
		if err := tx.Model(&models.Client{}).
			Where("tenant_id = ?", c.TenantID).
			Count(&n).Error; err != nil {
			return err
		}
		current = int(n)

		if current >= maxClients {
			return nil
		}

		if err := tx.Create(c).Error; err != nil {
			return err
		}
		created = true
		current++
		return nil
	})

	return created, current, err
}

func (r *ClientGormRepository) Update(
	ctx context.Context,
	tenantID uint,
	id string,
	fields map[string]any,
) error {

	return r.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Updates(fields).Error
}

// FindAllByName devolve todos os clientes com o nome exato, para
// o reparo de atendimentos órfãos.
func (r *ClientGormRepository) FindAllByName(
	ctx context.Context,
	tenantID uint,
	name string,
) ([]models.Client, error) {

	var clients []models.Client
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND name = ?", tenantID, name).
		Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// Compile-time check
var _ client.Repository = (*ClientGormRepository)(nil)
