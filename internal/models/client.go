package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cliente sem login, vinculado ao tenant. CPF e telefone guardam só dígitos.
type Client struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	TenantID uint   `gorm:"index:idx_clients_tenant_cpf;index:idx_clients_tenant_phone;index:idx_clients_tenant_name" json:"tenant_id"`

	Name  string `gorm:"size:100;not null;index:idx_clients_tenant_name" json:"name"`
	CPF   string `gorm:"column:cpf;size:11;index:idx_clients_tenant_cpf" json:"cpf"`
	Phone string `gorm:"size:20;index:idx_clients_tenant_phone" json:"phone"`
	Email string `gorm:"size:100" json:"email"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
