package models

import "time"

type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	TenantID uint   `json:"tenant_id"`
	Tenant   Tenant `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"tenant"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`
	Role         string `gorm:"size:20;default:'owner'" json:"role"`

	LastLoginAt *time.Time `json:"last_login_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
