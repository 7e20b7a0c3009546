package models

import "time"

type Professional struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	TenantID uint `gorm:"index" json:"tenant_id"`

	Name      string `gorm:"size:100;not null" json:"name"`
	Specialty string `gorm:"size:100" json:"specialty"`
	Active    bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
