package models

import "time"

// AuditLog é gravado pelo audit.Dispatcher; a listagem filtra por tenant e
// período, daí o índice composto.
type AuditLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	TenantID uint   `gorm:"index:idx_audit_tenant_created,priority:1;not null" json:"tenant_id"`
	UserID   *uint  `json:"user_id"`
	Action   string `gorm:"size:50;not null;index" json:"action"`

	Entity   string `gorm:"size:30" json:"entity"`
	EntityID string `gorm:"size:64" json:"entity_id"`
	Metadata string `gorm:"type:text" json:"metadata"`

	CreatedAt time.Time `gorm:"index:idx_audit_tenant_created,priority:2" json:"created_at"`
}
