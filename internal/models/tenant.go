package models

import "time"

// Tenant é o negócio assinante (profissional ou clínica); todo dado é escopado por ele.
type Tenant struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Slug     string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Phone    string `gorm:"size:20" json:"phone"`
	Address  string `gorm:"size:255" json:"address"`
	Locale   string `gorm:"size:10;default:'pt-BR'" json:"locale"`
	Timezone string `gorm:"size:50;default:'America/Sao_Paulo'" json:"timezone"`

	PlanTier      string     `gorm:"size:20;default:'start'" json:"plan_tier"`
	PreapprovalID string     `gorm:"size:64" json:"-"`
	TrialEndsAt   *time.Time `json:"trial_ends_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
