package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vitororigens/glowapp-site-sub000/internal/money"
)

type Appointment struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	TenantID uint   `gorm:"index" json:"tenant_id"`

	ClientID   *string `gorm:"size:36;index" json:"client_id"`
	ClientName string  `gorm:"size:100" json:"client_name"`

	ProfessionalID uint         `json:"professional_id"`
	Professional   Professional `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"professional"`
	Procedures     []Procedure  `gorm:"many2many:appointment_procedures;" json:"procedures"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	TotalPrice       decimal.Decimal `gorm:"column:total_price;type:numeric(14,2)" json:"-"`
	StoredTotalCents *int64          `gorm:"column:total_price_cents" json:"-"`
	TotalPriceCents  int64           `gorm:"-" json:"total_price_cents"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`
	Notes  string `gorm:"size:255" json:"notes"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	CanceledAt  *time.Time `json:"canceled_at"`
	CompletedAt *time.Time `json:"completed_at"`
	NoShowAt    *time.Time `json:"no_show_at"`

	ServiceRecordID *string `gorm:"size:36" json:"service_record_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

func (a *Appointment) BeforeSave(tx *gorm.DB) error {
	cents := a.TotalPriceCents
	a.StoredTotalCents = &cents
	return nil
}

func (a *Appointment) AfterFind(tx *gorm.DB) error {
	a.TotalPriceCents = money.StoredCents(a.StoredTotalCents, a.TotalPrice)
	return nil
}
