package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vitororigens/glowapp-site-sub000/internal/money"
)

type Procedure struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	TenantID uint `gorm:"index" json:"tenant_id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	DurationMin int    `json:"duration_min"`
	Active      bool   `gorm:"default:true" json:"active"`
	Category    string `gorm:"size:50" json:"category"`

	// price é a coluna legada (reais ou centavos) e não é mais gravada
	Price            decimal.Decimal `gorm:"column:price;type:numeric(14,2)" json:"-"`
	StoredPriceCents *int64          `gorm:"column:price_cents" json:"-"`
	PriceCents       int64           `gorm:"-" json:"price_cents"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Procedure) AfterFind(tx *gorm.DB) error {
	p.PriceCents = money.StoredCents(p.StoredPriceCents, p.Price)
	return nil
}

func (p *Procedure) BeforeSave(tx *gorm.DB) error {
	cents := p.PriceCents
	p.StoredPriceCents = &cents
	return nil
}
