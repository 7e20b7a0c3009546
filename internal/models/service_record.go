package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vitororigens/glowapp-site-sub000/internal/money"
)

const (
	ImageBefore = "before"
	ImageAfter  = "after"
)

// ServiceRecord é um atendimento realizado ou um orçamento (IsBudget).
type ServiceRecord struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	TenantID uint   `gorm:"index" json:"tenant_id"`

	// nil quando a criação do cliente falhou durante o agendamento
	ClientID   *string `gorm:"size:36;index" json:"client_id"`
	ClientName string  `gorm:"size:100" json:"client_name"`

	ProfessionalID uint         `json:"professional_id"`
	Professional   Professional `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"professional"`
	Procedures     []Procedure  `gorm:"many2many:service_record_procedures;" json:"procedures"`

	AppointmentID *string `gorm:"size:36" json:"appointment_id"`

	// total_price é legado (só leitura); total_price_cents vale quando preenchido
	TotalPrice       decimal.Decimal `gorm:"column:total_price;type:numeric(14,2)" json:"-"`
	StoredTotalCents *int64          `gorm:"column:total_price_cents" json:"-"`
	TotalPriceCents  int64           `gorm:"-" json:"total_price_cents"`

	IsBudget bool   `json:"is_budget"`
	Notes    string `gorm:"size:255" json:"notes"`

	Payments []ServicePayment `gorm:"constraint:OnDelete:CASCADE;" json:"payments"`
	Images   []ServiceImage   `gorm:"constraint:OnDelete:CASCADE;" json:"images"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *ServiceRecord) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

func (s *ServiceRecord) BeforeSave(tx *gorm.DB) error {
	cents := s.TotalPriceCents
	s.StoredTotalCents = &cents
	return nil
}

func (s *ServiceRecord) AfterFind(tx *gorm.DB) error {
	s.TotalPriceCents = money.StoredCents(s.StoredTotalCents, s.TotalPrice)
	return nil
}

// ImageURLs devolve as URLs de um tipo (before/after) na ordem gravada.
func (s *ServiceRecord) ImageURLs(kind string) []string {
	var out []string
	for _, img := range s.Images {
		if img.Kind == kind {
			out = append(out, img.URL)
		}
	}
	return out
}

type ServicePayment struct {
	ID              uint   `gorm:"primaryKey" json:"-"`
	ServiceRecordID string `gorm:"size:36;index" json:"-"`
	Position        int    `json:"position"`

	Method           string          `gorm:"size:20;not null" json:"method"`
	Value            decimal.Decimal `gorm:"column:value;type:numeric(14,2)" json:"-"`
	StoredValueCents *int64          `gorm:"column:value_cents" json:"-"`
	ValueCents       int64           `gorm:"-" json:"value_cents"`
	Installments     int             `json:"installments,omitempty"`
	PaidAt           time.Time       `json:"date"`
}

func (p *ServicePayment) BeforeSave(tx *gorm.DB) error {
	cents := p.ValueCents
	p.StoredValueCents = &cents
	return nil
}

func (p *ServicePayment) AfterFind(tx *gorm.DB) error {
	p.ValueCents = money.StoredCents(p.StoredValueCents, p.Value)
	return nil
}

type ServiceImage struct {
	ID              uint   `gorm:"primaryKey" json:"-"`
	ServiceRecordID string `gorm:"size:36;index" json:"-"`
	Kind            string `gorm:"size:10;not null" json:"kind"`
	URL             string `gorm:"size:500;not null" json:"url"`
	Position        int    `json:"position"`
}
