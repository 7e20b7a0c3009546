package audit

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"github.com/vitororigens/glowapp-site-sub000/internal/models"
)

// Logger grava eventos na tabela audit_logs.
type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Log(ctx context.Context, ev Event) error {
	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	log := models.AuditLog{
		TenantID: ev.TenantID,
		UserID:   ev.UserID,
		Action:   ev.Action,
		Entity:   ev.Entity,
		EntityID: ev.EntityID,
		Metadata: metaJSON,
	}

	return l.db.WithContext(ctx).Create(&log).Error
}

// Filter restringe a listagem; campos vazios não filtram.
type Filter struct {
	Action string
	Entity string
	From   *time.Time
	To     *time.Time
}

// List devolve os eventos mais recentes do tenant.
func (l *Logger) List(ctx context.Context, tenantID uint, f Filter, limit, offset int) ([]models.AuditLog, int64, error) {
	q := l.db.WithContext(ctx).Model(&models.AuditLog{}).Where("tenant_id = ?", tenantID)
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.Entity != "" {
		q = q.Where("entity = ?", f.Entity)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.AuditLog
	if err := q.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

var _ Sink = (*Logger)(nil)
