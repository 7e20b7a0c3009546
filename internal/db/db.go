package db

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/vitororigens/glowapp-site-sub000/internal/config"
	"github.com/vitororigens/glowapp-site-sub000/internal/models"
)

func NewDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.Database.URL), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	res := db.Exec(`
        UPDATE tenants
        SET timezone = ?
        WHERE timezone IS NULL OR timezone = ''
    `, cfg.App.Timezone)
	if res.Error != nil {
		logger.Warn("timezone backfill failed", zap.Error(res.Error))
	}

	logger.Info("database ready")
	return db, nil
}

// Migrate cria/atualiza as tabelas de todos os modelos.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Tenant{},
		&models.User{},
		&models.Professional{},
		&models.Procedure{},
		&models.Client{},
		&models.ServiceRecord{},
		&models.ServicePayment{},
		&models.ServiceImage{},
		&models.Appointment{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
