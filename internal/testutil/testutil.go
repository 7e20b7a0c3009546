// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vitororigens/glowapp-site-sub000/internal/db"
	"github.com/vitororigens/glowapp-site-sub000/internal/models"
)

// NewDB opens a migrated in-memory SQLite database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	gdb, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return gdb
}

// Seed creates a tenant with one professional and two procedures.
type Seed struct {
	Tenant       models.Tenant
	Professional models.Professional
	Procedures   []models.Procedure
}

func SeedTenant(t *testing.T, gdb *gorm.DB, slug string) *Seed {
	t.Helper()

	s := &Seed{Tenant: models.Tenant{Name: slug, Slug: slug, Locale: "pt-BR", Timezone: "America/Sao_Paulo", PlanTier: "start"}}
	require.NoError(t, gdb.Create(&s.Tenant).Error)

	s.Professional = models.Professional{TenantID: s.Tenant.ID, Name: "Joana"}
	require.NoError(t, gdb.Create(&s.Professional).Error)

	s.Procedures = []models.Procedure{
		{TenantID: s.Tenant.ID, Name: "Limpeza de pele", PriceCents: 6000, DurationMin: 60},
		{TenantID: s.Tenant.ID, Name: "Peeling", PriceCents: 4000, DurationMin: 30},
	}
	require.NoError(t, gdb.Create(&s.Procedures).Error)

	return s
}
