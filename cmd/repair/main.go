// Command repair links service records saved without a client to the
// tenant's client with the same name. Run once after deploying the
// client identity fix.
package main

import (
	"context"
	"flag"

	"go.uber.org/zap"

	"github.com/vitororigens/glowapp-site-sub000/internal/config"
	dbpkg "github.com/vitororigens/glowapp-site-sub000/internal/db"
	infraRepo "github.com/vitororigens/glowapp-site-sub000/internal/infra/repository"
	"github.com/vitororigens/glowapp-site-sub000/internal/logger"
	"github.com/vitororigens/glowapp-site-sub000/internal/usecase/repair"
)

func main() {
	tenantID := flag.Uint("tenant", 0, "only this tenant (0 = all)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.Log)
	defer func() { _ = log.Sync() }()

	db, err := dbpkg.NewDB(cfg, log)
	if err != nil {
		log.Fatal("database", zap.Error(err))
	}

	uc := repair.NewLinkOrphans(
		infraRepo.NewTenantGormRepository(db),
		infraRepo.NewServiceGormRepository(db),
		infraRepo.NewClientGormRepository(db),
		log,
	)

	ctx := context.Background()

	var rep repair.Report
	if *tenantID != 0 {
		rep, err = uc.Tenant(ctx, *tenantID)
	} else {
		rep, err = uc.Execute(ctx)
	}
	if err != nil {
		log.Fatal("repair failed", zap.Error(err))
	}

	log.Info("repair finished",
		zap.Int("linked", rep.Linked),
		zap.Int("ambiguous", rep.Ambiguous),
		zap.Int("unmatched", rep.Unmatched),
	)
}
