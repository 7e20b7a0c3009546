package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/vitororigens/glowapp-site-sub000/internal/audit"
	"github.com/vitororigens/glowapp-site-sub000/internal/config"
	dbpkg "github.com/vitororigens/glowapp-site-sub000/internal/db"
	"github.com/vitororigens/glowapp-site-sub000/internal/domain/quota"
	"github.com/vitororigens/glowapp-site-sub000/internal/infra/billing"
	infraRepo "github.com/vitororigens/glowapp-site-sub000/internal/infra/repository"
	"github.com/vitororigens/glowapp-site-sub000/internal/infra/storage"
	"github.com/vitororigens/glowapp-site-sub000/internal/logger"
	"github.com/vitororigens/glowapp-site-sub000/internal/routes"
)

func main() {
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

	// ======================================================
	// 💳 PLANOS (Mercado Pago + cache Redis)
	// ======================================================
	subs, err := billing.NewSubscriptionFetcher(cfg.Billing.AccessToken)
	if err != nil {
		log.Fatal("billing", zap.Error(err))
	}
	if subs == nil {
		log.Warn("billing disabled, stored plan tiers are always active")
	}

	var plans quota.PlanProvider = billing.NewMercadoPagoPlanProvider(
		infraRepo.NewTenantGormRepository(db),
		subs,
		cfg.Plans,
		cfg.Billing.PlanTiers,
		log,
	)

	infra := routes.Infra{Logger: log}
	if subs != nil {
		infra.Subscriptions = subs
	}

	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Warn("redis unreachable, plan cache falls back on every call", zap.Error(err))
		}
		cached := billing.NewCachedPlanProvider(plans, rdb, cfg.Redis.PlanTTL, log)
		plans = cached
		infra.PlanCache = cached
	}

	// ======================================================
	// 🖼️ FOTOS
	// ======================================================
	blobs, err := storage.NewS3ImageStore(storage.NewS3Client(cfg.Storage), cfg.Storage, log)
	if err != nil {
		log.Fatal("storage", zap.Error(err))
	}

	auditDispatcher := audit.NewDispatcher(audit.New(db), log)

	// ======================================================
	// 🌐 HTTP
	// ======================================================
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.MaxMultipartMemory = cfg.Storage.MaxUploadSize

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	infra.Plans = plans
	infra.Blobs = blobs
	infra.Audit = auditDispatcher
	routes.RegisterRoutes(r, db, cfg, infra)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("server running", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", zap.Error(err))
	}

	// requisições encerradas: nenhum Dispatch novo
	auditDispatcher.Close()
}
