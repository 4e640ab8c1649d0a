package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"tournament-settlement-system/config"
	"tournament-settlement-system/handlers"
	"tournament-settlement-system/metrics"
	"tournament-settlement-system/middleware"
	"tournament-settlement-system/models"
	"tournament-settlement-system/services"
	"tournament-settlement-system/utils"
	"tournament-settlement-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}
	utils.SetupLogger(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database: ", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatal("failed to migrate database: ", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	var archiver utils.ReceiptArchiver
	if cfg.R2.Enabled() {
		r2, err := utils.NewR2Archiver(ctx, cfg.R2.AccountID, cfg.R2.AccessKeyID, cfg.R2.AccessKeySecret, cfg.R2.Bucket)
		if err != nil {
			log.Fatal("failed to initialize R2 client: ", err)
		}
		archiver = r2
	} else {
		slog.Warn("⚠️  R2 not configured, settlement receipts will not be archived")
	}

	redistributor := services.NewTaxRedistributor(db, cfg.Policy, m)
	settlementService := services.NewSettlementService(db, cfg.Policy, redistributor, archiver, m)
	poolService := services.NewSoloTaxPoolService(db)
	rewardService := services.NewRewardService(db)

	worker, err := workers.NewRedistributionWorker(redistributor, cfg.RedistributionInterval)
	if err != nil {
		log.Fatal("failed to create redistribution worker: ", err)
	}
	if err := worker.Start(ctx); err != nil {
		log.Fatal("failed to start redistribution worker: ", err)
	}

	app := fiber.New()

	// scraped in-cluster, not through the gateway
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// 🔐❗ GLOBAL: Only Gateway requests allowed
	app.Use(middleware.GatewayAuthMiddleware(cfg.GatewayToken))

	origins := strings.Split(cfg.AllowedOrigins, ",")
	for i, origin := range origins {
		origins[i] = strings.TrimSpace(origin)
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, X-User-ID, X-User-Roles",
		ExposeHeaders:    "Content-Length, Content-Type, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// 🔐 Authenticated routes
	secured := app.Group("/", middleware.UserContextMiddleware())
	handlers.SetupSettlementRoutes(secured, settlementService, poolService, redistributor)
	handlers.SetupRewardRoutes(secured, rewardService)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server error", "error", err)
		}
	}()

	slog.Info("✅ Server running", "port", cfg.Port)
	slog.Info("✅ Redistribution retry worker running", "interval", cfg.RedistributionInterval)
	slog.Info("✅ CORS configured", "origins", cfg.AllowedOrigins)

	<-ctx.Done()
	slog.Info("Shutting down server...")
	if err := worker.Stop(); err != nil {
		slog.Warn("redistribution worker shutdown", "error", err)
	}
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Warn("server shutdown", "error", err)
	}
}
