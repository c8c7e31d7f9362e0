package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/crypto/bcrypt"

	appanalytics "github.com/jhoicas/ops-dashboard-api/internal/application/analytics"
	"github.com/jhoicas/ops-dashboard-api/internal/application/auth"
	"github.com/jhoicas/ops-dashboard-api/internal/application/notification"
	"github.com/jhoicas/ops-dashboard-api/internal/application/usecase"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/permission"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/repository"
	"github.com/jhoicas/ops-dashboard-api/internal/infrastructure/kv"
	"github.com/jhoicas/ops-dashboard-api/internal/infrastructure/memdb"
	infrapdf "github.com/jhoicas/ops-dashboard-api/internal/infrastructure/pdf"
	"github.com/jhoicas/ops-dashboard-api/internal/infrastructure/upload"
	httpRouter "github.com/jhoicas/ops-dashboard-api/internal/interfaces/http"
	"github.com/jhoicas/ops-dashboard-api/internal/jobs"
	"github.com/jhoicas/ops-dashboard-api/pkg/config"
	"github.com/jhoicas/ops-dashboard-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Almacén documental en memoria (usuarios, empresas, órdenes, productos)
	db := memdb.New(log)
	hasher := auth.NewPasswordHasher(bcrypt.DefaultCost)
	if cfg.Seed.Fixtures {
		if err := memdb.Seed(ctx, db, hasher.Hash); err != nil {
			log.Fatal().Err(err).Msg("cargar datos de ejemplo")
		}
		log.Info().Msg("datos de ejemplo cargados")
	}

	// Almacenamiento durable de sesiones y notificaciones
	var storage repository.KeyValueStorage
	switch cfg.Storage.Driver {
	case "redis":
		rs := kv.NewRedisStorage(cfg.Storage.RedisAddr, cfg.Storage.RedisPassword, cfg.Storage.RedisDB)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := rs.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Storage.RedisAddr).Msg("conexión a Redis")
		}
		defer rs.Close()
		storage = rs
	default:
		storage = kv.NewMemoryStorage()
	}

	notifications, err := notification.NewStore(ctx, storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("cargar notificaciones")
	}

	uploads, err := upload.NewStorage(cfg.Upload, log)
	if err != nil {
		log.Fatal().Err(err).Msg("configurar uploads")
	}

	registry := permission.NewRegistry()
	userRepo := memdb.NewUserRepository(db)
	companyRepo := memdb.NewCompanyRepository(db)
	orderRepo := memdb.NewOrderRepository(db)
	productRepo := memdb.NewProductRepository(db)

	sessions := auth.NewSessionManager(storage, userRepo, registry, hasher, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)

	orderUC := usecase.NewOrderUseCase(orderRepo, userRepo, registry)
	productUC := usecase.NewProductUseCase(productRepo, notifications, cfg.Inventory.LowStockThreshold, log)
	orderSheetUC := usecase.NewOrderSheetUseCase(orderUC, companyRepo, userRepo, infrapdf.NewOrderSheetGenerator())
	dashboardUC := appanalytics.NewDashboardUseCase(productRepo, orderRepo, productUC, notifications)

	// Barrido periódico de stock bajo
	scheduler := jobs.NewScheduler(log)
	if cfg.Jobs.LowStockCron != "" {
		job := jobs.NewLowStockJob(productUC, log, time.Minute)
		if err := scheduler.AddJob(jobs.LowStockJobName, cfg.Jobs.LowStockCron, job.Run); err != nil {
			log.Fatal().Err(err).Str("expr", cfg.Jobs.LowStockCron).Msg("programar barrido de stock bajo")
		}
	}
	scheduler.Start()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    cfg.Upload.MaxBytes + 64*1024,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs (solo si el archivo existe)
	if _, err := os.Stat(cfg.HTTP.DocsFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.DocsFile,
			Path:     "docs",
			Title:    "Ops Dashboard API",
		}))
	}

	if local, ok := uploads.(*upload.LocalStorage); ok {
		app.Static(cfg.Upload.PublicBaseURL, local.BasePath())
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	done := make(chan struct{})
	httpRouter.Router(app, httpRouter.RouterDeps{
		Sessions:      sessions,
		Registry:      registry,
		Menu:          permission.DefaultMenu(),
		JWTExpMinutes: cfg.JWT.Expiration,
		CompanyUC:     usecase.NewCompanyUseCase(companyRepo),
		UserUC:        usecase.NewUserUseCase(userRepo, registry, hasher),
		ProfileUC:     usecase.NewProfileUseCase(userRepo, hasher),
		OrderUC:       orderUC,
		OrderSheet:    orderSheetUC,
		ProductUC:     productUC,
		DashboardUC:   dashboardUC,
		Notifications: notifications,
		Database:      db,
		Uploads:       uploads,
		MaxUpload:     int64(cfg.Upload.MaxBytes),
		Done:          done,
		Log:           log.Named("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	close(done)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	<-scheduler.Stop().Done()

	log.Info().Msg("aplicación detenida")
}
