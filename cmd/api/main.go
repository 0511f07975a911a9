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

	_ "github.com/jhoicas/OptiGestion-api/docs"
	appanalytics "github.com/jhoicas/OptiGestion-api/internal/application/analytics"
	"github.com/jhoicas/OptiGestion-api/internal/application/auth"
	"github.com/jhoicas/OptiGestion-api/internal/application/inventory"
	"github.com/jhoicas/OptiGestion-api/internal/application/notification"
	"github.com/jhoicas/OptiGestion-api/internal/application/sales"
	"github.com/jhoicas/OptiGestion-api/internal/application/usecase"
	infraemail "github.com/jhoicas/OptiGestion-api/internal/infrastructure/email"
	infrapdf "github.com/jhoicas/OptiGestion-api/internal/infrastructure/pdf"
	"github.com/jhoicas/OptiGestion-api/internal/infrastructure/postgres"
	"github.com/jhoicas/OptiGestion-api/internal/infrastructure/queue"
	"github.com/jhoicas/OptiGestion-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/OptiGestion-api/internal/interfaces/http"
	"github.com/jhoicas/OptiGestion-api/pkg/config"
	"github.com/jhoicas/OptiGestion-api/pkg/logger"
)

// @title        OptiGestion API
// @version      1.0
// @description  Back office de la óptica: inventario, citas, recetas, punto de venta y notificaciones.
// @BasePath     /
// @securityDefinitions.apikey Bearer
// @in           header
// @name         Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	// Repositorios
	userRepo := postgres.NewUserRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewInventoryMovementRepository(pool)
	appointmentRepo := postgres.NewAppointmentRepository(pool)
	prescriptionRepo := postgres.NewPrescriptionRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Notificaciones: SMTP (o log) detrás de una cola Redis o de un pool en memoria.
	sender := infraemail.NewSender(cfg.Email)
	var (
		dispatcher notification.Dispatcher
		workers    *queue.Workers
		memPool    *notification.PoolDispatcher
	)
	if cfg.Redis.URL != "" {
		rdb, err := queue.NewRedis(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		dispatcher = queue.NewRedisDispatcher(rdb)
		workers = queue.StartWorkers(ctx, rdb, sender, cfg.Redis.Workers)
	} else {
		memPool = notification.NewPoolDispatcher(sender, cfg.Redis.Workers, 128)
		memPool.Start(ctx)
		dispatcher = memPool
	}
	notifier := notification.NewNotifier(dispatcher, cfg.Notify.LowStockTo)

	// PDF y archivo de recibos
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.Name)
	var archive sales.ReceiptArchive
	if cfg.S3.Enabled() {
		s3Archive, err := storage.NewS3Archive(ctx, cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("cliente S3")
		}
		archive = s3Archive
	}

	// Casos de uso
	registerMovementUC := inventory.NewRegisterMovementUseCase(txRunner, productRepo, notifier)
	stockQueryUC := inventory.NewStockQueryUseCase(productRepo, movementRepo)
	replenishmentUC := inventory.NewReplenishmentUseCase(productRepo, pdfGenerator)
	productUC := usecase.NewProductUseCase(productRepo, txRunner, registerMovementUC)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	clientUC := usecase.NewClientUseCase(clientRepo, appointmentRepo, prescriptionRepo, saleRepo, notifier)
	appointmentUC := usecase.NewAppointmentUseCase(appointmentRepo, clientRepo)
	prescriptionUC := usecase.NewPrescriptionUseCase(prescriptionRepo, clientRepo)
	checkoutUC := sales.NewCheckoutUseCase(txRunner, registerMovementUC, productRepo, clientRepo, saleRepo, pdfGenerator, archive)
	dashboardUC := appanalytics.NewDashboardUseCase(analyticsRepo, productRepo)
	userUC := usecase.NewUserUseCase(userRepo)
	emailUC := notification.NewEmailUseCase(sender)
	reminderUC := notification.NewReminderUseCase(appointmentUC, sender, 0)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	if cfg.Cron.Secret == "" {
		log.Warn().Msg("CRON_SECRET vacío: /cron/appointment-reminders rechazará todas las peticiones")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 60,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "OptiGestion API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:           authUC,
		UserUC:           userUC,
		ClientUC:         clientUC,
		ProductUC:        productUC,
		CategoryUC:       categoryUC,
		AppointmentUC:    appointmentUC,
		PrescriptionUC:   prescriptionUC,
		RegisterMovement: registerMovementUC,
		StockQuery:       stockQueryUC,
		Replenishment:    replenishmentUC,
		Checkout:         checkoutUC,
		Dashboard:        dashboardUC,
		Email:            emailUC,
		Reminders:        reminderUC,
		Roles:            userUC,
		JWTSecret:        cfg.JWT.Secret,
		CronSecret:       cfg.Cron.Secret,
	})

	httpLog := log.Component("http")
	go func() {
		httpLog.Info().Str("addr", cfg.HTTP.Addr()).Msg("escuchando")
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			httpLog.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		httpLog.Error().Err(err).Msg("apagado del servidor")
	}

	// Correos pendientes: el pool en memoria drena su cola; los workers Redis
	// terminan el job en curso y el resto queda en la lista.
	stop()
	if memPool != nil {
		memPool.Close()
	}
	if workers != nil {
		workers.Wait()
	}

	log.Info().Msg("aplicación detenida")
}
