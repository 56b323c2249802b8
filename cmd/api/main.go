package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/jhoicas/puntoventa-api/internal/application/auth"
	appledger "github.com/jhoicas/puntoventa-api/internal/application/ledger"
	"github.com/jhoicas/puntoventa-api/internal/application/sales"
	"github.com/jhoicas/puntoventa-api/internal/application/usecase"
	infraexcel "github.com/jhoicas/puntoventa-api/internal/infrastructure/excel"
	infrapayment "github.com/jhoicas/puntoventa-api/internal/infrastructure/payment"
	infrapdf "github.com/jhoicas/puntoventa-api/internal/infrastructure/pdf"
	"github.com/jhoicas/puntoventa-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/puntoventa-api/internal/interfaces/http"
	"github.com/jhoicas/puntoventa-api/pkg/config"
	"github.com/jhoicas/puntoventa-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if err := runMigrations(cfg); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	orderRepo := postgres.NewPurchaseOrderRepository(pool)
	receiptRepo := postgres.NewGoodsReceiptRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	sessionRepo := postgres.NewCashierSessionRepository(pool)
	settingRepo := postgres.NewSettingRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	ledgerUC := appledger.NewStockLedgerUseCase(txRunner)
	itemUC := usecase.NewItemUseCase(itemRepo, ledgerUC)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	customerUC := usecase.NewCustomerUseCase(customerRepo)
	purchaseUC := usecase.NewPurchaseUseCase(
		txRunner, ledgerUC,
		orderRepo, receiptRepo, supplierRepo, itemRepo,
	)
	sessionUC := usecase.NewSessionUseCase(sessionRepo, saleRepo)
	settingsUC := usecase.NewSettingsUseCase(settingRepo)
	reportUC := usecase.NewReportUseCase(itemRepo, movementRepo, infraexcel.NewStockExporter())

	// Pasarela de pagos: solo si hay server key configurado.
	// Sin pasarela la API sigue operando con ventas en efectivo.
	var gateway sales.PaymentGateway
	if cfg.Payment.Enabled() {
		gateway = infrapayment.NewSnapClient(infrapayment.Config{
			ServerKey: cfg.Payment.ServerKey,
			BaseURL:   cfg.Payment.BaseURL,
		})
		log.Info().Str("base_url", cfg.Payment.BaseURL).Msg("pasarela de pagos habilitada")
	}

	checkoutUC := sales.NewCheckoutUseCase(
		txRunner, ledgerUC,
		itemRepo, customerRepo, sessionRepo, saleRepo, settingRepo,
		settingsUC, gateway, infrapdf.NewReceiptGenerator(),
	)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	if cfg.Metrics.Enabled {
		app.Use(httpRouter.MetricsMiddleware())
		app.Get("/metrics", httpRouter.MetricsHandler())
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		ItemUC:     itemUC,
		CategoryUC: categoryUC,
		SupplierUC: supplierUC,
		CustomerUC: customerUC,
		PurchaseUC: purchaseUC,
		CheckoutUC: checkoutUC,
		SessionUC:  sessionUC,
		SettingsUC: settingsUC,
		ReportUC:   reportUC,
		LedgerUC:   ledgerUC,
		JWTSecret:  cfg.JWT.Secret,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// runMigrations aplica las migraciones pendientes de ./migrations con goose.
// Usa el driver database/sql de pgx; el pool pgx de la aplicación se abre después.
func runMigrations(cfg *config.Config) error {
	db, err := goose.OpenDBWithDriver("pgx", cfg.DB.ConnectionString())
	if err != nil {
		return err
	}
	defer db.Close()

	return goose.Up(db, "migrations")
}
