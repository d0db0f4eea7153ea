package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/swaggo/swag"
	"golang.org/x/text/language"

	"github.com/jhoicas/retail-admin-api/docs"
	"github.com/jhoicas/retail-admin-api/internal/application/auth"
	"github.com/jhoicas/retail-admin-api/internal/application/inventory"
	"github.com/jhoicas/retail-admin-api/internal/application/reports"
	"github.com/jhoicas/retail-admin-api/internal/application/sales"
	"github.com/jhoicas/retail-admin-api/internal/application/usecase"
	"github.com/jhoicas/retail-admin-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/retail-admin-api/internal/infrastructure/pdf"
	"github.com/jhoicas/retail-admin-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/retail-admin-api/internal/interfaces/http"
	"github.com/jhoicas/retail-admin-api/pkg/config"
	"github.com/jhoicas/retail-admin-api/pkg/logger"
)

// @title						Retail Admin API
// @version					1.0
// @description				API de administración de tiendas: lotes, ventas con ganancia pura, gastos y reportes.
// @BasePath					/
// @securityDefinitions.apikey	Bearer
// @in							header
// @name						Authorization
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

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	storeRepo := postgres.NewStoreRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	recyclingRepo := postgres.NewRecyclingRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	expenseRepo := postgres.NewExpenseRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	collector := metrics.New()

	storeUC := usecase.NewStoreUseCase(storeRepo)
	userUC := usecase.NewUserUseCase(userRepo)
	productUC := usecase.NewProductUseCase(productRepo, categoryRepo)
	clientUC := usecase.NewClientUseCase(clientRepo)
	expenseUC := usecase.NewExpenseUseCase(expenseRepo)
	stockUC := inventory.NewStockUseCase(txRunner, stockRepo, productRepo, storeRepo, movementRepo, recyclingRepo)

	resolver := sales.NewCostResolver(cfg.Sales.VolumeFactorNames)
	saleUC := sales.NewSaleUseCase(
		txRunner, saleRepo, stockRepo, productRepo, recyclingRepo, clientRepo,
		resolver, collector, log.Component("sales"),
	)

	// PDF: comprobante de venta para el cliente
	receiptGenerator := infrapdf.NewMarotoReceiptGenerator(language.Spanish)
	receiptUC := sales.NewReceiptUseCase(saleRepo, storeRepo, clientRepo, productRepo, receiptGenerator)
	incomeUC := reports.NewIncomeUseCase(reportRepo)

	authUC := auth.NewAuthUseCase(userRepo, storeRepo, auth.JWTConfig{
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
	app.Use(httpRouter.RequestLogger(log.Component("http"), collector))

	docs.SwaggerInfo.Host = cfg.HTTP.Addr()
	app.Get("/swagger/doc.json", func(c *fiber.Ctx) error {
		doc, err := swag.ReadDoc()
		if err != nil {
			return err
		}
		c.Type("json")
		return c.SendString(doc)
	})

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.HTTP.DocsPath != "" {
		if _, err := os.Stat(cfg.HTTP.DocsPath); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.HTTP.DocsPath,
				Path:     "docs",
				Title:    "Retail Admin API",
			}))
		} else {
			log.Warn().Str("path", cfg.HTTP.DocsPath).Msg("swagger.json no encontrado, /docs desactivado")
		}
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "db_unavailable", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	if cfg.Metrics.Enabled {
		app.Get("/metrics", adaptor.HTTPHandler(collector.Handler()))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		UserUC:    userUC,
		StoreUC:   storeUC,
		ProductUC: productUC,
		ClientUC:  clientUC,
		ExpenseUC: expenseUC,
		StockUC:   stockUC,
		SaleUC:    saleUC,
		ReceiptUC: receiptUC,
		IncomeUC:  incomeUC,
		JWTSecret: cfg.JWT.Secret,
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
