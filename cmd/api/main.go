package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/FernandoLelis/multivendas-backend/internal/application/auth"
	"github.com/FernandoLelis/multivendas-backend/internal/application/inventory"
	"github.com/FernandoLelis/multivendas-backend/internal/application/sales"
	"github.com/FernandoLelis/multivendas-backend/internal/application/usecase"
	"github.com/FernandoLelis/multivendas-backend/internal/domain/repository"
	"github.com/FernandoLelis/multivendas-backend/internal/infrastructure/cache"
	"github.com/FernandoLelis/multivendas-backend/internal/infrastructure/memory"
	infrapdf "github.com/FernandoLelis/multivendas-backend/internal/infrastructure/pdf"
	"github.com/FernandoLelis/multivendas-backend/internal/infrastructure/postgres"
	httpRouter "github.com/FernandoLelis/multivendas-backend/internal/interfaces/http"
	"github.com/FernandoLelis/multivendas-backend/pkg/config"
	"github.com/FernandoLelis/multivendas-backend/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// storage repositorios y runner transaccional del driver elegido.
type storage struct {
	users        repository.UserRepository
	products     repository.ProductRepository
	lots         repository.LotRepository
	sales        repository.SaleRepository
	consumptions repository.ConsumptionRepository
	txRunner     inventory.TxRunner
	close        func()
}

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
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st := openStorage(ctx, cfg, log)
	defer st.close()

	var balanceCache inventory.BalanceCache = cache.NoopBalanceCache{}
	if cfg.DB.Driver == config.DriverMemory {
		// Instancia única: la caché en proceso alcanza.
		balanceCache = cache.NewLocalBalanceCache(cfg.Inventory.BalanceCacheTTL)
	}
	if cfg.Redis.Enabled() {
		rc := cache.NewRedisBalanceCache(cfg.Redis, cfg.Inventory.BalanceCacheTTL)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := rc.Ping(pingCtx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, se mantiene la caché anterior")
			_ = rc.Close()
		} else {
			balanceCache = rc
			defer rc.Close()
		}
		cancel()
	}

	engine := inventory.NewEngine(log.Component("fifo"))
	lotUC := inventory.NewLotUseCase(st.txRunner, st.lots, st.consumptions, st.products, balanceCache, log.Component("lots"))
	saleUC := sales.NewUseCase(st.txRunner, engine, st.sales, st.consumptions, st.products, st.lots, balanceCache, log.Component("sales"))
	statementUC := sales.NewStatementUseCase(saleUC, infrapdf.NewStatementRenderer())
	productUC := usecase.NewProductUseCase(st.products, st.lots)
	authUC := auth.NewAuthUseCase(st.users, auth.JWTConfig{
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
	app.Use(cors.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Multivendas API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ProductUC:   productUC,
		LotUC:       lotUC,
		SaleUC:      saleUC,
		StatementUC: statementUC,
		JWTSecret:   cfg.JWT.Secret,
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

// openStorage conecta PostgreSQL (aplicando el esquema si DB_AUTO_MIGRATE) o arma
// el almacén en memoria.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) storage {
	if cfg.DB.Driver == config.DriverMemory {
		log.Warn().Msg("usando almacén en memoria: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return storage{
			users:        store.Users(),
			products:     store.Products(),
			lots:         store.Lots(),
			sales:        store.Sales(),
			consumptions: store.Consumptions(),
			txRunner:     memory.NewTxRunner(store),
			close:        func() {},
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			log.Fatal().Err(err).Msg("aplicar esquema")
		}
		log.Info().Msg("esquema aplicado")
	}
	return storage{
		users:        postgres.NewUserRepository(pool),
		products:     postgres.NewProductRepository(pool),
		lots:         postgres.NewLotRepository(pool),
		sales:        postgres.NewSaleRepository(pool),
		consumptions: postgres.NewConsumptionRepository(pool),
		txRunner:     postgres.NewTxRunner(pool, cfg.Inventory.TxMaxRetries, log.Component("tx")),
		close:        pool.Close,
	}
}
