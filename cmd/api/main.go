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
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/eta-einvoice/internal/application/auth"
	"github.com/jhoicas/eta-einvoice/internal/application/billing"
	"github.com/jhoicas/eta-einvoice/internal/application/einvoice"
	"github.com/jhoicas/eta-einvoice/internal/application/usecase"
	infraeta "github.com/jhoicas/eta-einvoice/internal/infrastructure/eta"
	"github.com/jhoicas/eta-einvoice/internal/infrastructure/eta/credentials"
	"github.com/jhoicas/eta-einvoice/internal/infrastructure/eta/signer"
	"github.com/jhoicas/eta-einvoice/internal/infrastructure/postgres"
	"github.com/jhoicas/eta-einvoice/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/eta-einvoice/internal/interfaces/http"
	"github.com/jhoicas/eta-einvoice/pkg/config"
	"github.com/jhoicas/eta-einvoice/pkg/eta"
	"github.com/jhoicas/eta-einvoice/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("eta_env", cfg.ETA.Environment).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if err := postgres.Migrate(cfg.DB.ConnectionString(), log.Component("migrate")); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	credRepo := postgres.NewETACredentialRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Firma: sin certificado los documentos salen sin firma (válido solo en preprod).
	var docSigner eta.Signer
	cert, hasCert, err := signer.Load(cfg.ETA.CertPath, cfg.ETA.CertKeyPath, cfg.ETA.CertPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("certificado de firma ETA")
	}
	if hasCert {
		rsaSigner, err := signer.NewRSASigner(cert)
		if err != nil {
			log.Fatal().Err(err).Msg("certificado de firma ETA")
		}
		docSigner = rsaSigner
	} else {
		log.Warn().Msg("sin certificado ETA: los documentos se envían sin firma")
	}
	builder := infraeta.NewBuilder(cfg.ETA.TotalsTolerance, docSigner)

	retry := infraeta.RetryPolicy{
		MaxRetries:      cfg.ETA.MaxRetries,
		InitialInterval: cfg.ETA.RetryInitial,
		MaxInterval:     infraeta.DefaultRetryPolicy.MaxInterval,
	}
	client := infraeta.NewClient(cfg.ETA.HTTPTimeout, retry)

	key, err := credentials.ParseKey(cfg.ETA.SecretKey)
	if err != nil {
		log.Warn().Err(err).Msg("ETA_SECRET_KEY ausente o inválida: no se podrán guardar ni usar credenciales")
		key = nil
	}

	var tokenStore credentials.TokenStore
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("REDIS_URL inválida")
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		tokenStore = credentials.NewRedisStore(rdb)
		log.Info().Str("addr", opts.Addr).Msg("caché de tokens ETA en Redis")
	}
	sessions := credentials.NewManager(credRepo, client, tokenStore, key, log.Component("eta_session"))

	orchestrator := einvoice.NewOrchestrator(
		txRunner, invoiceRepo, companyRepo, customerRepo, productRepo,
		builder, sessions, log.Component("einvoice"),
	)

	statusScheduler := scheduler.NewETAStatusScheduler(orchestrator, scheduler.ETAStatusConfig{
		Interval:  cfg.ETA.PollInterval,
		BatchSize: cfg.ETA.PollBatchSize,
	}, log.Component("eta_status"))
	statusScheduler.Start(ctx)

	companyUC := usecase.NewCompanyUseCase(companyRepo, credRepo, credentials.NewSealer(key), cfg.ETA.Environment)
	productUC := usecase.NewProductUseCase(productRepo)
	customerUC := billing.NewCustomerUseCase(customerRepo)
	createInvoiceUC := billing.NewCreateInvoiceUseCase(txRunner, customerRepo, productRepo, invoiceRepo)
	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: submitWriteTimeout(retry, cfg.ETA.HTTPTimeout),
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "ETA e-invoice API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC:     companyUC,
		ProductUC:     productUC,
		CustomerUC:    customerUC,
		CreateInvoice: createInvoiceUC,
		ETA:           orchestrator,
		AuthUC:        authUC,
		JWTSecret:     cfg.JWT.Secret,
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

	if err := statusScheduler.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("detener conciliación ETA")
	}
	stop()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// submitWriteTimeout cubre el peor caso de un envío: autenticación y envío agotando sus
// reintentos, más margen para la base de datos.
func submitWriteTimeout(retry infraeta.RetryPolicy, httpTimeout time.Duration) time.Duration {
	return 2*retry.Budget(httpTimeout) + 10*time.Second
}
