package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"

	"github.com/jhoicas/catalogo-calzado/internal/application/auth"
	"github.com/jhoicas/catalogo-calzado/internal/application/catalog"
	"github.com/jhoicas/catalogo-calzado/internal/infrastructure/feed"
	infrapdf "github.com/jhoicas/catalogo-calzado/internal/infrastructure/pdf"
	"github.com/jhoicas/catalogo-calzado/internal/infrastructure/realtime"
	"github.com/jhoicas/catalogo-calzado/internal/infrastructure/storage"
	"github.com/jhoicas/catalogo-calzado/internal/infrastructure/telemetry"
	httpRouter "github.com/jhoicas/catalogo-calzado/internal/interfaces/http"
	"github.com/jhoicas/catalogo-calzado/pkg/config"
	"github.com/jhoicas/catalogo-calzado/pkg/logger"
)

const version = "1.0.0"

const swaggerFile = "./docs/swagger.json"

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
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.Telemetry.OTLPEndpoint, cfg.App.Name, version)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar trazas")
	}

	backend, err := storage.Open(ctx, cfg, log.Component("store"))
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer backend.Close()

	hub := realtime.NewHub(time.Duration(cfg.Realtime.PingSeconds)*time.Second, log.Component("realtime"))
	hubCtx, stopHub := context.WithCancel(context.Background())
	go hub.Run(hubCtx)

	mutationSvc := catalog.NewMutationService(backend.TxRunner, backend.Products, hub, log.Component("catalog"))
	catalogUC := catalog.NewCatalogUseCase(backend.Products,
		feed.NewXMLFeedBuilder(cfg.Catalog.StoreName, cfg.HTTP.PublicURL, cfg.Catalog.Currency))
	reportGen := infrapdf.NewStockReportGenerator(cfg.Catalog.StoreName, cfg.HTTP.PublicURL, cfg.Realtime.LowStockThreshold)
	statsUC := catalog.NewStatsUseCase(backend.Analytics, backend.Products, reportGen, cfg.Realtime.LowStockThreshold)

	authUC, err := auth.NewAdminAuthUseCase(cfg.Admin.Password, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("autenticación de administrador")
	}
	if cfg.Admin.Password == "" {
		log.Warn().Msg("ADMIN_PASSWORD vacío: el panel de administración queda deshabilitado")
	}

	if cfg.Store.SeedOnEmpty {
		n, err := catalog.NewSeeder(mutationSvc, backend.Products).SeedIfEmpty(ctx)
		if err != nil {
			log.Error().Err(err).Msg("carga inicial de productos")
		} else if n > 0 {
			log.Info().Int("productos", n).Msg("catálogo de demostración cargado")
		}
	}

	app := httpRouter.NewApp(httpRouter.AppOptions{
		Name:        cfg.App.Name,
		CORSOrigins: cfg.HTTP.CORSOrigins,
		Log:         log,
	})

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Catálogo de calzado API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		CatalogUC:  catalogUC,
		MutationUC: mutationSvc,
		StatsUC:    statsUC,
		AuthUC:     authUC,
		Hub:        hub,
		Service:    cfg.App.Name,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Cerrar el hub primero libera los handlers websocket bloqueados en Serve.
	stopHub()
	<-hub.Done()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado de trazas")
	}

	log.Info().Msg("aplicación detenida")
}
