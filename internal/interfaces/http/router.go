package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/catalogo-calzado/internal/application/auth"
	"github.com/jhoicas/catalogo-calzado/internal/application/catalog"
	"github.com/jhoicas/catalogo-calzado/internal/infrastructure/realtime"
	"github.com/jhoicas/catalogo-calzado/pkg/logger"
)

// AppOptions opciones de la aplicación Fiber.
type AppOptions struct {
	Name        string
	CORSOrigins string
	Log         *logger.Logger
}

// NewApp crea la app con recover, CORS, log de peticiones y respuestas de error en JSON.
func NewApp(opts AppOptions) *fiber.App {
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	if opts.CORSOrigins == "" {
		opts.CORSOrigins = "*"
	}
	app := fiber.New(fiber.Config{
		AppName:      opts.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: errorHandler,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: opts.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))
	app.Use(RequestLogger(opts.Log.Component("http")))
	return app
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CatalogUC  *catalog.CatalogUseCase
	MutationUC *catalog.MutationService
	StatsUC    *catalog.StatsUseCase
	AuthUC     *auth.AdminAuthUseCase
	Hub        *realtime.Hub
	Service    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.Service})
	})

	if deps.Hub != nil {
		app.Get("/ws", upgradeOnly, realtimeHandler(deps.Hub))
	}

	api := app.Group("/api")

	// Catálogo (público)
	productHandler := NewProductHandler(deps.CatalogUC, deps.MutationUC)
	api.Get("/products", productHandler.List)
	api.Get("/products/:id", productHandler.GetByID)
	api.Get("/feed.xml", NewFeedHandler(deps.CatalogUC).Get)

	// Administración
	admin := api.Group("/admin")
	admin.Post("/verify", NewAuthHandler(deps.AuthUC).Verify)

	requireAdmin := RequireAdmin(deps.AuthUC)
	admin.Put("/stock", requireAdmin, productHandler.UpdateStock)
	admin.Post("/products", requireAdmin, productHandler.Create)
	admin.Put("/products/:id", requireAdmin, productHandler.Update)
	admin.Delete("/products/:id", requireAdmin, productHandler.Delete)
	admin.Post("/products/:id/sizes", requireAdmin, productHandler.AddSize)
	admin.Delete("/products/:productId/sizes/:size", requireAdmin, productHandler.RemoveSize)

	statsHandler := NewStatsHandler(deps.StatsUC)
	admin.Get("/stats", requireAdmin, statsHandler.GetStats)
	admin.Get("/stats/report.pdf", requireAdmin, statsHandler.GetReport)
}
