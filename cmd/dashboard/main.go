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

	_ "github.com/jhoicas/Inventario-dashboard/docs"
	"github.com/jhoicas/Inventario-dashboard/internal/application/analytics"
	"github.com/jhoicas/Inventario-dashboard/internal/application/requestmgr"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
	"github.com/jhoicas/Inventario-dashboard/internal/infrastructure/httpapi"
	infrapdf "github.com/jhoicas/Inventario-dashboard/internal/infrastructure/pdf"
	"github.com/jhoicas/Inventario-dashboard/internal/infrastructure/session"
	"github.com/jhoicas/Inventario-dashboard/internal/interfaces/binding"
	httpRouter "github.com/jhoicas/Inventario-dashboard/internal/interfaces/http"
	"github.com/jhoicas/Inventario-dashboard/pkg/config"
	"github.com/jhoicas/Inventario-dashboard/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// @title        Inventario Dashboard
// @version      1.0
// @description  Servidor de vistas del dashboard de inventario multi-plataforma (Shopify, Amazon).
// @BasePath     /
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
		Str("backend", cfg.API.BaseURL).
		Msg("iniciando dashboard")

	platform, err := entity.ParsePlatform(cfg.Dashboard.DefaultPlatform)
	if err != nil {
		log.Fatal().Err(err).Msg("plataforma por defecto")
	}
	thresholds := entity.StockThresholds{
		LowStock:  cfg.Dashboard.LowStockThreshold,
		Overstock: cfg.Dashboard.OverstockThreshold,
	}

	// Un único coordinador compartido por todas las vistas.
	coord := requestmgr.New(log, requestmgr.WithDefaultTTL(cfg.Dashboard.CacheTTL()))
	sessionStore := session.New(cfg.Session, log)
	api := httpapi.NewClient(cfg.API, sessionStore, log)

	names := httpRouter.ViewNames{Inventory: "inventory", Platforms: "platforms", SKUs: "skus"}
	newView := func(c analytics.Config) *binding.Binding {
		c.PageSize = cfg.Dashboard.SKUPageSize
		c.CacheTTL = cfg.Dashboard.CacheTTL()
		c.FastMode = cfg.Dashboard.FastMode
		c.Thresholds = thresholds
		agg := analytics.NewAggregator(api, sessionStore, coord, c, log)
		return binding.New(agg, cfg.Dashboard.RefreshInterval(), log)
	}
	views := binding.NewGroup(
		newView(analytics.Config{Name: names.Inventory, Platform: platform}),
		newView(analytics.Config{
			Name:     names.Platforms,
			Platform: entity.PlatformAll,
			Domains:  []analytics.Domain{analytics.DomainInventoryAnalytics},
		}),
		newView(analytics.Config{
			Name:     names.SKUs,
			Platform: platform,
			Domains:  []analytics.Domain{analytics.DomainSKUInventory},
		}),
	)

	appCtx, stopViews := context.WithCancel(context.Background())
	views.AttachAll(appCtx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Inventario Dashboard",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Views:       views,
		Coordinator: coord,
		Session:     sessionStore,
		Reports:     infrapdf.NewMarotoPDFGenerator(),
		Names:       names,
		Thresholds:  thresholds,
		Log:         log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando dashboard...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	stopViews()
	views.DetachAll()
	if n := coord.CancelAllRequests(); n > 0 {
		log.Info().Int("cancelled", n).Msg("peticiones en vuelo canceladas")
	}

	log.Info().Msg("dashboard detenido")
}
