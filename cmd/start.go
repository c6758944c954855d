package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rental-inventory/core/config"
	"rental-inventory/core/database"
	"rental-inventory/core/loader"
	"rental-inventory/core/logger"
	"rental-inventory/core/middleware/auth"
	"rental-inventory/core/middleware/rayid"
	"rental-inventory/core/storage"

	"rental-inventory/feature/catalog"
	"rental-inventory/feature/correlation"
	"rental-inventory/feature/health"
	"rental-inventory/feature/inventory"
	"rental-inventory/feature/ledger"
	"rental-inventory/feature/stores"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "rental-inventory/docs/swagger"
)

// @title Rental Inventory API
// @version 1.0
// @description API for reconciling a POS equipment catalog with scan-tracked inventory units.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the rental inventory server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to Database
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to database", zap.Error(err))
		}
		logg.Info("Connected to database", zap.String("name", cfg.Database.Name))

		// 4. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 5. Initialize Storage (archive sink for run reports)
		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}

		// 6. Initialize Feature Loader
		mgr := loader.NewManager()

		// Register Features. Ledger depends on catalog, health depends on
		// ledger and inventory; registration order is load order.
		storesFeature := stores.NewFeature(db, logg)
		catalogFeature := catalog.NewFeature(db, logg)
		ledgerFeature := ledger.NewFeature(db, logg, catalogFeature.Service(), cfg.Server.ScanWorkers)
		correlationFeature := correlation.NewFeature(db, logg, cfg.Rules, store, cfg.Storage.Bucket)
		inventoryFeature := inventory.NewFeature(db, logg, cfg.Rules,
			time.Duration(cfg.Server.SnapshotTTLSeconds)*time.Second)
		healthFeature := health.NewFeature(db, logg, cfg.Rules,
			ledgerFeature.Service(), inventoryFeature.Service(), store, cfg.Storage.Bucket)

		mgr.Register(storesFeature)
		mgr.Register(catalogFeature)
		mgr.Register(ledgerFeature)
		mgr.Register(correlationFeature)
		mgr.Register(inventoryFeature)
		mgr.Register(healthFeature)

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 2.5 Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// 3. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 4. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 5. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 6. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
