package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"forecast-go/internal/config"
	"forecast-go/internal/handler"
	"forecast-go/pkg/logger"
	"forecast-go/pkg/model"
	"forecast-go/pkg/worker"
)

func main() {
	var (
		configPath = flag.String("config", "", "Configuration file path (optional)")
		debug      = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.NewManager().Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *debug {
		cfg.Logger.Level = "debug"
	}

	log := setupLogger(cfg)

	pool := worker.NewPool(worker.Config{
		MaxWorkers:      cfg.Worker.MaxWorkers,
		QueueSize:       cfg.Worker.QueueSize,
		ShutdownTimeout: 5 * time.Second,
	})
	if err := pool.Start(); err != nil {
		log.WithError(err).Fatal("Failed to start worker pool")
	}
	defer pool.Stop()

	projector := model.NewProjector(cfg.Policy).WithPool(pool, cfg.Projection.ParallelThreshold)
	aggregator := model.NewAggregator(cfg.Policy)
	controller := handler.NewController(cfg, projector, aggregator)

	app := fiber.New(fiber.Config{
		AppName:      "forecast-go",
		BodyLimit:    cfg.Server.BodyLimitMB * 1024 * 1024,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutS) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutS) * time.Second,
	})
	controller.Register(app)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		log.WithField("addr", addr).Info("Starting projection API server")
		if err := app.Listen(addr); err != nil {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutdown signal received")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.WithError(err).Warn("Server did not shut down cleanly")
	}
	log.Info("Server stopped")
}

func setupLogger(cfg *config.Config) *logger.Logger {
	log := logger.New(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		TimeFormat: cfg.Logger.TimeFormat,
	})
	logger.SetLogger(log)
	logger.SetGlobalLogger(log)
	return log.WithField("component", "server")
}
