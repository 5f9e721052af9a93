package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"seating-chart-server-go/config"
	"seating-chart-server-go/db"
	"seating-chart-server-go/handlers"
	"seating-chart-server-go/logger"
	"seating-chart-server-go/seating"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		logger.Error().Err(err).Msg("Server execution failed")
		os.Exit(1)
	}
	logger.Info().Msg("Application finished gracefully.")
}

func run(configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Configure(logger.Config{Level: cfg.Logging.Level, Pretty: cfg.Logging.Pretty})
	log := logger.Get()
	gin.SetMode(cfg.Server.Mode)

	ctx := context.Background()
	redisClient, err := db.InitializeRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return err
	}
	defer redisClient.Close()
	log.Info().Str("addr", cfg.Redis.Addr).Int("db", cfg.Redis.DB).Msg("Connected to Redis")

	redisService := db.NewRedisService(redisClient, log)
	if cfg.Redis.SeedDemo {
		// A failed seed leaves the server usable, so it is not fatal
		if _, err := redisService.SeedDemoClass(ctx); err != nil {
			logger.Warn().Err(err).Msg("Could not add demo classroom")
		}
	}

	engine := seating.NewEngine(seating.WithLogger(log))
	apiHandler := handlers.NewAPIHandler(redisService, engine, cfg.DefaultAlgorithm(), log)
	router := handlers.SetupRouter(apiHandler, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
		IdleTimeout:  120 * time.Second,
	}
	return serve(srv, log)
}

// serve runs srv until it fails or the process is told to stop, then shuts
// it down gracefully
func serve(srv *http.Server, log zerolog.Logger) error {
	serverErrors := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		serverErrors <- srv.ListenAndServe()
	}()

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error starting server: %w", err)
		}
		return nil
	case sig := <-osSignals:
		log.Info().Str("signal", sig.String()).Msg("Received OS signal, initiating shutdown...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP server shutdown error: %w", err)
	}
	log.Info().Msg("HTTP server gracefully stopped.")
	return nil
}
