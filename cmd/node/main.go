package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/eugenenazirov/clusterconf/internal/application"
	"github.com/eugenenazirov/clusterconf/internal/logging"
)

var signalNotify = signal.Notify

func main() {
	logger, err := logging.New(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(logger, os.Args[1:])
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	if err := app.NormalizeAddresses(); err != nil {
		logger.Fatal("failed to normalize cluster addresses", zap.Error(err))
	}

	cfg := app.Config()
	logger.Info("cluster node configuration resolved",
		zap.String("local_ip", cfg.LocalIP),
		zap.Int("meta_port", cfg.LocalMetaPort),
		zap.Int("data_port", cfg.LocalDataPort),
		zap.Int("client_port", cfg.LocalClientPort),
		zap.Strings("seed_nodes", cfg.SeedNodeURLs()),
		zap.Int("replication_factor", cfg.ReplicationFactor),
		zap.Stringer("consistency_level", cfg.ConsistencyLevel))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go app.WatchReload(ctx)

	waitForShutdown(logger)
}

func waitForShutdown(logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down")
}
