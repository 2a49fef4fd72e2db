package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cbodonnell/snake/pkg/api"
	"github.com/cbodonnell/snake/pkg/config"
	"github.com/cbodonnell/snake/pkg/game"
	"github.com/cbodonnell/snake/pkg/game/constants"
	"github.com/cbodonnell/snake/pkg/log"
	"github.com/cbodonnell/snake/pkg/network"
	"github.com/cbodonnell/snake/pkg/repositories"
	"github.com/cbodonnell/snake/pkg/state"
	"github.com/cbodonnell/snake/pkg/version"
	"github.com/cbodonnell/snake/pkg/workers"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	port := flag.Int("port", 0, "HTTP port to listen on (overrides config)")
	logLevel := flag.String("log-level", "", "Log level (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	if *port != 0 {
		cfg.HTTPPort = *port
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	parsedLogLevel, err := log.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	log.Info("Starting snake server version %s", version.Get())
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	repository, err := repositories.NewRepository(ctx, cfg.DatabaseURL, cfg.Migrations())
	if err != nil {
		panic(fmt.Sprintf("Failed to create repository: %v", err))
	}

	stateManager := state.NewInMemoryStateManager()
	broadcastChan := make(chan workers.BroadcastMessage, constants.BroadcastChannelSize)
	saveGameResultChan := make(chan workers.SaveGameResultRequest, constants.SaveResultChannelSize)

	gameManager := game.NewGameManager(game.NewGameManagerOptions{
		StateManager:       stateManager,
		BroadcastChan:      broadcastChan,
		SaveGameResultChan: saveGameResultChan,
		TickInterval:       cfg.TickInterval,
		CommandQueueSize:   constants.CommandQueueSize,
		DefaultGridSize:    cfg.GridSize,
	})

	clientManager := network.NewClientManager()
	networkManager := network.NewNetworkManager(network.NewNetworkManagerOptions{
		ClientManager: clientManager,
		Commands:      gameManager,
	})

	saveGameResultWorker := workers.NewSaveGameResultWorker(workers.NewSaveGameResultWorkerOptions{
		Repository:         repository,
		SaveGameResultChan: saveGameResultChan,
	})
	// the save worker outlives the sessions so the last results are written
	saveCtx, saveCancel := context.WithCancel(context.Background())
	saveDone := make(chan struct{})
	go func() {
		defer close(saveDone)
		saveGameResultWorker.Start(saveCtx)
	}()

	broadcastMessageWorker := workers.NewBroadcastMessageWorker(workers.NewBroadcastMessageWorkerOptions{
		Sender:               networkManager,
		BroadcastMessageChan: broadcastChan,
	})
	go broadcastMessageWorker.Start(ctx)

	connectionEventWorker := workers.NewConnectionEventWorker(workers.NewConnectionEventWorkerOptions{
		ClientEventChan: clientManager.GetClientEventChan(),
		StateManager:    stateManager,
		Sender:          networkManager,
	})
	go connectionEventWorker.Start(ctx)

	var tlsConfig *api.TLSConfig
	if cfg.TLSCertFile != "" {
		tlsConfig = &api.TLSConfig{
			CertFile: cfg.TLSCertFile,
			KeyFile:  cfg.TLSKeyFile,
		}
	}
	apiServer := api.NewAPIServer(api.NewAPIServerOptions{
		Port:       cfg.HTTPPort,
		TLS:        tlsConfig,
		Sessions:   gameManager,
		Streamer:   networkManager,
		Repository: repository,
	})
	go apiServer.Start(ctx)

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := apiServer.Stop(shutdownCtx); err != nil {
		log.Error("Failed to stop API server: %v", err)
	}
	gameManager.StopAll()
	saveCancel()
	<-saveDone
	if err := repository.Close(shutdownCtx); err != nil {
		log.Error("Failed to close repository: %v", err)
	}
	log.Info("Server stopped")
}
