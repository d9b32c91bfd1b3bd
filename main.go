package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"PosInventory/app/config"
	"PosInventory/app/database"
	"PosInventory/app/logger"
	"PosInventory/app/metrics"
	"PosInventory/app/services"
	"PosInventory/app/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.Init(logger.Config{Env: cfg.Log.Env, Level: cfg.Log.Level})

	if err := database.Initialize(cfg.Database); err != nil {
		log.Fatal().Err(err).Msg("database initialization failed")
	}
	log.Info().Str("host", cfg.Database.Host).Str("database", cfg.Database.Database).Msg("database connected")

	deductionSvc := services.NewDeductionService()
	prepSvc := services.NewPrepStockService()

	var hub *websocket.Hub
	if cfg.Alert.Enabled {
		hub = websocket.NewHub()
		go hub.Run()
		deductionSvc.SetAlertPublisher(hub)

		mux := http.NewServeMux()
		mux.HandleFunc("/ws", hub.HandleWS)
		mux.Handle("/metrics", metrics.Handler())
		go func() {
			addr := ":" + cfg.Alert.Port
			log.Info().Str("addr", addr).Msg("alert hub listening")
			if err := http.ListenAndServe(addr, mux); err != nil {
				log.Error().Err(err).Msg("alert hub server stopped")
			}
		}()
	}

	worker := services.NewDeductionWorker(deductionSvc, prepSvc, cfg.Worker.QueueSize)
	worker.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	worker.Stop()
}
