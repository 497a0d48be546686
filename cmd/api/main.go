package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/DesignIQ-Labs/designiq-backend/config"
	"github.com/DesignIQ-Labs/designiq-backend/internal/bootstrap"
	cronjob "github.com/DesignIQ-Labs/designiq-backend/internal/generation/cron"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}
	defer app.Close()

	if err := app.WatchTools(ctx); err != nil {
		log.Printf("[warn] tool catalog watch disabled: %v", err)
	}

	sweeper, err := cronjob.NewScheduler(cfg.Jobs.SweepSchedule, app.Generation)
	if err != nil {
		log.Fatalf("cron: %v", err)
	}
	sweeper.Start()

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: bootstrap.BuildRouter(app.RouterDeps()),
	}

	go func() {
		log.Printf("listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
	sweeper.Stop(shutdownCtx)
	if err := app.Generation.Shutdown(shutdownCtx); err != nil {
		log.Printf("generation shutdown: %v", err)
	}
}
