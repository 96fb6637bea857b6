package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sitewise.dev/internal/auth"
	"sitewise.dev/internal/config"
	"sitewise.dev/internal/httpapi"
	"sitewise.dev/internal/obs"
	"sitewise.dev/internal/projects"
	"sitewise.dev/internal/store/pg"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	cfg, err := config.Load()
	if err != nil {
		// Missing or unusable signing secret lands here; the process must
		// not come up without one.
		log.Fatalf("config: %v", err)
	}

	store, err := pg.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer store.Close()

	authSvc, err := auth.NewService(
		auth.NewPGStore(store.DB()),
		[]byte(cfg.AuthSecret),
		auth.WithIssuer(cfg.TokenIssuer),
		auth.WithAudience(cfg.TokenAudience),
		auth.WithTokenTTL(cfg.TokenTTL),
		auth.WithLeeway(cfg.ClockSkew),
	)
	if err != nil {
		log.Fatalf("auth: %v", err)
	}

	domainSvc := projects.NewService(store)

	api := httpapi.New(authSvc, domainSvc, httpapi.Options{
		Version:           version,
		Ready:             store,
		AuthRateBurst:     cfg.AuthRateBurst,
		AuthRatePerSecond: cfg.AuthRatePerSecond,
		MaxBodyBytes:      cfg.MaxBodyBytes,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting sitewise-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	log.Println("Stopped")
}
