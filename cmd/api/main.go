package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"chartdesk/api/internal/app"
	"chartdesk/api/internal/catalog"
	"chartdesk/api/internal/config"
	"chartdesk/api/internal/draft"
	"chartdesk/api/internal/search"
	"chartdesk/api/internal/store"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	var dataStore store.Store
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		log.Printf("Using PostgreSQL for deal storage")
		pg, err := store.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("database connection failed: %v", err)
		}
		dataStore = pg
	} else {
		log.Printf("Using Redis for deal storage")
		rs, err := store.NewRedisStore(cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis connection failed: %v", err)
		}
		dataStore = rs
	}
	defer dataStore.Close()

	cat, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		log.Fatalf("catalog load failed: %v", err)
	}

	fixtureLoader := func(ctx context.Context) ([]search.FixtureRecord, error) {
		states, err := dataStore.ListDeals(ctx)
		if err != nil {
			return nil, err
		}
		return app.FixtureRecords(states...), nil
	}

	var meiliClient *search.Meili
	if strings.TrimSpace(cfg.MeiliURL) != "" {
		meiliClient = search.NewMeili(cfg.MeiliURL, cfg.MeiliMasterKey)
		defer meiliClient.Close()
	}
	searchService := search.NewService(meiliClient, fixtureLoader)
	searchService.ReindexAll(ctx)

	var drafter *draft.Client
	if strings.TrimSpace(cfg.DraftAPIKey) != "" {
		drafter = draft.New(cfg.DraftAPIURL, cfg.DraftAPIKey, cfg.DraftModel)
	} else {
		log.Printf("Drafting collaborator not configured, regex extraction only")
	}

	var service *app.Service
	if drafter != nil {
		service = app.New(cfg, dataStore, drafter, cat, searchService)
	} else {
		service = app.New(cfg, dataStore, nil, cat, searchService)
	}

	httpServer := app.NewHTTPServer(service, cfg.CORSOrigin)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Chartdesk API listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
