package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hwalton/wildtubs-configurator/internal/app"
	"github.com/hwalton/wildtubs-configurator/internal/config"
	"github.com/hwalton/wildtubs-configurator/internal/frontend"
	"github.com/hwalton/wildtubs-configurator/internal/handler"
	"github.com/hwalton/wildtubs-configurator/pkg/auth"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.HTTPTimeout)
	catalogs, err := app.LoadCatalogs(ctx, cfg, httpClient)
	cancel()
	if err != nil {
		log.Fatalf("load catalogs: %v", err)
	}

	// API stays open when no secret is configured
	var authProvider auth.Authenticator
	if cfg.AuthSecret != "" {
		authProvider = auth.NewJWT(cfg.AuthSecret, "", "")
	}

	tpls, err := frontend.BuildTemplates()
	if err != nil {
		log.Fatalf("build templates: %v", err)
	}
	appRouter := handler.NewRouter(handler.Options{
		Catalogs:    catalogs,
		Kinds:       cfg.Kinds,
		DefaultKind: cfg.DefaultKind,
		Auth:        authProvider,
		Templates:   tpls,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Mount("/", appRouter)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("starting server on %s (kinds %v, source %s)", addr, cfg.Kinds, cfg.CatalogSource)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server failed: %v", err)
	}
}
