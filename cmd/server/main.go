package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"flexbo-edge/internal/config"
	"flexbo-edge/internal/handlers"
	"flexbo-edge/internal/metrics"
	"flexbo-edge/internal/middleware"
	"flexbo-edge/internal/proxy"
	"flexbo-edge/internal/router"
	"flexbo-edge/internal/services"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(cfg)
	log.Info().Str("env", cfg.Env).Msg("starting flexbo edge")

	// ──── Step 2: Initialize Metrics ────
	m := metrics.New()

	// ──── Step 3: Initialize Mail Client ────
	mailService := services.NewMailService(
		cfg.ResendAPIKey,
		cfg.ResendBaseURL,
		cfg.ContactFrom,
		cfg.ContactTo,
		log,
	)
	log.Info().Msg("mail client initialized")

	// ──── Step 4: Initialize Backend Forwarder ────
	forwarder, err := proxy.New(cfg.BackendURL, "/api", cfg.ProxyTimeout, log,
		proxy.WithErrorHook(m.ProxyErrs.Inc))
	if err != nil {
		log.Fatal().Err(err).Msg("backend forwarder initialization failed")
	}
	log.Info().Str("backend", cfg.BackendURL).Msg("backend forwarder initialized")

	// ──── Step 5: Build Router ────
	contactHandler := handlers.NewContactHandler(mailService, log)
	limiter := middleware.NewInflightLimiter(cfg.ProxyMaxInflight)

	r := router.New(router.Deps{
		Contact:     contactHandler,
		Forwarder:   forwarder,
		Metrics:     m,
		Limiter:     limiter,
		MediaDir:    cfg.MediaDir,
		DistDir:     cfg.DistDir,
		FrontendURL: cfg.FrontendURL,
		Log:         log,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Info().Str("port", cfg.Port).Str("proxy", cfg.BackendURL).Msg("edge ready")

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server error")
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	var out = zerolog.New(os.Stdout)
	if cfg.IsDevelopment() {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}
	return out.With().Timestamp().Str("service", "flexbo-edge").Logger()
}
