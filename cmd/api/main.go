package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"genesis-settlement/config"
	httpHandler "genesis-settlement/internal/adapter/http/handler"
	"genesis-settlement/internal/adapter/registrar"
	"genesis-settlement/internal/adapter/storage/memory"
	pgStorage "genesis-settlement/internal/adapter/storage/postgres"
	redisStorage "genesis-settlement/internal/adapter/storage/redis"
	"genesis-settlement/internal/adapter/wallet"
	"genesis-settlement/internal/core/ports"
	"genesis-settlement/internal/service"
	"genesis-settlement/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Genesis Settlement Ledger")

	ctx := context.Background()

	// Monetary config was validated by Load.
	feePct, _ := cfg.Settlement.FeePercent()
	dust, _ := cfg.Settlement.Dust()
	initialBalance, _ := cfg.Wallet.Balance()

	var healthCheckers []ports.HealthChecker

	// Receipt ledger: in-memory by default, postgres archive when enabled.
	var ledger ports.ReceiptLedger = memory.NewReceiptLedger()
	if cfg.Archive.Enabled {
		pool, err := pgStorage.NewPool(ctx, cfg.Archive, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to receipt archive")
		}
		defer pool.Close()
		ledger = pgStorage.NewReceiptArchive(pool)
		healthCheckers = append(healthCheckers, pgStorage.NewHealthCheck(pool))
		log.Info().Msg("PostgreSQL receipt archive enabled")
	}

	// Evidence store: redis-backed, optional.
	var evidenceSvc ports.EvidenceService
	if cfg.Redis.Enabled {
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		evidenceStore := redisStorage.NewEvidenceStore(rdb)
		evidenceSvc = service.NewEvidenceService(evidenceStore, cfg.Evidence.GatewayURL, log)
		healthCheckers = append(healthCheckers, redisStorage.NewHealthCheck(rdb))
		log.Info().Msg("Redis evidence store enabled")
	} else {
		log.Warn().Msg("Redis disabled, evidence endpoints unavailable")
	}

	// Simulated collaborators
	transferClient := wallet.NewSimulatedClient(initialBalance, cfg.Wallet.AllowSimulated, log)
	identityRegistrar := registrar.NewSimulated(cfg.Registrar.EmitEvents, log)

	// Repositories
	agentRepo := memory.NewAgentRepo()

	// Core services
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	// Business services
	settlementSvc := service.NewSettlementService(
		transferClient, ledger,
		feePct, dust, cfg.Settlement.TreasuryAccount,
		log,
	)
	registrationSvc := service.NewRegistrationResolver(
		identityRegistrar,
		cfg.Registrar.PollAttempts, cfg.Registrar.PollDelay,
		log,
	)
	agentSvc := service.NewAgentService(agentRepo, registrationSvc, hashSvc, tokenSvc, log)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AgentSvc:       agentSvc,
		SettlementSvc:  settlementSvc,
		EvidenceSvc:    evidenceSvc,
		TokenSvc:       tokenSvc,
		HealthCheckers: healthCheckers,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
