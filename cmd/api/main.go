// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

// Command api is the entry point for the Trust Name Service HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Initialize the JWT token service.
//  7. Connect to the Intuition RPC endpoint and bind contracts.
//  8. Wire repositories, services, and HTTP handlers.
//  9. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/tnslabs/trustns/internal/api"
	"github.com/tnslabs/trustns/internal/chain"
	"github.com/tnslabs/trustns/internal/core/agents"
	"github.com/tnslabs/trustns/internal/core/auth"
	"github.com/tnslabs/trustns/internal/core/domains"
	"github.com/tnslabs/trustns/internal/core/records"
	"github.com/tnslabs/trustns/internal/core/registration"
	"github.com/tnslabs/trustns/internal/core/sync"
	"github.com/tnslabs/trustns/internal/platform/config"
	"github.com/tnslabs/trustns/internal/platform/constants"
	"github.com/tnslabs/trustns/internal/platform/migration"
	pgstore "github.com/tnslabs/trustns/internal/platform/postgres"
	redisstore "github.com/tnslabs/trustns/internal/platform/redis"
	"github.com/tnslabs/trustns/internal/platform/sec"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "tns"))
	slog.SetDefault(log)

	log.Info("[TNS] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "tns"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Int64("chain_id", cfg.ChainID),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Token Service ──────────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	// ── 7. Chain Gateway & Contract Bindings ──────────────────────────────
	provider, err := chain.NewRPCProvider(startupCtx, cfg.ChainRPCURL)
	must(log, err, "connect to chain rpc")

	gateway := chain.NewGateway(provider, log,
		time.Duration(cfg.ReceiptPollIntervalMs)*time.Millisecond,
		cfg.ReceiptPollAttempts,
	)

	controller := chain.NewController(common.HexToAddress(cfg.ControllerAddress), gateway)
	registrar := chain.NewBaseRegistrar(common.HexToAddress(cfg.BaseRegistrarAddress), gateway)
	resolver := chain.NewResolver(common.HexToAddress(cfg.ResolverAddress), gateway)
	reverse := chain.NewReverseRegistrar(common.HexToAddress(cfg.ReverseRegistrarAddress), gateway)
	multiVault := chain.NewMultiVault(common.HexToAddress(cfg.MultiVaultAddress), gateway)

	metadata := chain.Metadata{
		ChainID:        cfg.ChainIDBig(),
		Name:           cfg.ChainName,
		CurrencyName:   cfg.ChainCurrency,
		CurrencySymbol: cfg.ChainCurrency,
		RPCURL:         cfg.ChainRPCURL,
		ExplorerURL:    cfg.ChainExplorerURL,
	}

	walletSession := chain.NewSession(provider, metadata, chain.NewRedisFlagStore(rdb), log)

	// ── 8. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	walletState, walletConnect, walletDisconnect := api.NewWalletHandlers(walletSession, log)

	// ── 9. Domain Wiring ──────────────────────────────────────────────────
	domainRepository := domains.NewPostgresRepository(pool)
	domainService := domains.NewService(domainRepository, controller, registrar, metadata, log)
	domainHandler := domains.NewHandler(domainService)

	registrationRepository := registration.NewPostgresRepository(pool)
	registrationService := registration.NewService(registrationRepository, domainRepository, controller, registrar, log)
	registrationHandler := registration.NewHandler(registrationService)

	recordRepository := records.NewPostgresRepository(pool)
	recordService := records.NewService(recordRepository, resolver, reverse, registrar, log)
	recordHandler := records.NewHandler(recordService)

	syncRepository := sync.NewPostgresRepository(pool)
	syncService := sync.NewService(syncRepository, domainRepository, multiVault,
		sync.NewRedisCostCache(rdb), cfg.DefaultAtomCost(), log)
	syncHandler := sync.NewHandler(syncService)

	agentRepository := agents.NewPostgresRepository(pool)
	agentService := agents.NewService(agentRepository, domainRepository, registrar, log)
	agentHandler := agents.NewHandler(agentService)

	authService := auth.NewService(auth.NewRedisNonceStore(rdb), jwtSvc, log)
	authHandler := auth.NewHandler(authService)

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:         liveness,
		Readiness:        readiness,
		WalletState:      walletState,
		WalletConnect:    walletConnect,
		WalletDisconnect: walletDisconnect,
		Auth:             authHandler,
		Domains:          domainHandler,
		Registration:     registrationHandler,
		Records:          recordHandler,
		Sync:             syncHandler,
		Agents:           agentHandler,
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, jwtSvc, handlers)

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
