package cmd

import (
	"context"
	"embed"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/PauloHFS/blog/internal/config"
	"github.com/PauloHFS/blog/internal/db"
	"github.com/PauloHFS/blog/internal/logging"
	"github.com/PauloHFS/blog/internal/middleware"
	"github.com/PauloHFS/blog/internal/routes"
	"github.com/PauloHFS/blog/internal/telemetry"
	"github.com/PauloHFS/blog/internal/web"
)

func RunServer(assetsFS embed.FS) {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	logging.Init()
	logger := logging.Get()

	shutdownTracing, err := telemetry.Init(context.Background(), cfg)
	if err != nil {
		logger.Error("failed to init telemetry", "error", err)
		panic(err)
	}

	// 1. DB (Hardening para Produção)
	dbConn, err := openDB(cfg)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		panic(err)
	}
	defer dbConn.Close()

	if err := db.RunMigrations(context.Background(), dbConn); err != nil {
		logger.Error("failed to run migrations", "error", err)
		panic(err)
	}

	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.New(dbConn)
	sessionManager.Lifetime = cfg.SessionLifetime
	sessionManager.Cookie.HttpOnly = true
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode
	sessionManager.Cookie.Secure = cfg.IsProd()

	deps := web.NewHandlerDeps(dbConn, sessionManager, cfg)

	mux := http.NewServeMux()
	mux.Handle("GET /assets/", middleware.Route(http.StripPrefix("/assets/", http.FileServer(http.FS(assetsFS)))))
	mux.Handle("GET "+routes.Metrics, middleware.Route(promhttp.Handler()))

	// Registrar handlers de negócio
	web.RegisterRoutes(mux, deps)

	handler := middleware.Recovery(
		middleware.Logger(
			middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst)(
				middleware.SecurityHeaders(cfg.IsProd())(
					middleware.Locale(
						sessionManager.LoadAndSave(
							middleware.Authenticate(sessionManager, deps.Queries)(
								middleware.CSRF(cfg.IsProd(), mux),
							),
						),
					),
				),
			),
		),
	)

	compressedHandler := gzhttp.GzipHandler(handler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           compressedHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server started", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	logger.Info("server stopping")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	if err := shutdownTracing(ctx); err != nil {
		logger.Error("failed to flush traces", "error", err)
	}

	logger.Info("server exited properly")
}
