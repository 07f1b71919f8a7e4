package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KromaEnergia/teamsheet-api/internal/app"
	"github.com/KromaEnergia/teamsheet-api/internal/auth"
	"github.com/KromaEnergia/teamsheet-api/internal/cache"
	"github.com/KromaEnergia/teamsheet-api/internal/config"
	"github.com/KromaEnergia/teamsheet-api/internal/logging"
	"github.com/KromaEnergia/teamsheet-api/internal/notify"
	"github.com/KromaEnergia/teamsheet-api/internal/storage"
	"github.com/KromaEnergia/teamsheet-api/internal/utils/db"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	database, err := db.Open(ctx, cfg)
	if err != nil {
		log.Fatal("database connection:", err)
	}
	if err := app.Migrate(database); err != nil {
		log.Fatal("migrate:", err)
	}

	c, err := cache.New(ctx, cache.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      cfg.CacheTTL,
	})
	if err != nil {
		logging.Warn("redis unavailable, caching disabled", map[string]interface{}{"error": err.Error()})
		c = nil
	}

	archiver, err := storage.NewS3Archiver(ctx, cfg.ExportBucket, cfg.AWSRegion)
	if err != nil {
		log.Fatal("s3 archiver:", err)
	}

	handler, err := app.NewRouter(app.Deps{
		AppName:        cfg.AppName,
		DB:             database,
		Tokens:         auth.NewTokens(cfg.SecretKey, cfg.AccessTTL, cfg.RefreshTTL),
		Cache:          c,
		Archiver:       archiver,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		LoginRateLimit: cfg.LoginRateLimit,
		Alerts:         notify.NewWebhook(cfg.NotifyWebhookURL),
	})
	if err != nil {
		log.Fatal("router:", err)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info("server listening", map[string]interface{}{"addr": cfg.HTTPAddr, "app": cfg.AppName, "db_driver": cfg.DBDriver})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server:", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("shutdown", map[string]interface{}{"error": err.Error()})
	}
	logging.Info("server stopped", nil)
}
