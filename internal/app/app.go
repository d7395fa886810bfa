package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/eallion/cloudnav/internal/config"
	"github.com/eallion/cloudnav/internal/httpserver"
	"github.com/eallion/cloudnav/internal/httpserver/deps"
	"github.com/eallion/cloudnav/internal/logger"
	"github.com/eallion/cloudnav/internal/redis"
	"github.com/eallion/cloudnav/internal/scheduler"
	"github.com/eallion/cloudnav/internal/seed"
	"github.com/eallion/cloudnav/internal/store"
	"github.com/eallion/cloudnav/internal/store/memory"
	redisstore "github.com/eallion/cloudnav/internal/store/redis"
	"github.com/eallion/cloudnav/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	backupper   *scheduler.Backupper
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	var kv store.KV
	var redisClient *goredis.Client
	if cfg.RedisAddr != "" {
		client, err := redis.Connect(redis.Options{
			Addr:           cfg.RedisAddr,
			Username:       cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
		}, loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		redisClient = client
		kv = redisstore.NewStore(client)
	} else {
		loggerClient.Warn("no redis configured, using in-memory store (data is lost on restart)")
		kv = memory.NewStore()
	}

	// Seed an empty store so first boot serves a usable collection.
	if err := seed.Ensure(context.Background(), kv, cfg.SeedFile, loggerClient); err != nil {
		loggerClient.Errorf("Failed to seed storage: %v", err)
		os.Exit(1)
	}

	var backupper *scheduler.Backupper
	var backupTrigger chan struct{}
	if cfg.BackupEnabled {
		backupTrigger = make(chan struct{}, 1)
		backupper = scheduler.NewBackupper(
			kv,
			loggerClient,
			cfg.BackupInterval,
			cfg.BackupRetention,
			backupTrigger,
		)
	} else {
		loggerClient.Info("periodic backups disabled")
	}

	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		TimeNow:       time.Now,
		Store:         kv,
		AuthPassword:  cfg.AuthPassword,
		FaviconTTL:    cfg.FaviconTTL,
		BackupTrigger: backupTrigger,
		TrustProxy:    cfg.TrustProxy,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		backupper:   backupper,
	}
}

func (a *App) Run() error {
	a.logger.Infof("Starting cloudnav %s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("cloudnav %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.backupper != nil {
		if err := a.backupper.Start(ctx); err != nil {
			return fmt.Errorf("failed to start backupper: %w", err)
		}
		a.logger.Info("backup scheduler started",
			logger.Duration("interval", a.cfg.BackupInterval))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	if a.backupper != nil {
		a.backupper.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		}
	}

	a.logger.Info("cloudnav stopped cleanly")
	return nil
}
