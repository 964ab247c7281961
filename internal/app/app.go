package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/linkmemo/internal/config"
	"github.com/MrSnakeDoc/linkmemo/internal/httpserver"
	"github.com/MrSnakeDoc/linkmemo/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkmemo/internal/logger"
	"github.com/MrSnakeDoc/linkmemo/internal/memo"
	"github.com/MrSnakeDoc/linkmemo/internal/memofile"
	"github.com/MrSnakeDoc/linkmemo/internal/redis"
	"github.com/MrSnakeDoc/linkmemo/internal/render"
	"github.com/MrSnakeDoc/linkmemo/internal/scheduler"
	"github.com/MrSnakeDoc/linkmemo/internal/sources/labels"
	redisstore "github.com/MrSnakeDoc/linkmemo/internal/store/redis"
	"github.com/MrSnakeDoc/linkmemo/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	watcher     *memofile.Watcher
	reloader    *scheduler.FileReloader
}

// NewCodec builds the codec for the configured labels file, or the built-in
// labels when none is set.
func NewCodec(labelsFile string) (*memo.Codec, error) {
	if labelsFile == "" {
		return memo.NewCodec(memo.DefaultLabels()), nil
	}
	l, err := labels.NewLoader(labelsFile).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load labels: %w", err)
	}
	return memo.NewCodec(l), nil
}

// OpenStore builds an unloaded Store over the memo file. When create is set
// a missing file is initialized with the document header.
func OpenStore(cfg *config.Config, log logger.Logger, create bool) (*memo.Store, error) {
	codec, err := NewCodec(cfg.LabelsFile)
	if err != nil {
		return nil, err
	}

	if create {
		created, err := memofile.Create(cfg.MemoFile, codec.Header())
		if err != nil {
			return nil, fmt.Errorf("failed to create memo file: %w", err)
		}
		if created {
			log.Info("memo file created", logger.String("file", cfg.MemoFile))
		}
	}

	return memo.NewStore(memofile.New(cfg.MemoFile), codec), nil
}

func New(cfg *config.Config) (*App, error) {
	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	store, err := OpenStore(cfg, loggerClient, true)
	if err != nil {
		return nil, err
	}

	// Redis is optional: without it the capture hand-off is disabled.
	var (
		redisClient *goredis.Client
		captures    deps.CaptureQueue
	)
	if cfg.RedisEnabled() {
		redisClient, err = redis.New(context.Background(), redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
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
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient)
		if err != nil {
			loggerClient.Warn("redis unavailable, capture hand-off disabled", logger.Error(err))
		} else {
			captures = redisstore.NewStore(redisClient, cfg.CaptureTTL)
		}
	} else {
		loggerClient.Info("redis not configured, capture hand-off disabled")
	}

	var (
		watcher *memofile.Watcher
		changes <-chan struct{}
	)
	if cfg.WatchFile {
		watcher, err = memofile.NewWatcher(cfg.MemoFile, loggerClient)
		if err != nil {
			loggerClient.Warn("file watcher unavailable, relying on interval reload", logger.Error(err))
		} else {
			changes = watcher.Changes()
		}
	}

	reloadTrigger := make(chan struct{}, 1)
	reloader := scheduler.NewFileReloader(store, loggerClient, cfg.ReloadInterval, changes, reloadTrigger)

	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		TimeNow:       time.Now,
		AllowedHosts:  cfg.AllowedHosts,
		AllowedCIDRS:  cfg.AllowedCIDRS,
		TrustProxy:    cfg.TrustProxy,
		MemoFile:      cfg.MemoFile,
		Store:         store,
		Renderer:      render.New(),
		Captures:      captures,
		ReloadTrigger: reloadTrigger,
		CaptureBurst:  cfg.CaptureBurst,
		CapturePerMin: cfg.CapturePerMin,
	}

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      httpserver.New(cfg, d),
		redisClient: redisClient,
		watcher:     watcher,
		reloader:    reloader,
	}, nil
}

func (a *App) Run() error {
	defer func() { _ = a.logger.Sync() }()

	a.logger.Infof("🚀 Starting linkmemo %s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Info(version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer a.release()

	if a.watcher != nil {
		go a.watcher.Run(ctx)
	}

	if err := a.reloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start file reloader: %w", err)
	}
	a.logger.Info("file reloader started",
		logger.String("file", a.cfg.MemoFile),
		logger.Duration("interval", a.cfg.ReloadInterval),
		logger.Bool("watch", a.watcher != nil))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		a.reloader.Stop()
		return err
	}

	a.reloader.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.logger.Info("✅ linkmemo stopped cleanly")
	return nil
}

// release closes the watcher and the Redis client on every exit path of Run.
func (a *App) release() {
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			a.logger.Warn("failed to close file watcher", logger.Error(err))
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}
}
