package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	pb "github.com/godilite/histogram-browser/api/v1"
	"github.com/godilite/histogram-browser/internal/config"
	"github.com/godilite/histogram-browser/internal/fetch"
	handler "github.com/godilite/histogram-browser/internal/grpc"
	"github.com/godilite/histogram-browser/internal/histogram"
	"github.com/godilite/histogram-browser/internal/repository"
	"github.com/godilite/histogram-browser/internal/sharegate"
	"github.com/godilite/histogram-browser/internal/widget"
	"github.com/godilite/histogram-browser/pkg/cache"
	dbbuilder "github.com/godilite/histogram-browser/pkg/database"
	grpcsrv "github.com/godilite/histogram-browser/pkg/grpc/server"

	"go.uber.org/zap"
	"google.golang.org/grpc"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	logger     *zap.Logger
	closers    []namedCloser
	grpcServer *grpcsrv.Server
	handlers   *handler.GRPCHandlers
}

type namedCloser struct {
	name  string
	close func() error
}

// NewApp wires the histogram browser service. serverOpts are applied after
// the configured ones.
func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger, serverOpts ...grpcsrv.Option) (*App, error) {
	a := &App{logger: logger}

	kv, err := a.openPreferenceStore(ctx, cfg)
	if err != nil {
		a.closeAll()
		return nil, err
	}

	fetcher, err := fetch.New(
		fetch.WithBaseURL(cfg.HistogramBaseURL),
		fetch.WithTimeout(cfg.HistogramFetchTimeout),
		fetch.WithLogger(logger),
	)
	if err != nil {
		a.closeAll()
		return nil, fmt.Errorf("histogram client init failed: %w", err)
	}
	logger.Info("Histogram client initialized", zap.String("base_url", cfg.HistogramBaseURL))

	widgetCfg := widget.Config{
		SelectColumnGrid:      cfg.SelectColumnGrid,
		ShareGuideInNewWindow: cfg.ShareGuideInNewWindow,
		Locale:                histogram.LocaleByName(cfg.HistogramLocale),
	}

	factory := func(ctx context.Context, session string) (handler.Browser, error) {
		sessionLogger := logger.With(zap.String("session", session))
		gate := sharegate.New(
			sharegate.NewKVStore(kv, sharegate.ScopedKey(session)),
			sharegate.WithLogger(sessionLogger),
		)
		return widget.New(fetcher, gate,
			widget.WithConfig(widgetCfg),
			widget.WithLogger(sessionLogger),
		), nil
	}
	a.handlers = handler.NewGRPCHandlers(factory, logger, cfg.SessionIdleTTL)

	opts := append([]grpcsrv.Option{
		grpcsrv.WithPort(cfg.GRPCPort),
		grpcsrv.WithLogger(logger),
		grpcsrv.WithReflection(cfg.GRPCReflectionEnabled),
		grpcsrv.WithLogging(cfg.GRPCLoggingEnabled),
	}, serverOpts...)

	a.grpcServer, err = grpcsrv.New(opts...)
	if err != nil {
		a.closeAll()
		return nil, fmt.Errorf("failed to create gRPC server: %w", err)
	}

	a.grpcServer.RegisterServiceWithHealth(pb.ServiceName, func(s *grpc.Server) {
		pb.RegisterHistogramBrowserServer(s, a.handlers)
	})

	return a, nil
}

// openPreferenceStore returns the key/value backend of the share gates.
func (a *App) openPreferenceStore(ctx context.Context, cfg *config.Config) (sharegate.KeyValue, error) {
	switch cfg.GateStore {
	case config.GateStoreMemory:
		a.logger.Warn("share gate state is kept in memory only")
		return sharegate.NewMemoryKeyValue(), nil

	case config.GateStoreRedis:
		cacheClient, err := cache.New(ctx,
			cache.WithAddress(cfg.RedisAddr),
		)
		if err != nil {
			return nil, fmt.Errorf("cache init failed: %w", err)
		}
		a.closers = append(a.closers, namedCloser{"cache", cacheClient.Close})
		a.logger.Info("Cache client initialized", zap.String("addr", cfg.RedisAddr))
		return cacheClient, nil

	case config.GateStoreSQLite, "":
		if cfg.DBPath != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
				return nil, fmt.Errorf("database directory: %w", err)
			}
		}
		dbPool, err := dbbuilder.New(
			dbbuilder.WithDriver(cfg.DBDriver),
			dbbuilder.WithDataSource(cfg.DBPath),
			dbbuilder.WithSchema(repository.PreferencesSchema),
		)
		if err != nil {
			return nil, fmt.Errorf("database init failed: %w", err)
		}
		a.closers = append(a.closers, namedCloser{"database", dbPool.Close})
		a.logger.Info("Database pool initialized", zap.String("path", cfg.DBPath))
		return repository.NewPreferenceRepository(dbPool), nil

	default:
		return nil, fmt.Errorf("unknown gate store %q", cfg.GateStore)
	}
}

// Start serves requests in the background.
func (a *App) Start() {
	a.logger.Info("application starting")
	a.grpcServer.Start()
}

// Shutdown stops the server and releases the stores.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("application shutting down")

	err := a.grpcServer.Shutdown(ctx)
	if err != nil {
		a.logger.Warn("shutdown completed but deadline exceeded", zap.Error(err))
	}
	a.closeAll()
	return err
}

// Run starts the application and blocks until a shutdown signal is received.
func (a *App) Run() error {
	a.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.Shutdown(ctx); err == nil {
		a.logger.Info("graceful shutdown completed successfully")
	}

	_ = a.logger.Sync()
	return nil
}

func (a *App) closeAll() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.close(); err != nil {
			a.logger.Error(c.name+" shutdown error", zap.Error(err))
		}
	}
	a.closers = nil
}
