package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/verte-zerg/typequest/internal/api"
	"github.com/verte-zerg/typequest/internal/config"
	"github.com/verte-zerg/typequest/internal/lock"
	"github.com/verte-zerg/typequest/internal/model"
	"github.com/verte-zerg/typequest/internal/service"
	"github.com/verte-zerg/typequest/internal/store"
)

const (
	defaultAddr           = ":8080"
	defaultLogLevel       = "info"
	defaultRateLimitRPS   = 5
	defaultRateLimitBurst = 10
)

var (
	serveAddr           string
	serveDriver         string
	serveDSN            string
	serveRedisAddr      string
	serveRedisPassword  string
	serveLogLevel       string
	serveRateLimitRPS   int
	serveRateLimitBurst int
	serveCORSOrigins    []string
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringVar(&serveAddr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&serveDriver, "driver", store.DriverSQLite, "storage driver: sqlite or postgres")
	cmd.Flags().StringVar(&serveDSN, "dsn", "", "SQLite path or PostgreSQL URL (default: --db)")
	cmd.Flags().StringVar(&serveRedisAddr, "redis", "", "Redis address for shared profile locks")
	cmd.Flags().StringVar(&serveRedisPassword, "redis-password", "", "Redis password")
	cmd.Flags().StringVar(&serveLogLevel, "log-level", defaultLogLevel, "log level: debug, info, warn, error")
	cmd.Flags().IntVar(&serveRateLimitRPS, "rate-limit-rps", defaultRateLimitRPS, "POST requests per second per client (0 disables)")
	cmd.Flags().IntVar(&serveRateLimitBurst, "rate-limit-burst", defaultRateLimitBurst, "POST burst per client")
	cmd.Flags().StringSliceVar(&serveCORSOrigins, "cors-origins", []string{"*"}, "allowed CORS origins")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadServerConfig(cmd)
	if err != nil {
		return err
	}
	if err := validateServerConfig(cfg); err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("--timezone: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := store.OpenDriver(ctx, cfg.Driver, cfg.DSN)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.Driver, err)
	}
	defer closeStore(repo)

	locker, closeLocker, err := newLocker(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeLocker()

	svc := service.New(repo, service.Options{
		Locker:   locker,
		Logger:   logger,
		Location: loc,
	})
	srv := api.NewServer(api.Config{
		Addr:           cfg.Addr,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		CORSOrigins:    cfg.CORSOrigins,
	}, svc, logger)

	logger.Info("starting typequest api",
		zap.String("addr", cfg.Addr),
		zap.String("driver", cfg.Driver),
		zap.String("timezone", loc.String()),
		zap.Bool("redis_locks", cfg.RedisAddr != ""),
	)
	return srv.ListenAndServe(ctx)
}

// loadServerConfig merges defaults, the [server] table, TYPEQUEST_* variables
// and flags, in increasing precedence.
func loadServerConfig(cmd *cobra.Command) (model.ServerConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.ServerConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	sc := fileCfg.Server
	if err := sc.ApplyEnv(os.LookupEnv); err != nil {
		return model.ServerConfig{}, err
	}
	applyStringConfig(cmd, "addr", &serveAddr, sc.Addr)
	applyStringConfig(cmd, "driver", &serveDriver, sc.Driver)
	applyStringConfig(cmd, "dsn", &serveDSN, sc.DSN)
	applyStringConfig(cmd, "redis", &serveRedisAddr, sc.RedisAddr)
	applyStringConfig(cmd, "redis-password", &serveRedisPassword, sc.RedisPassword)
	applyStringConfig(cmd, "timezone", &practiceTimezone, sc.Timezone)
	applyStringConfig(cmd, "log-level", &serveLogLevel, sc.LogLevel)
	applyIntConfig(cmd, "rate-limit-rps", &serveRateLimitRPS, sc.RateLimitRPS)
	applyIntConfig(cmd, "rate-limit-burst", &serveRateLimitBurst, sc.RateLimitBurst)
	if len(sc.CORSOrigins) > 0 && !cmd.Flags().Changed("cors-origins") {
		serveCORSOrigins = sc.CORSOrigins
	}

	dsn := serveDSN
	if dsn == "" && serveDriver == store.DriverSQLite {
		dsn = practiceDB
		if dsn == "" {
			dsn = config.DefaultDBPath()
		}
	}
	return model.ServerConfig{
		Addr:           serveAddr,
		Driver:         serveDriver,
		DSN:            dsn,
		RedisAddr:      serveRedisAddr,
		RedisPassword:  serveRedisPassword,
		Timezone:       practiceTimezone,
		LogLevel:       serveLogLevel,
		RateLimitRPS:   serveRateLimitRPS,
		RateLimitBurst: serveRateLimitBurst,
		CORSOrigins:    serveCORSOrigins,
	}, nil
}

func validateServerConfig(cfg model.ServerConfig) error {
	if cfg.Addr == "" {
		return fmt.Errorf("--addr must not be empty")
	}
	switch cfg.Driver {
	case store.DriverSQLite, store.DriverPostgres:
	default:
		return fmt.Errorf("--driver must be sqlite or postgres")
	}
	if cfg.DSN == "" {
		return fmt.Errorf("--dsn is required for driver %s", cfg.Driver)
	}
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("--rate-limit-rps must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("--rate-limit-burst must be >= 0")
	}
	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	return nil
}

// newLogger builds a JSON production logger, or a console logger at debug.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("--log-level: %w", err)
	}
	zcfg := zap.NewProductionConfig()
	if lvl == zapcore.DebugLevel {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// newLocker returns a Redis lock when an address is configured and an
// in-process lock otherwise.
func newLocker(ctx context.Context, cfg model.ServerConfig, logger *zap.Logger) (lock.Locker, func(), error) {
	if cfg.RedisAddr == "" {
		return lock.NewLocal(), func() {}, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	closeFn := func() {
		if err := rdb.Close(); err != nil {
			logger.Warn("failed to close redis client", zap.Error(err))
		}
	}
	return lock.NewRedis(rdb, lock.RedisOptions{}), closeFn, nil
}
