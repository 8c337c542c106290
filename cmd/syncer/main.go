package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goodnatureofminers/blockmirror/internal/metrics"
	"github.com/goodnatureofminers/blockmirror/internal/mirror/model"
	redispub "github.com/goodnatureofminers/blockmirror/internal/mirror/publish/redis"
	"github.com/goodnatureofminers/blockmirror/internal/mirror/repository/postgres"
	"github.com/goodnatureofminers/blockmirror/internal/mirror/service/ingester"
	"github.com/goodnatureofminers/blockmirror/internal/mirror/source"
	"github.com/goodnatureofminers/blockmirror/internal/pkg/btcd/rpcclient"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type config struct {
	PostgresDSN     string                 `long:"postgres-dsn" env:"SYNCER_POSTGRES_DSN" description:"PostgreSQL DSN" required:"true"`
	Network         model.Network          `long:"network" env:"SYNCER_NETWORK" description:"network name" default:"mainnet"`
	RPCURL          string                 `long:"rpc-url" env:"SYNCER_RPC_URL" description:"Bitcoin RPC URL" default:"http://127.0.0.1:8332"`
	RPCUser         string                 `long:"rpc-user" env:"SYNCER_RPC_USER" description:"Bitcoin RPC username"`
	RPCPassword     string                 `long:"rpc-password" env:"SYNCER_RPC_PASSWORD" description:"Bitcoin RPC password"`
	RPCTimeout      time.Duration          `long:"rpc-timeout" env:"SYNCER_RPC_TIMEOUT" description:"timeout for a single RPC call" default:"30s"`
	RPCMinInterval  time.Duration          `long:"rpc-min-interval" env:"SYNCER_RPC_MIN_INTERVAL" description:"minimum delay between RPC calls" default:"100ms"`
	StartHeight     uint64                 `long:"start-height" env:"SYNCER_START_HEIGHT" description:"first height to mirror into an empty store" default:"0"`
	OnFailure       ingester.FailurePolicy `long:"on-failure" env:"SYNCER_ON_FAILURE" description:"what to do with a height that fails (abort or skip)" default:"abort"`
	MaxReorgDepth   uint64                 `long:"max-reorg-depth" env:"SYNCER_MAX_REORG_DEPTH" description:"deepest fork search before giving up, 0 searches down to the start height"`
	PollInterval    time.Duration          `long:"poll-interval" env:"SYNCER_POLL_INTERVAL" description:"pause between rounds once caught up" default:"10s"`
	RoundSize       uint64                 `long:"round-size" env:"SYNCER_ROUND_SIZE" description:"maximum heights per follow round" default:"1000"`
	Once            bool                   `long:"once" env:"SYNCER_ONCE" description:"run a single sync up to the tip and exit"`
	SyncFrom        *uint64                `long:"sync-from" description:"with --once, start at this height instead of the checkpoint"`
	MaxBlocks       uint64                 `long:"max-blocks" description:"with --once, stop after this many heights"`
	MetricsAddr     string                 `long:"metrics-addr" env:"SYNCER_METRICS_ADDR" description:"address for metrics server" default:":2112"`
	RedisURL        string                 `long:"redis-url" env:"SYNCER_REDIS_URL" description:"Redis URL for reorg notifications, empty disables them"`
	ZMQAddr         string                 `long:"zmq-addr" env:"SYNCER_ZMQ_ADDR" description:"node ZMQ hashblock endpoint (zmq builds only)"`
	PostgresMaxConn int32                  `long:"postgres-max-conns" env:"SYNCER_POSTGRES_MAX_CONNS" description:"PostgreSQL pool size" default:"4"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("failed to load .env", zap.Error(err))
	}

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if err := run(ctx, cfg, logger.With(zap.String("network", string(cfg.Network)))); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("syncer stopped")
			return
		}
		logger.Fatal("syncer failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	startMetricsServer(ctx, cfg.MetricsAddr, logger)

	repo, err := postgres.NewRepository(ctx, cfg.PostgresDSN, metrics.NewPostgresRepository(cfg.Network),
		postgres.WithMaxConns(cfg.PostgresMaxConn))
	if err != nil {
		return fmt.Errorf("init repository: %w", err)
	}
	defer repo.Close()

	rpcClient, err := rpcclient.Dial(cfg.RPCURL, cfg.RPCUser, cfg.RPCPassword)
	if err != nil {
		return fmt.Errorf("init rpc client: %w", err)
	}
	defer rpcClient.Close()

	caller := source.NewRPCClient(rpcClient, metrics.NewRPCClient(cfg.Network), cfg.RPCTimeout, cfg.RPCMinInterval)
	node, err := source.NewNode(caller, cfg.Network)
	if err != nil {
		return fmt.Errorf("init node: %w", err)
	}

	var publisher ingester.EventPublisher
	if cfg.RedisURL != "" {
		redisPublisher, err := redispub.NewPublisher(cfg.RedisURL, cfg.Network, metrics.NewRedisPublisher(cfg.Network), 0)
		if err != nil {
			return fmt.Errorf("init redis publisher: %w", err)
		}
		defer func() {
			if err := redisPublisher.Close(); err != nil {
				logger.Warn("failed to close redis publisher", zap.Error(err))
			}
		}()
		if err := redisPublisher.Ping(ctx); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		publisher = redisPublisher
	}

	blockSignal, err := startBlockSignal(ctx, cfg.ZMQAddr, logger)
	if err != nil {
		return fmt.Errorf("init block signal: %w", err)
	}

	detector := ingester.NewReorgDetector(node, repo, cfg.StartHeight, cfg.MaxReorgDepth, logger)
	pipeline := ingester.NewPipeline(node, repo, detector, logger)
	svc, err := ingester.NewSyncService(
		pipeline,
		node,
		repo,
		metrics.NewSyncer(cfg.Network),
		publisher,
		ingester.SyncConfig{
			StartHeight:  cfg.StartHeight,
			Policy:       cfg.OnFailure,
			PollInterval: cfg.PollInterval,
			RoundSize:    cfg.RoundSize,
		},
		logger,
		blockSignal,
	)
	if err != nil {
		return err
	}

	if !cfg.Once {
		return svc.Run(ctx)
	}

	result, err := svc.Sync(ctx, ingester.SyncRequest{StartHeight: cfg.SyncFrom, MaxBlocks: cfg.MaxBlocks})
	if err != nil {
		return err
	}
	if len(result.Skipped) > 0 {
		logger.Warn("heights skipped, rerun with --sync-from to backfill", zap.Uint64s("heights", result.Skipped))
	}
	return nil
}

func startMetricsServer(ctx context.Context, addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           metrics.InstrumentHTTP(mux),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("starting metrics server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown metrics server", zap.Error(err))
		}
	}()
}
