package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goodnatureofminers/blockmirror/internal/metrics"
	"github.com/goodnatureofminers/blockmirror/internal/mirror/archive/clickhouse"
	"github.com/goodnatureofminers/blockmirror/internal/mirror/model"
	redispub "github.com/goodnatureofminers/blockmirror/internal/mirror/publish/redis"
	"github.com/goodnatureofminers/blockmirror/internal/mirror/repository/postgres"
	"github.com/goodnatureofminers/blockmirror/internal/mirror/service/auditor"
	"github.com/goodnatureofminers/blockmirror/internal/mirror/source"
	"github.com/goodnatureofminers/blockmirror/internal/pkg/btcd/rpcclient"
	"github.com/goodnatureofminers/blockmirror/internal/transport"
	"github.com/goodnatureofminers/blockmirror/pkg/batcher"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type config struct {
	PostgresDSN    string        `long:"postgres-dsn" env:"AUDITOR_POSTGRES_DSN" description:"PostgreSQL DSN of the mirror" required:"true"`
	Network        model.Network `long:"network" env:"AUDITOR_NETWORK" description:"network name" default:"mainnet"`
	RPCURL         string        `long:"rpc-url" env:"AUDITOR_RPC_URL" description:"Bitcoin RPC URL" default:"http://127.0.0.1:8332"`
	RPCUser        string        `long:"rpc-user" env:"AUDITOR_RPC_USER" description:"Bitcoin RPC username"`
	RPCPassword    string        `long:"rpc-password" env:"AUDITOR_RPC_PASSWORD" description:"Bitcoin RPC password"`
	RPCTimeout     time.Duration `long:"rpc-timeout" env:"AUDITOR_RPC_TIMEOUT" description:"timeout for a single RPC call" default:"30s"`
	RPCMinInterval time.Duration `long:"rpc-min-interval" env:"AUDITOR_RPC_MIN_INTERVAL" description:"minimum delay between RPC calls" default:"100ms"`
	StartHeight    uint64        `long:"start-height" env:"AUDITOR_START_HEIGHT" description:"lowest height the mirror holds" default:"0"`
	WindowSize     uint64        `long:"window-size" env:"AUDITOR_WINDOW_SIZE" description:"number of trailing heights to audit" default:"100"`
	Interval       time.Duration `long:"interval" env:"AUDITOR_INTERVAL" description:"pause between audits" default:"10m"`
	Concurrency    int           `long:"concurrency" env:"AUDITOR_CONCURRENCY" description:"parallel header fetches" default:"4"`
	Once           bool          `long:"once" env:"AUDITOR_ONCE" description:"run a single audit, print the report and exit"`
	HTTPAddr       string        `long:"http-addr" env:"AUDITOR_HTTP_ADDR" description:"address for the report and metrics server" default:":8080"`
	ClickhouseDSN  string        `long:"clickhouse-dsn" env:"AUDITOR_CLICKHOUSE_DSN" description:"ClickHouse DSN for the audit archive, empty disables it"`
	ArchiveBatch   int           `long:"archive-batch" env:"AUDITOR_ARCHIVE_BATCH" description:"reports per archive insert" default:"1"`
	ArchiveFlush   time.Duration `long:"archive-flush" env:"AUDITOR_ARCHIVE_FLUSH" description:"maximum delay before archiving buffered reports" default:"1m"`
	RedisURL       string        `long:"redis-url" env:"AUDITOR_REDIS_URL" description:"Redis URL for audit notifications, empty disables them"`
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
			logger.Info("auditor stopped")
			return
		}
		logger.Fatal("auditor failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	repo, err := postgres.NewRepository(ctx, cfg.PostgresDSN, metrics.NewPostgresRepository(cfg.Network),
		postgres.WithReadOnly(), postgres.WithMaxConns(2))
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

	auditCfg := auditor.Config{
		StartHeight: cfg.StartHeight,
		WindowSize:  cfg.WindowSize,
		Interval:    cfg.Interval,
		Concurrency: cfg.Concurrency,
	}

	if cfg.Once {
		svc, err := auditor.NewAuditor(repo, node, metrics.NewAuditor(cfg.Network), nil, nil, auditCfg, logger)
		if err != nil {
			return err
		}
		report, err := svc.Audit(ctx, cfg.WindowSize)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	var archive auditor.ReportArchive
	if cfg.ClickhouseDSN != "" {
		chArchive, err := clickhouse.NewArchive(cfg.ClickhouseDSN, cfg.Network, metrics.NewClickhouseArchive(cfg.Network),
			batcher.Config{Size: cfg.ArchiveBatch, Interval: cfg.ArchiveFlush}, logger)
		if err != nil {
			return fmt.Errorf("init clickhouse archive: %w", err)
		}
		chArchive.Start(ctx)
		defer func() {
			if err := chArchive.Close(); err != nil {
				logger.Warn("failed to close clickhouse archive", zap.Error(err))
			}
		}()
		archive = chArchive
	}

	var (
		publisher auditor.ReportPublisher
		events    transport.EventSource
	)
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
		events = redisPublisher
	}

	svc, err := auditor.NewAuditor(repo, node, metrics.NewAuditor(cfg.Network), archive, publisher, auditCfg, logger)
	if err != nil {
		return err
	}

	startHTTPServer(ctx, cfg.HTTPAddr, transport.NewReportHandler(svc, events, logger), logger)

	return svc.Run(ctx)
}

func startHTTPServer(ctx context.Context, addr string, handler *transport.ReportHandler, logger *zap.Logger) {
	mux := http.NewServeMux()
	handler.Register(mux)
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           metrics.InstrumentHTTP(cors.Default().Handler(mux)),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}

	go func() {
		logger.Info("starting http server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown http server", zap.Error(err))
		}
	}()
}
