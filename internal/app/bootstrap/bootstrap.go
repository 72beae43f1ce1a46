package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	giftpurchase "votegala/contexts/contest-core/gift-purchase"
	giftpostgres "votegala/contexts/contest-core/gift-purchase/adapters/postgres"
	giftredis "votegala/contexts/contest-core/gift-purchase/adapters/redis"
	"votegala/contexts/contest-core/gift-purchase/adapters/wechat"
	giftcommands "votegala/contexts/contest-core/gift-purchase/application/commands"
	votingengine "votegala/contexts/contest-core/voting-engine"
	votingpostgres "votegala/contexts/contest-core/voting-engine/adapters/postgres"
	votingredis "votegala/contexts/contest-core/voting-engine/adapters/redis"
	"votegala/internal/platform/cache"
	"votegala/internal/platform/config"
	"votegala/internal/platform/db"
	"votegala/internal/platform/httpserver"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	redis    *cache.Redis
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres      *db.Postgres
	redis         *cache.Redis
	gifts         giftpurchase.Module
	sweepInterval time.Duration
	logger        *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")

	pg, rd, voting, gifts, err := buildModules(cfg, logger)
	if err != nil {
		return nil, err
	}

	server := httpserver.New(voting, gifts, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		redis:    rd,
		logger:   logger,
	}, nil
}

func (a *APIApp) Run() error {
	defer a.Close()
	return a.server.Start()
}

func (a *APIApp) Close() {
	if err := a.redis.Close(); err != nil {
		a.logger.Warn("redis close failed", "error", err.Error())
	}
	if err := a.postgres.Close(); err != nil {
		a.logger.Warn("postgres close failed", "error", err.Error())
	}
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")

	if !cfg.EnableStageSweeper {
		return nil, errors.New("stage sweeper is disabled; worker has nothing to run")
	}

	pg, rd, _, gifts, err := buildModules(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &WorkerApp{
		postgres:      pg,
		redis:         rd,
		gifts:         gifts,
		sweepInterval: cfg.SweepInterval,
		logger:        logger,
	}, nil
}

func (w *WorkerApp) Run(ctx context.Context) {
	defer func() {
		_ = w.redis.Close()
		_ = w.postgres.Close()
	}()
	w.logger.Info("stage sweeper starting",
		"event", "worker_sweeper_starting",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"interval", w.sweepInterval.String(),
	)
	w.gifts.Sweeper.RunEvery(ctx, w.sweepInterval)
}

func buildModules(cfg config.Config, logger *slog.Logger) (*db.Postgres, *cache.Redis, votingengine.Module, giftpurchase.Module, error) {
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, nil, votingengine.Module{}, giftpurchase.Module{}, errors.New("POSTGRES_DSN is required")
	}
	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, nil, votingengine.Module{}, giftpurchase.Module{}, err
	}
	rd, err := cache.Connect(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		_ = pg.Close()
		return nil, nil, votingengine.Module{}, giftpurchase.Module{}, err
	}

	ledgerRepo := votingpostgres.NewRepository(pg.DB, logger)
	giftRepo := giftpostgres.NewRepository(pg.DB, logger)
	if err := ledgerRepo.AutoMigrate(); err != nil {
		_ = rd.Close()
		_ = pg.Close()
		return nil, nil, votingengine.Module{}, giftpurchase.Module{}, err
	}
	if err := giftRepo.AutoMigrate(); err != nil {
		_ = rd.Close()
		_ = pg.Close()
		return nil, nil, votingengine.Module{}, giftpurchase.Module{}, err
	}

	voting := votingengine.NewModule(votingengine.Dependencies{
		Ledger:       ledgerRepo,
		DailyGate:    votingredis.NewDailyVoteGate(rd.Client),
		Clock:        votingpostgres.SystemClock{},
		IDGen:        votingpostgres.UUIDGenerator{},
		DailyGateTTL: 24 * time.Hour,
		Logger:       logger,
	})

	gateway := wechat.NewGateway(wechat.Config{
		AppID:     cfg.WechatAppID,
		MchID:     cfg.WechatMchID,
		APIKey:    cfg.WechatAPIKey,
		NotifyURL: cfg.WechatNotifyURL,
		ClientIP:  cfg.WechatClientIP,
	})

	gifts := giftpurchase.NewModule(giftpurchase.Dependencies{
		Gifts:      giftRepo,
		Candidates: candidateDirectory{ledger: voting},
		Staging:    giftredis.NewStagingStore(rd.Client),
		PaymentGW:  gateway,
		Committer:  voteCommitter{ledger: voting},
		Clock:      giftpostgres.SystemClock{},
		IDGen:      giftpostgres.UUIDGenerator{},
		TradeNos:   giftpostgres.TradeNoGenerator{},
		StageTTL:   giftcommands.StageTTL,
		SweepAge:   cfg.SweepMinAge,
		Logger:     logger,
	})

	return pg, rd, voting, gifts, nil
}

func normalizeAddr(port string) string {
	port = strings.TrimSpace(port)
	if port == "" {
		return ":8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}
