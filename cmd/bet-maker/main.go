package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	bmcache "github.com/radieske/bet-maker/internal/bet-maker/cache"
	"github.com/radieske/bet-maker/internal/bet-maker/engine"
	bmhttp "github.com/radieske/bet-maker/internal/bet-maker/http"
	kpub "github.com/radieske/bet-maker/internal/bet-maker/producer"
	"github.com/radieske/bet-maker/internal/bet-maker/provider"
	"github.com/radieske/bet-maker/internal/bet-maker/repo"
	"github.com/radieske/bet-maker/internal/bet-maker/resolver"
	"github.com/radieske/bet-maker/internal/shared/cache"
	"github.com/radieske/bet-maker/internal/shared/config"
	"github.com/radieske/bet-maker/internal/shared/db"
	"github.com/radieske/bet-maker/internal/shared/kafka"
	"github.com/radieske/bet-maker/internal/shared/logger"
	"github.com/radieske/bet-maker/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	// Postgres (ledger de apostas)
	pg, err := db.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()
	log.Info("postgres connected")

	// Redis (cache de eventos)
	rdb, err := cache.ConnectRedis(cfg.CacheURL)
	if err != nil {
		log.Fatal("failed to connect redis", zap.Error(err))
	}
	defer rdb.Close()
	log.Info("redis connected")

	// Kafka writer (tópico bet_placed)
	writer := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetPlaced)
	defer writer.Close()

	// deps
	eventCache := bmcache.NewEventCache(rdb, cfg.EventCacheTTL)
	lineClient := provider.New(cfg.LineProviderURL, cfg.LineProviderTimeout)
	res := resolver.New(log, eventCache, lineClient)
	ledger := repo.NewPostgres(pg)
	publ := kpub.NewKafkaPublisher(writer, cfg.TopicBetPlaced)
	eng := engine.New(log, res, ledger, publ, cfg.MinBetAmount, cfg.MaxBetAmount)

	// metrics/health
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		return nil
	})
	log.Info("metrics/health", zap.String("addr", ":"+cfg.MetricsPort))

	// HTTP público
	api := bmhttp.NewServer(log, eng)
	apiSrv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: api.Router(),
	}

	log.Info("bet-maker listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
