package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/bet-maker/internal/bet-maker/engine"
	"github.com/radieske/bet-maker/internal/bet-maker/repo"
	"github.com/radieske/bet-maker/internal/shared/config"
	"github.com/radieske/bet-maker/internal/shared/db"
	"github.com/radieske/bet-maker/internal/shared/kafka"
	"github.com/radieske/bet-maker/internal/shared/logger"
	"github.com/radieske/bet-maker/internal/shared/metrics"
	ev "github.com/radieske/bet-maker/pkg/contracts/events"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Postgres: assentamento das apostas do evento resolvido
	pg, err := db.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("pg connect", zap.Error(err))
	}
	defer pg.Close()

	// Kafka consumer: resultados de eventos publicados pelo line provider
	reader := kafka.NewReader(cfg.KafkaBrokers, cfg.TopicEventResults, "bet-settlement")
	defer reader.Close()

	var dlqWriter *kafkago.Writer
	if cfg.TopicEventResultsDLQ != "" {
		dlqWriter = kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicEventResultsDLQ)
		defer dlqWriter.Close()
	}

	// O worker só precisa do ledger; resolver e publisher ficam de fora
	ledger := repo.NewPostgres(pg)
	eng := engine.New(log, nil, ledger, nil, 0, 0)

	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return pg.PingContext(ctx)
	})

	log.Info("bet-settlement-worker started", zap.String("consume", cfg.TopicEventResults))

	ctx := context.Background()

	// Loop principal: consome resultados e assenta as apostas do evento
	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			log.Warn("kafka read", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		var result ev.EventResult
		if jerr := json.Unmarshal(msg.Value, &result); jerr != nil {
			log.Error("unmarshal event_result", zap.Error(jerr))
			sendToDLQ(ctx, log, dlqWriter, msg.Value, "unmarshal: "+jerr.Error())
			continue
		}

		if err := processOne(ctx, log, eng, &result); err != nil {
			log.Error("settle event", zap.String("event_id", result.EventID), zap.Error(err))
			sendToDLQ(ctx, log, dlqWriter, msg.Value, err.Error())
			// Backoff simples para evitar flood em caso de erro
			time.Sleep(500 * time.Millisecond)
		}
	}
}

// processOne aplica o resultado de um evento às apostas pendentes.
// Status sem mapeamento (evento ainda aberto) é descartado sem erro.
func processOne(ctx context.Context, log *zap.Logger, eng *engine.Engine, result *ev.EventResult) error {
	if _, ok := engine.MapOutcome(result.Status); !ok {
		log.Debug("ignoring unfinished event status",
			zap.String("event_id", result.EventID),
			zap.String("status", string(result.Status)),
		)
		return nil
	}

	updated, err := eng.ApplyEventOutcome(ctx, result.EventID, result.Status)
	if err != nil {
		return fmt.Errorf("apply outcome: %w", err)
	}

	log.Info("event settled",
		zap.String("event_id", result.EventID),
		zap.String("status", string(result.Status)),
		zap.Int("bets_updated", len(updated)),
	)
	return nil
}

// sendToDLQ publica a mensagem problemática na DLQ, se configurada
func sendToDLQ(ctx context.Context, log *zap.Logger, w *kafkago.Writer, payload []byte, reason string) {
	if w == nil {
		return
	}
	if err := kafka.WriteJSON(ctx, w, reason, payload); err != nil {
		log.Error("dlq publish failed", zap.Error(err))
	}
}
