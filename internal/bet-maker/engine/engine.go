package engine

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/bet-maker/internal/bet-maker/provider"
	"github.com/radieske/bet-maker/internal/bet-maker/repo"
	"github.com/radieske/bet-maker/pkg/contracts/events"
	"github.com/radieske/bet-maker/pkg/contracts/line"
)

var (
	betsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "betmaker_bets_created_total",
		Help: "Apostas aceitas e persistidas",
	})
	betsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "betmaker_bets_rejected_total",
		Help: "Apostas rejeitadas na validação",
	}, []string{"reason"})
	betsSettled = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "betmaker_bets_settled_total",
		Help: "Apostas assentadas por resultado de evento",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(betsCreated, betsRejected, betsSettled)
}

// EventResolver resolve eventos via cache + line provider
type EventResolver interface {
	Resolve(ctx context.Context, eventID string) (*line.Event, error)
	ResolveAll(ctx context.Context) ([]line.Event, error)
}

// BetLedger é a persistência durável de apostas
type BetLedger interface {
	Insert(ctx context.Context, b *repo.Bet) (*repo.Bet, error)
	ListAll(ctx context.Context) ([]repo.Bet, error)
	GetByID(ctx context.Context, id int64) (*repo.Bet, error)
	UpdateStatusForEvent(ctx context.Context, eventID string, status repo.BetStatus) ([]repo.Bet, error)
}

// BetPlacedPublisher publica o evento bet_placed após a aceitação
type BetPlacedPublisher interface {
	PublishBetPlaced(ctx context.Context, e events.BetPlaced) error
}

// Engine orquestra a criação e o assentamento de apostas.
// Valida a aposta contra o evento resolvido (existência, prazo, limites),
// trava o coeficiente no momento da aceitação e delega a escrita ao ledger.
type Engine struct {
	log      *zap.Logger
	resolver EventResolver
	ledger   BetLedger
	publ     BetPlacedPublisher // opcional; nil desliga a publicação

	minAmount float64
	maxAmount float64

	now func() time.Time
}

func New(log *zap.Logger, r EventResolver, l BetLedger, p BetPlacedPublisher, minAmount, maxAmount float64) *Engine {
	return &Engine{
		log:       log,
		resolver:  r,
		ledger:    l,
		publ:      p,
		minAmount: minAmount,
		maxAmount: maxAmount,
		now:       time.Now,
	}
}

// CreateBet valida e persiste uma aposta.
// A ordem das validações importa: existência, depois prazo, depois valor.
func (e *Engine) CreateBet(ctx context.Context, eventID string, amount float64) (*repo.Bet, error) {
	ev, err := e.resolver.Resolve(ctx, eventID)
	if err != nil {
		if errors.Is(err, provider.ErrEventNotFound) {
			betsRejected.WithLabelValues("event_not_found").Inc()
			return nil, &EventNotFoundError{EventID: eventID}
		}
		return nil, err
	}

	now := e.now()
	if !now.Before(ev.Deadline) {
		betsRejected.WithLabelValues("deadline_passed").Inc()
		return nil, &DeadlinePassedError{EventID: eventID}
	}

	if amount < e.minAmount || amount > e.maxAmount {
		betsRejected.WithLabelValues("invalid_amount").Inc()
		return nil, &InvalidAmountError{Amount: amount, Min: e.minAmount, Max: e.maxAmount}
	}

	bet := &repo.Bet{
		EventID:     eventID,
		Amount:      amount,
		Coefficient: ev.Coefficient, // preço travado na aceitação
		Status:      repo.BetPending,
		CreatedAt:   now,
	}

	stored, err := e.ledger.Insert(ctx, bet)
	if err != nil {
		return nil, err
	}
	betsCreated.Inc()

	if e.publ != nil {
		if perr := e.publ.PublishBetPlaced(ctx, events.BetPlaced{
			BetID:       stored.ID,
			EventID:     stored.EventID,
			Amount:      stored.Amount,
			Coefficient: stored.Coefficient,
		}); perr != nil {
			// melhor esforço: a aposta já está durável
			e.log.Warn("bet_placed publish failed", zap.Int64("bet_id", stored.ID), zap.Error(perr))
		}
	}

	e.log.Info("bet accepted",
		zap.Int64("bet_id", stored.ID),
		zap.String("event_id", stored.EventID),
		zap.Float64("amount", stored.Amount),
		zap.Float64("coefficient", stored.Coefficient),
	)
	return stored, nil
}

// ListBets delega ao ledger (ordem: mais recentes primeiro)
func (e *Engine) ListBets(ctx context.Context) ([]repo.Bet, error) {
	return e.ledger.ListAll(ctx)
}

// GetBet retorna uma aposta pelo id; (nil, nil) quando não existe
func (e *Engine) GetBet(ctx context.Context, id int64) (*repo.Bet, error) {
	return e.ledger.GetByID(ctx, id)
}

// ListEvents expõe o snapshot de eventos resolvido via cache-aside
func (e *Engine) ListEvents(ctx context.Context) ([]line.Event, error) {
	return e.resolver.ResolveAll(ctx)
}

// MapOutcome traduz o resultado de um evento para o status de aposta.
// Status sem mapeamento (ex.: NEW) não mexe em aposta nenhuma.
func MapOutcome(status line.EventStatus) (repo.BetStatus, bool) {
	switch status {
	case line.StatusFirstTeamWon:
		return repo.BetWon, true
	case line.StatusSecondTeamWon:
		return repo.BetLost, true
	default:
		return "", false
	}
}

// ApplyEventOutcome assenta as apostas pendentes de um evento resolvido.
// Apostas já terminais não são reabertas nem sobrescritas (ver ledger).
func (e *Engine) ApplyEventOutcome(ctx context.Context, eventID string, status line.EventStatus) ([]repo.Bet, error) {
	mapped, ok := MapOutcome(status)
	if !ok {
		return nil, nil
	}

	updated, err := e.ledger.UpdateStatusForEvent(ctx, eventID, mapped)
	if err != nil {
		return nil, err
	}
	if len(updated) > 0 {
		betsSettled.WithLabelValues(string(mapped)).Add(float64(len(updated)))
	}

	e.log.Info("event outcome applied",
		zap.String("event_id", eventID),
		zap.String("status", string(status)),
		zap.Int("bets_updated", len(updated)),
	)
	return updated, nil
}
