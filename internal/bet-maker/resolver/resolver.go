package resolver

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/bet-maker/pkg/contracts/line"
)

var (
	cacheHits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "betmaker_event_cache_hits_total",
		Help: "Leituras de evento atendidas pelo cache",
	}, []string{"lookup"})
	cacheMisses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "betmaker_event_cache_misses_total",
		Help: "Leituras de evento que foram até o line provider",
	}, []string{"lookup"})
)

func init() {
	prometheus.MustRegister(cacheHits, cacheMisses)
}

// EventCache é o cache TTL de snapshots de eventos
type EventCache interface {
	Get(ctx context.Context, eventID string) (*line.Event, bool, error)
	Put(ctx context.Context, ev line.Event) error
	GetAll(ctx context.Context) ([]line.Event, bool, error)
	PutAll(ctx context.Context, evs []line.Event) error
}

// EventSource é a fonte de verdade (line provider)
type EventSource interface {
	FetchEvent(ctx context.Context, eventID string) (*line.Event, error)
	FetchAllEvents(ctx context.Context) ([]line.Event, error)
}

// Resolver compõe cache + source no padrão cache-aside:
// tenta o cache, no miss busca do provider e popula o cache.
// Erros do provider sobem sem retry; retry é problema de quem chama.
type Resolver struct {
	log    *zap.Logger
	cache  EventCache
	source EventSource
}

func New(log *zap.Logger, c EventCache, s EventSource) *Resolver {
	return &Resolver{log: log, cache: c, source: s}
}

// Resolve busca um evento: cache primeiro, provider no miss.
// Not-found do provider sobe direto, sem cachear resultado negativo.
func (r *Resolver) Resolve(ctx context.Context, eventID string) (*line.Event, error) {
	ev, ok, err := r.cache.Get(ctx, eventID)
	if err != nil {
		// cache fora do ar não derruba a leitura; segue pro provider
		r.log.Warn("event cache read failed", zap.String("event_id", eventID), zap.Error(err))
	}
	if ok {
		cacheHits.WithLabelValues("event").Inc()
		return ev, nil
	}
	cacheMisses.WithLabelValues("event").Inc()

	fetched, err := r.source.FetchEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Put(ctx, *fetched); err != nil {
		r.log.Warn("event cache write failed", zap.String("event_id", eventID), zap.Error(err))
	}
	return fetched, nil
}

// ResolveAll busca o snapshot completo com a mesma política
func (r *Resolver) ResolveAll(ctx context.Context) ([]line.Event, error) {
	evs, ok, err := r.cache.GetAll(ctx)
	if err != nil {
		r.log.Warn("event list cache read failed", zap.Error(err))
	}
	if ok {
		cacheHits.WithLabelValues("list").Inc()
		return evs, nil
	}
	cacheMisses.WithLabelValues("list").Inc()

	fetched, err := r.source.FetchAllEvents(ctx)
	if err != nil {
		return nil, err
	}

	if err := r.cache.PutAll(ctx, fetched); err != nil {
		r.log.Warn("event list cache write failed", zap.Error(err))
	}
	return fetched, nil
}
