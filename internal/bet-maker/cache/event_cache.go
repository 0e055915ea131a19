package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/bet-maker/pkg/contracts/line"
)

// EventCache guarda snapshots de eventos do line provider no Redis.
// Cada escrita renova o TTL; a expiração é responsabilidade do Redis,
// o chamador só enxerga presença/ausência.
//
// O cache unitário (event:{id}) e o snapshot de lista (events:all) são
// independentes: atualizar um não invalida o outro. A janela de
// divergência entre os dois é limitada pelo TTL.
type EventCache struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewEventCache cria um cache de eventos com TTL configurável
func NewEventCache(c *redis.Client, ttl time.Duration) *EventCache {
	return &EventCache{Client: c, TTL: ttl}
}

func keyEvent(eventID string) string { return "event:" + eventID }

const keyEventsAll = "events:all"

// Get retorna o evento cacheado, se presente e não expirado
func (c *EventCache) Get(ctx context.Context, eventID string) (*line.Event, bool, error) {
	b, err := c.Client.Get(ctx, keyEvent(eventID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var ev line.Event
	if err := json.Unmarshal(b, &ev); err != nil {
		return nil, false, err
	}
	return &ev, true, nil
}

// Put armazena o evento, renovando o TTL
func (c *EventCache) Put(ctx context.Context, ev line.Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, keyEvent(ev.EventID), b, c.TTL).Err()
}

// GetAll retorna o snapshot completo de eventos, se presente
func (c *EventCache) GetAll(ctx context.Context) ([]line.Event, bool, error) {
	b, err := c.Client.Get(ctx, keyEventsAll).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var evs []line.Event
	if err := json.Unmarshal(b, &evs); err != nil {
		return nil, false, err
	}
	return evs, true, nil
}

// PutAll armazena o snapshot completo com a mesma política de TTL
func (c *EventCache) PutAll(ctx context.Context, evs []line.Event) error {
	b, err := json.Marshal(evs)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, keyEventsAll, b, c.TTL).Err()
}
