package events

import (
	"time"

	"github.com/radieske/bet-maker/pkg/contracts/line"
)

// Evento publicado no tópico "event_results" quando o line provider
// resolve um evento. Consumido pelo bet-settlement-worker.
type EventResult struct {
	MessageID string           `json:"message_id"` // uuid
	EventID   string           `json:"event_id"`
	Status    line.EventStatus `json:"status"` // FIRST_TEAM_WON | SECOND_TEAM_WON
	Ts        time.Time        `json:"ts"`
}
