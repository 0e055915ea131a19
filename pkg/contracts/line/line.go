package line

import "time"

// Status de um evento no line provider.
// Um evento nasce NEW e termina em um dos WON; não há transição de volta.
type EventStatus string

const (
	StatusNew           EventStatus = "NEW"
	StatusFirstTeamWon  EventStatus = "FIRST_TEAM_WON"
	StatusSecondTeamWon EventStatus = "SECOND_TEAM_WON"
)

// Finished indica se o evento já foi resolvido pelo line provider.
func (s EventStatus) Finished() bool {
	return s == StatusFirstTeamWon || s == StatusSecondTeamWon
}

// Event é o evento apostável publicado pelo line provider.
// O bet-maker apenas lê e cacheia; o estado pertence ao provider.
type Event struct {
	EventID     string      `json:"event_id"`
	Coefficient float64     `json:"coefficient"`
	Deadline    time.Time   `json:"deadline"`
	Status      EventStatus `json:"status"`
}

// Envelopes do contrato HTTP do line provider:
// GET /events            -> 200 EventsEnvelope
// GET /events/{event_id} -> 200 EventEnvelope | 404
type EventEnvelope struct {
	Data Event `json:"data"`
}

type EventsEnvelope struct {
	Data EventsPayload `json:"data"`
}

type EventsPayload struct {
	Events []Event `json:"events"`
}
