package events

// Evento publicado no tópico "bet_placed" após uma aposta ser aceita.
type BetPlaced struct {
	MessageID   string  `json:"message_id"` // uuid, para dedupe no consumidor
	BetID       int64   `json:"bet_id"`
	EventID     string  `json:"event_id"`
	Amount      float64 `json:"amount"`
	Coefficient float64 `json:"coefficient"` // coeficiente travado na aceitação
	TsUnixMs    int64   `json:"ts_unix_ms"`
}
