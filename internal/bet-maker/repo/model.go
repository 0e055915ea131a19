package repo

import "time"

// Status de uma aposta. PENDING vira WON ou LOST exatamente uma vez,
// quando o evento é resolvido; depois disso o status é terminal.
type BetStatus string

const (
	BetPending BetStatus = "PENDING"
	BetWon     BetStatus = "WON"
	BetLost    BetStatus = "LOST"
)

// Bet é a aposta persistida no Postgres.
// Coefficient é o coeficiente do evento no momento da aceitação;
// nunca é recalculado mesmo que o evento mude depois.
type Bet struct {
	ID          int64     `json:"id"`
	EventID     string    `json:"event_id"`
	Amount      float64   `json:"amount"`
	Coefficient float64   `json:"coefficient"`
	Status      BetStatus `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
