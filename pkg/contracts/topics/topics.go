package topics

const (
	// Bets
	BetPlaced = "bet_placed"

	// Resultados de eventos (line provider -> settlement worker)
	EventResults = "event_results"

	// DLQ
	EventResultsDLQ = "event_results_dlq"
)
