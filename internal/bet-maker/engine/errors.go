package engine

import "fmt"

// EventNotFoundError: o event_id não resolve nem via cache nem via provider.
type EventNotFoundError struct {
	EventID string
}

func (e *EventNotFoundError) Error() string {
	return fmt.Sprintf("event %s not found", e.EventID)
}

// DeadlinePassedError: o prazo de apostas do evento já passou.
type DeadlinePassedError struct {
	EventID string
}

func (e *DeadlinePassedError) Error() string {
	return fmt.Sprintf("betting deadline for event %s has passed", e.EventID)
}

// InvalidAmountError: valor fora dos limites configurados.
type InvalidAmountError struct {
	Amount float64
	Min    float64
	Max    float64
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("bet amount %.2f outside allowed range [%.2f, %.2f]", e.Amount, e.Min, e.Max)
}
