package dto

type CreateBetRequest struct {
	EventID string  `json:"event_id"`
	Amount  float64 `json:"amount"`
}
