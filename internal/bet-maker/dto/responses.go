package dto

import (
	"github.com/radieske/bet-maker/internal/bet-maker/repo"
	"github.com/radieske/bet-maker/pkg/contracts/line"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope padrão: {status, message?, data?}
type BetResponse struct {
	Status  string    `json:"status"`
	Message string    `json:"message,omitempty"`
	Data    *repo.Bet `json:"data,omitempty"`
}

type BetsList struct {
	Bets []repo.Bet `json:"bets"`
}

type BetsListResponse struct {
	Status string   `json:"status"`
	Data   BetsList `json:"data"`
}

type EventsList struct {
	Events []line.Event `json:"events"`
}

type EventsListResponse struct {
	Status string     `json:"status"`
	Data   EventsList `json:"data"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
