package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/radieske/bet-maker/internal/bet-maker/dto"
	"github.com/radieske/bet-maker/internal/bet-maker/engine"
	"github.com/radieske/bet-maker/internal/bet-maker/provider"
	"github.com/radieske/bet-maker/internal/bet-maker/repo"
	"github.com/radieske/bet-maker/pkg/contracts/line"
)

// BetService é a fatia do engine consumida pela camada HTTP
type BetService interface {
	CreateBet(ctx context.Context, eventID string, amount float64) (*repo.Bet, error)
	ListBets(ctx context.Context) ([]repo.Bet, error)
	GetBet(ctx context.Context, id int64) (*repo.Bet, error)
	ListEvents(ctx context.Context) ([]line.Event, error)
}

// Server expõe a API pública do bet-maker
type Server struct {
	log *zap.Logger
	svc BetService
}

func NewServer(log *zap.Logger, svc BetService) *Server {
	return &Server{log: log, svc: svc}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Post("/bet", s.createBet)
	r.Get("/bets", s.listBets)
	r.Get("/bet/{bet_id}", s.getBet)
	r.Get("/events", s.listEvents)
	r.Get("/health", s.health)
	return r
}

func (s *Server) createBet(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.EventID == "" {
		writeError(w, http.StatusBadRequest, "event_id is required")
		return
	}

	bet, err := s.svc.CreateBet(r.Context(), req.EventID, req.Amount)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BetResponse{
		Status:  dto.StatusSuccess,
		Message: "bet accepted",
		Data:    bet,
	})
}

func (s *Server) listBets(w http.ResponseWriter, r *http.Request) {
	bets, err := s.svc.ListBets(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.BetsListResponse{
		Status: dto.StatusSuccess,
		Data:   dto.BetsList{Bets: bets},
	})
}

func (s *Server) getBet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "bet_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bet_id must be an integer")
		return
	}

	bet, err := s.svc.GetBet(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if bet == nil {
		writeError(w, http.StatusNotFound, "bet not found")
		return
	}

	writeJSON(w, http.StatusOK, dto.BetResponse{Status: dto.StatusSuccess, Data: bet})
}

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	evs, err := s.svc.ListEvents(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.EventsListResponse{
		Status: dto.StatusSuccess,
		Data:   dto.EventsList{Events: evs},
	})
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, dto.HealthResponse{Status: "healthy"})
}

// writeDomainError mapeia a taxonomia de erros do domínio para status HTTP.
// Erros fora da taxonomia viram 500 genérico, sem vazar detalhe interno.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	var (
		notFound *engine.EventNotFoundError
		deadline *engine.DeadlinePassedError
		amount   *engine.InvalidAmountError
		upstream *provider.UpstreamError
	)

	switch {
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, notFound.Error())
	case errors.As(err, &deadline):
		writeError(w, http.StatusBadRequest, deadline.Error())
	case errors.As(err, &amount):
		writeError(w, http.StatusBadRequest, amount.Error())
	case errors.As(err, &upstream):
		writeError(w, http.StatusBadGateway, "line provider unavailable")
	default:
		s.log.Error("unexpected error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, dto.ErrorResponse{Status: dto.StatusError, Message: msg})
}
