package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/bet-maker/internal/bet-maker/engine"
	"github.com/radieske/bet-maker/internal/bet-maker/provider"
	"github.com/radieske/bet-maker/internal/bet-maker/repo"
	"github.com/radieske/bet-maker/pkg/contracts/line"
)

type fakeService struct {
	bet       *repo.Bet
	bets      []repo.Bet
	events    []line.Event
	createErr error
	listErr   error
}

func (f *fakeService) CreateBet(_ context.Context, eventID string, amount float64) (*repo.Bet, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.bet, nil
}

func (f *fakeService) ListBets(_ context.Context) ([]repo.Bet, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.bets, nil
}

func (f *fakeService) GetBet(_ context.Context, id int64) (*repo.Bet, error) {
	if f.bet != nil && f.bet.ID == id {
		return f.bet, nil
	}
	return nil, nil
}

func (f *fakeService) ListEvents(_ context.Context) ([]line.Event, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.events, nil
}

func doRequest(t *testing.T, svc BetService, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	srv := NewServer(zap.NewNop(), svc)
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestCreateBet_Success(t *testing.T) {
	bet := &repo.Bet{
		ID: 1, EventID: "e1", Amount: 100.0, Coefficient: 1.85,
		Status: repo.BetPending, CreatedAt: time.Now(),
	}
	rec := doRequest(t, &fakeService{bet: bet}, http.MethodPost, "/bet", `{"event_id":"e1","amount":100.0}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Status string   `json:"status"`
		Data   repo.Bet `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, int64(1), resp.Data.ID)
	assert.Equal(t, 1.85, resp.Data.Coefficient)
	assert.Equal(t, repo.BetPending, resp.Data.Status)
}

func TestCreateBet_BadJSON(t *testing.T) {
	rec := doRequest(t, &fakeService{}, http.MethodPost, "/bet", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateBet_MissingEventID(t *testing.T) {
	rec := doRequest(t, &fakeService{}, http.MethodPost, "/bet", `{"amount":100.0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateBet_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"event not found", &engine.EventNotFoundError{EventID: "x"}, http.StatusNotFound},
		{"deadline passed", &engine.DeadlinePassedError{EventID: "x"}, http.StatusBadRequest},
		{"invalid amount", &engine.InvalidAmountError{Amount: 0, Min: 1, Max: 10}, http.StatusBadRequest},
		{"upstream unavailable", &provider.UpstreamError{Op: "fetch event", Cause: errors.New("timeout")}, http.StatusBadGateway},
		{"persistence failure", errors.New("insert bet: connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, &fakeService{createErr: tc.err}, http.MethodPost, "/bet", `{"event_id":"e1","amount":100.0}`)

			assert.Equal(t, tc.code, rec.Code)
			var resp struct {
				Status  string `json:"status"`
				Message string `json:"message"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "error", resp.Status)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestCreateBet_InternalErrorDoesNotLeakDetail(t *testing.T) {
	rec := doRequest(t, &fakeService{createErr: errors.New("pq: password authentication failed")},
		http.MethodPost, "/bet", `{"event_id":"e1","amount":100.0}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestListBets(t *testing.T) {
	bets := []repo.Bet{
		{ID: 2, EventID: "e1", Amount: 200, Status: repo.BetWon},
		{ID: 1, EventID: "e1", Amount: 100, Status: repo.BetPending},
	}
	rec := doRequest(t, &fakeService{bets: bets}, http.MethodGet, "/bets", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Bets []repo.Bet `json:"bets"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	require.Len(t, resp.Data.Bets, 2)
	assert.Equal(t, int64(2), resp.Data.Bets[0].ID)
}

func TestGetBet(t *testing.T) {
	bet := &repo.Bet{ID: 7, EventID: "e1", Amount: 50, Status: repo.BetPending}
	svc := &fakeService{bet: bet}

	rec := doRequest(t, svc, http.MethodGet, "/bet/7", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, svc, http.MethodGet, "/bet/99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, svc, http.MethodGet, "/bet/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListEvents(t *testing.T) {
	evs := []line.Event{
		{EventID: "e1", Coefficient: 1.85, Deadline: time.Now().Add(time.Hour), Status: line.StatusNew},
	}
	rec := doRequest(t, &fakeService{events: evs}, http.MethodGet, "/events", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Events []line.Event `json:"events"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Events, 1)
	assert.Equal(t, "e1", resp.Data.Events[0].EventID)
}

func TestListEvents_UpstreamError(t *testing.T) {
	svc := &fakeService{listErr: &provider.UpstreamError{Op: "fetch events", Cause: errors.New("refused")}}
	rec := doRequest(t, svc, http.MethodGet, "/events", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHealth(t *testing.T) {
	rec := doRequest(t, &fakeService{}, http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}
