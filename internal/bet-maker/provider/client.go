package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/radieske/bet-maker/pkg/contracts/line"
)

// ErrEventNotFound indica que o line provider respondeu 404 para o evento.
// Não é uma falha do provider; o evento simplesmente não existe (mais).
var ErrEventNotFound = errors.New("event not found at line provider")

// UpstreamError indica que o line provider está indisponível: timeout,
// erro de conexão, status inesperado ou corpo malformado.
type UpstreamError struct {
	Op    string // "fetch event" | "fetch events"
	Cause error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("line provider unavailable (%s): %v", e.Op, e.Cause)
}

func (e *UpstreamError) Unwrap() error { return e.Cause }

// Client consulta o line provider via HTTP com timeout limitado.
// Não faz cache nem retry; isso é responsabilidade de quem chama.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// FetchEvent busca um evento pelo id.
// 404 vira ErrEventNotFound; qualquer outra falha vira UpstreamError.
func (c *Client) FetchEvent(ctx context.Context, eventID string) (*line.Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/events/"+eventID, nil)
	if err != nil {
		return nil, &UpstreamError{Op: "fetch event", Cause: err}
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &UpstreamError{Op: "fetch event", Cause: err}
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, ErrEventNotFound
	}
	if res.StatusCode != http.StatusOK {
		return nil, &UpstreamError{Op: "fetch event", Cause: fmt.Errorf("http %d", res.StatusCode)}
	}

	var env line.EventEnvelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return nil, &UpstreamError{Op: "fetch event", Cause: err}
	}
	return &env.Data, nil
}

// FetchAllEvents busca a lista completa de eventos.
// Lista vazia é resposta válida, não é erro.
func (c *Client) FetchAllEvents(ctx context.Context) ([]line.Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/events", nil)
	if err != nil {
		return nil, &UpstreamError{Op: "fetch events", Cause: err}
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &UpstreamError{Op: "fetch events", Cause: err}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, &UpstreamError{Op: "fetch events", Cause: fmt.Errorf("http %d", res.StatusCode)}
	}

	var env line.EventsEnvelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return nil, &UpstreamError{Op: "fetch events", Cause: err}
	}
	return env.Data.Events, nil
}
