package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/radieske/bet-maker/internal/shared/config"
	"github.com/radieske/bet-maker/internal/shared/kafka"
	"github.com/radieske/bet-maker/internal/shared/logger"
	ev "github.com/radieske/bet-maker/pkg/contracts/events"
	"github.com/radieske/bet-maker/pkg/contracts/line"
)

var (
	upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}

	// Métricas Prometheus para monitoramento do simulador
	wsConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "lineprovider_ws_connections",
		Help: "Clientes WebSocket conectados",
	})
	eventsResolved = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lineprovider_events_resolved_total",
		Help: "Eventos resolvidos e publicados",
	})
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lineprovider_http_requests_total",
		Help: "Requisições HTTP atendidas",
	}, []string{"path"})
)

// Representa uma conexão de cliente WebSocket
type clientConn struct {
	id   string
	conn *websocket.Conn
}

// hub gerencia os clientes conectados via WebSocket e faz broadcast
type hub struct {
	mu      sync.RWMutex
	clients map[string]*clientConn
	log     *zap.Logger
}

func newHub(log *zap.Logger) *hub {
	return &hub{
		clients: make(map[string]*clientConn),
		log:     log,
	}
}

func (h *hub) add(c *clientConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.id] = c
	wsConnections.Inc()
	h.log.Info("ws client connected", zap.String("client_id", c.id))
}

func (h *hub) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[id]; ok {
		delete(h.clients, id)
		wsConnections.Dec()
		h.log.Info("ws client disconnected", zap.String("client_id", id))
	}
}

func (h *hub) broadcast(v any) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	msg, _ := json.Marshal(v)
	for id, c := range h.clients {
		c.conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.log.Warn("ws write failed", zap.String("client_id", id), zap.Error(err))
			_ = c.conn.Close()
		}
	}
}

// catalog mantém o estado dos eventos simulados.
// Coeficientes flutuam a cada tick; eventos com deadline vencido são
// resolvidos aleatoriamente, uma única vez.
type catalog struct {
	mu     sync.RWMutex
	events map[string]*line.Event
}

func newCatalog(now time.Time) *catalog {
	c := &catalog{events: make(map[string]*line.Event)}
	seeds := []struct {
		id  string
		ttl time.Duration
	}{
		{"MATCH_001", 30 * time.Minute},
		{"MATCH_002", 1 * time.Hour},
		{"MATCH_003", 2 * time.Hour},
		{"MATCH_004", 6 * time.Hour},
	}
	for _, s := range seeds {
		c.events[s.id] = &line.Event{
			EventID:     s.id,
			Coefficient: round2(rnd(1.10, 4.50)),
			Deadline:    now.Add(s.ttl),
			Status:      line.StatusNew,
		}
	}
	return c
}

// snapshot devolve cópias; o estado interno nunca sai do lock
func (c *catalog) snapshot() []line.Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]line.Event, 0, len(c.events))
	for _, e := range c.events {
		out = append(out, *e)
	}
	return out
}

func (c *catalog) get(eventID string) (line.Event, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.events[eventID]
	if !ok {
		return line.Event{}, false
	}
	return *e, true
}

// tick flutua coeficientes dos eventos abertos e resolve os vencidos.
// Retorna os eventos recém-resolvidos para publicação.
func (c *catalog) tick(now time.Time) []line.Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	var resolved []line.Event
	for _, e := range c.events {
		if e.Status.Finished() {
			continue
		}
		if now.After(e.Deadline) {
			if rand.Intn(2) == 0 {
				e.Status = line.StatusFirstTeamWon
			} else {
				e.Status = line.StatusSecondTeamWon
			}
			resolved = append(resolved, *e)
			continue
		}
		// jitter de até ±5% por tick, nunca abaixo de 1.01
		e.Coefficient = round2(e.Coefficient * rnd(0.95, 1.05))
		if e.Coefficient < 1.01 {
			e.Coefficient = 1.01
		}
	}
	return resolved
}

func rnd(min, max float64) float64 {
	return (rand.Float64() * (max - min)) + min
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	prometheus.MustRegister(wsConnections, eventsResolved, httpRequests)

	h := newHub(log)
	cat := newCatalog(time.Now().UTC())

	// Kafka writer: publica resultados consumidos pelo bet-settlement-worker
	resultWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicEventResults)
	defer resultWriter.Close()

	// Ticker: flutua coeficientes, resolve eventos vencidos,
	// publica resultados no Kafka e faz broadcast via WS
	go func() {
		ticker := time.NewTicker(3 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			now := time.Now().UTC()
			resolved := cat.tick(now)

			for _, e := range resolved {
				result := ev.EventResult{
					MessageID: uuid.NewString(),
					EventID:   e.EventID,
					Status:    e.Status,
					Ts:        now,
				}
				payload, _ := json.Marshal(result)
				if err := kafka.WriteJSON(context.Background(), resultWriter, e.EventID, payload); err != nil {
					log.Error("publish event result", zap.String("event_id", e.EventID), zap.Error(err))
					continue
				}
				eventsResolved.Inc()
				log.Info("event resolved",
					zap.String("event_id", e.EventID),
					zap.String("status", string(e.Status)),
				)
			}

			for _, e := range cat.snapshot() {
				h.broadcast(e)
			}
		}
	}()

	// ==== MUX PÚBLICO (contrato HTTP do line provider): /events, /events/{id}, /ws
	r := chi.NewRouter()

	r.Get("/events", func(w http.ResponseWriter, _ *http.Request) {
		httpRequests.WithLabelValues("/events").Inc()
		writeJSON(w, http.StatusOK, line.EventsEnvelope{
			Data: line.EventsPayload{Events: cat.snapshot()},
		})
	})

	r.Get("/events/{event_id}", func(w http.ResponseWriter, req *http.Request) {
		httpRequests.WithLabelValues("/events/{event_id}").Inc()
		e, ok := cat.get(chi.URLParam(req, "event_id"))
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, line.EventEnvelope{Data: e})
	})

	r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
		conn, err := upgrader.Upgrade(w, req, nil)
		if err != nil {
			log.Warn("ws upgrade failed", zap.Error(err))
			return
		}
		id := fmt.Sprintf("%d", time.Now().UnixNano())
		c := &clientConn{id: id, conn: conn}
		h.add(c)

		// Goroutine para manter a conexão viva e remover cliente ao desconectar
		go func() {
			defer func() {
				h.remove(id)
				_ = conn.Close()
			}()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	})

	// ==== MUX DE MÉTRICAS (/healthz, /metrics)
	metricsMux := http.NewServeMux()
	metricsMux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	metricsMux.Handle("/metrics", promhttp.Handler())

	go func() {
		metricsAddr := ":" + cfg.MetricsPort
		log.Info("line provider simulator (metrics) running", zap.String("addr", metricsAddr))
		if err := http.ListenAndServe(metricsAddr, metricsMux); err != nil {
			log.Fatal("metrics server error", zap.Error(err))
		}
	}()

	publicAddr := ":" + cfg.HTTPPort
	log.Info("line provider simulator (public) running",
		zap.String("addr", publicAddr),
		zap.String("paths", "/events,/events/{event_id},/ws"),
	)
	if err := http.ListenAndServe(publicAddr, r); err != nil {
		log.Fatal("public server error", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
