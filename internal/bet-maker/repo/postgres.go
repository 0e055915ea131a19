package repo

import (
	"context"
	"database/sql"
	"fmt"
)

// Postgres implementa a persistência de apostas em banco Postgres
type Postgres struct{ db *sql.DB }

// NewPostgres retorna uma instância do repositório de apostas
func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// Insert insere uma nova aposta e devolve a linha com o id atribuído.
// Statement único: a inserção é atômica por si só.
func (p *Postgres) Insert(ctx context.Context, b *Bet) (*Bet, error) {
	stored := *b
	err := p.db.QueryRowContext(ctx, `
		INSERT INTO bets (event_id, amount, coefficient, status, created_at)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id`,
		b.EventID, b.Amount, b.Coefficient, b.Status, b.CreatedAt,
	).Scan(&stored.ID)
	if err != nil {
		return nil, fmt.Errorf("insert bet: %w", err)
	}
	return &stored, nil
}

// ListAll retorna todas as apostas, mais recentes primeiro.
// O desempate por id garante ordem total estável.
func (p *Postgres) ListAll(ctx context.Context) ([]Bet, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, event_id, amount, coefficient, status, created_at
		FROM bets
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list bets: %w", err)
	}
	defer rows.Close()

	return scanBets(rows)
}

// GetByID retorna uma aposta pelo id; (nil, nil) quando não existe
func (p *Postgres) GetByID(ctx context.Context, id int64) (*Bet, error) {
	var b Bet
	err := p.db.QueryRowContext(ctx, `
		SELECT id, event_id, amount, coefficient, status, created_at
		FROM bets WHERE id=$1`, id,
	).Scan(&b.ID, &b.EventID, &b.Amount, &b.Coefficient, &b.Status, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get bet %d: %w", id, err)
	}
	return &b, nil
}

// UpdateStatusForEvent aplica o novo status a todas as apostas PENDING do
// evento, num único UPDATE atômico, e devolve as linhas alteradas.
// Apostas já terminais não são tocadas: chamadas repetidas são no-op e um
// resultado conflitante nunca sobrescreve um status já assentado.
func (p *Postgres) UpdateStatusForEvent(ctx context.Context, eventID string, status BetStatus) ([]Bet, error) {
	rows, err := p.db.QueryContext(ctx, `
		UPDATE bets SET status=$2
		WHERE event_id=$1 AND status=$3
		RETURNING id, event_id, amount, coefficient, status, created_at`,
		eventID, status, BetPending)
	if err != nil {
		return nil, fmt.Errorf("update bets for event %s: %w", eventID, err)
	}
	defer rows.Close()

	return scanBets(rows)
}

func scanBets(rows *sql.Rows) ([]Bet, error) {
	bets := []Bet{}
	for rows.Next() {
		var b Bet
		if err := rows.Scan(&b.ID, &b.EventID, &b.Amount, &b.Coefficient, &b.Status, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan bet: %w", err)
		}
		bets = append(bets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bets: %w", err)
	}
	return bets, nil
}
