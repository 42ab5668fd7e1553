package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresStore keeps the same whole-blob read/replace contract as the Redis
// backend, with one jsonb row per deal id. Chosen when DATABASE_URL is set.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects, verifies the connection and ensures the schema.
func OpenPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &PostgresStore{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgresStore wraps an existing handle (tests).
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS deal_states (
			deal_id    TEXT PRIMARY KEY,
			state      JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE TABLE IF NOT EXISTS commentary (
			id         TEXT PRIMARY KEY,
			item       JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) LoadDeal(ctx context.Context, dealID string) (DealState, bool, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, `SELECT state FROM deal_states WHERE deal_id = $1`, dealID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return DealState{}, false, nil
	}
	if err != nil {
		return DealState{}, false, fmt.Errorf("load deal %s: %w", dealID, err)
	}

	var state DealState
	if err := json.Unmarshal(raw, &state); err != nil {
		log.Printf("store: malformed state for deal %s, starting fresh: %v", dealID, err)
		return DealState{}, false, nil
	}
	return state, true, nil
}

func (s *PostgresStore) SaveDeal(ctx context.Context, state DealState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal deal state: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO deal_states (deal_id, state, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (deal_id) DO UPDATE SET state = EXCLUDED.state, updated_at = now()
	`, state.Deal.ID, data)
	if err != nil {
		return fmt.Errorf("save deal %s: %w", state.Deal.ID, err)
	}
	return nil
}

func (s *PostgresStore) ListDeals(ctx context.Context) ([]DealState, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT deal_id, state FROM deal_states ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	defer rows.Close()

	var states []DealState
	for rows.Next() {
		var dealID string
		var raw []byte
		if err := rows.Scan(&dealID, &raw); err != nil {
			return nil, fmt.Errorf("scan deal row: %w", err)
		}
		var state DealState
		if err := json.Unmarshal(raw, &state); err != nil {
			log.Printf("store: malformed state for deal %s skipped: %v", dealID, err)
			continue
		}
		states = append(states, state)
	}
	return states, rows.Err()
}

func (s *PostgresStore) SaveCommentary(ctx context.Context, item Commentary) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal commentary: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO commentary (id, item, created_at) VALUES ($1, $2, $3)
	`, item.ID, data, item.CreatedAt); err != nil {
		return fmt.Errorf("save commentary: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListCommentary(ctx context.Context) ([]Commentary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT item FROM commentary ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list commentary: %w", err)
	}
	defer rows.Close()

	var items []Commentary
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan commentary row: %w", err)
		}
		var item Commentary
		if err := json.Unmarshal(raw, &item); err != nil {
			log.Printf("store: malformed commentary entry skipped: %v", err)
			continue
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *PostgresStore) DeleteAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `TRUNCATE deal_states, commentary`); err != nil {
		return fmt.Errorf("clear memory: %w", err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
