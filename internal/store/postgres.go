package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const channelsSchema = `
CREATE TABLE IF NOT EXISTS channels (
	channel_id TEXT PRIMARY KEY,
	is_active  BOOLEAN NOT NULL DEFAULT FALSE
)`

// Postgres persists active-channel flags in a channels table.
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects, verifies the connection, and ensures the schema.
func OpenPostgres(ctx context.Context, connString string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	if _, err := pool.Exec(ctx, channelsSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure channels table: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) SetActive(ctx context.Context, channelID string, active bool) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO channels (channel_id, is_active) VALUES ($1, $2)
		ON CONFLICT (channel_id) DO UPDATE SET is_active = EXCLUDED.is_active`,
		channelID, active)
	if err != nil {
		return fmt.Errorf("set channel %s active=%t: %w", channelID, active, err)
	}
	return nil
}

func (p *Postgres) IsActive(ctx context.Context, channelID string) (bool, error) {
	var active bool
	err := p.pool.QueryRow(ctx,
		`SELECT is_active FROM channels WHERE channel_id = $1`, channelID).Scan(&active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("read channel %s: %w", channelID, err)
	}
	return active, nil
}

func (p *Postgres) ActiveChannels(ctx context.Context) ([]string, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT channel_id FROM channels WHERE is_active ORDER BY channel_id`)
	if err != nil {
		return nil, fmt.Errorf("list active channels: %w", err)
	}
	defer rows.Close()

	var channels []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan channel row: %w", err)
		}
		channels = append(channels, id)
	}
	return channels, rows.Err()
}

func (p *Postgres) Close() {
	p.pool.Close()
}
