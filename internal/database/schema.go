package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS orders (
		id UUID PRIMARY KEY,
		subtotal NUMERIC(12, 2) NOT NULL,
		discount NUMERIC(12, 2) NOT NULL,
		total NUMERIC(12, 2) NOT NULL,
		budget NUMERIC(12, 2) NOT NULL DEFAULT 0,
		client_total NUMERIC(12, 2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS order_lines (
		order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		position INT NOT NULL,
		product_id TEXT NOT NULL,
		name TEXT NOT NULL,
		brand TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		price NUMERIC(12, 2) NOT NULL,
		quantity INT NOT NULL CHECK (quantity >= 1),
		PRIMARY KEY (order_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS ai_requests (
		id UUID PRIMARY KEY,
		request_type TEXT NOT NULL,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		prompt TEXT NOT NULL,
		response_payload JSONB,
		raw_response TEXT,
		success BOOLEAN NOT NULL,
		error_message TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS ai_requests_created_at_idx ON ai_requests (created_at)`,
}

// EnsureSchema создает таблицы заказов и журнала AI-запросов, если их нет.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, statement := range schemaStatements {
		if _, err := pool.Exec(ctx, statement); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
