package postgres

import (
	"context"
	"fmt"
)

// Las tablas de referencia (brands, warehouses) las crea el mismo bootstrap
// pero se siembran por fuera de este sistema; aquí son solo lectura.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS stock_rows (
		document_id     BIGINT NOT NULL,
		action_id       BIGINT NOT NULL,
		document_number TEXT NOT NULL DEFAULT '',
		document_kind   TEXT NOT NULL,
		date            DATE,
		warehouse_id    BIGINT NOT NULL DEFAULT 0,
		warehouse_name  TEXT NOT NULL DEFAULT '',
		product_id      BIGINT NOT NULL DEFAULT 0,
		product_name    TEXT NOT NULL DEFAULT '',
		quantity        NUMERIC NOT NULL DEFAULT 0,
		unit_cost_net   NUMERIC NOT NULL DEFAULT 0,
		total_net       NUMERIC NOT NULL DEFAULT 0,
		total_gross     NUMERIC NOT NULL DEFAULT 0,
		currency        TEXT NOT NULL DEFAULT '',
		exchange_rate   NUMERIC NOT NULL DEFAULT 1,
		PRIMARY KEY (document_id, action_id)
	)`,
	`CREATE TABLE IF NOT EXISTS sale_rows (
		document_id    BIGINT NOT NULL,
		position_id    BIGINT NOT NULL,
		number         TEXT NOT NULL DEFAULT '',
		kind           TEXT NOT NULL DEFAULT '',
		type           TEXT NOT NULL DEFAULT '',
		channel        TEXT NOT NULL DEFAULT '',
		date           DATE,
		product_id     BIGINT NOT NULL DEFAULT 0,
		product_name   TEXT NOT NULL DEFAULT '',
		brand          TEXT NOT NULL DEFAULT '',
		model          TEXT NOT NULL DEFAULT '',
		color          TEXT NOT NULL DEFAULT '',
		size           TEXT NOT NULL DEFAULT '',
		quantity       NUMERIC NOT NULL DEFAULT 0,
		total_net      NUMERIC NOT NULL DEFAULT 0,
		total_gross    NUMERIC NOT NULL DEFAULT 0,
		cost_known     BOOLEAN NOT NULL DEFAULT FALSE,
		cost_net       NUMERIC,
		margin_amount  NUMERIC,
		margin_percent NUMERIC,
		PRIMARY KEY (document_id, position_id)
	)`,
	`CREATE TABLE IF NOT EXISTS product_rows (
		product_id  BIGINT PRIMARY KEY,
		code        TEXT NOT NULL DEFAULT '',
		name        TEXT NOT NULL DEFAULT '',
		brand       TEXT NOT NULL DEFAULT '',
		model       TEXT NOT NULL DEFAULT '',
		color       TEXT NOT NULL DEFAULT '',
		size        TEXT NOT NULL DEFAULT '',
		price_net   NUMERIC NOT NULL DEFAULT 0,
		price_gross NUMERIC NOT NULL DEFAULT 0,
		currency    TEXT NOT NULL DEFAULT '',
		updated_at  TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS sync_cursors (
		stream     TEXT PRIMARY KEY,
		next_page  INT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS sync_runs (
		id          UUID PRIMARY KEY,
		stream      TEXT NOT NULL,
		started_at  TIMESTAMPTZ NOT NULL,
		duration_ms BIGINT NOT NULL DEFAULT 0,
		synced      INT NOT NULL DEFAULT 0,
		total       INT NOT NULL DEFAULT 0,
		status      TEXT NOT NULL,
		error       TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS scheduler_state (
		id             SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
		active         BOOLEAN NOT NULL DEFAULT FALSE,
		current_stream TEXT NOT NULL DEFAULT 'warehouse',
		ticks_run      INT NOT NULL DEFAULT 0,
		last_tick_at   TIMESTAMPTZ,
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS brands (
		name         TEXT PRIMARY KEY,
		display_name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS warehouses (
		id   BIGINT PRIMARY KEY,
		name TEXT NOT NULL
	)`,
}

// EnsureSchema crea las tablas del sync si no existen. Idempotente; se corre
// en el arranque antes de aceptar peticiones.
func EnsureSchema(ctx context.Context, q Querier) error {
	for _, stmt := range schemaStatements {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
