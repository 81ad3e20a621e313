package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	cfg.MaxConns = 8
	cfg.MinConns = 1
	cfg.HealthCheckPeriod = 30 * time.Second
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS customers (
	id         UUID PRIMARY KEY,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL UNIQUE,
	phone      TEXT,
	address    TEXT,
	cpf        TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE UNIQUE INDEX IF NOT EXISTS customers_cpf_key ON customers (cpf) WHERE cpf IS NOT NULL;

CREATE TABLE IF NOT EXISTS products (
	id          UUID PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT,
	price_cents BIGINT NOT NULL CHECK (price_cents >= 0),
	stock       INT NOT NULL DEFAULT 0 CHECK (stock >= 0),
	category    TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS orders (
	id          UUID PRIMARY KEY,
	customer_id UUID NOT NULL REFERENCES customers (id),
	status      TEXT NOT NULL DEFAULT 'Pending',
	total_cents BIGINT NOT NULL DEFAULT 0 CHECK (total_cents >= 0),
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS orders_customer_idx ON orders (customer_id);
CREATE INDEX IF NOT EXISTS orders_created_idx ON orders (created_at DESC);

CREATE TABLE IF NOT EXISTS order_lines (
	id               UUID PRIMARY KEY,
	order_id         UUID NOT NULL REFERENCES orders (id) ON DELETE CASCADE,
	line_no          INT NOT NULL,
	product_id       UUID NOT NULL REFERENCES products (id),
	qty              INT NOT NULL CHECK (qty >= 1),
	unit_price_cents BIGINT NOT NULL,
	subtotal_cents   BIGINT NOT NULL,
	UNIQUE (order_id, line_no)
);
CREATE INDEX IF NOT EXISTS order_lines_product_idx ON order_lines (product_id);
`

// Migrate bootstraps the schema. Every statement is idempotent, so running
// it on every start is safe.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	_, err := db.Exec(ctx, schema)
	return err
}
