//go:build integration

// Package containers starts throwaway postgres and redis instances for
// integration suites. Containers are shared across suites in one test binary;
// Ryuk reaps them when the run ends.
package containers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

const schema = `
CREATE TABLE IF NOT EXISTS companies (
	id         BIGSERIAL PRIMARY KEY,
	tax_id     TEXT NOT NULL UNIQUE,
	legal_name TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS persons (
	id               BIGSERIAL PRIMARY KEY,
	tax_id           TEXT NOT NULL UNIQUE,
	email            TEXT NOT NULL UNIQUE,
	name             TEXT NOT NULL,
	role             TEXT NOT NULL,
	company_id       BIGINT NOT NULL REFERENCES companies (id),
	password_hash    TEXT NOT NULL,
	lunch_hours      DOUBLE PRECISION,
	daily_work_hours DOUBLE PRECISION,
	hourly_rate      DOUBLE PRECISION,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS entries (
	id          BIGSERIAL PRIMARY KEY,
	punched_at  TIMESTAMPTZ NOT NULL,
	punch_type  TEXT NOT NULL,
	location    TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	person_id   BIGINT NOT NULL REFERENCES persons (id),
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// PostgresContainer wraps a testcontainers postgres instance with the schema
// already applied.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

// TruncateTables empties the given tables and resets their id sequences.
// Pass tables in dependency order.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	_, err := p.DB.ExecContext(ctx,
		fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", strings.Join(tables, ", ")))
	return err
}

// Manager hands out the shared containers. Starting postgres takes seconds,
// so one instance serves every suite in the binary.
type Manager struct {
	mu       sync.Mutex
	postgres *PostgresContainer
	redis    *RedisContainer
}

var manager = &Manager{}

func GetManager() *Manager {
	return manager
}

// GetPostgres returns the shared postgres container, starting it on first use.
func (m *Manager) GetPostgres(t *testing.T) *PostgresContainer {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.postgres != nil {
		return m.postgres
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("timeclock"),
		tcpostgres.WithUsername("timeclock"),
		tcpostgres.WithPassword("timeclock"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to open postgres connection: %v", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to apply schema: %v", err)
	}

	m.postgres = &PostgresContainer{Container: container, DSN: dsn, DB: db}
	return m.postgres
}
