// Package dbtest starts a throwaway PostgreSQL for database-backed tests.
package dbtest

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/stautonico/banking-simulator/internal/config"
	"github.com/stautonico/banking-simulator/internal/db"
)

const image = "postgres:16-alpine"

var (
	startOnce sync.Once
	dsn       string
	startErr  error
)

// Logger discards everything; tests assert on behaviour, not log lines.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// New returns a connection to a migrated, empty database. The container is
// shared by every test in the package and reaped when the test binary exits.
func New(t *testing.T) *db.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	startOnce.Do(func() {
		dsn, startErr = start()
	})
	require.NoError(t, startErr, "failed to start postgres container")

	cfg := &config.DatabaseConfig{
		URL:             dsn,
		MaxOpenConns:    20,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Minute,
	}
	database, err := db.Connect(context.Background(), cfg, Logger())
	require.NoError(t, err, "failed to connect to test database")
	t.Cleanup(func() {
		//nolint:errcheck // Closing a test pool
		database.Close()
	})

	Reset(t, database)
	return database
}

func start() (string, error) {
	ctx := context.Background()

	ctr, err := tcpostgres.Run(ctx, image,
		tcpostgres.WithDatabase("bank_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		return "", err
	}

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return "", err
	}

	if err := db.Migrate(&config.DatabaseConfig{URL: connStr}, Logger()); err != nil {
		return "", err
	}
	return connStr, nil
}

// Reset empties every table.
func Reset(t *testing.T, database *db.DB) {
	t.Helper()

	_, err := database.ExecContext(context.Background(),
		`TRUNCATE TABLE ledger_entries, idempotency_keys, accounts CASCADE`)
	require.NoError(t, err, "failed to truncate tables")
}

// SeedAccount inserts an account with fixed balances and returns its number.
// Username and email are derived from the username argument.
func SeedAccount(t *testing.T, database *db.DB, accountNumber int64, username, checking, savings string) int64 {
	t.Helper()

	_, err := database.ExecContext(context.Background(), `
		INSERT INTO accounts (
			id, account_number, username, email, first_name, last_name,
			password_hash, checking, savings
		) VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, 'x', $6, $7)`,
		accountNumber,
		username,
		username+"@example.com",
		username,
		"Tester",
		decimal.RequireFromString(checking),
		decimal.RequireFromString(savings),
	)
	require.NoError(t, err, "failed to seed account %s", username)

	return accountNumber
}
