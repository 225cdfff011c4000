package repository

import (
	"testing"

	"github.com/stautonico/banking-simulator/internal/db"
	"github.com/stautonico/banking-simulator/internal/db/dbtest"
)

const (
	aliceAccount int64 = 10000001
	bobAccount   int64 = 10000002
	carolAccount int64 = 10000003
)

func setupTestDB(t *testing.T) *db.DB {
	t.Helper()

	database := dbtest.New(t)
	seedAccounts(t, database)
	return database
}

func seedAccounts(t *testing.T, database *db.DB) {
	t.Helper()

	dbtest.SeedAccount(t, database, aliceAccount, "alice", "100.00", "20.00")
	dbtest.SeedAccount(t, database, bobAccount, "bob", "50.00", "0.00")
	dbtest.SeedAccount(t, database, carolAccount, "carol", "0.00", "0.00")
}
