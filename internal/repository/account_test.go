package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stautonico/banking-simulator/internal/models"
)

func newAccount(number int64, username string) *models.Account {
	return &models.Account{
		AccountNumber: number,
		Owner: models.Identity{
			Username:     username,
			Email:        username + "@bank.test",
			FirstName:    "Dana",
			LastName:     "Scully",
			PasswordHash: "hash",
		},
		Checking: decimal.Zero,
		Savings:  decimal.Zero,
	}
}

func TestAccountRepository_Create(t *testing.T) {
	database := setupTestDB(t)
	repo := NewAccountRepository(database)
	ctx := context.Background()

	t.Run("creates account with zero balances", func(t *testing.T) {
		account := newAccount(123456789, "dana")

		err := repo.Create(ctx, account)
		require.NoError(t, err, "unexpected error")
		assert.NotEqual(t, uuid.Nil, account.ID, "ID should be assigned")
		assert.False(t, account.CreatedAt.IsZero(), "created_at should be set")

		stored, err := repo.FindByAccountNumber(ctx, 123456789)
		require.NoError(t, err, "failed to read back account")
		assert.Equal(t, "dana", stored.Owner.Username)
		assert.True(t, stored.Checking.IsZero(), "checking should be zero")
		assert.True(t, stored.Savings.IsZero(), "savings should be zero")
	})

	t.Run("taken account number", func(t *testing.T) {
		err := repo.Create(ctx, newAccount(aliceAccount, "fox"))
		assert.ErrorIs(t, err, models.ErrAccountNumberTaken)
	})

	t.Run("taken username", func(t *testing.T) {
		account := newAccount(223456789, "alice")
		account.Owner.Email = "other@bank.test"

		err := repo.Create(ctx, account)
		assert.ErrorIs(t, err, models.ErrDuplicateIdentity)
	})

	t.Run("taken email", func(t *testing.T) {
		account := newAccount(323456789, "walter")
		account.Owner.Email = "bob@example.com"

		err := repo.Create(ctx, account)
		assert.ErrorIs(t, err, models.ErrDuplicateIdentity)
	})
}

func TestAccountRepository_Create_ConcurrentSameNumber(t *testing.T) {
	database := setupTestDB(t)
	repo := NewAccountRepository(database)

	const workers = 10
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		created  int
		rejected int
	)

	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := repo.Create(context.Background(), newAccount(555555555, "racer"+string(rune('a'+i))))

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				created++
				return
			}
			if assert.ErrorIs(t, err, models.ErrAccountNumberTaken) {
				rejected++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, created, "exactly one insert should win the number")
	assert.Equal(t, workers-1, rejected, "every other insert should see a collision")
}

func TestAccountRepository_IdentityExists(t *testing.T) {
	database := setupTestDB(t)
	repo := NewAccountRepository(database)

	tests := []struct {
		name     string
		username string
		email    string
		want     bool
	}{
		{name: "username taken", username: "alice", email: "new@bank.test", want: true},
		{name: "email taken", username: "newbie", email: "bob@example.com", want: true},
		{name: "both free", username: "newbie", email: "new@bank.test", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exists, err := repo.IdentityExists(context.Background(), tt.username, tt.email)
			require.NoError(t, err, "unexpected error")
			assert.Equal(t, tt.want, exists)
		})
	}
}

func TestAccountRepository_FindByAccountNumber(t *testing.T) {
	database := setupTestDB(t)
	repo := NewAccountRepository(database)

	tests := []struct {
		name          string
		accountNumber int64
		wantUsername  string
		wantChecking  string
		wantErr       bool
	}{
		{
			name:          "existing account",
			accountNumber: aliceAccount,
			wantUsername:  "alice",
			wantChecking:  "100.00",
		},
		{
			name:          "non-existent account",
			accountNumber: 99999999,
			wantErr:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account, err := repo.FindByAccountNumber(context.Background(), tt.accountNumber)

			if tt.wantErr {
				assert.ErrorIs(t, err, models.ErrNotFound)
				assert.Nil(t, account, "expected nil account")
				return
			}

			require.NoError(t, err, "unexpected error")
			require.NotNil(t, account, "expected account")

			assert.Equal(t, tt.accountNumber, account.AccountNumber, "account number mismatch")
			assert.Equal(t, tt.wantUsername, account.Owner.Username, "username mismatch")
			assert.True(t, decimal.RequireFromString(tt.wantChecking).Equal(account.Checking), "checking mismatch")
		})
	}
}

func TestAccountRepository_FindByUsername(t *testing.T) {
	database := setupTestDB(t)
	repo := NewAccountRepository(database)

	account, err := repo.FindByUsername(context.Background(), "bob")
	require.NoError(t, err, "unexpected error")
	assert.Equal(t, bobAccount, account.AccountNumber)

	_, err = repo.FindByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAccountRepository_FindByOwner(t *testing.T) {
	database := setupTestDB(t)
	repo := NewAccountRepository(database)

	tests := []struct {
		name      string
		firstName string
		lastName  string
		email     string
		want      int64
		wantErr   bool
	}{
		{name: "exact match", firstName: "carol", lastName: "Tester", email: "carol@example.com", want: carolAccount},
		{name: "wrong email", firstName: "carol", lastName: "Tester", email: "alice@example.com", wantErr: true},
		{name: "case differs", firstName: "Carol", lastName: "Tester", email: "carol@example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account, err := repo.FindByOwner(context.Background(), tt.firstName, tt.lastName, tt.email)
			if tt.wantErr {
				assert.ErrorIs(t, err, models.ErrNotFound)
				return
			}
			require.NoError(t, err, "unexpected error")
			assert.Equal(t, tt.want, account.AccountNumber)
		})
	}
}

func TestAccountRepository_AdjustBalances(t *testing.T) {
	database := setupTestDB(t)
	repo := NewAccountRepository(database)
	ctx := context.Background()

	tests := []struct {
		name          string
		accountNumber int64
		checking      string
		savings       string
		wantChecking  string
		wantSavings   string
		wantNotFound  bool
		wantErr       bool
	}{
		{
			name:          "debit checking",
			accountNumber: aliceAccount,
			checking:      "-40.00",
			savings:       "0",
			wantChecking:  "60.00",
			wantSavings:   "20.00",
		},
		{
			name:          "move checking to savings",
			accountNumber: aliceAccount,
			checking:      "-10.50",
			savings:       "10.50",
			wantChecking:  "49.50",
			wantSavings:   "30.50",
		},
		{
			name:          "overdraft rejected by constraint",
			accountNumber: carolAccount,
			checking:      "-0.01",
			savings:       "0",
			wantErr:       true,
		},
		{
			name:          "non-existent account",
			accountNumber: 99999999,
			checking:      "1.00",
			savings:       "0",
			wantNotFound:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.AdjustBalances(ctx, tt.accountNumber,
				decimal.RequireFromString(tt.checking),
				decimal.RequireFromString(tt.savings),
			)

			if tt.wantNotFound {
				assert.ErrorIs(t, err, models.ErrNotFound)
				return
			}
			if tt.wantErr {
				assert.Error(t, err, "expected error")
				return
			}
			require.NoError(t, err, "unexpected error")

			account, err := repo.FindByAccountNumber(ctx, tt.accountNumber)
			require.NoError(t, err, "failed to read account")
			assert.True(t, decimal.RequireFromString(tt.wantChecking).Equal(account.Checking),
				"checking: want %s, got %s", tt.wantChecking, account.Checking)
			assert.True(t, decimal.RequireFromString(tt.wantSavings).Equal(account.Savings),
				"savings: want %s, got %s", tt.wantSavings, account.Savings)
		})
	}
}

func TestAccountRepository_ForUpdate_NoLostUpdates(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	const workers = 20
	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			tx, err := database.BeginTx(ctx, nil)
			if !assert.NoError(t, err) {
				return
			}
			defer func() {
				_ = tx.Rollback() //nolint:errcheck // rollback after commit is a no-op
			}()

			repo := NewAccountRepository(tx)
			if _, err := repo.FindByAccountNumberForUpdate(ctx, bobAccount); !assert.NoError(t, err) {
				return
			}
			if err := repo.AdjustBalances(ctx, bobAccount, decimal.RequireFromString("1.00"), decimal.Zero); !assert.NoError(t, err) {
				return
			}
			assert.NoError(t, tx.Commit())
		}()
	}
	wg.Wait()

	account, err := NewAccountRepository(database).FindByAccountNumber(ctx, bobAccount)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("70.00").Equal(account.Checking), "got %s", account.Checking)
}
