package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/stautonico/banking-simulator/internal/models"
)

// LedgerRepository defines the interface for ledger entry data access
type LedgerRepository interface {
	Create(ctx context.Context, entry *models.LedgerEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.LedgerEntry, error)
	ListByAccount(ctx context.Context, accountNumber int64, limit int) ([]models.LedgerEntry, error)
}

type ledgerRepository struct {
	db DBTX
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db DBTX) LedgerRepository {
	return &ledgerRepository{db: db}
}

// Create appends an entry. A zero CreatedAt is filled in by the database.
func (r *ledgerRepository) Create(ctx context.Context, entry *models.LedgerEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	var createdAt sql.NullTime
	if !entry.CreatedAt.IsZero() {
		createdAt = sql.NullTime{Time: entry.CreatedAt, Valid: true}
	}

	query := `
		INSERT INTO ledger_entries (id, sender, recipient, amount, created_at)
		VALUES ($1, $2, $3, $4, COALESCE($5, NOW()))
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		entry.ID,
		entry.Sender,
		entry.Recipient,
		entry.Amount,
		createdAt,
	).Scan(&entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create ledger entry: %w", err)
	}

	return nil
}

func (r *ledgerRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.LedgerEntry, error) {
	query := `
		SELECT id, sender, recipient, amount, created_at
		FROM ledger_entries
		WHERE id = $1
	`

	var entry models.LedgerEntry
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&entry.ID,
		&entry.Sender,
		&entry.Recipient,
		&entry.Amount,
		&entry.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("ledger entry not found: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find ledger entry: %w", err)
	}

	return &entry, nil
}

// ListByAccount returns entries where the account is sender or recipient,
// most recent first
func (r *ledgerRepository) ListByAccount(ctx context.Context, accountNumber int64, limit int) ([]models.LedgerEntry, error) {
	query := `
		SELECT id, sender, recipient, amount, created_at
		FROM ledger_entries
		WHERE sender = $1 OR recipient = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, accountNumber, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	entries := make([]models.LedgerEntry, 0, limit)
	for rows.Next() {
		var entry models.LedgerEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.Sender,
			&entry.Recipient,
			&entry.Amount,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}

	return entries, nil
}
